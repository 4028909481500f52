package model

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrDocumentClosed is returned by every read on a closed snapshot.
var ErrDocumentClosed = errors.New("model: document is closed")

// ErrDocumentFrozen is returned when adding to a frozen document.
var ErrDocumentFrozen = errors.New("model: document is frozen")

// Document is an in-memory model snapshot. It is populated by a loader,
// frozen, and from then on only read. The report never mutates it.
type Document struct {
	Title string

	elements []*Element
	index    map[ElementID]*Element
	nextID   ElementID
	frozen   bool
	closed   atomic.Bool
}

// New creates an empty, writable document.
func New(title string) *Document {
	return &Document{
		Title:  title,
		index:  make(map[ElementID]*Element),
		nextID: 1,
	}
}

// AddElement assigns the element the next ID and appends it in
// enumeration order. The element's connector managers must be built with
// the returned ID; use NextID to learn it beforehand.
func (d *Document) AddElement(e *Element) (ElementID, error) {
	if d.frozen {
		return InvalidElementID, ErrDocumentFrozen
	}
	if e.ID == InvalidElementID {
		e.ID = d.nextID
	}
	if e.ID >= d.nextID {
		d.nextID = e.ID + 1
	}
	d.elements = append(d.elements, e)
	if _, dup := d.index[e.ID]; !dup {
		d.index[e.ID] = e
	}
	return e.ID, nil
}

// NextID returns the ID the next AddElement call will assign.
func (d *Document) NextID() ElementID {
	return d.nextID
}

// Freeze makes the document read-only.
func (d *Document) Freeze() {
	d.frozen = true
}

// Frozen reports whether Freeze has been called.
func (d *Document) Frozen() bool {
	return d.frozen
}

// Close marks the snapshot unavailable. Subsequent reads fail.
func (d *Document) Close() {
	d.closed.Store(true)
}

// Elements returns every element in enumeration order.
func (d *Document) Elements() ([]*Element, error) {
	if d.closed.Load() {
		return nil, ErrDocumentClosed
	}
	out := make([]*Element, len(d.elements))
	copy(out, d.elements)
	return out, nil
}

// Get returns the element with the given ID, or nil.
func (d *Document) Get(id ElementID) *Element {
	return d.index[id]
}

// MustGet returns the element with the given ID, or panics.
func (d *Document) MustGet(id ElementID) *Element {
	e := d.Get(id)
	if e == nil {
		panic(fmt.Sprintf("model: no element %s", id))
	}
	return e
}

// ElementCount returns the total number of elements, types included.
func (d *Document) ElementCount() int {
	return len(d.elements)
}
