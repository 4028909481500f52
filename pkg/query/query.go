// Package query enumerates document elements by category and class.
package query

import (
	"fmt"

	"github.com/chazu/pipesys/pkg/model"
)

// FindElements returns every instance element of the given category and
// class in document order. Element types are skipped. No match yields an
// empty slice; a closed document yields an error wrapping
// model.ErrDocumentClosed.
func FindElements(doc *model.Document, cat model.Category, cls model.Class) ([]*model.Element, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, fmt.Errorf("query %s/%s: %w", cat, cls, err)
	}
	out := []*model.Element{}
	for _, e := range elems {
		if e.IsType {
			continue
		}
		if e.Is(cat, cls) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Pipes returns all pipe curve instances.
func Pipes(doc *model.Document) ([]*model.Element, error) {
	return FindElements(doc, model.CategoryPipeCurves, model.ClassPipe)
}

// Fittings returns all pipe fitting family instances.
func Fittings(doc *model.Document) ([]*model.Element, error) {
	return FindElements(doc, model.CategoryPipeFittings, model.ClassFamilyInstance)
}
