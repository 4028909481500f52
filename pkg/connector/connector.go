// Package connector extracts connector geometry from model elements
// independently of the element's concrete kind.
package connector

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/pipesys/pkg/model"
)

// ErrNoConnectors means the element exposes no connector-bearing
// capability at all. It is distinct from a capability with zero connectors.
var ErrNoConnectors = errors.New("no connectors available")

// Source returns the element's connector source with the highest
// precedence (MEP model, then system aggregate, then conduit).
func Source(e *model.Element) (model.ConnectorSource, error) {
	var best model.ConnectorSource
	for _, s := range e.Sources {
		if s == nil {
			continue
		}
		if best == nil || s.Capability() < best.Capability() {
			best = s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", e.Label(), ErrNoConnectors)
	}
	return best, nil
}

// Connectors returns the element's connectors in the manager's native order.
func Connectors(e *model.Element) ([]model.Connector, error) {
	src, err := Source(e)
	if err != nil {
		return nil, err
	}
	cons := src.Connectors().Connectors()
	if cons == nil {
		cons = []model.Connector{}
	}
	return cons, nil
}

// Points returns the connector origins of an element in document
// coordinates, in the manager's native order.
func Points(e *model.Element) ([]v3.Vec, error) {
	cons, err := Connectors(e)
	if err != nil {
		return nil, err
	}
	pts := make([]v3.Vec, 0, len(cons))
	for _, c := range cons {
		pts = append(pts, c.Origin)
	}
	return pts, nil
}
