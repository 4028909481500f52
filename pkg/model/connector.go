package model

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Connector is a point at which an element attaches to another element.
// Origin is in document coordinates (feet).
type Connector struct {
	Index  int       `json:"index"`
	Origin v3.Vec    `json:"origin"`
	Owner  ElementID `json:"owner"`
}

// ConnectorManager holds the ordered connector set of one element.
type ConnectorManager struct {
	owner      ElementID
	connectors []Connector
}

// NewConnectorManager creates a manager whose connectors sit at the given
// origins, in order.
func NewConnectorManager(owner ElementID, origins ...v3.Vec) *ConnectorManager {
	m := &ConnectorManager{owner: owner}
	for _, o := range origins {
		m.Add(o)
	}
	return m
}

// Add appends a connector at origin and returns it.
func (m *ConnectorManager) Add(origin v3.Vec) Connector {
	c := Connector{Index: len(m.connectors), Origin: origin, Owner: m.owner}
	m.connectors = append(m.connectors, c)
	return c
}

// Owner returns the element the manager belongs to.
func (m *ConnectorManager) Owner() ElementID {
	return m.owner
}

// Size returns the number of connectors.
func (m *ConnectorManager) Size() int {
	if m == nil {
		return 0
	}
	return len(m.connectors)
}

// Connectors returns a copy of the connector set in native order.
func (m *ConnectorManager) Connectors() []Connector {
	if m == nil {
		return nil
	}
	out := make([]Connector, len(m.connectors))
	copy(out, m.connectors)
	return out
}
