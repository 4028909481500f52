package model

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// AddPipe adds a pipe curve whose conduit carries connectors at the given
// origins. A well-formed pipe has exactly two.
func (d *Document) AddPipe(name string, diameter float64, origins ...v3.Vec) (*Element, error) {
	id := d.NextID()
	e := &Element{
		ID:       id,
		Category: CategoryPipeCurves,
		Class:    ClassPipe,
		Name:     name,
		Diameter: diameter,
		Sources:  []ConnectorSource{&Conduit{Manager: NewConnectorManager(id, origins...)}},
	}
	if _, err := d.AddElement(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddFitting adds a pipe fitting family instance. When withMEP is false the
// instance has no MEP sub-model and therefore no connectors at all.
func (d *Document) AddFitting(name, family string, withMEP bool, origins ...v3.Vec) (*Element, error) {
	id := d.NextID()
	e := &Element{
		ID:         id,
		Category:   CategoryPipeFittings,
		Class:      ClassFamilyInstance,
		Name:       name,
		FamilyName: family,
	}
	if withMEP {
		e.Sources = []ConnectorSource{&MEPModel{Manager: NewConnectorManager(id, origins...)}}
	}
	if _, err := d.AddElement(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddFittingType adds a fitting family type row. Types are never reported.
func (d *Document) AddFittingType(family string) (*Element, error) {
	e := &Element{
		Category:   CategoryPipeFittings,
		Class:      ClassFamilyInstance,
		Name:       family,
		FamilyName: family,
		IsType:     true,
	}
	if _, err := d.AddElement(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddSystem adds a piping system aggregate.
func (d *Document) AddSystem(name string, origins ...v3.Vec) (*Element, error) {
	id := d.NextID()
	e := &Element{
		ID:       id,
		Category: CategoryPipingSystems,
		Class:    ClassPipingSystem,
		Name:     name,
		Sources:  []ConnectorSource{&SystemAggregate{Manager: NewConnectorManager(id, origins...)}},
	}
	if _, err := d.AddElement(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddEquipment adds a piece of mechanical equipment with no connectors.
func (d *Document) AddEquipment(name string) (*Element, error) {
	e := &Element{
		Category: CategoryMechanicalEquipment,
		Class:    ClassFamilyInstance,
		Name:     name,
	}
	if _, err := d.AddElement(e); err != nil {
		return nil, err
	}
	return e, nil
}
