// Package model defines the read-only document snapshot consumed by the
// piping report. A Document is an ordered set of elements; elements expose
// connectors through capability variants (MEP model, system aggregate,
// conduit) rather than through their concrete kind.
package model
