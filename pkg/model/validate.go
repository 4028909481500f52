package model

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultTolerance is the distance in feet below which two connector
// origins are considered coincident.
const DefaultTolerance = 1e-6

// ValidationSeverity indicates whether a finding is a modeling defect or
// merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // modeling defect
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Element  ElementID          // offending element (zero if document-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Element == InvalidElementID {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] element %s: %s", e.Severity, e.Element, e.Message)
}

// Validate runs the structural and topology checks on a document and
// returns every finding. It never mutates the document.
func Validate(doc *Document) ([]ValidationError, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, err
	}
	var errs []ValidationError
	errs = append(errs, validateIDs(elems)...)
	errs = append(errs, validateConnectors(elems)...)
	errs = append(errs, validateCapabilities(elems)...)
	errs = append(errs, validateDiameters(elems)...)
	errs = append(errs, validateOpenEnds(elems, DefaultTolerance)...)
	return errs, nil
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateIDs checks that no two elements share an ID.
func validateIDs(elems []*Element) []ValidationError {
	var errs []ValidationError
	seen := make(map[ElementID]int)
	for _, e := range elems {
		seen[e.ID]++
	}
	for _, e := range elems {
		if n := seen[e.ID]; n > 1 {
			errs = append(errs, ValidationError{
				Element:  e.ID,
				Message:  fmt.Sprintf("duplicate element id shared by %d elements", n),
				Severity: SeverityError,
			})
			seen[e.ID] = 0 // report once
		}
	}
	return errs
}

// validateConnectors checks connector ownership and coordinates.
func validateConnectors(elems []*Element) []ValidationError {
	var errs []ValidationError
	for _, e := range elems {
		for _, src := range e.Sources {
			if src == nil {
				continue
			}
			mgr := src.Connectors()
			if mgr == nil {
				continue
			}
			if mgr.Owner() != e.ID {
				errs = append(errs, ValidationError{
					Element:  e.ID,
					Message:  fmt.Sprintf("%s connector manager belongs to %s", src.Capability(), mgr.Owner()),
					Severity: SeverityError,
				})
			}
			for _, c := range mgr.Connectors() {
				if !finite(c.Origin) {
					errs = append(errs, ValidationError{
						Element:  e.ID,
						Message:  fmt.Sprintf("connector %d has non-finite origin", c.Index),
						Severity: SeverityError,
					})
				}
			}
		}
	}
	return errs
}

// validateCapabilities warns about piping elements with nothing to connect.
func validateCapabilities(elems []*Element) []ValidationError {
	var errs []ValidationError
	for _, e := range elems {
		if e.IsType || !isPiping(e) {
			continue
		}
		if !hasSource(e) {
			errs = append(errs, ValidationError{
				Element:  e.ID,
				Message:  fmt.Sprintf("%s exposes no connector capability", e.Label()),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDiameters warns about pipes with a non-positive diameter.
func validateDiameters(elems []*Element) []ValidationError {
	var errs []ValidationError
	for _, e := range elems {
		if e.Class != ClassPipe {
			continue
		}
		if !(e.Diameter > 0) {
			errs = append(errs, ValidationError{
				Element:  e.ID,
				Message:  fmt.Sprintf("pipe diameter is %.4f, must be positive", e.Diameter),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateOpenEnds warns about pipe and fitting connectors that coincide
// with no connector of any other element.
func validateOpenEnds(elems []*Element, tol float64) []ValidationError {
	type point struct {
		owner  ElementID
		origin v3.Vec
	}
	var all []point
	for _, e := range elems {
		for _, src := range e.Sources {
			if src == nil {
				continue
			}
			for _, c := range src.Connectors().Connectors() {
				all = append(all, point{owner: e.ID, origin: c.Origin})
			}
		}
	}

	var errs []ValidationError
	for _, e := range elems {
		if e.IsType || !isPiping(e) {
			continue
		}
		for _, src := range e.Sources {
			if src == nil {
				continue
			}
			for _, c := range src.Connectors().Connectors() {
				connected := false
				for _, p := range all {
					if p.owner != e.ID && p.origin.Sub(c.Origin).Length() <= tol {
						connected = true
						break
					}
				}
				if !connected {
					errs = append(errs, ValidationError{
						Element:  e.ID,
						Message:  fmt.Sprintf("connector %d is an open end", c.Index),
						Severity: SeverityWarning,
					})
				}
			}
		}
	}
	return errs
}

func hasSource(e *Element) bool {
	for _, src := range e.Sources {
		if src != nil {
			return true
		}
	}
	return false
}

func isPiping(e *Element) bool {
	return e.Category == CategoryPipeCurves || e.Category == CategoryPipeFittings
}

func finite(v v3.Vec) bool {
	for _, f := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
