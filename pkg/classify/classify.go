// Package classify maps a pipe fitting's connector count to its role.
package classify

import (
	"errors"
	"fmt"
)

// Role is the semantic shape of a fitting.
type Role int

const (
	Plug  Role = iota + 1 // one connector
	Elbow                 // two connectors
	Tee                   // three connectors
)

func (r Role) String() string {
	switch r {
	case Plug:
		return "plug"
	case Elbow:
		return "elbow"
	case Tee:
		return "tee"
	default:
		return "unknown"
	}
}

// ErrUnsupportedShape matches every UnsupportedShapeError.
var ErrUnsupportedShape = errors.New("unsupported fitting shape")

// UnsupportedShapeError reports a connector count outside 1..3.
type UnsupportedShapeError struct {
	Count int
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("%s: %d connectors, expected 1, 2 or 3", ErrUnsupportedShape, e.Count)
}

func (e *UnsupportedShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

// Classify returns the role for a fitting with count connectors.
func Classify(count int) (Role, error) {
	switch count {
	case 1:
		return Plug, nil
	case 2:
		return Elbow, nil
	case 3:
		return Tee, nil
	}
	return 0, &UnsupportedShapeError{Count: count}
}
