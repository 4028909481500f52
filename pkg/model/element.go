package model

import "fmt"

// ElementID identifies an element within a document. IDs are assigned
// sequentially from 1 in insertion order.
type ElementID int64

// InvalidElementID is the zero ID; no element ever carries it.
const InvalidElementID ElementID = 0

func (id ElementID) String() string {
	return fmt.Sprintf("#%d", int64(id))
}

// Category is the BIM category an element belongs to.
type Category string

const (
	CategoryPipeCurves          Category = "pipe-curves"
	CategoryPipeFittings        Category = "pipe-fittings"
	CategoryPipingSystems       Category = "piping-systems"
	CategoryMechanicalEquipment Category = "mechanical-equipment"
	CategoryGeneric             Category = "generic"
)

// Class is the underlying element class, independent of category.
type Class string

const (
	ClassPipe           Class = "pipe"
	ClassFamilyInstance Class = "family-instance"
	ClassPipingSystem   Class = "piping-system"
	ClassGeneric        Class = "generic"
)

// Element is an opaque model element. The report only reads through it.
type Element struct {
	ID         ElementID `json:"id"`
	Category   Category  `json:"category"`
	Class      Class     `json:"class"`
	Name       string    `json:"name"`
	FamilyName string    `json:"family_name,omitempty"`
	Diameter   float64   `json:"diameter,omitempty"` // feet, pipes only
	IsType     bool      `json:"is_type,omitempty"`  // element type, not an instance

	// Sources lists the connector-bearing capabilities the element exposes.
	// Most elements have at most one.
	Sources []ConnectorSource `json:"-"`
}

// Label returns a short human-readable identity for diagnostics.
func (e *Element) Label() string {
	if e.Name == "" {
		return fmt.Sprintf("%s %s", e.Class, e.ID)
	}
	return fmt.Sprintf("%s %q (%s)", e.Class, e.Name, e.ID)
}

// Is reports whether the element matches the category and class filter.
func (e *Element) Is(cat Category, cls Class) bool {
	return e.Category == cat && e.Class == cls
}
