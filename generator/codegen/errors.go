package codegen

import "fmt"

// ResolutionErrorKind classifies schema defects found while deriving the
// resolved model.
type ResolutionErrorKind int

const (
	// CyclicInheritance means a base-type chain loops back on itself.
	CyclicInheritance ResolutionErrorKind = iota
	// DuplicateProperty means an inherited and an own property share a
	// name. Shadowing is never silent: it would change which fields are
	// present on the wire.
	DuplicateProperty
	// UnknownType means a base type, property type or association endpoint
	// names a type the schema does not define.
	UnknownType
	// UnknownAssociation means a navigation property references an
	// association or role the schema does not define.
	UnknownAssociation
	// UnknownProperty means a key references a property the type does not
	// declare or inherit.
	UnknownProperty
	// DuplicateMember means two members of an enumeration share a value.
	DuplicateMember
)

// ResolutionError is returned when the parsed schema cannot be resolved
// into a consistent model. Name always carries the offending type, property
// or association so the message is actionable without rereading the source
// document.
type ResolutionError struct {
	Kind   ResolutionErrorKind
	Name   string
	Detail string
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case CyclicInheritance:
		return fmt.Sprintf("inheritance cycle: %s", e.Detail)
	case DuplicateProperty:
		return fmt.Sprintf("type %s: %s", e.Name, e.Detail)
	case UnknownType:
		return fmt.Sprintf("unknown type %s: %s", e.Name, e.Detail)
	case UnknownAssociation:
		return fmt.Sprintf("unknown association %s: %s", e.Name, e.Detail)
	case UnknownProperty:
		return fmt.Sprintf("unknown property %s: %s", e.Name, e.Detail)
	default:
		return fmt.Sprintf("enum %s: %s", e.Name, e.Detail)
	}
}

// EmitError is returned when the resolved model cannot be expressed in Go.
type EmitError struct {
	Property  string // qualified "Type.Property" of the offending field
	Primitive string // the EDM kind nothing maps
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("property %s: unsupported EDM primitive %s", e.Property, e.Primitive)
}
