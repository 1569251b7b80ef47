package csdl

import "fmt"

// ParseErrorKind classifies the ways a metadata document can be rejected.
type ParseErrorKind int

const (
	// Malformed means the document is not well-formed XML.
	Malformed ParseErrorKind = iota
	// UnsupportedElement means a structural element the generator does not
	// understand appeared where a type or property declaration was expected.
	// Unknown attributes are ignored; unknown elements are not, since
	// silently dropping them would generate incomplete structs.
	UnsupportedElement
)

// ParseError is returned when a CSDL document cannot be turned into a Schema.
type ParseError struct {
	Kind    ParseErrorKind
	Element string // offending element name, when known
	Err     error  // underlying decoder error, when any
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnsupportedElement:
		return fmt.Sprintf("unsupported element <%s> in metadata document", e.Element)
	default:
		if e.Err != nil {
			return fmt.Sprintf("malformed metadata document: %v", e.Err)
		}
		return "malformed metadata document"
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
