// Package csdl parses OData CSDL metadata documents into a normalized,
// reference-resolved schema model.
package csdl

import "sort"

// Multiplicity is the cardinality of an association endpoint.
type Multiplicity string

const (
	One       Multiplicity = "1"
	ZeroOrOne Multiplicity = "0..1"
	Many      Multiplicity = "*"
)

// Schema is the flattened, namespace-qualified view of every <Schema>
// section in a metadata document. It is created once at parse time and
// never mutated afterwards.
type Schema struct {
	Entities     map[string]*EntityType
	Complexes    map[string]*ComplexType
	Enums        map[string]*EnumType
	Associations map[string]*Association
}

// Namespaces returns the sorted set of namespaces that declared types.
func (s *Schema) Namespaces() []string {
	seen := map[string]bool{}
	add := func(qualified string) {
		if ns := namespaceOf(qualified); ns != "" {
			seen[ns] = true
		}
	}
	for name := range s.Entities {
		add(name)
	}
	for name := range s.Complexes {
		add(name)
	}
	for name := range s.Enums {
		add(name)
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// TypeDef is implemented by the three declaration kinds. Consumers switch
// exhaustively on the concrete type.
type TypeDef interface {
	QualifiedName() string
}

// EntityType is a keyed schema type, the OData analogue of a row type.
type EntityType struct {
	Name        string // qualified
	BaseType    string // qualified, empty when the type has no base
	Abstract    bool
	Keys        []string
	Properties  []Property
	Navigations []NavigationProperty
}

func (t *EntityType) QualifiedName() string { return t.Name }

// ComplexType is an embeddable schema type without identity.
type ComplexType struct {
	Name       string // qualified
	BaseType   string // qualified, empty when the type has no base
	Abstract   bool
	Properties []Property
}

func (t *ComplexType) QualifiedName() string { return t.Name }

// EnumType is a named set of integer constants.
type EnumType struct {
	Name           string // qualified
	UnderlyingType string // EDM integer type, Edm.Int32 when unspecified
	IsFlags        bool
	Members        []EnumMember
}

func (t *EnumType) QualifiedName() string { return t.Name }

// EnumMember is one named value of an EnumType.
type EnumMember struct {
	Name  string
	Value int64
}

// Property is a structural property of an entity or complex type. Facets
// are carried through as raw strings, not enforced: V4 allows symbolic
// values like Scale="variable" alongside numbers.
type Property struct {
	Name     string
	Type     string // EDM primitive or qualified named type
	Nullable bool

	MaxLength    string
	Precision    string
	Scale        string
	DefaultValue string
}

// NavigationProperty records a relationship reference as declared. The
// reference is kept raw here because CSDL documents may declare a type
// before the association or target it names; resolution happens in a
// second pass over the complete Schema.
type NavigationProperty struct {
	Name string

	// V3 shape: reference into Schema.Associations.
	Relationship string // qualified association name
	FromRole     string
	ToRole       string

	// V4 shape: direct target reference.
	Target   string // qualified entity type, empty for V3 declarations
	ToMany   bool
	Nullable bool
}

// Association is the shared two-ended relationship definition referenced by
// navigation properties. Associations are never duplicated at resolution.
type Association struct {
	Name string // qualified
	Ends []AssociationEnd
}

// AssociationEnd is one endpoint of an association.
type AssociationEnd struct {
	Role         string
	Type         string // qualified entity type
	Multiplicity Multiplicity
}

// End returns the endpoint with the given role name.
func (a *Association) End(role string) *AssociationEnd {
	for i := range a.Ends {
		if a.Ends[i].Role == role {
			return &a.Ends[i]
		}
	}
	return nil
}

func namespaceOf(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[:i]
		}
	}
	return ""
}

// LocalName strips the namespace from a qualified name.
func LocalName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
