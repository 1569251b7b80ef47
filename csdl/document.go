package csdl

import "encoding/xml"

// Declarative shapes for the Edmx envelope. Only the attributes the
// generator consumes are declared; encoding/xml drops the rest. Each
// container carries an Extra catch-all so the parser can reject structural
// elements it does not understand instead of silently eating them.

type xmlEdmx struct {
	Version      string          `xml:"Version,attr"`
	DataServices xmlDataServices `xml:"DataServices"`

	// V4 vocabulary references carry no type declarations.
	Reference []xmlIgnored `xml:"Reference"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlDataServices struct {
	Schema []xmlSchema `xml:"Schema"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlSchema struct {
	Namespace string `xml:"Namespace,attr"`
	Alias     string `xml:"Alias,attr"`

	EntityType  []xmlEntityType  `xml:"EntityType"`
	ComplexType []xmlComplexType `xml:"ComplexType"`
	EnumType    []xmlEnumType    `xml:"EnumType"`
	Association []xmlAssociation `xml:"Association"`

	// Recognized but not consumed. Declared so they do not trip the
	// unknown-element check below.
	EntityContainer []xmlIgnored `xml:"EntityContainer"`
	Annotations     []xmlIgnored `xml:"Annotations"`
	Annotation      []xmlIgnored `xml:"Annotation"`
	Using           []xmlIgnored `xml:"Using"`
	Documentation   []xmlIgnored `xml:"Documentation"`
	Function        []xmlIgnored `xml:"Function"`
	Action          []xmlIgnored `xml:"Action"`
	Term            []xmlIgnored `xml:"Term"`
	TypeDefinition  []xmlIgnored `xml:"TypeDefinition"`
	ValueTerm       []xmlIgnored `xml:"ValueTerm"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlEntityType struct {
	Name      string `xml:"Name,attr"`
	BaseType  string `xml:"BaseType,attr"`
	Abstract  bool   `xml:"Abstract,attr"`
	OpenType  bool   `xml:"OpenType,attr"`
	HasStream bool   `xml:"HasStream,attr"`

	Key                *xmlKey                 `xml:"Key"`
	Property           []xmlProperty           `xml:"Property"`
	NavigationProperty []xmlNavigationProperty `xml:"NavigationProperty"`
	Annotation         []xmlIgnored            `xml:"Annotation"`
	Documentation      []xmlIgnored            `xml:"Documentation"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlComplexType struct {
	Name     string `xml:"Name,attr"`
	BaseType string `xml:"BaseType,attr"`
	Abstract bool   `xml:"Abstract,attr"`
	OpenType bool   `xml:"OpenType,attr"`

	Property           []xmlProperty           `xml:"Property"`
	NavigationProperty []xmlNavigationProperty `xml:"NavigationProperty"`
	Annotation         []xmlIgnored            `xml:"Annotation"`
	Documentation      []xmlIgnored            `xml:"Documentation"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlEnumType struct {
	Name           string `xml:"Name,attr"`
	UnderlyingType string `xml:"UnderlyingType,attr"`
	IsFlags        bool   `xml:"IsFlags,attr"`

	Member        []xmlEnumMember `xml:"Member"`
	Annotation    []xmlIgnored    `xml:"Annotation"`
	Documentation []xmlIgnored    `xml:"Documentation"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlEnumMember struct {
	Name  string  `xml:"Name,attr"`
	Value *string `xml:"Value,attr"`
}

type xmlKey struct {
	PropertyRef []xmlPropertyRef `xml:"PropertyRef"`
}

type xmlPropertyRef struct {
	Name string `xml:"Name,attr"`
}

// Facet attributes are kept as strings: V4 allows symbolic values such as
// MaxLength="max" and Scale="variable".
type xmlProperty struct {
	Name         string `xml:"Name,attr"`
	Type         string `xml:"Type,attr"`
	Nullable     *bool  `xml:"Nullable,attr"`
	MaxLength    string `xml:"MaxLength,attr"`
	Precision    string `xml:"Precision,attr"`
	Scale        string `xml:"Scale,attr"`
	DefaultValue string `xml:"DefaultValue,attr"`
}

// xmlNavigationProperty covers both CSDL shapes: the V3 association
// reference (Relationship/FromRole/ToRole) and the V4 direct type
// reference (Type, optionally Collection-wrapped).
type xmlNavigationProperty struct {
	Name           string `xml:"Name,attr"`
	Relationship   string `xml:"Relationship,attr"`
	FromRole       string `xml:"FromRole,attr"`
	ToRole         string `xml:"ToRole,attr"`
	Type           string `xml:"Type,attr"`
	Nullable       *bool  `xml:"Nullable,attr"`
	Partner        string `xml:"Partner,attr"`
	ContainsTarget bool   `xml:"ContainsTarget,attr"`
}

type xmlAssociation struct {
	Name string   `xml:"Name,attr"`
	End  []xmlEnd `xml:"End"`

	ReferentialConstraint []xmlIgnored `xml:"ReferentialConstraint"`
	Documentation         []xmlIgnored `xml:"Documentation"`

	Extra []xmlUnknown `xml:",any"`
}

type xmlEnd struct {
	Role         string `xml:"Role,attr"`
	Type         string `xml:"Type,attr"`
	Multiplicity string `xml:"Multiplicity,attr"`
}

// xmlIgnored swallows a recognized element and its content.
type xmlIgnored struct{}

// xmlUnknown captures the name of an element nothing else matched.
type xmlUnknown struct {
	XMLName xml.Name
}
