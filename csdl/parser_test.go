package csdl

import (
	"errors"
	"testing"
)

const demoDocument = `<?xml version="1.0" encoding="utf-8"?>
<edmx:Edmx Version="1.0" xmlns:edmx="http://schemas.microsoft.com/ado/2007/06/edmx">
  <edmx:DataServices>
    <Schema Namespace="ODataDemo" Alias="Self" xmlns="http://schemas.microsoft.com/ado/2008/09/edm">
      <EnumType Name="Color">
        <Member Name="Red"/>
        <Member Name="Green"/>
        <Member Name="Blue" Value="10"/>
        <Member Name="Magenta"/>
      </EnumType>
      <ComplexType Name="Address">
        <Property Name="Street" Type="Edm.String"/>
        <Property Name="City" Type="Edm.String" Nullable="false"/>
      </ComplexType>
      <EntityType Name="Person">
        <Key>
          <PropertyRef Name="Id"/>
        </Key>
        <Property Name="Id" Type="Edm.Int32" Nullable="false"/>
        <Property Name="Name" Type="Edm.String"/>
        <Property Name="Home" Type="Self.Address" Nullable="false"/>
        <Property Name="Favorite" Type="Self.Color" Nullable="false"/>
        <NavigationProperty Name="Friends" Relationship="Self.PersonFriends" FromRole="Person" ToRole="Friend"/>
      </EntityType>
      <EntityType Name="Manager" BaseType="Self.Person">
        <Property Name="Budget" Type="Edm.Decimal" Nullable="false"/>
      </EntityType>
      <Association Name="PersonFriends">
        <End Role="Person" Type="Self.Person" Multiplicity="1"/>
        <End Role="Friend" Type="Self.Person" Multiplicity="*"/>
      </Association>
      <EntityContainer Name="DemoService">
        <EntitySet Name="People" EntityType="ODataDemo.Person"/>
      </EntityContainer>
    </Schema>
  </edmx:DataServices>
</edmx:Edmx>`

func TestParseSchemaDemoDocument(t *testing.T) {
	schema, err := ParseSchema(demoDocument)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	person, ok := schema.Entities["ODataDemo.Person"]
	if !ok {
		t.Fatalf("entity ODataDemo.Person not found, have %v", schema.Namespaces())
	}
	if len(person.Keys) != 1 || person.Keys[0] != "Id" {
		t.Errorf("Person.Keys = %v, want [Id]", person.Keys)
	}
	if len(person.Properties) != 4 {
		t.Fatalf("Person has %d properties, want 4", len(person.Properties))
	}

	// Nullable defaults to true and the alias must be expanded.
	name := person.Properties[1]
	if name.Name != "Name" || !name.Nullable {
		t.Errorf("Name property = %+v, want nullable", name)
	}
	home := person.Properties[2]
	if home.Type != "ODataDemo.Address" {
		t.Errorf("Home.Type = %q, want alias expanded to ODataDemo.Address", home.Type)
	}

	if len(person.Navigations) != 1 {
		t.Fatalf("Person has %d navigations, want 1", len(person.Navigations))
	}
	friends := person.Navigations[0]
	if friends.Relationship != "ODataDemo.PersonFriends" || friends.ToRole != "Friend" {
		t.Errorf("Friends navigation = %+v", friends)
	}

	manager, ok := schema.Entities["ODataDemo.Manager"]
	if !ok {
		t.Fatal("entity ODataDemo.Manager not found")
	}
	if manager.BaseType != "ODataDemo.Person" {
		t.Errorf("Manager.BaseType = %q, want ODataDemo.Person", manager.BaseType)
	}

	assoc, ok := schema.Associations["ODataDemo.PersonFriends"]
	if !ok {
		t.Fatal("association ODataDemo.PersonFriends not found")
	}
	friend := assoc.End("Friend")
	if friend == nil || friend.Multiplicity != Many {
		t.Errorf("Friend end = %+v, want multiplicity *", friend)
	}
}

func TestParseSchemaEnumValues(t *testing.T) {
	schema, err := ParseSchema(demoDocument)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	color, ok := schema.Enums["ODataDemo.Color"]
	if !ok {
		t.Fatal("enum ODataDemo.Color not found")
	}
	if color.UnderlyingType != "Edm.Int32" {
		t.Errorf("UnderlyingType = %q, want default Edm.Int32", color.UnderlyingType)
	}

	// Implicit values count up from zero and resume after explicit ones.
	want := []EnumMember{
		{Name: "Red", Value: 0},
		{Name: "Green", Value: 1},
		{Name: "Blue", Value: 10},
		{Name: "Magenta", Value: 11},
	}
	if len(color.Members) != len(want) {
		t.Fatalf("Color has %d members, want %d", len(color.Members), len(want))
	}
	for i, member := range color.Members {
		if member != want[i] {
			t.Errorf("member %d = %+v, want %+v", i, member, want[i])
		}
	}
}

func TestParseSchemaBareSchemaRoot(t *testing.T) {
	doc := `<Schema Namespace="Ns" xmlns="http://docs.oasis-open.org/odata/ns/edm">
  <EntityType Name="Thing">
    <Key><PropertyRef Name="Id"/></Key>
    <Property Name="Id" Type="Edm.Int32" Nullable="false"/>
    <NavigationProperty Name="Parts" Type="Collection(Ns.Part)"/>
    <NavigationProperty Name="Owner" Type="Ns.Person" Nullable="true"/>
  </EntityType>
</Schema>`

	schema, err := ParseSchema(doc)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	thing := schema.Entities["Ns.Thing"]
	if thing == nil {
		t.Fatal("entity Ns.Thing not found")
	}
	if len(thing.Navigations) != 2 {
		t.Fatalf("Thing has %d navigations, want 2", len(thing.Navigations))
	}
	parts := thing.Navigations[0]
	if parts.Target != "Ns.Part" || !parts.ToMany {
		t.Errorf("Parts = %+v, want collection target Ns.Part", parts)
	}
	owner := thing.Navigations[1]
	if owner.Target != "Ns.Person" || owner.ToMany {
		t.Errorf("Owner = %+v, want single-valued target Ns.Person", owner)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    ParseErrorKind
		element string
	}{
		{
			name:  "not xml",
			input: "this is not xml",
			kind:  Malformed,
		},
		{
			name:  "truncated document",
			input: `<Schema Namespace="Ns"><EntityType Name="T">`,
			kind:  Malformed,
		},
		{
			name:  "empty input",
			input: "",
			kind:  Malformed,
		},
		{
			name:    "unexpected root",
			input:   `<Service Namespace="Ns"/>`,
			kind:    UnsupportedElement,
			element: "Service",
		},
		{
			name: "unknown element in schema",
			input: `<Schema Namespace="Ns">
  <Widget Name="W"/>
</Schema>`,
			kind:    UnsupportedElement,
			element: "Widget",
		},
		{
			name: "unknown element in entity type",
			input: `<Schema Namespace="Ns">
  <EntityType Name="T">
    <Property Name="Id" Type="Edm.Int32"/>
    <Gadget/>
  </EntityType>
</Schema>`,
			kind:    UnsupportedElement,
			element: "Gadget",
		},
		{
			name: "unknown element in envelope",
			input: `<edmx:Edmx Version="4.0" xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx">
  <edmx:Widget/>
  <edmx:DataServices>
    <Schema Namespace="Ns"/>
  </edmx:DataServices>
</edmx:Edmx>`,
			kind:    UnsupportedElement,
			element: "Widget",
		},
		{
			name: "unknown element in data services",
			input: `<edmx:Edmx Version="4.0" xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx">
  <edmx:DataServices>
    <Schema Namespace="Ns"/>
    <edmx:Gadget/>
  </edmx:DataServices>
</edmx:Edmx>`,
			kind:    UnsupportedElement,
			element: "Gadget",
		},
		{
			name: "bad enum member value",
			input: `<Schema Namespace="Ns">
  <EnumType Name="E">
    <Member Name="A" Value="not-a-number"/>
  </EnumType>
</Schema>`,
			kind: Malformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema(tt.input)
			if err == nil {
				t.Fatal("ParseSchema succeeded, want error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if parseErr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", parseErr.Kind, tt.kind)
			}
			if tt.element != "" && parseErr.Element != tt.element {
				t.Errorf("Element = %q, want %q", parseErr.Element, tt.element)
			}
		})
	}
}

func TestParseSchemaIgnoresReferences(t *testing.T) {
	doc := `<edmx:Edmx Version="4.0" xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx">
  <edmx:Reference Uri="https://example.com/vocab/Core.xml">
    <edmx:Include Namespace="Org.OData.Core.V1" Alias="Core"/>
  </edmx:Reference>
  <edmx:DataServices>
    <Schema Namespace="Ns">
      <EntityType Name="Thing">
        <Key><PropertyRef Name="Id"/></Key>
        <Property Name="Id" Type="Edm.Int32" Nullable="false"/>
      </EntityType>
    </Schema>
  </edmx:DataServices>
</edmx:Edmx>`

	schema, err := ParseSchema(doc)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if schema.Entities["Ns.Thing"] == nil {
		t.Fatal("entity Ns.Thing not found")
	}
}

func TestParseSchemaSymbolicFacets(t *testing.T) {
	doc := `<Schema Namespace="Ns">
  <EntityType Name="Ledger">
    <Key><PropertyRef Name="Id"/></Key>
    <Property Name="Id" Type="Edm.Int32" Nullable="false"/>
    <Property Name="Amount" Type="Edm.Decimal" Precision="10" Scale="variable"/>
    <Property Name="Note" Type="Edm.String" MaxLength="max"/>
  </EntityType>
</Schema>`

	schema, err := ParseSchema(doc)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	ledger := schema.Entities["Ns.Ledger"]
	if ledger == nil {
		t.Fatal("entity Ns.Ledger not found")
	}

	amount := ledger.Properties[1]
	if amount.Precision != "10" || amount.Scale != "variable" {
		t.Errorf("Amount facets = Precision %q Scale %q, want 10/variable", amount.Precision, amount.Scale)
	}
	note := ledger.Properties[2]
	if note.MaxLength != "max" {
		t.Errorf("Note.MaxLength = %q, want max", note.MaxLength)
	}
}

func TestParseSchemaIgnoresAnnotations(t *testing.T) {
	doc := `<Schema Namespace="Ns">
  <Annotations Target="Ns.Thing">
    <Annotation Term="Core.Description" String="ignored"/>
  </Annotations>
  <EntityType Name="Thing">
    <Key><PropertyRef Name="Id"/></Key>
    <Property Name="Id" Type="Edm.Int32" Nullable="false" ConcurrencyMode="Fixed"/>
  </EntityType>
</Schema>`

	schema, err := ParseSchema(doc)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if schema.Entities["Ns.Thing"] == nil {
		t.Fatal("entity Ns.Thing not found")
	}
}
