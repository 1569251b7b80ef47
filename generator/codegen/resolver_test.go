package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/datavirke/odata-go-generator/csdl"
)

func emptySchema() *csdl.Schema {
	return &csdl.Schema{
		Entities:     map[string]*csdl.EntityType{},
		Complexes:    map[string]*csdl.ComplexType{},
		Enums:        map[string]*csdl.EnumType{},
		Associations: map[string]*csdl.Association{},
	}
}

func TestResolveFlattensInheritance(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.Person"] = &csdl.EntityType{
		Name: "Ns.Person",
		Keys: []string{"Id"},
		Properties: []csdl.Property{
			{Name: "Id", Type: "Edm.Int32"},
			{Name: "Name", Type: "Edm.String", Nullable: true},
		},
	}
	schema.Entities["Ns.Manager"] = &csdl.EntityType{
		Name:     "Ns.Manager",
		BaseType: "Ns.Person",
		Properties: []csdl.Property{
			{Name: "Budget", Type: "Edm.Decimal"},
		},
	}

	model, err := Resolve(schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(model.Entities) != 2 {
		t.Fatalf("resolved %d entities, want 2", len(model.Entities))
	}

	// Sorted by qualified name: Manager before Person.
	manager := model.Entities[0]
	if manager.Name != "Ns.Manager" {
		t.Fatalf("first entity is %s, want Ns.Manager", manager.Name)
	}

	// Inherited properties come first, in declaration order.
	var got []string
	for _, p := range manager.Properties {
		got = append(got, p.Name)
	}
	want := []string{"Id", "Name", "Budget"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Manager properties = %v, want %v", got, want)
	}
	if len(manager.Keys) != 1 || manager.Keys[0] != "Id" {
		t.Errorf("Manager keys = %v, want inherited [Id]", manager.Keys)
	}
}

func TestResolveInheritanceCycle(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.A"] = &csdl.EntityType{Name: "Ns.A", BaseType: "Ns.B"}
	schema.Entities["Ns.B"] = &csdl.EntityType{Name: "Ns.B", BaseType: "Ns.A"}

	_, err := Resolve(schema)
	if err == nil {
		t.Fatal("Resolve succeeded, want cycle error")
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error type = %T, want *ResolutionError", err)
	}
	if resErr.Kind != CyclicInheritance {
		t.Fatalf("Kind = %v, want CyclicInheritance", resErr.Kind)
	}
	// Both participants must be named in the message.
	msg := resErr.Error()
	if !strings.Contains(msg, "Ns.A") || !strings.Contains(msg, "Ns.B") {
		t.Errorf("cycle error %q does not name both types", msg)
	}
}

func TestResolveComplexInheritanceCycle(t *testing.T) {
	schema := emptySchema()
	schema.Complexes["Ns.X"] = &csdl.ComplexType{Name: "Ns.X", BaseType: "Ns.Y"}
	schema.Complexes["Ns.Y"] = &csdl.ComplexType{Name: "Ns.Y", BaseType: "Ns.X"}

	_, err := Resolve(schema)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != CyclicInheritance {
		t.Fatalf("got %v, want CyclicInheritance", err)
	}
}

func TestResolveDuplicateProperty(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.Base"] = &csdl.EntityType{
		Name:       "Ns.Base",
		Keys:       []string{"Id"},
		Properties: []csdl.Property{{Name: "Id", Type: "Edm.Int32"}},
	}
	schema.Entities["Ns.Derived"] = &csdl.EntityType{
		Name:       "Ns.Derived",
		BaseType:   "Ns.Base",
		Properties: []csdl.Property{{Name: "Id", Type: "Edm.Int64"}},
	}

	_, err := Resolve(schema)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != DuplicateProperty {
		t.Fatalf("got %v, want DuplicateProperty", err)
	}
}

func TestResolveUnknownBaseType(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.T"] = &csdl.EntityType{Name: "Ns.T", BaseType: "Ns.Missing"}

	_, err := Resolve(schema)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != UnknownType {
		t.Fatalf("got %v, want UnknownType", err)
	}
	if resErr.Name != "Ns.Missing" {
		t.Errorf("Name = %q, want Ns.Missing", resErr.Name)
	}
}

func TestResolveUnknownPropertyType(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.T"] = &csdl.EntityType{
		Name:       "Ns.T",
		Keys:       []string{"Id"},
		Properties: []csdl.Property{{Name: "Id", Type: "Ns.Nowhere"}},
	}

	_, err := Resolve(schema)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != UnknownType {
		t.Fatalf("got %v, want UnknownType", err)
	}
}

func TestResolveUnknownKeyProperty(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.T"] = &csdl.EntityType{
		Name:       "Ns.T",
		Keys:       []string{"Nope"},
		Properties: []csdl.Property{{Name: "Id", Type: "Edm.Int32"}},
	}

	_, err := Resolve(schema)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != UnknownProperty {
		t.Fatalf("got %v, want UnknownProperty", err)
	}
	if resErr.Name != "Nope" {
		t.Errorf("Name = %q, want Nope", resErr.Name)
	}
}

func TestResolveAssociationNavigation(t *testing.T) {
	schema := emptySchema()
	schema.Entities["Ns.Person"] = &csdl.EntityType{
		Name:       "Ns.Person",
		Keys:       []string{"Id"},
		Properties: []csdl.Property{{Name: "Id", Type: "Edm.Int32"}},
		Navigations: []csdl.NavigationProperty{
			{Name: "Friends", Relationship: "Ns.PersonFriends", FromRole: "Person", ToRole: "Friend"},
			{Name: "Boss", Relationship: "Ns.PersonBoss", FromRole: "Report", ToRole: "Boss"},
		},
	}
	schema.Associations["Ns.PersonFriends"] = &csdl.Association{
		Name: "Ns.PersonFriends",
		Ends: []csdl.AssociationEnd{
			{Role: "Person", Type: "Ns.Person", Multiplicity: csdl.One},
			{Role: "Friend", Type: "Ns.Person", Multiplicity: csdl.Many},
		},
	}
	schema.Associations["Ns.PersonBoss"] = &csdl.Association{
		Name: "Ns.PersonBoss",
		Ends: []csdl.AssociationEnd{
			{Role: "Report", Type: "Ns.Person", Multiplicity: csdl.Many},
			{Role: "Boss", Type: "Ns.Person", Multiplicity: csdl.ZeroOrOne},
		},
	}

	model, err := Resolve(schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	navs := model.Entities[0].Navigations
	if len(navs) != 2 {
		t.Fatalf("resolved %d navigations, want 2", len(navs))
	}
	if !navs[0].ToMany || navs[0].Target != "Ns.Person" {
		t.Errorf("Friends = %+v, want to-many Ns.Person", navs[0])
	}
	if navs[1].ToMany {
		t.Errorf("Boss = %+v, want to-one", navs[1])
	}
}

func TestResolveNavigationErrors(t *testing.T) {
	tests := []struct {
		name string
		nav  csdl.NavigationProperty
		kind ResolutionErrorKind
	}{
		{
			name: "missing association",
			nav:  csdl.NavigationProperty{Name: "N", Relationship: "Ns.Nope", ToRole: "X"},
			kind: UnknownAssociation,
		},
		{
			name: "missing role",
			nav:  csdl.NavigationProperty{Name: "N", Relationship: "Ns.Rel", ToRole: "Nope"},
			kind: UnknownAssociation,
		},
		{
			name: "missing v4 target",
			nav:  csdl.NavigationProperty{Name: "N", Target: "Ns.Nope"},
			kind: UnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := emptySchema()
			schema.Entities["Ns.T"] = &csdl.EntityType{
				Name:        "Ns.T",
				Keys:        []string{"Id"},
				Properties:  []csdl.Property{{Name: "Id", Type: "Edm.Int32"}},
				Navigations: []csdl.NavigationProperty{tt.nav},
			}
			schema.Associations["Ns.Rel"] = &csdl.Association{
				Name: "Ns.Rel",
				Ends: []csdl.AssociationEnd{
					{Role: "A", Type: "Ns.T", Multiplicity: csdl.One},
					{Role: "B", Type: "Ns.T", Multiplicity: csdl.Many},
				},
			}

			_, err := Resolve(schema)
			var resErr *ResolutionError
			if !errors.As(err, &resErr) || resErr.Kind != tt.kind {
				t.Fatalf("got %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestResolveDuplicateEnumMember(t *testing.T) {
	schema := emptySchema()
	schema.Enums["Ns.E"] = &csdl.EnumType{
		Name:           "Ns.E",
		UnderlyingType: "Edm.Int32",
		Members: []csdl.EnumMember{
			{Name: "A", Value: 1},
			{Name: "B", Value: 1},
		},
	}

	_, err := Resolve(schema)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != DuplicateMember {
		t.Fatalf("got %v, want DuplicateMember", err)
	}
}

func TestResolveSortsOutput(t *testing.T) {
	schema := emptySchema()
	for _, name := range []string{"Ns.Zebra", "Ns.Alpha", "Ns.Mid"} {
		schema.Entities[name] = &csdl.EntityType{
			Name:       name,
			Keys:       []string{"Id"},
			Properties: []csdl.Property{{Name: "Id", Type: "Edm.Int32"}},
		}
	}

	model, err := Resolve(schema)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	var got []string
	for _, entity := range model.Entities {
		got = append(got, entity.Name)
	}
	want := "Ns.Alpha,Ns.Mid,Ns.Zebra"
	if strings.Join(got, ",") != want {
		t.Errorf("entity order = %v, want %s", got, want)
	}
}
