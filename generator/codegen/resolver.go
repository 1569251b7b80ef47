package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/datavirke/odata-go-generator/csdl"
	"github.com/datavirke/odata-go-generator/internal/debug"
)

// ResolvedModel is the emitter's input: every entity and complex type with
// its inheritance chain already flattened, every navigation property
// already bound to its target, and enums validated. Resolution is pure;
// the same Schema always yields the same ResolvedModel.
type ResolvedModel struct {
	Enums     []*csdl.EnumType
	Complexes []*ResolvedType
	Entities  []*ResolvedType
}

// ResolvedType wraps an entity or complex type with its precomputed
// flattened property and navigation lists, own plus all ancestors' in
// ancestor-to-descendant order, so the emitter never re-walks inheritance.
type ResolvedType struct {
	Name        string // qualified
	IsEntity    bool
	Keys        []string
	Properties  []csdl.Property
	Navigations []ResolvedNavigation
}

// ResolvedNavigation is a navigation property bound to its target entity
// type with the relationship's cardinality classified.
type ResolvedNavigation struct {
	Name   string
	Target string // qualified entity type
	ToMany bool
}

// Resolve derives the ResolvedModel from a parsed schema, failing on the
// first inconsistency found.
func Resolve(schema *csdl.Schema) (*ResolvedModel, error) {
	model := &ResolvedModel{}

	enumNames := make([]string, 0, len(schema.Enums))
	for name := range schema.Enums {
		enumNames = append(enumNames, name)
	}
	sort.Strings(enumNames)
	for _, name := range enumNames {
		enum := schema.Enums[name]
		seen := map[int64]string{}
		for _, member := range enum.Members {
			if prev, ok := seen[member.Value]; ok {
				return nil, &ResolutionError{
					Kind:   DuplicateMember,
					Name:   enum.Name,
					Detail: fmt.Sprintf("members %s and %s share value %d", prev, member.Name, member.Value),
				}
			}
			seen[member.Value] = member.Name
		}
		model.Enums = append(model.Enums, enum)
	}

	entityNames := make([]string, 0, len(schema.Entities))
	for name := range schema.Entities {
		entityNames = append(entityNames, name)
	}
	sort.Strings(entityNames)
	for _, name := range entityNames {
		entity := schema.Entities[name]
		chain, err := entityChain(schema, name)
		if err != nil {
			return nil, err
		}
		resolved := &ResolvedType{Name: name, IsEntity: true}
		props := map[string]bool{}
		for _, link := range chain {
			for _, p := range link.Properties {
				if props[p.Name] {
					return nil, &ResolutionError{
						Kind:   DuplicateProperty,
						Name:   name,
						Detail: fmt.Sprintf("property %s collides with an inherited property", p.Name),
					}
				}
				props[p.Name] = true
				if err := checkPropertyType(schema, name, p); err != nil {
					return nil, err
				}
				resolved.Properties = append(resolved.Properties, p)
			}
			for _, nav := range link.Navigations {
				bound, err := resolveNavigation(schema, name, nav)
				if err != nil {
					return nil, err
				}
				resolved.Navigations = append(resolved.Navigations, bound)
			}
			if len(link.Keys) > 0 {
				resolved.Keys = link.Keys
			}
		}
		for _, key := range resolved.Keys {
			if !props[key] {
				return nil, &ResolutionError{
					Kind:   UnknownProperty,
					Name:   key,
					Detail: fmt.Sprintf("named as key of %s but not declared or inherited", entity.Name),
				}
			}
		}
		model.Entities = append(model.Entities, resolved)
	}

	complexNames := make([]string, 0, len(schema.Complexes))
	for name := range schema.Complexes {
		complexNames = append(complexNames, name)
	}
	sort.Strings(complexNames)
	for _, name := range complexNames {
		chain, err := complexChain(schema, name)
		if err != nil {
			return nil, err
		}
		resolved := &ResolvedType{Name: name}
		props := map[string]bool{}
		for _, link := range chain {
			for _, p := range link.Properties {
				if props[p.Name] {
					return nil, &ResolutionError{
						Kind:   DuplicateProperty,
						Name:   name,
						Detail: fmt.Sprintf("property %s collides with an inherited property", p.Name),
					}
				}
				props[p.Name] = true
				if err := checkPropertyType(schema, name, p); err != nil {
					return nil, err
				}
				resolved.Properties = append(resolved.Properties, p)
			}
		}
		model.Complexes = append(model.Complexes, resolved)
	}

	sort.Slice(model.Enums, func(i, j int) bool { return model.Enums[i].Name < model.Enums[j].Name })
	sort.Slice(model.Complexes, func(i, j int) bool { return model.Complexes[i].Name < model.Complexes[j].Name })
	sort.Slice(model.Entities, func(i, j int) bool { return model.Entities[i].Name < model.Entities[j].Name })

	debug.Debug("schema resolved",
		"entities", len(model.Entities),
		"complexes", len(model.Complexes),
		"enums", len(model.Enums))
	return model, nil
}

// entityChain returns the inheritance chain of an entity type in
// root-first order, detecting cycles.
func entityChain(schema *csdl.Schema, name string) ([]*csdl.EntityType, error) {
	var chain []*csdl.EntityType
	visited := map[string]bool{}
	for current := name; current != ""; {
		if visited[current] {
			return nil, cycleError(name, current, chain)
		}
		visited[current] = true
		entity, ok := schema.Entities[current]
		if !ok {
			return nil, &ResolutionError{
				Kind:   UnknownType,
				Name:   current,
				Detail: fmt.Sprintf("referenced as base type by %s", name),
			}
		}
		chain = append(chain, entity)
		current = entity.BaseType
	}
	reverseEntities(chain)
	return chain, nil
}

func complexChain(schema *csdl.Schema, name string) ([]*csdl.ComplexType, error) {
	var chain []*csdl.ComplexType
	visited := map[string]bool{}
	for current := name; current != ""; {
		if visited[current] {
			names := make([]string, len(chain))
			for i, c := range chain {
				names[i] = c.Name
			}
			return nil, &ResolutionError{
				Kind:   CyclicInheritance,
				Name:   name,
				Detail: strings.Join(append(names, current), " -> "),
			}
		}
		visited[current] = true
		complex, ok := schema.Complexes[current]
		if !ok {
			return nil, &ResolutionError{
				Kind:   UnknownType,
				Name:   current,
				Detail: fmt.Sprintf("referenced as base type by %s", name),
			}
		}
		chain = append(chain, complex)
		current = complex.BaseType
	}
	reverseComplexes(chain)
	return chain, nil
}

func cycleError(start, repeated string, chain []*csdl.EntityType) error {
	names := make([]string, len(chain))
	for i, e := range chain {
		names[i] = e.Name
	}
	return &ResolutionError{
		Kind:   CyclicInheritance,
		Name:   start,
		Detail: strings.Join(append(names, repeated), " -> "),
	}
}

// checkPropertyType verifies that a named (non-primitive) property type is
// defined somewhere in the schema. Primitive kinds are checked later by the
// emitter, which owns the EDM mapping table.
func checkPropertyType(schema *csdl.Schema, owner string, p csdl.Property) error {
	ref, err := csdl.ParseTypeRef(p.Type)
	if err != nil {
		return &ResolutionError{
			Kind:   UnknownType,
			Name:   p.Type,
			Detail: fmt.Sprintf("property %s of %s", p.Name, owner),
		}
	}
	if ref.IsPrimitive() {
		return nil
	}
	if _, ok := schema.Enums[ref.Name]; ok {
		return nil
	}
	if _, ok := schema.Complexes[ref.Name]; ok {
		return nil
	}
	return &ResolutionError{
		Kind:   UnknownType,
		Name:   ref.Name,
		Detail: fmt.Sprintf("property %s of %s", p.Name, owner),
	}
}

// resolveNavigation binds a raw navigation property to its target type.
// V4-shape declarations carry the target directly; V3-shape declarations go
// through the shared association table.
func resolveNavigation(schema *csdl.Schema, owner string, nav csdl.NavigationProperty) (ResolvedNavigation, error) {
	if nav.Target != "" {
		if _, ok := schema.Entities[nav.Target]; !ok {
			return ResolvedNavigation{}, &ResolutionError{
				Kind:   UnknownType,
				Name:   nav.Target,
				Detail: fmt.Sprintf("navigation %s of %s", nav.Name, owner),
			}
		}
		return ResolvedNavigation{Name: nav.Name, Target: nav.Target, ToMany: nav.ToMany}, nil
	}

	assoc, ok := schema.Associations[nav.Relationship]
	if !ok {
		return ResolvedNavigation{}, &ResolutionError{
			Kind:   UnknownAssociation,
			Name:   nav.Relationship,
			Detail: fmt.Sprintf("navigation %s of %s", nav.Name, owner),
		}
	}
	end := assoc.End(nav.ToRole)
	if end == nil {
		return ResolvedNavigation{}, &ResolutionError{
			Kind:   UnknownAssociation,
			Name:   nav.Relationship,
			Detail: fmt.Sprintf("no end with role %s for navigation %s of %s", nav.ToRole, nav.Name, owner),
		}
	}
	if _, ok := schema.Entities[end.Type]; !ok {
		return ResolvedNavigation{}, &ResolutionError{
			Kind:   UnknownType,
			Name:   end.Type,
			Detail: fmt.Sprintf("endpoint of association %s", assoc.Name),
		}
	}
	return ResolvedNavigation{
		Name:   nav.Name,
		Target: end.Type,
		ToMany: end.Multiplicity == csdl.Many,
	}, nil
}

func reverseEntities(s []*csdl.EntityType) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseComplexes(s []*csdl.ComplexType) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
