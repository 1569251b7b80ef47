package csdl

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// ParseSchema reads a complete CSDL metadata document and returns the
// normalized Schema. The document may wrap its schema sections in an Edmx
// envelope or start at a bare <Schema> element; all sections are merged
// into one flat Schema with names qualified by their declaring namespace.
func ParseSchema(input string) (*Schema, error) {
	sections, err := decodeSections(input)
	if err != nil {
		return nil, err
	}

	schema := &Schema{
		Entities:     map[string]*EntityType{},
		Complexes:    map[string]*ComplexType{},
		Enums:        map[string]*EnumType{},
		Associations: map[string]*Association{},
	}
	for _, section := range sections {
		if err := mergeSection(schema, section); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

func decodeSections(input string) ([]xmlSchema, error) {
	dec := xml.NewDecoder(strings.NewReader(input))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &ParseError{Kind: Malformed}
		}
		if err != nil {
			return nil, &ParseError{Kind: Malformed, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Edmx":
			var edmx xmlEdmx
			if err := dec.DecodeElement(&edmx, &start); err != nil {
				return nil, &ParseError{Kind: Malformed, Err: err}
			}
			if len(edmx.Extra) > 0 {
				return nil, &ParseError{Kind: UnsupportedElement, Element: edmx.Extra[0].XMLName.Local}
			}
			if len(edmx.DataServices.Extra) > 0 {
				return nil, &ParseError{Kind: UnsupportedElement, Element: edmx.DataServices.Extra[0].XMLName.Local}
			}
			return edmx.DataServices.Schema, nil
		case "Schema":
			var section xmlSchema
			if err := dec.DecodeElement(&section, &start); err != nil {
				return nil, &ParseError{Kind: Malformed, Err: err}
			}
			return []xmlSchema{section}, nil
		default:
			return nil, &ParseError{Kind: UnsupportedElement, Element: start.Name.Local}
		}
	}
}

func mergeSection(schema *Schema, section xmlSchema) error {
	if len(section.Extra) > 0 {
		return &ParseError{Kind: UnsupportedElement, Element: section.Extra[0].XMLName.Local}
	}
	ns := section.Namespace
	alias := section.Alias

	for _, raw := range section.EntityType {
		if len(raw.Extra) > 0 {
			return &ParseError{Kind: UnsupportedElement, Element: raw.Extra[0].XMLName.Local}
		}
		entity := &EntityType{
			Name:     qualify(ns, raw.Name),
			Abstract: raw.Abstract,
		}
		if raw.BaseType != "" {
			base, err := expandRef(raw.BaseType, alias, ns)
			if err != nil {
				return err
			}
			entity.BaseType = base
		}
		if raw.Key != nil {
			for _, ref := range raw.Key.PropertyRef {
				entity.Keys = append(entity.Keys, ref.Name)
			}
		}
		props, err := convertProperties(raw.Property, alias, ns)
		if err != nil {
			return err
		}
		entity.Properties = props
		navs, err := convertNavigations(raw.NavigationProperty, alias, ns)
		if err != nil {
			return err
		}
		entity.Navigations = navs
		schema.Entities[entity.Name] = entity
	}

	for _, raw := range section.ComplexType {
		if len(raw.Extra) > 0 {
			return &ParseError{Kind: UnsupportedElement, Element: raw.Extra[0].XMLName.Local}
		}
		complex := &ComplexType{
			Name:     qualify(ns, raw.Name),
			Abstract: raw.Abstract,
		}
		if raw.BaseType != "" {
			base, err := expandRef(raw.BaseType, alias, ns)
			if err != nil {
				return err
			}
			complex.BaseType = base
		}
		props, err := convertProperties(raw.Property, alias, ns)
		if err != nil {
			return err
		}
		complex.Properties = props
		schema.Complexes[complex.Name] = complex
	}

	for _, raw := range section.EnumType {
		if len(raw.Extra) > 0 {
			return &ParseError{Kind: UnsupportedElement, Element: raw.Extra[0].XMLName.Local}
		}
		enum := &EnumType{
			Name:           qualify(ns, raw.Name),
			UnderlyingType: raw.UnderlyingType,
			IsFlags:        raw.IsFlags,
		}
		if enum.UnderlyingType == "" {
			enum.UnderlyingType = "Edm.Int32"
		}
		next := int64(0)
		for _, member := range raw.Member {
			value := next
			if member.Value != nil {
				parsed, err := strconv.ParseInt(*member.Value, 10, 64)
				if err != nil {
					return &ParseError{Kind: Malformed, Element: member.Name, Err: err}
				}
				value = parsed
			}
			enum.Members = append(enum.Members, EnumMember{Name: member.Name, Value: value})
			next = value + 1
		}
		schema.Enums[enum.Name] = enum
	}

	for _, raw := range section.Association {
		if len(raw.Extra) > 0 {
			return &ParseError{Kind: UnsupportedElement, Element: raw.Extra[0].XMLName.Local}
		}
		assoc := &Association{Name: qualify(ns, raw.Name)}
		for _, end := range raw.End {
			endType, err := expandRef(end.Type, alias, ns)
			if err != nil {
				return err
			}
			assoc.Ends = append(assoc.Ends, AssociationEnd{
				Role:         end.Role,
				Type:         endType,
				Multiplicity: Multiplicity(end.Multiplicity),
			})
		}
		schema.Associations[assoc.Name] = assoc
	}

	return nil
}

func convertProperties(raw []xmlProperty, alias, ns string) ([]Property, error) {
	props := make([]Property, 0, len(raw))
	for _, p := range raw {
		propType, err := expandRef(p.Type, alias, ns)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{
			Name:         p.Name,
			Type:         propType,
			Nullable:     p.Nullable == nil || *p.Nullable, // CSDL default is nullable
			MaxLength:    p.MaxLength,
			Precision:    p.Precision,
			Scale:        p.Scale,
			DefaultValue: p.DefaultValue,
		})
	}
	return props, nil
}

func convertNavigations(raw []xmlNavigationProperty, alias, ns string) ([]NavigationProperty, error) {
	navs := make([]NavigationProperty, 0, len(raw))
	for _, n := range raw {
		nav := NavigationProperty{Name: n.Name}
		if n.Relationship != "" {
			rel, err := expandRef(n.Relationship, alias, ns)
			if err != nil {
				return nil, err
			}
			nav.Relationship = rel
			nav.FromRole = n.FromRole
			nav.ToRole = n.ToRole
		} else {
			ref, err := ParseTypeRef(n.Type)
			if err != nil {
				return nil, &ParseError{Kind: Malformed, Element: n.Name, Err: err}
			}
			nav.Target = expandName(ref.Name, alias, ns)
			nav.ToMany = ref.Collection
			nav.Nullable = n.Nullable == nil || *n.Nullable
		}
		navs = append(navs, nav)
	}
	return navs, nil
}

// expandRef rewrites an alias-qualified type reference to use the full
// namespace, preserving any Collection(...) wrapper.
func expandRef(ref, alias, ns string) (string, error) {
	parsed, err := ParseTypeRef(ref)
	if err != nil {
		return "", &ParseError{Kind: Malformed, Element: ref, Err: err}
	}
	name := expandName(parsed.Name, alias, ns)
	if parsed.Collection {
		return "Collection(" + name + ")", nil
	}
	return name, nil
}

func expandName(name, alias, ns string) string {
	if alias == "" {
		return name
	}
	if rest, ok := strings.CutPrefix(name, alias+"."); ok {
		return ns + "." + rest
	}
	return name
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
