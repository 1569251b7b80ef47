package csdl

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// TypeRef is a parsed EDM type reference such as "Edm.String", "Ns.Color"
// or "Collection(Ns.Person)".
type TypeRef struct {
	Name       string // qualified name with any Collection wrapper removed
	Collection bool
}

// IsPrimitive reports whether the reference names an EDM primitive type.
func (r TypeRef) IsPrimitive() bool {
	return strings.HasPrefix(r.Name, "Edm.")
}

var typeRefLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// rawTypeRef is the raw parse tree matching the type reference grammar.
type rawTypeRef struct {
	Collection *rawQualified `parser:"  'Collection' '(' @@ ')'"`
	Named      *rawQualified `parser:"| @@"`
}

type rawQualified struct {
	Parts []string `parser:"@Ident ('.' @Ident)*"`
}

var typeRefParser = participle.MustBuild[rawTypeRef](
	participle.Lexer(typeRefLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseTypeRef parses a raw Type attribute value.
func ParseTypeRef(input string) (TypeRef, error) {
	raw, err := typeRefParser.ParseString("", input)
	if err != nil {
		return TypeRef{}, err
	}
	if raw.Collection != nil {
		return TypeRef{Name: strings.Join(raw.Collection.Parts, "."), Collection: true}, nil
	}
	return TypeRef{Name: strings.Join(raw.Named.Parts, ".")}, nil
}
