// Package generator turns OData CSDL metadata documents into Go source.
// It is the programmatic entry point; the cli package wraps it with flag
// parsing, file IO and progress output.
package generator

import (
	"github.com/datavirke/odata-go-generator/csdl"
	"github.com/datavirke/odata-go-generator/generator/codegen"
	"github.com/datavirke/odata-go-generator/internal/debug"
)

// Options re-exports the emitter toggles so callers need only this
// package.
type Options = codegen.Options

// DefaultOptions returns the options used when nothing is overridden.
func DefaultOptions() Options {
	return codegen.DefaultOptions()
}

// Generate runs the full pipeline on a metadata document: parse the XML
// into a schema, resolve inheritance and relationships, emit Go source.
// The returned string is a complete, gofmt-formatted Go file. Errors are
// *csdl.ParseError, *codegen.ResolutionError or *codegen.EmitError
// depending on the stage that rejected the input.
func Generate(document string, opts Options) (string, error) {
	schema, err := csdl.ParseSchema(document)
	if err != nil {
		return "", err
	}
	debug.Debug("document parsed", "namespaces", len(schema.Namespaces()))

	model, err := codegen.Resolve(schema)
	if err != nil {
		return "", err
	}

	return codegen.Emit(model, opts)
}

// Validate parses and resolves a metadata document without emitting code.
// It returns the resolved model so callers can report on it.
func Validate(document string) (*codegen.ResolvedModel, error) {
	schema, err := csdl.ParseSchema(document)
	if err != nil {
		return nil, err
	}
	return codegen.Resolve(schema)
}
