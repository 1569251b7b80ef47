package codegen

import "strings"

// goPrimitives is the fixed EDM-to-Go mapping. Anything missing here makes
// generation fail with an EmitError rather than guessing a representation.
var goPrimitives = map[string]string{
	"Edm.Binary":         "[]byte",
	"Edm.Boolean":        "bool",
	"Edm.Byte":           "uint8",
	"Edm.SByte":          "int8",
	"Edm.Date":           "time.Time",
	"Edm.DateTime":       "time.Time",
	"Edm.DateTimeOffset": "time.Time",
	"Edm.Time":           "time.Duration",
	"Edm.Duration":       "time.Duration",
	"Edm.Decimal":        "float64",
	"Edm.Double":         "float64",
	"Edm.Single":         "float32",
	"Edm.Int16":          "int16",
	"Edm.Int32":          "int32",
	"Edm.Int64":          "int64",
	"Edm.String":         "string",
	"Edm.Guid":           "string",
}

// enumUnderlying maps the allowed EnumType underlying types to Go integer
// types.
var enumUnderlying = map[string]string{
	"Edm.Byte":  "uint8",
	"Edm.SByte": "int8",
	"Edm.Int16": "int16",
	"Edm.Int32": "int32",
	"Edm.Int64": "int64",
}

func goPrimitive(edm string) (string, bool) {
	typ, ok := goPrimitives[edm]
	return typ, ok
}

// kindTag is the short type tag used by the reflection surface:
// "Int32" for Edm.Int32, the qualified name for schema-defined types.
func kindTag(edm string) string {
	return strings.TrimPrefix(edm, "Edm.")
}

func needsTimeImport(goType string) bool {
	return strings.Contains(goType, "time.")
}
