package codegen

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strings"
	"unicode"

	"github.com/datavirke/odata-go-generator/csdl"
	"github.com/datavirke/odata-go-generator/internal/debug"
)

// Options are the generation toggles, each negated by a CLI flag. All
// default to enabled.
type Options struct {
	// Package names the generated Go package.
	Package string
	// EmptyStringAsNull coerces decoded empty strings in nullable string
	// fields to nil. Many OData services use "" and absence
	// interchangeably. Field presence and types are invariant under this
	// toggle; only the generated UnmarshalJSON hook changes.
	EmptyStringAsNull bool
	// IncludeNavigations emits fields for $expand-able relationships.
	IncludeNavigations bool
	// Reflection emits the Model interface and per-type metadata methods.
	Reflection bool
	// Serialization emits json struct tags and enum codec methods.
	Serialization bool
}

// DefaultOptions returns the options used when no flags are given.
func DefaultOptions() Options {
	return Options{
		Package:            "odata",
		EmptyStringAsNull:  true,
		IncludeNavigations: true,
		Reflection:         true,
		Serialization:      true,
	}
}

const generatedHeader = "// Code generated by odata-go-generator. DO NOT EDIT.\n" +
	"// Any changes made to this file may be overwritten by future generation runs.\n\n"

// emittedField is a structural or navigation field with its Go rendering
// decided.
type emittedField struct {
	GoName   string
	GoType   string
	JSONName string
	Kind     string // reflection type tag
	Nullable bool
	Key      bool
	IsNav    bool
	Target   string // qualified target for navigation fields
	ToMany   bool
}

type emitter struct {
	model *ResolvedModel
	opts  Options
	names map[string]string // qualified name -> Go type name
}

// Emit renders the resolved model as one self-contained Go source file:
// enumerations first, then complex types, then entity types, each kind
// sorted by qualified name so output is deterministic and diffable.
func Emit(model *ResolvedModel, opts Options) (string, error) {
	if opts.Package == "" {
		opts.Package = "odata"
	}
	e := &emitter{model: model, opts: opts, names: buildNameTable(model)}

	enumFields := make(map[string]string, len(model.Enums)) // Go name -> underlying Go type
	for _, enum := range model.Enums {
		underlying, ok := enumUnderlying[enum.UnderlyingType]
		if !ok {
			return "", &EmitError{Property: enum.Name, Primitive: enum.UnderlyingType}
		}
		enumFields[e.names[enum.Name]] = underlying
	}

	complexFields := make([][]emittedField, len(model.Complexes))
	for i, typ := range model.Complexes {
		fields, err := e.resolveFields(typ)
		if err != nil {
			return "", err
		}
		complexFields[i] = fields
	}
	entityFields := make([][]emittedField, len(model.Entities))
	for i, typ := range model.Entities {
		fields, err := e.resolveFields(typ)
		if err != nil {
			return "", err
		}
		entityFields[i] = fields
	}

	file := newFile(opts.Package)
	addImports(file, e.imports(complexFields, entityFields))

	if opts.Reflection {
		e.emitReflectionScaffolding(file)
	}
	for _, enum := range model.Enums {
		e.emitEnum(file, enum, enumFields[e.names[enum.Name]])
	}
	for i, typ := range model.Complexes {
		e.emitStruct(file, typ, complexFields[i], "complex type")
	}
	for i, typ := range model.Entities {
		e.emitStruct(file, typ, entityFields[i], "entity type")
	}

	out, err := render(file, generatedHeader)
	if err != nil {
		return "", err
	}
	debug.Debug("emission complete", "bytes", len(out), "package", opts.Package)
	return out, nil
}

// reservedNames are the identifiers the reflection scaffolding declares.
// Schema types with these names get their namespace folded in so the two
// never collide.
var reservedNames = map[string]bool{
	"Field":    true,
	"Relation": true,
	"Model":    true,
}

// buildNameTable maps qualified type names to Go identifiers. Local names
// are used unless two namespaces declare the same local name or the name is
// reserved by the scaffolding, in which case the namespace is folded into
// the identifier.
func buildNameTable(model *ResolvedModel) map[string]string {
	var qualified []string
	for _, enum := range model.Enums {
		qualified = append(qualified, enum.Name)
	}
	for _, typ := range model.Complexes {
		qualified = append(qualified, typ.Name)
	}
	for _, typ := range model.Entities {
		qualified = append(qualified, typ.Name)
	}
	sort.Strings(qualified)

	counts := map[string]int{}
	for _, name := range qualified {
		counts[csdl.LocalName(name)]++
	}
	names := make(map[string]string, len(qualified))
	for _, name := range qualified {
		goName := exported(csdl.LocalName(name))
		if counts[csdl.LocalName(name)] > 1 || reservedNames[goName] {
			goName = exported(strings.ReplaceAll(name, ".", ""))
		}
		// An unqualified type can still land on a reserved name after folding.
		if reservedNames[goName] {
			goName += "Type"
		}
		names[name] = goName
	}
	return names
}

func (e *emitter) resolveFields(typ *ResolvedType) ([]emittedField, error) {
	fields := make([]emittedField, 0, len(typ.Properties)+len(typ.Navigations))
	keys := map[string]bool{}
	for _, key := range typ.Keys {
		keys[key] = true
	}
	for _, prop := range typ.Properties {
		field, err := e.resolveProperty(typ.Name, prop)
		if err != nil {
			return nil, err
		}
		field.Key = keys[prop.Name]
		fields = append(fields, field)
	}
	if e.opts.IncludeNavigations {
		for _, nav := range typ.Navigations {
			goType := "*" + e.names[nav.Target]
			if nav.ToMany {
				goType = "[]" + e.names[nav.Target]
			}
			fields = append(fields, emittedField{
				GoName:   exported(nav.Name),
				GoType:   goType,
				JSONName: nav.Name,
				Kind:     nav.Target,
				Nullable: true,
				IsNav:    true,
				Target:   nav.Target,
				ToMany:   nav.ToMany,
			})
		}
	}
	return fields, nil
}

func (e *emitter) resolveProperty(owner string, prop csdl.Property) (emittedField, error) {
	ref, err := csdl.ParseTypeRef(prop.Type)
	if err != nil {
		return emittedField{}, &EmitError{Property: owner + "." + prop.Name, Primitive: prop.Type}
	}

	var base string
	if ref.IsPrimitive() {
		mapped, ok := goPrimitive(ref.Name)
		if !ok {
			return emittedField{}, &EmitError{Property: owner + "." + prop.Name, Primitive: ref.Name}
		}
		base = mapped
	} else {
		base = e.names[ref.Name]
	}

	goType := base
	switch {
	case ref.Collection:
		goType = "[]" + base
	case prop.Nullable && !strings.HasPrefix(base, "[]"):
		goType = "*" + base
	}

	kind := ref.Name
	if ref.IsPrimitive() {
		kind = kindTag(ref.Name)
	}
	return emittedField{
		GoName:   exported(prop.Name),
		GoType:   goType,
		JSONName: prop.Name,
		Kind:     kind,
		Nullable: prop.Nullable,
	}, nil
}

func (e *emitter) imports(fieldSets ...[][]emittedField) []string {
	needTime := false
	for _, set := range fieldSets {
		for _, fields := range set {
			for _, field := range fields {
				if needsTimeImport(field.GoType) {
					needTime = true
				}
			}
		}
	}
	var imports []string
	if e.opts.Serialization && (len(e.model.Enums) > 0 || e.coercionAnywhere(fieldSets...)) {
		imports = append(imports, "encoding/json")
	}
	if len(e.model.Enums) > 0 {
		imports = append(imports, "fmt")
	}
	if needTime {
		imports = append(imports, "time")
	}
	return imports
}

func (e *emitter) coercionAnywhere(fieldSets ...[][]emittedField) bool {
	if !e.opts.EmptyStringAsNull {
		return false
	}
	for _, set := range fieldSets {
		for _, fields := range set {
			for _, field := range fields {
				if field.GoType == "*string" && !field.IsNav {
					return true
				}
			}
		}
	}
	return false
}

// emitReflectionScaffolding emits the shared metadata types implemented by
// every generated entity and complex type.
func (e *emitter) emitReflectionScaffolding(file *ast.File) {
	file.Decls = append(file.Decls,
		newTypeDecl("Field", "Field describes one structural property of a generated type.",
			newStructType([]*ast.Field{
				newField("Name", typeExpr("string"), ""),
				newField("Type", typeExpr("string"), ""),
				newField("Nullable", typeExpr("bool"), ""),
				newField("Key", typeExpr("bool"), ""),
			})),
		newTypeDecl("Relation", "Relation describes one navigation property of a generated type.",
			newStructType([]*ast.Field{
				newField("Name", typeExpr("string"), ""),
				newField("Target", typeExpr("string"), ""),
				newField("ToMany", typeExpr("bool"), ""),
			})),
		newTypeDecl("Model", "Model is implemented by every generated entity and complex type.",
			&ast.InterfaceType{Methods: &ast.FieldList{List: []*ast.Field{
				interfaceMethod("ODataTypeName", typeExpr("string")),
				interfaceMethod("ODataKeys", typeExpr("[]string")),
				interfaceMethod("ODataFields", typeExpr("[]Field")),
				interfaceMethod("ODataRelations", typeExpr("[]Relation")),
			}}}),
	)
}

func interfaceMethod(name string, result ast.Expr) *ast.Field {
	return &ast.Field{
		Names: []*ast.Ident{ast.NewIdent(name)},
		Type: &ast.FuncType{
			Params:  &ast.FieldList{},
			Results: &ast.FieldList{List: []*ast.Field{{Type: result}}},
		},
	}
}

func (e *emitter) emitEnum(file *ast.File, enum *csdl.EnumType, underlying string) {
	goName := e.names[enum.Name]

	file.Decls = append(file.Decls,
		newTypeDecl(goName, fmt.Sprintf("%s is the %s enumeration.", goName, enum.Name), typeExpr(underlying)))

	constNames := make([]string, len(enum.Members))
	values := make([]int64, len(enum.Members))
	for i, member := range enum.Members {
		constNames[i] = goName + exported(member.Name)
		values[i] = member.Value
	}
	file.Decls = append(file.Decls, newConstBlock(goName, constNames, values))

	// String returns the member name, or a numeric fallback for values the
	// schema does not declare.
	cases := make([]ast.Stmt, 0, len(enum.Members))
	for i, member := range enum.Members {
		cases = append(cases, &ast.CaseClause{
			List: []ast.Expr{ast.NewIdent(constNames[i])},
			Body: []ast.Stmt{newReturn(newStringLit(member.Name))},
		})
	}
	stringBody := newBlock(
		&ast.SwitchStmt{Tag: ast.NewIdent("v"), Body: newBlock(cases...)},
		newReturn(newCall(newSelector(ast.NewIdent("fmt"), "Sprintf"),
			newStringLit(goName+"(%d)"),
			newCall(ast.NewIdent("int64"), ast.NewIdent("v")))),
	)
	file.Decls = append(file.Decls, newMethod("v", goName, "String", "",
		nil,
		[]*ast.Field{{Type: typeExpr("string")}},
		stringBody))

	if !e.opts.Serialization {
		return
	}

	// MarshalJSON writes the member name.
	file.Decls = append(file.Decls, newMethod("v", goName, "MarshalJSON", "",
		nil,
		[]*ast.Field{{Type: typeExpr("[]byte")}, {Type: typeExpr("error")}},
		newBlock(newReturn(newCall(newSelector(ast.NewIdent("json"), "Marshal"),
			newCall(newSelector(ast.NewIdent("v"), "String")))))))

	// UnmarshalJSON reads a member name back into the constant.
	nameCases := make([]ast.Stmt, 0, len(enum.Members)+1)
	for i, member := range enum.Members {
		nameCases = append(nameCases, &ast.CaseClause{
			List: []ast.Expr{newStringLit(member.Name)},
			Body: []ast.Stmt{&ast.AssignStmt{
				Lhs: []ast.Expr{&ast.StarExpr{X: ast.NewIdent("v")}},
				Tok: token.ASSIGN,
				Rhs: []ast.Expr{ast.NewIdent(constNames[i])},
			}},
		})
	}
	nameCases = append(nameCases, &ast.CaseClause{
		Body: []ast.Stmt{newReturn(newCall(newSelector(ast.NewIdent("fmt"), "Errorf"),
			newStringLit("unknown "+goName+" value %q"),
			ast.NewIdent("name")))},
	})
	unmarshalBody := newBlock(
		&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.VAR, Specs: []ast.Spec{
			&ast.ValueSpec{Names: []*ast.Ident{ast.NewIdent("name")}, Type: typeExpr("string")},
		}}},
		&ast.IfStmt{
			Init: &ast.AssignStmt{
				Lhs: []ast.Expr{ast.NewIdent("err")},
				Tok: token.DEFINE,
				Rhs: []ast.Expr{newCall(newSelector(ast.NewIdent("json"), "Unmarshal"),
					ast.NewIdent("data"),
					&ast.UnaryExpr{Op: token.AND, X: ast.NewIdent("name")})},
			},
			Cond: &ast.BinaryExpr{X: ast.NewIdent("err"), Op: token.NEQ, Y: ast.NewIdent("nil")},
			Body: newBlock(newReturn(ast.NewIdent("err"))),
		},
		&ast.SwitchStmt{Tag: ast.NewIdent("name"), Body: newBlock(nameCases...)},
		newReturn(ast.NewIdent("nil")),
	)
	file.Decls = append(file.Decls, newMethod("v", "*"+goName, "UnmarshalJSON", "",
		[]*ast.Field{newField("data", typeExpr("[]byte"), "")},
		[]*ast.Field{{Type: typeExpr("error")}},
		unmarshalBody))
}

func (e *emitter) emitStruct(file *ast.File, typ *ResolvedType, fields []emittedField, kind string) {
	goName := e.names[typ.Name]

	structFields := make([]*ast.Field, 0, len(fields))
	for _, field := range fields {
		tag := ""
		if e.opts.Serialization {
			jsonTag := field.JSONName
			if strings.HasPrefix(field.GoType, "*") || strings.HasPrefix(field.GoType, "[]") {
				jsonTag += ",omitempty"
			}
			tag = fmt.Sprintf("`json:%q`", jsonTag)
		}
		structFields = append(structFields, newField(field.GoName, typeExpr(field.GoType), tag))
	}
	file.Decls = append(file.Decls,
		newTypeDecl(goName, fmt.Sprintf("%s is the %s %s.", goName, typ.Name, kind),
			newStructType(structFields)))

	if e.opts.Serialization && e.opts.EmptyStringAsNull {
		e.emitEmptyStringCoercion(file, goName, fields)
	}
	if e.opts.Reflection {
		e.emitReflectionImpl(file, typ, goName, fields)
	}
}

// emitEmptyStringCoercion emits an UnmarshalJSON hook that decodes through
// an alias type and then nils out nullable string fields holding "".
func (e *emitter) emitEmptyStringCoercion(file *ast.File, goName string, fields []emittedField) {
	var coerced []emittedField
	for _, field := range fields {
		if field.GoType == "*string" && !field.IsNav {
			coerced = append(coerced, field)
		}
	}
	if len(coerced) == 0 {
		return
	}

	stmts := []ast.Stmt{
		// type plain <T>
		&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.TYPE, Specs: []ast.Spec{
			&ast.TypeSpec{Name: ast.NewIdent("plain"), Type: ast.NewIdent(goName)},
		}}},
		// var decoded plain
		&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.VAR, Specs: []ast.Spec{
			&ast.ValueSpec{Names: []*ast.Ident{ast.NewIdent("decoded")}, Type: ast.NewIdent("plain")},
		}}},
		&ast.IfStmt{
			Init: &ast.AssignStmt{
				Lhs: []ast.Expr{ast.NewIdent("err")},
				Tok: token.DEFINE,
				Rhs: []ast.Expr{newCall(newSelector(ast.NewIdent("json"), "Unmarshal"),
					ast.NewIdent("data"),
					&ast.UnaryExpr{Op: token.AND, X: ast.NewIdent("decoded")})},
			},
			Cond: &ast.BinaryExpr{X: ast.NewIdent("err"), Op: token.NEQ, Y: ast.NewIdent("nil")},
			Body: newBlock(newReturn(ast.NewIdent("err"))),
		},
	}
	for _, field := range coerced {
		fieldExpr := newSelector(ast.NewIdent("decoded"), field.GoName)
		stmts = append(stmts, &ast.IfStmt{
			Cond: &ast.BinaryExpr{
				X:  &ast.BinaryExpr{X: fieldExpr, Op: token.NEQ, Y: ast.NewIdent("nil")},
				Op: token.LAND,
				Y: &ast.BinaryExpr{
					X:  &ast.StarExpr{X: newSelector(ast.NewIdent("decoded"), field.GoName)},
					Op: token.EQL,
					Y:  newStringLit(""),
				},
			},
			Body: newBlock(&ast.AssignStmt{
				Lhs: []ast.Expr{newSelector(ast.NewIdent("decoded"), field.GoName)},
				Tok: token.ASSIGN,
				Rhs: []ast.Expr{ast.NewIdent("nil")},
			}),
		})
	}
	stmts = append(stmts,
		&ast.AssignStmt{
			Lhs: []ast.Expr{&ast.StarExpr{X: ast.NewIdent("v")}},
			Tok: token.ASSIGN,
			Rhs: []ast.Expr{newCall(ast.NewIdent(goName), ast.NewIdent("decoded"))},
		},
		newReturn(ast.NewIdent("nil")),
	)

	file.Decls = append(file.Decls, newMethod("v", "*"+goName, "UnmarshalJSON",
		"UnmarshalJSON coerces empty strings in nullable string fields to nil.",
		[]*ast.Field{newField("data", typeExpr("[]byte"), "")},
		[]*ast.Field{{Type: typeExpr("error")}},
		newBlock(stmts...)))
}

func (e *emitter) emitReflectionImpl(file *ast.File, typ *ResolvedType, goName string, fields []emittedField) {
	file.Decls = append(file.Decls, newMethod("v", goName, "ODataTypeName", "",
		nil, []*ast.Field{{Type: typeExpr("string")}},
		newBlock(newReturn(newStringLit(typ.Name)))))

	var keysResult ast.Expr = ast.NewIdent("nil")
	if len(typ.Keys) > 0 {
		elts := make([]ast.Expr, len(typ.Keys))
		for i, key := range typ.Keys {
			elts[i] = newStringLit(key)
		}
		keysResult = &ast.CompositeLit{Type: typeExpr("[]string"), Elts: elts}
	}
	file.Decls = append(file.Decls, newMethod("v", goName, "ODataKeys", "",
		nil, []*ast.Field{{Type: typeExpr("[]string")}},
		newBlock(newReturn(keysResult))))

	var fieldElts []ast.Expr
	for _, field := range fields {
		if field.IsNav {
			continue
		}
		fieldElts = append(fieldElts, &ast.CompositeLit{Elts: []ast.Expr{
			newKeyValue("Name", newStringLit(field.JSONName)),
			newKeyValue("Type", newStringLit(field.Kind)),
			newKeyValue("Nullable", newBoolIdent(field.Nullable)),
			newKeyValue("Key", newBoolIdent(field.Key)),
		}})
	}
	var fieldsResult ast.Expr = ast.NewIdent("nil")
	if len(fieldElts) > 0 {
		fieldsResult = &ast.CompositeLit{Type: typeExpr("[]Field"), Elts: fieldElts}
	}
	file.Decls = append(file.Decls, newMethod("v", goName, "ODataFields", "",
		nil, []*ast.Field{{Type: typeExpr("[]Field")}},
		newBlock(newReturn(fieldsResult))))

	var relationElts []ast.Expr
	for _, field := range fields {
		if !field.IsNav {
			continue
		}
		relationElts = append(relationElts, &ast.CompositeLit{Elts: []ast.Expr{
			newKeyValue("Name", newStringLit(field.JSONName)),
			newKeyValue("Target", newStringLit(field.Target)),
			newKeyValue("ToMany", newBoolIdent(field.ToMany)),
		}})
	}
	var relationsResult ast.Expr = ast.NewIdent("nil")
	if len(relationElts) > 0 {
		relationsResult = &ast.CompositeLit{Type: typeExpr("[]Relation"), Elts: relationElts}
	}
	file.Decls = append(file.Decls, newMethod("v", goName, "ODataRelations", "",
		nil, []*ast.Field{{Type: typeExpr("[]Relation")}},
		newBlock(newReturn(relationsResult))))
}

func exported(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
