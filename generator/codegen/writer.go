package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"strings"
)

// go/ast construction helpers. The emitter builds declarations as AST
// nodes and renders them through go/format, so the output is always valid,
// gofmt-formatted Go.

func newFile(packageName string) *ast.File {
	return &ast.File{
		Name:  ast.NewIdent(packageName),
		Decls: []ast.Decl{},
	}
}

func addImports(file *ast.File, imports []string) {
	if len(imports) == 0 {
		return
	}
	specs := make([]ast.Spec, len(imports))
	for i, imp := range imports {
		specs[i] = &ast.ImportSpec{
			Path: &ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", imp)},
		}
	}
	decl := &ast.GenDecl{Tok: token.IMPORT, Specs: specs}
	if len(specs) > 1 {
		decl.Lparen = token.Pos(1)
	}
	file.Decls = append(file.Decls, decl)
}

// typeExpr parses a Go type string ("*string", "[]Person", "time.Time")
// into an AST expression.
func typeExpr(typeStr string) ast.Expr {
	if strings.HasPrefix(typeStr, "*") {
		return &ast.StarExpr{X: typeExpr(typeStr[1:])}
	}
	if strings.HasPrefix(typeStr, "[]") {
		return &ast.ArrayType{Elt: typeExpr(typeStr[2:])}
	}
	if dot := strings.Index(typeStr, "."); dot >= 0 {
		return &ast.SelectorExpr{
			X:   ast.NewIdent(typeStr[:dot]),
			Sel: ast.NewIdent(typeStr[dot+1:]),
		}
	}
	return ast.NewIdent(typeStr)
}

func newField(name string, typ ast.Expr, tag string) *ast.Field {
	field := &ast.Field{
		Names: []*ast.Ident{ast.NewIdent(name)},
		Type:  typ,
	}
	if tag != "" {
		field.Tag = &ast.BasicLit{Kind: token.STRING, Value: tag}
	}
	return field
}

func newTypeDecl(name, doc string, typ ast.Expr) *ast.GenDecl {
	decl := &ast.GenDecl{
		Tok: token.TYPE,
		Specs: []ast.Spec{
			&ast.TypeSpec{Name: ast.NewIdent(name), Type: typ},
		},
	}
	if doc != "" {
		decl.Doc = &ast.CommentGroup{List: []*ast.Comment{{Text: "// " + doc}}}
	}
	return decl
}

func newStructType(fields []*ast.Field) *ast.StructType {
	return &ast.StructType{Fields: &ast.FieldList{List: fields}}
}

// newConstBlock builds a parenthesized const block where every name has
// the given type.
func newConstBlock(typeName string, names []string, values []int64) *ast.GenDecl {
	specs := make([]ast.Spec, len(names))
	for i := range names {
		specs[i] = &ast.ValueSpec{
			Names:  []*ast.Ident{ast.NewIdent(names[i])},
			Type:   ast.NewIdent(typeName),
			Values: []ast.Expr{newIntLit(values[i])},
		}
	}
	return &ast.GenDecl{Tok: token.CONST, Lparen: token.Pos(1), Specs: specs}
}

func newMethod(recvName, recvType, name, doc string, params, results []*ast.Field, body *ast.BlockStmt) *ast.FuncDecl {
	decl := &ast.FuncDecl{
		Recv: &ast.FieldList{
			List: []*ast.Field{
				{Names: []*ast.Ident{ast.NewIdent(recvName)}, Type: typeExpr(recvType)},
			},
		},
		Name: ast.NewIdent(name),
		Type: &ast.FuncType{
			Params:  &ast.FieldList{List: params},
			Results: &ast.FieldList{List: results},
		},
		Body: body,
	}
	if doc != "" {
		decl.Doc = &ast.CommentGroup{List: []*ast.Comment{{Text: "// " + doc}}}
	}
	return decl
}

func newStringLit(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", s)}
}

func newIntLit(v int64) ast.Expr {
	if v < 0 {
		return &ast.UnaryExpr{Op: token.SUB, X: &ast.BasicLit{Kind: token.INT, Value: fmt.Sprintf("%d", -v)}}
	}
	return &ast.BasicLit{Kind: token.INT, Value: fmt.Sprintf("%d", v)}
}

func newBoolIdent(b bool) *ast.Ident {
	if b {
		return ast.NewIdent("true")
	}
	return ast.NewIdent("false")
}

func newSelector(x ast.Expr, sel string) *ast.SelectorExpr {
	return &ast.SelectorExpr{X: x, Sel: ast.NewIdent(sel)}
}

func newCall(fun ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Fun: fun, Args: args}
}

func newReturn(exprs ...ast.Expr) *ast.ReturnStmt {
	return &ast.ReturnStmt{Results: exprs}
}

func newBlock(stmts ...ast.Stmt) *ast.BlockStmt {
	return &ast.BlockStmt{List: stmts}
}

func newKeyValue(key string, value ast.Expr) *ast.KeyValueExpr {
	return &ast.KeyValueExpr{Key: ast.NewIdent(key), Value: value}
}

// render formats the file, prefixed with the generated-code header.
func render(file *ast.File, header string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	fset := token.NewFileSet()
	if err := format.Node(&buf, fset, file); err != nil {
		return "", fmt.Errorf("failed to format generated code: %w", err)
	}
	return buf.String(), nil
}
