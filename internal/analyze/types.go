package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Package is a loaded Go package.
type Package struct {
	Name  string // Package name
	Path  string // Import path (empty for ad-hoc sources)
	Dir   string // Directory the generated file is written to
	Fset  *token.FileSet
	Files []*File
}

// File is a parsed source file.
type File struct {
	Path   string
	Syntax *ast.File
	// Imports maps the name a package is referred to by in this file to its
	// import path.
	Imports map[string]string
}

// TypeExpr is a type expression as written in source.
type TypeExpr struct {
	Expr ast.Expr
}

// String returns the expression in canonical Go syntax.
func (t TypeExpr) String() string {
	if t.Expr == nil {
		return ""
	}

	return types.ExprString(t.Expr)
}

// StructDecl is a foreign struct annotated with crepr directives.
type StructDecl struct {
	// Name of the foreign struct.
	Name string
	// TypeParams are the names of the struct's type parameters, in order.
	TypeParams []string
	// CReprOf is set by //crepr:creprof.
	CReprOf bool
	// AsNative is set by //crepr:asnative.
	AsNative bool
	// Target is the paired native type from //crepr:target. A full import
	// path in the directive is replaced by the package's default name.
	Target TypeExpr
	// TargetImports holds the import path written in the directive, keyed
	// by the name Target uses for it.
	TargetImports map[string]string
	// Fields in declaration order, blank fields excluded.
	Fields []FieldDecl
	// Imports maps every package qualifier used by Target and the field
	// types to its import path.
	Imports map[string]string
	// Pos is the position of the type name.
	Pos token.Position
}

// LocalType describes a type declared in the package being generated.
type LocalType struct {
	// Struct is set when the type is a struct type.
	Struct bool
	// CReprOf and AsNative report the derive directives on the type.
	CReprOf  bool
	AsNative bool
}

// FieldDecl is a named field of a foreign struct.
type FieldDecl struct {
	Name     string
	Type     TypeExpr
	Nullable bool
	Pos      token.Position
}
