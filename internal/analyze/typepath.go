package analyze

import "go/ast"

// IsTypePath reports whether e is a named type reference: Name, pkg.Name,
// optionally instantiated with type arguments (Name[A, B]).
func IsTypePath(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.IndexExpr:
		return isBasePath(t.X)
	case *ast.IndexListExpr:
		return isBasePath(t.X)
	default:
		return isBasePath(e)
	}
}

func isBasePath(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	default:
		return false
	}
}

// PathSegments returns the identifiers of a type path, excluding type
// arguments: "C.char" -> [C char], "lib.Pair[int]" -> [lib Pair].
// It returns nil if e is not a type path.
func PathSegments(e ast.Expr) []string {
	switch t := e.(type) {
	case *ast.IndexExpr:
		return PathSegments(t.X)
	case *ast.IndexListExpr:
		return PathSegments(t.X)
	case *ast.Ident:
		return []string{t.Name}
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return nil
		}

		return []string{x.Name, t.Sel.Name}
	default:
		return nil
	}
}

// Qualifiers returns the package qualifiers referenced anywhere in e, in
// order of appearance.
func Qualifiers(e ast.Expr) []string {
	var out []string

	ast.Inspect(e, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		if x, ok := sel.X.(*ast.Ident); ok {
			out = append(out, x.Name)
			return false
		}

		return true
	})

	return out
}
