package plan

import (
	"go/ast"

	"crepr-generator/internal/analyze"
	"crepr-generator/internal/diagnostic"
)

// Build classifies the fields of every declaration. A declaration with an
// unsupported field is dropped and reported; callers must not generate code
// when the returned diagnostics hold errors.
//
// locals indexes the types of the package (see analyze.LocalTypes). A field
// whose type is a local struct must derive every direction its parent
// derives, otherwise the generated call could only fail at run time. A nil
// locals skips that check.
func Build(decls []analyze.StructDecl, locals map[string]analyze.LocalType, charMarker string) ([]StructPlan, diagnostic.Diagnostics) {
	var (
		plans []StructPlan
		diags diagnostic.Diagnostics
	)

	for i := range decls {
		p, ok := buildStruct(&decls[i], locals, charMarker, &diags)
		if ok {
			plans = append(plans, p)
		}
	}

	return plans, diags
}

func buildStruct(decl *analyze.StructDecl, locals map[string]analyze.LocalType, charMarker string, diags *diagnostic.Diagnostics) (StructPlan, bool) {
	p := StructPlan{
		Name:             decl.Name,
		TypeParams:       decl.TypeParams,
		Target:           decl.Target.String(),
		TargetQualifiers: analyze.Qualifiers(decl.Target.Expr),
		Imports:          decl.Imports,
		Pos:              decl.Pos,
	}

	if decl.CReprOf {
		p.Directions = append(p.Directions, Forward)
	}

	if decl.AsNative {
		p.Directions = append(p.Directions, Reverse)
	}

	ok := true

	for _, f := range decl.Fields {
		loc := diagnostic.Location{Struct: decl.Name, Field: f.Name, Pos: f.Pos}

		class, elem, err := Classify(f.Type.Expr, charMarker)
		if err != nil {
			diags.AddError(diagnostic.CodeUnsupportedType, loc, "%v", err)

			ok = false

			continue
		}

		if class != ClassStringPointer && !checkDerives(&p, elem, locals, loc, diags) {
			ok = false
		}

		p.Fields = append(p.Fields, FieldPlan{
			Name:           f.Name,
			Type:           f.Type.String(),
			Elem:           analyze.TypeExpr{Expr: elem}.String(),
			ElemQualifiers: analyze.Qualifiers(elem),
			Class:          class,
			Nullable:       f.Nullable,
			Strategy:       StrategyFor(class, f.Nullable),
			Pos:            f.Pos,
		})
	}

	return p, ok
}

// checkDerives reports the directions of p that the local struct elem does
// not derive.
func checkDerives(p *StructPlan, elem ast.Expr, locals map[string]analyze.LocalType, loc diagnostic.Location, diags *diagnostic.Diagnostics) bool {
	name, ok := localName(elem)
	if !ok {
		return true
	}

	lt, ok := locals[name]
	if !ok || !lt.Struct {
		return true
	}

	valid := true

	for _, d := range p.Directions {
		directive := analyze.DirectiveCReprOf
		has := lt.CReprOf

		if d == Reverse {
			directive, has = analyze.DirectiveAsNative, lt.AsNative
		}

		if !has {
			diags.AddError(diagnostic.CodeMissingDerive, loc,
				"%s has no %s conversion; add //crepr:%s to %s", name, d, directive, name)

			valid = false
		}
	}

	return valid
}

// localName returns the name of an unqualified type path, without type
// arguments.
func localName(e ast.Expr) (string, bool) {
	switch t := e.(type) {
	case *ast.IndexExpr:
		e = t.X
	case *ast.IndexListExpr:
		e = t.X
	}

	id, ok := e.(*ast.Ident)
	if !ok {
		return "", false
	}

	return id.Name, true
}
