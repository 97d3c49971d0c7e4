package analyze

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/module"

	"crepr-generator/internal/common"
	"crepr-generator/internal/diagnostic"
	"crepr-generator/internal/match"
)

// Directive names, without the "//crepr:" prefix.
const (
	DirectiveCReprOf  = "creprof"
	DirectiveAsNative = "asnative"
	DirectiveTarget   = "target"
)

const (
	directivePrefix = "//crepr:"
	// TagKey is the struct tag key holding field markers.
	TagKey = "crepr"
	// MarkerNullable marks a field whose native counterpart is optional.
	MarkerNullable = "nullable"
)

var (
	knownDirectives = []string{DirectiveCReprOf, DirectiveAsNative, DirectiveTarget}
	knownMarkers    = []string{MarkerNullable}
)

type directive struct {
	name string
	arg  string
	pos  token.Pos
}

// Collect returns the annotated structs of every file in pkg, in source order.
func Collect(pkg *Package) ([]StructDecl, diagnostic.Diagnostics) {
	c := &collector{fset: pkg.Fset, pkgImports: packageImports(pkg)}
	for _, f := range pkg.Files {
		eachTypeSpec(f, func(ts *ast.TypeSpec, dirs []directive) {
			if len(dirs) == 0 {
				return
			}

			if decl, ok := c.collectStruct(f, ts, dirs); ok {
				c.structs = append(c.structs, decl)
			}
		})
	}

	return c.structs, c.diags
}

type collector struct {
	fset *token.FileSet
	// pkgImports maps a qualifier to every distinct path it names in some
	// file of the package.
	pkgImports map[string][]string
	structs    []StructDecl
	diags      diagnostic.Diagnostics
}

// eachTypeSpec calls fn for every type declared in f with the crepr
// directives attached to it.
func eachTypeSpec(f *File, fn func(ts *ast.TypeSpec, dirs []directive)) {
	for _, decl := range f.Syntax.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			// A lone "type X ..." carries its doc on the GenDecl.
			var dirs []directive
			if !genDecl.Lparen.IsValid() {
				dirs = directives(genDecl.Doc)
			}

			fn(typeSpec, append(dirs, directives(typeSpec.Doc)...))
		}
	}
}

func packageImports(pkg *Package) map[string][]string {
	out := make(map[string][]string)

	for _, f := range pkg.Files {
		for name, path := range f.Imports {
			if !slices.Contains(out[name], path) {
				out[name] = append(out[name], path)
			}
		}
	}

	return out
}

// LocalTypes indexes the types declared in pkg by name. Derive flags reflect
// the directives present, whether or not the declaration is otherwise valid.
func LocalTypes(pkg *Package) map[string]LocalType {
	out := make(map[string]LocalType)

	for _, f := range pkg.Files {
		eachTypeSpec(f, func(ts *ast.TypeSpec, dirs []directive) {
			lt := LocalType{}
			_, lt.Struct = ts.Type.(*ast.StructType)

			for _, d := range dirs {
				switch d.name {
				case DirectiveCReprOf:
					lt.CReprOf = true
				case DirectiveAsNative:
					lt.AsNative = true
				}
			}

			out[ts.Name.Name] = lt
		})
	}

	return out
}

// directives extracts //crepr: lines from a comment group.
func directives(cg *ast.CommentGroup) []directive {
	if cg == nil {
		return nil
	}

	var out []directive
	for _, cm := range cg.List {
		rest, ok := strings.CutPrefix(cm.Text, directivePrefix)
		if !ok {
			continue
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(rest), " ")
		out = append(out, directive{name: name, arg: strings.TrimSpace(arg), pos: cm.Slash})
	}

	return out
}

func (c *collector) collectStruct(f *File, ts *ast.TypeSpec, dirs []directive) (StructDecl, bool) {
	decl := StructDecl{
		Name: ts.Name.Name,
		Pos:  c.fset.Position(ts.Name.Pos()),
	}

	var targets []directive
	valid := true

	for _, d := range dirs {
		loc := diagnostic.Location{Struct: decl.Name, Pos: c.fset.Position(d.pos)}

		switch d.name {
		case DirectiveCReprOf, DirectiveAsNative:
			if d.arg != "" {
				c.diags.AddError(diagnostic.CodeUnknownDirective, loc,
					"crepr:%s takes no argument, got %q", d.name, d.arg)

				valid = false
			}

			if d.name == DirectiveCReprOf {
				decl.CReprOf = true
			} else {
				decl.AsNative = true
			}

		case DirectiveTarget:
			targets = append(targets, d)

		default:
			c.diags.AddError(diagnostic.CodeUnknownDirective, loc, "unknown directive crepr:%s%s",
				d.name, match.DidYouMean(d.name, knownDirectives))

			valid = false
		}
	}

	loc := diagnostic.Location{Struct: decl.Name, Pos: decl.Pos}

	if !decl.CReprOf && !decl.AsNative {
		if len(targets) > 0 {
			c.diags.AddWarning(diagnostic.CodeUnusedTarget, loc,
				"crepr:target without crepr:%s or crepr:%s is ignored", DirectiveCReprOf, DirectiveAsNative)
		}

		return decl, false
	}

	derive := derivedName(&decl)

	structType, ok := ts.Type.(*ast.StructType)
	if !ok {
		c.diags.AddError(diagnostic.CodeNotStruct, loc, "%s can only be derived for structs", derive)
		return decl, false
	}

	switch len(targets) {
	case 0:
		c.diags.AddError(diagnostic.CodeMissingTarget, loc,
			"can't derive %s without crepr:target directive", derive)

		return decl, false

	case 1:
		if !c.parseTarget(&decl, targets[0]) {
			return decl, false
		}

	default:
		c.diags.AddError(diagnostic.CodeDuplicateTarget, loc,
			"crepr:target given %d times, expected exactly one", len(targets))

		return decl, false
	}

	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			for _, name := range field.Names {
				decl.TypeParams = append(decl.TypeParams, name.Name)
			}
		}
	}

	if !c.collectFields(&decl, structType) {
		valid = false
	}

	if !c.resolveImports(f, &decl) {
		valid = false
	}

	return decl, valid
}

// derivedName names the derive in messages, preferring CReprOf.
func derivedName(decl *StructDecl) string {
	if decl.CReprOf {
		return "CReprOf"
	}

	return "AsNative"
}

func (c *collector) parseTarget(decl *StructDecl, d directive) bool {
	loc := diagnostic.Location{Struct: decl.Name, Pos: c.fset.Position(d.pos)}

	if d.arg == "" {
		c.diags.AddError(diagnostic.CodeInvalidTarget, loc, "crepr:target requires a type argument")
		return false
	}

	src := d.arg

	if path, rest, ok := splitImportPath(d.arg); ok {
		alias := common.PkgAlias(path)
		if module.CheckImportPath(path) != nil || !token.IsIdentifier(alias) {
			c.diags.AddError(diagnostic.CodeInvalidTarget, loc, "crepr:target %q has an unusable import path %q", d.arg, path)
			return false
		}

		decl.TargetImports = map[string]string{alias: path}
		src = alias + "." + rest
	}

	expr, err := parser.ParseExpr(src)
	if err != nil || !IsTypePath(expr) {
		c.diags.AddError(diagnostic.CodeInvalidTarget, loc, "crepr:target %q is not a type path", d.arg)
		return false
	}

	decl.Target = TypeExpr{Expr: expr}

	return true
}

// splitImportPath splits a target written with a full import path,
// "example.com/app/model.Pair[T]", into "example.com/app/model" and
// "Pair[T]". ok is false when the base type has no import path.
func splitImportPath(arg string) (path, rest string, ok bool) {
	base := arg
	if i := strings.IndexByte(arg, '['); i >= 0 {
		base = arg[:i]
	}

	slash := strings.LastIndexByte(base, '/')
	if slash < 0 {
		return "", "", false
	}

	dot := strings.LastIndexByte(base, '.')
	if dot < slash {
		return "", "", false
	}

	return base[:dot], arg[dot+1:], true
}

func (c *collector) collectFields(decl *StructDecl, st *ast.StructType) bool {
	valid := true

	for _, field := range st.Fields.List {
		pos := c.fset.Position(field.Pos())

		if len(field.Names) == 0 {
			c.diags.AddError(diagnostic.CodeEmbeddedField,
				diagnostic.Location{Struct: decl.Name, Field: TypeExpr{Expr: field.Type}.String(), Pos: pos},
				"embedded fields are not supported, field should have a name")

			valid = false

			continue
		}

		nullable, ok := c.markers(decl.Name, field)
		if !ok {
			valid = false
		}

		for _, name := range field.Names {
			if name.Name == "_" {
				c.diags.AddInfo(diagnostic.CodeBlankField,
					diagnostic.Location{Struct: decl.Name, Field: "_", Pos: pos}, "blank field skipped")

				continue
			}

			decl.Fields = append(decl.Fields, FieldDecl{
				Name:     name.Name,
				Type:     TypeExpr{Expr: field.Type},
				Nullable: nullable,
				Pos:      c.fset.Position(name.Pos()),
			})
		}
	}

	return valid
}

// markers reads the crepr struct tag of field.
func (c *collector) markers(structName string, field *ast.Field) (nullable, ok bool) {
	if field.Tag == nil {
		return false, true
	}

	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		c.diags.AddError(diagnostic.CodeInvalidTag, diagnostic.Location{
			Struct: structName,
			Field:  field.Names[0].Name,
			Pos:    c.fset.Position(field.Tag.Pos()),
		}, "malformed struct tag %s", field.Tag.Value)

		return false, false
	}

	ok = true

	for _, m := range strings.Split(reflect.StructTag(raw).Get(TagKey), ",") {
		switch m = strings.TrimSpace(m); m {
		case "":
		case MarkerNullable:
			nullable = true
		default:
			c.diags.AddError(diagnostic.CodeUnknownMarker, diagnostic.Location{
				Struct: structName,
				Field:  field.Names[0].Name,
				Pos:    c.fset.Position(field.Tag.Pos()),
			}, "unknown field marker %q%s", m, match.DidYouMean(m, knownMarkers))

			ok = false
		}
	}

	return nullable, ok
}

// resolveImports maps every qualifier used by the target and field types to
// an import path. Field types are compiled code, so their qualifiers must be
// imported by f. The target only appears in a comment: its qualifiers come
// from the directive's import path, then f, then any other file of the
// package.
func (c *collector) resolveImports(f *File, decl *StructDecl) bool {
	decl.Imports = make(map[string]string)
	valid := true

	fail := func(field string, pos token.Position, code, format string, args ...any) {
		c.diags.AddError(code, diagnostic.Location{Struct: decl.Name, Field: field, Pos: pos}, format, args...)
		valid = false
	}

	record := func(field string, pos token.Position, q, path string) {
		if have, ok := decl.Imports[q]; ok && have != path {
			fail(field, pos, diagnostic.CodeImportConflict, "qualifier %s refers to both %q and %q", q, have, path)
			return
		}

		decl.Imports[q] = path
	}

	for _, q := range Qualifiers(decl.Target.Expr) {
		if path, ok := decl.TargetImports[q]; ok {
			record("", decl.Pos, q, path)
			continue
		}

		if path, ok := f.Imports[q]; ok {
			record("", decl.Pos, q, path)
			continue
		}

		switch paths := c.pkgImports[q]; len(paths) {
		case 0:
			fail("", decl.Pos, diagnostic.CodeUnknownPackage,
				"package %s is not imported; write the full import path in crepr:target", q)
		case 1:
			record("", decl.Pos, q, paths[0])
		default:
			fail("", decl.Pos, diagnostic.CodeUnknownPackage,
				"package %s is ambiguous in this package (%s); write the full import path in crepr:target",
				q, strings.Join(paths, ", "))
		}
	}

	for _, field := range decl.Fields {
		for _, q := range Qualifiers(field.Type.Expr) {
			path, ok := f.Imports[q]
			if !ok {
				fail(field.Name, field.Pos, diagnostic.CodeUnknownPackage, "package %s is not imported", q)
				continue
			}

			record(field.Name, field.Pos, q, path)
		}
	}

	return valid
}
