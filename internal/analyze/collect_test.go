package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepr-generator/internal/diagnostic"
)

func collectSource(t *testing.T, src string) ([]StructDecl, diagnostic.Diagnostics) {
	t.Helper()

	fset := token.NewFileSet()
	f, err := ParseFile(fset, "ffi.go", src)
	require.NoError(t, err)

	return Collect(NewPackage(fset, ".", f))
}

func collectFiles(t *testing.T, sources ...string) ([]StructDecl, diagnostic.Diagnostics) {
	t.Helper()

	fset := token.NewFileSet()

	files := make([]*File, 0, len(sources))
	for i, src := range sources {
		f, err := ParseFile(fset, fmt.Sprintf("ffi%d.go", i), src)
		require.NoError(t, err)

		files = append(files, f)
	}

	return Collect(NewPackage(fset, ".", files...))
}

func TestCollect_Person(t *testing.T) {
	src := `package ffi

import (
	"example.com/app/model"
	lib "example.com/app/ffi/shared"
)

// CPerson is the C view of model.Person.
//
//crepr:creprof
//crepr:asnative
//crepr:target model.Person
type CPerson struct {
	Name  *c_char
	Nick  *c_char ` + "`crepr:\"nullable\"`" + `
	Home  lib.CAddress
	Age, Height uint32
	_     [4]byte
}

type unrelated struct{ X int }
`

	structs, diags := collectSource(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, structs, 1)

	s := structs[0]
	assert.Equal(t, "CPerson", s.Name)
	assert.True(t, s.CReprOf)
	assert.True(t, s.AsNative)
	assert.Equal(t, "model.Person", s.Target.String())
	assert.Equal(t, map[string]string{
		"model": "example.com/app/model",
		"lib":   "example.com/app/ffi/shared",
	}, s.Imports)

	var names []string
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"Name", "Nick", "Home", "Age", "Height"}, names)
	assert.False(t, s.Fields[0].Nullable)
	assert.True(t, s.Fields[1].Nullable)
	assert.Equal(t, "lib.CAddress", s.Fields[2].Type.String())
	assert.Equal(t, 14, s.Fields[0].Pos.Line)

	require.Len(t, diags.Infos, 1, "blank padding field is reported")
	assert.Equal(t, diagnostic.CodeBlankField, diags.Infos[0].Code)
}

func TestCollect_GroupedGeneric(t *testing.T) {
	src := `package ffi

import "example.com/app/model"

type (
	//crepr:asnative
	//crepr:target model.Range[T]
	CRange[T any] struct {
		Lo, Hi T
	}

	// CPair is not annotated.
	CPair struct{ A, B int }
)
`

	structs, diags := collectSource(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, structs, 1)

	s := structs[0]
	assert.Equal(t, "CRange", s.Name)
	assert.False(t, s.CReprOf)
	assert.True(t, s.AsNative)
	assert.Equal(t, []string{"T"}, s.TypeParams)
	assert.Equal(t, "model.Range[T]", s.Target.String())
}

func TestCollect_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		msg  string
	}{
		{
			name: "missing target",
			src: `package ffi
//crepr:creprof
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeMissingTarget,
			msg:  "can't derive CReprOf without crepr:target directive",
		},
		{
			name: "duplicate target",
			src: `package ffi
//crepr:asnative
//crepr:target Person
//crepr:target Other
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeDuplicateTarget,
			msg:  "crepr:target given 2 times",
		},
		{
			name: "target not a path",
			src: `package ffi
//crepr:creprof
//crepr:target []Person
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeInvalidTarget,
			msg:  `crepr:target "[]Person" is not a type path`,
		},
		{
			name: "target does not parse",
			src: `package ffi
//crepr:creprof
//crepr:target model.
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeInvalidTarget,
			msg:  "is not a type path",
		},
		{
			name: "not a struct",
			src: `package ffi
//crepr:creprof
//crepr:target Handle
type CHandle uintptr
`,
			code: diagnostic.CodeNotStruct,
			msg:  "CReprOf can only be derived for structs",
		},
		{
			name: "unknown directive",
			src: `package ffi
//crepr:creprof
//crepr:target Person
//crepr:derive
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeUnknownDirective,
			msg:  "unknown directive crepr:derive",
		},
		{
			name: "misspelled directive",
			src: `package ffi
//crepr:creprof
//crepr:asnativ
//crepr:target Person
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeUnknownDirective,
			msg:  "unknown directive crepr:asnativ (did you mean asnative?)",
		},
		{
			name: "misspelled marker",
			src: `package ffi
//crepr:creprof
//crepr:target Person
type CPerson struct {
	Name *c_char ` + "`crepr:\"nulable\"`" + `
}
`,
			code: diagnostic.CodeUnknownMarker,
			msg:  `unknown field marker "nulable" (did you mean nullable?)`,
		},
		{
			name: "embedded field",
			src: `package ffi
//crepr:creprof
//crepr:target Person
type CPerson struct{ CBase }
`,
			code: diagnostic.CodeEmbeddedField,
			msg:  "field should have a name",
		},
		{
			name: "unknown marker",
			src: `package ffi
//crepr:creprof
//crepr:target Person
type CPerson struct {
	Name *c_char ` + "`crepr:\"optional\"`" + `
}
`,
			code: diagnostic.CodeUnknownMarker,
			msg:  `unknown field marker "optional"`,
		},
		{
			name: "unknown package",
			src: `package ffi
//crepr:creprof
//crepr:target model.Person
type CPerson struct{ Name *c_char }
`,
			code: diagnostic.CodeUnknownPackage,
			msg:  "package model is not imported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structs, diags := collectSource(t, tt.src)
			require.True(t, diags.HasErrors())
			assert.Empty(t, structs, "no declaration survives a fatal diagnostic")
			assert.Equal(t, tt.code, diags.Errors[0].Code)
			assert.Contains(t, diags.Errors[0].Message, tt.msg)
		})
	}
}

func TestCollect_UnusedTarget(t *testing.T) {
	src := `package ffi
//crepr:target Person
type CPerson struct{ Name *c_char }
`

	structs, diags := collectSource(t, src)
	assert.Empty(t, structs)
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeUnusedTarget, diags.Warnings[0].Code)
}

func TestCollect_CgoQualifier(t *testing.T) {
	src := `package ffi

// #include <stdint.h>
import "C"

import "example.com/app/model"

//crepr:creprof
//crepr:target model.Counter
type CCounter struct {
	Name  *C.char
	Count *C.uint32_t ` + "`crepr:\"nullable\"`" + `
}
`

	structs, diags := collectSource(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, structs, 1)
	assert.Equal(t, "C", structs[0].Imports["C"])
	assert.Equal(t, "*C.uint32_t", structs[0].Fields[1].Type.String())
}

func TestCollect_TargetImportPath(t *testing.T) {
	src := `package ffi

import "example.com/app/geo"

//crepr:creprof
//crepr:asnative
//crepr:target example.com/app/model.Pair[geo.Point]
type CPair struct {
	At geo.CPoint
}

//crepr:asnative
//crepr:target gopkg.in/yaml.v3.Node
type CNode struct{}
`

	structs, diags := collectSource(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, structs, 2)

	assert.Equal(t, "model.Pair[geo.Point]", structs[0].Target.String())
	assert.Equal(t, map[string]string{"model": "example.com/app/model"}, structs[0].TargetImports)
	assert.Equal(t, map[string]string{
		"model": "example.com/app/model",
		"geo":   "example.com/app/geo",
	}, structs[0].Imports)

	assert.Equal(t, "yaml.Node", structs[1].Target.String())
	assert.Equal(t, map[string]string{"yaml": "gopkg.in/yaml.v3"}, structs[1].Imports)
}

func TestCollect_TargetImportPathErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		code   string
	}{
		{"not an identifier", "example.com/crepr-rt.Thing", diagnostic.CodeInvalidTarget},
		{"malformed path", "example.com//model.Thing", diagnostic.CodeInvalidTarget},
		{"no type name", "example.com/app/model.", diagnostic.CodeInvalidTarget},
		{"conflicts with field import", "example.com/other/geo.Thing", diagnostic.CodeImportConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `package ffi

import "example.com/app/geo"

//crepr:creprof
//crepr:target ` + tt.target + `
type CThing struct {
	At geo.CPoint
}
`
			structs, diags := collectSource(t, src)
			require.True(t, diags.HasErrors())
			assert.Empty(t, structs)
			assert.Equal(t, tt.code, diags.Errors[0].Code)
		})
	}
}

func TestCollect_TargetQualifierFromOtherFile(t *testing.T) {
	annotated := `package ffi

//crepr:creprof
//crepr:target model.Person
type CPerson struct{ Age int32 }
`
	other := `package ffi

import "example.com/app/model"

var _ model.Person
`

	structs, diags := collectFiles(t, annotated, other)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, structs, 1)
	assert.Equal(t, map[string]string{"model": "example.com/app/model"}, structs[0].Imports)
}

func TestCollect_TargetQualifierAmbiguous(t *testing.T) {
	annotated := `package ffi

//crepr:creprof
//crepr:target model.Person
type CPerson struct{ Age int32 }
`
	one := `package ffi

import "example.com/one/model"
`
	two := `package ffi

import "example.com/two/model"
`

	structs, diags := collectFiles(t, annotated, one, two)
	require.True(t, diags.HasErrors())
	assert.Empty(t, structs)
	assert.Equal(t, diagnostic.CodeUnknownPackage, diags.Errors[0].Code)
	assert.Contains(t, diags.Errors[0].Message, "example.com/one/model, example.com/two/model")
}

func TestCollect_MalformedTag(t *testing.T) {
	c := &collector{fset: token.NewFileSet()}
	field := &ast.Field{
		Names: []*ast.Ident{ast.NewIdent("Name")},
		Tag:   &ast.BasicLit{Kind: token.STRING, Value: "`crepr:\"nullable\""},
	}

	nullable, ok := c.markers("CPerson", field)
	assert.False(t, nullable)
	assert.False(t, ok)
	require.Len(t, c.diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeInvalidTag, c.diags.Errors[0].Code)
	assert.Equal(t, "Name", c.diags.Errors[0].Field)
}

func TestLocalTypes(t *testing.T) {
	src := `package ffi

//crepr:creprof
//crepr:target Point
type CPoint struct{ X int32 }

type (
	//crepr:asnative
	//crepr:target Line
	CLine struct{ A, B CPoint }

	CPlain struct{}
)

type CInt int32

//crepr:creprof
type CBroken struct{}
`
	fset := token.NewFileSet()
	f, err := ParseFile(fset, "ffi.go", src)
	require.NoError(t, err)

	assert.Equal(t, map[string]LocalType{
		"CPoint":  {Struct: true, CReprOf: true},
		"CLine":   {Struct: true, AsNative: true},
		"CPlain":  {Struct: true},
		"CInt":    {},
		"CBroken": {Struct: true, CReprOf: true},
	}, LocalTypes(NewPackage(fset, ".", f)))
}
