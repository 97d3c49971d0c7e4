package plan

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crepr-generator/internal/analyze"
	"crepr-generator/internal/diagnostic"
)

// build collects src and plans it with the package's local types.
func build(t *testing.T, src string) ([]StructPlan, diagnostic.Diagnostics) {
	t.Helper()

	fset := token.NewFileSet()
	f, err := analyze.ParseFile(fset, "ffi.go", src)
	require.NoError(t, err)

	pkg := analyze.NewPackage(fset, ".", f)

	decls, diags := analyze.Collect(pkg)
	require.False(t, diags.HasErrors(), diags.Error())

	return Build(decls, analyze.LocalTypes(pkg), "char")
}

const counterSrc = `package ffi

import "example.com/app/model"

type c_char = int8

//crepr:creprof
//crepr:asnative
//crepr:target model.Counter
type CCounter struct {
	Name  *c_char
	Count *uint32 ` + "`crepr:\"nullable\"`" + `
	Total uint64
}
`

func TestBuild_Counter(t *testing.T) {
	plans, diags := build(t, counterSrc)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, plans, 1)

	p := plans[0]
	assert.Equal(t, "CCounter", p.Receiver())
	assert.Equal(t, "model.Counter", p.Target)
	assert.Equal(t, []Direction{Forward, Reverse}, p.Directions)
	assert.True(t, p.Has(Reverse))

	require.Len(t, p.Fields, 3)

	assert.Equal(t, FieldPlan{
		Name: "Name", Type: "*c_char", Elem: "c_char",
		Class: ClassStringPointer, Strategy: StrategyString, Pos: p.Fields[0].Pos,
	}, p.Fields[0])
	assert.Equal(t, FieldPlan{
		Name: "Count", Type: "*uint32", Elem: "uint32",
		Class: ClassOpaquePointer, Nullable: true, Strategy: StrategyNullableConvert, Pos: p.Fields[1].Pos,
	}, p.Fields[1])
	assert.Equal(t, FieldPlan{
		Name: "Total", Type: "uint64", Elem: "uint64",
		Class: ClassValue, Strategy: StrategyConvert, Pos: p.Fields[2].Pos,
	}, p.Fields[2])
}

func TestBuild_UnsupportedFieldDropsStruct(t *testing.T) {
	src := `package ffi

//crepr:creprof
//crepr:target Bag
type CBag struct {
	Items []int32
	Ok    bool
}

//crepr:creprof
//crepr:target Flag
type CFlag struct {
	Ok bool
}
`

	plans, diags := build(t, src)
	require.True(t, diags.HasErrors())
	require.Len(t, diags.Errors, 1)

	d := diags.Errors[0]
	assert.Equal(t, diagnostic.CodeUnsupportedType, d.Code)
	assert.Equal(t, "CBag", d.Struct)
	assert.Equal(t, "Items", d.Field)
	assert.Equal(t, "unsupported field type []int32", d.Message)

	require.Len(t, plans, 1)
	assert.Equal(t, "CFlag", plans[0].Name)
}

func TestBuild_GenericReceiver(t *testing.T) {
	src := `package ffi

//crepr:asnative
//crepr:target Pair[K, V]
type CPair[K, V any] struct {
	Key K
	Val *V
}
`

	plans, diags := build(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, plans, 1)
	assert.Equal(t, "CPair[K, V]", plans[0].Receiver())
	assert.Equal(t, []Direction{Reverse}, plans[0].Directions)
	assert.False(t, plans[0].Has(Forward))
	assert.Equal(t, ClassValue, plans[0].Fields[0].Class)
	assert.Equal(t, ClassOpaquePointer, plans[0].Fields[1].Class)
}

func TestBuild_MissingDerive(t *testing.T) {
	src := `package ffi

import "example.com/app/lib"

//crepr:creprof
//crepr:asnative
//crepr:target Person
type CPerson struct {
	Home  CAddress
	Work  *CAddress
	Tags  CTags[int32]
	Plain *CPlain
	Count CInt
	Span  lib.CSpan
}

//crepr:asnative
//crepr:target Address
type CAddress struct{ Zip int32 }

//crepr:creprof
//crepr:asnative
//crepr:target Tags[T]
type CTags[T any] struct{ N T }

type CPlain struct{ X int32 }

type CInt int32
`
	plans, diags := build(t, src)
	require.True(t, diags.HasErrors())

	var got []string
	for _, d := range diags.Errors {
		assert.Equal(t, diagnostic.CodeMissingDerive, d.Code)
		assert.Equal(t, "CPerson", d.Struct)
		got = append(got, d.Field+": "+d.Message)
	}

	assert.Equal(t, []string{
		"Home: CAddress has no CReprOf conversion; add //crepr:creprof to CAddress",
		"Work: CAddress has no CReprOf conversion; add //crepr:creprof to CAddress",
		"Plain: CPlain has no CReprOf conversion; add //crepr:creprof to CPlain",
		"Plain: CPlain has no AsNative conversion; add //crepr:asnative to CPlain",
	}, got)

	names := make([]string, 0, len(plans))
	for _, p := range plans {
		names = append(names, p.Name)
	}

	assert.Equal(t, []string{"CAddress", "CTags"}, names)
}

func TestBuild_ReverseOnlyNeedsAsNative(t *testing.T) {
	src := `package ffi

//crepr:asnative
//crepr:target Person
type CPerson struct {
	Home CAddress
}

//crepr:asnative
//crepr:target Address
type CAddress struct{ Zip int32 }
`

	plans, diags := build(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	assert.Len(t, plans, 2)
}

func TestBuild_NilLocalsSkipsDeriveCheck(t *testing.T) {
	fset := token.NewFileSet()
	f, err := analyze.ParseFile(fset, "ffi.go", `package ffi

//crepr:creprof
//crepr:target Person
type CPerson struct{ Home CPlain }

type CPlain struct{}
`)
	require.NoError(t, err)

	decls, _ := analyze.Collect(analyze.NewPackage(fset, ".", f))

	plans, diags := Build(decls, nil, "char")
	assert.False(t, diags.HasErrors())
	assert.Len(t, plans, 1)
}
