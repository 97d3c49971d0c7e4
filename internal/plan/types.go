package plan

import (
	"go/token"
	"strings"

	"crepr-generator/internal/common"
)

//go:generate go tool stringer -type=Direction -linecomment -output=direction_string.go

// Direction selects which conversion is generated.
type Direction int

const (
	Forward Direction = iota // CReprOf
	Reverse                  // AsNative
)

// Classification is the shape of a foreign field type.
type Classification int

const (
	// ClassValue - a named, non-pointer type converted by value.
	ClassValue Classification = iota
	// ClassStringPointer - pointer to a C character element type.
	ClassStringPointer
	// ClassOpaquePointer - pointer to any other named type.
	ClassOpaquePointer
)

// String returns a human-readable classification name.
func (c Classification) String() string {
	switch c {
	case ClassValue:
		return "value"
	case ClassStringPointer:
		return "string_pointer"
	case ClassOpaquePointer:
		return "opaque_pointer"
	default:
		return common.UnknownStr
	}
}

// ConversionStrategy describes the code shape generated for a field.
type ConversionStrategy int

const (
	// StrategyString - unconditional C string conversion.
	StrategyString ConversionStrategy = iota
	// StrategyNullableString - C string conversion guarded by a nil check.
	StrategyNullableString
	// StrategyConvert - unconditional call of the field type's conversion.
	StrategyConvert
	// StrategyNullableConvert - conversion guarded by a nil check.
	StrategyNullableConvert
)

// String returns a human-readable strategy name.
func (s ConversionStrategy) String() string {
	switch s {
	case StrategyString:
		return "string"
	case StrategyNullableString:
		return "nullable_string"
	case StrategyConvert:
		return "convert"
	case StrategyNullableConvert:
		return "nullable_convert"
	default:
		return common.UnknownStr
	}
}

// Nullable reports whether the strategy guards the conversion with a nil
// check.
func (s ConversionStrategy) Nullable() bool {
	return s == StrategyNullableString || s == StrategyNullableConvert
}

// StrategyFor combines a classification and the nullable marker.
func StrategyFor(class Classification, nullable bool) ConversionStrategy {
	switch {
	case class == ClassStringPointer && nullable:
		return StrategyNullableString
	case class == ClassStringPointer:
		return StrategyString
	case nullable:
		return StrategyNullableConvert
	default:
		return StrategyConvert
	}
}

// StructPlan is everything needed to generate the conversions of one struct.
type StructPlan struct {
	// Name of the foreign struct.
	Name string
	// TypeParams are the struct's type parameter names.
	TypeParams []string
	// Target is the native type expression, e.g. "model.Person".
	Target string
	// TargetQualifiers are the package qualifiers used by Target.
	TargetQualifiers []string
	// Directions lists the conversions to generate, Forward first.
	Directions []Direction
	// Fields in declaration order.
	Fields []FieldPlan
	// Imports maps package qualifiers used by Target and field types to
	// their import paths.
	Imports map[string]string
	// Pos is the position of the struct declaration.
	Pos token.Position
}

// Receiver returns the receiver base type of generated methods, with type
// parameters: "CRange[T]".
func (p *StructPlan) Receiver() string {
	if len(p.TypeParams) == 0 {
		return p.Name
	}

	return p.Name + "[" + strings.Join(p.TypeParams, ", ") + "]"
}

// Has reports whether the plan generates direction d.
func (p *StructPlan) Has(d Direction) bool {
	for _, have := range p.Directions {
		if have == d {
			return true
		}
	}

	return false
}

// FieldPlan is the resolved conversion of one field.
type FieldPlan struct {
	// Name of the field, shared by the foreign and native structs.
	Name string
	// Type is the declared foreign type, e.g. "*C.char".
	Type string
	// Elem is the type the conversion call is instantiated with: the
	// pointee for pointer classes, Type itself for values.
	Elem string
	// ElemQualifiers are the package qualifiers used by Elem.
	ElemQualifiers []string
	// Class is the type shape.
	Class Classification
	// Nullable is set by the nullable marker.
	Nullable bool
	// Strategy is derived from Class and Nullable.
	Strategy ConversionStrategy
	// Pos is the position of the field name.
	Pos token.Position
}
