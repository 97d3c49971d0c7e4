// Package plan classifies the fields of annotated structs and decides the
// conversion strategy of each one.
//
// Pipeline:
//  1. analyze.Collect -> []analyze.StructDecl
//  2. Classify each field type: string pointer, opaque pointer or value
//  3. Combine the classification with the nullable marker into one of four
//     strategies (string, nullable string, convert, nullable convert)
//  4. Emit diagnostics for unsupported field types
//
// The result is a StructPlan per struct, consumed by package gen.
package plan
