// Package gen emits the CReprOf and AsNative methods of annotated structs.
//
// Generation approach uses text/template for the file skeleton and a
// table-driven emitter for method bodies; the result is formatted with
// golang.org/x/tools/imports.
//
// Field code shapes, per direction:
//   - C string conversion
//   - C string conversion guarded by a nil check
//   - Conversion through the field type (value or pointer)
//   - Conversion through the field type guarded by a nil check
//
// One file is produced per package. A run that reports any error diagnostic
// produces no files at all.
package gen
