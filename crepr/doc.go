// Package crepr is the runtime support library called by code generated with
// crepr-generator.
//
// Generated CReprOf and AsNative methods never touch memory or strings
// directly. They go through the helpers in this package:
//   - CString / GoString / GoStringPtr for C string fields
//   - ValueOf / PointerTo for native to foreign conversion
//   - NativeOf / NativeOfPtr for foreign to native conversion
//
// A foreign type takes part in conversion by implementing CReprOfer on its
// pointer type, AsNativer on its pointer type, or both. Scalars (integers,
// floats, bools and strings, including named C scalar types) convert by kind.
//
// Memory handed out by CString and PointerTo lives on the C heap when cgo is
// enabled and on the Go heap otherwise. Release it with FreeCString and Free.
package crepr
