package crepr

import "errors"

var (
	// ErrNullPointer is returned when a required foreign pointer is nil.
	ErrNullPointer = errors.New("crepr: null pointer")
	// ErrInvalidUTF8 is returned when a C string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("crepr: string is not valid UTF-8")
	// ErrInteriorNUL is returned when a Go string cannot be represented as a
	// C string because it contains a NUL byte.
	ErrInteriorNUL = errors.New("crepr: string contains NUL byte")
	// ErrOverflow is returned when a scalar does not fit the destination type.
	ErrOverflow = errors.New("crepr: value out of range")
	// ErrUnsupported is returned when two types have no known conversion.
	ErrUnsupported = errors.New("crepr: unsupported conversion")
)

// Error reports which field of a struct conversion failed.
type Error struct {
	// Field is the dotted path of the failing field, e.g. "Address.Street".
	Field string
	// Err is the underlying failure.
	Err error
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldError attaches a field name to err. Nested *Error values are flattened
// into a single dotted path. It returns nil if err is nil.
func FieldError(field string, err error) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*Error); ok {
		return &Error{Field: field + "." + fe.Field, Err: fe.Err}
	}

	return &Error{Field: field, Err: err}
}
