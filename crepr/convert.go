package crepr

import (
	"fmt"
	"reflect"
)

// CReprOfer is implemented by pointers to foreign types that can be filled
// from a native N.
type CReprOfer[N any] interface {
	CReprOf(input N) error
}

// AsNativer is implemented by pointers to foreign types that can be turned
// back into a native N.
type AsNativer[N any] interface {
	AsNative() (N, error)
}

// ValueOf converts the native value n into the foreign type F.
//
// F is usually named explicitly at the call site (ValueOf[CPoint](p)) and N is
// inferred from the argument.
func ValueOf[F, N any](n N) (F, error) {
	var f F
	if c, ok := any(&f).(CReprOfer[N]); ok {
		if err := c.CReprOf(n); err != nil {
			var zero F
			return zero, err
		}

		return f, nil
	}

	if v, ok := any(n).(F); ok {
		return v, nil
	}

	if err := convertScalar(reflect.ValueOf(&f).Elem(), reflect.ValueOf(n)); err != nil {
		var zero F
		return zero, err
	}

	return f, nil
}

// PointerTo converts n into a freshly allocated foreign F.
func PointerTo[F, N any](n N) (*F, error) {
	v, err := ValueOf[F](n)
	if err != nil {
		return nil, err
	}

	p := newValue[F]()
	*p = v

	return p, nil
}

// NativeOf converts the foreign value at src into dst.
func NativeOf[N, F any](dst *N, src *F) error {
	if src == nil {
		return ErrNullPointer
	}

	if c, ok := any(src).(AsNativer[N]); ok {
		v, err := c.AsNative()
		if err != nil {
			return err
		}

		*dst = v

		return nil
	}

	if v, ok := any(*src).(N); ok {
		*dst = v
		return nil
	}

	return convertScalar(reflect.ValueOf(dst).Elem(), reflect.ValueOf(*src))
}

// NativeOfPtr is NativeOf for optional native fields: on success dst points to
// a freshly allocated native value.
func NativeOfPtr[N, F any](dst **N, src *F) error {
	v := new(N)
	if err := NativeOf(v, src); err != nil {
		return err
	}

	*dst = v

	return nil
}

// convertScalar copies src into dst when both are scalars of the same family.
// Integer conversions are range checked; int and float never mix.
func convertScalar(dst, src reflect.Value) error {
	if !src.IsValid() {
		return ErrNullPointer
	}

	switch {
	case isSigned(src.Kind()) && isSigned(dst.Kind()):
		if dst.OverflowInt(src.Int()) {
			return overflow(src, dst)
		}

		dst.SetInt(src.Int())

	case isSigned(src.Kind()) && isUnsigned(dst.Kind()):
		if src.Int() < 0 || dst.OverflowUint(uint64(src.Int())) {
			return overflow(src, dst)
		}

		dst.SetUint(uint64(src.Int()))

	case isUnsigned(src.Kind()) && isSigned(dst.Kind()):
		if src.Uint() > 1<<63-1 || dst.OverflowInt(int64(src.Uint())) {
			return overflow(src, dst)
		}

		dst.SetInt(int64(src.Uint()))

	case isUnsigned(src.Kind()) && isUnsigned(dst.Kind()):
		if dst.OverflowUint(src.Uint()) {
			return overflow(src, dst)
		}

		dst.SetUint(src.Uint())

	case isFloat(src.Kind()) && isFloat(dst.Kind()):
		if dst.OverflowFloat(src.Float()) {
			return overflow(src, dst)
		}

		dst.SetFloat(src.Float())

	case src.Kind() == reflect.Bool && dst.Kind() == reflect.Bool:
		dst.SetBool(src.Bool())

	case src.Kind() == reflect.String && dst.Kind() == reflect.String:
		dst.SetString(src.String())

	default:
		return fmt.Errorf("%w: %s to %s", ErrUnsupported, src.Type(), dst.Type())
	}

	return nil
}

func overflow(src, dst reflect.Value) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrOverflow, src.Interface(), dst.Type())
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
