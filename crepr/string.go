package crepr

import (
	"strings"
	"unicode/utf8"
	"unsafe"
)

// Char is the set of C character element types (C.char, C.schar, C.uchar
// and Go aliases of int8/uint8).
type Char interface {
	~int8 | ~uint8
}

// CString copies s into a NUL-terminated buffer and returns a pointer to its
// first element. The result is never nil on success.
func CString[C Char, S ~string](s S) (*C, error) {
	if strings.IndexByte(string(s), 0) >= 0 {
		return nil, ErrInteriorNUL
	}

	buf := newBuffer[C](len(s) + 1)
	for i := range len(s) {
		buf[i] = C(s[i])
	}

	return &buf[0], nil
}

// GoString reads the NUL-terminated string at p into dst.
func GoString[S ~string, C Char](dst *S, p *C) error {
	if p == nil {
		return ErrNullPointer
	}

	n := 0
	for *(*C)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}

	b := unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
	if !utf8.Valid(b) {
		return ErrInvalidUTF8
	}

	*dst = S(b)

	return nil
}

// GoStringPtr is GoString for optional native strings: on success dst points
// to a freshly allocated copy.
func GoStringPtr[S ~string, C Char](dst **S, p *C) error {
	v := new(S)
	if err := GoString(v, p); err != nil {
		return err
	}

	*dst = v

	return nil
}
