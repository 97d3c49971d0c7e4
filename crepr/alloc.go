package crepr

import "unsafe"

// newValue allocates a zeroed T on the heap handed to C.
func newValue[T any]() *T {
	if !onCHeap {
		return new(T)
	}

	var zero T

	return (*T)(allocRaw(unsafe.Sizeof(zero)))
}

// newBuffer allocates a zeroed buffer of n elements.
func newBuffer[E Char](n int) []E {
	if !onCHeap {
		return make([]E, n)
	}

	return unsafe.Slice((*E)(allocRaw(uintptr(n))), n)
}

// Free releases a value allocated by PointerTo. It is a no-op for nil and
// when cgo is disabled.
func Free[T any](p *T) {
	if p == nil || !onCHeap {
		return
	}

	freeRaw(unsafe.Pointer(p))
}

// FreeCString releases a string allocated by CString.
func FreeCString[C Char](p *C) {
	if p == nil || !onCHeap {
		return
	}

	freeRaw(unsafe.Pointer(p))
}
