//go:build cgo

package crepr

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

const onCHeap = true

func allocRaw(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}

	p := C.calloc(1, C.size_t(size))
	if p == nil {
		panic("crepr: out of memory")
	}

	return p
}

func freeRaw(p unsafe.Pointer) {
	C.free(p)
}
