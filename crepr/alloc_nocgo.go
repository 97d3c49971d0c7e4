//go:build !cgo

package crepr

import "unsafe"

const onCHeap = false

func allocRaw(uintptr) unsafe.Pointer {
	panic("crepr: C heap is not available without cgo")
}

func freeRaw(unsafe.Pointer) {}
