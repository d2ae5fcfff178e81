package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// cHeap allocates boundary buffers with malloc so foreign callers can hold
// them after the Go call returns.
type cHeap struct{}

func (cHeap) CString(s string) unsafe.Pointer {
	return unsafe.Pointer(C.CString(s))
}

func (cHeap) Free(p unsafe.Pointer) {
	C.free(p)
}
