package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// Conversions for the package tests, which cannot use cgo directly.

// cInput copies s to the C heap the way a foreign caller would pass it.
func cInput(s string) (*C.char, func()) {
	p := C.CString(s)
	return p, func() { C.free(unsafe.Pointer(p)) }
}

// newOutParam returns a char** slot for the diagnostics out-parameter.
func newOutParam() **C.char {
	return new(*C.char)
}

// readC copies a returned buffer; ok is false for NULL.
func readC(p *C.char) (s string, ok bool) {
	if p == nil {
		return "", false
	}
	return C.GoString(p), true
}
