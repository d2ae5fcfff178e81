// Package boundary converts results into buffers owned by a foreign caller.
//
// Every buffer handed out is a nul-terminated string allocated through an
// Allocator. Ownership moves to the caller at that point: the caller must
// pass each non-nil buffer to Release exactly once, and the exporter never
// frees a buffer it has handed out. Releasing twice, or releasing memory the
// exporter did not allocate, is undefined and deliberately not detected.
//
// Nothing in an Output refers back into Go memory, so results stay valid
// after the exporting call returns.
package boundary

import (
	"sync/atomic"
	"unsafe"

	"github.com/leapstack-labs/tsffi/pkg/core"
	"github.com/leapstack-labs/tsffi/pkg/diag"
)

// Allocator allocates and frees nul-terminated buffers outside the Go heap.
type Allocator interface {
	// CString copies s into a new nul-terminated buffer
	CString(s string) unsafe.Pointer
	// Free releases a buffer returned by CString
	Free(p unsafe.Pointer)
}

// Output is an exported TranspileResult. Each non-nil field is one release
// obligation for the caller.
type Output struct {
	// Code is nil when the call failed
	Code unsafe.Pointer
	// Map is nil when no source map was requested or produced
	Map unsafe.Pointer
	// Diagnostics is nil when there are none
	Diagnostics unsafe.Pointer
}

// Exporter hands buffers across the boundary and tracks how many are live.
// It is safe for concurrent use.
type Exporter struct {
	alloc Allocator
	live  atomic.Int64
}

// NewExporter creates an exporter over alloc.
func NewExporter(alloc Allocator) *Exporter {
	return &Exporter{alloc: alloc}
}

// String exports s. The result is never nil.
func (e *Exporter) String(s string) unsafe.Pointer {
	p := e.alloc.CString(s)
	e.live.Add(1)
	return p
}

// OptionalString exports *s, or returns nil when s is nil.
func (e *Exporter) OptionalString(s *string) unsafe.Pointer {
	if s == nil {
		return nil
	}
	return e.String(*s)
}

// Diagnostics exports diags in wire format, or returns nil when empty.
func (e *Exporter) Diagnostics(diags []core.Diagnostic) unsafe.Pointer {
	if len(diags) == 0 {
		return nil
	}
	return e.String(diag.Format(diags))
}

// Export converts a result into caller-owned buffers.
func (e *Exporter) Export(r core.TranspileResult) Output {
	out := Output{Diagnostics: e.Diagnostics(r.Diagnostics)}
	if r.OK() {
		out.Code = e.String(r.Code)
		out.Map = e.OptionalString(r.Map)
	}
	return out
}

// ExportMinify converts a minify result. The code is always exported.
func (e *Exporter) ExportMinify(r core.MinifyResult) (code, diagnostics unsafe.Pointer) {
	return e.String(r.Code), e.Diagnostics(r.Diagnostics)
}

// Release frees one buffer. Nil is a no-op.
func (e *Exporter) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}
	e.alloc.Free(p)
	e.live.Add(-1)
}

// ReleaseOutput releases every non-nil field of o.
func (e *Exporter) ReleaseOutput(o Output) {
	e.Release(o.Code)
	e.Release(o.Map)
	e.Release(o.Diagnostics)
}

// Live returns the number of exported buffers not yet released. It is an
// accounting aid for leak tests, not an ownership guard.
func (e *Exporter) Live() int64 {
	return e.live.Load()
}
