// Package main builds libtsffi, the C ABI over the tsffi pipeline.
//
//	go build -buildmode=c-shared -o libtsffi.so ./cmd/libtsffi
//
// cgo writes libtsffi.h next to the library.
//
// Ownership: every non-NULL char* returned by a tsffi_* function, directly
// or through an out-parameter, belongs to the caller and must be passed to
// tsffi_release exactly once. tsffi_output values are released with
// tsffi_release_output, which releases each non-NULL field. Releasing twice
// or releasing memory not returned by this library is undefined.
//
// Obligations per call:
//
//	tsffi_transpile, tsffi_transpile_file: code (NULL on failure) and
//	    *diagnostics (NULL when none or when the out-parameter is NULL)
//	tsffi_minify: the result, never NULL
//	tsffi_minify_diagnostics: the result, never NULL, and *diagnostics
//	tsffi_transpile_output: the non-NULL fields of the returned struct
//
// Without tsffi_init every call uses default options. tsffi_init installs a
// configured pipeline once for the process; tsffi_shutdown removes it.
package main

/*
#include <stdlib.h>

#define TSFFI_SOURCE_MAP 1
#define TSFFI_MINIFY     2

typedef struct {
	char* code;
	char* map;
	char* diagnostics;
} tsffi_output;
*/
import "C"

import (
	"errors"
	"log/slog"
	"os"
	"unsafe"

	"github.com/leapstack-labs/tsffi/internal/boundary"
	"github.com/leapstack-labs/tsffi/internal/config"
	"github.com/leapstack-labs/tsffi/internal/pipeline"
	"github.com/leapstack-labs/tsffi/pkg/core"
)

var (
	exporter = boundary.NewExporter(cHeap{})
	host     pipeline.Handle
)

// Flag bits accepted by tsffi_transpile_output.
const (
	flagSourceMap = 1 << iota
	flagMinify
)

func main() {}

// currentPipeline returns the installed pipeline or a fresh default one.
func currentPipeline() *pipeline.Pipeline {
	if p := host.Current(); p != nil {
		return p
	}
	return pipeline.Default(slog.New(slog.DiscardHandler))
}

// goString copies a C string into Go memory. NULL is the empty string.
func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// optionsFromFlags overlays tsffi_transpile_output flags on defaults.
func optionsFromFlags(flags int, defaults pipeline.Options) pipeline.Options {
	opts := defaults
	opts.SourceMap = flags&flagSourceMap != 0
	opts.Minify = opts.Minify || flags&flagMinify != 0
	return opts
}

// setDiagnostics stores diags in out when the caller asked for them.
func setDiagnostics(out **C.char, diags []core.Diagnostic) {
	if out == nil {
		return
	}
	*out = (*C.char)(exporter.Diagnostics(diags))
}

// resetDiagnostics clears the out-parameter before any allocation so a
// recover never mistakes caller garbage for an exported buffer.
func resetDiagnostics(out **C.char) {
	if out != nil {
		*out = nil
	}
}

// exportCode hands out code and diagnostics; the map is never exported by
// the string entry points.
func exportCode(result core.TranspileResult, diagnostics **C.char) *C.char {
	setDiagnostics(diagnostics, result.Diagnostics)
	if !result.OK() {
		return nil
	}
	return (*C.char)(exporter.String(result.Code))
}

func panicked(r any) []core.Diagnostic {
	return []core.Diagnostic{core.Errorf(core.KindInternal, "boundary call panicked: %v", r)}
}

// releaseSet frees the buffer at *p, if any, and clears it.
func releaseSet(p **C.char) {
	if p == nil || *p == nil {
		return
	}
	exporter.Release(unsafe.Pointer(*p))
	*p = nil
}

// recoverBoundary turns a panic that escaped the pipeline into a NULL
// result plus an internal_error diagnostic. Buffers exported before the
// panic are released first.
func recoverBoundary(code **C.char, diagnostics **C.char) {
	r := recover()
	if r == nil {
		return
	}
	releaseSet(code)
	releaseSet(diagnostics)
	setDiagnostics(diagnostics, panicked(r))
}

// recoverMinify is recoverBoundary for the minify entry points, whose
// result falls back to the unchanged input.
func recoverMinify(minified **C.char, input string, diagnostics **C.char) {
	r := recover()
	if r == nil {
		return
	}
	releaseSet(minified)
	releaseSet(diagnostics)
	*minified = (*C.char)(exporter.String(input))
	setDiagnostics(diagnostics, panicked(r))
}

// recoverOutput is recoverBoundary for tsffi_transpile_output.
func recoverOutput(out *C.tsffi_output) {
	r := recover()
	if r == nil {
		return
	}
	releaseSet(&out.code)
	releaseSet(&out._map)
	releaseSet(&out.diagnostics)
	out.diagnostics = (*C.char)(exporter.Diagnostics(panicked(r)))
}

// stringOptions are the per-call options for the char* entry points, which
// have no way to return a source map.
func stringOptions(p *pipeline.Pipeline) pipeline.Options {
	opts := p.Defaults()
	opts.SourceMap = false
	return opts
}

//export tsffi_transpile
func tsffi_transpile(logicalName, source *C.char, diagnostics **C.char) (code *C.char) {
	resetDiagnostics(diagnostics)
	defer recoverBoundary(&code, diagnostics)

	p := currentPipeline()
	unit := core.SourceUnit{Text: goString(source), LogicalName: goString(logicalName)}
	return exportCode(p.Transpile(unit, stringOptions(p)), diagnostics)
}

//export tsffi_transpile_file
func tsffi_transpile_file(path *C.char, diagnostics **C.char) (code *C.char) {
	resetDiagnostics(diagnostics)
	defer recoverBoundary(&code, diagnostics)

	p := currentPipeline()
	return exportCode(p.TranspileFile(goString(path), stringOptions(p)), diagnostics)
}

//export tsffi_minify
func tsffi_minify(code *C.char) *C.char {
	return tsffi_minify_diagnostics(code, nil)
}

//export tsffi_minify_diagnostics
func tsffi_minify_diagnostics(code *C.char, diagnostics **C.char) (minified *C.char) {
	input := goString(code)
	resetDiagnostics(diagnostics)
	defer recoverMinify(&minified, input, diagnostics)

	result := currentPipeline().Minify(input)
	if diagnostics == nil {
		result.Diagnostics = nil
	}
	exportedCode, exportedDiags := exporter.ExportMinify(result)
	if diagnostics != nil {
		*diagnostics = (*C.char)(exportedDiags)
	}
	return (*C.char)(exportedCode)
}

//export tsffi_transpile_output
func tsffi_transpile_output(logicalName, source *C.char, flags C.int) (out C.tsffi_output) {
	defer recoverOutput(&out)

	p := currentPipeline()
	unit := core.SourceUnit{Text: goString(source), LogicalName: goString(logicalName)}
	exported := exporter.Export(p.Transpile(unit, optionsFromFlags(int(flags), p.Defaults())))

	return C.tsffi_output{
		code:        (*C.char)(exported.Code),
		_map:        (*C.char)(exported.Map),
		diagnostics: (*C.char)(exported.Diagnostics),
	}
}

//export tsffi_release_output
func tsffi_release_output(out C.tsffi_output) {
	exporter.ReleaseOutput(boundary.Output{
		Code:        unsafe.Pointer(out.code),
		Map:         unsafe.Pointer(out._map),
		Diagnostics: unsafe.Pointer(out.diagnostics),
	})
}

//export tsffi_release
func tsffi_release(buffer *C.char) {
	exporter.Release(unsafe.Pointer(buffer))
}

//export tsffi_init
func tsffi_init(configPath *C.char) (status C.int) {
	defer func() {
		if r := recover(); r != nil {
			status = -1
		}
	}()

	loaded, err := config.Load(goString(configPath), nil)
	if err != nil {
		return -1
	}

	logger := loaded.NewLogger(os.Stderr)
	p, err := pipeline.Build(loaded.PipelineSettings(), logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return -1
	}

	if err := host.Init(p); err != nil {
		if errors.Is(err, pipeline.ErrAlreadyInitialized) {
			return 1
		}
		return -1
	}
	logger.Debug("tsffi initialized", "config", loaded.File)
	return 0
}

//export tsffi_shutdown
func tsffi_shutdown() {
	host.Shutdown()
}

//export tsffi_live_buffers
func tsffi_live_buffers() C.longlong {
	return C.longlong(exporter.Live())
}
