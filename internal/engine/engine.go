// Package engine adapts esbuild's transform pipeline into the tsffi data model.
// It turns a SourceUnit into emitted JavaScript, an optional source map and
// diagnostics. Nothing from esbuild escapes this package.
package engine

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/tsffi/pkg/core"
)

// Engine transpiles TypeScript-flavored source into plain JavaScript.
// An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	// Base transform options, copied per call
	base api.TransformOptions

	// Structured logger
	logger *slog.Logger
}

// Emit holds per-call output switches.
type Emit struct {
	// SourceMap requests an external source map alongside the code
	SourceMap bool
}

// New creates an engine from validated options.
func New(opts Options, logger *slog.Logger) (*Engine, error) {
	// Initialize logger (use discard handler if nil)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base, err := opts.transformOptions()
	if err != nil {
		return nil, err
	}

	logger.Debug("initializing engine", "target", opts.Target, "format", opts.Format, "jsx", opts.JSX)

	return &Engine{base: base, logger: logger}, nil
}

// Transpile parses, strips and emits one source unit.
// Failures are reported as diagnostics; Transpile always returns.
func (e *Engine) Transpile(unit core.SourceUnit, emit Emit) core.TranspileResult {
	if !utf8.ValidString(unit.Text) {
		e.logger.Debug("rejecting invalid UTF-8 input", "file", unit.LogicalName)
		return core.Failed(core.Errorf(core.KindEncoding, "source is not valid UTF-8"))
	}

	opts := e.base
	opts.Sourcefile = unit.LogicalName
	opts.Loader = LoaderFor(unit.LogicalName)
	if emit.SourceMap {
		opts.Sourcemap = api.SourceMapExternal
	} else {
		opts.Sourcemap = api.SourceMapNone
	}

	e.logger.Debug("transpiling", "file", unit.LogicalName, "bytes", len(unit.Text), "source_map", emit.SourceMap)

	out := api.Transform(unit.Text, opts)

	diags := make([]core.Diagnostic, 0, len(out.Errors)+len(out.Warnings))
	for _, msg := range out.Errors {
		diags = append(diags, fromMessage(core.SeverityError, msg))
	}
	for _, msg := range out.Warnings {
		diags = append(diags, fromMessage(core.SeverityWarning, msg))
	}

	if len(out.Errors) > 0 {
		e.logger.Debug("transpile failed", "file", unit.LogicalName, "errors", len(out.Errors))
		return core.Failed(diags...)
	}

	result := core.TranspileResult{Code: string(out.Code)}
	if len(diags) > 0 {
		result.Diagnostics = diags
	}
	if emit.SourceMap && len(out.Map) > 0 {
		m := string(out.Map)
		result.Map = &m
	}
	return result
}

// fromMessage converts an esbuild message into a diagnostic.
// esbuild columns are 0-based byte offsets; diagnostics use 1-based columns.
func fromMessage(sev core.Severity, msg api.Message) core.Diagnostic {
	d := core.Diagnostic{
		Severity: sev,
		Kind:     classify(sev, msg),
		Message:  msg.Text,
	}
	if msg.Location != nil {
		d = d.At(msg.Location.Line, msg.Location.Column+1)
	}
	return d
}

// classify separates syntax errors from valid syntax the configured target
// cannot express. Warnings are raised while transforming parsed code.
func classify(sev core.Severity, msg api.Message) core.Kind {
	if sev == core.SeverityWarning {
		return core.KindTransform
	}
	if strings.Contains(msg.Text, "is not supported") || strings.Contains(msg.Text, "not supported yet") {
		return core.KindTransform
	}
	return core.KindParse
}
