// Package pipeline drives resolve -> parse/transform/emit -> minify for one
// call and merges every stage's diagnostics.
//
// A Pipeline is built once from configuration and is read-only afterwards,
// so it may be shared by concurrent callers. Per-call state (the source
// unit, the reporter, the result) lives on the caller's stack.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/tsffi/internal/engine"
	"github.com/leapstack-labs/tsffi/internal/minify"
	"github.com/leapstack-labs/tsffi/internal/resolver"
	"github.com/leapstack-labs/tsffi/pkg/core"
	"github.com/leapstack-labs/tsffi/pkg/diag"
)

// Transpiler is the engine capability the pipeline depends on.
type Transpiler interface {
	Transpile(unit core.SourceUnit, emit engine.Emit) core.TranspileResult
}

// Minifier is the minify capability the pipeline depends on.
type Minifier interface {
	Minify(code string) core.MinifyResult
}

// Resolver is the file loading capability the pipeline depends on.
type Resolver interface {
	Resolve(path string) (core.SourceUnit, []core.Diagnostic)
}

// Options are per-call switches.
type Options struct {
	// SourceMap requests a source map for the emitted code
	SourceMap bool
	// Minify chains the minifier after transpilation. The source map is
	// dropped in that case because positions are not remapped.
	Minify bool
}

// Config holds pipeline dependencies.
type Config struct {
	Engine   Transpiler
	Minifier Minifier
	Resolver Resolver
	// Defaults apply when a caller passes no per-call options
	Defaults Options
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Pipeline orchestrates a single transpile or minify call.
type Pipeline struct {
	engine   Transpiler
	minifier Minifier
	resolver Resolver
	defaults Options
	logger   *slog.Logger
}

// New creates a pipeline from explicit dependencies.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("pipeline requires an engine")
	}
	if cfg.Minifier == nil {
		return nil, fmt.Errorf("pipeline requires a minifier")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := cfg.Resolver
	if res == nil {
		res = resolver.New(nil, logger)
	}

	return &Pipeline{
		engine:   cfg.Engine,
		minifier: cfg.Minifier,
		resolver: res,
		defaults: cfg.Defaults,
		logger:   logger,
	}, nil
}

// Settings is the flat set of knobs needed to build a Pipeline.
type Settings struct {
	Engine    engine.Options
	Defaults  Options
	KeepNames bool
}

// Build constructs the engine, minifier and resolver from settings.
func Build(s Settings, logger *slog.Logger) (*Pipeline, error) {
	eng, err := engine.New(s.Engine, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	mini, err := minify.New(minify.Options{Target: s.Engine.Target, KeepNames: s.KeepNames}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create minifier: %w", err)
	}

	return New(Config{
		Engine:   eng,
		Minifier: mini,
		Resolver: resolver.New(nil, logger),
		Defaults: s.Defaults,
		Logger:   logger,
	})
}

// Default builds a pipeline with default engine options.
func Default(logger *slog.Logger) *Pipeline {
	p, err := Build(Settings{Engine: engine.DefaultOptions()}, logger)
	if err != nil {
		// Default options are static and always valid
		panic(fmt.Sprintf("default pipeline: %v", err))
	}
	return p
}

// Defaults returns the per-call options used when callers pass none.
func (p *Pipeline) Defaults() Options {
	return p.defaults
}

// Transpile runs the pipeline over an in-memory unit.
func (p *Pipeline) Transpile(unit core.SourceUnit, opts Options) core.TranspileResult {
	rep := diag.NewReporter()
	return p.run(unit, opts, rep)
}

// TranspileFile resolves path and runs the pipeline over its contents.
// The unit's logical name is path, so the output is byte-identical to
// Transpile on the same content and name.
func (p *Pipeline) TranspileFile(path string, opts Options) core.TranspileResult {
	rep := diag.NewReporter()

	var unit core.SourceUnit
	var resolveDiags []core.Diagnostic
	p.guard(rep, diag.StageResolve, func() {
		unit, resolveDiags = p.resolver.Resolve(path)
	})
	rep.Report(diag.StageResolve, resolveDiags...)
	if rep.HasErrors() {
		return core.Failed(rep.Diagnostics()...)
	}

	return p.run(unit, opts, rep)
}

// Minify runs only the minifier stage.
func (p *Pipeline) Minify(code string) core.MinifyResult {
	rep := diag.NewReporter()

	result := core.MinifyResult{Code: code}
	p.guard(rep, diag.StageMinify, func() {
		result = p.minifier.Minify(code)
	})
	rep.Report(diag.StageMinify, result.Diagnostics...)
	result.Diagnostics = rep.Diagnostics()
	return result
}

func (p *Pipeline) run(unit core.SourceUnit, opts Options, rep *diag.Reporter) core.TranspileResult {
	var result core.TranspileResult
	p.guard(rep, diag.StageTransform, func() {
		result = p.engine.Transpile(unit, engine.Emit{SourceMap: opts.SourceMap})
	})
	rep.ReportByKind(result.Diagnostics...)

	if rep.HasErrors() {
		p.logger.Debug("transpile produced errors", "file", unit.LogicalName, "diagnostics", rep.Len())
		return core.Failed(rep.Diagnostics()...)
	}

	out := core.TranspileResult{Code: result.Code, Map: result.Map}

	if opts.Minify {
		minified := core.MinifyResult{Code: out.Code}
		p.guard(rep, diag.StageMinify, func() {
			minified = p.minifier.Minify(out.Code)
		})
		rep.Report(diag.StageMinify, minified.Diagnostics...)
		out.Code = minified.Code
		out.Map = nil
	}

	out.Diagnostics = rep.Diagnostics()
	return out
}

// guard runs fn and converts a panic into an internal_error diagnostic so
// that no unwinding ever reaches the boundary.
func (p *Pipeline) guard(rep *diag.Reporter, stage diag.Stage, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered panic", "stage", stage.String(), "panic", r)
			rep.Report(stage, core.Errorf(core.KindInternal, "%s stage panicked: %v", stage, r))
		}
	}()
	fn()
}
