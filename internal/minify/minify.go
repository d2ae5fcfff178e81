// Package minify shrinks already-emitted JavaScript.
//
// The pass runs after transpilation and only accepts plain JavaScript. It is
// a pure function of its input: identifier renaming is deterministic, so
// identical input always yields byte-identical output. Source maps are not
// propagated through this stage.
package minify

import (
	"log/slog"
	"unicode/utf8"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/tsffi/internal/engine"
	"github.com/leapstack-labs/tsffi/pkg/core"
)

// Options configures a Minifier.
type Options struct {
	// Target bounds the syntax the minifier may introduce
	Target string
	// KeepNames preserves function and class .name values
	KeepNames bool
}

// Minifier reduces code size while preserving semantics.
// It is immutable after New and safe for concurrent use.
type Minifier struct {
	base   api.TransformOptions
	logger *slog.Logger
}

// New creates a minifier.
func New(opts Options, logger *slog.Logger) (*Minifier, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	target, err := engine.ParseTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	return &Minifier{
		base: api.TransformOptions{
			Loader:            api.LoaderJS,
			Target:            target,
			MinifyWhitespace:  true,
			MinifyIdentifiers: true,
			MinifySyntax:      true,
			KeepNames:         opts.KeepNames,
			LegalComments:     api.LegalCommentsNone,
			LogLevel:          api.LogLevelSilent,
			LogOverride:       engine.LintOverrides(),
		},
		logger: logger,
	}, nil
}

// Minify returns a smaller, semantically equivalent version of code.
//
// If code is not valid JavaScript the input is returned unchanged with a
// single minify_warning diagnostic. The output is never longer than the
// input; when minification would not shrink it, the input is returned as is.
func (m *Minifier) Minify(code string) core.MinifyResult {
	if !utf8.ValidString(code) {
		return passthrough(code, "input is not valid UTF-8")
	}

	out := api.Transform(code, m.base)
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		reason := first.Text
		if first.Location != nil {
			reason = core.Location{Line: first.Location.Line, Column: first.Location.Column + 1}.String() + ": " + reason
		}
		m.logger.Debug("minify fell back to passthrough", "reason", reason)
		return passthrough(code, "input is not valid JavaScript, returned unchanged ("+reason+")")
	}

	result := core.MinifyResult{Code: string(out.Code)}
	if len(result.Code) >= len(code) {
		result.Code = code
	}
	for _, w := range out.Warnings {
		result.Diagnostics = append(result.Diagnostics, core.Warningf(core.KindMinify, "%s", w.Text))
	}

	m.logger.Debug("minified", "in_bytes", len(code), "out_bytes", len(result.Code))
	return result
}

func passthrough(code, reason string) core.MinifyResult {
	return core.MinifyResult{
		Code:        code,
		Diagnostics: []core.Diagnostic{core.Warningf(core.KindMinify, "%s", reason)},
	}
}
