package diag

import (
	"sort"

	"github.com/leapstack-labs/tsffi/pkg/core"
)

// Stage identifies the pipeline stage that raised a diagnostic.
// Diagnostics are ordered by stage first, then by emission order.
type Stage int

// Pipeline stages in execution order.
const (
	StageResolve Stage = iota
	StageParse
	StageTransform
	StageMinify
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "resolve"
	case StageParse:
		return "parse"
	case StageTransform:
		return "transform"
	case StageMinify:
		return "minify"
	default:
		return "unknown"
	}
}

// StageOf returns the stage a kind is normally raised by.
func StageOf(k core.Kind) Stage {
	switch k {
	case core.KindEncoding, core.KindIO:
		return StageResolve
	case core.KindParse:
		return StageParse
	case core.KindMinify:
		return StageMinify
	default:
		return StageTransform
	}
}

type entry struct {
	stage Stage
	diag  core.Diagnostic
}

// Reporter collects diagnostics for a single call. It is not safe for
// concurrent use; each call owns its own Reporter.
type Reporter struct {
	entries []entry
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report records diagnostics raised by stage.
func (r *Reporter) Report(stage Stage, diags ...core.Diagnostic) {
	for _, d := range diags {
		r.entries = append(r.entries, entry{stage: stage, diag: d})
	}
}

// ReportByKind records diagnostics, deriving each one's stage from its kind.
func (r *Reporter) ReportByKind(diags ...core.Diagnostic) {
	for _, d := range diags {
		r.Report(StageOf(d.Kind), d)
	}
}

// Diagnostics returns every recorded diagnostic ordered by stage.
// Nothing is deduplicated. The returned slice is a fresh copy.
func (r *Reporter) Diagnostics() []core.Diagnostic {
	if len(r.entries) == 0 {
		return nil
	}
	sorted := make([]entry, len(r.entries))
	copy(sorted, r.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].stage < sorted[j].stage
	})

	out := make([]core.Diagnostic, len(sorted))
	for i, e := range sorted {
		out[i] = e.diag
	}
	return out
}

// HasErrors reports whether any recorded diagnostic has error severity.
func (r *Reporter) HasErrors() bool {
	for _, e := range r.entries {
		if e.diag.IsError() {
			return true
		}
	}
	return false
}

// Len returns the number of recorded diagnostics.
func (r *Reporter) Len() int {
	return len(r.entries)
}
