package core

// SourceUnit is one piece of source handed to the engine.
// LogicalName is used for diagnostics and source-map naming only; it is
// never opened as a path.
type SourceUnit struct {
	Text        string
	LogicalName string
}

// TranspileResult is the outcome of one transpile call.
//
// When the result is not OK, Code is empty and Map is nil; the diagnostics
// explain why. Map is nil when no source map was requested or available,
// which is distinct from an empty map.
type TranspileResult struct {
	Code        string
	Map         *string
	Diagnostics []Diagnostic
}

// OK reports whether the call produced code, i.e. no error diagnostics.
func (r TranspileResult) OK() bool {
	return !HasErrors(r.Diagnostics)
}

// Failed builds a result that carries only diagnostics.
func Failed(diags ...Diagnostic) TranspileResult {
	return TranspileResult{Diagnostics: diags}
}

// MinifyResult is the outcome of one minify call. Code is always set: on
// failure it is the unchanged input.
type MinifyResult struct {
	Code        string
	Diagnostics []Diagnostic
}
