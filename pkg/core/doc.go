// Package core defines the shared language of the tsffi system.
//
// This package contains:
//   - The per-call input (SourceUnit)
//   - Diagnostics and their closed Severity and Kind variants
//   - Result aggregates (TranspileResult, MinifyResult)
//
// The Golden Rule: pkg/core imports ONLY stdlib. Engine types from esbuild
// never appear here, so nothing above the engine adapter can hold a
// reference into the engine's object graph.
package core
