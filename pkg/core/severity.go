package core

import "strings"

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics. The set is closed.
const (
	// SeverityError means the stage produced no usable output.
	SeverityError Severity = iota
	// SeverityWarning means output was produced but should be reviewed.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityError and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	default:
		return SeverityError, false
	}
}

// =============================================================================
// Kind
// =============================================================================

// Kind classifies where a diagnostic came from.
type Kind int

// Diagnostic kinds.
const (
	// KindParse is a syntactically invalid source.
	KindParse Kind = iota
	// KindEncoding is input that is not valid UTF-8.
	KindEncoding
	// KindTransform is valid syntax using a construct the engine cannot lower.
	KindTransform
	// KindIO is a file resolution failure.
	KindIO
	// KindMinify is the minifier falling back to passthrough.
	KindMinify
	// KindInternal is a recovered engine panic.
	KindInternal
)

var kindNames = map[Kind]string{
	KindParse:     "parse_error",
	KindEncoding:  "encoding_error",
	KindTransform: "transform_error",
	KindIO:        "io_error",
	KindMinify:    "minify_warning",
	KindInternal:  "internal_error",
}

// String returns the wire name of the kind, e.g. "parse_error".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a wire name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindParse, false
}
