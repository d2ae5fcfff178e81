package core

import "fmt"

// Location is a 1-based line and column inside a SourceUnit.
// Columns count bytes, not runes.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String renders the location as "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Diagnostic is a structured report of a resolve, parse, transform or minify
// condition. Diagnostics are values; once created they are never mutated.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Kind     Kind      `json:"kind"`
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

// Errorf builds an error-severity diagnostic without a location.
func Errorf(kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a warning-severity diagnostic without a location.
func Warningf(kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At returns a copy of d located at line and column.
func (d Diagnostic) At(line, column int) Diagnostic {
	d.Location = &Location{Line: line, Column: column}
	return d
}

// IsError reports whether d has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// String renders "severity line:column kind: message" for humans.
func (d Diagnostic) String() string {
	if d.Location == nil {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Location, d.Kind, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}
