package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/tsffi/pkg/core"
)

// ErrMalformedLine is returned by Parse for a line that does not follow the
// wire format.
var ErrMalformedLine = errors.New("malformed diagnostic line")

var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r")
)

// FormatLine renders a single diagnostic without a trailing newline.
func FormatLine(d core.Diagnostic) string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteByte('|')
	if d.Location != nil {
		b.WriteString(d.Location.String())
	}
	b.WriteByte('|')
	b.WriteString(d.Kind.String())
	b.WriteString(": ")
	b.WriteString(escaper.Replace(d.Message))
	return b.String()
}

// Format renders diagnostics one per line, joined by "\n" with no trailing
// newline. An empty slice renders as "".
func Format(diags []core.Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = FormatLine(d)
	}
	return strings.Join(lines, "\n")
}

// Parse decodes the output of Format. Blank lines are skipped.
func Parse(s string) ([]core.Diagnostic, error) {
	var out []core.Diagnostic
	for i, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseLine decodes a single wire-format line.
func ParseLine(line string) (core.Diagnostic, error) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) != 3 {
		return core.Diagnostic{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedLine, len(parts))
	}

	sev, ok := core.ParseSeverity(parts[0])
	if !ok {
		return core.Diagnostic{}, fmt.Errorf("%w: unknown severity %q", ErrMalformedLine, parts[0])
	}

	d := core.Diagnostic{Severity: sev}

	if parts[1] != "" {
		loc, err := parseLocation(parts[1])
		if err != nil {
			return core.Diagnostic{}, err
		}
		d.Location = loc
	}

	kindName, text, found := strings.Cut(parts[2], ": ")
	if !found {
		return core.Diagnostic{}, fmt.Errorf("%w: message has no kind prefix", ErrMalformedLine)
	}
	kind, ok := core.ParseKind(kindName)
	if !ok {
		return core.Diagnostic{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedLine, kindName)
	}
	d.Kind = kind
	d.Message = unescaper.Replace(text)

	return d, nil
}

func parseLocation(s string) (*core.Location, error) {
	lineStr, colStr, found := strings.Cut(s, ":")
	if !found {
		return nil, fmt.Errorf("%w: location %q is not line:column", ErrMalformedLine, s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad line %q", ErrMalformedLine, lineStr)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad column %q", ErrMalformedLine, colStr)
	}
	return &core.Location{Line: line, Column: col}, nil
}
