package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/leapstack-labs/tsffi/pkg/core"
)

// Styles holds the lipgloss styles used for CLI output.
type Styles struct {
	Header  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Bold(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   r.NewStyle().Faint(true),
	}
}

// Renderer prints transpile results. It serializes writes so the watch loop
// and the initial run never interleave.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
}

// NewRenderer creates a renderer for w. color is auto, always or never.
func NewRenderer(w io.Writer, color string) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if useColor(w, color) {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{w: w, styles: newStyles(lr)}
}

// useColor decides whether to emit ANSI styling.
func useColor(w io.Writer, mode string) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render prints the input, output, optional source map and diagnostics.
// input is nil when the file could not be read.
func (r *Renderer) Render(path string, input *string, result core.TranspileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.section(fmt.Sprintf("Input (%s):", path))
	if input != nil {
		r.body(*input)
	} else {
		r.line(r.styles.Muted.Render("(unreadable)"))
	}

	r.section("Output:")
	if result.OK() {
		r.body(result.Code)
	} else {
		r.line(r.styles.Muted.Render("(none)"))
	}

	if result.Map != nil {
		r.section("Source map:")
		r.body(*result.Map)
	}

	r.section("Diagnostics:")
	if len(result.Diagnostics) == 0 {
		r.line(r.styles.Muted.Render("(none)"))
	}
	for _, d := range result.Diagnostics {
		r.line("  " + r.severityStyle(d.Severity).Render(d.Severity.String()) + " " + describe(d))
	}
	r.line("")
}

// Notice prints a muted status line.
func (r *Renderer) Notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.line(r.styles.Muted.Render(msg))
}

func (r *Renderer) severityStyle(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return r.styles.Error
	case core.SeverityWarning:
		return r.styles.Warning
	default:
		return r.styles.Muted
	}
}

// describe renders a diagnostic without its severity.
func describe(d core.Diagnostic) string {
	if d.Location == nil {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Location, d.Kind, d.Message)
}

func (r *Renderer) section(title string) {
	r.line(r.styles.Header.Render(title))
}

func (r *Renderer) body(s string) {
	_, _ = io.WriteString(r.w, s)
	if !strings.HasSuffix(s, "\n") {
		_, _ = io.WriteString(r.w, "\n")
	}
	r.line("")
}

func (r *Renderer) line(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}
