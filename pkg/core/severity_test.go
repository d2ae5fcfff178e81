package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SeverityError, SeverityWarning} {
		got, ok := ParseSeverity(sev.String())
		assert.True(t, ok, sev.String())
		assert.Equal(t, sev, got)
	}

	_, ok := ParseSeverity("hint")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindEncoding, "encoding_error"},
		{KindParse, "parse_error"},
		{KindTransform, "transform_error"},
		{KindIO, "io_error"},
		{KindMinify, "minify_warning"},
		{KindInternal, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
			got, ok := ParseKind(tt.want)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, got)
		})
	}

	_, ok := ParseKind("lint_error")
	assert.False(t, ok)
}

func TestDiagnosticString(t *testing.T) {
	d := Errorf(KindIO, "file not found: %s", "missing.ts")
	assert.Equal(t, "error io_error: file not found: missing.ts", d.String())
	assert.Nil(t, d.Location)

	located := d.At(3, 7)
	assert.Equal(t, "error 3:7 io_error: file not found: missing.ts", located.String())
	assert.Nil(t, d.Location, "At must not mutate the receiver")
}

func TestTranspileResultOK(t *testing.T) {
	assert.True(t, TranspileResult{Code: "x;\n"}.OK())
	assert.True(t, TranspileResult{
		Code:        "x;\n",
		Diagnostics: []Diagnostic{Warningf(KindTransform, "suspicious")},
	}.OK())
	assert.False(t, Failed(Errorf(KindParse, "Unexpected \";\"")).OK())
}
