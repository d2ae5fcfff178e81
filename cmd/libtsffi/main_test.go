package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tsffi/pkg/core"
)

// trackBuffers fails the test if it leaves exported buffers behind.
func trackBuffers(t *testing.T) {
	t.Helper()
	base := exporter.Live()
	t.Cleanup(func() {
		assert.Equal(t, base, exporter.Live(), "exported buffers leaked")
	})
}

func TestTranspile_ReturnsCodeAndClearsDiagnostics(t *testing.T) {
	trackBuffers(t)
	name, freeName := cInput("example.ts")
	defer freeName()
	src, freeSrc := cInput("const x: number = 1;")
	defer freeSrc()

	diagnostics := newOutParam()
	stale := exportCode(core.TranspileResult{Code: "stale"}, nil)
	*diagnostics = stale
	defer tsffi_release(stale)

	code := tsffi_transpile(name, src, diagnostics)
	defer tsffi_release(code)

	got, ok := readC(code)
	require.True(t, ok)
	assert.Contains(t, got, "const x = 1;")
	assert.Nil(t, *diagnostics, "no diagnostics means a NULL out-parameter")
}

func TestTranspile_SyntaxErrorReturnsNullCode(t *testing.T) {
	trackBuffers(t)
	name, freeName := cInput("bad.ts")
	defer freeName()
	src, freeSrc := cInput("const x: ;")
	defer freeSrc()

	diagnostics := newOutParam()
	code := tsffi_transpile(name, src, diagnostics)
	defer tsffi_release(*diagnostics)

	assert.Nil(t, code)
	text, ok := readC(*diagnostics)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "error|1:"), text)
	assert.Contains(t, text, "|parse_error: ")
}

func TestTranspile_NullDiagnosticsAllocatesNothing(t *testing.T) {
	name, freeName := cInput("bad.ts")
	defer freeName()
	src, freeSrc := cInput("const x: ;")
	defer freeSrc()

	base := exporter.Live()
	code := tsffi_transpile(name, src, nil)

	assert.Nil(t, code)
	assert.Equal(t, base, exporter.Live())
	assert.EqualValues(t, base, tsffi_live_buffers())
}

func TestTranspile_NullInputsAreEmpty(t *testing.T) {
	trackBuffers(t)
	diagnostics := newOutParam()

	code := tsffi_transpile(nil, nil, diagnostics)
	defer tsffi_release(code)

	got, ok := readC(code)
	require.True(t, ok, "empty source still produces a code buffer")
	assert.Empty(t, got)
	assert.Nil(t, *diagnostics)
}

func TestTranspileFile(t *testing.T) {
	trackBuffers(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ts")
	require.NoError(t, os.WriteFile(path, []byte("let n: number = 42;\n"), 0o600))

	cPath, freePath := cInput(path)
	defer freePath()
	src, freeSrc := cInput("let n: number = 42;\n")
	defer freeSrc()

	fromFile := tsffi_transpile_file(cPath, nil)
	defer tsffi_release(fromFile)
	fromString := tsffi_transpile(cPath, src, nil)
	defer tsffi_release(fromString)

	fileCode, ok := readC(fromFile)
	require.True(t, ok)
	stringCode, ok := readC(fromString)
	require.True(t, ok)
	assert.Equal(t, stringCode, fileCode)
}

func TestTranspileFile_MissingFile(t *testing.T) {
	trackBuffers(t)
	missing := filepath.Join(t.TempDir(), "missing.ts")
	cPath, freePath := cInput(missing)
	defer freePath()

	diagnostics := newOutParam()
	code := tsffi_transpile_file(cPath, diagnostics)
	defer tsffi_release(*diagnostics)

	assert.Nil(t, code)
	text, ok := readC(*diagnostics)
	require.True(t, ok)
	assert.Equal(t, "error||io_error: file not found: "+missing, text)
}

func TestMinify(t *testing.T) {
	trackBuffers(t)
	input := "function f(a) { return a + 1; }"
	src, freeSrc := cInput(input)
	defer freeSrc()

	minified := tsffi_minify(src)
	defer tsffi_release(minified)

	got, ok := readC(minified)
	require.True(t, ok)
	assert.LessOrEqual(t, len(got), len(input))
	assert.Contains(t, got, "+1")

	empty := tsffi_minify(nil)
	defer tsffi_release(empty)
	got, ok = readC(empty)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestMinifyDiagnostics_Passthrough(t *testing.T) {
	trackBuffers(t)
	src, freeSrc := cInput("function (")
	defer freeSrc()

	diagnostics := newOutParam()
	minified := tsffi_minify_diagnostics(src, diagnostics)
	defer tsffi_release(minified)
	defer tsffi_release(*diagnostics)

	got, ok := readC(minified)
	require.True(t, ok)
	assert.Equal(t, "function (", got)
	text, ok := readC(*diagnostics)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "warning||minify_warning: "), text)

	base := exporter.Live()
	quiet := tsffi_minify(src)
	assert.Equal(t, base+1, exporter.Live(), "only the code buffer is allocated")
	tsffi_release(quiet)
}

func TestTranspileOutput(t *testing.T) {
	name, freeName := cInput("example.ts")
	defer freeName()
	src, freeSrc := cInput("const x: number = 1;\n")
	defer freeSrc()
	bad, freeBad := cInput("const x: ;")
	defer freeBad()

	t.Run("source map", func(t *testing.T) {
		trackBuffers(t)
		out := tsffi_transpile_output(name, src, flagSourceMap)
		defer tsffi_release_output(out)

		code, ok := readC(out.code)
		require.True(t, ok)
		assert.Contains(t, code, "const x = 1;")
		sourceMap, ok := readC(out._map)
		require.True(t, ok)
		assert.Contains(t, sourceMap, `"version": 3`)
		assert.Nil(t, out.diagnostics)
	})

	t.Run("no map requested", func(t *testing.T) {
		trackBuffers(t)
		out := tsffi_transpile_output(name, src, 0)
		defer tsffi_release_output(out)

		assert.NotNil(t, out.code)
		assert.Nil(t, out._map)
	})

	t.Run("minify drops the map", func(t *testing.T) {
		trackBuffers(t)
		out := tsffi_transpile_output(name, src, flagSourceMap|flagMinify)
		defer tsffi_release_output(out)

		assert.NotNil(t, out.code)
		assert.Nil(t, out._map)
	})

	t.Run("failure", func(t *testing.T) {
		trackBuffers(t)
		out := tsffi_transpile_output(name, bad, flagSourceMap)
		defer tsffi_release_output(out)

		assert.Nil(t, out.code)
		assert.Nil(t, out._map)
		text, ok := readC(out.diagnostics)
		require.True(t, ok)
		assert.Contains(t, text, "parse_error")
	})
}

func TestRelease_Null(t *testing.T) {
	trackBuffers(t)
	assert.NotPanics(t, func() { tsffi_release(nil) })
}

func TestRecoverBoundary_ReleasesPartialBuffers(t *testing.T) {
	trackBuffers(t)
	diagnostics := newOutParam()
	code := exportCode(core.TranspileResult{Code: "partial"}, nil)

	func() {
		defer recoverBoundary(&code, diagnostics)
		setDiagnostics(diagnostics, []core.Diagnostic{core.Warningf(core.KindTransform, "partial")})
		panic("boom")
	}()
	defer tsffi_release(*diagnostics)

	assert.Nil(t, code)
	text, ok := readC(*diagnostics)
	require.True(t, ok)
	assert.Equal(t, "error||internal_error: boundary call panicked: boom", text)
}

func TestRecoverBoundary_NullDiagnostics(t *testing.T) {
	trackBuffers(t)
	code := exportCode(core.TranspileResult{Code: "partial"}, nil)

	func() {
		defer recoverBoundary(&code, nil)
		panic("boom")
	}()

	assert.Nil(t, code)
}

func TestRecoverMinify_ReturnsInput(t *testing.T) {
	trackBuffers(t)
	diagnostics := newOutParam()
	minified := exportCode(core.TranspileResult{Code: "partial"}, nil)

	func() {
		defer recoverMinify(&minified, "f ( )", diagnostics)
		setDiagnostics(diagnostics, []core.Diagnostic{core.Warningf(core.KindMinify, "partial")})
		panic("boom")
	}()
	defer tsffi_release(minified)
	defer tsffi_release(*diagnostics)

	got, ok := readC(minified)
	require.True(t, ok)
	assert.Equal(t, "f ( )", got)
	text, ok := readC(*diagnostics)
	require.True(t, ok)
	assert.Contains(t, text, "internal_error")
}

func TestRecoverOutput_ReleasesPartialBuffers(t *testing.T) {
	trackBuffers(t)
	name, freeName := cInput("example.ts")
	defer freeName()
	src, freeSrc := cInput("const x: number = 1;\n")
	defer freeSrc()

	out := tsffi_transpile_output(name, src, flagSourceMap)
	require.NotNil(t, out.code)
	require.NotNil(t, out._map)

	func() {
		defer recoverOutput(&out)
		panic("boom")
	}()
	defer tsffi_release_output(out)

	assert.Nil(t, out.code)
	assert.Nil(t, out._map)
	text, ok := readC(out.diagnostics)
	require.True(t, ok)
	assert.Equal(t, "error||internal_error: boundary call panicked: boom", text)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tsffi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInitShutdown(t *testing.T) {
	t.Cleanup(func() { tsffi_shutdown() })

	configured, freeConfigured := cInput(writeConfig(t, "minify: true\n"))
	defer freeConfigured()

	require.Equal(t, 0, int(tsffi_init(configured)))
	assert.Equal(t, 1, int(tsffi_init(configured)), "second init keeps the installed pipeline")

	t.Run("installed pipeline serves calls", func(t *testing.T) {
		trackBuffers(t)
		name, freeName := cInput("answer.ts")
		defer freeName()
		src, freeSrc := cInput("const answer: number = 42;\nconsole.log(answer);\n")
		defer freeSrc()

		out := tsffi_transpile_output(name, src, 0)
		defer tsffi_release_output(out)

		code, ok := readC(out.code)
		require.True(t, ok)
		assert.NotContains(t, code, ": number")
		assert.LessOrEqual(t, strings.Count(code, "\n"), 1, "configured minify applies: %q", code)
	})

	tsffi_shutdown()
	tsffi_shutdown()
	assert.Equal(t, 0, int(tsffi_init(configured)), "init works again after shutdown")
	tsffi_shutdown()
}

func TestInit_ConfigErrors(t *testing.T) {
	t.Cleanup(func() { tsffi_shutdown() })

	invalid, freeInvalid := cInput(writeConfig(t, "target: es1\n"))
	defer freeInvalid()
	missing, freeMissing := cInput(filepath.Join(t.TempDir(), "absent.yaml"))
	defer freeMissing()

	assert.Equal(t, -1, int(tsffi_init(invalid)))
	assert.Equal(t, -1, int(tsffi_init(missing)))
	assert.Nil(t, host.Current(), "failed init installs nothing")
}
