package resolver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tsffi/internal/testutil"
	"github.com/leapstack-labs/tsffi/pkg/core"
)

type failingFS struct {
	err error
}

func (f failingFS) ReadFile(name string) ([]byte, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: f.err}
}

func TestResolve_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.ts")
	require.NoError(t, os.WriteFile(path, []byte("const x: number = 1;\n"), 0644))

	unit, diags := New(nil, testutil.NewTestLogger(t)).Resolve(path)

	assert.Empty(t, diags)
	assert.Equal(t, "const x: number = 1;\n", unit.Text)
	assert.Equal(t, path, unit.LogicalName)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fs      FileSystem
		path    string
		message string
	}{
		{
			name:    "missing file",
			fs:      nil,
			path:    "missing.ts",
			message: "file not found: missing.ts",
		},
		{
			name:    "permission denied",
			fs:      failingFS{err: fs.ErrPermission},
			path:    "secret.ts",
			message: "permission denied: secret.ts",
		},
		{
			name:    "other io error",
			fs:      failingFS{err: errors.New("input/output error")},
			path:    "flaky.ts",
			message: "failed to read flaky.ts: input/output error",
		},
		{
			name:    "empty path",
			fs:      nil,
			path:    "",
			message: "no file name given",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, diags := New(tt.fs, nil).Resolve(tt.path)

			assert.Empty(t, unit.Text)
			require.Len(t, diags, 1)
			assert.Equal(t, core.KindIO, diags[0].Kind)
			assert.Equal(t, core.SeverityError, diags[0].Severity)
			assert.Nil(t, diags[0].Location)
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}
}

func TestResolve_Directory(t *testing.T) {
	unit, diags := New(nil, nil).Resolve(t.TempDir())

	assert.Empty(t, unit.Text)
	require.Len(t, diags, 1)
	assert.Equal(t, core.KindIO, diags[0].Kind)
}
