// Package resolver loads source units from the filesystem.
// It keeps file I/O failures apart from parse failures: anything that goes
// wrong before the engine sees the text is an io_error.
package resolver

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/leapstack-labs/tsffi/pkg/core"
)

// FileSystem reads whole files. The OS implementation is used by default.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the host filesystem.
type OSFileSystem struct{}

// ReadFile implements FileSystem.
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec // G304: reading caller-supplied paths is the point
}

// Resolver turns paths into source units.
type Resolver struct {
	fs     FileSystem
	logger *slog.Logger
}

// New creates a resolver. A nil fsys means the OS filesystem.
func New(fsys FileSystem, logger *slog.Logger) *Resolver {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{fs: fsys, logger: logger}
}

// Resolve reads path fully into memory. The returned unit's LogicalName is
// path itself. On failure it returns exactly one io_error diagnostic with
// no location.
func (r *Resolver) Resolve(path string) (core.SourceUnit, []core.Diagnostic) {
	if path == "" {
		return core.SourceUnit{}, []core.Diagnostic{core.Errorf(core.KindIO, "no file name given")}
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		r.logger.Debug("failed to read source", "file", path, "error", err)
		return core.SourceUnit{}, []core.Diagnostic{ioDiagnostic(path, err)}
	}

	r.logger.Debug("read source", "file", path, "bytes", len(data))
	return core.SourceUnit{Text: string(data), LogicalName: path}, nil
}

func ioDiagnostic(path string, err error) core.Diagnostic {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return core.Errorf(core.KindIO, "file not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return core.Errorf(core.KindIO, "permission denied: %s", path)
	default:
		return core.Errorf(core.KindIO, "failed to read %s: %v", path, unwrapPathError(err))
	}
}

// unwrapPathError drops the op/path prefix so the path is not repeated.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
