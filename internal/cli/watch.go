package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

const defaultDebounce = 100 * time.Millisecond

// fileWatcher reports changes to a single file. It watches the parent
// directory so editors that save by rename are still seen.
type fileWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	// ready is closed once the watch is registered
	ready chan struct{}
}

func newFileWatcher(path string, logger *slog.Logger) *fileWatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &fileWatcher{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Run calls onChange after each debounced write or create of the file, until
// ctx is cancelled. onChange never runs concurrently with itself.
func (w *fileWatcher) Run(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	close(w.ready)

	changes := make(chan struct{}, 1)
	eg, egctx := errgroup.WithContext(ctx)

	// Event loop: filter and debounce
	eg.Go(func() error {
		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()

		for {
			select {
			case <-egctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, func() {
					w.logger.Debug("file changed", "file", event.Name)
					select {
					case changes <- struct{}{}:
					default:
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				w.logger.Error("watcher error", "error", err)
			}
		}
	})

	// Worker: one re-transpile at a time
	eg.Go(func() error {
		for {
			select {
			case <-egctx.Done():
				return nil
			case <-changes:
				onChange()
			}
		}
	})

	return eg.Wait()
}
