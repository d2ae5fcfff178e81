package pipeline

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrAlreadyInitialized is returned by Init when a pipeline is installed.
var ErrAlreadyInitialized = errors.New("pipeline already initialized")

// Handle is an explicit process-wide pipeline slot.
//
// Init installs a pipeline once; later Init calls fail with
// ErrAlreadyInitialized and leave the installed pipeline untouched.
// Shutdown removes it and may be called any number of times. Current is
// safe to call concurrently with both. Calls that started before Shutdown
// keep using the pipeline they loaded.
type Handle struct {
	mu      sync.Mutex
	current atomic.Pointer[Pipeline]
}

// Init installs p.
func (h *Handle) Init(p *Pipeline) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current.Load() != nil {
		return ErrAlreadyInitialized
	}
	h.current.Store(p)
	return nil
}

// Shutdown removes the installed pipeline. It reports whether one was
// installed.
func (h *Handle) Shutdown() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.current.Swap(nil) != nil
}

// Current returns the installed pipeline or nil.
func (h *Handle) Current() *Pipeline {
	return h.current.Load()
}
