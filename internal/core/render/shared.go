package render

import "sync"

// Shared is the mutex-guarded handle to a Backend used by both the
// simulation goroutine and the presentation loop. The lock is held for one
// burst of calls and never across a tick.
//
// A Shared may be created before its backend exists; every call returns
// ErrBackendUnavailable until Attach is called.
type Shared struct {
	mu      sync.Mutex
	backend Backend
}

func NewShared(backend Backend) *Shared {
	return &Shared{backend: backend}
}

// Attach installs or replaces the backend.
func (s *Shared) Attach(backend Backend) {
	s.mu.Lock()
	s.backend = backend
	s.mu.Unlock()
}

func (s *Shared) Available() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend != nil
}

// Do runs fn with exclusive access to the backend.
func (s *Shared) Do(fn func(Backend) error) error {
	if s == nil {
		return ErrBackendUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return ErrBackendUnavailable
	}
	return fn(s.backend)
}

func (s *Shared) Redraw() error {
	return s.Do(func(b Backend) error { return b.Render() })
}

func (s *Shared) Resize(width, height uint32) error {
	return s.Do(func(b Backend) error { return b.Resize(width, height) })
}

func (s *Shared) SurfaceConfig() (SurfaceConfig, error) {
	var cfg SurfaceConfig
	err := s.Do(func(b Backend) error {
		cfg = b.SurfaceConfig()
		return nil
	})
	return cfg, err
}
