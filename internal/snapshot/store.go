package snapshot

import (
	"sync"
	"sync/atomic"
)

// Store holds the current View.
// Generations are handed out when a refresh starts; a refresh that started
// earlier than the applied one is discarded (last-started-wins).
type Store struct {
	started atomic.Uint64

	mu      sync.RWMutex
	current *View
	applied uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Begin reserves the generation of a refresh that is about to start
func (s *Store) Begin() uint64 {
	return s.started.Add(1)
}

// Replace installs v as generation gen.
// It reports false when a newer generation is already installed.
func (s *Store) Replace(gen uint64, v *View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.applied {
		return false
	}

	v.Generation = gen
	s.current = v
	s.applied = gen
	return true
}

// Current returns the installed view, or nil before the first refresh
func (s *Store) Current() *View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
