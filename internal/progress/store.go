package progress

import "sync"

// Store maps session identifiers to their latest snapshot. It is safe for
// concurrent use; the lock is held only for the map operation itself, never
// across a remote call.
type Store struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]Snapshot)}
}

// Update overwrites the session's snapshot atomically.
func (s *Store) Update(sessionID string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[sessionID] = snap
}

// Read returns the session's current snapshot, or false when none exists.
func (s *Store) Read(sessionID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[sessionID]
	return snap, ok
}

// Forget drops the session's snapshot. Sessions live for the duration of one
// extraction request; callers reclaim them once streaming is done.
func (s *Store) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
}
