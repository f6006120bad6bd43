// Package memory stores artifacts in-memory for tests and development.
package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Store keeps artifact content in a map and hands out memory:// references.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Save records the artifact content.
func (s *Store) Save(_ context.Context, name string, _ string, data io.Reader) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact data: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = append([]byte(nil), content...)
	return "memory://" + name, nil
}

// Remove drops the artifact.
func (s *Store) Remove(_ context.Context, ref string) error {
	name := strings.TrimPrefix(ref, "memory://")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return fmt.Errorf("artifact %q not found", name)
	}
	delete(s.data, name)
	return nil
}

// Get returns a stored artifact's content for test assertions.
func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.data[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), content...), true
}
