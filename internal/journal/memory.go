package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Repository used for tests and database-free deployments.
type Memory struct {
	mu   sync.Mutex
	runs map[uuid.UUID]Run
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{runs: make(map[uuid.UUID]Run)}
}

// Begin inserts the run in the running state.
func (m *Memory) Begin(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.Status = RunRunning
	run.Formats = append([]string(nil), run.Formats...)
	m.runs[run.ID] = run
	return nil
}

// Complete marks the run finished with the provided status and error message.
func (m *Memory) Complete(_ context.Context, id uuid.UUID, finishedAt time.Time, status RunStatus, errMsg *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrNotFound
	}
	run.FinishedAt = &finishedAt
	run.Status = status
	run.ErrorMessage = errMsg
	m.runs[id] = run
	return nil
}

// Get loads a single run or returns ErrNotFound.
func (m *Memory) Get(_ context.Context, id uuid.UUID) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

// List returns runs newest first, optionally filtered by status.
func (m *Memory) List(_ context.Context, status *RunStatus, limit, offset int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	runs := make([]Run, 0, len(m.runs))
	for _, run := range m.runs {
		if status != nil && run.Status != *status {
			continue
		}
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if offset >= len(runs) {
		return []Run{}, nil
	}
	runs = runs[offset:]
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op for the in-memory repository.
func (m *Memory) Close() {}
