// Package journal persists one record per extraction run for operational
// queries: what ran, when, and how it ended.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested run does not exist.
var ErrNotFound = errors.New("extraction run not found")

// RunStatus mirrors the extraction_runs status column.
type RunStatus string

// Run statuses persisted in extraction_runs.status.
const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// Run models one extraction run.
type Run struct {
	// ID is the primary key.
	ID uuid.UUID
	// SessionID is the caller-supplied progress session token.
	SessionID string
	// Filename is the uploaded document's original name.
	Filename string
	// Formats lists the requested output formats in request order.
	Formats []string
	// StartedAt captures when the run was first marked running.
	StartedAt time.Time
	// FinishedAt is nil until the run is marked success/error.
	FinishedAt *time.Time
	// Status is running/success/error.
	Status RunStatus
	// ErrorMessage optionally stores the final failure reason.
	ErrorMessage *string
}

// Repository persists extraction runs.
type Repository interface {
	// Begin inserts the run in the running state.
	Begin(ctx context.Context, run Run) error
	// Complete marks the run finished with the provided status and error.
	Complete(ctx context.Context, id uuid.UUID, finishedAt time.Time, status RunStatus, errMsg *string) error
	// Get loads a single run or returns ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (Run, error)
	// List returns runs filtered by optional status plus limit/offset,
	// newest first.
	List(ctx context.Context, status *RunStatus, limit, offset int) ([]Run, error)
	// Close releases the repository's resources.
	Close()
}
