// Package storage defines where uploaded documents live between admission
// and cleanup. Artifacts are short-lived: saved before analysis, removed
// unconditionally once the extraction finishes.
package storage

import (
	"context"
	"io"
)

// ArtifactStore persists uploaded documents.
type ArtifactStore interface {
	// Save writes the artifact under the given name and returns an opaque
	// reference usable with Remove.
	Save(ctx context.Context, name string, contentType string, data io.Reader) (string, error)
	// Remove deletes the artifact. Cleanup is best-effort; callers log and
	// swallow the returned error.
	Remove(ctx context.Context, ref string) error
}
