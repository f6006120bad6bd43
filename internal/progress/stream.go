package progress

import (
	"context"
	"time"
)

const defaultStreamInterval = 500 * time.Millisecond

// Streamer turns the polling store into a push feed: it watches one session
// and emits each distinct snapshot to the subscriber until a terminal
// snapshot is observed.
type Streamer struct {
	store    *Store
	interval time.Duration
}

// NewStreamer builds a Streamer polling at the given interval (500ms when
// zero or negative).
func NewStreamer(store *Store, interval time.Duration) *Streamer {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &Streamer{store: store, interval: interval}
}

// Subscribe returns a channel of snapshots for the session. The channel
// closes after a terminal snapshot (progress 100 or failed) is delivered, or
// when ctx is canceled. A session that never receives a first snapshot keeps
// the subscriber waiting; bounding that wait is the caller's concern.
func (s *Streamer) Subscribe(ctx context.Context, sessionID string) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		last := -1
		lastFailed := false
		for {
			snap, ok := s.store.Read(sessionID)
			if ok && (snap.Progress != last || snap.Failed != lastFailed) {
				last = snap.Progress
				lastFailed = snap.Failed
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
				if snap.Terminal() {
					return
				}
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
