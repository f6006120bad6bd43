package progress

import (
	"time"

	"go.uber.org/zap"
)

// ReportFunc receives a progress value and a phase label. The driver and the
// formatters report through this type so they stay decoupled from sessions
// and stores.
type ReportFunc func(progress int, status string)

// Reporter is the single writer of one session's snapshots. It computes the
// remaining-time estimate, enforces monotonic progress, updates the store,
// and fans each snapshot out to the configured sinks.
type Reporter struct {
	sessionID string
	start     time.Time
	store     *Store
	sinks     []Sink
	logger    *zap.Logger
	now       func() time.Time

	last int
}

// NewReporter builds a Reporter for one extraction session. A nil logger is
// replaced with a nop logger.
func NewReporter(sessionID string, start time.Time, store *Store, logger *zap.Logger, sinks ...Sink) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		sessionID: sessionID,
		start:     start,
		store:     store,
		sinks:     sinks,
		logger:    logger,
		now:       time.Now,
		last:      -1,
	}
}

// Report writes a snapshot for the absolute progress value. Values below the
// last reported progress are raised to it so readers always observe a
// non-decreasing sequence. Report on a nil Reporter is a no-op, which lets
// sessionless callers (the CLI) share the extraction path.
func (r *Reporter) Report(progress int, status string) {
	if r == nil {
		return
	}
	if progress < r.last {
		progress = r.last
	}
	r.last = progress
	r.write(Snapshot{
		Progress:      progress,
		Status:        status,
		TimeRemaining: EstimateRemaining(r.start, progress, r.now()),
	})
}

// ReportFailure writes a terminal failed snapshot keeping the last progress
// value, so subscribed streams close instead of hanging.
func (r *Reporter) ReportFailure(status string) {
	if r == nil {
		return
	}
	progress := r.last
	if progress < 0 {
		progress = 0
	}
	r.write(Snapshot{
		Progress: progress,
		Status:   status,
		Failed:   true,
	})
}

// Scaled returns a ReportFunc that maps a local 0..100 completion measure
// into the given budget's slice of the timeline.
func (r *Reporter) Scaled(b Budget) ReportFunc {
	return func(local int, status string) {
		r.Report(b.Absolute(local), status)
	}
}

func (r *Reporter) write(snap Snapshot) {
	snap.Timestamp = r.now()
	r.store.Update(r.sessionID, snap)
	for _, sink := range r.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Record(r.sessionID, snap); err != nil {
			r.logger.Warn("progress sink record failed",
				zap.String("session_id", r.sessionID),
				zap.Error(err),
			)
		}
	}
}
