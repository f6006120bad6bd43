// Package progress provides the per-session progress primitives for document
// extraction: the snapshot store, the remaining-time estimator, the synthetic
// progress curve used while the remote analysis is opaque, and the stream
// that pushes snapshots to subscribers.
package progress

import "time"

// Terminal progress value; no further snapshots follow it.
const Complete = 100

// Snapshot is the immutable progress record stored per session. Updates
// replace the prior snapshot wholesale.
type Snapshot struct {
	// Progress is 0..100.
	Progress int `json:"progress"`
	// Status is a human-readable phase label.
	Status string `json:"status"`
	// TimeRemaining is in whole seconds; absent when no estimate is
	// available, never zero or negative.
	TimeRemaining *int `json:"time_remaining,omitempty"`
	// Failed marks a terminal failure snapshot. Progress keeps its
	// last-written value so subscribers see where the run stopped.
	Failed bool `json:"failed,omitempty"`
	// Timestamp is the capture time.
	Timestamp time.Time `json:"timestamp"`
}

// Terminal reports whether no further snapshots are expected for the session.
func (s Snapshot) Terminal() bool {
	return s.Progress >= Complete || s.Failed
}

// Budget is the (base, span) slice of the 0-100 timeline owned by one phase
// or formatter. A formatter reporting local progress p maps it to
// Base + p*Span/100.
type Budget struct {
	Base int
	Span int
}

// Absolute converts a local 0..100 completion measure into timeline progress.
func (b Budget) Absolute(local int) int {
	if local < 0 {
		local = 0
	}
	if local > 100 {
		local = 100
	}
	return b.Base + local*b.Span/100
}

// SplitBudget partitions [base, base+span) evenly into n sub-budgets in
// order. Integer division leaves the rounding slack on the final segment so
// the sizes always sum to span.
func SplitBudget(base, span, n int) []Budget {
	if n <= 0 {
		return nil
	}
	out := make([]Budget, 0, n)
	size := span / n
	for i := 0; i < n; i++ {
		b := Budget{Base: base + i*size, Span: size}
		if i == n-1 {
			b.Span = span - i*size
		}
		out = append(out, b)
	}
	return out
}
