package extract

import (
	"context"
	"time"

	"github.com/mwai-ops/doc-intel/internal/analysis"
	"github.com/mwai-ops/doc-intel/internal/progress"
)

// Default cadences for the analysis driver: check the remote handle often,
// advance the visible bar less often so it moves in readable steps.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultEmitInterval = 500 * time.Millisecond
)

// Driver runs a remote analysis operation to completion while synthesizing
// progress from a curve, because the backend exposes no intermediate signal.
type Driver struct {
	// Poll is how often the operation handle is checked. Defaults to
	// DefaultPollInterval.
	Poll time.Duration
	// Emit is the minimum spacing between synthesized progress reports.
	// Defaults to DefaultEmitInterval.
	Emit time.Duration
	// Curve produces the synthesized values. Defaults to AnalysisCurve.
	Curve progress.Curve
}

// Drive polls op until it completes, reporting curve values through report
// along the way. On completion the reported progress is forced to at least
// the curve's start of the formatting phase before the result is returned.
func (d Driver) Drive(ctx context.Context, op analysis.Operation, report progress.ReportFunc) (*analysis.Result, error) {
	poll := d.Poll
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	emit := d.Emit
	if emit <= 0 {
		emit = DefaultEmitInterval
	}
	curve := d.Curve
	if curve == nil {
		curve = progress.AnalysisCurve()
	}

	current := curve.Start()
	lastEmit := time.Now()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		done, err := op.Done(ctx)
		if err != nil {
			return nil, &RemoteServiceError{Op: "poll", Err: err}
		}
		if done {
			break
		}
		if report != nil && time.Since(lastEmit) >= emit {
			current = curve.Next(current)
			report(current, "Analyzing document with AI...")
			lastEmit = time.Now()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	// The formatting phase owns everything past the curve ceiling, so make
	// sure the bar reaches it even when the operation finished instantly.
	if report != nil && current < analysisCeiling {
		report(analysisCeiling, "Analysis complete...")
	}

	result, err := op.Result(ctx)
	if err != nil {
		return nil, &RemoteServiceError{Op: "result", Err: err}
	}
	return result, nil
}

// analysisCeiling is where analysis hands the timeline to formatting.
const analysisCeiling = 90
