package progress

import "time"

const (
	// estimateWarmup suppresses estimates while they are still noisy.
	estimateWarmup = 3 * time.Second
	// analysisPhaseEnd is the progress value separating the slow
	// upload+analysis phase from the near-linear extraction tail.
	analysisPhaseEnd = 60
	// analysisPessimism inflates projections during the analysis phase,
	// which dominates total cost and varies the most.
	analysisPessimism = 1.3
)

// EstimateRemaining projects the remaining seconds of work from elapsed
// wall-clock time and current completion. It returns nil when the progress
// value is out of range or the warm-up window has not passed; otherwise the
// estimate is at least one second so in-flight work never shows zero.
func EstimateRemaining(start time.Time, progress int, now time.Time) *int {
	if progress <= 0 || progress >= Complete {
		return nil
	}
	elapsed := now.Sub(start)
	if elapsed < estimateWarmup {
		return nil
	}

	projected := elapsed.Seconds() / float64(progress) * 100
	if progress < analysisPhaseEnd {
		projected *= analysisPessimism
	}
	remaining := int(projected - elapsed.Seconds())
	if remaining < 1 {
		remaining = 1
	}
	return &remaining
}
