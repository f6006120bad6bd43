package progress

// Curve generates synthetic progress while a remote operation exposes no
// intermediate signal. Implementations are pure: the next value depends only
// on the current one, so curves are swappable and testable in isolation.
type Curve interface {
	// Start is the first value the curve emits.
	Start() int
	// Next advances from the current value, never decreasing and never
	// exceeding the curve's ceiling.
	Next(current int) int
}

// StepCurve advances in decelerating steps: large increments early so the
// bar looks responsive, a crawl near the ceiling so it never completes on
// its own. The real completion signal forces the jump past the ceiling.
type StepCurve struct {
	Floor   int
	Ceiling int
}

// AnalysisCurve is the schedule used during remote document analysis:
// starts at 15, steps 3 below 40, 2 below 60, then 1, capped at 90.
func AnalysisCurve() StepCurve {
	return StepCurve{Floor: 15, Ceiling: 90}
}

// Start returns the curve's floor.
func (c StepCurve) Start() int {
	return c.Floor
}

// Next returns the decelerated successor of current.
func (c StepCurve) Next(current int) int {
	if current < c.Floor {
		return c.Floor
	}
	step := 1
	switch {
	case current < 40:
		step = 3
	case current < 60:
		step = 2
	}
	next := current + step
	if next > c.Ceiling {
		next = c.Ceiling
	}
	return next
}
