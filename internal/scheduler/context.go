package scheduler

// MinEaseFactor is the floor below which a card's ease factor never drops.
const MinEaseFactor = 1.3

// StateContext is the static scheduling configuration consulted by every
// state transition. It is a plain value: callers construct it once (usually
// via DefaultContext) and pass it into NextStates explicitly, which keeps
// transitions deterministic under test.
type StateContext struct {
	// Per-day caps. The scheduler only exposes these; enforcing them is the
	// caller's job.
	NewPerDay     int
	ReviewsPerDay int

	// Learning.
	GraduatingIntervalGood int
	GraduatingIntervalEasy int
	InitialEaseFactor      float64

	// Reviewing.
	HardMultiplier        float64
	EasyMultiplier        float64
	IntervalMultiplier    float64
	MaximumReviewInterval int
}

// DefaultContext returns the stock configuration.
func DefaultContext() *StateContext {
	return &StateContext{
		NewPerDay:     20,
		ReviewsPerDay: 200,

		GraduatingIntervalGood: 1,
		GraduatingIntervalEasy: 4,
		InitialEaseFactor:      2.5,

		HardMultiplier:        1.2,
		EasyMultiplier:        1.3,
		IntervalMultiplier:    1.0,
		MaximumReviewInterval: 36_500,
	}
}

// MinAndMaxReviewIntervals clamps a proposed minimum interval into the
// allowed review range. The returned minimum is always at least one day and
// never exceeds the returned maximum.
func (c *StateContext) MinAndMaxReviewIntervals(minimum int) (int, int) {
	maximum := c.MaximumReviewInterval
	if maximum < 1 {
		maximum = 1
	}
	if minimum < 1 {
		minimum = 1
	}
	if minimum > maximum {
		minimum = maximum
	}
	return minimum, maximum
}
