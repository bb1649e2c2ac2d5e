package scheduler

import "math"

// ReviewState is the stage of a graduated card. Intervals are whole days.
type ReviewState struct {
	ScheduledDays int
	EaseFactor    float64
	MemoryState   *MemoryState
}

func (r ReviewState) NextStates(ctx *StateContext) (SchedulingStates, error) {
	hardInterval, goodInterval, easyInterval := r.passingIntervals(ctx)

	return SchedulingStates{
		Current: r,
		// A lapse: the card is due immediately and its memory state no
		// longer describes the material. It stays in review rather than
		// moving to relearning.
		Again: ReviewState{ScheduledDays: 0, EaseFactor: r.EaseFactor},
		Hard:  ReviewState{ScheduledDays: hardInterval, EaseFactor: r.EaseFactor},
		Good:  ReviewState{ScheduledDays: goodInterval, EaseFactor: r.EaseFactor},
		Easy: ReviewState{
			ScheduledDays: easyInterval,
			EaseFactor:    r.EaseFactor,
			MemoryState:   r.MemoryState,
		},
	}, nil
}

// passingIntervals computes the hard, good and easy intervals from the
// current scheduled days and ease factor. The minimums chain so that
// hard < good < easy holds strictly whatever the multipliers.
func (r ReviewState) passingIntervals(ctx *StateContext) (hard, good, easy int) {
	days := float64(r.ScheduledDays)

	hardMinimum := 0
	if ctx.HardMultiplier > 1 {
		hardMinimum = r.ScheduledDays + 1
	}
	hard = constrainPassingInterval(ctx, days*ctx.HardMultiplier, hardMinimum)

	goodMinimum := hard + 1
	if ctx.HardMultiplier <= 1 {
		goodMinimum = r.ScheduledDays + 1
	}
	good = constrainPassingInterval(ctx, days/2*r.EaseFactor, goodMinimum)

	easy = constrainPassingInterval(ctx, days*r.EaseFactor*ctx.EasyMultiplier, good+1)
	return hard, good, easy
}

// constrainPassingInterval applies the global interval multiplier, rounds to
// whole days and clamps the result into the allowed review range.
func constrainPassingInterval(ctx *StateContext, interval float64, minimum int) int {
	days := int(math.Round(interval * ctx.IntervalMultiplier))
	minimum, maximum := ctx.MinAndMaxReviewIntervals(minimum)
	if days < minimum {
		days = minimum
	}
	if days > maximum {
		days = maximum
	}
	return days
}

func (ReviewState) sealedCardState() {}
