package collection

// SchedTimingToday is the day boundary all elapsed-day math is made against.
// It is computed once per session from the wall clock and never mutated;
// queue and stats queries each take a fresh snapshot.
type SchedTimingToday struct {
	// Now is the epoch time the snapshot was taken.
	Now int64
	// DaysElapsed counts whole days since the epoch. Review cards compare
	// their due value against it.
	DaysElapsed int
	// NextDayAt is the epoch time of the next day rollover.
	NextDayAt int64
}

// TimingForTimestamp computes the day boundary for an epoch timestamp.
func TimingForTimestamp(now int64) SchedTimingToday {
	daysElapsed := now / 86_400
	return SchedTimingToday{
		Now:         now,
		DaysElapsed: int(daysElapsed),
		NextDayAt:   (daysElapsed + 1) * 86_400,
	}
}
