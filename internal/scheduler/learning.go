package scheduler

// LearningState is the stage between a card's first answer and graduation to
// review. Intervals are tracked in seconds while learning.
type LearningState struct {
	// RemainingSteps is recorded but never consulted: a hook for step-based
	// learning (1 min, 10 min, graduate) that is not implemented yet.
	RemainingSteps int
	ScheduledSecs  int
	ElapsedSecs    int
	MemoryState    *MemoryState
}

func (l LearningState) NextStates(ctx *StateContext) (SchedulingStates, error) {
	review := ReviewState{EaseFactor: ctx.InitialEaseFactor}
	reviewStates, err := review.NextStates(ctx)
	if err != nil {
		return SchedulingStates{}, err
	}

	return SchedulingStates{
		Current: l,
		Again:   l.answerAgain(),
		Hard:    l.answerHard(),
		// A learning "good" is less confident than a review "good", so the
		// card graduates at the review stage's hard interval.
		Good: reviewStates.Hard,
		// Easy exits learning at the graduating-easy baseline, keeping any
		// memory state the card already accumulated.
		Easy: ReviewState{
			ScheduledDays: ctx.GraduatingIntervalEasy,
			EaseFactor:    ctx.InitialEaseFactor,
			MemoryState:   l.MemoryState,
		},
	}, nil
}

// answerAgain restarts the learning steps: counters zeroed, memory state
// dropped.
func (l LearningState) answerAgain() LearningState {
	return LearningState{}
}

// answerHard is identical to answerAgain. Hard and again are not
// differentiated within learning; a step policy that shortens instead of
// resetting has not been designed.
func (l LearningState) answerHard() LearningState {
	return LearningState{}
}

func (LearningState) sealedCardState() {}
