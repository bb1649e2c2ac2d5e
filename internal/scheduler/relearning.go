package scheduler

import "fmt"

// RelearningState is the stage for cards that lapsed out of review. It has
// no transition table: a lapsed review card is kept in review at zero days
// (see ReviewState.NextStates), so nothing constructs this state today.
// NextStates reports the gap explicitly instead of guessing a recovery
// policy.
type RelearningState struct{}

func (RelearningState) NextStates(*StateContext) (SchedulingStates, error) {
	return SchedulingStates{}, fmt.Errorf("%w: relearning", ErrUnimplementedTransition)
}

func (RelearningState) sealedCardState() {}
