package scheduler

import (
	"errors"
	"fmt"
)

// ErrUnimplementedTransition is returned when a card state has no transition
// table. It marks a known gap rather than a recoverable condition.
var ErrUnimplementedTransition = errors.New("transition not implemented")

// CardState is the scheduling-relevant snapshot of a card, detached from
// persistence. Exactly one variant is active per card at a time, and the
// variant must agree with the card's persisted queue tag.
//
// The set of variants is closed: NewState, LearningState, ReviewState and
// RelearningState.
type CardState interface {
	// NextStates computes the four grade-conditioned candidate states for
	// one decision point.
	NextStates(ctx *StateContext) (SchedulingStates, error)

	sealedCardState()
}

// SchedulingStates bundles the current state with the four candidate next
// states for a single decision point. It is ephemeral: built, consumed by the
// caller's grade selection, discarded.
type SchedulingStates struct {
	Current CardState
	Again   CardState
	Hard    CardState
	Good    CardState
	Easy    CardState
}

// Select returns the candidate state matching the grade.
func (s SchedulingStates) Select(grade Grade) (CardState, error) {
	switch grade {
	case Again:
		return s.Again, nil
	case Hard:
		return s.Hard, nil
	case Good:
		return s.Good, nil
	case Easy:
		return s.Easy, nil
	}
	return nil, fmt.Errorf("no candidate state for grade %d", int(grade))
}
