package scheduler

// NewState is the stage of a card that has never been answered. It carries
// only the card's insertion position, which orders new cards in the queue.
type NewState struct {
	Position int
}

// NextStates delegates to a freshly constructed learning state: a new card's
// first answer always enters learning, whatever the grade. Only the reported
// current state stays New.
func (n NewState) NextStates(ctx *StateContext) (SchedulingStates, error) {
	states, err := (LearningState{}).NextStates(ctx)
	if err != nil {
		return SchedulingStates{}, err
	}
	states.Current = n
	return states, nil
}

func (NewState) sealedCardState() {}
