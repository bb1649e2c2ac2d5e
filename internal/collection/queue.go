package collection

import "github.com/conorfennell/ngurra/internal/domain"

// QueueStats counts the queue's members per stage at construction time.
type QueueStats struct {
	New      int
	Learning int
	Review   int
}

// Queue is the session-scoped working set of cards for one deck's study
// session. It is a double-ended sequence of card IDs: the card about to be
// studied sits at the back, and Requeue reinserts a wrongly-answered card at
// the front so it comes around again last rather than immediately.
//
// Queues are built fresh when a study session starts and never persisted.
type Queue struct {
	entries []int64
	stats   QueueStats
}

// Len returns the number of cards left in the queue.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Stats returns the per-stage counts taken when the queue was built.
func (q *Queue) Stats() QueueStats {
	return q.stats
}

// PushFront inserts a card at the front, the end studied last.
func (q *Queue) PushFront(cardID int64) {
	q.entries = append([]int64{cardID}, q.entries...)
}

// PushBack inserts a card at the back, the end studied next.
func (q *Queue) PushBack(cardID int64) {
	q.entries = append(q.entries, cardID)
}

// PopBack removes and returns the card about to be studied. The second
// return is false once the queue is exhausted, which is the session's normal
// terminal state, not an error.
func (q *Queue) PopBack() (int64, bool) {
	if len(q.entries) == 0 {
		return 0, false
	}
	cardID := q.entries[len(q.entries)-1]
	q.entries = q.entries[:len(q.entries)-1]
	return cardID, true
}

// PopFront removes and returns the card at the deferred end.
func (q *Queue) PopFront() (int64, bool) {
	if len(q.entries) == 0 {
		return 0, false
	}
	cardID := q.entries[0]
	q.entries = q.entries[1:]
	return cardID, true
}

// Requeue returns a card answered Again to the queue, deferred behind every
// current entry.
func (q *Queue) Requeue(cardID int64) {
	q.PushFront(cardID)
}

// BuildQueue gathers a deck's study queue for this session: review cards due
// at the current day boundary first, then every learning card, then new
// cards in insertion order. An empty deck yields an empty queue with zero
// stats.
func (c *Collection) BuildQueue(deckID int64) (*Queue, error) {
	timing := c.Timing()
	queue := &Queue{}

	reviews, err := c.db.CardsInDeck(deckID, domain.QueueReview, timing.DaysElapsed)
	if err != nil {
		return nil, err
	}
	for _, card := range reviews {
		queue.PushFront(card.ID)
		queue.stats.Review++
	}

	learning, err := c.db.CardsInDeck(deckID, domain.QueueLearning, timing.DaysElapsed)
	if err != nil {
		return nil, err
	}
	for _, card := range learning {
		queue.PushFront(card.ID)
		queue.stats.Learning++
	}

	fresh, err := c.db.CardsInDeck(deckID, domain.QueueNew, timing.DaysElapsed)
	if err != nil {
		return nil, err
	}
	for _, card := range fresh {
		queue.PushFront(card.ID)
		queue.stats.New++
	}

	return queue, nil
}
