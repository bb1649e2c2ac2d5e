package collection

import (
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/ngurra/internal/domain"
	"github.com/conorfennell/ngurra/internal/scheduler"
	"github.com/conorfennell/ngurra/internal/storage"
)

// Collection ties the card store, the scheduling configuration and the
// session clock together. It is the single entry point for answering cards,
// building study queues and reading deck statistics.
//
// A collection is not safe for concurrent use: AnswerCard is a plain
// load-modify-save sequence, and the one-write-per-answer guarantee relies
// on single-writer access.
type Collection struct {
	db  *storage.DB
	ctx *scheduler.StateContext
	now func() int64
}

// Open opens (or creates) a collection at the given database path. A nil
// context means the stock scheduling configuration. The collection's
// creation stamp is recorded on first open.
func Open(dsn string, ctx *scheduler.StateContext) (*Collection, error) {
	db, err := storage.Open(dsn)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = scheduler.DefaultContext()
	}

	col := &Collection{
		db:  db,
		ctx: ctx,
		now: func() int64 { return time.Now().Unix() },
	}

	if _, err := db.CreationStamp(); errors.Is(err, storage.ErrNotFound) {
		if err := db.SetCreationStamp(col.now()); err != nil {
			db.Close()
			return nil, err
		}
	} else if err != nil {
		db.Close()
		return nil, err
	}

	return col, nil
}

// Close closes the underlying store.
func (c *Collection) Close() error {
	return c.db.Close()
}

// DB exposes the underlying store for import and source management.
func (c *Collection) DB() *storage.DB {
	return c.db
}

// Timing returns a fresh day-boundary snapshot for the current wall-clock
// time.
func (c *Collection) Timing() SchedTimingToday {
	return TimingForTimestamp(c.now())
}

// AnswerCard answers one card with one grade: it loads the card, derives its
// scheduling state from the persisted queue tag, computes the candidate next
// states, applies the candidate matching the grade and persists the result.
// Exactly one write happens per call; if it fails, the error is surfaced and
// the in-memory card keeps the intended (not yet durable) state.
func (c *Collection) AnswerCard(cardID int64, grade scheduler.Grade) error {
	card, err := c.db.GetCard(cardID)
	if err != nil {
		return err
	}

	states, err := currentCardState(card).NextStates(c.ctx)
	if err != nil {
		return fmt.Errorf("computing next states for card %d: %w", cardID, err)
	}
	next, err := states.Select(grade)
	if err != nil {
		return fmt.Errorf("answering card %d: %w", cardID, err)
	}

	c.applyState(card, next)
	now := time.Now()
	card.LastStudiedTime = &now

	if err := c.db.SaveCard(card); err != nil {
		return fmt.Errorf("saving card %d after answer: %w", cardID, err)
	}
	return nil
}

// DecksStats computes new/learning/due counts for every deck at the current
// day boundary, using the same eligibility predicate as BuildQueue.
func (c *Collection) DecksStats() (map[int64]*domain.DeckStats, error) {
	return c.db.DecksStats(c.Timing().DaysElapsed)
}

// ListDecksWithStats returns every deck with its stats snapshot attached.
// Decks with no cards get zero stats.
func (c *Collection) ListDecksWithStats() ([]*domain.Deck, error) {
	decks, err := c.db.ListDecks()
	if err != nil {
		return nil, err
	}
	stats, err := c.DecksStats()
	if err != nil {
		return nil, err
	}
	for _, deck := range decks {
		if st, ok := stats[deck.ID]; ok {
			deck.Stats = st
		} else {
			deck.Stats = &domain.DeckStats{}
		}
	}
	return decks, nil
}

// currentCardState derives the scheduling state matching the card's
// persisted queue tag. The ease factor is clamped to its floor on the way
// out, so no stored value can push review intervals below the contract.
func currentCardState(card *domain.Card) scheduler.CardState {
	switch card.Queue {
	case domain.QueueLearning:
		return scheduler.LearningState{
			ScheduledSecs: card.Interval,
			MemoryState:   card.Data.MemoryState(),
		}
	case domain.QueueReview:
		easeFactor := card.EaseFactor
		if easeFactor < scheduler.MinEaseFactor {
			easeFactor = scheduler.MinEaseFactor
		}
		return scheduler.ReviewState{
			ScheduledDays: card.Interval,
			EaseFactor:    easeFactor,
			MemoryState:   card.Data.MemoryState(),
		}
	default:
		return scheduler.NewState{Position: card.Due}
	}
}

// applyState writes a chosen candidate state back onto the card's persisted
// fields: queue tag, interval, due and memory state. Review due values are
// anchored on the current day boundary.
func (c *Collection) applyState(card *domain.Card, next scheduler.CardState) {
	switch next := next.(type) {
	case scheduler.NewState:
		card.Queue = domain.QueueNew
		card.Due = next.Position
	case scheduler.LearningState:
		card.Queue = domain.QueueLearning
		card.Interval = next.ScheduledSecs
		card.Data.SetMemoryState(next.MemoryState)
	case scheduler.ReviewState:
		card.Queue = domain.QueueReview
		card.Interval = next.ScheduledDays
		card.Due = c.Timing().DaysElapsed + next.ScheduledDays
		card.EaseFactor = next.EaseFactor
		card.Data.SetMemoryState(next.MemoryState)
	}
}
