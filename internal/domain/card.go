package domain

import (
	"encoding/json"
	"time"

	"github.com/conorfennell/ngurra/internal/scheduler"
)

// CardQueue is the coarse lifecycle bucket of a card, persisted as an
// integer tag.
type CardQueue int

const (
	QueueNew      CardQueue = 0
	QueueLearning CardQueue = 1
	QueueReview   CardQueue = 2
)

// Card is a unit of study material. It belongs to exactly one deck and is
// mutated on every answer event; it is never removed automatically.
//
// The meaning of Interval and Due depends on Queue: while learning the
// interval is in seconds; in review it is in days. Due is an insertion
// position for new cards and a day index for review cards.
type Card struct {
	ID              int64 // zero until persisted
	DeckID          int64
	Question        string
	Answer          string
	CreationTime    time.Time
	LastStudiedTime *time.Time
	EaseFactor      float64
	Interval        int
	Due             int
	Queue           CardQueue
	Fingerprint     string
	Data            CardData
}

// NewCard returns an unpersisted card in the new stage with the stock ease
// factor and no memory state.
func NewCard(deckID int64, question, answer string) *Card {
	return &Card{
		DeckID:       deckID,
		Question:     question,
		Answer:       answer,
		CreationTime: time.Now(),
		EaseFactor:   2.5,
		Queue:        QueueNew,
	}
}

// CardData is the opaque JSON payload persisted alongside a card. The short
// keys match the stored format: pos (original position), s/d (memory model
// stability and difficulty), dr (desired retention), cd (custom data).
type CardData struct {
	OriginalPosition *int     `json:"pos,omitempty"`
	Stability        *float64 `json:"s,omitempty"`
	Difficulty       *float64 `json:"d,omitempty"`
	DesiredRetention *float64 `json:"dr,omitempty"`
	CustomData       string   `json:"cd,omitempty"`
}

// ParseCardData decodes a payload leniently: a malformed payload yields the
// zero value, so the card is treated as if it had no memory state rather than
// failing the whole load.
func ParseCardData(raw string) CardData {
	if raw == "" {
		return CardData{}
	}
	var data CardData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return CardData{}
	}
	return data
}

// Encode serializes the payload for storage.
func (d CardData) Encode() string {
	encoded, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// MemoryState returns the memory-model parameters when the card has any.
// Stability alone decides presence; a missing difficulty defaults to zero.
func (d CardData) MemoryState() *scheduler.MemoryState {
	if d.Stability == nil {
		return nil
	}
	state := scheduler.MemoryState{Stability: *d.Stability}
	if d.Difficulty != nil {
		state.Difficulty = *d.Difficulty
	}
	return &state
}

// SetMemoryState stores or clears the memory-model parameters.
func (d *CardData) SetMemoryState(state *scheduler.MemoryState) {
	if state == nil {
		d.Stability = nil
		d.Difficulty = nil
		return
	}
	stability := state.Stability
	difficulty := state.Difficulty
	d.Stability = &stability
	d.Difficulty = &difficulty
}
