package domain

import "time"

// Deck is a named collection of cards. Cards reference their deck by ID;
// deleting a deck does not cascade to its cards.
type Deck struct {
	ID           int64 // zero until persisted
	Name         string
	CreationTime time.Time

	// Stats is a per-session snapshot recomputed against the current day
	// boundary on each read. Never persisted.
	Stats *DeckStats
}

// DeckStats counts a deck's cards per stage as of a day boundary.
type DeckStats struct {
	New      int
	Learning int
	Due      int
}

// NewDeck returns an unpersisted deck with the given name.
func NewDeck(name string) *Deck {
	return &Deck{
		Name:         name,
		CreationTime: time.Now(),
	}
}
