package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/conorfennell/ngurra/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCardRoundTrip(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	card := domain.NewCard(deck.ID, "What is the capital of France?", "Paris")
	stability := 10.5
	difficulty := 4.2
	card.Data.Stability = &stability
	card.Data.Difficulty = &difficulty

	if err := db.CreateCard(card); err != nil {
		t.Fatalf("Failed to create card: %v", err)
	}
	if card.ID == 0 {
		t.Fatalf("Expected an assigned card ID, but got 0")
	}

	loaded, err := db.GetCard(card.ID)
	if err != nil {
		t.Fatalf("Failed to load card: %v", err)
	}
	if loaded.Question != card.Question || loaded.Answer != card.Answer {
		t.Errorf("Expected %q/%q, but got %q/%q", card.Question, card.Answer, loaded.Question, loaded.Answer)
	}
	if loaded.Queue != domain.QueueNew {
		t.Errorf("Expected queue New, but got %d", loaded.Queue)
	}
	if loaded.EaseFactor != 2.5 {
		t.Errorf("Expected ease factor 2.5, but got %v", loaded.EaseFactor)
	}
	state := loaded.Data.MemoryState()
	if state == nil || state.Stability != 10.5 || state.Difficulty != 4.2 {
		t.Errorf("Expected memory state (10.5, 4.2), but got %+v", state)
	}
}

func TestCreateCardAssignsPositions(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	for i := 0; i < 3; i++ {
		card := domain.NewCard(deck.ID, "Q", "A")
		if err := db.CreateCard(card); err != nil {
			t.Fatalf("Failed to create card %d: %v", i, err)
		}
		if card.Due != i {
			t.Errorf("Expected position %d, but got %d", i, card.Due)
		}
		if card.Data.OriginalPosition == nil || *card.Data.OriginalPosition != i {
			t.Errorf("Expected original position %d to be recorded, but got %+v", i, card.Data.OriginalPosition)
		}
	}
}

func TestSaveCardUpdates(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}
	card := domain.NewCard(deck.ID, "Q", "A")
	if err := db.CreateCard(card); err != nil {
		t.Fatalf("Failed to create card: %v", err)
	}

	now := time.Now()
	card.Queue = domain.QueueReview
	card.Interval = 10
	card.Due = 42
	card.LastStudiedTime = &now

	if err := db.SaveCard(card); err != nil {
		t.Fatalf("Failed to save card: %v", err)
	}

	loaded, err := db.GetCard(card.ID)
	if err != nil {
		t.Fatalf("Failed to load card: %v", err)
	}
	if loaded.Queue != domain.QueueReview || loaded.Interval != 10 || loaded.Due != 42 {
		t.Errorf("Expected (Review, 10, 42), but got (%d, %d, %d)", loaded.Queue, loaded.Interval, loaded.Due)
	}
	if loaded.LastStudiedTime == nil {
		t.Errorf("Expected a last studied time, but got none")
	}
}

func TestGetCardNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetCard(12345)
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("Expected ErrCardNotFound, but got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected the error to match ErrNotFound, but got %v", err)
	}
}

func TestMalformedCardDataIsTreatedAsAbsent(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}
	card := domain.NewCard(deck.ID, "Q", "A")
	if err := db.CreateCard(card); err != nil {
		t.Fatalf("Failed to create card: %v", err)
	}

	if _, err := db.conn.Exec(`UPDATE cards SET data = 'not json' WHERE id = ?`, card.ID); err != nil {
		t.Fatalf("Failed to corrupt card data: %v", err)
	}

	loaded, err := db.GetCard(card.ID)
	if err != nil {
		t.Fatalf("Expected the card to load despite the bad payload, but got %v", err)
	}
	if loaded.Data.MemoryState() != nil {
		t.Errorf("Expected no memory state, but got %+v", loaded.Data.MemoryState())
	}
}

func TestCardsInDeck(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	const daysElapsed = 100

	addCard := func(queue domain.CardQueue, due int) *domain.Card {
		card := domain.NewCard(deck.ID, "Q", "A")
		card.Queue = queue
		card.Due = due
		if err := db.CreateCard(card); err != nil {
			t.Fatalf("Failed to create card: %v", err)
		}
		return card
	}

	due := addCard(domain.QueueReview, daysElapsed-1)
	addCard(domain.QueueReview, daysElapsed+5) // not yet due
	learning := addCard(domain.QueueLearning, 0)
	fresh := addCard(domain.QueueNew, 0)

	reviews, err := db.CardsInDeck(deck.ID, domain.QueueReview, daysElapsed)
	if err != nil {
		t.Fatalf("Failed to get review cards: %v", err)
	}
	if len(reviews) != 1 || reviews[0].ID != due.ID {
		t.Errorf("Expected only the due review card, but got %d cards", len(reviews))
	}

	learnings, err := db.CardsInDeck(deck.ID, domain.QueueLearning, daysElapsed)
	if err != nil {
		t.Fatalf("Failed to get learning cards: %v", err)
	}
	if len(learnings) != 1 || learnings[0].ID != learning.ID {
		t.Errorf("Expected one learning card, but got %d", len(learnings))
	}

	news, err := db.CardsInDeck(deck.ID, domain.QueueNew, daysElapsed)
	if err != nil {
		t.Fatalf("Failed to get new cards: %v", err)
	}
	if len(news) != 1 || news[0].ID != fresh.ID {
		t.Errorf("Expected one new card, but got %d", len(news))
	}
}

func TestDecksStats(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	const daysElapsed = 50

	addCard := func(queue domain.CardQueue, due int) {
		card := domain.NewCard(deck.ID, "Q", "A")
		card.Queue = queue
		card.Due = due
		if err := db.CreateCard(card); err != nil {
			t.Fatalf("Failed to create card: %v", err)
		}
	}

	addCard(domain.QueueNew, 0)
	addCard(domain.QueueNew, 1)
	addCard(domain.QueueLearning, 0)
	addCard(domain.QueueReview, daysElapsed)   // due today
	addCard(domain.QueueReview, daysElapsed-3) // overdue
	addCard(domain.QueueReview, daysElapsed+1) // tomorrow

	stats, err := db.DecksStats(daysElapsed)
	if err != nil {
		t.Fatalf("Failed to get deck stats: %v", err)
	}

	st, ok := stats[deck.ID]
	if !ok {
		t.Fatalf("Expected stats for deck %d, but got none", deck.ID)
	}
	if st.New != 2 || st.Learning != 1 || st.Due != 2 {
		t.Errorf("Expected stats (2, 1, 2), but got (%d, %d, %d)", st.New, st.Learning, st.Due)
	}
}

func TestDeckLifecycle(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Test Deck")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	decks, err := db.ListDecks()
	if err != nil {
		t.Fatalf("Failed to list decks: %v", err)
	}
	if len(decks) != 1 || decks[0].Name != "Test Deck" {
		t.Errorf("Expected one deck named Test Deck, but got %d decks", len(decks))
	}

	card := domain.NewCard(deck.ID, "Q", "A")
	if err := db.CreateCard(card); err != nil {
		t.Fatalf("Failed to create card: %v", err)
	}

	if err := db.DeleteDeck(deck.ID); err != nil {
		t.Fatalf("Failed to delete deck: %v", err)
	}
	if _, err := db.GetDeck(deck.ID); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound, but got %v", err)
	}

	// Deck deletion does not cascade; the card row is orphaned but intact.
	if _, err := db.GetCard(card.ID); err != nil {
		t.Errorf("Expected the card to survive deck deletion, but got %v", err)
	}
}

func TestSources(t *testing.T) {
	db := openTestDB(t)

	deck := domain.NewDeck("Imported")
	if err := db.CreateDeck(deck); err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	id, err := db.InsertSource("/tmp/cards", "local", deck.ID)
	if err != nil {
		t.Fatalf("Failed to insert source: %v", err)
	}

	sources, err := db.GetAllSources()
	if err != nil {
		t.Fatalf("Failed to get sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected one source, but got %d", len(sources))
	}
	if sources[0].DeckID != deck.ID || sources[0].Type != "local" {
		t.Errorf("Expected a local source for deck %d, but got %+v", deck.ID, sources[0])
	}
	if sources[0].LastScanned.Valid {
		t.Errorf("Expected no last scanned time yet, but got %v", sources[0].LastScanned.Time)
	}

	if err := db.UpdateSourceLastScanned(id); err != nil {
		t.Fatalf("Failed to update last scanned: %v", err)
	}
	sources, err = db.GetAllSources()
	if err != nil {
		t.Fatalf("Failed to get sources: %v", err)
	}
	if !sources[0].LastScanned.Valid {
		t.Errorf("Expected a last scanned time, but got none")
	}

	if err := db.DeleteSource(id); err != nil {
		t.Fatalf("Failed to delete source: %v", err)
	}
}

func TestCreationStamp(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.CreationStamp(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound before a stamp is set, but got %v", err)
	}

	if err := db.SetCreationStamp(1_700_000_000); err != nil {
		t.Fatalf("Failed to set creation stamp: %v", err)
	}

	stamp, err := db.CreationStamp()
	if err != nil {
		t.Fatalf("Failed to get creation stamp: %v", err)
	}
	if stamp != 1_700_000_000 {
		t.Errorf("Expected stamp 1700000000, but got %d", stamp)
	}
}
