package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/ngurra/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer; a second pooled connection would also
	// see a different database entirely for in-memory DSNs.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

const cardColumns = `id, deck_id, question, answer, creation_time, last_studied_time, ease_factor, interval, due, queue, fingerprint, data`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card            domain.Card
		lastStudiedTime sql.NullTime
		queue           int
		fingerprint     sql.NullString
		data            string
	)

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Question,
		&card.Answer,
		&card.CreationTime,
		&lastStudiedTime,
		&card.EaseFactor,
		&card.Interval,
		&card.Due,
		&queue,
		&fingerprint,
		&data,
	)
	if err != nil {
		return nil, err
	}

	if lastStudiedTime.Valid {
		card.LastStudiedTime = &lastStudiedTime.Time
	}
	card.Queue = domain.CardQueue(queue)
	card.Fingerprint = fingerprint.String
	card.Data = domain.ParseCardData(data)

	return &card, nil
}

// CreateCard inserts a new card and assigns its ID. New-stage cards receive
// the next insertion position in their deck as their due value.
func (db *DB) CreateCard(card *domain.Card) error {
	if card.Queue == domain.QueueNew && card.Due == 0 {
		position, err := db.nextNewPosition(card.DeckID)
		if err != nil {
			return err
		}
		card.Due = position
		card.Data.OriginalPosition = &position
	}

	res, err := db.conn.Exec(`
		INSERT INTO cards (deck_id, question, answer, creation_time, last_studied_time, ease_factor, interval, due, queue, fingerprint, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		card.DeckID,
		card.Question,
		card.Answer,
		card.CreationTime,
		nullableTime(card.LastStudiedTime),
		card.EaseFactor,
		card.Interval,
		card.Due,
		int(card.Queue),
		card.Fingerprint,
		card.Data.Encode(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for card: %w", err)
	}
	card.ID = id
	return nil
}

// GetCard retrieves a card by its ID.
func (db *DB) GetCard(id int64) (*domain.Card, error) {
	row := db.conn.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)

	card, err := scanCard(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: id %d", ErrCardNotFound, id)
		}
		return nil, fmt.Errorf("failed to load card %d: %w", id, err)
	}
	return card, nil
}

// SaveCard persists the card: an update when it has an ID, an insert
// otherwise.
func (db *DB) SaveCard(card *domain.Card) error {
	if card.ID == 0 {
		return db.CreateCard(card)
	}

	_, err := db.conn.Exec(`
		UPDATE cards
		SET deck_id = ?, question = ?, answer = ?, last_studied_time = ?, ease_factor = ?, interval = ?, due = ?, queue = ?, fingerprint = ?, data = ?
		WHERE id = ?
	`,
		card.DeckID,
		card.Question,
		card.Answer,
		nullableTime(card.LastStudiedTime),
		card.EaseFactor,
		card.Interval,
		card.Due,
		int(card.Queue),
		card.Fingerprint,
		card.Data.Encode(),
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.ID, err)
	}
	return nil
}

// DeleteCard removes a card by its ID.
func (db *DB) DeleteCard(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	return nil
}

// CardsInDeck retrieves a deck's cards in one queue stage. Review cards are
// filtered to those due at or before daysElapsed; learning and new cards are
// always included. Rows come back in due order, which is insertion order for
// new cards.
func (db *DB) CardsInDeck(deckID int64, queue domain.CardQueue, daysElapsed int) ([]*domain.Card, error) {
	rows, err := db.conn.Query(`
		SELECT `+cardColumns+`
		FROM cards
		WHERE deck_id = ? AND queue = ? AND (queue != 2 OR due <= ?)
		ORDER BY due, id
	`, deckID, int(queue), daysElapsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row for deck %d: %w", deckID, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card rows for deck %d: %w", deckID, err)
	}
	return cards, nil
}

// CardByFingerprint retrieves the card with the given content fingerprint
// within a deck.
func (db *DB) CardByFingerprint(deckID int64, fingerprint string) (*domain.Card, error) {
	row := db.conn.QueryRow(`
		SELECT `+cardColumns+` FROM cards WHERE deck_id = ? AND fingerprint = ?
	`, deckID, fingerprint)

	card, err := scanCard(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: fingerprint %s", ErrCardNotFound, fingerprint)
		}
		return nil, fmt.Errorf("failed to find card by fingerprint %s: %w", fingerprint, err)
	}
	return card, nil
}

// CardFingerprints maps every non-empty fingerprint in a deck to its card ID.
func (db *DB) CardFingerprints(deckID int64) (map[string]int64, error) {
	rows, err := db.conn.Query(`
		SELECT id, fingerprint FROM cards WHERE deck_id = ? AND fingerprint != ''
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fingerprints for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	fingerprints := make(map[string]int64)
	for rows.Next() {
		var (
			id          int64
			fingerprint string
		)
		if err := rows.Scan(&id, &fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint row for deck %d: %w", deckID, err)
		}
		fingerprints[fingerprint] = id
	}
	return fingerprints, rows.Err()
}

func (db *DB) nextNewPosition(deckID int64) (int, error) {
	var position int
	err := db.conn.QueryRow(`
		SELECT COALESCE(MAX(due) + 1, 0) FROM cards WHERE deck_id = ? AND queue = 0
	`, deckID).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("failed to get next position for deck %d: %w", deckID, err)
	}
	return position, nil
}

// DecksStats counts every deck's new, learning and due cards in one
// aggregate pass. A review card counts as due when its day index is at or
// before daysElapsed, the same predicate the queue builder applies.
func (db *DB) DecksStats(daysElapsed int) (map[int64]*domain.DeckStats, error) {
	rows, err := db.conn.Query(`
		SELECT deck_id,
		       SUM(CASE WHEN queue = 0 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN queue = 1 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN queue = 2 AND due <= ? THEN 1 ELSE 0 END)
		FROM cards
		GROUP BY deck_id
	`, daysElapsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int64]*domain.DeckStats)
	for rows.Next() {
		var (
			deckID int64
			st     domain.DeckStats
		)
		if err := rows.Scan(&deckID, &st.New, &st.Learning, &st.Due); err != nil {
			return nil, fmt.Errorf("failed to scan deck stats row: %w", err)
		}
		stats[deckID] = &st
	}
	return stats, rows.Err()
}

// CreateDeck inserts a new deck and assigns its ID.
func (db *DB) CreateDeck(deck *domain.Deck) error {
	res, err := db.conn.Exec(`
		INSERT INTO decks (name, creation_time) VALUES (?, ?)
	`, deck.Name, deck.CreationTime)
	if err != nil {
		return fmt.Errorf("failed to insert deck %s: %w", deck.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID for deck %s: %w", deck.Name, err)
	}
	deck.ID = id
	return nil
}

// GetDeck retrieves a deck by its ID.
func (db *DB) GetDeck(id int64) (*domain.Deck, error) {
	var deck domain.Deck
	err := db.conn.QueryRow(`
		SELECT id, name, creation_time FROM decks WHERE id = ?
	`, id).Scan(&deck.ID, &deck.Name, &deck.CreationTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: id %d", ErrDeckNotFound, id)
		}
		return nil, fmt.Errorf("failed to load deck %d: %w", id, err)
	}
	return &deck, nil
}

// ListDecks retrieves all decks.
func (db *DB) ListDecks() ([]*domain.Deck, error) {
	rows, err := db.conn.Query(`SELECT id, name, creation_time FROM decks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(&deck.ID, &deck.Name, &deck.CreationTime); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, &deck)
	}
	return decks, rows.Err()
}

// DeleteDeck removes a deck by its ID. Its cards are not cascade-deleted;
// callers account for orphaned rows.
func (db *DB) DeleteDeck(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM decks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}
	return nil
}

// Source represents a card source feeding a deck, either a local path or a
// git URL.
type Source struct {
	ID          int64
	Path        string
	Type        string
	DeckID      int64
	LastScanned sql.NullTime
}

// InsertSource registers a new source path for a deck and returns its ID.
func (db *DB) InsertSource(path, sourceType string, deckID int64) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, type, deck_id) VALUES (?, ?, ?)
	`, path, sourceType, deckID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// GetAllSources retrieves all stored sources.
func (db *DB) GetAllSources() ([]Source, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, type, deck_id, last_scanned FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Type, &s.DeckID, &s.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source by its ID.
func (db *DB) DeleteSource(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	return nil
}

// UpdateSourceLastScanned updates the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(sourceID int64) error {
	_, err := db.conn.Exec(`
		UPDATE sources SET last_scanned = ? WHERE id = ?
	`, time.Now(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// CreationStamp returns the collection's creation timestamp, or ErrNotFound
// when none has been recorded yet.
func (db *DB) CreationStamp() (int64, error) {
	var stamp int64
	err := db.conn.QueryRow(`SELECT creation_stamp FROM sessions`).Scan(&stamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%w: creation stamp", ErrNotFound)
		}
		return 0, fmt.Errorf("failed to get creation stamp: %w", err)
	}
	return stamp, nil
}

// SetCreationStamp records the collection's creation timestamp.
func (db *DB) SetCreationStamp(stamp int64) error {
	if _, err := db.conn.Exec(`INSERT INTO sessions (creation_stamp) VALUES (?)`, stamp); err != nil {
		return fmt.Errorf("failed to set creation stamp: %w", err)
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
