package storage

const schema = `
-- The 'decks' table names each collection of cards.
CREATE TABLE IF NOT EXISTS decks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    creation_time DATETIME NOT NULL
);

-- The 'cards' table stores each flashcard together with its scheduling
-- fields. 'interval' is seconds while learning and days in review; 'due' is
-- an insertion position for new cards and a day index for review cards.
CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_id INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    creation_time DATETIME NOT NULL,
    last_studied_time DATETIME,
    ease_factor REAL NOT NULL DEFAULT 2.5,
    interval INTEGER NOT NULL DEFAULT 0,
    due INTEGER NOT NULL DEFAULT 0,
    queue INTEGER NOT NULL DEFAULT 0, -- 0: New, 1: Learning, 2: Review
    fingerprint TEXT,
    data TEXT NOT NULL DEFAULT '{}',

    FOREIGN KEY(deck_id) REFERENCES decks(id)
);

-- The 'sources' table tracks where imported cards come from, either a local
-- directory or a git repository, and the deck each source feeds.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    deck_id INTEGER NOT NULL,
    last_scanned DATETIME,

    FOREIGN KEY(deck_id) REFERENCES decks(id)
);

-- The 'sessions' table records when the collection was first created.
CREATE TABLE IF NOT EXISTS sessions (
    creation_stamp INTEGER NOT NULL
);
`
