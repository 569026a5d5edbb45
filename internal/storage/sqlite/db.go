package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open connects to the SQLite file at path and applies connection pragmas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; also keeps ":memory:" on a single shared connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}
	return db, nil
}

// Migrate creates the flavor tables if they do not exist.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS flavors (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS flavor_sentiment (
			flavor_id       INTEGER PRIMARY KEY REFERENCES flavors(id) ON DELETE CASCADE,
			sentiment_score REAL NOT NULL DEFAULT 0,
			sentiment_label TEXT NOT NULL DEFAULT 'Neutral',
			summary         TEXT,
			comment_count   INTEGER NOT NULL DEFAULT 0,
			avg_rating      REAL NOT NULL DEFAULT 0,
			last_updated    TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS flavor_comments (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			flavor_id    INTEGER NOT NULL REFERENCES flavors(id) ON DELETE CASCADE,
			comment_text TEXT NOT NULL,
			review_title TEXT,
			rating       REAL,
			review_date  TEXT,
			is_notable   INTEGER NOT NULL DEFAULT 1,
			created_at   TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_flavor_comments_flavor ON flavor_comments(flavor_id, id)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}
