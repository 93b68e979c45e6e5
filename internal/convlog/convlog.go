// Package convlog is a write-only SQLite audit log of conversation turns.
// Rows are never read back into sessions: the session store stays strictly
// in-memory, and this log exists for offline inspection of what the model
// was asked and how its replies resolved.
package convlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Turn is one recorded exchange.
type Turn struct {
	SessionID   string
	UserMessage string
	RawReply    string
	Fidelity    string
	Backend     string
}

// Log appends turns to a SQLite database. A nil *Log discards everything,
// so callers can wire it unconditionally.
type Log struct {
	db *sql.DB
}

// Open creates (or reuses) the database at path and ensures the schema.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTurnsTable := `
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		user_message TEXT,
		raw_reply TEXT,
		fidelity TEXT,
		backend TEXT,
		created_at DATETIME
	);`

	if _, err := db.Exec(createTurnsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create turns table: %w", err)
	}

	return &Log{db: db}, nil
}

// Record inserts one turn.
func (l *Log) Record(ctx context.Context, t Turn) error {
	if l == nil || l.db == nil {
		return nil
	}
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO turns (session_id, user_message, raw_reply, fidelity, backend, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		t.SessionID, t.UserMessage, t.RawReply, t.Fidelity, t.Backend, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
