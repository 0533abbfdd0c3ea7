// Package store is the durable row store for primary entities: projects,
// boards, cards, tags, and journal entries. It owns nothing search-related;
// the index is a derived view fed by snapshot sources from this package.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/tavle/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
	id              TEXT PRIMARY KEY,
	project_id      TEXT NOT NULL,
	parent_board_id TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL DEFAULT '',
	position        INTEGER NOT NULL DEFAULT 0,
	snapshot        TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_boards_project ON boards(project_id);

CREATE TABLE IF NOT EXISTS cards (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT 'tiptap',
	color        TEXT NOT NULL DEFAULT '',
	hidden       INTEGER NOT NULL DEFAULT 0,
	word_count   INTEGER NOT NULL DEFAULT 0,
	tags         TEXT NOT NULL DEFAULT '[]',
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	color      TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS journal (
	id         TEXT PRIMARY KEY,
	day        TEXT NOT NULL UNIQUE,
	body       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Store wraps a sql.DB with entity CRUD operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the entity database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w: %w", apperr.ErrUnavailable, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w: %w", apperr.ErrUnavailable, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func newID() string {
	return uuid.NewString()
}

// one maps an exec result to ErrNotFound when no row was touched.
func one(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %s %s: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s %s: %w", op, id, apperr.ErrNotFound)
	}
	return nil
}
