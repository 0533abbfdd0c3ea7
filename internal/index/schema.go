// Package index provides the SQLite-backed full-text search index over
// Tavle entities, with Go-side ranking and snippet generation.
package index

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/tavle/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	entity_type TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '',
	updated_at  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (entity_type, entity_id)
);

CREATE INDEX IF NOT EXISTS idx_records_updated ON records(updated_at);
`

// DB wraps a sql.DB with index-specific operations.
//
// Writes (Upsert, Remove, Rebuild) serialize on mu; Rebuild is therefore
// exclusive with itself and with incremental writes. Reads go straight to
// SQLite, whose WAL mode gives each query a consistent snapshot, so a query
// running concurrently with a rebuild observes either the old or the new
// index content, never a mixture.
type DB struct {
	conn   *sql.DB
	mu     sync.Mutex
	scorer Scorer
}

// Open opens (or creates) the index database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w: %w", apperr.ErrUnavailable, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w: %w", apperr.ErrUnavailable, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn, scorer: TFIDFScorer{}}, nil
}

// SetScorer replaces the ranking function. Intended for tuning and tests;
// call before the index is shared across goroutines.
func (db *DB) SetScorer(s Scorer) {
	if s != nil {
		db.scorer = s
	}
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
