package index

import (
	"fmt"
	"strings"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

// Record is one row of the index: the denormalized, searchable view of a
// single entity. (Type, ID) is the primary key.
type Record struct {
	Type      models.EntityType
	ID        string
	Title     string
	Content   string
	Tags      []string
	UpdatedAt int64 // milliseconds since epoch
}

// Validate rejects records that would corrupt the index keyspace.
func (r *Record) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: entity type %q", apperr.ErrInvalidInput, string(r.Type))
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty entity id", apperr.ErrInvalidInput)
	}
	return nil
}

func (r *Record) joinedTags() string {
	return strings.Join(r.Tags, " ")
}

// Upsert inserts or fully replaces the record keyed by (Type, ID).
// The write is a single statement, so it is atomic and idempotent.
func (db *DB) Upsert(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT INTO records (entity_type, entity_id, title, content, tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
			title      = excluded.title,
			content    = excluded.content,
			tags       = excluded.tags,
			updated_at = excluded.updated_at
	`, string(rec.Type), rec.ID, rec.Title, rec.Content, rec.joinedTags(), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert %s/%s: %w", rec.Type, rec.ID, err)
	}
	return nil
}

// Remove deletes the record if present and reports whether anything was
// removed. Removing a non-existent key is not an error.
func (db *DB) Remove(t models.EntityType, id string) (bool, error) {
	if !t.Valid() {
		return false, fmt.Errorf("%w: entity type %q", apperr.ErrInvalidInput, string(t))
	}
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: empty entity id", apperr.ErrInvalidInput)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.Exec(`DELETE FROM records WHERE entity_type = ? AND entity_id = ?`, string(t), id)
	if err != nil {
		return false, fmt.Errorf("index: remove %s/%s: %w", t, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("index: remove %s/%s: rows affected: %w", t, id, err)
	}
	return n > 0, nil
}

// Get returns the stored record, or apperr.ErrNotFound.
func (db *DB) Get(t models.EntityType, id string) (*Record, error) {
	var rec Record
	var typ, tags string
	err := db.conn.QueryRow(`
		SELECT entity_type, entity_id, title, content, tags, updated_at
		FROM records WHERE entity_type = ? AND entity_id = ?
	`, string(t), id).Scan(&typ, &rec.ID, &rec.Title, &rec.Content, &tags, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("index: get %s/%s: %w", t, id, apperr.ErrNotFound)
	}
	rec.Type = models.EntityType(typ)
	if tags != "" {
		rec.Tags = strings.Fields(tags)
	}
	return &rec, nil
}

// Count returns the number of indexed records.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
