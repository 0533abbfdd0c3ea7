package index

import "fmt"

// Rebuild atomically replaces the entire index content with the supplied
// records. All records are validated before any mutation; the replacement
// happens in a single transaction, so concurrent readers observe either the
// previous or the new index, never a partial one. The write mutex makes
// Rebuild exclusive with itself and with incremental writes.
func (db *DB) Rebuild(records []Record) (int, error) {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return 0, fmt.Errorf("index: rebuild record %d: %w", i, err)
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("index: rebuild begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return 0, fmt.Errorf("index: rebuild clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (entity_type, entity_id, title, content, tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
			title      = excluded.title,
			content    = excluded.content,
			tags       = excluded.tags,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, fmt.Errorf("index: rebuild prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(string(rec.Type), rec.ID, rec.Title, rec.Content, rec.joinedTags(), rec.UpdatedAt); err != nil {
			return 0, fmt.Errorf("index: rebuild insert %s/%s: %w", rec.Type, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("index: rebuild commit: %w", err)
	}
	return len(records), nil
}
