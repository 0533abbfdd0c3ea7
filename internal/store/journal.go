package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

// UpsertJournal creates or replaces the entry for a day. Days are unique,
// so writing the same day twice edits the existing entry in place.
func (s *Store) UpsertJournal(day, body string) (*models.JournalEntry, error) {
	now := nowMillis()
	e := models.JournalEntry{ID: newID(), Day: day, Body: body, CreatedAt: now, UpdatedAt: now}

	_, err := s.conn.Exec(`
		INSERT INTO journal (id, day, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, e.ID, e.Day, e.Body, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: upsert journal: %w", err)
	}
	return s.GetJournal(day)
}

// GetJournal returns the entry for a day.
func (s *Store) GetJournal(day string) (*models.JournalEntry, error) {
	var e models.JournalEntry
	err := s.conn.QueryRow(`
		SELECT id, day, body, created_at, updated_at FROM journal WHERE day = ?
	`, day).Scan(&e.ID, &e.Day, &e.Body, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: journal %s: %w", day, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get journal: %w", err)
	}
	return &e, nil
}

// DeleteJournal removes the entry for a day.
func (s *Store) DeleteJournal(day string) error {
	res, err := s.conn.Exec(`DELETE FROM journal WHERE day = ?`, day)
	if err != nil {
		return fmt.Errorf("store: delete journal: %w", err)
	}
	return one(res, "delete journal", day)
}

// ListJournal returns every entry, newest day first.
func (s *Store) ListJournal() ([]models.JournalEntry, error) {
	rows, err := s.conn.Query(`
		SELECT id, day, body, created_at, updated_at FROM journal ORDER BY day DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list journal: %w", err)
	}
	defer rows.Close()

	var out []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Day, &e.Body, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan journal: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
