package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

// CreateTag inserts a tag, generating its id and timestamps. Tag names are
// unique; a duplicate insert reports ErrAlreadyExists.
func (s *Store) CreateTag(t models.Tag) (*models.Tag, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	now := nowMillis()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := s.conn.Exec(`
		INSERT INTO tags (id, name, color, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Color, t.Position, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("store: tag %q: %w", t.Name, apperr.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("store: create tag: %w", err)
	}
	return &t, nil
}

// GetTag returns the tag with the given id.
func (s *Store) GetTag(id string) (*models.Tag, error) {
	var t models.Tag
	err := s.conn.QueryRow(`
		SELECT id, name, color, position, created_at, updated_at FROM tags WHERE id = ?
	`, id).Scan(&t.ID, &t.Name, &t.Color, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: tag %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get tag: %w", err)
	}
	return &t, nil
}

// UpdateTag replaces name, color, and position of a tag.
func (s *Store) UpdateTag(t models.Tag) (*models.Tag, error) {
	existing, err := s.GetTag(t.ID)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = nowMillis()

	res, err := s.conn.Exec(`
		UPDATE tags SET name = ?, color = ?, position = ?, updated_at = ? WHERE id = ?
	`, t.Name, t.Color, t.Position, t.UpdatedAt, t.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update tag: %w", err)
	}
	if err := one(res, "update tag", t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTag removes a tag.
func (s *Store) DeleteTag(id string) error {
	res, err := s.conn.Exec(`DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete tag: %w", err)
	}
	return one(res, "delete tag", id)
}

// ListTags returns every tag ordered by position.
func (s *Store) ListTags() ([]models.Tag, error) {
	rows, err := s.conn.Query(`
		SELECT id, name, color, position, created_at, updated_at FROM tags ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list tags: %w", err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
