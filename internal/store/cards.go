package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/richtext"
)

// CreateCard inserts a card, generating its id and timestamps and deriving
// the word count from the flattened content.
func (s *Store) CreateCard(c models.Card) (*models.Card, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.ContentType == "" {
		c.ContentType = "tiptap"
	}
	now := nowMillis()
	c.CreatedAt, c.UpdatedAt = now, now
	c.WordCount = richtext.WordCount(c.Content)

	tagsJSON, _ := json.Marshal(nonNil(c.Tags))
	_, err := s.conn.Exec(`
		INSERT INTO cards (id, title, content, content_type, color, hidden, word_count, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Title, c.Content, c.ContentType, c.Color, boolInt(c.Hidden), c.WordCount, string(tagsJSON), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create card: %w", err)
	}
	return &c, nil
}

// GetCard returns the card with the given id.
func (s *Store) GetCard(id string) (*models.Card, error) {
	row := s.conn.QueryRow(`
		SELECT id, title, content, content_type, color, hidden, word_count, tags, created_at, updated_at
		FROM cards WHERE id = ?
	`, id)
	return scanCard(row)
}

// UpdateCard replaces the mutable fields of a card and refreshes its word
// count and updated_at.
func (s *Store) UpdateCard(c models.Card) (*models.Card, error) {
	existing, err := s.GetCard(c.ID)
	if err != nil {
		return nil, err
	}
	c.ContentType = existing.ContentType
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = nowMillis()
	c.WordCount = richtext.WordCount(c.Content)

	tagsJSON, _ := json.Marshal(nonNil(c.Tags))
	res, err := s.conn.Exec(`
		UPDATE cards SET title = ?, content = ?, color = ?, hidden = ?, word_count = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, c.Title, c.Content, c.Color, boolInt(c.Hidden), c.WordCount, string(tagsJSON), c.UpdatedAt, c.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update card: %w", err)
	}
	if err := one(res, "update card", c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCard removes a card.
func (s *Store) DeleteCard(id string) error {
	res, err := s.conn.Exec(`DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete card: %w", err)
	}
	return one(res, "delete card", id)
}

// ListCards returns every card, most recently updated first.
func (s *Store) ListCards() ([]models.Card, error) {
	rows, err := s.conn.Query(`
		SELECT id, title, content, content_type, color, hidden, word_count, tags, created_at, updated_at
		FROM cards ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list cards: %w", err)
	}
	defer rows.Close()

	var out []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(r rowScanner) (*models.Card, error) {
	var c models.Card
	var hidden int
	var tagsJSON string
	err := r.Scan(&c.ID, &c.Title, &c.Content, &c.ContentType, &c.Color, &hidden, &c.WordCount, &tagsJSON, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: card: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan card: %w", err)
	}
	c.Hidden = hidden != 0
	_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
	return &c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
