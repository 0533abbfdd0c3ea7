package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

// CreateBoard inserts a board, generating its id and timestamps.
func (s *Store) CreateBoard(b models.Board) (*models.Board, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	now := nowMillis()
	b.CreatedAt, b.UpdatedAt = now, now

	_, err := s.conn.Exec(`
		INSERT INTO boards (id, project_id, parent_board_id, title, position, snapshot, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.ProjectID, b.ParentBoardID, b.Title, b.Position, b.Snapshot, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create board: %w", err)
	}
	return &b, nil
}

// GetBoard returns the board with the given id, including its canvas
// snapshot.
func (s *Store) GetBoard(id string) (*models.Board, error) {
	var b models.Board
	err := s.conn.QueryRow(`
		SELECT id, project_id, parent_board_id, title, position, snapshot, created_at, updated_at
		FROM boards WHERE id = ?
	`, id).Scan(&b.ID, &b.ProjectID, &b.ParentBoardID, &b.Title, &b.Position, &b.Snapshot, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: board %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get board: %w", err)
	}
	return &b, nil
}

// UpdateBoard replaces title, position, and parent of a board.
func (s *Store) UpdateBoard(b models.Board) (*models.Board, error) {
	existing, err := s.GetBoard(b.ID)
	if err != nil {
		return nil, err
	}
	b.ProjectID = existing.ProjectID
	b.Snapshot = existing.Snapshot
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = nowMillis()

	res, err := s.conn.Exec(`
		UPDATE boards SET parent_board_id = ?, title = ?, position = ?, updated_at = ? WHERE id = ?
	`, b.ParentBoardID, b.Title, b.Position, b.UpdatedAt, b.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update board: %w", err)
	}
	if err := one(res, "update board", b.ID); err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBoardSnapshot stores the opaque serialized canvas state.
func (s *Store) SaveBoardSnapshot(id, snapshot string) error {
	res, err := s.conn.Exec(`UPDATE boards SET snapshot = ?, updated_at = ? WHERE id = ?`, snapshot, nowMillis(), id)
	if err != nil {
		return fmt.Errorf("store: save board snapshot: %w", err)
	}
	return one(res, "save snapshot", id)
}

// LoadBoardSnapshot returns the stored canvas state, empty when none was
// saved yet.
func (s *Store) LoadBoardSnapshot(id string) (string, error) {
	var snapshot string
	err := s.conn.QueryRow(`SELECT snapshot FROM boards WHERE id = ?`, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: board %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("store: load board snapshot: %w", err)
	}
	return snapshot, nil
}

// DeleteBoard removes a board.
func (s *Store) DeleteBoard(id string) error {
	res, err := s.conn.Exec(`DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete board: %w", err)
	}
	return one(res, "delete board", id)
}

// ListBoards returns boards ordered by position. An empty projectID lists
// every board.
func (s *Store) ListBoards(projectID string) ([]models.Board, error) {
	query := `
		SELECT id, project_id, parent_board_id, title, position, snapshot, created_at, updated_at
		FROM boards`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY position, created_at`

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list boards: %w", err)
	}
	defer rows.Close()

	var out []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.ParentBoardID, &b.Title, &b.Position, &b.Snapshot, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan board: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
