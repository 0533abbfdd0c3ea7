package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

// CreateProject inserts a project, generating its id and timestamps.
func (s *Store) CreateProject(p models.Project) (*models.Project, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	now := nowMillis()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.conn.Exec(`
		INSERT INTO projects (id, title, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Description, p.Color, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create project: %w", err)
	}
	return &p, nil
}

// GetProject returns the project with the given id.
func (s *Store) GetProject(id string) (*models.Project, error) {
	var p models.Project
	err := s.conn.QueryRow(`
		SELECT id, title, description, color, created_at, updated_at FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Color, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: project %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get project: %w", err)
	}
	return &p, nil
}

// UpdateProject replaces the mutable fields of a project.
func (s *Store) UpdateProject(p models.Project) (*models.Project, error) {
	existing, err := s.GetProject(p.ID)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = nowMillis()

	res, err := s.conn.Exec(`
		UPDATE projects SET title = ?, description = ?, color = ?, updated_at = ? WHERE id = ?
	`, p.Title, p.Description, p.Color, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update project: %w", err)
	}
	if err := one(res, "update project", p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and its boards.
func (s *Store) DeleteProject(id string) error {
	res, err := s.conn.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete project: %w", err)
	}
	if err := one(res, "delete project", id); err != nil {
		return err
	}
	if _, err := s.conn.Exec(`DELETE FROM boards WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("store: delete project boards: %w", err)
	}
	return nil
}

// ListProjects returns every project, most recently updated first.
func (s *Store) ListProjects() ([]models.Project, error) {
	rows, err := s.conn.Query(`
		SELECT id, title, description, color, created_at, updated_at FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Color, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
