package contentservice

import (
	"context"

	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/store"
)

// CreateBoard stores a new board and indexes its title.
func (s *Service) CreateBoard(_ context.Context, b models.Board) (*models.Board, error) {
	created, err := s.store.CreateBoard(b)
	if err != nil {
		return nil, err
	}
	snap := store.BoardSnapshot(created)
	if err := s.sync("created", models.EntityBoard, created.ID, &snap); err != nil {
		return nil, err
	}
	return created, nil
}

// GetBoard returns one board.
func (s *Service) GetBoard(_ context.Context, id string) (*models.Board, error) {
	return s.store.GetBoard(id)
}

// UpdateBoard replaces a board's mutable fields and re-indexes it.
func (s *Service) UpdateBoard(_ context.Context, b models.Board) (*models.Board, error) {
	updated, err := s.store.UpdateBoard(b)
	if err != nil {
		return nil, err
	}
	snap := store.BoardSnapshot(updated)
	if err := s.sync("updated", models.EntityBoard, updated.ID, &snap); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBoard removes a board from the store and the index.
func (s *Service) DeleteBoard(_ context.Context, id string) error {
	if err := s.store.DeleteBoard(id); err != nil {
		return err
	}
	return s.sync("deleted", models.EntityBoard, id, nil)
}

// ListBoards returns the boards of one project ordered by position.
func (s *Service) ListBoards(_ context.Context, projectID string) ([]models.Board, error) {
	return s.store.ListBoards(projectID)
}

// SaveBoardSnapshot persists the opaque canvas state. The canvas blob is
// not indexed, so no sync is needed beyond the notification.
func (s *Service) SaveBoardSnapshot(_ context.Context, id, snapshot string) error {
	if err := s.store.SaveBoardSnapshot(id, snapshot); err != nil {
		return err
	}
	if s.notify != nil {
		s.notify("updated", models.EntityBoard, id)
	}
	return nil
}

// LoadBoardSnapshot returns the stored canvas state.
func (s *Service) LoadBoardSnapshot(_ context.Context, id string) (string, error) {
	return s.store.LoadBoardSnapshot(id)
}
