package contentservice

import (
	"context"

	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/store"
)

// CreateProject stores a new project and indexes it.
func (s *Service) CreateProject(_ context.Context, p models.Project) (*models.Project, error) {
	created, err := s.store.CreateProject(p)
	if err != nil {
		return nil, err
	}
	snap := store.ProjectSnapshot(created)
	if err := s.sync("created", models.EntityProject, created.ID, &snap); err != nil {
		return nil, err
	}
	return created, nil
}

// GetProject returns one project.
func (s *Service) GetProject(_ context.Context, id string) (*models.Project, error) {
	return s.store.GetProject(id)
}

// UpdateProject replaces a project's mutable fields and re-indexes it.
func (s *Service) UpdateProject(_ context.Context, p models.Project) (*models.Project, error) {
	updated, err := s.store.UpdateProject(p)
	if err != nil {
		return nil, err
	}
	snap := store.ProjectSnapshot(updated)
	if err := s.sync("updated", models.EntityProject, updated.ID, &snap); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes a project, its boards, and their index records.
func (s *Service) DeleteProject(_ context.Context, id string) error {
	boards, err := s.store.ListBoards(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProject(id); err != nil {
		return err
	}
	for _, b := range boards {
		if err := s.sync("deleted", models.EntityBoard, b.ID, nil); err != nil {
			return err
		}
	}
	return s.sync("deleted", models.EntityProject, id, nil)
}

// ListProjects returns every project, most recently updated first.
func (s *Service) ListProjects(_ context.Context) ([]models.Project, error) {
	return s.store.ListProjects()
}
