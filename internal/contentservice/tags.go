package contentservice

import (
	"context"

	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/store"
)

// CreateTag stores a new tag and indexes its name.
func (s *Service) CreateTag(_ context.Context, t models.Tag) (*models.Tag, error) {
	created, err := s.store.CreateTag(t)
	if err != nil {
		return nil, err
	}
	snap := store.TagSnapshot(created)
	if err := s.sync("created", models.EntityTag, created.ID, &snap); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTag replaces a tag's mutable fields and re-indexes it.
func (s *Service) UpdateTag(_ context.Context, t models.Tag) (*models.Tag, error) {
	updated, err := s.store.UpdateTag(t)
	if err != nil {
		return nil, err
	}
	snap := store.TagSnapshot(updated)
	if err := s.sync("updated", models.EntityTag, updated.ID, &snap); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTag removes a tag from the store and the index.
func (s *Service) DeleteTag(_ context.Context, id string) error {
	if err := s.store.DeleteTag(id); err != nil {
		return err
	}
	return s.sync("deleted", models.EntityTag, id, nil)
}

// ListTags returns every tag ordered by position.
func (s *Service) ListTags(_ context.Context) ([]models.Tag, error) {
	return s.store.ListTags()
}
