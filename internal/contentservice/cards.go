package contentservice

import (
	"context"

	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/store"
)

// CreateCard stores a new card and indexes it.
func (s *Service) CreateCard(_ context.Context, c models.Card) (*models.Card, error) {
	created, err := s.store.CreateCard(c)
	if err != nil {
		return nil, err
	}
	snap := store.CardSnapshot(created)
	if err := s.sync("created", models.EntityCard, created.ID, &snap); err != nil {
		return nil, err
	}
	return created, nil
}

// GetCard returns one card.
func (s *Service) GetCard(_ context.Context, id string) (*models.Card, error) {
	return s.store.GetCard(id)
}

// UpdateCard replaces a card's mutable fields and re-indexes it.
func (s *Service) UpdateCard(_ context.Context, c models.Card) (*models.Card, error) {
	updated, err := s.store.UpdateCard(c)
	if err != nil {
		return nil, err
	}
	snap := store.CardSnapshot(updated)
	if err := s.sync("updated", models.EntityCard, updated.ID, &snap); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCard removes a card from the store and the index.
func (s *Service) DeleteCard(_ context.Context, id string) error {
	if err := s.store.DeleteCard(id); err != nil {
		return err
	}
	return s.sync("deleted", models.EntityCard, id, nil)
}

// ListCards returns every card, most recently updated first.
func (s *Service) ListCards(_ context.Context) ([]models.Card, error) {
	return s.store.ListCards()
}
