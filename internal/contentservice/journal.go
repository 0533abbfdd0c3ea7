package contentservice

import (
	"context"

	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/store"
)

// WriteJournal creates or replaces the journal entry for a day and indexes
// it.
func (s *Service) WriteJournal(_ context.Context, day, body string) (*models.JournalEntry, error) {
	entry, err := s.store.UpsertJournal(day, body)
	if err != nil {
		return nil, err
	}
	snap := store.JournalSnapshot(entry)
	if err := s.sync("updated", models.EntityJournal, entry.ID, &snap); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetJournal returns the entry for a day.
func (s *Service) GetJournal(_ context.Context, day string) (*models.JournalEntry, error) {
	return s.store.GetJournal(day)
}

// DeleteJournal removes the entry for a day from the store and the index.
func (s *Service) DeleteJournal(_ context.Context, day string) error {
	entry, err := s.store.GetJournal(day)
	if err != nil {
		return err
	}
	if err := s.store.DeleteJournal(day); err != nil {
		return err
	}
	return s.sync("deleted", models.EntityJournal, entry.ID, nil)
}

// ListJournal returns every entry, newest day first.
func (s *Service) ListJournal(_ context.Context) ([]models.JournalEntry, error) {
	return s.store.ListJournal()
}
