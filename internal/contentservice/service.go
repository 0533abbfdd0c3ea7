// Package contentservice coordinates the entity store, the indexing
// coordinator, and change notifications for the API and MCP layers.
package contentservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/store"
)

// EventCallback is invoked after every successful entity mutation.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, t models.EntityType, id string)

// Service is the write path for primary entities. Every mutation lands in
// the store first, then flows to the index through the coordinator, which
// is the index's sole writer.
type Service struct {
	store  *store.Store
	idx    index.EntityIndex
	coord  *index.Coordinator
	logger *slog.Logger
	notify EventCallback
}

// NewService creates a content service. cb may be nil.
func NewService(st *store.Store, idx index.EntityIndex, logger *slog.Logger, cb EventCallback) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		idx:    idx,
		coord:  index.NewCoordinator(idx, logger),
		logger: logger,
		notify: cb,
	}
}

// Search runs a ranked full-text query against the index.
func (s *Service) Search(_ context.Context, q index.Query) ([]index.SearchResult, error) {
	return s.idx.Search(q)
}

// RebuildIndex drains every entity type from the store and atomically
// replaces the index content.
func (s *Service) RebuildIndex(_ context.Context) (*index.RebuildReport, error) {
	return s.coord.RebuildAll(s.store.Sources())
}

// sync pushes one entity change into the index. Per-entity sync failures
// degrade to a warning so a flaky index write cannot block CRUD, but index
// unavailability is fatal to the operation.
func (s *Service) sync(kind string, t models.EntityType, id string, snap *models.EntitySnapshot) error {
	if err := s.coord.OnEntityChanged(t, id, snap); err != nil {
		if errors.Is(err, apperr.ErrUnavailable) {
			return err
		}
		s.logger.Warn("index sync failed",
			slog.String("type", string(t)),
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
	if s.notify != nil {
		s.notify(kind, t, id)
	}
	return nil
}
