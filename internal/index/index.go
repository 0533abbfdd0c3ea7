package index

import "github.com/starford/tavle/internal/models"

// EntityIndex defines the interface for entity indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type EntityIndex interface {
	Upsert(rec Record) error
	Remove(t models.EntityType, id string) (bool, error)
	Get(t models.EntityType, id string) (*Record, error)
	Search(q Query) ([]SearchResult, error)
	Rebuild(records []Record) (int, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies EntityIndex at compile time.
var _ EntityIndex = (*DB)(nil)
