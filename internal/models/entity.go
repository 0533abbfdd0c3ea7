// Package models defines the domain types for Tavle.
package models

import (
	"fmt"
	"strings"

	"github.com/starford/tavle/internal/apperr"
)

// EntityType identifies one of the indexable entity kinds. The set is
// closed: anything outside the constants below is rejected at parse time.
type EntityType string

const (
	EntityCard    EntityType = "card"
	EntityBoard   EntityType = "board"
	EntityProject EntityType = "project"
	EntityTag     EntityType = "tag"
	EntityJournal EntityType = "journal"
)

// AllEntityTypes lists every valid entity type in a fixed order.
var AllEntityTypes = []EntityType{
	EntityCard, EntityBoard, EntityProject, EntityTag, EntityJournal,
}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityCard, EntityBoard, EntityProject, EntityTag, EntityJournal:
		return true
	}
	return false
}

// ParseEntityType converts a raw string into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown entity type %q", apperr.ErrInvalidInput, s)
	}
	return t, nil
}

// EntitySnapshot is the normalized text view of one entity, the sole input
// the indexing layer sees. Producers flatten their own representation
// (rich-text blobs, tag lists) into Title/Body/Tags before handing it over.
type EntitySnapshot struct {
	Type      EntityType
	ID        string
	Title     string
	Body      string
	Tags      []string
	UpdatedAt int64 // milliseconds since epoch
}
