package store

import (
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/richtext"
)

// CardSnapshot derives the normalized text view of a card. The rich-text
// content blob is flattened before it reaches the index.
func CardSnapshot(c *models.Card) models.EntitySnapshot {
	return models.EntitySnapshot{
		Type:      models.EntityCard,
		ID:        c.ID,
		Title:     c.Title,
		Body:      richtext.Flatten(c.Content),
		Tags:      c.Tags,
		UpdatedAt: c.UpdatedAt,
	}
}

// BoardSnapshot derives the text view of a board. The canvas snapshot blob
// is opaque and stays out of the index.
func BoardSnapshot(b *models.Board) models.EntitySnapshot {
	return models.EntitySnapshot{
		Type:      models.EntityBoard,
		ID:        b.ID,
		Title:     b.Title,
		UpdatedAt: b.UpdatedAt,
	}
}

// ProjectSnapshot derives the text view of a project.
func ProjectSnapshot(p *models.Project) models.EntitySnapshot {
	return models.EntitySnapshot{
		Type:      models.EntityProject,
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Description,
		UpdatedAt: p.UpdatedAt,
	}
}

// TagSnapshot derives the text view of a tag.
func TagSnapshot(t *models.Tag) models.EntitySnapshot {
	return models.EntitySnapshot{
		Type:      models.EntityTag,
		ID:        t.ID,
		Title:     t.Name,
		UpdatedAt: t.UpdatedAt,
	}
}

// JournalSnapshot derives the text view of a journal entry.
func JournalSnapshot(e *models.JournalEntry) models.EntitySnapshot {
	return models.EntitySnapshot{
		Type:      models.EntityJournal,
		ID:        e.ID,
		Title:     e.Day,
		Body:      e.Body,
		UpdatedAt: e.UpdatedAt,
	}
}

// source adapts a full-scan loader to index.SnapshotSource.
type source struct {
	typ  models.EntityType
	load func() ([]models.EntitySnapshot, error)
}

func (s source) Type() models.EntityType                      { return s.typ }
func (s source) Snapshots() ([]models.EntitySnapshot, error) { return s.load() }

// Sources returns one snapshot source per entity type, in a fixed order,
// for full index rebuilds.
func (s *Store) Sources() []index.SnapshotSource {
	return []index.SnapshotSource{
		source{models.EntityCard, func() ([]models.EntitySnapshot, error) {
			cards, err := s.ListCards()
			if err != nil {
				return nil, err
			}
			out := make([]models.EntitySnapshot, len(cards))
			for i := range cards {
				out[i] = CardSnapshot(&cards[i])
			}
			return out, nil
		}},
		source{models.EntityBoard, func() ([]models.EntitySnapshot, error) {
			boards, err := s.ListBoards("")
			if err != nil {
				return nil, err
			}
			out := make([]models.EntitySnapshot, len(boards))
			for i := range boards {
				out[i] = BoardSnapshot(&boards[i])
			}
			return out, nil
		}},
		source{models.EntityProject, func() ([]models.EntitySnapshot, error) {
			projects, err := s.ListProjects()
			if err != nil {
				return nil, err
			}
			out := make([]models.EntitySnapshot, len(projects))
			for i := range projects {
				out[i] = ProjectSnapshot(&projects[i])
			}
			return out, nil
		}},
		source{models.EntityTag, func() ([]models.EntitySnapshot, error) {
			tags, err := s.ListTags()
			if err != nil {
				return nil, err
			}
			out := make([]models.EntitySnapshot, len(tags))
			for i := range tags {
				out[i] = TagSnapshot(&tags[i])
			}
			return out, nil
		}},
		source{models.EntityJournal, func() ([]models.EntitySnapshot, error) {
			entries, err := s.ListJournal()
			if err != nil {
				return nil, err
			}
			out := make([]models.EntitySnapshot, len(entries))
			for i := range entries {
				out[i] = JournalSnapshot(&entries[i])
			}
			return out, nil
		}},
	}
}
