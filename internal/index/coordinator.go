package index

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/tavle/internal/models"
)

// Coordinator keeps the index synchronized with primary entity mutations.
// It is the sole writer: incremental changes flow through OnEntityChanged
// and full rebuilds through RebuildAll, nothing else touches the index.
type Coordinator struct {
	idx    EntityIndex
	logger *slog.Logger
}

// NewCoordinator creates a coordinator writing to idx.
func NewCoordinator(idx EntityIndex, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{idx: idx, logger: logger}
}

// SnapshotSource supplies the current snapshot of every live entity of one
// type. RebuildAll drains one source per entity type.
type SnapshotSource interface {
	Type() models.EntityType
	Snapshots() ([]models.EntitySnapshot, error)
}

// RebuildReport summarizes a full rebuild: per-type record counts and the
// non-fatal failures that were skipped along the way.
type RebuildReport struct {
	Counts  map[models.EntityType]int `json:"counts"`
	Skipped []string                  `json:"skipped,omitempty"`
	Total   int                       `json:"total"`
}

// OnEntityChanged synchronizes one entity with the index: a present
// snapshot is derived and upserted, an absent one (entity deleted) removes
// the index record.
func (c *Coordinator) OnEntityChanged(t models.EntityType, id string, snap *models.EntitySnapshot) error {
	if snap == nil {
		if _, err := c.idx.Remove(t, id); err != nil {
			return fmt.Errorf("coordinator: remove %s/%s: %w", t, id, err)
		}
		c.logger.Debug("coordinator: removed", slog.String("type", string(t)), slog.String("id", id))
		return nil
	}

	rec, err := deriveRecord(*snap)
	if err != nil {
		return fmt.Errorf("coordinator: derive %s/%s: %w", t, id, err)
	}
	if err := c.idx.Upsert(rec); err != nil {
		return fmt.Errorf("coordinator: upsert %s/%s: %w", t, id, err)
	}
	c.logger.Debug("coordinator: indexed", slog.String("type", string(t)), slog.String("id", id))
	return nil
}

// RebuildAll drains each source, derives index records, and atomically
// replaces the index content. A snapshot that fails derivation, or a source
// that cannot be drained, is recorded in the report and skipped rather than
// aborting the rebuild; only a failure of the index itself is fatal.
func (c *Coordinator) RebuildAll(sources []SnapshotSource) (*RebuildReport, error) {
	report := &RebuildReport{Counts: make(map[models.EntityType]int)}
	var records []Record

	for _, src := range sources {
		snaps, err := src.Snapshots()
		if err != nil {
			msg := fmt.Sprintf("%s: drain failed: %v", src.Type(), err)
			c.logger.Warn("rebuild: source skipped", slog.String("type", string(src.Type())), slog.String("error", err.Error()))
			report.Skipped = append(report.Skipped, msg)
			continue
		}
		for _, snap := range snaps {
			rec, err := deriveRecord(snap)
			if err != nil {
				msg := fmt.Sprintf("%s/%s: %v", snap.Type, snap.ID, err)
				c.logger.Warn("rebuild: record skipped", slog.String("record", msg))
				report.Skipped = append(report.Skipped, msg)
				continue
			}
			records = append(records, rec)
			report.Counts[rec.Type]++
		}
	}

	n, err := c.idx.Rebuild(records)
	if err != nil {
		return nil, fmt.Errorf("coordinator: rebuild: %w", err)
	}
	report.Total = n

	c.logger.Info("rebuild: complete",
		slog.Int("records", n),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}

// deriveRecord normalizes an entity snapshot into an index record. The
// record carries the write time when the snapshot has none.
func deriveRecord(snap models.EntitySnapshot) (Record, error) {
	rec := Record{
		Type:      snap.Type,
		ID:        snap.ID,
		Title:     snap.Title,
		Content:   snap.Body,
		Tags:      snap.Tags,
		UpdatedAt: snap.UpdatedAt,
	}
	if rec.UpdatedAt <= 0 {
		rec.UpdatedAt = time.Now().UnixMilli()
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
