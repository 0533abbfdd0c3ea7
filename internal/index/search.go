package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

// maxResults is the safety ceiling applied when the caller sets no limit.
const maxResults = 200

// Query specifies one search invocation. All fields except Text are
// optional: an empty Types set matches every entity type, From/To values
// <= 0 leave that bound open, and Limit <= 0 falls back to maxResults.
type Query struct {
	Text  string
	Types []models.EntityType
	From  int64 // inclusive lower bound on updated_at, ms epoch
	To    int64 // inclusive upper bound on updated_at, ms epoch
	Limit int
}

// SearchResult is one ranked hit. Rank follows the convention that lower
// values are more relevant.
type SearchResult struct {
	Type      models.EntityType `json:"entity_type"`
	ID        string            `json:"entity_id"`
	Title     string            `json:"title"`
	Snippet   string            `json:"snippet"`
	Rank      float64           `json:"rank"`
	UpdatedAt int64             `json:"updated_at"`
}

// Search matches the query tokens (boolean AND, case-insensitive) against
// title, content, and tags of every record passing the type and date
// filters, ranks matches with the configured scorer, and returns them
// ordered by rank ascending with recency as tie-break. Each call is
// independent; no cursor state is retained.
func (db *DB) Search(q Query) ([]SearchResult, error) {
	terms := Tokenize(q.Text)
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: query text has no searchable tokens", apperr.ErrInvalidInput)
	}
	for _, t := range q.Types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: entity type %q", apperr.ErrInvalidInput, string(t))
		}
	}

	where, args := buildFilter(q)
	rows, err := db.conn.Query(`
		SELECT entity_type, entity_id, title, content, tags, updated_at
		FROM records `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w: %w", apperr.ErrUnavailable, err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var rec Record
		var typ, tags string
		if err := rows.Scan(&typ, &rec.ID, &rec.Title, &rec.Content, &tags, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("index: search scan: %w", err)
		}
		rec.Type = models.EntityType(typ)
		if tags != "" {
			rec.Tags = strings.Fields(tags)
		}
		docs = append(docs, NewDocument(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("index: search rows: %w: %w", apperr.ErrUnavailable, err)
	}

	// Document frequencies over the filtered candidate set keep ranking
	// deterministic for a fixed index state and query.
	stats := CorpusStats{DocCount: len(docs), DocFreq: make(map[string]int, len(terms))}
	for _, d := range docs {
		for _, t := range terms {
			if d.TermFreq(t) > 0 {
				stats.DocFreq[t]++
			}
		}
	}

	var out []SearchResult
	for _, d := range docs {
		if !d.MatchesAll(terms) {
			continue
		}
		out = append(out, SearchResult{
			Type:      d.Record.Type,
			ID:        d.Record.ID,
			Title:     d.Record.Title,
			Snippet:   buildSnippet(d.Record.Content, terms),
			Rank:      -db.scorer.Score(terms, d, stats),
			UpdatedAt: d.Record.UpdatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].ID < out[j].ID
	})

	limit := q.Limit
	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// buildFilter assembles the WHERE clause for the type and date filters.
func buildFilter(q Query) (string, []any) {
	var conds []string
	var args []any

	if len(q.Types) > 0 {
		placeholders := make([]string, len(q.Types))
		for i, t := range q.Types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		conds = append(conds, "entity_type IN ("+strings.Join(placeholders, ", ")+")")
	}
	if q.From > 0 {
		conds = append(conds, "updated_at >= ?")
		args = append(args, q.From)
	}
	if q.To > 0 {
		conds = append(conds, "updated_at <= ?")
		args = append(args, q.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
