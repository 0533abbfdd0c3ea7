package index

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/tavle/internal/apperr"
	"github.com/starford/tavle/internal/models"
)

func TestSearchBasic(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(cardRecord("c1", "Search Me", "a uniqueword appears here"))

	results, err := db.Search(Query{Text: "uniqueword"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "c1" {
		t.Fatalf("results = %+v, want 1 hit for c1", results)
	}
	if results[0].Type != models.EntityCard {
		t.Errorf("type = %s", results[0].Type)
	}
}

func TestSearchBooleanAND(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "c1", Content: "alpha beta", UpdatedAt: 1000})
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "c2", Content: "beta gamma", UpdatedAt: 2000})

	results, err := db.Search(Query{Text: "beta"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("query beta: %d results, want 2", len(results))
	}
	// Equal scores: recency tie-break puts the newer card first.
	if results[0].ID != "c2" || results[1].ID != "c1" {
		t.Errorf("order = [%s %s], want [c2 c1]", results[0].ID, results[1].ID)
	}

	results, err = db.Search(Query{Text: "alpha gamma"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("query 'alpha gamma' (AND): %d results, want 0", len(results))
	}
}

func TestSearchCaseAndPunctuation(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(cardRecord("c1", "Notes", "Deadline: FRIDAY, remember!"))

	results, err := db.Search(Query{Text: "friday deadline"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}

func TestSearchMatchesTags(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(cardRecord("c1", "Untitled", "nothing relevant", "projektx"))

	results, err := db.Search(Query{Text: "projektx"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("tag match: %d results, want 1", len(results))
	}
}

func TestSearchTitleOutranksBody(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "title-hit", Title: "kernel panic", Content: "unrelated filler text", UpdatedAt: 1000})
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "body-hit", Title: "unrelated", Content: "mentions kernel panic once", UpdatedAt: 2000})

	results, err := db.Search(Query{Text: "kernel panic"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].ID != "title-hit" {
		t.Errorf("first = %s, want title-hit (title weighting)", results[0].ID)
	}
}

func TestSearchDeterministicOrder(t *testing.T) {
	db := testDB(t)
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = db.Upsert(Record{Type: models.EntityCard, ID: id, Content: "same words here", UpdatedAt: 500})
	}

	first, err := db.Search(Query{Text: "words"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for range 5 {
		again, err := db.Search(Query{Text: "words"})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result count changed between runs")
		}
		for i := range again {
			if again[i].ID != first[i].ID {
				t.Fatalf("ordering not stable at %d: %s vs %s", i, again[i].ID, first[i].ID)
			}
		}
	}
}

func TestSearchTypeFilter(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "c1", Content: "shared term", UpdatedAt: 1})
	_ = db.Upsert(Record{Type: models.EntityBoard, ID: "b1", Title: "shared term", UpdatedAt: 2})
	_ = db.Upsert(Record{Type: models.EntityTag, ID: "t1", Title: "shared", UpdatedAt: 3})

	results, err := db.Search(Query{Text: "shared", Types: []models.EntityType{models.EntityBoard}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "b1" {
		t.Errorf("filtered results = %+v, want only b1", results)
	}

	// Empty filter set means all types.
	results, _ = db.Search(Query{Text: "shared"})
	if len(results) != 3 {
		t.Errorf("unfiltered results = %d, want 3", len(results))
	}
}

func TestSearchDateBoundsInclusive(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "early", Content: "bounded", UpdatedAt: 100})
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "mid", Content: "bounded", UpdatedAt: 200})
	_ = db.Upsert(Record{Type: models.EntityCard, ID: "late", Content: "bounded", UpdatedAt: 300})

	results, err := db.Search(Query{Text: "bounded", From: 100, To: 200})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (boundaries inclusive)", len(results))
	}
	for _, r := range results {
		if r.ID == "late" {
			t.Error("record outside range returned")
		}
	}
}

func TestSearchLimit(t *testing.T) {
	db := testDB(t)
	for i := range 10 {
		_ = db.Upsert(Record{Type: models.EntityCard, ID: string(rune('a' + i)), Content: "limited", UpdatedAt: int64(i)})
	}

	results, err := db.Search(Query{Text: "limited", Limit: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("results = %d, want 3", len(results))
	}
}

func TestSearchEmptyQueryRejected(t *testing.T) {
	db := testDB(t)
	if _, err := db.Search(Query{Text: "  ...  "}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSearchInvalidTypeRejected(t *testing.T) {
	db := testDB(t)
	_, err := db.Search(Query{Text: "x", Types: []models.EntityType{"gizmo"}})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSearchAfterRemove(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(cardRecord("c1", "Gone Soon", "ephemeral content"))
	if _, err := db.Remove(models.EntityCard, "c1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	results, err := db.Search(Query{Text: "ephemeral"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("removed record still returned: %+v", results)
	}
}

func TestSearchSnippetMarksMatches(t *testing.T) {
	db := testDB(t)
	long := strings.Repeat("filler ", 40) + "needle in the middle " + strings.Repeat("more ", 40)
	_ = db.Upsert(cardRecord("c1", "Long", long))

	results, err := db.Search(Query{Text: "needle"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	snip := results[0].Snippet
	if !strings.Contains(snip, "<b>needle</b>") {
		t.Errorf("snippet missing match marks: %q", snip)
	}
	if !strings.HasPrefix(snip, "...") || !strings.HasSuffix(snip, "...") {
		t.Errorf("snippet missing boundary ellipses: %q", snip)
	}
}
