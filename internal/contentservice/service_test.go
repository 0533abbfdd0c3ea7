package contentservice

import (
	"context"
	"log/slog"
	"testing"

	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/testutil"
)

type event struct {
	kind string
	typ  models.EntityType
	id   string
}

func testService(t *testing.T) (*Service, *[]event) {
	t.Helper()

	st := testutil.TestStore(t)
	idx := testutil.TestIndex(t)

	var events []event
	svc := NewService(st, idx, slog.Default(), func(kind string, typ models.EntityType, id string) {
		events = append(events, event{kind, typ, id})
	})
	return svc, &events
}

func TestCreateCardIndexesContent(t *testing.T) {
	svc, events := testService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, models.Card{
		Title:   "Sprint Plan",
		Content: `{"content":[{"text":"review the quarterly milestones"}]}`,
		Tags:    []string{"planning"},
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	results, err := svc.Search(ctx, index.Query{Text: "milestones"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != card.ID {
		t.Fatalf("results = %+v, want the new card", results)
	}
	if results[0].Type != models.EntityCard {
		t.Errorf("type = %s", results[0].Type)
	}

	if len(*events) != 1 || (*events)[0].kind != "created" {
		t.Errorf("events = %+v", *events)
	}
}

func TestDeleteCardRemovesFromIndex(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	card, _ := svc.CreateCard(ctx, models.Card{Content: "transient payload"})
	if err := svc.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}

	results, err := svc.Search(ctx, index.Query{Text: "transient"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("deleted card still searchable: %+v", results)
	}
}

func TestUpdateCardReindexes(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	card, _ := svc.CreateCard(ctx, models.Card{Content: "before edit"})
	card.Content = "after rewrite"
	if _, err := svc.UpdateCard(ctx, *card); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	if results, _ := svc.Search(ctx, index.Query{Text: "before"}); len(results) != 0 {
		t.Errorf("stale content still indexed")
	}
	if results, _ := svc.Search(ctx, index.Query{Text: "rewrite"}); len(results) != 1 {
		t.Errorf("new content not indexed")
	}
}

func TestRebuildIndexFromStore(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	p, _ := svc.CreateProject(ctx, models.Project{Title: "Atlas", Description: "mapping effort"})
	_, _ = svc.CreateBoard(ctx, models.Board{ProjectID: p.ID, Title: "Atlas Backlog"})
	_, _ = svc.CreateCard(ctx, models.Card{Title: "Atlas Kickoff", Content: "agenda items"})
	_, _ = svc.CreateTag(ctx, models.Tag{Name: "atlas"})
	_, _ = svc.WriteJournal(ctx, "2025-03-03", "atlas work started")

	report, err := svc.RebuildIndex(ctx)
	if err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if report.Total != 5 {
		t.Errorf("total = %d, want 5", report.Total)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("skipped = %v", report.Skipped)
	}

	results, err := svc.Search(ctx, index.Query{Text: "atlas"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("results = %d, want all 5 entities", len(results))
	}
}

func TestProjectDeleteCascadesIndex(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	p, _ := svc.CreateProject(ctx, models.Project{Title: "Vanishing"})
	_, _ = svc.CreateBoard(ctx, models.Board{ProjectID: p.ID, Title: "Vanishing Board"})

	if err := svc.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	results, _ := svc.Search(ctx, index.Query{Text: "vanishing"})
	if len(results) != 0 {
		t.Errorf("project or board still indexed after cascade: %+v", results)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.WriteJournal(ctx, "2025-03-04", "wrote some notes"); err != nil {
		t.Fatalf("WriteJournal: %v", err)
	}
	if err := svc.DeleteJournal(ctx, "2025-03-04"); err != nil {
		t.Fatalf("DeleteJournal: %v", err)
	}
	if results, _ := svc.Search(ctx, index.Query{Text: "wrote"}); len(results) != 0 {
		t.Errorf("deleted journal entry still indexed")
	}
}
