package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/tavle/internal/contentservice"
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/testutil"
)

func testServer(t *testing.T) (*Server, *contentservice.Service) {
	t.Helper()

	_, astore := testutil.TestDataRoot(t)
	st := testutil.TestStore(t)
	idx := testutil.TestIndex(t)

	svc := contentservice.NewService(st, idx, slog.Default(), nil)
	return New(svc, astore), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_content":
		result, err = srv.searchContent(ctx, req)
	case "read_card":
		result, err = srv.readCard(ctx, req)
	case "create_card":
		result, err = srv.createCard(ctx, req)
	case "list_projects":
		result, err = srv.listProjects(ctx, req)
	case "write_journal":
		result, err = srv.writeJournal(ctx, req)
	case "upload_asset":
		result, err = srv.uploadAsset(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadCard(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_card", map[string]interface{}{
		"content": `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hello world"}]}]}`,
		"title":   "Greeting",
		"tags":    "demo, test",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_card", map[string]interface{}{"id": id})
	var card models.Card
	if err := json.Unmarshal([]byte(resultText(r)), &card); err != nil {
		t.Fatalf("read result not JSON: %v", err)
	}
	if card.Title != "Greeting" {
		t.Errorf("title = %q", card.Title)
	}
	if card.WordCount != 2 {
		t.Errorf("word_count = %d, want 2", card.WordCount)
	}
	if len(card.Tags) != 2 {
		t.Errorf("tags = %v", card.Tags)
	}
}

func TestReadCardMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_card", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing card")
	}
}

func TestSearchContentTool(t *testing.T) {
	srv, _ := testServer(t)

	callTool(t, srv, "create_card", map[string]interface{}{
		"content": `{"content":[{"text":"migrating the postgres cluster"}]}`,
	})

	r := callTool(t, srv, "search_content", map[string]interface{}{"query": "postgres"})
	if r.IsError {
		t.Fatalf("search error: %s", resultText(r))
	}
	var results []index.SearchResult
	if err := json.Unmarshal([]byte(resultText(r)), &results); err != nil {
		t.Fatalf("search result not JSON: %v", err)
	}
	if len(results) != 1 || results[0].Type != models.EntityCard {
		t.Errorf("results = %+v", results)
	}

	r = callTool(t, srv, "search_content", map[string]interface{}{
		"query": "postgres",
		"types": "journal",
	})
	_ = json.Unmarshal([]byte(resultText(r)), &results)
	if len(results) != 0 {
		t.Errorf("journal-filtered results = %+v", results)
	}
}

func TestListProjectsTool(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "list_projects", map[string]interface{}{})
	if resultText(r) != "no projects" {
		t.Errorf("empty list = %q", resultText(r))
	}

	if _, err := svc.CreateProject(context.Background(), models.Project{Title: "Atlas"}); err != nil {
		t.Fatal(err)
	}
	r = callTool(t, srv, "list_projects", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Atlas") {
		t.Errorf("list = %q", resultText(r))
	}
}

func TestWriteJournalTool(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "write_journal", map[string]interface{}{
		"day":  "2026-08-26",
		"body": "reviewed the release checklist",
	})
	if resultText(r) != "written: 2026-08-26" {
		t.Fatalf("write result = %q", resultText(r))
	}

	entry, err := svc.GetJournal(context.Background(), "2026-08-26")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Body != "reviewed the release checklist" {
		t.Errorf("body = %q", entry.Body)
	}
}

func TestUploadAssetDataURI(t *testing.T) {
	srv, _ := testServer(t)

	svg := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	r := callTool(t, srv, "upload_asset", map[string]interface{}{
		"url":      uri,
		"filename": "diagram.svg",
	})
	if r.IsError {
		t.Fatalf("upload error: %s", resultText(r))
	}
	var res uploadResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("upload result not JSON: %v", err)
	}
	if matched, _ := regexp.MatchString(`^images/\d+_diagram\.svg$`, res.Locator); !matched {
		t.Errorf("locator = %q", res.Locator)
	}
	if !strings.Contains(res.MarkdownImage, res.URL) {
		t.Errorf("markdownImage = %q, url = %q", res.MarkdownImage, res.URL)
	}
}

func TestUploadAssetRejectsBadExtension(t *testing.T) {
	srv, _ := testServer(t)

	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte("<svg/>"))
	r := callTool(t, srv, "upload_asset", map[string]interface{}{
		"url":      uri,
		"filename": "script.sh",
	})
	if !r.IsError {
		t.Error("expected error for disallowed extension")
	}
}
