package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/starford/tavle/internal/contentservice"
	"github.com/starford/tavle/internal/models"
	"github.com/starford/tavle/internal/testutil"
)

// testEnv sets up a temp data root, SQLite databases, service, and router.
// An empty authToken disables auth.
func testEnv(t *testing.T, authToken string) (*contentservice.Service, http.Handler) {
	t.Helper()

	_, astore := testutil.TestDataRoot(t)
	st := testutil.TestStore(t)
	idx := testutil.TestIndex(t)

	svc := contentservice.NewService(st, idx, slog.Default(), nil)
	router := NewRouter(svc, astore, authToken != "", authToken, nil)
	return svc, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetCard(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/cards", map[string]any{
		"title":   "Reading list",
		"content": `{"content":[{"text":"one two three"}]}`,
		"tags":    []string{"books"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Card
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" {
		t.Fatal("created card has no id")
	}
	if created.WordCount != 3 {
		t.Errorf("word_count = %d, want 3", created.WordCount)
	}

	w = doJSON(t, router, http.MethodGet, "/cards/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got models.Card
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "Reading list" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestCreateCardWithoutContent(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/cards", map[string]any{"title": "empty"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without content = %d, want 400", w.Code)
	}
}

func TestGetMissingCard(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/cards/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get missing card = %d, want 404", w.Code)
	}
}

func TestDeleteProjectCascadesBoards(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/projects", map[string]any{"title": "Thesis"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project = %d", w.Code)
	}
	var project models.Project
	_ = json.Unmarshal(w.Body.Bytes(), &project)

	w = doJSON(t, router, http.MethodPost, "/boards", map[string]any{
		"project_id": project.ID,
		"title":      "Outline",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create board = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/projects/"+project.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete project = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/boards?project="+project.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list boards = %d", w.Code)
	}
	var boards []models.Board
	_ = json.Unmarshal(w.Body.Bytes(), &boards)
	if len(boards) != 0 {
		t.Errorf("boards after project delete = %d, want 0", len(boards))
	}
}

func TestBoardSnapshotRoundTrip(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/projects", map[string]any{"title": "P"})
	var project models.Project
	_ = json.Unmarshal(w.Body.Bytes(), &project)

	w = doJSON(t, router, http.MethodPost, "/boards", map[string]any{
		"project_id": project.ID,
		"title":      "Canvas",
	})
	var board models.Board
	_ = json.Unmarshal(w.Body.Bytes(), &board)

	snapshot := `{"shapes":[{"id":"shape:1","x":10}]}`
	w = doJSON(t, router, http.MethodPut, "/boards/"+board.ID+"/snapshot", map[string]any{"snapshot": snapshot})
	if w.Code != http.StatusNoContent {
		t.Fatalf("save snapshot = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/boards/"+board.ID+"/snapshot", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load snapshot = %d", w.Code)
	}
	var resp struct {
		Snapshot string `json:"snapshot"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Snapshot != snapshot {
		t.Errorf("snapshot = %q, want %q", resp.Snapshot, snapshot)
	}
}

func TestJournalDayValidation(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPut, "/journal/not-a-day", map[string]any{"body": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad day = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/journal/2026-08-26", map[string]any{"body": "shipped the demo"})
	if w.Code != http.StatusOK {
		t.Fatalf("write journal = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/journal/2026-08-26", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get journal = %d", w.Code)
	}
	var entry models.JournalEntry
	_ = json.Unmarshal(w.Body.Bytes(), &entry)
	if entry.Body != "shipped the demo" {
		t.Errorf("body = %q", entry.Body)
	}
}

func TestDuplicateTagConflicts(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tags", map[string]any{"name": "urgent"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first tag = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/tags", map[string]any{"name": "urgent"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate tag = %d, want 409", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/cards", map[string]any{
		"title":   "Kubernetes notes",
		"content": `{"content":[{"text":"cluster upgrade checklist"}]}`,
	})
	doJSON(t, router, http.MethodPost, "/projects", map[string]any{
		"title":       "Kubernetes migration",
		"description": "move everything",
	})

	w := doJSON(t, router, http.MethodGet, "/search?q=kubernetes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}

	w = doJSON(t, router, http.MethodGet, "/search?q=kubernetes&types=card", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Results[0].Type != models.EntityCard {
		t.Errorf("type-filtered search: total = %d, results = %+v", resp.Total, resp.Results)
	}

	w = doJSON(t, router, http.MethodGet, "/search?q=kubernetes&types=wiki", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown type = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", w.Code)
	}
}

func TestRebuildEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	doJSON(t, router, http.MethodPost, "/cards", map[string]any{"content": `{"content":[{"text":"alpha"}]}`})
	doJSON(t, router, http.MethodPost, "/tags", map[string]any{"name": "beta"})

	w := doJSON(t, router, http.MethodPost, "/index/rebuild", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("rebuild = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RebuildResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "secret-token")

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAssetUploadServeDelete(t *testing.T) {
	_, router := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("asset payload")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var up AssetUploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &up)
	if matched, _ := regexp.MatchString(`^other/\d+_notes\.txt$`, up.Locator); !matched {
		t.Fatalf("locator = %q", up.Locator)
	}
	if up.Size != int64(len("asset payload")) {
		t.Errorf("size = %d", up.Size)
	}
	if up.Checksum == "" {
		t.Error("checksum is empty")
	}

	w = doJSON(t, router, http.MethodGet, "/assets/"+up.Locator, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("serve = %d", w.Code)
	}
	if w.Body.String() != "asset payload" {
		t.Errorf("served body = %q", w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/assets/"+up.Locator, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/assets/"+up.Locator, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("re-delete = %d, want 404", w.Code)
	}
}

func TestAssetImportFromPath(t *testing.T) {
	_, router := testEnv(t, "")

	src := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(src, []byte("%PDF-1.7 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodPost, "/assets/import", map[string]any{
		"path":      src,
		"file_type": "pdf",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("import = %d, body = %s", w.Code, w.Body.String())
	}
	var up AssetUploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &up)
	if matched, _ := regexp.MatchString(`^pdfs/\d+_report\.pdf$`, up.Locator); !matched {
		t.Errorf("locator = %q", up.Locator)
	}

	// The source file must be untouched.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source removed: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/assets/import", map[string]any{
		"path": filepath.Join(t.TempDir(), "missing.pdf"),
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("import missing = %d, want 404", w.Code)
	}
}
