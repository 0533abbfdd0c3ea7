package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tavle/internal/contentservice"
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/models"
)

// maxBodySize caps JSON request bodies. Canvas snapshots can get large,
// so this is deliberately generous.
const maxBodySize = 20 << 20

// Handler holds API route handlers for content entities and search.
type Handler struct {
	svc *contentservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *contentservice.Service) *Handler {
	return &Handler{svc: svc}
}

// validator is implemented by request DTOs that carry field constraints.
type validator interface {
	Validate() error
}

// decodeBody decodes and validates a JSON request body. On failure it has
// already written the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst validator) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := dst.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// Projects.

// ListProjects handles GET /api/projects.
//
//	@Summary		List all projects
//	@Tags			projects
//	@Produce		json
//	@Success		200	{array}	models.Project
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		slog.Error("list projects failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// CreateProject handles POST /api/projects.
//
//	@Summary		Create a new project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateProjectRequest	true	"Project to create"
//	@Success		201		{object}	models.Project
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	project, err := h.svc.CreateProject(r.Context(), models.Project{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		slog.Error("create project failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// GetProject handles GET /api/projects/{id}.
//
//	@Summary		Get a single project
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	models.Project
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.svc.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// UpdateProject handles PUT /api/projects/{id}.
//
//	@Summary		Update a project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Project ID"
//	@Param			body	body		UpdateProjectRequest	true	"Updated fields"
//	@Success		200		{object}	models.Project
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [put]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	project, err := h.svc.UpdateProject(r.Context(), models.Project{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/{id}. Boards belonging to
// the project are deleted with it.
//
//	@Summary		Delete a project and its boards
//	@Tags			projects
//	@Param			id	path	string	true	"Project ID"
//	@Success		204	"Project deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [delete]
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Boards.

// ListBoards handles GET /api/boards. An optional project query parameter
// restricts the listing to one project.
//
//	@Summary		List boards, optionally filtered by project
//	@Tags			boards
//	@Produce		json
//	@Param			project	query	string	false	"Project ID"
//	@Success		200		{array}	models.Board
//	@Security		BearerAuth
//	@Router			/boards [get]
func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.svc.ListBoards(r.Context(), r.URL.Query().Get("project"))
	if err != nil {
		slog.Error("list boards failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// CreateBoard handles POST /api/boards.
//
//	@Summary		Create a new board
//	@Tags			boards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateBoardRequest	true	"Board to create"
//	@Success		201		{object}	models.Board
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards [post]
func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req CreateBoardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	board, err := h.svc.CreateBoard(r.Context(), models.Board{
		ProjectID:     req.ProjectID,
		ParentBoardID: req.ParentBoardID,
		Title:         req.Title,
		Position:      req.Position,
	})
	if err != nil {
		slog.Error("create board failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// GetBoard handles GET /api/boards/{id}.
//
//	@Summary		Get a single board
//	@Tags			boards
//	@Produce		json
//	@Param			id	path		string	true	"Board ID"
//	@Success		200	{object}	models.Board
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{id} [get]
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.GetBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// UpdateBoard handles PUT /api/boards/{id}.
//
//	@Summary		Update a board's title, parent, and position
//	@Tags			boards
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Board ID"
//	@Param			body	body		UpdateBoardRequest	true	"Updated fields"
//	@Success		200		{object}	models.Board
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{id} [put]
func (h *Handler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	var req UpdateBoardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	board, err := h.svc.UpdateBoard(r.Context(), models.Board{
		ID:            chi.URLParam(r, "id"),
		ParentBoardID: req.ParentBoardID,
		Title:         req.Title,
		Position:      req.Position,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// DeleteBoard handles DELETE /api/boards/{id}.
//
//	@Summary		Delete a board
//	@Tags			boards
//	@Param			id	path	string	true	"Board ID"
//	@Success		204	"Board deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{id} [delete]
func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBoard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBoardSnapshot handles GET /api/boards/{id}/snapshot.
//
//	@Summary		Load the opaque canvas snapshot of a board
//	@Tags			boards
//	@Produce		json
//	@Param			id	path		string	true	"Board ID"
//	@Success		200	{object}	BoardSnapshotRequest
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{id}/snapshot [get]
func (h *Handler) GetBoardSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.LoadBoardSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": snapshot})
}

// SaveBoardSnapshot handles PUT /api/boards/{id}/snapshot.
//
//	@Summary		Save the opaque canvas snapshot of a board
//	@Tags			boards
//	@Accept			json
//	@Param			id		path	string					true	"Board ID"
//	@Param			body	body	BoardSnapshotRequest	true	"Serialized canvas state"
//	@Success		204		"Snapshot saved"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/{id}/snapshot [put]
func (h *Handler) SaveBoardSnapshot(w http.ResponseWriter, r *http.Request) {
	var req BoardSnapshotRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SaveBoardSnapshot(r.Context(), chi.URLParam(r, "id"), req.Snapshot); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cards.

// ListCards handles GET /api/cards.
//
//	@Summary		List all cards, most recently updated first
//	@Tags			cards
//	@Produce		json
//	@Success		200	{array}	models.Card
//	@Security		BearerAuth
//	@Router			/cards [get]
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.ListCards(r.Context())
	if err != nil {
		slog.Error("list cards failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// CreateCard handles POST /api/cards.
//
//	@Summary		Create a new card
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCardRequest	true	"Card to create"
//	@Success		201		{object}	models.Card
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [post]
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := h.svc.CreateCard(r.Context(), models.Card{
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
		Hidden:  req.Hidden,
		Tags:    req.Tags,
	})
	if err != nil {
		slog.Error("create card failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// GetCard handles GET /api/cards/{id}.
//
//	@Summary		Get a single card
//	@Tags			cards
//	@Produce		json
//	@Param			id	path		string	true	"Card ID"
//	@Success		200	{object}	models.Card
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id} [get]
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// UpdateCard handles PUT /api/cards/{id}.
//
//	@Summary		Update a card
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Card ID"
//	@Param			body	body		UpdateCardRequest	true	"Updated fields"
//	@Success		200		{object}	models.Card
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id} [put]
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req UpdateCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := h.svc.UpdateCard(r.Context(), models.Card{
		ID:      chi.URLParam(r, "id"),
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
		Hidden:  req.Hidden,
		Tags:    req.Tags,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// DeleteCard handles DELETE /api/cards/{id}.
//
//	@Summary		Delete a card
//	@Tags			cards
//	@Param			id	path	string	true	"Card ID"
//	@Success		204	"Card deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/{id} [delete]
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tags.

// ListTags handles GET /api/tags.
//
//	@Summary		List all tags ordered by position
//	@Tags			tags
//	@Produce		json
//	@Success		200	{array}	models.Tag
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		slog.Error("list tags failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag handles POST /api/tags.
//
//	@Summary		Create a new tag
//	@Tags			tags
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TagRequest	true	"Tag to create"
//	@Success		201		{object}	models.Tag
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags [post]
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tag, err := h.svc.CreateTag(r.Context(), models.Tag{
		Name:     req.Name,
		Color:    req.Color,
		Position: req.Position,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// UpdateTag handles PUT /api/tags/{id}.
//
//	@Summary		Update a tag
//	@Tags			tags
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Tag ID"
//	@Param			body	body		TagRequest	true	"Updated fields"
//	@Success		200		{object}	models.Tag
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/{id} [put]
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tag, err := h.svc.UpdateTag(r.Context(), models.Tag{
		ID:       chi.URLParam(r, "id"),
		Name:     req.Name,
		Color:    req.Color,
		Position: req.Position,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/tags/{id}.
//
//	@Summary		Delete a tag
//	@Tags			tags
//	@Param			id	path	string	true	"Tag ID"
//	@Success		204	"Tag deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/{id} [delete]
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Journal.

// ListJournal handles GET /api/journal.
//
//	@Summary		List journal entries, most recent day first
//	@Tags			journal
//	@Produce		json
//	@Success		200	{array}	models.JournalEntry
//	@Security		BearerAuth
//	@Router			/journal [get]
func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListJournal(r.Context())
	if err != nil {
		slog.Error("list journal failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// journalDay extracts and validates the day URL parameter.
func journalDay(r *http.Request) (string, error) {
	day := chi.URLParam(r, "day")
	return day, validation.Validate(day, validation.Required, validation.Date("2006-01-02"))
}

// GetJournal handles GET /api/journal/{day}.
//
//	@Summary		Get the journal entry for a day
//	@Tags			journal
//	@Produce		json
//	@Param			day	path		string	true	"Day (YYYY-MM-DD)"
//	@Success		200	{object}	models.JournalEntry
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/{day} [get]
func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	day, err := journalDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("day must be YYYY-MM-DD"))
		return
	}
	entry, err := h.svc.GetJournal(r.Context(), day)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// WriteJournal handles PUT /api/journal/{day}. Creates the entry if the
// day has none yet, otherwise replaces its body.
//
//	@Summary		Write the journal entry for a day
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			day		path		string			true	"Day (YYYY-MM-DD)"
//	@Param			body	body		JournalRequest	true	"Entry body"
//	@Success		200		{object}	models.JournalEntry
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/{day} [put]
func (h *Handler) WriteJournal(w http.ResponseWriter, r *http.Request) {
	day, err := journalDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("day must be YYYY-MM-DD"))
		return
	}
	var req JournalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.svc.WriteJournal(r.Context(), day, req.Body)
	if err != nil {
		slog.Error("write journal failed", slog.String("day", day), slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteJournal handles DELETE /api/journal/{day}.
//
//	@Summary		Delete the journal entry for a day
//	@Tags			journal
//	@Param			day	path	string	true	"Day (YYYY-MM-DD)"
//	@Success		204	"Entry deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/{day} [delete]
func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	day, err := journalDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("day must be YYYY-MM-DD"))
		return
	}
	if err := h.svc.DeleteJournal(r.Context(), day); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search and index.

// Search handles GET /api/search.
//
//	@Summary		Full-text search across all entities
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			types	query		string	false	"Comma-separated entity types"
//	@Param			from	query		int		false	"Inclusive lower bound on updated_at (ms epoch)"
//	@Param			to		query		int		false	"Inclusive upper bound on updated_at (ms epoch)"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := index.Query{Text: params.Get("q")}
	if q.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	for _, raw := range strings.Split(params.Get("types"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, err := models.ParseEntityType(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("unknown entity type: "+raw))
			return
		}
		q.Types = append(q.Types, t)
	}
	q.From, _ = strconv.ParseInt(params.Get("from"), 10, 64)
	q.To, _ = strconv.ParseInt(params.Get("to"), 10, 64)
	q.Limit, _ = strconv.Atoi(params.Get("limit"))

	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}

// RebuildIndex handles POST /api/index/rebuild.
//
//	@Summary		Rebuild the search index from the store
//	@Tags			search
//	@Produce		json
//	@Success		200	{object}	RebuildResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/index/rebuild [post]
func (h *Handler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.RebuildIndex(r.Context())
	if err != nil {
		slog.Error("index rebuild failed", slog.String("error", err.Error()))
		writeErr(w, err)
		return
	}
	counts := make(map[string]int, len(report.Counts))
	for t, n := range report.Counts {
		counts[string(t)] = n
	}
	writeJSON(w, http.StatusOK, RebuildResponse{
		Total:   report.Total,
		Counts:  counts,
		Skipped: report.Skipped,
	})
}
