package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tavle/internal/assets"
	"github.com/starford/tavle/internal/contentservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *contentservice.Service, store *assets.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	ah := NewAssetHandler(store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Projects.
	r.Get("/projects", h.ListProjects)
	r.Post("/projects", h.CreateProject)
	r.Get("/projects/{id}", h.GetProject)
	r.Put("/projects/{id}", h.UpdateProject)
	r.Delete("/projects/{id}", h.DeleteProject)

	// Boards and canvas snapshots.
	r.Get("/boards", h.ListBoards)
	r.Post("/boards", h.CreateBoard)
	r.Get("/boards/{id}", h.GetBoard)
	r.Put("/boards/{id}", h.UpdateBoard)
	r.Delete("/boards/{id}", h.DeleteBoard)
	r.Get("/boards/{id}/snapshot", h.GetBoardSnapshot)
	r.Put("/boards/{id}/snapshot", h.SaveBoardSnapshot)

	// Cards.
	r.Get("/cards", h.ListCards)
	r.Post("/cards", h.CreateCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Put("/cards/{id}", h.UpdateCard)
	r.Delete("/cards/{id}", h.DeleteCard)

	// Tags.
	r.Get("/tags", h.ListTags)
	r.Post("/tags", h.CreateTag)
	r.Put("/tags/{id}", h.UpdateTag)
	r.Delete("/tags/{id}", h.DeleteTag)

	// Journal, keyed by day.
	r.Get("/journal", h.ListJournal)
	r.Get("/journal/{day}", h.GetJournal)
	r.Put("/journal/{day}", h.WriteJournal)
	r.Delete("/journal/{day}", h.DeleteJournal)

	// Search and index maintenance.
	r.Get("/search", h.Search)
	r.Post("/index/rebuild", h.RebuildIndex)

	// Assets.
	r.Post("/assets", ah.Upload)
	r.Post("/assets/import", ah.Import)
	r.Get("/assets/{category}/{filename}", ah.ServeFile)
	r.Delete("/assets/{category}/{filename}", ah.Delete)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
