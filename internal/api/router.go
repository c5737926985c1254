package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *threadstore.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Vault configuration.
	r.Get("/config", h.GetConfig)
	r.Put("/config", h.SetConfig)

	// Threads and comments.
	r.Get("/threads", h.ListThreads)
	r.Get("/thread", h.GetThread)
	r.Delete("/thread", h.DeleteThread)
	r.Get("/has", h.HasComments)
	r.Post("/comments", h.AppendComment)
	r.Delete("/comments", h.DeleteComment)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
