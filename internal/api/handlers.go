package api

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alexanderjmontague/jot-sub000/internal/apperr"
	"github.com/alexanderjmontague/jot-sub000/internal/models"
	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
)

// Handler holds the API route handlers.
type Handler struct {
	store *threadstore.Store
}

// NewHandler creates a new Handler.
func NewHandler(store *threadstore.Store) *Handler {
	return &Handler{store: store}
}

// SetConfigRequest is the body for PUT /api/config.
type SetConfigRequest struct {
	VaultPath     string `json:"vaultPath"`
	CommentFolder string `json:"commentFolder"`
}

// AppendCommentRequest is the body for POST /api/comments.
type AppendCommentRequest struct {
	URL      string                 `json:"url"`
	Body     string                 `json:"body"`
	Metadata *models.ThreadMetadata `json:"metadata,omitempty"`
}

// Validate checks the required fields.
func (r AppendCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required),
		validation.Field(&r.Body, validation.Required),
	)
}

// DeleteCommentRequest is the body for DELETE /api/comments.
type DeleteCommentRequest struct {
	URL       string `json:"url"`
	CommentID string `json:"commentId"`
}

func queryURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	u := r.URL.Query().Get("url")
	if u == "" {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "query parameter 'url' is required"))
		return "", false
	}
	return u, true
}

// GetConfig handles GET /api/config.
func (h *Handler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.store.GetConfig()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// SetConfig handles PUT /api/config.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "invalid JSON body"))
		return
	}
	cfg, err := h.store.SetConfig(req.VaultPath, req.CommentFolder)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ListThreads handles GET /api/threads.
func (h *Handler) ListThreads(w http.ResponseWriter, _ *http.Request) {
	threads, err := h.store.GetAllThreads()
	if err != nil {
		writeError(w, err)
		return
	}
	if threads == nil {
		threads = []models.Thread{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": threads})
}

// GetThread handles GET /api/thread?url=.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	u, ok := queryURL(w, r)
	if !ok {
		return
	}
	th, err := h.store.GetThread(u)
	if err != nil {
		writeError(w, err)
		return
	}
	if th == nil {
		writeError(w, apperr.New(apperr.CodeNotFound, "no thread for url"))
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// HasComments handles GET /api/has?url=.
func (h *Handler) HasComments(w http.ResponseWriter, r *http.Request) {
	u, ok := queryURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasComments": h.store.HasComments(u)})
}

// AppendComment handles POST /api/comments.
func (h *Handler) AppendComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AppendCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "%s", err.Error()))
		return
	}
	th, err := h.store.AppendComment(req.URL, req.Body, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, th)
}

// DeleteComment handles DELETE /api/comments.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	var req DeleteCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.CodeInvalidInput, "invalid JSON body"))
		return
	}
	th, err := h.store.DeleteComment(req.URL, req.CommentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// DeleteThread handles DELETE /api/thread?url=.
func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	u, ok := queryURL(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteThread(u); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
