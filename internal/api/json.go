package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexanderjmontague/jot-sub000/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps a store error to an HTTP status, carrying the stable
// code so HTTP callers can branch the same way protocol clients do.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeInvalidInput, apperr.CodePathNotFound, apperr.CodeUnknownType:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeNotConfigured:
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", slog.String("error", msg))
		msg = "internal error"
	}
	writeJSON(w, status, errResponse{Error: msg, Code: string(code)})
}
