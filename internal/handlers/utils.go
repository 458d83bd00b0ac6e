package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/services"
	"github.com/myflix/movieapi/internal/store"
)

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists field-level input problems.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service and store errors to responses. Anything
// unrecognized is logged and reported as failMessage with status 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error, notFoundMessage, failMessage string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	default:
		logger.Error(r.Context(), failMessage, "error", err)
		writeError(w, http.StatusInternalServerError, failMessage)
	}
}

// pathParam returns the decoded value of a chi URL parameter. chi matches
// against RawPath when it is set, so only then is the value still escaped.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
