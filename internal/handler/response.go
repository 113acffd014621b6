// Package handler contains the HTTP layer: JSON decoding, parameter parsing
// and the central domain-error-to-status mapping. All business rules live in
// the service package.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devevents/api/internal/apperror"
)

// MessageResponse is the single-message body used by errors and by the few
// endpoints that return a status line instead of a resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// fieldErrorResponse is the 422 validation body: one message per field.
type fieldErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// writeJSON sends a JSON response. Headers must be set before the first
// body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to HTTP. The service layer never sees a
// status code; this switch is the only place the taxonomy meets HTTP.
//
// Validation failures carry a field map and render {"errors": {...}}; every
// other typed error renders {"message": "..."}. Unknown errors are logged
// and become an opaque 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, fieldErrorResponse{Errors: appErr.Fields})
		case errors.Is(err, apperror.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnprocessableEntity, MessageResponse{Message: appErr.Message})
		case errors.Is(err, apperror.ErrForbidden):
			writeJSON(w, http.StatusForbidden, MessageResponse{Message: appErr.Message})
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, MessageResponse{Message: appErr.Message})
		case errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusConflict, MessageResponse{Message: appErr.Message})
		default:
			slog.Error("unmapped application error", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		}
		return
	}

	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
}

// decodeBody reads the request body as a raw JSON object. Validators work on
// the map so they can distinguish a missing field from a wrong type.
func decodeBody(r *http.Request) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// idParam parses the {id} route parameter. The notFound message matches the
// resource being addressed, so a garbage id responds exactly like a missing
// row.
func idParam(r *http.Request, notFound string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NotFound(notFound)
	}
	return id, nil
}

// pageParams parses the page/limit query parameters with their defaults.
// Anything unparsable or out of range falls back to the default rather than
// erroring.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
	}
	return page, limit
}

// badRequestBody is the response for a body that isn't valid JSON at all.
func badRequestBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid JSON body"})
}
