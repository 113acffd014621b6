package handler

import (
	"net/http"

	"github.com/devevents/api/internal/auth"
	"github.com/devevents/api/internal/service"
)

// EventHandler exposes events, categories and attendance over HTTP.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// Categories handles GET /events/categories.
func (h *EventHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.events.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// List handles GET /events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	result, err := h.events.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "Resource not found")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	raw, err := decodeBody(r)
	if err != nil {
		badRequestBody(w)
		return
	}

	event, err := h.events.Create(r.Context(), userID, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// Update handles PUT /events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "Resource not found")
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	raw, err := decodeBody(r)
	if err != nil {
		badRequestBody(w)
		return
	}

	event, err := h.events.Update(r.Context(), userID, id, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "Resource not found")
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.events.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Attend handles PUT /events/{id}/attendees.
func (h *EventHandler) Attend(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "Resource not found")
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	event, err := h.events.Attend(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Unattend handles DELETE /events/{id}/attendees.
func (h *EventHandler) Unattend(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "Resource not found")
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.events.Unattend(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
