package handler

import (
	"net/http"

	"github.com/devevents/api/internal/auth"
	"github.com/devevents/api/internal/service"
)

// UserHandler exposes registration and profile operations over HTTP.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		badRequestBody(w)
		return
	}

	user, err := h.users.Register(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	result, err := h.users.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "User not found")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "User not found")
	if err != nil {
		writeError(w, err)
		return
	}

	actorID, _ := auth.UserIDFromContext(r.Context())

	raw, err := decodeBody(r)
	if err != nil {
		badRequestBody(w)
		return
	}

	user, err := h.users.Update(r.Context(), actorID, id, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdatePassword handles PUT /users/{id}/password.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "User not found")
	if err != nil {
		writeError(w, err)
		return
	}

	actorID, _ := auth.UserIDFromContext(r.Context())

	raw, err := decodeBody(r)
	if err != nil {
		badRequestBody(w)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), actorID, id, raw); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password update successful"})
}
