package handler

import (
	"net/http"

	"github.com/devevents/api/internal/service"
)

// AuthHandler exposes login over HTTP.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// tokenResponse is the login success body.
type tokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		badRequestBody(w)
		return
	}

	token, err := h.auth.Login(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		TokenType:   "bearer",
		AccessToken: token,
	})
}
