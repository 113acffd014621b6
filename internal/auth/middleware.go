package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/devevents/api/internal/apperror"
)

var errMissingToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type for context keys. A package-private type
// means no other package can read or shadow the user id value.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes. It reads the
// bearer token from the Authorization header, validates it, and stores the
// user id in the request context. Missing or invalid tokens end the request
// with 401 and the standard unauthorized body.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"` + apperror.ForbiddenMessage + `"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the request
// context. Returns (0, false) on anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID pulls the token out of "Authorization: Bearer <token>" and
// validates it.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return 0, errMissingToken
	}

	return tokens.Validate(strings.TrimSpace(token))
}
