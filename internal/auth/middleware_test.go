package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func protectedEcho(t *testing.T, gotID *int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("UserIDFromContext() not set inside protected handler")
		}
		*gotID = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate(7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var gotID int64
	handler := RequireAuth(ts)(protectedEcho(t, &gotID))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 7 {
		t.Errorf("userID in context = %d, want 7", gotID)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	ts := newTestTokenService(t)

	expired, err := ts.GenerateWithDuration(7, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("protected handler ran without valid credentials")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if got := rec.Body.String(); got != `{"message":"Unauthorized access"}` {
				t.Errorf("body = %s, want the standard unauthorized message", got)
			}
		})
	}
}

func TestUserIDFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if id, ok := UserIDFromContext(req.Context()); ok || id != 0 {
		t.Errorf("UserIDFromContext() = (%d, %v), want (0, false)", id, ok)
	}
}
