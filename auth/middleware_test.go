package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAuthenticator() *Authenticator {
	lookup := LookupFunc(func(_ context.Context, id uint) (Principal, error) {
		if id == 42 {
			// role in the store wins over the token
			return Principal{UserID: 42, Role: RoleEntreprise}, nil
		}
		return Principal{}, errors.New("gone")
	})
	return NewAuthenticator(NewIssuer("s3cret", "elite", time.Hour), nil, lookup)
}

func protected() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		w.Header().Set("X-Role", string(p.Role))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	a := newTestAuthenticator()
	tok, _, _ := a.Issuer().Issue(Principal{UserID: 42, Role: RoleUtilisateur})

	h := a.Middleware(RequireAuth(protected()))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Role"); got != string(RoleEntreprise) {
		t.Errorf("role = %q", got)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	a := newTestAuthenticator()
	gone, _, _ := a.Issuer().Issue(Principal{UserID: 7, Role: RoleCoach})
	revoked, claims, _ := a.Issuer().Issue(Principal{UserID: 42, Role: RoleCoach})
	if err := a.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"anonymous", ""},
		{"malformed", "Bearer nope"},
		{"deleted account", "Bearer " + gone},
		{"revoked", "Bearer " + revoked},
	}
	h := a.Middleware(RequireAuth(protected()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", rec.Code)
			}
			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" || body["error"] == nil {
				t.Errorf("missing error message: %v", body)
			}
		})
	}
}
