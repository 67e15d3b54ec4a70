package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
)

// Authenticator resolves bearer tokens into request principals.
type Authenticator struct {
	issuer  *Issuer
	revoker Revoker
	lookup  PrincipalLookup
}

func NewAuthenticator(issuer *Issuer, revoker Revoker, lookup PrincipalLookup) *Authenticator {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &Authenticator{issuer: issuer, revoker: revoker, lookup: lookup}
}

func (a *Authenticator) Issuer() *Issuer { return a.issuer }

// Authenticate verifies a raw token and loads the current principal.
// The role comes from the account, not from the token, so role changes apply immediately.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (Principal, *Claims, error) {
	claims, err := a.issuer.Parse(token)
	if err != nil {
		return Principal{}, nil, err
	}
	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Printf("auth: revocation check failed: %v", err)
		return Principal{}, nil, err
	}
	if revoked {
		return Principal{}, nil, ErrInvalidToken
	}
	p, err := a.lookup.LookupPrincipal(ctx, claims.UserID)
	if err != nil {
		return Principal{}, nil, err
	}
	return p, claims, nil
}

// Revoke invalidates the token described by claims.
func (a *Authenticator) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return a.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Middleware attaches the principal to the request context when a valid
// bearer token is present. Anonymous requests pass through unchanged.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := BearerToken(r.Header.Get("Authorization")); ok {
			if p, claims, err := a.Authenticate(r.Context(), token); err == nil {
				ctx := WithPrincipal(r.Context(), p)
				r = r.WithContext(withClaims(ctx, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth returns 401 JSON when the request has no principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			msg := i18n.T(i18n.LangFromContext(r.Context()), "error.unauthenticated")
			httpx.JSONError(w, http.StatusUnauthorized, msg, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
