package auth

import "context"

type ctxKey string

const (
	principalCtxKey = ctxKey("principal")
	claimsCtxKey    = ctxKey("claims")
)

// Principal is the authenticated caller of a request.
// The zero value means "no authenticated user".
type Principal struct {
	UserID uint
	Role   Role
}

func (p Principal) Authenticated() bool { return p.UserID != 0 }

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Is reports whether the principal holds one of roles.
func (p Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext extracts the principal; ok is false when the request is anonymous.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	if !ok || !p.Authenticated() {
		return Principal{}, false
	}
	return p, true
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, c)
}

// ClaimsFromContext returns the verified token claims of the request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey).(*Claims)
	return c, ok && c != nil
}
