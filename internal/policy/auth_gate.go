package policy

import (
	"context"
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
)

// AuthGate is the central authorization point of the application.
type AuthGate struct {
	Gate *gate.Gate[auth.Principal]
}

// NewAuthGate creates the gate with role profiles and ownership policies
// (admins bypass ownership).
func NewAuthGate() *AuthGate {
	g := gate.NewGate[auth.Principal](RoleResolver)

	owned := NewAdminBypassPolicy(NewOwnershipPolicy())
	g.Register(ResJobOffer, owned)
	g.Register(ResInterview, owned)
	g.Register(ResWorkshop, owned)
	g.Register(ResApplication, NewAdminBypassPolicy(NewOwnerFuncPolicy(applicationOwner)))

	return &AuthGate{Gate: g}
}

// applicationOwner is the owner of the job offer the application targets.
func applicationOwner(resource any) (uint, bool) {
	app, ok := resource.(*models.JobApplication)
	if !ok || app.JobOffer == nil {
		return 0, false
	}
	return app.JobOffer.UserID, true
}

// Authorize checks if p can perform an action on a resource.
// Returns nil if authorized, gate.ErrUnauthenticated or gate.ErrForbidden otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, p auth.Principal, action gate.Action, resourceType string, resource any) error {
	return ag.Gate.Authorize(ctx, p, action, resourceType, resource)
}

// RequirePermission returns middleware that checks the role permission.
// Anonymous requests get 401, missing permissions 403.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := auth.PrincipalFromContext(r.Context())
			if err := ag.Authorize(r.Context(), p, action, resourceType, nil); err != nil {
				httpx.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only allows admins.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			switch {
			case !ok:
				httpx.Error(w, r, gate.ErrUnauthenticated)
				return
			case !p.IsAdmin():
				httpx.Error(w, r, gate.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
