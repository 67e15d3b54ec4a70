package policy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
)

func TestAuthGate_RolePermissions(t *testing.T) {
	ag := policy.NewAuthGate()
	ctx := context.Background()

	tests := []struct {
		role     auth.Role
		action   gate.Action
		resource string
		want     bool
	}{
		{auth.RoleAdmin, gate.ActionConfirm, policy.ResInterview, true},
		{auth.RoleEntreprise, gate.ActionCreate, policy.ResJobOffer, true},
		{auth.RoleEntreprise, gate.ActionApply, policy.ResJobOffer, false},
		{auth.RoleEntreprise, gate.ActionApply, policy.ResInterview, false},
		{auth.RoleEntreprise, gate.ActionConfirm, policy.ResInterview, false},
		{auth.RoleCoach, gate.ActionApply, policy.ResInterview, true},
		{auth.RoleCoach, gate.ActionApply, policy.ResJobOffer, false},
		{auth.RoleCoach, gate.ActionCreate, policy.ResJobOffer, false},
		{auth.RoleUtilisateur, gate.ActionApply, policy.ResJobOffer, true},
		{auth.RoleUtilisateur, gate.ActionComplete, policy.ResFormation, true},
		{auth.RoleUtilisateur, gate.ActionCreate, policy.ResFormation, false},
		{auth.RoleUtilisateur, gate.ActionUpdate, policy.ResProfile, true},
		{auth.RoleUtilisateur, gate.ActionList, policy.ResUser, false},
	}
	for _, tt := range tests {
		got := ag.Authorize(ctx, principal(5, tt.role), tt.action, tt.resource, nil) == nil
		if got != tt.want {
			t.Errorf("%s %s:%s = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
		}
	}
}

func TestAuthGate_UnauthenticatedBeforeForbidden(t *testing.T) {
	ag := policy.NewAuthGate()
	err := ag.Authorize(context.Background(), auth.Principal{}, gate.ActionDelete, policy.ResJobOffer, &models.JobOffer{UserID: 1})
	if !errors.Is(err, gate.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthGate_Ownership(t *testing.T) {
	ag := policy.NewAuthGate()
	ctx := context.Background()
	offer := &models.JobOffer{UserID: 10}

	if err := ag.Authorize(ctx, principal(10, auth.RoleEntreprise), gate.ActionUpdate, policy.ResJobOffer, offer); err != nil {
		t.Errorf("owner update: %v", err)
	}
	if err := ag.Authorize(ctx, principal(11, auth.RoleEntreprise), gate.ActionUpdate, policy.ResJobOffer, offer); !errors.Is(err, gate.ErrForbidden) {
		t.Errorf("non-owner update: %v", err)
	}
	if err := ag.Authorize(ctx, principal(1, auth.RoleAdmin), gate.ActionDelete, policy.ResJobOffer, offer); err != nil {
		t.Errorf("admin delete: %v", err)
	}

	app := &models.JobApplication{UserID: 20, JobOffer: offer}
	if err := ag.Authorize(ctx, principal(10, auth.RoleEntreprise), gate.ActionUpdate, policy.ResApplication, app); err != nil {
		t.Errorf("offer owner updates application: %v", err)
	}
	if err := ag.Authorize(ctx, principal(20, auth.RoleUtilisateur), gate.ActionUpdate, policy.ResApplication, app); !errors.Is(err, gate.ErrForbidden) {
		t.Errorf("applicant cannot change status: %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	ag := policy.NewAuthGate()
	h := ag.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		p    *auth.Principal
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"coach", &auth.Principal{UserID: 2, Role: auth.RoleCoach}, http.StatusForbidden},
		{"admin", &auth.Principal{UserID: 1, Role: auth.RoleAdmin}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.p != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), *tt.p))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	ag := policy.NewAuthGate()
	h := ag.RequirePermission(policy.ResJobOffer, gate.ActionCreate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/job-offers", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), principal(3, auth.RoleUtilisateur)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
}
