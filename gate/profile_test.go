package gate_test

import (
	"context"
	"testing"

	"github.com/LailaElmallass/projectElite-sub000/gate"
)

func TestRoleProfile_Allows(t *testing.T) {
	entreprise := gate.NewRoleProfile(
		gate.NewPermission("job_offer", gate.ActionCreate),
		"workshop:*",
	)
	if !entreprise.Allows("job_offer:create") {
		t.Error("entreprise should create job offers")
	}
	if entreprise.Allows("job_offer:apply") {
		t.Error("entreprise should not apply to job offers")
	}
	if !entreprise.Allows("workshop:delete") {
		t.Error("workshop:* should cover delete")
	}

	admin := gate.NewRoleProfile(gate.Everything)
	if !admin.Allows("formation:delete") || !admin.Allows("user:create") {
		t.Error("admin should be allowed everything")
	}
}

func TestRoleProfile_CopiesGrants(t *testing.T) {
	grants := []gate.Permission{"formation:view"}
	p := gate.NewRoleProfile(grants...)
	grants[0] = "formation:delete"
	if p.Allows("formation:delete") || !p.Allows("formation:view") {
		t.Error("profile should not share the caller's slice")
	}
}

func TestResolverFunc(t *testing.T) {
	coach := gate.NewRoleProfile(gate.NewPermission("formation", gate.ActionComplete))
	resolver := gate.ResolverFunc[string](func(_ context.Context, role string) (gate.Profile, error) {
		if role == "coach" {
			return coach, nil
		}
		return nil, nil
	})
	p, err := resolver.Resolve(context.Background(), "coach")
	if err != nil || p == nil || !p.Allows("formation:complete") {
		t.Fatalf("coach profile = %v, %v", p, err)
	}
	if p, _ := resolver.Resolve(context.Background(), "ghost"); p != nil {
		t.Errorf("unknown role resolved to %v", p)
	}
}
