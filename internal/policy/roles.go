package policy

import (
	"context"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
)

// Resource types used in permissions.
const (
	ResJobOffer     = "job_offer"
	ResApplication  = "application"
	ResFormation    = "formation"
	ResCapsule      = "capsule"
	ResInterview    = "interview"
	ResWorkshop     = "workshop"
	ResNotification = "notification"
	ResTest         = "test"
	ResProfile      = "profile"
	ResUser         = "user"
)

func perms(resource string, actions ...gate.Action) []gate.Permission {
	out := make([]gate.Permission, len(actions))
	for i, a := range actions {
		out[i] = gate.NewPermission(resource, a)
	}
	return out
}

func join(groups ...[]gate.Permission) []gate.Permission {
	var out []gate.Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var (
	crud = []gate.Action{gate.ActionList, gate.ActionView, gate.ActionCreate, gate.ActionUpdate, gate.ActionDelete}
	read = []gate.Action{gate.ActionList, gate.ActionView}

	coachPerms = join(
		perms(ResJobOffer, read...),
		perms(ResInterview, gate.ActionList, gate.ActionView, gate.ActionApply),
		perms(ResWorkshop, read...),
		perms(ResFormation, gate.ActionList, gate.ActionView, gate.ActionPay, gate.ActionComplete),
		perms(ResCapsule, gate.ActionList),
		perms(ResNotification, gate.ActionList, gate.ActionUpdate, gate.ActionDelete),
		perms(ResTest, gate.ActionList, gate.ActionView, gate.ActionSubmit),
		[]gate.Permission{ResProfile + ":*"},
	)

	adminProfile = gate.NewRoleProfile(gate.Everything)

	entrepriseProfile = gate.NewRoleProfile(join(
		perms(ResJobOffer, crud...),
		perms(ResApplication, gate.ActionList, gate.ActionUpdate),
		perms(ResInterview, crud...),
		perms(ResWorkshop, crud...),
		perms(ResNotification, gate.ActionList, gate.ActionUpdate, gate.ActionDelete),
		perms(ResFormation, read...),
		perms(ResCapsule, gate.ActionList),
		perms(ResTest, read...),
		[]gate.Permission{ResProfile + ":*"},
	)...)

	coachProfile = gate.NewRoleProfile(coachPerms...)

	utilisateurProfile = gate.NewRoleProfile(join(
		coachPerms,
		perms(ResJobOffer, gate.ActionApply),
		perms(ResApplication, gate.ActionList),
	)...)
)

// ProfileFor returns the static permission profile of a role.
func ProfileFor(role auth.Role) gate.Profile {
	switch role {
	case auth.RoleAdmin:
		return adminProfile
	case auth.RoleEntreprise:
		return entrepriseProfile
	case auth.RoleCoach:
		return coachProfile
	case auth.RoleUtilisateur:
		return utilisateurProfile
	}
	return nil
}

// RoleResolver resolves a principal to its role profile.
var RoleResolver = gate.ResolverFunc[auth.Principal](func(_ context.Context, p auth.Principal) (gate.Profile, error) {
	return ProfileFor(p.Role), nil
})
