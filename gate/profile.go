package gate

import "context"

// Profile is the permission set of a role. A nil Profile denies everything.
type Profile interface {
	Allows(requested Permission) bool
}

// ProfileResolver maps a subject (a principal, a role name) to its Profile.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

type ResolverFunc[U any] func(ctx context.Context, user U) (Profile, error)

func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	return f(ctx, user)
}

// RoleProfile is a fixed list of grants, built once per role when the
// permission tables are loaded.
type RoleProfile struct {
	grants []Permission
}

func NewRoleProfile(grants ...Permission) *RoleProfile {
	return &RoleProfile{grants: append([]Permission(nil), grants...)}
}

func (p *RoleProfile) Allows(requested Permission) bool {
	for _, g := range p.grants {
		if g.Grants(requested) {
			return true
		}
	}
	return false
}
