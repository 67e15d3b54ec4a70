package policy

import (
	"context"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
)

// Ownable is an interface for resources that have an owner.
type Ownable interface {
	GetUserID() uint
}

// OwnerFunc returns the owner id of a resource, ok=false when it has none.
type OwnerFunc func(resource any) (uint, bool)

// OwnableOwner reads the owner through the Ownable interface.
func OwnableOwner(resource any) (uint, bool) {
	o, ok := resource.(Ownable)
	if !ok {
		return 0, false
	}
	return o.GetUserID(), true
}

// OwnershipPolicy checks if the principal owns the resource.
type OwnershipPolicy struct {
	owner OwnerFunc
}

// NewOwnershipPolicy creates a policy for Ownable resources.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{owner: OwnableOwner}
}

// NewOwnerFuncPolicy creates a policy whose owner is computed by fn, for
// resources owned through a parent (an application belongs to its offer's owner).
func NewOwnerFuncPolicy(fn OwnerFunc) *OwnershipPolicy {
	return &OwnershipPolicy{owner: fn}
}

// Can checks if the principal owns the resource.
// For list/create actions (resource is nil), it always returns true
// since profile permissions already control access.
func (p *OwnershipPolicy) Can(_ context.Context, user auth.Principal, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	owner, ok := p.owner(resource)
	if !ok {
		// resources without an owner are denied
		return false
	}
	return owner == user.UserID
}

// AdminBypassPolicy wraps another policy and always allows access for admins.
type AdminBypassPolicy struct {
	inner gate.Policy[auth.Principal]
}

// NewAdminBypassPolicy creates a policy that bypasses ownership for admins.
func NewAdminBypassPolicy(inner gate.Policy[auth.Principal]) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner}
}

// Can checks if the principal is admin (bypass) or falls back to inner policy.
func (p *AdminBypassPolicy) Can(ctx context.Context, user auth.Principal, action gate.Action, resource any) bool {
	if user.IsAdmin() {
		return true
	}
	return p.inner.Can(ctx, user, action, resource)
}
