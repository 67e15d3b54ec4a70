// Package gate provides Gate/Policy authorization.
// The Gate combines profile permissions ("resource:action") with optional
// per-resource policies such as ownership checks. This package has no
// dependencies on domain models.
//
// The package uses generics to allow any comparable subject type:
//   - Gate[uint] for simple user ID based auth
//   - Gate[Principal] for a user ID + role value
package gate

import "context"

// Gate is the central authorization checkpoint.
// Authorization flow:
//  1. The subject must be non-zero, otherwise ErrUnauthenticated
//  2. The subject's profile must grant resource:action, otherwise ErrForbidden
//  3. If a policy is registered for the resource type and a resource is
//     given, the policy must allow it, otherwise ErrForbidden
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

// NewGate creates a gate with the given profile resolver.
func NewGate[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{
		resolver: resolver,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds a resource-specific policy (e.g. ownership) for a resource type.
// Overwrites any existing policy for that type.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil when user may perform action on resource.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthenticated
	}

	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return ErrForbidden
	}
	if !profile.Allows(NewPermission(resourceType, action)) {
		return ErrForbidden
	}

	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok {
			if !policy.Can(ctx, user, action, resource) {
				return ErrForbidden
			}
		}
	}
	return nil
}
