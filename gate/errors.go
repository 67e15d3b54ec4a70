package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	// ErrUnauthenticated is returned for the zero subject, before any permission check.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the subject lacks the permission or fails the policy.
	ErrForbidden = errors.New("forbidden")
)
