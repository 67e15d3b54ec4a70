// Package apperr defines the error kinds returned by services. HTTP status
// codes are derived from the kind at the transport boundary only.
package apperr

import (
	"errors"

	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	}
	return "internal"
}

// Error is a classified service error.
// Message is user-facing; empty means "use the default message of the kind".
type Error struct {
	Kind    Kind
	Message string
	Fields  validation.Violations
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound() *Error { return &Error{Kind: KindNotFound} }

func Forbidden() *Error { return &Error{Kind: KindForbidden} }

func Unauthenticated() *Error { return &Error{Kind: KindUnauthenticated} }

// Conflict reports a business-rule violation such as a duplicate application.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Invalid wraps field violations.
func Invalid(v validation.Violations) *Error { return &Error{Kind: KindValidation, Fields: v} }

// Internal wraps an unexpected error.
func Internal(err error) *Error { return &Error{Kind: KindInternal, Err: err} }

// KindOf classifies any error, including gate sentinel errors.
func KindOf(err error) Kind {
	var e *Error
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &e):
		return e.Kind
	case errors.Is(err, gate.ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, gate.ErrForbidden):
		return KindForbidden
	}
	return KindInternal
}
