// Package services implements the business operations. Every operation takes
// the calling principal explicitly, authorizes it, validates its input and
// only then touches the database.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/db"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// dbError classifies a persistence error.
func dbError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound()
	case db.IsUniqueViolation(err):
		return apperr.Conflict("")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal(err)
}

// invalid returns the validation error of in, or nil.
func invalid(in *validation.Input) error {
	if in.Valid() {
		return nil
	}
	return apperr.Invalid(in.V)
}

// conflict builds a business-rule error with a localized message.
func conflict(ctx context.Context, code string) error {
	return apperr.Conflict(i18n.T(i18n.LangFromContext(ctx), code))
}

// uniqueConflict turns a unique-index violation into the business conflict code.
func uniqueConflict(ctx context.Context, err error, code string) error {
	if db.IsUniqueViolation(err) {
		return conflict(ctx, code)
	}
	return dbError(err)
}

// find loads one record by primary key.
func find[T any](ctx context.Context, tx *gorm.DB, id uint, preload ...string) (*T, error) {
	var out T
	q := tx.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		return nil, dbError(err)
	}
	return &out, nil
}

// loadAuthorized checks the role permission, loads the record and checks it
// again against the resource policy, so that callers without the permission
// never learn whether the id exists.
func loadAuthorized[T any](ctx context.Context, g *policy.AuthGate, tx *gorm.DB, p auth.Principal, action gate.Action, res string, id uint, preload ...string) (*T, error) {
	if err := g.Authorize(ctx, p, action, res, nil); err != nil {
		return nil, err
	}
	rec, err := find[T](ctx, tx, id, preload...)
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(ctx, p, action, res, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// exists reports whether a row of model matches the condition.
func exists(ctx context.Context, tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// futureLabel is how "now" is rendered in date-order messages.
func futureLabel(now time.Time) string {
	return now.Format("02/01/2006 15:04")
}

// sortOrder maps a sort query value to an ORDER BY clause, newest first by default.
func sortOrder(sort string, extra map[string]string) string {
	if o, ok := extra[sort]; ok {
		return o
	}
	if sort == "oldest" {
		return "created_at ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}

// adminOnly guards the admin listings that have no resource-level permission.
func adminOnly(p auth.Principal) error {
	if !p.Authenticated() {
		return gate.ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return gate.ErrForbidden
	}
	return nil
}

// bindAudience reads an audience enum field. An explicit empty value clears
// dst when the field is nullable.
func bindAudience(in *validation.Input, field string, dst **models.Audience) {
	if !in.Present(field) {
		return
	}
	if !in.Has(field) {
		*dst = nil
		return
	}
	if v, ok := in.String(field); ok && in.In(field, v, models.Audiences()...) {
		*dst = models.AudiencePtr(v)
	}
}
