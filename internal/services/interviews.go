package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

type InterviewService struct {
	db     *gorm.DB
	gate   *policy.AuthGate
	access *Access
	notify *Notifier
}

func NewInterviewService(db *gorm.DB, g *policy.AuthGate, a *Access, n *Notifier) *InterviewService {
	return &InterviewService{db: db, gate: g, access: a, notify: n}
}

// List returns every interview to admins, their own to entreprises and the
// confirmed ones, annotated with has_applied, to candidates.
func (s *InterviewService) List(ctx context.Context, p auth.Principal) ([]models.Interview, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResInterview, nil); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Preload("User").Order("date ASC, id ASC")
	switch p.Role {
	case auth.RoleAdmin:
	case auth.RoleEntreprise:
		q = q.Where("user_id = ?", p.UserID)
	case auth.RoleCoach, auth.RoleUtilisateur:
		q = q.Where("status = ?", models.InterviewConfirmed)
	}
	var list []models.Interview
	if err := q.Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	if p.Role.IsCandidate() {
		applied, err := s.access.AppliedInterviewIDs(ctx, p.UserID)
		if err != nil {
			return nil, dbError(err)
		}
		for i := range list {
			list[i].HasApplied = applied[list[i].ID]
		}
	}
	return list, nil
}

// All returns every interview whatever its status.
func (s *InterviewService) All(ctx context.Context, p auth.Principal) ([]models.Interview, error) {
	if err := adminOnly(p); err != nil {
		return nil, err
	}
	var list []models.Interview
	if err := s.db.WithContext(ctx).Preload("User").Order(sortOrder("", nil)).Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func bindInterview(in *validation.Input, iv *models.Interview, creating bool) error {
	now := time.Now()
	if creating {
		in.Required("title")
		in.Required("date")
	}
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		iv.Title = v
	}
	setString(in, "description", 5000, &iv.Description)
	if v, ok := in.Date("date"); ok {
		in.After("date", v, now, futureLabel(now))
		iv.Date = v
	}
	setString(in, "location", 255, &iv.Location)
	if in.Present("type") {
		iv.Type = ""
		if v, ok := in.String("type"); ok && in.In("type", v, models.EventTypes()...) {
			iv.Type = models.EventType(v)
		}
	}
	return invalid(in)
}

// Create stores an interview. Interviews created by an admin are confirmed at
// once; the others wait for an admin, who is notified.
func (s *InterviewService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.Interview, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResInterview, nil); err != nil {
		return nil, err
	}
	iv := &models.Interview{UserID: p.UserID, Status: models.InterviewPending}
	if err := bindInterview(in, iv, true); err != nil {
		return nil, err
	}
	if p.IsAdmin() {
		iv.Status = models.InterviewConfirmed
	}
	err := s.notify.Transaction(ctx, s.db, func(tx *gorm.DB, out *Outbox) error {
		if err := tx.Create(iv).Error; err != nil {
			return err
		}
		if iv.IsConfirmed() {
			return nil
		}
		var owner models.User
		if err := tx.Select("id", "name", "company_name").First(&owner, p.UserID).Error; err != nil {
			return err
		}
		return out.SendToAdmins("interview_created", uintPtr(p.UserID), displayName(&owner), iv.Title)
	})
	if err != nil {
		return nil, dbError(err)
	}
	return iv, nil
}

func (s *InterviewService) Update(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.Interview, error) {
	iv, err := loadAuthorized[models.Interview](ctx, s.gate, s.db, p, gate.ActionUpdate, policy.ResInterview, id)
	if err != nil {
		return nil, err
	}
	if err := bindInterview(in, iv, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(iv).Error; err != nil {
		return nil, dbError(err)
	}
	return iv, nil
}

func (s *InterviewService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	iv, err := loadAuthorized[models.Interview](ctx, s.gate, s.db, p, gate.ActionDelete, policy.ResInterview, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("interview_id = ?", iv.ID).Delete(&models.InterviewApplication{}).Error; err != nil {
			return err
		}
		return tx.Delete(iv).Error
	})
	return dbError(err)
}

// Apply registers the principal as a candidate of a confirmed interview.
// Pending interviews are reported as not found.
func (s *InterviewService) Apply(ctx context.Context, p auth.Principal, id uint) (*models.InterviewApplication, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionApply, policy.ResInterview, nil); err != nil {
		return nil, err
	}
	if !p.Role.IsCandidate() {
		return nil, apperr.Forbidden()
	}
	iv, err := find[models.Interview](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !iv.IsConfirmed() {
		return nil, apperr.NotFound()
	}
	applied, err := s.access.HasAppliedToInterview(ctx, p.UserID, iv.ID)
	if err != nil {
		return nil, dbError(err)
	}
	if applied {
		return nil, conflict(ctx, "conflict.interview_already_applied")
	}

	app := &models.InterviewApplication{InterviewID: iv.ID, UserID: p.UserID, AppliedAt: time.Now()}
	err = s.notify.Transaction(ctx, s.db, func(tx *gorm.DB, out *Outbox) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		var candidate models.User
		if err := tx.Select("id", "name").First(&candidate, p.UserID).Error; err != nil {
			return err
		}
		return out.Send(message(ctx, "interview_applied", iv.UserID, uintPtr(p.UserID), candidate.Name, iv.Title))
	})
	if err != nil {
		return nil, uniqueConflict(ctx, err, "conflict.interview_already_applied")
	}
	return app, nil
}

// Candidates lists the applications of an interview for its owner or an admin.
func (s *InterviewService) Candidates(ctx context.Context, p auth.Principal, id uint) ([]models.InterviewApplication, error) {
	iv, err := loadAuthorized[models.Interview](ctx, s.gate, s.db, p, gate.ActionView, policy.ResInterview, id)
	if err != nil {
		return nil, err
	}
	var apps []models.InterviewApplication
	err = s.db.WithContext(ctx).Preload("User").Where("interview_id = ?", iv.ID).
		Order("applied_at ASC, id ASC").Find(&apps).Error
	if err != nil {
		return nil, dbError(err)
	}
	return apps, nil
}

// Confirm moves a pending interview to confirmed and tells its owner.
func (s *InterviewService) Confirm(ctx context.Context, p auth.Principal, id uint) (*models.Interview, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionConfirm, policy.ResInterview, nil); err != nil {
		return nil, err
	}
	iv, err := find[models.Interview](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if iv.IsConfirmed() {
		return nil, conflict(ctx, "conflict.interview_confirmed")
	}
	err = s.notify.Transaction(ctx, s.db, func(tx *gorm.DB, out *Outbox) error {
		res := tx.Model(&models.Interview{}).
			Where("id = ? AND status = ?", iv.ID, models.InterviewPending).
			Update("status", models.InterviewConfirmed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return conflict(ctx, "conflict.interview_confirmed")
		}
		return out.Send(message(ctx, "interview_confirmed", iv.UserID, uintPtr(p.UserID), iv.Title))
	})
	if err != nil {
		return nil, dbError(err)
	}
	iv.Status = models.InterviewConfirmed
	return iv, nil
}

// displayName prefers the company name for entreprise accounts.
func displayName(u *models.User) string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	return u.Name
}
