package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/internal/storage"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// JobOfferFilter holds the list query parameters.
type JobOfferFilter struct {
	Q            string
	Location     string
	ContractType string
	Sort         string
}

type JobOfferService struct {
	db     *gorm.DB
	gate   *policy.AuthGate
	access *Access
	store  storage.Store
	notify *Notifier
}

func NewJobOfferService(db *gorm.DB, g *policy.AuthGate, a *Access, store storage.Store, n *Notifier) *JobOfferService {
	return &JobOfferService{db: db, gate: g, access: a, store: store, notify: n}
}

// scoped restricts entreprises to their own offers.
func (s *JobOfferService) scoped(ctx context.Context, p auth.Principal) *gorm.DB {
	q := s.db.WithContext(ctx)
	if p.Role == auth.RoleEntreprise {
		q = q.Where("job_offers.user_id = ?", p.UserID)
	}
	return q
}

// List returns the visible offers annotated with has_applied.
func (s *JobOfferService) List(ctx context.Context, p auth.Principal, f JobOfferFilter) ([]models.JobOffer, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResJobOffer, nil); err != nil {
		return nil, err
	}
	q := s.scoped(ctx, p).Preload("User")
	if t := strings.TrimSpace(f.Q); t != "" {
		like := "%" + strings.ToLower(t) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(l)+"%")
	}
	if f.ContractType != "" {
		q = q.Where("contract_type = ?", f.ContractType)
	}
	q = q.Order(sortOrder(f.Sort, map[string]string{
		"salary_desc": "salary_max DESC, id DESC",
		"salary_asc":  "salary_min ASC, id DESC",
	}))

	var offers []models.JobOffer
	if err := q.Find(&offers).Error; err != nil {
		return nil, dbError(err)
	}
	if p.Role.IsCandidate() {
		applied, err := s.access.AppliedJobIDs(ctx, p.UserID)
		if err != nil {
			return nil, dbError(err)
		}
		for i := range offers {
			offers[i].HasApplied = applied[offers[i].ID]
		}
	}
	return offers, nil
}

// Get returns one visible offer. Offers of other entreprises are reported as not found.
func (s *JobOfferService) Get(ctx context.Context, p auth.Principal, id uint) (*models.JobOffer, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResJobOffer, nil); err != nil {
		return nil, err
	}
	var o models.JobOffer
	if err := s.scoped(ctx, p).Preload("User").First(&o, id).Error; err != nil {
		return nil, dbError(err)
	}
	if p.Role.IsCandidate() {
		applied, err := s.access.HasAppliedToJob(ctx, p.UserID, o.ID)
		if err != nil {
			return nil, dbError(err)
		}
		o.HasApplied = applied
	}
	return &o, nil
}

// bindJobOffer validates in and applies the provided fields to o.
func bindJobOffer(in *validation.Input, o *models.JobOffer, creating bool) error {
	now := time.Now()
	if creating {
		in.Required("title")
		in.Required("description")
		in.Required("location")
	}
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		o.Title = v
	}
	if v, ok := in.String("description"); ok {
		o.Description = v
	}
	if in.Present("requirements") {
		o.Requirements, _ = in.String("requirements")
	}
	if v, ok := in.String("location"); ok {
		in.MaxLen("location", v, 255)
		o.Location = v
	}
	if in.Present("salary_min") {
		o.SalaryMin = nil
		if v, ok := in.Float("salary_min"); ok {
			in.Min("salary_min", v, 0)
			o.SalaryMin = &v
		}
	}
	if in.Present("salary_max") {
		o.SalaryMax = nil
		if v, ok := in.Float("salary_max"); ok {
			in.Min("salary_max", v, 0)
			o.SalaryMax = &v
		}
	}
	if o.SalaryMin != nil && o.SalaryMax != nil && !in.V.Has("salary_min") {
		in.Gte("salary_max", *o.SalaryMax, *o.SalaryMin, "salary_min")
	}
	if in.Present("contract_type") {
		o.ContractType = ""
		if v, ok := in.String("contract_type"); ok && in.In("contract_type", v, models.ContractTypes()...) {
			o.ContractType = models.ContractType(v)
		}
	}
	if in.Present("closing_date") {
		o.ClosingDate = nil
		if v, ok := in.Date("closing_date"); ok {
			in.After("closing_date", v, now, futureLabel(now))
			o.ClosingDate = &v
		}
	}
	return invalid(in)
}

func (s *JobOfferService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.JobOffer, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResJobOffer, nil); err != nil {
		return nil, err
	}
	o := &models.JobOffer{UserID: p.UserID}
	if err := bindJobOffer(in, o, true); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, dbError(err)
	}
	return o, nil
}

func (s *JobOfferService) Update(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.JobOffer, error) {
	o, err := loadAuthorized[models.JobOffer](ctx, s.gate, s.db, p, gate.ActionUpdate, policy.ResJobOffer, id)
	if err != nil {
		return nil, err
	}
	if err := bindJobOffer(in, o, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(o).Error; err != nil {
		return nil, dbError(err)
	}
	return o, nil
}

// Delete removes the offer with its applications and their CV files.
func (s *JobOfferService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	o, err := loadAuthorized[models.JobOffer](ctx, s.gate, s.db, p, gate.ActionDelete, policy.ResJobOffer, id, "Applications")
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_offer_id = ?", o.ID).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		return tx.Delete(o).Error
	})
	if err != nil {
		return dbError(err)
	}
	for _, a := range o.Applications {
		storage.DeleteQuietly(ctx, s.store, a.CVURL)
	}
	return nil
}

// Apply creates a pending application with the uploaded CV. Only candidates
// (utilisateur) may apply, once per offer.
func (s *JobOfferService) Apply(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.JobApplication, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionApply, policy.ResJobOffer, nil); err != nil {
		return nil, err
	}
	if p.Role != auth.RoleUtilisateur {
		return nil, apperr.Forbidden()
	}
	o, err := find[models.JobOffer](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if o.IsClosed(time.Now()) {
		return nil, conflict(ctx, "conflict.job_closed")
	}
	applied, err := s.access.HasAppliedToJob(ctx, p.UserID, o.ID)
	if err != nil {
		return nil, dbError(err)
	}
	if applied {
		return nil, conflict(ctx, "conflict.job_already_applied")
	}

	cv, _ := in.Upload("cv", true, validation.DocumentMaxKB, validation.DocumentExts...)
	var letter string
	if v, ok := in.String("cover_letter"); ok {
		in.MaxLen("cover_letter", v, 5000)
		letter = v
	}
	if err := invalid(in); err != nil {
		return nil, err
	}

	url, err := s.store.Put(ctx, "cvs", cv)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	app := &models.JobApplication{
		JobOfferID:  o.ID,
		UserID:      p.UserID,
		CVURL:       url,
		CoverLetter: letter,
		Status:      models.ApplicationPending,
	}
	err = s.notify.Transaction(ctx, s.db, func(tx *gorm.DB, out *Outbox) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		var applicant models.User
		if err := tx.Select("id", "name").First(&applicant, p.UserID).Error; err != nil {
			return err
		}
		return out.Send(message(ctx, "job_applied", o.UserID, uintPtr(p.UserID), applicant.Name, o.Title))
	})
	if err != nil {
		storage.DeleteQuietly(ctx, s.store, url)
		return nil, uniqueConflict(ctx, err, "conflict.job_already_applied")
	}
	return app, nil
}

// Applications lists the applications of an offer for its owner or an admin.
func (s *JobOfferService) Applications(ctx context.Context, p auth.Principal, id uint) ([]models.JobApplication, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResApplication, nil); err != nil {
		return nil, err
	}
	o, err := find[models.JobOffer](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResJobOffer, o); err != nil {
		return nil, err
	}
	var apps []models.JobApplication
	err = s.db.WithContext(ctx).Preload("User").Where("job_offer_id = ?", o.ID).
		Order("created_at DESC, id DESC").Find(&apps).Error
	if err != nil {
		return nil, dbError(err)
	}
	return apps, nil
}

// UpdateApplicationStatus lets the offer owner or an admin accept or reject an
// application. The applicant is notified when the status changes.
func (s *JobOfferService) UpdateApplicationStatus(ctx context.Context, p auth.Principal, appID uint, in *validation.Input) (*models.JobApplication, error) {
	app, err := loadAuthorized[models.JobApplication](ctx, s.gate, s.db, p, gate.ActionUpdate, policy.ResApplication, appID, "JobOffer")
	if err != nil {
		return nil, err
	}
	in.Required("status")
	status, ok := in.String("status")
	if ok {
		in.In("status", status, models.ApplicationStatuses()...)
	}
	if err := invalid(in); err != nil {
		return nil, err
	}
	if app.Status == models.ApplicationStatus(status) {
		return app, nil
	}
	app.Status = models.ApplicationStatus(status)
	err = s.notify.Transaction(ctx, s.db, func(tx *gorm.DB, out *Outbox) error {
		if err := tx.Model(app).Update("status", app.Status).Error; err != nil {
			return err
		}
		return out.Send(message(ctx, "application_status", app.UserID, uintPtr(p.UserID), app.JobOffer.Title, string(app.Status)))
	})
	if err != nil {
		return nil, dbError(err)
	}
	return app, nil
}

// MyApplications lists the applications of the principal.
func (s *JobOfferService) MyApplications(ctx context.Context, p auth.Principal) ([]models.JobApplication, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResApplication, nil); err != nil {
		return nil, err
	}
	var apps []models.JobApplication
	err := s.db.WithContext(ctx).Preload("JobOffer").Where("user_id = ?", p.UserID).
		Order("created_at DESC, id DESC").Find(&apps).Error
	if err != nil {
		return nil, dbError(err)
	}
	return apps, nil
}
