package services

import (
	"context"
	"mime/multipart"
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

// FormationFilter holds the list query parameters.
type FormationFilter struct {
	Audience string
	Sort     string
}

type FormationService struct {
	db     *gorm.DB
	gate   *policy.AuthGate
	access *Access
	store  storage.Store
}

func NewFormationService(db *gorm.DB, g *policy.AuthGate, a *Access, store storage.Store) *FormationService {
	return &FormationService{db: db, gate: g, access: a, store: store}
}

// List returns formations annotated with has_access and is_completed.
func (s *FormationService) List(ctx context.Context, p auth.Principal, f FormationFilter) ([]models.Formation, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResFormation, nil); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Order(sortOrder(f.Sort, map[string]string{
		"price_asc":  "price ASC, id DESC",
		"price_desc": "price DESC, id DESC",
	}))
	if f.Audience != "" {
		q = q.Where("target_audience = ?", f.Audience)
	}
	var list []models.Formation
	if err := q.Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	if err := s.annotate(ctx, p, list); err != nil {
		return nil, err
	}
	return list, nil
}

// AdminList returns every formation, media included.
func (s *FormationService) AdminList(ctx context.Context, p auth.Principal) ([]models.Formation, error) {
	if err := adminOnly(p); err != nil {
		return nil, err
	}
	var list []models.Formation
	if err := s.db.WithContext(ctx).Order(sortOrder("", nil)).Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	for i := range list {
		list[i].HasAccess = true
	}
	return list, nil
}

func (s *FormationService) annotate(ctx context.Context, p auth.Principal, list []models.Formation) error {
	paid, global, err := s.access.PaidFormationIDs(ctx, p.UserID)
	if err != nil {
		return dbError(err)
	}
	done, err := s.access.CompletedFormationIDs(ctx, p.UserID)
	if err != nil {
		return dbError(err)
	}
	for i := range list {
		f := &list[i]
		f.HasAccess = p.IsAdmin() || global || paid[f.ID]
		f.IsCompleted = done[f.ID]
		if !f.HasAccess {
			f.VideoURL = ""
		}
	}
	return nil
}

// Get returns one formation. The video is only exposed with access.
func (s *FormationService) Get(ctx context.Context, p auth.Principal, id uint) (*models.Formation, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResFormation, nil); err != nil {
		return nil, err
	}
	f, err := find[models.Formation](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	one := []models.Formation{*f}
	if err := s.annotate(ctx, p, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Access reports whether the principal may follow the formation.
func (s *FormationService) Access(ctx context.Context, p auth.Principal, id uint) (bool, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResFormation, nil); err != nil {
		return false, err
	}
	f, err := find[models.Formation](ctx, s.db, id)
	if err != nil {
		return false, err
	}
	ok, err := s.access.HasAccessToFormation(ctx, p, f)
	if err != nil {
		return false, dbError(err)
	}
	return ok, nil
}

// Pay records a payment for one formation or for the global access. There is
// no payment provider: the payment is stored as paid right away.
func (s *FormationService) Pay(ctx context.Context, p auth.Principal, in *validation.Input) (*models.UserPayment, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionPay, policy.ResFormation, nil); err != nil {
		return nil, err
	}
	global := false
	if v, ok := in.Bool("is_global"); ok {
		global = v
	}
	var f *models.Formation
	if !global && in.Required("formation_id") {
		if id, ok := in.Int("formation_id"); ok {
			found, err := find[models.Formation](ctx, s.db, uint(id))
			if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
				return nil, err
			}
			in.Exists("formation_id", found != nil)
			f = found
		}
	}
	if err := invalid(in); err != nil {
		return nil, err
	}

	hasGlobal, err := s.access.HasGlobalAccess(ctx, p.UserID)
	if err != nil {
		return nil, dbError(err)
	}
	pay := &models.UserPayment{UserID: p.UserID, Status: "paid", PaidAt: time.Now()}
	if global {
		if hasGlobal {
			return nil, conflict(ctx, "conflict.global_paid")
		}
		pay.IsGlobal = true
		pay.Amount = models.GlobalAccessPrice
	} else {
		ok, err := s.access.HasAccessToFormation(ctx, p, f)
		if err != nil {
			return nil, dbError(err)
		}
		if ok {
			return nil, conflict(ctx, "conflict.formation_paid")
		}
		pay.FormationID = &f.ID
		pay.Amount = f.Price
	}
	if err := s.db.WithContext(ctx).Create(pay).Error; err != nil {
		return nil, dbError(err)
	}
	return pay, nil
}

// Complete marks the formation as completed and credits its points once.
// It returns the new points total of the user.
func (s *FormationService) Complete(ctx context.Context, p auth.Principal, id uint) (int, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionComplete, policy.ResFormation, nil); err != nil {
		return 0, err
	}
	f, err := find[models.Formation](ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	ok, err := s.access.HasAccessToFormation(ctx, p, f)
	if err != nil {
		return 0, dbError(err)
	}
	if !ok {
		return 0, apperr.Forbidden()
	}
	done, err := s.access.IsFormationCompleted(ctx, p.UserID, f.ID)
	if err != nil {
		return 0, dbError(err)
	}
	if done {
		return 0, conflict(ctx, "conflict.formation_completed")
	}

	// the unique index on (user_id, formation_id) settles concurrent completions
	var points int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := &models.FormationCompletion{UserID: p.UserID, FormationID: f.ID, CompletedAt: time.Now()}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		err = tx.Model(&models.User{}).Where("id = ?", p.UserID).
			UpdateColumn("points", gorm.Expr("points + ?", f.Points)).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", p.UserID).Pluck("points", &points).Error
	})
	if err != nil {
		return 0, uniqueConflict(ctx, err, "conflict.formation_completed")
	}
	return points, nil
}

type formationFiles struct {
	image *multipart.FileHeader
	video *multipart.FileHeader
}

func bindFormation(in *validation.Input, f *models.Formation, creating bool) (formationFiles, error) {
	var files formationFiles
	if creating {
		in.Required("title")
		in.Required("description")
		in.Required("price")
		in.Required("points")
	}
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		f.Title = v
	}
	if v, ok := in.String("description"); ok {
		f.Description = v
	}
	if v, ok := in.Float("price"); ok {
		in.Min("price", v, 0)
		f.Price = v
	}
	if v, ok := in.Int("points"); ok {
		in.Min("points", float64(v), 0)
		f.Points = v
	}
	bindAudience(in, "target_audience", &f.TargetAudience)
	setString(in, "duration", 100, &f.Duration)
	if fh, ok := in.Upload("image", false, validation.ImageMaxKB, validation.ImageExts...); ok {
		files.image = fh
	}
	if fh, ok := in.Upload("video", false, validation.VideoMaxKB, validation.VideoExts...); ok {
		files.video = fh
	}
	return files, invalid(in)
}

// storeFormationFiles uploads the new media and returns the URLs they replace.
func (s *FormationService) storeFormationFiles(ctx context.Context, f *models.Formation, files formationFiles) ([]string, error) {
	var replaced []string
	if files.image != nil {
		url, err := s.store.Put(ctx, "formations/images", files.image)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		replaced = append(replaced, f.ImageURL)
		f.ImageURL = url
	}
	if files.video != nil {
		url, err := s.store.Put(ctx, "formations/videos", files.video)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		replaced = append(replaced, f.VideoURL)
		f.VideoURL = url
	}
	return replaced, nil
}

func (s *FormationService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.Formation, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResFormation, nil); err != nil {
		return nil, err
	}
	f := &models.Formation{}
	files, err := bindFormation(in, f, true)
	if err != nil {
		return nil, err
	}
	if _, err := s.storeFormationFiles(ctx, f, files); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, dbError(err)
	}
	f.HasAccess = true
	return f, nil
}

func (s *FormationService) Update(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.Formation, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResFormation, nil); err != nil {
		return nil, err
	}
	f, err := find[models.Formation](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	files, err := bindFormation(in, f, false)
	if err != nil {
		return nil, err
	}
	replaced, err := s.storeFormationFiles(ctx, f, files)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(f).Error; err != nil {
		return nil, dbError(err)
	}
	for _, url := range replaced {
		storage.DeleteQuietly(ctx, s.store, url)
	}
	f.HasAccess = true
	return f, nil
}

func (s *FormationService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResFormation, nil); err != nil {
		return err
	}
	f, err := find[models.Formation](ctx, s.db, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("formation_id = ?", f.ID).Delete(&models.FormationCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("formation_id = ?", f.ID).Delete(&models.UserPayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(f).Error
	})
	if err != nil {
		return dbError(err)
	}
	storage.DeleteQuietly(ctx, s.store, f.ImageURL)
	storage.DeleteQuietly(ctx, s.store, f.VideoURL)
	return nil
}
