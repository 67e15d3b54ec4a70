package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/internal/storage"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

type CapsuleService struct {
	db    *gorm.DB
	gate  *policy.AuthGate
	store storage.Store
}

func NewCapsuleService(db *gorm.DB, g *policy.AuthGate, store storage.Store) *CapsuleService {
	return &CapsuleService{db: db, gate: g, store: store}
}

// List returns the capsules matching the audience of the principal. Admins
// see every capsule; users without a level yet see none.
func (s *CapsuleService) List(ctx context.Context, p auth.Principal) ([]models.Capsule, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResCapsule, nil); err != nil {
		return nil, err
	}
	if p.IsAdmin() {
		return s.all(ctx)
	}
	var u models.User
	if err := s.db.WithContext(ctx).Select("id", "target_audience").First(&u, p.UserID).Error; err != nil {
		return nil, dbError(err)
	}
	list := []models.Capsule{}
	if u.TargetAudience == nil {
		return list, nil
	}
	err := s.db.WithContext(ctx).Where("target_audience = ?", *u.TargetAudience).
		Order(sortOrder("", nil)).Find(&list).Error
	if err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func (s *CapsuleService) AdminList(ctx context.Context, p auth.Principal) ([]models.Capsule, error) {
	if err := adminOnly(p); err != nil {
		return nil, err
	}
	return s.all(ctx)
}

func (s *CapsuleService) all(ctx context.Context) ([]models.Capsule, error) {
	var list []models.Capsule
	if err := s.db.WithContext(ctx).Order(sortOrder("", nil)).Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

// save validates in into c, stores a new video if one was sent and persists c.
func (s *CapsuleService) save(ctx context.Context, c *models.Capsule, in *validation.Input, creating bool) error {
	if creating {
		in.Required("title")
		in.Required("target_audience")
	}
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		c.Title = v
	}
	setString(in, "description", 5000, &c.Description)
	if v, ok := in.String("target_audience"); ok && in.In("target_audience", v, models.Audiences()...) {
		c.TargetAudience = models.Audience(v)
	}
	video, _ := in.Upload("video", creating, validation.VideoMaxKB, validation.VideoExts...)
	if err := invalid(in); err != nil {
		return err
	}

	old := ""
	if video != nil {
		url, err := s.store.Put(ctx, "capsules", video)
		if err != nil {
			return apperr.Internal(err)
		}
		old, c.VideoURL = c.VideoURL, url
	}
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		if video != nil {
			storage.DeleteQuietly(ctx, s.store, c.VideoURL)
		}
		return dbError(err)
	}
	storage.DeleteQuietly(ctx, s.store, old)
	return nil
}

func (s *CapsuleService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.Capsule, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResCapsule, nil); err != nil {
		return nil, err
	}
	c := &models.Capsule{}
	if err := s.save(ctx, c, in, true); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CapsuleService) Update(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.Capsule, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResCapsule, nil); err != nil {
		return nil, err
	}
	c, err := find[models.Capsule](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, c, in, false); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CapsuleService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResCapsule, nil); err != nil {
		return err
	}
	c, err := find[models.Capsule](ctx, s.db, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(c).Error; err != nil {
		return dbError(err)
	}
	storage.DeleteQuietly(ctx, s.store, c.VideoURL)
	return nil
}
