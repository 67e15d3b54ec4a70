package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

type WorkshopService struct {
	db   *gorm.DB
	gate *policy.AuthGate
}

func NewWorkshopService(db *gorm.DB, g *policy.AuthGate) *WorkshopService {
	return &WorkshopService{db: db, gate: g}
}

func (s *WorkshopService) List(ctx context.Context, p auth.Principal, sort string) ([]models.DiffusionWorkshop, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResWorkshop, nil); err != nil {
		return nil, err
	}
	var list []models.DiffusionWorkshop
	order := sortOrder(sort, map[string]string{"date": "date ASC, id ASC"})
	if err := s.db.WithContext(ctx).Preload("User").Order(order).Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func (s *WorkshopService) Get(ctx context.Context, p auth.Principal, id uint) (*models.DiffusionWorkshop, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResWorkshop, nil); err != nil {
		return nil, err
	}
	return find[models.DiffusionWorkshop](ctx, s.db, id, "User")
}

func bindWorkshop(in *validation.Input, w *models.DiffusionWorkshop, creating bool) error {
	now := time.Now()
	if creating {
		for _, f := range []string{"title", "description", "location", "date", "type"} {
			in.Required(f)
		}
	}
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		w.Title = v
	}
	if v, ok := in.String("description"); ok {
		w.Description = v
	}
	if v, ok := in.String("location"); ok {
		in.MaxLen("location", v, 255)
		w.Location = v
	}
	if v, ok := in.Date("date"); ok {
		in.After("date", v, now, futureLabel(now))
		w.Date = v
	}
	if v, ok := in.String("type"); ok && in.In("type", v, models.EventTypes()...) {
		w.Type = models.EventType(v)
	}
	if in.Present("registration_link") {
		w.RegistrationLink = ""
		if v, ok := in.URL("registration_link"); ok {
			in.MaxLen("registration_link", v, 500)
			w.RegistrationLink = v
		}
	}
	return invalid(in)
}

func (s *WorkshopService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.DiffusionWorkshop, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResWorkshop, nil); err != nil {
		return nil, err
	}
	w := &models.DiffusionWorkshop{UserID: p.UserID}
	if err := bindWorkshop(in, w, true); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, dbError(err)
	}
	return w, nil
}

func (s *WorkshopService) Update(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.DiffusionWorkshop, error) {
	w, err := loadAuthorized[models.DiffusionWorkshop](ctx, s.gate, s.db, p, gate.ActionUpdate, policy.ResWorkshop, id)
	if err != nil {
		return nil, err
	}
	if err := bindWorkshop(in, w, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(w).Error; err != nil {
		return nil, dbError(err)
	}
	return w, nil
}

func (s *WorkshopService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	w, err := loadAuthorized[models.DiffusionWorkshop](ctx, s.gate, s.db, p, gate.ActionDelete, policy.ResWorkshop, id)
	if err != nil {
		return err
	}
	return dbError(s.db.WithContext(ctx).Delete(w).Error)
}
