package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// NotificationService reads and manages the notifications of the principal.
// Every query is scoped to recipient_id, so foreign ids are not found.
type NotificationService struct {
	db     *gorm.DB
	gate   *policy.AuthGate
	notify *Notifier
}

func NewNotificationService(db *gorm.DB, g *policy.AuthGate, n *Notifier) *NotificationService {
	return &NotificationService{db: db, gate: g, notify: n}
}

func (s *NotificationService) own(ctx context.Context, p auth.Principal) *gorm.DB {
	return s.db.WithContext(ctx).Where("recipient_id = ?", p.UserID)
}

// List returns the notifications of the principal, newest first, and the unread count.
func (s *NotificationService) List(ctx context.Context, p auth.Principal) ([]models.Notification, int64, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResNotification, nil); err != nil {
		return nil, 0, err
	}
	var list []models.Notification
	if err := s.own(ctx, p).Order(sortOrder("", nil)).Find(&list).Error; err != nil {
		return nil, 0, dbError(err)
	}
	var unread int64
	if err := s.own(ctx, p).Model(&models.Notification{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
		return nil, 0, dbError(err)
	}
	return list, unread, nil
}

// EntrepriseList is the entreprise view: own notifications with the users they concern.
func (s *NotificationService) EntrepriseList(ctx context.Context, p auth.Principal) ([]models.Notification, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResNotification, nil); err != nil {
		return nil, err
	}
	if !p.Is(auth.RoleEntreprise, auth.RoleAdmin) {
		return nil, apperr.Forbidden()
	}
	var list []models.Notification
	if err := s.own(ctx, p).Preload("AssignedUsers").Order(sortOrder("", nil)).Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

// Create sends a notification on behalf of an admin. user_ids is kept only
// when the recipient is an entreprise.
func (s *NotificationService) Create(ctx context.Context, p auth.Principal, in *validation.Input) (*models.Notification, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResNotification, nil); err != nil {
		return nil, err
	}
	n := &models.Notification{SenderID: uintPtr(p.UserID), Kind: "admin"}

	var recipient *models.User
	if in.Required("recipient_id") {
		if id, ok := in.Int("recipient_id"); ok {
			u, err := find[models.User](ctx, s.db, uint(id))
			if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
				return nil, err
			}
			in.Exists("recipient_id", u != nil)
			recipient = u
		}
	}
	in.Required("title")
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		n.Title = v
	}
	in.Required("message")
	if v, ok := in.String("message"); ok {
		n.Message = v
	}
	var assigned []models.User
	if ids, ok := in.IDs("user_ids"); ok && len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&assigned).Error; err != nil {
			return nil, dbError(err)
		}
		in.Exists("user_ids", len(assigned) == len(uniqueIDs(ids)))
	}
	if err := invalid(in); err != nil {
		return nil, err
	}

	n.RecipientID = recipient.ID
	if recipient.Role == auth.RoleEntreprise {
		n.AssignedUsers = assigned
	}
	err := s.notify.Transaction(ctx, s.db, func(_ *gorm.DB, out *Outbox) error {
		return out.Send(n)
	})
	if err != nil {
		return nil, dbError(err)
	}
	return n, nil
}

// MarkRead is idempotent.
func (s *NotificationService) MarkRead(ctx context.Context, p auth.Principal, id uint) (*models.Notification, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResNotification, nil); err != nil {
		return nil, err
	}
	var n models.Notification
	if err := s.own(ctx, p).First(&n, id).Error; err != nil {
		return nil, dbError(err)
	}
	if !n.Read {
		if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
			return nil, dbError(err)
		}
	}
	n.Read = true
	return &n, nil
}

// MarkAllRead returns the number of notifications that changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, p auth.Principal) (int64, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResNotification, nil); err != nil {
		return 0, err
	}
	res := s.own(ctx, p).Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	if res.Error != nil {
		return 0, dbError(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *NotificationService) Delete(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResNotification, nil); err != nil {
		return err
	}
	var n models.Notification
	if err := s.own(ctx, p).First(&n, id).Error; err != nil {
		return dbError(err)
	}
	return dbError(s.db.WithContext(ctx).Select("AssignedUsers").Delete(&n).Error)
}

func uniqueIDs(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
