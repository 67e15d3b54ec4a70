package services

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/events"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
)

// Notifier stores notifications and publishes them as events.
type Notifier struct {
	events events.Publisher
}

func NewNotifier(pub events.Publisher) *Notifier {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Notifier{events: pub}
}

// Transaction runs fn in a transaction on db. Notifications sent through the
// outbox are published only once the transaction has committed; a rollback
// drops them. Publishing is best effort.
func (nt *Notifier) Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB, out *Outbox) error) error {
	var out *Outbox
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		out = &Outbox{ctx: ctx, tx: tx}
		return fn(tx, out)
	})
	if err != nil {
		return err
	}
	for _, n := range out.pending {
		nt.publish(ctx, n)
	}
	return nil
}

// Outbox stores notifications inside one transaction and holds their events back.
type Outbox struct {
	ctx     context.Context
	tx      *gorm.DB
	pending []*models.Notification
}

func (o *Outbox) Send(n *models.Notification) error {
	if err := o.tx.Omit("AssignedUsers.*").Create(n).Error; err != nil {
		return err
	}
	o.pending = append(o.pending, n)
	return nil
}

func (nt *Notifier) publish(ctx context.Context, n *models.Notification) {
	err := nt.events.Publish(ctx, events.Event{
		Type: events.TypeNotificationCreated,
		Key:  events.UserKey(n.RecipientID),
		Data: n,
	})
	if err != nil {
		log.Printf("notify: publish notification %d: %v", n.ID, err)
	}
}

// message builds a notification from the "notify.<kind>" catalog entries.
func message(ctx context.Context, kind string, recipient uint, sender *uint, args ...any) *models.Notification {
	lang := i18n.LangFromContext(ctx)
	return &models.Notification{
		RecipientID: recipient,
		SenderID:    sender,
		Kind:        kind,
		Title:       i18n.T(lang, "notify."+kind+".title"),
		Message:     i18n.T(lang, "notify."+kind+".message", args...),
	}
}

// SendToAdmins sends a copy of the notification to every admin.
func (o *Outbox) SendToAdmins(kind string, sender *uint, args ...any) error {
	var adminIDs []uint
	if err := o.tx.Model(&models.User{}).Where("role = ?", auth.RoleAdmin).Pluck("id", &adminIDs).Error; err != nil {
		return err
	}
	for _, id := range adminIDs {
		if err := o.Send(message(o.ctx, kind, id, sender, args...)); err != nil {
			return err
		}
	}
	return nil
}

func uintPtr(v uint) *uint { return &v }
