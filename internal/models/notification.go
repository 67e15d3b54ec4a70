package models

import "time"

// Notification is addressed to one recipient. AssignedUsers lets an entreprise
// recipient see which users a notification concerns.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RecipientID uint   `gorm:"index;not null" json:"recipient_id"`
	SenderID    *uint  `json:"sender_id"`
	Kind        string `gorm:"size:50" json:"type,omitempty"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Message     string `gorm:"type:text;not null" json:"message"`
	Read        bool   `gorm:"column:is_read;not null;default:false" json:"read"`

	AssignedUsers []User `gorm:"many2many:notification_user;constraint:OnDelete:CASCADE" json:"assigned_users,omitempty"`
}

// GetUserID implements the Ownable interface.
func (n *Notification) GetUserID() uint {
	return n.RecipientID
}
