package models

import "time"

type InterviewStatus string

const (
	InterviewPending   InterviewStatus = "pending"
	InterviewConfirmed InterviewStatus = "confirmed"
)

// EventType is shared by interviews and workshops.
type EventType string

const (
	EventInPerson EventType = "presentiel"
	EventOnline   EventType = "en_ligne"
)

func EventTypes() []string { return []string{string(EventInPerson), string(EventOnline)} }

// Interview is created by an entreprise or an admin. Status only moves
// from pending to confirmed.
type Interview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`

	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Location    string          `gorm:"size:255" json:"location,omitempty"`
	Type        EventType       `gorm:"size:20" json:"type,omitempty"`
	Status      InterviewStatus `gorm:"size:20;not null;default:pending;index" json:"status"`

	Applications []InterviewApplication `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Computed per principal, never stored
	HasApplied bool `gorm:"-" json:"has_applied"`
}

// GetUserID implements the Ownable interface for authorization.
func (i *Interview) GetUserID() uint {
	return i.UserID
}

func (i *Interview) IsConfirmed() bool { return i.Status == InterviewConfirmed }

// InterviewApplication is the candidate pivot. A user applies at most once.
type InterviewApplication struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InterviewID uint      `gorm:"not null;uniqueIndex:idx_interview_applications_user_interview" json:"interview_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_interview_applications_user_interview;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}
