package models

import "time"

// GlobalAccessPrice is the amount of the subscription unlocking every formation.
const GlobalAccessPrice = 299.0

// Formation is a training unit, free when Price is zero.
type Formation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Price          float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Points         int       `gorm:"not null;default:0" json:"points"`
	TargetAudience *Audience `gorm:"size:20;index" json:"target_audience"`
	Duration       string    `gorm:"size:100" json:"duration,omitempty"`
	ImageURL       string    `gorm:"size:500" json:"image_url,omitempty"`
	VideoURL       string    `gorm:"size:500" json:"video_url,omitempty"`

	// Computed per principal, never stored
	HasAccess   bool `gorm:"-" json:"has_access"`
	IsCompleted bool `gorm:"-" json:"is_completed"`
}

// UserPayment grants access to one formation, or to all of them when IsGlobal.
type UserPayment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uint       `gorm:"index;not null" json:"user_id"`
	FormationID *uint      `gorm:"index" json:"formation_id"`
	Formation   *Formation `gorm:"foreignKey:FormationID;constraint:OnDelete:CASCADE" json:"formation,omitempty"`
	IsGlobal    bool       `gorm:"not null;default:false" json:"is_global"`
	Amount      float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status      string     `gorm:"size:20;not null;default:paid" json:"status"`
	PaidAt      time.Time  `gorm:"not null" json:"paid_at"`
}

// GetUserID implements the Ownable interface.
func (p *UserPayment) GetUserID() uint {
	return p.UserID
}

// FormationCompletion records that a user completed a formation. One row per pair.
type FormationCompletion struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_formation_completions_user_formation" json:"user_id"`
	FormationID uint       `gorm:"not null;uniqueIndex:idx_formation_completions_user_formation;index" json:"formation_id"`
	Formation   *Formation `gorm:"foreignKey:FormationID;constraint:OnDelete:CASCADE" json:"-"`
	CompletedAt time.Time  `gorm:"not null" json:"completed_at"`
}
