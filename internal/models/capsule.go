package models

import "time"

// Capsule is a short video aimed at one audience level.
type Capsule struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	TargetAudience Audience  `gorm:"size:20;not null;index" json:"target_audience"`
	VideoURL       string    `gorm:"size:500;not null" json:"video_url"`
}
