package models

import "time"

// DiffusionWorkshop is a public event announced by an entreprise or an admin.
type DiffusionWorkshop struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`

	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Location         string    `gorm:"size:255;not null" json:"location"`
	Date             time.Time `gorm:"not null" json:"date"`
	Type             EventType `gorm:"size:20;not null" json:"type"`
	RegistrationLink string    `gorm:"size:500" json:"registration_link,omitempty"`
}

func (DiffusionWorkshop) TableName() string { return "diffusion_workshops" }

// GetUserID implements the Ownable interface for authorization.
func (d *DiffusionWorkshop) GetUserID() uint {
	return d.UserID
}
