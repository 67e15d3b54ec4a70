package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func Genders() []string { return []string{string(GenderMale), string(GenderFemale)} }

// User represents an account of any role.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Role      auth.Role      `gorm:"size:20;not null;index" json:"role"`

	// Role dependent profile fields
	Gender      Gender `gorm:"size:10" json:"gender,omitempty"`
	Specialty   string `gorm:"size:255" json:"specialty,omitempty"`
	CompanyName string `gorm:"size:255" json:"company_name,omitempty"`
	Industry    string `gorm:"size:255" json:"industry,omitempty"`

	Goal           string `gorm:"size:255" json:"goal,omitempty"`
	Phone          string `gorm:"size:30" json:"phone,omitempty"`
	Bio            string `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicture string `gorm:"size:500" json:"profile_picture,omitempty"`

	Points         int       `gorm:"not null;default:0" json:"points"`
	IsFirstTime    bool      `gorm:"not null" json:"is_first_time"`
	TargetAudience *Audience `gorm:"size:20" json:"target_audience"`
}

// Principal returns the authorization identity of the user.
func (u *User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

// GetUserID implements the Ownable interface.
func (u *User) GetUserID() uint {
	return u.ID
}
