package models

import "time"

type ContractType string

const (
	ContractCDI        ContractType = "CDI"
	ContractCDD        ContractType = "CDD"
	ContractStage      ContractType = "Stage"
	ContractFreelance  ContractType = "Freelance"
	ContractAlternance ContractType = "Alternance"
)

func ContractTypes() []string {
	return []string{
		string(ContractCDI), string(ContractCDD), string(ContractStage),
		string(ContractFreelance), string(ContractAlternance),
	}
}

// JobOffer is published by an entreprise or an admin.
// Implements the Ownable interface for ownership-based authorization.
type JobOffer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// UserID is the owner of this offer
	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"company,omitempty"`

	Title        string       `gorm:"size:255;not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Requirements string       `gorm:"type:text" json:"requirements,omitempty"`
	Location     string       `gorm:"size:255;not null" json:"location"`
	SalaryMin    *float64     `json:"salary_min"`
	SalaryMax    *float64     `json:"salary_max"`
	ContractType ContractType `gorm:"size:20" json:"contract_type,omitempty"`
	ClosingDate  *time.Time   `json:"closing_date"`

	Applications []JobApplication `gorm:"constraint:OnDelete:CASCADE" json:"applications,omitempty"`

	// Computed per principal, never stored
	HasApplied bool `gorm:"-" json:"has_applied"`
}

// GetUserID implements the Ownable interface for authorization.
func (j *JobOffer) GetUserID() uint {
	return j.UserID
}

// IsClosed reports whether the closing date has passed at now.
func (j *JobOffer) IsClosed(now time.Time) bool {
	return j.ClosingDate != nil && !j.ClosingDate.After(now)
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

func ApplicationStatuses() []string {
	return []string{string(ApplicationPending), string(ApplicationAccepted), string(ApplicationRejected)}
}

// JobApplication is a candidate's application. A user applies at most once per offer.
type JobApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobOfferID uint      `gorm:"not null;uniqueIndex:idx_job_applications_user_offer" json:"job_offer_id"`
	JobOffer   *JobOffer `gorm:"foreignKey:JobOfferID" json:"job_offer,omitempty"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_job_applications_user_offer;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CVURL       string            `gorm:"size:500;not null" json:"cv_url"`
	CoverLetter string            `gorm:"type:text" json:"cover_letter,omitempty"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:pending" json:"status"`
}
