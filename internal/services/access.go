package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
)

// Access answers read-only questions about what a principal may see or has done.
type Access struct {
	db *gorm.DB
}

func NewAccess(db *gorm.DB) *Access {
	return &Access{db: db}
}

// HasGlobalAccess reports whether the user bought the global subscription.
func (a *Access) HasGlobalAccess(ctx context.Context, userID uint) (bool, error) {
	return exists(ctx, a.db, &models.UserPayment{}, "user_id = ? AND is_global = ?", userID, true)
}

// HasAccessToFormation: admin, global payment or a payment for this formation.
// The price plays no part; a free formation is still "bought" for 0.
func (a *Access) HasAccessToFormation(ctx context.Context, p auth.Principal, f *models.Formation) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}
	return exists(ctx, a.db, &models.UserPayment{},
		"user_id = ? AND (is_global = ? OR formation_id = ?)", p.UserID, true, f.ID)
}

// PaidFormationIDs returns the formations paid individually plus whether a global payment exists.
func (a *Access) PaidFormationIDs(ctx context.Context, userID uint) (map[uint]bool, bool, error) {
	var payments []models.UserPayment
	if err := a.db.WithContext(ctx).Where("user_id = ?", userID).Find(&payments).Error; err != nil {
		return nil, false, err
	}
	ids := make(map[uint]bool, len(payments))
	global := false
	for _, p := range payments {
		if p.IsGlobal {
			global = true
		}
		if p.FormationID != nil {
			ids[*p.FormationID] = true
		}
	}
	return ids, global, nil
}

func (a *Access) CompletedFormationIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	return a.idSet(ctx, &models.FormationCompletion{}, "formation_id", "user_id = ?", userID)
}

func (a *Access) IsFormationCompleted(ctx context.Context, userID, formationID uint) (bool, error) {
	return exists(ctx, a.db, &models.FormationCompletion{}, "user_id = ? AND formation_id = ?", userID, formationID)
}

func (a *Access) HasAppliedToJob(ctx context.Context, userID, offerID uint) (bool, error) {
	return exists(ctx, a.db, &models.JobApplication{}, "user_id = ? AND job_offer_id = ?", userID, offerID)
}

func (a *Access) AppliedJobIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	return a.idSet(ctx, &models.JobApplication{}, "job_offer_id", "user_id = ?", userID)
}

func (a *Access) HasAppliedToInterview(ctx context.Context, userID, interviewID uint) (bool, error) {
	return exists(ctx, a.db, &models.InterviewApplication{}, "user_id = ? AND interview_id = ?", userID, interviewID)
}

func (a *Access) AppliedInterviewIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	return a.idSet(ctx, &models.InterviewApplication{}, "interview_id", "user_id = ?", userID)
}

func (a *Access) idSet(ctx context.Context, model any, column, query string, args ...any) (map[uint]bool, error) {
	var ids []uint
	if err := a.db.WithContext(ctx).Model(model).Where(query, args...).Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
