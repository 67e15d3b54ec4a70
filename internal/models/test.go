package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/LailaElmallass/projectElite-sub000/internal/feedback"
)

// Test is an onboarding quiz. QuestionsCount is filled by a count subquery on read.
type Test struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	TargetAudience *Audience `gorm:"size:20" json:"target_audience"`

	QuestionsCount int64      `gorm:"->;-:migration" json:"questions_count"`
	Questions      []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question holds its options and the index of the right one.
type Question struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	TestID        uint                        `gorm:"index;not null" json:"test_id"`
	Text          string                      `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"correct_answer"`
}

// QuestionView is what is sent to clients. CorrectAnswer is only set for admins.
type QuestionView struct {
	ID            uint     `json:"id"`
	TestID        uint     `json:"test_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}

// Public hides the correct answer.
func (q *Question) Public() QuestionView {
	return QuestionView{ID: q.ID, TestID: q.TestID, Text: q.Text, Options: []string(q.Options)}
}

// View reveals the correct answer when reveal is set.
func (q *Question) View(reveal bool) QuestionView {
	v := q.Public()
	if reveal {
		answer := q.CorrectAnswer
		v.CorrectAnswer = &answer
	}
	return v
}

// IsCorrect reports whether answer is the right option index.
func (q *Question) IsCorrect(answer int) bool {
	return answer == q.CorrectAnswer
}

// TestResult is one graded submission.
type TestResult struct {
	ID         uint                                `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time                           `json:"created_at"`
	UserID     uint                                `gorm:"index;not null" json:"user_id"`
	TestID     uint                                `gorm:"index;not null" json:"test_id"`
	Test       *Test                               `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"test,omitempty"`
	Score      int                                 `gorm:"not null" json:"score"`
	Total      int                                 `gorm:"not null" json:"total"`
	Percentage float64                             `gorm:"not null" json:"percentage"`
	Level      Audience                            `gorm:"size:20;not null" json:"target_audience"`
	Answers    datatypes.JSONType[map[string]int]  `json:"answers"`
	Feedback   datatypes.JSONType[feedback.Report] `json:"feedback"`
}

// GetUserID implements the Ownable interface.
func (r *TestResult) GetUserID() uint {
	return r.UserID
}
