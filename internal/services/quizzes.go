package services

import (
	"context"
	"math"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/feedback"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// FeedbackGenerator turns graded answers into a report. It never fails.
type FeedbackGenerator interface {
	Generate(ctx context.Context, items []feedback.Item) feedback.Report
}

// QuizService manages tests, their questions and submissions.
type QuizService struct {
	db       *gorm.DB
	gate     *policy.AuthGate
	feedback FeedbackGenerator
}

func NewQuizService(db *gorm.DB, g *policy.AuthGate, fb FeedbackGenerator) *QuizService {
	return &QuizService{db: db, gate: g, feedback: fb}
}

const questionsCount = "(SELECT COUNT(*) FROM questions WHERE questions.test_id = tests.id) AS questions_count"

func (s *QuizService) withCount(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Test{}).Select("tests.*, " + questionsCount)
}

// List returns the tests with their question count.
func (s *QuizService) List(ctx context.Context, p auth.Principal) ([]models.Test, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResTest, nil); err != nil {
		return nil, err
	}
	var list []models.Test
	if err := s.withCount(ctx).Order("tests.created_at DESC, tests.id DESC").Find(&list).Error; err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func (s *QuizService) getTest(ctx context.Context, id uint) (*models.Test, error) {
	var t models.Test
	if err := s.withCount(ctx).Where("tests.id = ?", id).First(&t).Error; err != nil {
		return nil, dbError(err)
	}
	return &t, nil
}

// Questions returns the questions of a test. Correct answers are only
// revealed to admins.
func (s *QuizService) Questions(ctx context.Context, p auth.Principal, testID uint) ([]models.QuestionView, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionView, policy.ResTest, nil); err != nil {
		return nil, err
	}
	if _, err := find[models.Test](ctx, s.db, testID); err != nil {
		return nil, err
	}
	var qs []models.Question
	if err := s.db.WithContext(ctx).Where("test_id = ?", testID).Order("id ASC").Find(&qs).Error; err != nil {
		return nil, dbError(err)
	}
	out := make([]models.QuestionView, len(qs))
	for i := range qs {
		out[i] = qs[i].View(p.IsAdmin())
	}
	return out, nil
}

// Submit grades the answers, stores the result with its feedback and moves
// the user to the level matching the score.
func (s *QuizService) Submit(ctx context.Context, p auth.Principal, in *validation.Input) (*models.TestResult, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionSubmit, policy.ResTest, nil); err != nil {
		return nil, err
	}
	var test *models.Test
	if in.Required("test_id") {
		if id, ok := in.Int("test_id"); ok {
			t, err := find[models.Test](ctx, s.db, uint(id), "Questions")
			if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
				return nil, err
			}
			in.Exists("test_id", t != nil)
			test = t
		}
	}
	in.Required("answers")
	answers, _ := in.IntMap("answers")
	if err := invalid(in); err != nil {
		return nil, err
	}

	res := grade(test, answers)
	res.UserID = p.UserID
	res.Feedback = datatypes.NewJSONType(s.feedback.Generate(ctx, feedbackItems(test, answers)))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", p.UserID).Updates(map[string]any{
			"is_first_time":   false,
			"target_audience": res.Level,
		}).Error
	})
	if err != nil {
		return nil, dbError(err)
	}
	return res, nil
}

// grade scores answers against the questions of t. Missing answers count as wrong.
func grade(t *models.Test, answers map[string]int) *models.TestResult {
	score := 0
	for i := range t.Questions {
		q := &t.Questions[i]
		if a, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]; ok && q.IsCorrect(a) {
			score++
		}
	}
	total := len(t.Questions)
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(score)*10000/float64(total)) / 100
	}
	return &models.TestResult{
		TestID:     t.ID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Level:      models.AudienceForScore(percentage),
		Answers:    datatypes.NewJSONType(answers),
	}
}

func feedbackItems(t *models.Test, answers map[string]int) []feedback.Item {
	items := make([]feedback.Item, len(t.Questions))
	for i := range t.Questions {
		q := &t.Questions[i]
		a, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if !ok {
			a = -1
		}
		items[i] = feedback.Item{Question: q.Text, Options: []string(q.Options), Answer: a, Correct: q.CorrectAnswer}
	}
	return items
}

// Results lists the submissions of the principal, newest first.
func (s *QuizService) Results(ctx context.Context, p auth.Principal) ([]models.TestResult, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionList, policy.ResTest, nil); err != nil {
		return nil, err
	}
	var list []models.TestResult
	err := s.db.WithContext(ctx).Preload("Test").Where("user_id = ?", p.UserID).
		Order("created_at DESC, id DESC").Find(&list).Error
	if err != nil {
		return nil, dbError(err)
	}
	return list, nil
}

func bindTest(in *validation.Input, t *models.Test, creating bool) error {
	if creating {
		in.Required("title")
	}
	if v, ok := in.String("title"); ok {
		in.MaxLen("title", v, 255)
		t.Title = v
	}
	setString(in, "description", 5000, &t.Description)
	bindAudience(in, "target_audience", &t.TargetAudience)
	return invalid(in)
}

func (s *QuizService) CreateTest(ctx context.Context, p auth.Principal, in *validation.Input) (*models.Test, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResTest, nil); err != nil {
		return nil, err
	}
	t := &models.Test{}
	if err := bindTest(in, t, true); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, dbError(err)
	}
	return t, nil
}

func (s *QuizService) UpdateTest(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.Test, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResTest, nil); err != nil {
		return nil, err
	}
	t, err := s.getTest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := bindTest(in, t, false); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(t).Select("title", "description", "target_audience").Updates(t).Error
	if err != nil {
		return nil, dbError(err)
	}
	return t, nil
}

// DeleteTest removes the questions and results of the test, then the test.
func (s *QuizService) DeleteTest(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResTest, nil); err != nil {
		return err
	}
	t, err := find[models.Test](ctx, s.db, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", t.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", t.ID).Delete(&models.TestResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(t).Error
	})
	return dbError(err)
}

func bindQuestion(in *validation.Input, q *models.Question, creating bool) error {
	if creating {
		in.Required("text")
		in.Required("options")
		in.Required("correct_answer")
	}
	if v, ok := in.String("text"); ok {
		q.Text = v
	}
	if opts, ok := in.Strings("options"); ok {
		in.MinItems("options", len(opts), 2)
		q.Options = datatypes.JSONSlice[string](opts)
	}
	if v, ok := in.Int("correct_answer"); ok {
		q.CorrectAnswer = v
	}
	if !in.V.Has("options") && (in.Present("options") || in.Present("correct_answer")) {
		in.Min("correct_answer", float64(q.CorrectAnswer), 0)
		in.Max("correct_answer", float64(q.CorrectAnswer), float64(len(q.Options)-1))
	}
	return invalid(in)
}

func (s *QuizService) AddQuestion(ctx context.Context, p auth.Principal, testID uint, in *validation.Input) (*models.Question, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionCreate, policy.ResTest, nil); err != nil {
		return nil, err
	}
	if _, err := find[models.Test](ctx, s.db, testID); err != nil {
		return nil, err
	}
	q := &models.Question{TestID: testID}
	if err := bindQuestion(in, q, true); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, dbError(err)
	}
	return q, nil
}

func (s *QuizService) UpdateQuestion(ctx context.Context, p auth.Principal, id uint, in *validation.Input) (*models.Question, error) {
	if err := s.gate.Authorize(ctx, p, gate.ActionUpdate, policy.ResTest, nil); err != nil {
		return nil, err
	}
	q, err := find[models.Question](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := bindQuestion(in, q, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(q).Error; err != nil {
		return nil, dbError(err)
	}
	return q, nil
}

func (s *QuizService) DeleteQuestion(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.gate.Authorize(ctx, p, gate.ActionDelete, policy.ResTest, nil); err != nil {
		return err
	}
	q, err := find[models.Question](ctx, s.db, id)
	if err != nil {
		return err
	}
	return dbError(s.db.WithContext(ctx).Delete(q).Error)
}
