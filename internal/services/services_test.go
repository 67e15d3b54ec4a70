package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/internal/db"
	"github.com/LailaElmallass/projectElite-sub000/internal/events"
	"github.com/LailaElmallass/projectElite-sub000/internal/feedback"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// memStore is a storage.Store keeping URLs only.
type memStore struct {
	mu      sync.Mutex
	puts    []string
	deleted []string
}

func (m *memStore) Put(_ context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "/storage/" + dir + "/" + fh.Filename
	m.puts = append(m.puts, url)
	return url, nil
}

func (m *memStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

type stubFeedback struct{ items []feedback.Item }

func (s *stubFeedback) Generate(_ context.Context, items []feedback.Item) feedback.Report {
	s.items = items
	return feedback.Report{
		PointsForts:           []string{"ok"},
		DomainesDAmelioration: []string{"more"},
		Recommandations:       []string{"read"},
	}
}

type testEnv struct {
	db     *gorm.DB
	gate   *policy.AuthGate
	store  *memStore
	events *events.Recorder
	fb     *stubFeedback

	auth          *AuthService
	users         *UserService
	profile       *ProfileService
	jobs          *JobOfferService
	formations    *FormationService
	capsules      *CapsuleService
	interviews    *InterviewService
	workshops     *WorkshopService
	notifications *NotificationService
	quizzes       *QuizService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := d.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(d); err != nil {
		t.Fatal(err)
	}

	e := &testEnv{db: d, gate: policy.NewAuthGate(), store: &memStore{}, events: &events.Recorder{}, fb: &stubFeedback{}}
	cache := auth.NewPrincipalCache(UserLookup(d), time.Minute)
	authn := auth.NewAuthenticator(auth.NewIssuer("test-secret", "elite-test", time.Hour), auth.NewMemoryRevoker(), cache)
	access := NewAccess(d)
	notifier := NewNotifier(e.events)

	e.auth = NewAuthService(d, authn)
	e.users = NewUserService(d, e.gate, cache)
	e.profile = NewProfileService(d, e.gate, e.store, authn, cache)
	e.jobs = NewJobOfferService(d, e.gate, access, e.store, notifier)
	e.formations = NewFormationService(d, e.gate, access, e.store)
	e.capsules = NewCapsuleService(d, e.gate, e.store)
	e.interviews = NewInterviewService(d, e.gate, access, notifier)
	e.workshops = NewWorkshopService(d, e.gate)
	e.notifications = NewNotificationService(d, e.gate, notifier)
	e.quizzes = NewQuizService(d, e.gate, e.fb)
	return e
}

// user inserts an account and returns its principal.
func (e *testEnv) user(t *testing.T, role auth.Role) auth.Principal {
	t.Helper()
	u := models.User{
		Name:        string(role),
		Email:       string(role) + time.Now().Format("150405.000000000") + "@elite.test",
		Password:    "x",
		Role:        role,
		CompanyName: "Acme",
		Industry:    "IT",
		Specialty:   "Go",
		Gender:      models.GenderMale,
	}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return u.Principal()
}

func input(values map[string]any) *validation.Input {
	return validation.NewInput(values, nil, "fr")
}

func inputWithFile(t *testing.T, values map[string]any, field, filename string, size int) *validation.Input {
	t.Helper()
	return validation.NewInput(values, map[string]*multipart.FileHeader{field: fileHeader(t, field, filename, size)}, "fr")
}

// fileHeader builds a real upload by parsing a multipart body.
func fileHeader(t *testing.T, field, filename string, size int) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(sample(filename, size))
	w.Close()
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field][0]
}

// magic holds the leading bytes content sniffing expects per extension.
var magic = map[string]string{
	".pdf": "%PDF-1.4\n",
	".png": "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR",
	".jpg": "\xff\xd8\xff\xe0\x00\x10JFIF\x00",
	".mp4": "\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2",
}

// sample returns file content of at least size bytes that sniffs as the
// type its name claims.
func sample(filename string, size int) []byte {
	b := []byte(magic[strings.ToLower(filepath.Ext(filename))])
	if len(b) < size {
		b = append(b, bytes.Repeat([]byte("x"), size-len(b))...)
	}
	return b
}

func wantKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperr.KindOf(err); got != want {
		t.Fatalf("kind = %s, want %s (err: %v)", got, want, err)
	}
}

func wantField(t *testing.T, err error, field string) {
	t.Helper()
	wantKind(t, err, apperr.KindValidation)
	ae := err.(*apperr.Error)
	if !ae.Fields.Has(field) {
		t.Fatalf("expected violation on %q, got %v", field, ae.Fields)
	}
}

func tomorrow() string  { return time.Now().Add(24 * time.Hour).Format(time.RFC3339) }
func yesterday() string { return time.Now().Add(-24 * time.Hour).Format(time.RFC3339) }

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, token, err := e.auth.Register(ctx, input(map[string]any{
		"email": "a@b.com", "password": "pw123456", "password_confirmation": "pw123456",
		"role": "utilisateur", "gender": "male", "goal": "etat", "name": "A",
	}))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" || !u.IsFirstTime || u.Role != auth.RoleUtilisateur {
		t.Fatalf("Register = %+v, token %q", u, token)
	}

	_, _, err = e.auth.Login(ctx, input(map[string]any{"email": "a@b.com", "password": "wrong-password"}))
	wantKind(t, err, apperr.KindUnauthenticated)
	if msg := err.(*apperr.Error).Message; msg != "Email ou mot de passe incorrect" {
		t.Errorf("message = %q", msg)
	}

	if _, token, err := e.auth.Login(ctx, input(map[string]any{"email": "a@b.com", "password": "pw123456"})); err != nil || token == "" {
		t.Fatalf("Login: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		values map[string]any
		field  string
	}{
		{"admin role", map[string]any{"name": "A", "email": "x@b.com", "password": "pw123456", "password_confirmation": "pw123456", "role": "admin"}, "role"},
		{"coach without specialty", map[string]any{"name": "A", "email": "x@b.com", "password": "pw123456", "password_confirmation": "pw123456", "role": "coach", "gender": "female"}, "specialty"},
		{"utilisateur without gender", map[string]any{"name": "A", "email": "x@b.com", "password": "pw123456", "password_confirmation": "pw123456", "role": "utilisateur"}, "gender"},
		{"entreprise without company", map[string]any{"name": "A", "email": "x@b.com", "password": "pw123456", "password_confirmation": "pw123456", "role": "entreprise", "industry": "IT"}, "company_name"},
		{"short password", map[string]any{"name": "A", "email": "x@b.com", "password": "short", "password_confirmation": "short", "role": "entreprise"}, "password"},
		{"unconfirmed password", map[string]any{"name": "A", "email": "x@b.com", "password": "pw123456", "role": "entreprise"}, "password"},
		{"password over bcrypt limit", map[string]any{"name": "A", "email": "x@b.com", "password": strings.Repeat("p", 80), "password_confirmation": strings.Repeat("p", 80), "role": "entreprise", "company_name": "C", "industry": "IT"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.auth.Register(ctx, input(tt.values))
			wantField(t, err, tt.field)
		})
	}
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, _, err := e.auth.Register(ctx, input(map[string]any{
		"name": "C", "email": "coach@b.com", "password": "pw123456", "password_confirmation": "pw123456",
		"role": "coach", "gender": "female", "specialty": "Go",
	}))
	if err != nil {
		t.Fatal(err)
	}
	p := u.Principal()

	err = e.profile.ChangePassword(ctx, p, input(map[string]any{
		"current_password": "wrong-one", "password": "newpass123", "password_confirmation": "newpass123",
	}))
	wantField(t, err, "current_password")

	long := strings.Repeat("n", 73)
	err = e.profile.ChangePassword(ctx, p, input(map[string]any{
		"current_password": "pw123456", "password": long, "password_confirmation": long,
	}))
	wantField(t, err, "password")

	err = e.profile.ChangePassword(ctx, p, input(map[string]any{
		"current_password": "pw123456", "password": "newpass123", "password_confirmation": "newpass123",
	}))
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := e.auth.Login(ctx, input(map[string]any{"email": "coach@b.com", "password": "newpass123"})); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	values := func() map[string]any {
		return map[string]any{
			"name": "E", "email": "corp@b.com", "password": "pw123456", "password_confirmation": "pw123456",
			"role": "entreprise", "company_name": "Corp", "industry": "IT",
		}
	}
	if _, _, err := e.auth.Register(ctx, input(values())); err != nil {
		t.Fatal(err)
	}
	_, _, err := e.auth.Register(ctx, input(values()))
	wantField(t, err, "email")
}

func TestUserAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.user(t, auth.RoleAdmin)
	coach := e.user(t, auth.RoleCoach)

	_, err := e.users.List(ctx, coach, "")
	wantKind(t, err, apperr.KindForbidden)
	_, err = e.users.List(ctx, auth.Principal{}, "")
	wantKind(t, err, apperr.KindUnauthenticated)

	list, err := e.users.List(ctx, admin, "coach")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != coach.UserID {
		t.Errorf("List(coach) = %+v", list)
	}

	if err := e.users.Delete(ctx, admin, coach.UserID); err != nil {
		t.Fatal(err)
	}
	if _, err := UserLookup(e.db)(ctx, coach.UserID); err == nil {
		t.Error("deleted user still resolves")
	}
}

func TestProfileUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.user(t, auth.RoleEntreprise)

	in := inputWithFile(t, map[string]any{"bio": "hello", "role": "admin"}, "profile_picture", "me.png", 10)
	u, err := e.profile.Update(ctx, p, in)
	if err != nil {
		t.Fatal(err)
	}
	if u.Bio != "hello" || u.Role != auth.RoleEntreprise || u.ProfilePicture == "" {
		t.Errorf("Update = %+v", u)
	}

	_, err = e.profile.Update(ctx, p, inputWithFile(t, nil, "profile_picture", "me.exe", 10))
	wantField(t, err, "profile_picture")
}
