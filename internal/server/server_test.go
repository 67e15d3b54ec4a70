package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/db"
	"github.com/LailaElmallass/projectElite-sub000/internal/events"
	"github.com/LailaElmallass/projectElite-sub000/internal/feedback"
	"github.com/LailaElmallass/projectElite-sub000/internal/handlers"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/internal/services"
	"github.com/LailaElmallass/projectElite-sub000/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
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

	store := storage.NewLocalStore(t.TempDir(), "/storage", "")
	g := policy.NewAuthGate()
	cache := auth.NewPrincipalCache(services.UserLookup(d), time.Minute)
	authn := auth.NewAuthenticator(auth.NewIssuer("test-secret", "elite-test", time.Hour), auth.NewMemoryRevoker(), cache)
	access := services.NewAccess(d)
	notifier := services.NewNotifier(events.Nop{})

	h := Handlers{
		Auth:          handlers.NewAuthHandler(services.NewAuthService(d, authn)),
		Users:         handlers.NewUserHandler(services.NewUserService(d, g, cache)),
		Profile:       handlers.NewProfileHandler(services.NewProfileService(d, g, store, authn, cache)),
		JobOffers:     handlers.NewJobOfferHandler(services.NewJobOfferService(d, g, access, store, notifier)),
		Formations:    handlers.NewFormationHandler(services.NewFormationService(d, g, access, store)),
		Capsules:      handlers.NewCapsuleHandler(services.NewCapsuleService(d, g, store)),
		Interviews:    handlers.NewInterviewHandler(services.NewInterviewService(d, g, access, notifier)),
		Workshops:     handlers.NewWorkshopHandler(services.NewWorkshopService(d, g)),
		Notifications: handlers.NewNotificationHandler(services.NewNotificationService(d, g, notifier)),
		Quizzes:       handlers.NewQuizHandler(services.NewQuizService(d, g, feedback.NewGenerator(nil))),
	}
	srv := httptest.NewServer(New(Options{
		DB:             d,
		Authn:          authn,
		Gate:           g,
		AllowedOrigins: []string{"http://localhost:3000"},
		Files:          store.Handler(),
		FilesPrefix:    store.Prefix(),
	}, h))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func register(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/register", "", map[string]any{
		"name": "Nadia", "email": email, "password": "pw123456", "password_confirmation": "pw123456",
		"role": "utilisateur", "gender": "female", "goal": "etat",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register returned no token: %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["is_first_time"] != true {
		t.Errorf("is_first_time = %v", user["is_first_time"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password hash exposed")
	}
	return token
}

func TestRegisterLoginLogout(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "nadia@elite.test")

	resp, body := do(t, srv, http.MethodGet, "/user", token, nil)
	if resp.StatusCode != http.StatusOK || body["email"] != "nadia@elite.test" {
		t.Fatalf("GET /user = %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/login", "", map[string]any{"email": "nadia@elite.test", "password": "nope-nope"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", resp.StatusCode)
	}
	if body["error"] != "Email ou mot de passe incorrect" {
		t.Errorf("bad login message = %v", body["error"])
	}

	resp, body = do(t, srv, http.MethodPost, "/login", "", map[string]any{"email": "nadia@elite.test", "password": "pw123456"})
	if resp.StatusCode != http.StatusOK || body["token"] == "" {
		t.Fatalf("login = %d %v", resp.StatusCode, body)
	}

	if resp, _ = do(t, srv, http.MethodPost, "/logout", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	if resp, _ = do(t, srv, http.MethodGet, "/user", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterValidationError(t *testing.T) {
	srv := newTestServer(t)
	resp, body := do(t, srv, http.MethodPost, "/register", "", map[string]any{"email": "not-an-email"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, ok := body["errors"].(map[string]any); !ok {
		t.Errorf("errors missing: %v", body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/user", "/formations", "/job-offers", "/notifications", "/tests"} {
		if resp, _ := do(t, srv, http.MethodGet, path, "", nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, resp.StatusCode)
		}
	}
	if resp, _ := do(t, srv, http.MethodGet, "/user", "garbage", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("invalid token = %d, want 401", resp.StatusCode)
	}
}

func TestRoleAndIDChecks(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "cand@elite.test")

	if resp, _ := do(t, srv, http.MethodGet, "/users", token, nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("candidate GET /users = %d, want 403", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodPost, "/job-offers", token, map[string]any{"title": "x"}); resp.StatusCode != http.StatusForbidden {
		t.Errorf("candidate POST /job-offers = %d, want 403", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/admin/formations", token, nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("candidate GET /admin/formations = %d, want 403", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/job-offers/abc", token, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("malformed id = %d, want 404", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/job-offers/999", token, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing offer = %d, want 404", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodGet, "/notifications", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("notifications = %d", resp.StatusCode)
	}
	if body["unread_count"] != float64(0) {
		t.Errorf("unread_count = %v", body["unread_count"])
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	resp, body := do(t, srv, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", resp.StatusCode, body)
	}

	res, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(raw), `http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Errorf("metrics missing health counter:\n%s", raw)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestDeleteProfileRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "gone@elite.test")

	if resp, _ := do(t, srv, http.MethodDelete, "/profile", token, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE /profile = %d", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/profile", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("deleted profile token = %d, want 401", resp.StatusCode)
	}
	resp, _ := do(t, srv, http.MethodPost, "/login", "", map[string]any{"email": "gone@elite.test", "password": "pw123456"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login after delete = %d, want 401", resp.StatusCode)
	}
}
