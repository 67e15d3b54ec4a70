package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LailaElmallass/projectElite-sub000/gate"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated", gate.ErrUnauthenticated, 401, i18n.T("fr", "error.unauthenticated")},
		{"forbidden", fmt.Errorf("x: %w", gate.ErrForbidden), 403, i18n.T("fr", "error.forbidden")},
		{"not found", apperr.NotFound(), 404, i18n.T("fr", "error.not_found")},
		{"conflict", apperr.Conflict("déjà postulé"), 400, "déjà postulé"},
		{"internal keeps raw message", errors.New("db exploded"), 500, "db exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.message {
				t.Errorf("error = %q, want %q", body.Error, tt.message)
			}
		})
	}
}

func TestErrorValidationFields(t *testing.T) {
	v := validation.Violations{}
	v.Add("email", "bad")
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodPost, "/", nil), apperr.Invalid(v))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.Errors.First("email") != "bad" {
		t.Errorf("errors = %v", body.Errors)
	}
}

func TestInputJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/?page=2", strings.NewReader(`{"salary": 1200.5, "title": "Dev"}`))
	req.Header.Set("Content-Type", "application/json")
	in, err := Input(req)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if f, ok := in.Float("salary"); !ok || f != 1200.5 {
		t.Errorf("salary = %v %v", f, ok)
	}
	if s, _ := in.String("title"); s != "Dev" {
		t.Errorf("title = %q", s)
	}
	if n, ok := in.Int("page"); !ok || n != 2 {
		t.Errorf("page = %v %v", n, ok)
	}
}

func TestInputBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := Input(req); !errors.Is(err, ErrBadBody) {
		t.Errorf("expected ErrBadBody, got %v", err)
	}
}

func TestInputBodyLimit(t *testing.T) {
	defer func(n int64) { bodyLimit = n }(bodyLimit)
	bodyLimit = 64

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok"}`))
	small.Header.Set("Content-Type", "application/json")
	if _, err := Input(small); err != nil {
		t.Fatalf("small body: %v", err)
	}

	big := `{"title":"` + strings.Repeat("x", 100) + `"}`
	for _, ct := range []string{"application/json", "application/x-www-form-urlencoded"} {
		body := big
		if ct != "application/json" {
			body = "title=" + strings.Repeat("x", 100)
		}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", ct)
		if _, err := Input(req); !errors.Is(err, ErrTooLarge) {
			t.Errorf("%s: expected ErrTooLarge, got %v", ct, err)
		}
	}
}

func TestInputMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Ada")
	_ = mw.WriteField("skills[]", "go")
	_ = mw.WriteField("skills[]", "sql")
	_ = mw.WriteField("answers[3]", "1")
	fw, _ := mw.CreateFormFile("cv", "cv.pdf")
	_, _ = fw.Write([]byte("%PDF-1.4"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	in, err := Input(req)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if s, _ := in.String("name"); s != "Ada" {
		t.Errorf("name = %q", s)
	}
	if skills, ok := in.Strings("skills"); !ok || len(skills) != 2 {
		t.Errorf("skills = %v", skills)
	}
	if m, ok := in.IntMap("answers"); !ok || m["3"] != 1 {
		t.Errorf("answers = %v", m)
	}
	if fh, ok := in.File("cv"); !ok || fh.Filename != "cv.pdf" {
		t.Errorf("cv missing")
	}
}

func TestLanguage(t *testing.T) {
	var got string
	h := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.LangFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "en" {
		t.Errorf("lang = %q", got)
	}
}
