package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

// MaxMemory bounds the in-memory part of multipart bodies; larger files spill to disk.
const MaxMemory = 32 << 20

// MaxBodyBytes caps every request body: the largest upload (a 100 MB video)
// plus room for the other form fields and multipart framing.
const MaxBodyBytes = validation.VideoMaxKB*1024 + 10<<20

// bodyLimit is MaxBodyBytes; tests lower it.
var bodyLimit int64 = MaxBodyBytes

var (
	ErrBadBody  = errors.New("invalid_body")
	ErrTooLarge = errors.New("body_too_large")
)

// badBody reports an oversized body as ErrTooLarge and anything else as ErrBadBody.
func badBody(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrTooLarge
	}
	return ErrBadBody
}

// Input decodes a JSON, urlencoded or multipart body into a validation.Input.
// Query parameters are merged in without overriding body values.
func Input(r *http.Request) (*validation.Input, error) {
	values := map[string]any{}
	files := map[string]*multipart.FileHeader{}
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, bodyLimit)
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case ct == "multipart/form-data":
		if err := r.ParseMultipartForm(MaxMemory); err != nil {
			return nil, badBody(err)
		}
		mergeForm(values, r.MultipartForm.Value)
		for k, fhs := range r.MultipartForm.File {
			if len(fhs) > 0 {
				files[k] = fhs[0]
			}
		}
	case ct == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, badBody(err)
		}
		mergeForm(values, r.PostForm)
	case r.Body != nil && r.Body != http.NoBody:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, badBody(err)
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&values); err != nil {
				return nil, ErrBadBody
			}
		}
	}

	for k, vs := range r.URL.Query() {
		if _, ok := values[k]; !ok && len(vs) > 0 {
			values[k] = vs[0]
		}
	}
	return validation.NewInput(values, files, i18n.LangFromContext(r.Context())), nil
}

// mergeForm flattens form values. Keys ending in [] or sent more than once
// become lists; "name[key]" pairs become maps.
func mergeForm(dst map[string]any, form map[string][]string) {
	for k, vs := range form {
		switch {
		case strings.HasSuffix(k, "[]"):
			dst[strings.TrimSuffix(k, "[]")] = toAnySlice(vs)
		case strings.HasSuffix(k, "]") && strings.Contains(k, "["):
			i := strings.Index(k, "[")
			name, key := k[:i], k[i+1:len(k)-1]
			m, ok := dst[name].(map[string]any)
			if !ok {
				m = map[string]any{}
				dst[name] = m
			}
			if len(vs) > 0 {
				m[key] = vs[0]
			}
		case len(vs) > 1:
			dst[k] = toAnySlice(vs)
		case len(vs) == 1:
			dst[k] = vs[0]
		}
	}
}

func toAnySlice(vs []string) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// Language stores the request language detected from Accept-Language.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
