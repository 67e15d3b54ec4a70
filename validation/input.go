package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LailaElmallass/projectElite-sub000/i18n"
)

// Input is raw request data (decoded JSON body or multipart form) plus the
// violations recorded while reading it.
//
// Typed accessors record a type violation and return ok=false when a present
// value cannot be coerced; the field is then marked so that later constraint
// checks on it are skipped.
type Input struct {
	values     map[string]any
	files      map[string]*multipart.FileHeader
	lang       string
	typeFailed map[string]bool
	V          Violations
}

// NewInput wraps raw values and uploaded files. lang selects the message language.
func NewInput(values map[string]any, files map[string]*multipart.FileHeader, lang string) *Input {
	if values == nil {
		values = map[string]any{}
	}
	if files == nil {
		files = map[string]*multipart.FileHeader{}
	}
	return &Input{
		values:     values,
		files:      files,
		lang:       lang,
		typeFailed: map[string]bool{},
		V:          Violations{},
	}
}

func (in *Input) Valid() bool { return in.V.Empty() }

func (in *Input) Lang() string { return in.lang }

// Present reports whether the key was sent at all, even as null.
func (in *Input) Present(field string) bool {
	if _, ok := in.values[field]; ok {
		return true
	}
	_, ok := in.files[field]
	return ok
}

// Has reports whether field carries a non-empty value or file.
func (in *Input) Has(field string) bool {
	if _, ok := in.files[field]; ok {
		return true
	}
	v, ok := in.values[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	}
	return true
}

// Raw returns the undecoded value of field.
func (in *Input) Raw(field string) any { return in.values[field] }

// Fail records a violation for field using a catalog code.
func (in *Input) Fail(field, code string, args ...any) {
	in.V.Add(field, in.msg(code, append([]any{field}, args...)...))
}

func (in *Input) msg(code string, args ...any) string {
	return i18n.T(in.lang, code, args...)
}

func (in *Input) failType(field, code string) {
	in.typeFailed[field] = true
	in.Fail(field, code)
}

// skip reports whether constraint checks on field must be skipped.
func (in *Input) skip(field string) bool { return in.typeFailed[field] }

// Required records a violation when field is missing or empty.
func (in *Input) Required(field string) bool {
	if !in.Has(field) {
		in.Fail(field, "validation.required")
		return false
	}
	return true
}

// RequiredIf applies Required only when cond holds.
func (in *Input) RequiredIf(field string, cond bool) bool {
	if !cond {
		return true
	}
	return in.Required(field)
}

// String returns the trimmed string value of field.
func (in *Input) String(field string) (string, bool) {
	if !in.Has(field) {
		return "", false
	}
	if t, ok := in.values[field].(string); ok {
		return strings.TrimSpace(t), true
	}
	in.failType(field, "validation.string")
	return "", false
}

// Int returns the integer value of field. Numeric strings are accepted.
func (in *Input) Int(field string) (int, bool) {
	if !in.Has(field) {
		return 0, false
	}
	switch t := in.values[field].(type) {
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	case int:
		return t, true
	case json.Number:
		if n, err := strconv.Atoi(t.String()); err == nil {
			return n, true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	in.failType(field, "validation.integer")
	return 0, false
}

// Float returns the numeric value of field. Numeric strings are accepted.
func (in *Input) Float(field string) (float64, bool) {
	if !in.Has(field) {
		return 0, false
	}
	switch t := in.values[field].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	in.failType(field, "validation.numeric")
	return 0, false
}

// Bool accepts true/false, 1/0 and their string forms.
func (in *Input) Bool(field string) (bool, bool) {
	if !in.Has(field) {
		return false, false
	}
	switch t := in.values[field].(type) {
	case bool:
		return t, true
	case float64:
		if t == 0 || t == 1 {
			return t == 1, true
		}
	case json.Number:
		if s := t.String(); s == "0" || s == "1" {
			return s == "1", true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "on", "yes":
			return true, true
		case "0", "false", "off", "no":
			return false, true
		}
	}
	in.failType(field, "validation.boolean")
	return false, false
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Date parses field using the common ISO-8601 layouts.
func (in *Input) Date(field string) (time.Time, bool) {
	s, ok := in.String(field)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	in.failType(field, "validation.date")
	return time.Time{}, false
}

// Email returns field when it holds a bare email address.
func (in *Input) Email(field string) (string, bool) {
	s, ok := in.String(field)
	if !ok {
		return "", false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
		in.failType(field, "validation.email")
		return "", false
	}
	return strings.ToLower(s), true
}

// URL returns field when it is an absolute http(s) URL.
func (in *Input) URL(field string) (string, bool) {
	s, ok := in.String(field)
	if !ok {
		return "", false
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		in.failType(field, "validation.url")
		return "", false
	}
	return s, true
}

// Strings returns an array of strings.
func (in *Input) Strings(field string) ([]string, bool) {
	if !in.Has(field) {
		return nil, false
	}
	items, ok := in.values[field].([]any)
	if !ok {
		in.failType(field, "validation.array")
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			in.failType(field, "validation.array")
			return nil, false
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, true
}

// IDs returns an array of positive integer ids.
func (in *Input) IDs(field string) ([]uint, bool) {
	if !in.Has(field) {
		return nil, false
	}
	items, ok := in.values[field].([]any)
	if !ok {
		in.failType(field, "validation.array")
		return nil, false
	}
	out := make([]uint, 0, len(items))
	for _, item := range items {
		id, ok := toID(item)
		if !ok {
			in.failType(field, "validation.array")
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

// IntMap returns an object whose values are integers, keyed by the raw keys.
func (in *Input) IntMap(field string) (map[string]int, bool) {
	if !in.Has(field) {
		return nil, false
	}
	obj, ok := in.values[field].(map[string]any)
	if !ok {
		in.failType(field, "validation.array")
		return nil, false
	}
	out := make(map[string]int, len(obj))
	for k, v := range obj {
		n, ok := toInt(v)
		if !ok {
			in.failType(field, "validation.array")
			return nil, false
		}
		out[k] = n
	}
	return out, true
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	case json.Number:
		if n, err := strconv.Atoi(t.String()); err == nil {
			return n, true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func toID(v any) (uint, bool) {
	var s string
	switch t := v.(type) {
	case float64:
		if t > 0 && t == math.Trunc(t) {
			return uint(t), true
		}
		return 0, false
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		s = fmt.Sprint(t)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// MaxLen checks the rune length of s.
func (in *Input) MaxLen(field, s string, n int) {
	if in.skip(field) {
		return
	}
	if utf8.RuneCountInString(s) > n {
		in.Fail(field, "validation.max.string", n)
	}
}

// MaxBytes bounds the encoded size of s, for values fed to byte-limited
// functions such as bcrypt.
func (in *Input) MaxBytes(field, s string, n int) {
	if in.skip(field) {
		return
	}
	if len(s) > n {
		in.Fail(field, "validation.max.string", n)
	}
}

func (in *Input) MinLen(field, s string, n int) {
	if in.skip(field) {
		return
	}
	if utf8.RuneCountInString(s) < n {
		in.Fail(field, "validation.min.string", n)
	}
}

func (in *Input) Min(field string, x, minVal float64) {
	if in.skip(field) {
		return
	}
	if x < minVal {
		in.Fail(field, "validation.min.numeric", minVal)
	}
}

func (in *Input) Max(field string, x, maxVal float64) {
	if in.skip(field) {
		return
	}
	if x > maxVal {
		in.Fail(field, "validation.max.numeric", maxVal)
	}
}

// MinItems checks the length of an array field.
func (in *Input) MinItems(field string, n, minItems int) {
	if in.skip(field) {
		return
	}
	if n < minItems {
		in.Fail(field, "validation.min.array", minItems)
	}
}

// In checks enum membership.
func (in *Input) In(field, s string, allowed ...string) bool {
	if in.skip(field) {
		return false
	}
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	in.Fail(field, "validation.in")
	return false
}

// After requires t to be strictly after ref. label names the reference in the message.
func (in *Input) After(field string, t, ref time.Time, label string) {
	if in.skip(field) {
		return
	}
	if !t.After(ref) {
		in.Fail(field, "validation.after", label)
	}
}

// Gte requires x >= y, where other names the compared field.
func (in *Input) Gte(field string, x, y float64, other string) {
	if in.skip(field) {
		return
	}
	if x < y {
		in.Fail(field, "validation.gte", other)
	}
}

// Confirmed requires field_confirmation to equal field.
func (in *Input) Confirmed(field string) {
	if in.skip(field) {
		return
	}
	v, _ := in.values[field].(string)
	c, _ := in.values[field+"_confirmation"].(string)
	if v != c {
		in.Fail(field, "validation.confirmed")
	}
}

// Exists records a violation when a referenced record was not found.
func (in *Input) Exists(field string, found bool) {
	if !in.skip(field) && !found {
		in.Fail(field, "validation.exists")
	}
}

// Unique records a violation when the value is already taken.
func (in *Input) Unique(field string, taken bool) {
	if !in.skip(field) && taken {
		in.Fail(field, "validation.unique")
	}
}
