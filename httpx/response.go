package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

type ErrorResponse struct {
	Error   string                `json:"error"`
	Errors  validation.Violations `json:"errors,omitempty"`
	Details any                   `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error writes err as JSON with the status of its kind.
// Unexpected errors are logged and their raw message is returned.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())
	kind := apperr.KindOf(err)
	status := StatusOf(kind)

	var msg string
	var fields validation.Violations
	var e *apperr.Error
	if errors.As(err, &e) {
		msg = e.Message
		fields = e.Fields
	}
	switch kind {
	case apperr.KindUnauthenticated:
		if msg == "" {
			msg = i18n.T(lang, "error.unauthenticated")
		}
	case apperr.KindForbidden:
		if msg == "" {
			msg = i18n.T(lang, "error.forbidden")
		}
	case apperr.KindNotFound:
		if msg == "" {
			msg = i18n.T(lang, "error.not_found")
		}
	case apperr.KindValidation:
		if msg == "" {
			msg = i18n.T(lang, "error.validation")
		}
	case apperr.KindConflict:
		if msg == "" {
			msg = i18n.T(lang, "error.bad_request")
		}
	case apperr.KindInternal:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		msg = err.Error()
	}
	JSON(w, status, ErrorResponse{Error: msg, Errors: fields})
}
