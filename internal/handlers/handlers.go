// Package handlers adapts the services to HTTP: decode the request, call the
// service with the principal of the request, encode the result.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/apperr"
	"github.com/LailaElmallass/projectElite-sub000/validation"
)

func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}

// pathID reads a numeric route parameter. Malformed ids are not found.
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound()
	}
	return uint(id), nil
}

// readInput decodes the body and writes a 400 when it cannot be read.
func readInput(w http.ResponseWriter, r *http.Request) (*validation.Input, bool) {
	in, err := httpx.Input(r)
	if err != nil {
		lang := i18n.LangFromContext(r.Context())
		if errors.Is(err, httpx.ErrTooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, i18n.T(lang, "error.too_large"), nil)
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "error.bad_request"), nil)
		return nil, false
	}
	return in, true
}

// respond writes v with status, or the error.
func respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, status, v)
}

func noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WithID wraps handlers that take the {id} route parameter.
func WithID(fn func(w http.ResponseWriter, r *http.Request, id uint)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		fn(w, r, id)
	}
}
