package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

// UserHandler serves the admin user management.
type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context(), principal(r), r.URL.Query().Get("role"))
	respond(w, r, http.StatusOK, users, err)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request, id uint) {
	u, err := h.svc.Get(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, u, err)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, u, err)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Update(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, u, err)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}

// ProfileHandler lets users manage their own account.
type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), principal(r))
	respond(w, r, http.StatusOK, u, err)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Update(r.Context(), principal(r), in)
	respond(w, r, http.StatusOK, u, err)
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	noContent(w, r, h.svc.ChangePassword(r.Context(), principal(r), in))
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), principal(r), claims); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
