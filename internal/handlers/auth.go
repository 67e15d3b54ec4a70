package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/i18n"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type tokenResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	u, token, err := h.svc.Register(r.Context(), in)
	respond(w, r, http.StatusCreated, tokenResponse{User: u, Token: token}, err)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	u, token, err := h.svc.Login(r.Context(), in)
	respond(w, r, http.StatusOK, tokenResponse{User: u, Token: token}, err)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	if err := h.svc.Logout(r.Context(), claims); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": i18n.T(i18n.LangFromContext(r.Context()), "auth.logged_out")})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context(), principal(r))
	respond(w, r, http.StatusOK, u, err)
}
