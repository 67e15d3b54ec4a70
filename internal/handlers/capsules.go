package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type CapsuleHandler struct {
	svc *services.CapsuleService
}

func NewCapsuleHandler(svc *services.CapsuleService) *CapsuleHandler {
	return &CapsuleHandler{svc: svc}
}

func (h *CapsuleHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *CapsuleHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.AdminList(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *CapsuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, c, err)
}

func (h *CapsuleHandler) Update(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Update(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, c, err)
}

func (h *CapsuleHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}
