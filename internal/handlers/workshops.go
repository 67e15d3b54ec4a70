package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type WorkshopHandler struct {
	svc *services.WorkshopService
}

func NewWorkshopHandler(svc *services.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{svc: svc}
}

func (h *WorkshopHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), principal(r), r.URL.Query().Get("sort"))
	respond(w, r, http.StatusOK, list, err)
}

func (h *WorkshopHandler) Get(w http.ResponseWriter, r *http.Request, id uint) {
	ws, err := h.svc.Get(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, ws, err)
}

func (h *WorkshopHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	ws, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, ws, err)
}

func (h *WorkshopHandler) Update(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	ws, err := h.svc.Update(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, ws, err)
}

func (h *WorkshopHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}
