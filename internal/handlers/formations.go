package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type FormationHandler struct {
	svc *services.FormationService
}

func NewFormationHandler(svc *services.FormationService) *FormationHandler {
	return &FormationHandler{svc: svc}
}

func (h *FormationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.List(r.Context(), principal(r), services.FormationFilter{
		Audience: q.Get("target_audience"),
		Sort:     q.Get("sort"),
	})
	respond(w, r, http.StatusOK, list, err)
}

func (h *FormationHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.AdminList(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *FormationHandler) Get(w http.ResponseWriter, r *http.Request, id uint) {
	f, err := h.svc.Get(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, f, err)
}

func (h *FormationHandler) Access(w http.ResponseWriter, r *http.Request, id uint) {
	ok, err := h.svc.Access(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, map[string]bool{"has_access": ok}, err)
}

func (h *FormationHandler) Pay(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	pay, err := h.svc.Pay(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, pay, err)
}

func (h *FormationHandler) Complete(w http.ResponseWriter, r *http.Request, id uint) {
	points, err := h.svc.Complete(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, map[string]int{"points": points}, err)
}

func (h *FormationHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	f, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, f, err)
}

func (h *FormationHandler) Update(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	f, err := h.svc.Update(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, f, err)
}

func (h *FormationHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}
