package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type InterviewHandler struct {
	svc *services.InterviewService
}

func NewInterviewHandler(svc *services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *InterviewHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.All(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	iv, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, iv, err)
}

func (h *InterviewHandler) Update(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	iv, err := h.svc.Update(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, iv, err)
}

func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}

func (h *InterviewHandler) Apply(w http.ResponseWriter, r *http.Request, id uint) {
	app, err := h.svc.Apply(r.Context(), principal(r), id)
	respond(w, r, http.StatusCreated, app, err)
}

func (h *InterviewHandler) Candidates(w http.ResponseWriter, r *http.Request, id uint) {
	apps, err := h.svc.Candidates(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, apps, err)
}

func (h *InterviewHandler) Confirm(w http.ResponseWriter, r *http.Request, id uint) {
	iv, err := h.svc.Confirm(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, iv, err)
}
