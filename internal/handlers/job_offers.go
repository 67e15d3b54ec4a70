package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type JobOfferHandler struct {
	svc *services.JobOfferService
}

func NewJobOfferHandler(svc *services.JobOfferService) *JobOfferHandler {
	return &JobOfferHandler{svc: svc}
}

func (h *JobOfferHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offers, err := h.svc.List(r.Context(), principal(r), services.JobOfferFilter{
		Q:            q.Get("q"),
		Location:     q.Get("location"),
		ContractType: q.Get("contract_type"),
		Sort:         q.Get("sort"),
	})
	respond(w, r, http.StatusOK, offers, err)
}

func (h *JobOfferHandler) Get(w http.ResponseWriter, r *http.Request, id uint) {
	o, err := h.svc.Get(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, o, err)
}

func (h *JobOfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	o, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, o, err)
}

func (h *JobOfferHandler) Update(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	o, err := h.svc.Update(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, o, err)
}

func (h *JobOfferHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}

func (h *JobOfferHandler) Apply(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	app, err := h.svc.Apply(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusCreated, app, err)
}

func (h *JobOfferHandler) Applications(w http.ResponseWriter, r *http.Request, id uint) {
	apps, err := h.svc.Applications(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, apps, err)
}

func (h *JobOfferHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	app, err := h.svc.UpdateApplicationStatus(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, app, err)
}

func (h *JobOfferHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.MyApplications(r.Context(), principal(r))
	respond(w, r, http.StatusOK, apps, err)
}
