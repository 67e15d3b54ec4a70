package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type QuizHandler struct {
	svc *services.QuizService
}

func NewQuizHandler(svc *services.QuizService) *QuizHandler {
	return &QuizHandler{svc: svc}
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request, id uint) {
	qs, err := h.svc.Questions(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, qs, err)
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Submit(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, res, err)
}

func (h *QuizHandler) Results(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Results(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *QuizHandler) CreateTest(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	t, err := h.svc.CreateTest(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, t, err)
}

func (h *QuizHandler) UpdateTest(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	t, err := h.svc.UpdateTest(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, t, err)
}

func (h *QuizHandler) DeleteTest(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.DeleteTest(r.Context(), principal(r), id))
}

func (h *QuizHandler) AddQuestion(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	q, err := h.svc.AddQuestion(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusCreated, q, err)
}

func (h *QuizHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request, id uint) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	q, err := h.svc.UpdateQuestion(r.Context(), principal(r), id, in)
	respond(w, r, http.StatusOK, q, err)
}

func (h *QuizHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.DeleteQuestion(r.Context(), principal(r), id))
}
