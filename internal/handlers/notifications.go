package handlers

import (
	"net/http"

	"github.com/LailaElmallass/projectElite-sub000/httpx"
	"github.com/LailaElmallass/projectElite-sub000/internal/models"
	"github.com/LailaElmallass/projectElite-sub000/internal/services"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type notificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, unread, err := h.svc.List(r.Context(), principal(r))
	respond(w, r, http.StatusOK, notificationList{Notifications: list, UnreadCount: unread}, err)
}

func (h *NotificationHandler) EntrepriseList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.EntrepriseList(r.Context(), principal(r))
	respond(w, r, http.StatusOK, list, err)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Create(r.Context(), principal(r), in)
	respond(w, r, http.StatusCreated, n, err)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, id uint) {
	n, err := h.svc.MarkRead(r.Context(), principal(r), id)
	respond(w, r, http.StatusOK, n, err)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.MarkAllRead(r.Context(), principal(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"updated": changed})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request, id uint) {
	noContent(w, r, h.svc.Delete(r.Context(), principal(r), id))
}
