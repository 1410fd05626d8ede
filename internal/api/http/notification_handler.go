package http

import (
	"net/http"

	"equiprent-backend/internal/service"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.notificationSvc.GetNotifications(r.Context(), GetUserIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePage(w, notes, page, pageSize, total)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	err := h.notificationSvc.MarkAsRead(r.Context(), GetUserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
