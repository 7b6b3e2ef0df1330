package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/middleware"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/pawfectmatch/platform-backend/services"
	"github.com/pawfectmatch/platform-backend/utils"
)

// NotificationHandler handles HTTP requests for user notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	recipientID := middleware.UserIDFromContext(r.Context())
	limit, offset := parsePagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, total, err := h.service.ListForRecipient(r.Context(), recipientID, unreadOnly, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	unread, err := h.service.UnreadCount(r.Context(), recipientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Limit:         limit,
		Offset:        offset,
	})
}

// MarkRead handles POST /v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	recipientID := middleware.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification id", err)
		return
	}

	if err := h.service.MarkRead(r.Context(), recipientID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	recipientID := middleware.UserIDFromContext(r.Context())

	updated, err := h.service.MarkAllRead(r.Context(), recipientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
