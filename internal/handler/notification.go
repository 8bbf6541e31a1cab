package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit := parseLimit(r, service.NotificationListDefaultLimit, service.ContentListMaxLimit)

	result, err := h.notificationService.List(r.Context(), userID, cursorParam(r), limit)
	if err != nil {
		log.Printf("[ERROR] List notifications handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] UnreadCount handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch unread count")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{
		"unread_count": count,
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, req.NotificationIDs); err != nil {
		log.Printf("[ERROR] MarkRead handler: %v", err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Notifications marked as read",
	})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		log.Printf("[ERROR] MarkAllRead handler: %v", err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "All notifications marked as read",
	})
}
