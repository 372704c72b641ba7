// Package notification serves the caller's notification feed.
package notification

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

// Handler serves the notification endpoints
type Handler struct {
	service notifications.Service
}

// NewHandler creates a new notification handler
func NewHandler(service notifications.Service) *Handler {
	return &Handler{service: service}
}

type listOutput struct {
	Notifications []*notifications.View `json:"notifications"`
}

type countInput struct {
	Filter string `json:"filter"`
}

type countOutput struct {
	TotalDocs int `json:"totalDocs"`
}

type newOutput struct {
	Available bool `json:"new_notification_available"`
}

type unreadOutput struct {
	Count int `json:"count"`
}

// HandleList handles POST /notifications
// Request body: { "page": 1, "filter": "all|like|comment|reply", "deletedDocCount": 0 }
// Returned notifications are marked seen.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var req notifications.ListRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	items, err := h.service.List(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	if items == nil {
		items = []*notifications.View{}
	}
	handlers.WriteJSON(w, http.StatusOK, listOutput{Notifications: items})
}

// HandleCount handles POST /all-notifications-count
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	var input countInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	count, err := h.service.Count(r.Context(), middleware.GetUserID(r), input.Filter)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, countOutput{TotalDocs: count})
}

// HandleNew handles GET /new-notification
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.HasNew(r.Context(), middleware.GetUserID(r))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, newOutput{Available: available})
}

// HandleUnreadCount handles GET /unread-notification-count
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UnreadCount(r.Context(), middleware.GetUserID(r))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, unreadOutput{Count: count})
}
