package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers/notification"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/notifications"
)

// RegisterNotificationRoutes registers the caller's notification feed.
// Every endpoint requires authentication.
func RegisterNotificationRoutes(r chi.Router, service notifications.Service, authMiddleware *middleware.AuthMiddleware) {
	h := notification.NewHandler(service)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Post("/notifications", h.HandleList)
		r.Post("/all-notifications-count", h.HandleCount)
		r.Get("/new-notification", h.HandleNew)
		r.Get("/unread-notification-count", h.HandleUnreadCount)
	})
}
