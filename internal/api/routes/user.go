package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers/user"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

// RegisterUserRoutes registers account, profile and password reset endpoints
func RegisterUserRoutes(r chi.Router, service users.UserService, authMiddleware *middleware.AuthMiddleware) {
	h := user.NewHandler(service)

	r.Post("/signup", h.HandleSignUp)
	r.Post("/signin", h.HandleSignIn)

	// Password reset by emailed one-time code
	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Post("/verify-otp", h.HandleVerifyOTP)
	r.Post("/reset-password", h.HandleResetPassword)

	r.Post("/search-users", h.HandleSearch)
	r.Post("/get-profile", h.HandleGetProfile)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/get-user-profile", h.HandleGetOwnProfile)
		r.Post("/update-profile", h.HandleUpdateProfile)
		r.Post("/change-password", h.HandleChangePassword)
		r.Post("/update-notification-settings", h.HandleUpdateNotificationSettings)
	})
}
