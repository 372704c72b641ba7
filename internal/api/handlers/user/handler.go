// Package user serves accounts: sign-up, sign-in, profiles, settings and
// password reset.
package user

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
	"github.com/minhchau-creator/blogger.com/internal/api/middleware"
	"github.com/minhchau-creator/blogger.com/internal/core/users"
)

// Handler serves the user endpoints
type Handler struct {
	service users.UserService
}

// NewHandler creates a new user handler
func NewHandler(service users.UserService) *Handler {
	return &Handler{service: service}
}

type getProfileInput struct {
	Username string `json:"username" validate:"required"`
}

type searchUsersInput struct {
	Query string `json:"query" validate:"required"`
	Page  int    `json:"page"`
}

type searchUsersOutput struct {
	Users []users.Summary `json:"users"`
}

type statusOutput struct {
	Status string `json:"status"`
}

// HandleSignUp handles POST /signup
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req users.SignUpRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleSignIn handles POST /signin
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req users.SignInRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetProfile handles POST /get-profile
// Request body: { "username": "..." }
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	var input getProfileInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), input.Username)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, profile)
}

// HandleGetOwnProfile handles GET /get-user-profile
func (h *Handler) HandleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetOwnProfile(r.Context(), middleware.GetUserID(r))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, profile)
}

// HandleSearch handles POST /search-users
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var input searchUsersInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	found, err := h.service.SearchUsers(r.Context(), input.Query, input.Page)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	if found == nil {
		found = []users.Summary{}
	}
	handlers.WriteJSON(w, http.StatusOK, searchUsersOutput{Users: found})
}

// HandleUpdateProfile handles POST /update-profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req users.UpdateProfileRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, profile)
}

// HandleChangePassword handles POST /change-password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req users.ChangePasswordRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), middleware.GetUserID(r), req); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, statusOutput{Status: "password changed"})
}

// HandleUpdateNotificationSettings handles POST /update-notification-settings
func (h *Handler) HandleUpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var req users.UpdateNotificationSettingsRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	settings, err := h.service.UpdateNotificationSettings(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]any{"notification_settings": settings})
}
