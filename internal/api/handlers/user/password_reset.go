package user

import (
	"net/http"

	"github.com/minhchau-creator/blogger.com/internal/api/handlers"
)

type forgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type resetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// HandleForgotPassword handles POST /forgot-password
// The reset code is mailed; it is never part of the response.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input forgotPasswordInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), input.Email); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, messageOutput{Message: "OTP sent to your email"})
}

// HandleVerifyOTP handles POST /verify-otp
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var input verifyOTPInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	if err := h.service.VerifyOTP(r.Context(), input.Email, input.OTP); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, messageOutput{Message: "OTP verified"})
}

// HandleResetPassword handles POST /reset-password
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var input resetPasswordInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), input.Email, input.NewPassword); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, messageOutput{Message: "Password reset successfully"})
}
