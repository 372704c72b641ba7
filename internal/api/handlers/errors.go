// Package handlers holds the JSON helpers shared by the HTTP handlers.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/mail"
)

// maxBodyBytes bounds request bodies; post content is the largest payload
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// WriteJSON writes v with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	WriteJSON(w, statusCode, map[string]string{
		"error":   errorType,
		"message": message,
	})
}

// DecodeJSON reads the request body into dst and validates its `validate`
// tags. On failure it writes a 400 response and returns false. An empty body
// decodes as an empty object.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", validationMessage(err))
		return false
	}
	return true
}

// validationMessage names the first failing field by its JSON name
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// HandleServiceError maps service-layer errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		WriteError(w, http.StatusBadRequest, "InvalidRequest", apperr.Message(err))

	case apperr.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "NotFound", apperr.Message(err))

	case apperr.IsPermission(err):
		WriteError(w, http.StatusForbidden, "Forbidden", apperr.Message(err))

	case apperr.IsConflict(err):
		WriteError(w, http.StatusConflict, "Conflict", apperr.Message(err))

	case errors.Is(err, mail.ErrUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "ServiceUnavailable",
			"Email delivery is temporarily unavailable, please try again later")

	default:
		// Don't leak internal error details to clients
		slog.Error("unexpected service error", "error", err)
		WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
