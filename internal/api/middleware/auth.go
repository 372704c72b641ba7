package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Context keys for storing user information
type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	UserAccessToken contextKey = "user_access_token"
)

// TokenVerifier checks an access token and returns the user id it was issued to
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware authenticates requests carrying a Bearer access token
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier TokenVerifier, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth middleware ensures the request carries a valid access token.
// A missing token is answered with 401, an invalid one with 403.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "AuthenticationRequired", "No access token")
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("auth failure",
				"ip", ClientIP(r), "method", r.Method, "path", r.URL.Path, "error", err)
			writeAuthError(w, http.StatusForbidden, "InvalidToken", "Access token is invalid")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, UserAccessToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the user when a valid token is present and otherwise
// continues anonymously
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("optional auth failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, UserAccessToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user id from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// GetUserAccessToken extracts the user's access token from the request context
func GetUserAccessToken(r *http.Request) string {
	token, _ := r.Context().Value(UserAccessToken).(string)
	return token
}

// SetTestUserID sets the user id in the context for testing purposes.
// This function should ONLY be used in tests to mock authenticated users.
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message}); err != nil {
		slog.Error("failed to write auth error response", "error", err)
	}
}
