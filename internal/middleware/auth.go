package middleware

import (
	"context"
	"net/http"
	"strings"

	"rto-ops-api/internal/model"
	"rto-ops-api/internal/service"
	"rto-ops-api/pkg/apierror"
)

// SessionKey is the key for storing the operator session in request context.
const SessionKey contextKey = "operator_session"

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	TokenService *service.TokenService
	APIKeys      []string
}

// NewAuthMiddleware creates an authentication middleware with injected
// dependencies. Keys come from config, never read from the environment here.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Probes and login stay open.
			switch r.URL.Path {
			case "/api/v1/health", "/api/v1/ready", "/api/status":
				next.ServeHTTP(w, r)
				return
			}
			if r.URL.Path == "/api/v1/auth/login" && r.Method == http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			// Try X-Token first (operator session tokens)
			token := r.Header.Get("X-Token")
			if token != "" && cfg.TokenService != nil {
				session, err := cfg.TokenService.ValidateToken(r.Context(), token)
				if err != nil {
					writeError(w, apierror.Unauthorized("Invalid or expired token"))
					return
				}

				ctx := context.WithValue(r.Context(), SessionKey, session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Fall back to X-API-Key for service-to-service callers
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				writeError(w, apierror.Unauthorized("Authentication required. Use X-Token or X-API-Key header."))
				return
			}

			if !isValidKey(apiKey, cfg.APIKeys) {
				writeError(w, apierror.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// isValidKey checks if the provided key is in the valid keys list.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if key == valid {
			return true
		}
	}
	return false
}

// GetSessionFromContext retrieves the operator session from request context.
func GetSessionFromContext(ctx context.Context) *model.OperatorSession {
	if session, ok := ctx.Value(SessionKey).(*model.OperatorSession); ok {
		return session
	}
	return nil
}
