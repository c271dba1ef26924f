package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tripatlas/destinations/internal/domain"
	"github.com/tripatlas/destinations/internal/repository"
	"github.com/tripatlas/destinations/internal/service"
	"github.com/tripatlas/destinations/pkg/auth"
	"github.com/tripatlas/destinations/pkg/config"
	"github.com/tripatlas/destinations/pkg/logger"
)

type ctxKey string

const ctxUser ctxKey = "user"

type Handlers struct {
	authService        service.AuthService
	destinationService service.DestinationService
	rateLimitRepo      repository.RateLimitRepository
	config             *config.Config
}

func New(
	authService service.AuthService,
	destinationService service.DestinationService,
	rateLimitRepo repository.RateLimitRepository,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:        authService,
		destinationService: destinationService,
		rateLimitRepo:      rateLimitRepo,
		config:             config,
	}
}

// RequireAuth verifies the bearer token, resolves the claimed user and
// attaches it to the request context. A missing or malformed Authorization
// header is treated the same as no token at all.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "Access token required. Format: Authorization: Bearer <token>")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token")
			return
		}

		user, err := h.authService.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "User not found")
				return
			}
			logger.ErrorContext(r.Context(), "Failed to resolve token user", "error", err, "user_id", claims.UserID)
			writeError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to verify token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser, user)
		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimit applies a fixed-window per-IP limit. Redis failures let the
// request through (fail open).
func (h *Handlers) RateLimit(name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := name + ":" + getClientIP(r)

			allowed, err := h.rateLimitRepo.Allow(r.Context(), key, limit, window)
			if err != nil {
				logger.WarnContext(r.Context(), "Rate limit check failed", "error", err)
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "Too Many Requests", "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func currentUser(r *http.Request) *domain.User {
	if user, ok := r.Context().Value(ctxUser).(*domain.User); ok {
		return user
	}
	return nil
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the {error, message} body shared by all failures.
func writeError(w http.ResponseWriter, statusCode int, errName, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error":   errName,
		"message": message,
	})
}

func writeValidationError(w http.ResponseWriter, v *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Validation Error",
		"details": v.Fields,
	})
}

// handleError maps service failures to the HTTP error taxonomy. Unexpected
// errors are logged with detail but answered with a generic body.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var v *domain.ValidationError
	switch {
	case errors.As(err, &v):
		writeValidationError(w, v)
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Conflict", "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden", "You do not have permission to access this resource")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not Found", "Resource not found")
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}
