package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserSource loads user rows during request authentication. Satisfied by
// repository.UserRepository.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	jwtValidator *JWTValidator
	users        UserSource
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, users UserSource, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Auth),
		users:        users,
		logger:       logger,
	}
}

// extractToken pulls the bearer token from the Authorization header, or
// falls back to the accessToken / token cookies set by the web frontend.
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	for _, name := range []string{"accessToken", "token"} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// Authenticate is the main authentication middleware. Requests without a
// valid token get a 401 with the standard error envelope. The token only
// identifies the caller: role, zone assignments and customer binding come
// from the user row, so a deactivated or deleted user is rejected even
// while their token is still within its TTL.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondAuthError(w, domain.CodeUnauthorized, "authentication required")
			return
		}

		userCtx, err := m.jwtValidator.ValidateToken(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			respondAuthError(w, domain.CodeUnauthorized, "invalid or expired token")
			return
		}

		user, err := m.users.GetByID(r.Context(), userCtx.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondAuthError(w, domain.CodeUnauthorized, "account is not active")
				return
			}
			m.logger.Error("user lookup failed during authentication",
				zap.String("user_id", userCtx.UserID.String()),
				zap.Error(err),
			)
			respondAuthError(w, domain.CodeInternal, "internal server error")
			return
		}
		if !user.IsActive {
			m.logger.Warn("rejected token for deactivated user",
				zap.String("user_id", user.ID.String()),
				zap.String("path", r.URL.Path),
			)
			respondAuthError(w, domain.CodeUnauthorized, "account is not active")
			return
		}

		userCtx.DisplayName = user.Name
		userCtx.Email = user.Email
		userCtx.Role = user.Role
		userCtx.CustomerID = user.CustomerID
		userCtx.ZoneIDs = nil
		for _, link := range user.ZoneLinks {
			userCtx.ZoneIDs = append(userCtx.ZoneIDs, link.ServiceZoneID)
		}

		ctx := WithUserContext(r.Context(), userCtx)
		ctx = WithScope(ctx, ScopeForUser(userCtx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the user has one of the given roles
func (m *Middleware) RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				respondAuthError(w, domain.CodeUnauthorized, "authentication required")
				return
			}

			if !userCtx.HasAnyRole(roles...) {
				m.logger.Warn("role check failed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("role", string(userCtx.Role)),
				)
				respondAuthError(w, domain.CodeForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin ensures the user has the ADMIN role
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(domain.RoleAdmin)(next)
}

// RequireInternal blocks customer-scoped roles from staff-only surfaces
func (m *Middleware) RequireInternal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			respondAuthError(w, domain.CodeUnauthorized, "authentication required")
			return
		}

		if userCtx.IsCustomerUser() {
			respondAuthError(w, domain.CodeForbidden, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondAuthError(w http.ResponseWriter, code domain.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(domain.ErrorEnvelope{
		Success: false,
		Error:   message,
		Code:    code,
	})
}
