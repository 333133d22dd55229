package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"go.uber.org/zap"
)

type AuthHandler struct {
	logger *zap.Logger
}

func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// MeResponse is the authenticated caller's identity and scope.
type MeResponse struct {
	ID         uuid.UUID       `json:"id"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Role       domain.UserRole `json:"role"`
	ZoneIDs    []uuid.UUID     `json:"zoneIds,omitempty"`
	CustomerID *uuid.UUID      `json:"customerId,omitempty"`
}

// Me godoc
// @Summary Get current user
// @Description Get the identity, role and scope of the authenticated caller
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.SuccessEnvelope{data=handler.MeResponse}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, domain.CodeUnauthorized, "authentication required")
		return
	}

	respondSuccess(w, http.StatusOK, MeResponse{
		ID:         userCtx.UserID,
		Email:      userCtx.Email,
		Name:       userCtx.DisplayName,
		Role:       userCtx.Role,
		ZoneIDs:    userCtx.ZoneIDs,
		CustomerID: userCtx.CustomerID,
	})
}
