package handler

import (
	"net/http"

	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetMetrics godoc
// @Summary Dashboard metrics
// @Description Get ticket, offer and customer aggregates scoped to the caller
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.SuccessEnvelope{data=domain.DashboardMetrics}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard metrics", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, metrics)
}
