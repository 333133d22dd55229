package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// ExportTickets godoc
// @Summary Export tickets to Excel
// @Description Download all tickets visible to the caller as an xlsx workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /reports/tickets/export [get]
func (h *ReportHandler) ExportTickets(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ExportTickets(r.Context())
	if err != nil {
		h.logger.Error("failed to export tickets", zap.Error(err))
		respondError(w, domain.CodeInternal, "export failed")
		return
	}

	h.writeWorkbook(w, "tickets", data)
}

// ExportOffers godoc
// @Summary Export offers to Excel
// @Description Download all offers visible to the caller as an xlsx workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /reports/offers/export [get]
func (h *ReportHandler) ExportOffers(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ExportOffers(r.Context())
	if err != nil {
		h.logger.Error("failed to export offers", zap.Error(err))
		respondError(w, domain.CodeInternal, "export failed")
		return
	}

	h.writeWorkbook(w, "offers", data)
}

func (h *ReportHandler) writeWorkbook(w http.ResponseWriter, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to stream workbook", zap.String("file", filename), zap.Error(err))
	}
}
