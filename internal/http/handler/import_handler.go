package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

// maxImportSize caps uploaded spreadsheets at 16 MiB.
const maxImportSize = 16 << 20

type ImportHandler struct {
	importService *service.ImportService
	logger        *zap.Logger
}

func NewImportHandler(importService *service.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, logger: logger}
}

// Validate godoc
// @Summary Validate customer import file
// @Description Dry-run an Excel customer/machine import and report row errors without writing anything
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook (.xlsx)"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.ImportValidationResult}
// @Failure 400 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /imports/customers/validate [post]
func (h *ImportHandler) Validate(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importService.Validate(r.Context(), file)
	if err != nil {
		h.logger.Error("failed to validate import", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Import godoc
// @Summary Import customers and machines
// @Description Upsert customers, zones and machines from an Excel workbook (ADMIN only)
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook (.xlsx)"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.ImportResult}
// @Failure 400 {object} domain.ErrorEnvelope
// @Failure 403 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /imports/customers [post]
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importService.Import(r.Context(), file)
	if err != nil {
		h.logger.Error("failed to run import", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

func (h *ImportHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, domain.CodeValidationError, "invalid multipart request")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, domain.CodeValidationError, "missing file field")
		return nil, false
	}
	return file, true
}
