package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

// AssetHandler handles HTTP requests for installed machines. Assets can be
// registered at the root collection or nested under their customer.
type AssetHandler struct {
	assetService *service.AssetService
	logger       *zap.Logger
}

func NewAssetHandler(assetService *service.AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{assetService: assetService, logger: logger}
}

// List godoc
// @Summary List assets
// @Description Get paginated assets visible to the caller's scope
// @Tags Assets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by serial number or model"
// @Param customerId query string false "Filter by customer" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.PaginatedResponse}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /assets [get]
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	search := r.URL.Query().Get("search")

	var customerID *uuid.UUID
	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, domain.CodeValidationError, "invalid customerId")
			return
		}
		customerID = &id
	}

	result, err := h.assetService.List(r.Context(), page, pageSize, search, customerID)
	if err != nil {
		h.logger.Error("failed to list assets", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Create godoc
// @Summary Register asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param request body domain.RegisterAssetRequest true "Asset data with owning customer"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.AssetDTO}
// @Failure 404 {object} domain.ErrorEnvelope "Unknown customer"
// @Failure 409 {object} domain.ErrorEnvelope "Duplicate serial number"
// @Security BearerAuth
// @Router /assets [post]
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	asset, err := h.assetService.Create(r.Context(), req.CustomerID, &req.CreateAssetRequest)
	if err != nil {
		h.logger.Error("failed to create asset", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, asset)
}

// GetByID godoc
// @Summary Get asset by ID
// @Tags Assets
// @Produce json
// @Param id path string true "Asset ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.AssetDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /assets/{id} [get]
func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	asset, err := h.assetService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, asset)
}

// Update godoc
// @Summary Update asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID" format(uuid)
// @Param request body domain.UpdateAssetRequest true "Asset data"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.AssetDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Failure 409 {object} domain.ErrorEnvelope "Duplicate serial number"
// @Security BearerAuth
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	asset, err := h.assetService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update asset", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, asset)
}

// Delete godoc
// @Summary Delete asset
// @Tags Assets
// @Produce json
// @Param id path string true "Asset ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.assetService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete asset", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
