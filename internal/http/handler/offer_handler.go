package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

type OfferHandler struct {
	offerService *service.OfferService
	logger       *zap.Logger
}

func NewOfferHandler(offerService *service.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{offerService: offerService, logger: logger}
}

// List godoc
// @Summary List offers
// @Description Get paginated sales offers visible to the caller's scope
// @Tags Offers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param stage query string false "Filter by stage"
// @Param customerId query string false "Filter by customer" format(uuid)
// @Param zoneId query string false "Filter by service zone" format(uuid)
// @Param search query string false "Search by title or reference"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.PaginatedResponse}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers [get]
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := repository.OfferFilters{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("stage"); raw != "" {
		stage := domain.OfferStage(raw)
		if !stage.IsValid() {
			respondError(w, domain.CodeValidationError, "invalid stage filter")
			return
		}
		filters.Stage = &stage
	}
	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, domain.CodeValidationError, "invalid customerId")
			return
		}
		filters.CustomerID = &id
	}
	if raw := r.URL.Query().Get("zoneId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, domain.CodeValidationError, "invalid zoneId")
			return
		}
		filters.ZoneID = &id
	}

	result, err := h.offerService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list offers", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get offer by ID
// @Description Get an offer with its linked assets and stage remarks
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.OfferWithDetailsDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id} [get]
func (h *OfferHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	offer, err := h.offerService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, offer)
}

// Create godoc
// @Summary Create offer
// @Description Create a sales offer; the reference is generated from the customer's zone
// @Tags Offers
// @Accept json
// @Produce json
// @Param request body domain.CreateOfferRequest true "Offer data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.OfferDTO}
// @Failure 400 {object} domain.ErrorEnvelope
// @Failure 403 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers [post]
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := h.offerService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create offer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, offer)
}

// Update godoc
// @Summary Update offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.UpdateOfferRequest true "Offer data"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.OfferDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id} [put]
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := h.offerService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update offer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, offer)
}

// Delete godoc
// @Summary Delete offer
// @Description Delete an offer with its asset links and stage remarks
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id} [delete]
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.offerService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete offer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStage godoc
// @Summary Update offer stage
// @Description Overwrite the offer stage and append a stage remark
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.UpdateOfferStageRequest true "New stage and optional remark"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.OfferDTO}
// @Failure 400 {object} domain.ErrorEnvelope
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/stage [patch]
func (h *OfferHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateOfferStageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := h.offerService.UpdateStage(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update offer stage", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, offer)
}

// Remarks godoc
// @Summary Get offer stage remarks
// @Description Get the stage remark trail, newest first
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.StageRemarkDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/remarks [get]
func (h *OfferHandler) Remarks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	remarks, err := h.offerService.Remarks(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, remarks)
}

// AddRemark godoc
// @Summary Add offer remark
// @Description Append a remark to the offer without changing its stage
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.AddStageRemarkRequest true "Remark text"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.StageRemarkDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/remarks [post]
func (h *OfferHandler) AddRemark(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.AddStageRemarkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	remark, err := h.offerService.AddRemark(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to add offer remark", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, remark)
}

// ListAssets godoc
// @Summary List offer assets
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.OfferAssetDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/assets [get]
func (h *OfferHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	offer, err := h.offerService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, offer.Assets)
}

// AddAsset godoc
// @Summary Link asset to offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param request body domain.AddOfferAssetRequest true "Asset link data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.OfferAssetDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/assets [post]
func (h *OfferHandler) AddAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.AddOfferAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	link, err := h.offerService.AddAsset(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to link asset to offer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, link)
}

// RemoveAsset godoc
// @Summary Unlink asset from offer
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param linkId path string true "Offer asset link ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/assets/{linkId} [delete]
func (h *OfferHandler) RemoveAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	linkID, ok := parseUUIDParam(w, chi.URLParam(r, "linkId"))
	if !ok {
		return
	}

	if err := h.offerService.RemoveAsset(r.Context(), id, linkID); err != nil {
		h.logger.Error("failed to unlink asset from offer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
