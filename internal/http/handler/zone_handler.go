package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

type ZoneHandler struct {
	zoneService *service.ZoneService
	logger      *zap.Logger
}

func NewZoneHandler(zoneService *service.ZoneService, logger *zap.Logger) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService, logger: logger}
}

// List godoc
// @Summary List service zones
// @Tags ServiceZones
// @Produce json
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.ServiceZoneDTO}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /service-zones [get]
func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zoneService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list service zones", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, zones)
}

// GetByID godoc
// @Summary Get service zone by ID
// @Tags ServiceZones
// @Produce json
// @Param id path string true "Zone ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.ServiceZoneDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /service-zones/{id} [get]
func (h *ZoneHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	zone, err := h.zoneService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, zone)
}

// Create godoc
// @Summary Create service zone
// @Description Create a zone; the short form is derived from the name when omitted (ADMIN only)
// @Tags ServiceZones
// @Accept json
// @Produce json
// @Param request body domain.CreateServiceZoneRequest true "Zone data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.ServiceZoneDTO}
// @Failure 409 {object} domain.ErrorEnvelope "Duplicate name or short form"
// @Security BearerAuth
// @Router /service-zones [post]
func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateServiceZoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	zone, err := h.zoneService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create service zone", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, zone)
}

// Update godoc
// @Summary Update service zone
// @Tags ServiceZones
// @Accept json
// @Produce json
// @Param id path string true "Zone ID" format(uuid)
// @Param request body domain.UpdateServiceZoneRequest true "Zone data"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.ServiceZoneDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /service-zones/{id} [put]
func (h *ZoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateServiceZoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	zone, err := h.zoneService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update service zone", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, zone)
}

// Delete godoc
// @Summary Delete service zone
// @Description Delete a zone; refused while customers are still assigned to it
// @Tags ServiceZones
// @Produce json
// @Param id path string true "Zone ID" format(uuid)
// @Success 204 "No Content"
// @Failure 409 {object} domain.ErrorEnvelope "Zone still has customers"
// @Security BearerAuth
// @Router /service-zones/{id} [delete]
func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.zoneService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete service zone", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAssignments godoc
// @Summary List zone assignments
// @Description Get the service persons assigned to a zone
// @Tags ServiceZones
// @Produce json
// @Param id path string true "Zone ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.ZoneAssignmentDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /service-zones/{id}/assignments [get]
func (h *ZoneHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	assignments, err := h.zoneService.ListAssignments(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, assignments)
}

// AssignUser godoc
// @Summary Assign user to zone
// @Tags ServiceZones
// @Accept json
// @Produce json
// @Param id path string true "Zone ID" format(uuid)
// @Param request body domain.AssignZoneRequest true "User to assign"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.ZoneAssignmentDTO}
// @Failure 409 {object} domain.ErrorEnvelope "Already assigned"
// @Security BearerAuth
// @Router /service-zones/{id}/assignments [post]
func (h *ZoneHandler) AssignUser(w http.ResponseWriter, r *http.Request) {
	zoneID, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.AssignZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.CodeValidationError, "invalid request body")
		return
	}
	// The zone comes from the path; the body only needs the user.
	req.ZoneID = zoneID
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	assignment, err := h.zoneService.AssignUser(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to assign user to zone", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, assignment)
}

// UnassignUser godoc
// @Summary Remove user from zone
// @Tags ServiceZones
// @Produce json
// @Param id path string true "Zone ID" format(uuid)
// @Param userId path string true "User ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /service-zones/{id}/assignments/{userId} [delete]
func (h *ZoneHandler) UnassignUser(w http.ResponseWriter, r *http.Request) {
	zoneID, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	if err := h.zoneService.UnassignUser(r.Context(), userID, zoneID); err != nil {
		h.logger.Error("failed to remove user from zone", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
