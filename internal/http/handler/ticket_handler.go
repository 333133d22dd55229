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

type TicketHandler struct {
	ticketService *service.TicketService
	logger        *zap.Logger
}

func NewTicketHandler(ticketService *service.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, logger: logger}
}

// List godoc
// @Summary List tickets
// @Description Get paginated tickets visible to the caller's zone or customer scope
// @Tags Tickets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority" Enums(LOW, MEDIUM, HIGH, CRITICAL)
// @Param customerId query string false "Filter by customer" format(uuid)
// @Param zoneId query string false "Filter by service zone" format(uuid)
// @Param assignedToId query string false "Filter by assignee" format(uuid)
// @Param search query string false "Search by title or reference"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.PaginatedResponse}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets [get]
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := repository.TicketFilters{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TicketStatus(raw)
		if !status.IsValid() {
			respondError(w, domain.CodeValidationError, "invalid status filter")
			return
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		if !priority.IsValid() {
			respondError(w, domain.CodeValidationError, "invalid priority filter")
			return
		}
		filters.Priority = &priority
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
	if raw := r.URL.Query().Get("assignedToId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, domain.CodeValidationError, "invalid assignedToId")
			return
		}
		filters.AssignedToID = &id
	}

	result, err := h.ticketService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list tickets", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get ticket by ID
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.TicketDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, ticket)
}

// Create godoc
// @Summary Create ticket
// @Description Create a service ticket; the reference is generated from the customer's zone
// @Tags Tickets
// @Accept json
// @Produce json
// @Param request body domain.CreateTicketRequest true "Ticket data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.TicketDTO}
// @Failure 400 {object} domain.ErrorEnvelope
// @Failure 403 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets [post]
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := h.ticketService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create ticket", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, ticket)
}

// Update godoc
// @Summary Update ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Param request body domain.UpdateTicketRequest true "Ticket data"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.TicketDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id} [put]
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := h.ticketService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update ticket", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, ticket)
}

// Delete godoc
// @Summary Delete ticket
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id} [delete]
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.ticketService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete ticket", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus godoc
// @Summary Update ticket status
// @Description Overwrite the ticket status and append a history row; any status may follow any other
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Param request body domain.UpdateTicketStatusRequest true "New status and optional note"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.TicketDTO}
// @Failure 400 {object} domain.ErrorEnvelope
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateTicketStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := h.ticketService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update ticket status", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, ticket)
}

// Assign godoc
// @Summary Assign ticket
// @Description Assign a ticket to a user, or clear the assignment
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Param request body domain.AssignTicketRequest true "Assignee"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.TicketDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id}/assign [post]
func (h *TicketHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.AssignTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := h.ticketService.Assign(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to assign ticket", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, ticket)
}

// History godoc
// @Summary Get ticket status history
// @Description Get the append-only status history, newest first
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.TicketStatusHistoryDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id}/history [get]
func (h *TicketHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	history, err := h.ticketService.History(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, history)
}
