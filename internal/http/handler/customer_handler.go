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

type CustomerHandler struct {
	customerService *service.CustomerService
	contactService  *service.ContactService
	assetService    *service.AssetService
	logger          *zap.Logger
}

func NewCustomerHandler(
	customerService *service.CustomerService,
	contactService *service.ContactService,
	assetService *service.AssetService,
	logger *zap.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		contactService:  contactService,
		assetService:    assetService,
		logger:          logger,
	}
}

// List godoc
// @Summary List customers
// @Description Get paginated customers visible to the caller's scope
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by company name or place"
// @Param zoneId query string false "Filter by service zone" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.PaginatedResponse}
// @Failure 401 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	search := r.URL.Query().Get("search")

	var zoneID *uuid.UUID
	if raw := r.URL.Query().Get("zoneId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, domain.CodeValidationError, "invalid zoneId")
			return
		}
		zoneID = &id
	}

	result, err := h.customerService.List(r.Context(), page, pageSize, search, zoneID)
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get customer by ID
// @Description Get a customer with its contacts and assets
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.CustomerWithDetailsDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, customer)
}

// Create godoc
// @Summary Create customer
// @Description Create a new customer in a service zone (ADMIN only)
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body domain.CreateCustomerRequest true "Customer data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.CustomerDTO}
// @Failure 400 {object} domain.ErrorEnvelope
// @Failure 403 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, customer)
}

// Update godoc
// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Param request body domain.UpdateCustomerRequest true "Customer data"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.CustomerDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update customer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, customer)
}

// Delete godoc
// @Summary Delete customer
// @Description Delete a customer and its contacts and assets (ADMIN only)
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete customer", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContacts godoc
// @Summary List customer contacts
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.ContactDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers/{id}/contacts [get]
func (h *CustomerHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	contacts, err := h.contactService.ListByCustomer(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, contacts)
}

// CreateContact godoc
// @Summary Create contact for customer
// @Description Create a contact (ADMIN any customer, CUSTOMER_OWNER their own)
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.ContactDTO}
// @Failure 403 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers/{id}/contacts [post]
func (h *CustomerHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.CreateContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.contactService.Create(r.Context(), customerID, &req)
	if err != nil {
		h.logger.Error("failed to create contact", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, contact)
}

// ListAssets godoc
// @Summary List customer assets
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.AssetDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /customers/{id}/assets [get]
func (h *CustomerHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	assets, err := h.assetService.ListByCustomer(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, assets)
}

// CreateAsset godoc
// @Summary Register asset at customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID" format(uuid)
// @Param request body domain.CreateAssetRequest true "Asset data"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.AssetDTO}
// @Failure 409 {object} domain.ErrorEnvelope "Duplicate serial number"
// @Security BearerAuth
// @Router /customers/{id}/assets [post]
func (h *CustomerHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.CreateAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	asset, err := h.assetService.Create(r.Context(), customerID, &req)
	if err != nil {
		h.logger.Error("failed to create asset", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, asset)
}
