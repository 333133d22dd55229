package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

// ContactHandler handles HTTP requests for customer contacts.
// Creation and listing are nested under the customer routes.
type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: contactService, logger: logger}
}

// GetByID godoc
// @Summary Get contact by ID
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=domain.ContactDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, contact)
}

// Update godoc
// @Summary Update contact
// @Description Update a contact (ADMIN any customer, CUSTOMER_OWNER their own)
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param request body domain.UpdateContactRequest true "Contact data"
// @Success 200 {object} domain.SuccessEnvelope{data=domain.ContactDTO}
// @Failure 403 {object} domain.ErrorEnvelope
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /contacts/{id} [put]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req domain.UpdateContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update contact", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, contact)
}

// Delete godoc
// @Summary Delete contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} domain.ErrorEnvelope
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete contact", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
