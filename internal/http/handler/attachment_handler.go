package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

// maxAttachmentSize caps uploads at 32 MiB.
const maxAttachmentSize = 32 << 20

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService, logger: logger}
}

// UploadToTicket godoc
// @Summary Upload ticket attachment
// @Description Attach an image or document to a ticket
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.AttachmentDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id}/attachments [post]
func (h *AttachmentHandler) UploadToTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.UploadToTicket(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("failed to upload ticket attachment", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, attachment)
}

// UploadToOffer godoc
// @Summary Upload offer attachment
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.SuccessEnvelope{data=domain.AttachmentDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/attachments [post]
func (h *AttachmentHandler) UploadToOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.UploadToOffer(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("failed to upload offer attachment", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, attachment)
}

// ListByTicket godoc
// @Summary List ticket attachments
// @Tags Attachments
// @Produce json
// @Param id path string true "Ticket ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.AttachmentDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /tickets/{id}/attachments [get]
func (h *AttachmentHandler) ListByTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	attachments, err := h.attachmentService.ListByTicket(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, attachments)
}

// ListByOffer godoc
// @Summary List offer attachments
// @Tags Attachments
// @Produce json
// @Param id path string true "Offer ID" format(uuid)
// @Success 200 {object} domain.SuccessEnvelope{data=[]domain.AttachmentDTO}
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /offers/{id}/attachments [get]
func (h *AttachmentHandler) ListByOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	attachments, err := h.attachmentService.ListByOffer(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, attachments)
}

// Download godoc
// @Summary Download attachment
// @Tags Attachments
// @Produce octet-stream
// @Param id path string true "Attachment ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /attachments/{id}/download [get]
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reader, filename, contentType, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream attachment", zap.String("file", filename), zap.Error(err))
	}
}

// Delete godoc
// @Summary Delete attachment
// @Tags Attachments
// @Produce json
// @Param id path string true "Attachment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorEnvelope
// @Security BearerAuth
// @Router /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete attachment", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AttachmentHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		respondError(w, domain.CodeValidationError, "invalid multipart request")
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, domain.CodeValidationError, "missing file field")
		return nil, nil, false
	}
	return file, header, true
}
