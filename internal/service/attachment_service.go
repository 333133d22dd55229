package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/mapper"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttachmentService handles uploads linked to tickets and offers. Images and
// documents live in separate storage subtrees.
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	ticketRepo     *repository.TicketRepository
	offerRepo      *repository.OfferRepository
	storage        storage.Storage
	logger         *zap.Logger
}

func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	ticketRepo *repository.TicketRepository,
	offerRepo *repository.OfferRepository,
	storage storage.Storage,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		ticketRepo:     ticketRepo,
		offerRepo:      offerRepo,
		storage:        storage,
		logger:         logger,
	}
}

func kindForContentType(contentType string) (domain.AttachmentKind, string) {
	if strings.HasPrefix(contentType, "image/") {
		return domain.AttachmentKindImage, "images"
	}
	return domain.AttachmentKindDocument, "documents"
}

// UploadToTicket stores a file and links it to a ticket
func (s *AttachmentService) UploadToTicket(ctx context.Context, ticketID uuid.UUID, filename, contentType string, data io.Reader) (*domain.AttachmentDTO, error) {
	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return s.upload(ctx, filename, contentType, data, &ticketID, nil)
}

// UploadToOffer stores a file and links it to an offer
func (s *AttachmentService) UploadToOffer(ctx context.Context, offerID uuid.UUID, filename, contentType string, data io.Reader) (*domain.AttachmentDTO, error) {
	if _, err := s.offerRepo.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return s.upload(ctx, filename, contentType, data, nil, &offerID)
}

func (s *AttachmentService) upload(ctx context.Context, filename, contentType string, data io.Reader, ticketID, offerID *uuid.UUID) (*domain.AttachmentDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	kind, prefix := kindForContentType(contentType)

	storagePath, size, err := s.storage.Upload(ctx, prefix, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	attachment := &domain.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Kind:        kind,
		StoragePath: storagePath,
		TicketID:    ticketID,
		OfferID:     offerID,
		UploadedBy:  userCtx.UserID,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// Best effort storage cleanup
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up attachment from storage",
				zap.Error(delErr),
				zap.String("storagePath", storagePath))
		}
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("attachmentID", attachment.ID.String()),
		zap.String("filename", filename),
		zap.String("kind", string(kind)))

	dto := mapper.ToAttachmentDTO(attachment)
	return &dto, nil
}

// Download retrieves an attachment's content.
// Returns: reader, filename, content-type, error.
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, string, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrNotFound
		}
		return nil, "", "", fmt.Errorf("failed to get attachment: %w", err)
	}

	reader, err := s.storage.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to download attachment: %w", err)
	}
	return reader, attachment.Filename, attachment.ContentType, nil
}

// Delete removes an attachment from both storage and the database
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get attachment: %w", err)
	}

	if err := s.storage.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete attachment from storage",
			zap.Error(err),
			zap.String("storagePath", attachment.StoragePath),
			zap.String("attachmentID", id.String()))
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment record: %w", err)
	}
	return nil
}

// ListByTicket returns the attachments on a ticket
func (s *AttachmentService) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]domain.AttachmentDTO, error) {
	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	attachments, err := s.attachmentRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	dtos := make([]domain.AttachmentDTO, len(attachments))
	for i := range attachments {
		dtos[i] = mapper.ToAttachmentDTO(&attachments[i])
	}
	return dtos, nil
}

// ListByOffer returns the attachments on an offer
func (s *AttachmentService) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.AttachmentDTO, error) {
	if _, err := s.offerRepo.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	attachments, err := s.attachmentRepo.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	dtos := make([]domain.AttachmentDTO, len(attachments))
	for i := range attachments {
		dtos[i] = mapper.ToAttachmentDTO(&attachments[i])
	}
	return dtos, nil
}
