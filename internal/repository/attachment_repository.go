package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Attachment{}, "id = ?", id).Error
}

// ListByTicket returns all attachments on a ticket, newest first
func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// ListByOffer returns all attachments on an offer, newest first
func (r *AttachmentRepository) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// CountByTicket returns the count of attachments on a ticket
func (r *AttachmentRepository) CountByTicket(ctx context.Context, ticketID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error
	return count, err
}

// CountByOffer returns the count of attachments on an offer
func (r *AttachmentRepository) CountByOffer(ctx context.Context, offerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("offer_id = ?", offerID).
		Count(&count).Error
	return count, err
}
