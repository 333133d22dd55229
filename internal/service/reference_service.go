package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
)

// ReferenceService generates unique, formatted reference numbers for both
// tickets and offers. The counter is shared per zone/year so references
// are unique across both entity types.
//
// Format: {SHORTFORM}-{YEAR}-{SEQUENCE}
// Example: C-2026-001, N-2026-042
type ReferenceService struct {
	sequenceRepo *repository.NumberSequenceRepository
	zoneRepo     *repository.ZoneRepository
	logger       *zap.Logger
}

func NewReferenceService(
	sequenceRepo *repository.NumberSequenceRepository,
	zoneRepo *repository.ZoneRepository,
	logger *zap.Logger,
) *ReferenceService {
	return &ReferenceService{
		sequenceRepo: sequenceRepo,
		zoneRepo:     zoneRepo,
		logger:       logger,
	}
}

// NextTicketReference generates a reference for a new ticket in a zone
func (s *ReferenceService) NextTicketReference(ctx context.Context, zoneID uuid.UUID) (string, error) {
	return s.nextReference(ctx, zoneID, "ticket")
}

// NextOfferReference generates a reference for a new offer in a zone.
// The counter is shared with tickets per zone/year.
func (s *ReferenceService) NextOfferReference(ctx context.Context, zoneID uuid.UUID) (string, error) {
	return s.nextReference(ctx, zoneID, "offer")
}

// nextReference increments the zone/year counter and formats the result.
// entityType is used only for logging.
func (s *ReferenceService) nextReference(ctx context.Context, zoneID uuid.UUID, entityType string) (string, error) {
	zone, err := s.zoneRepo.GetByID(ctx, zoneID)
	if err != nil {
		return "", fmt.Errorf("failed to load zone for reference: %w", err)
	}
	if zone.ShortForm == "" {
		return "", fmt.Errorf("%w: zone %s has no short form", ErrInvalidInput, zone.Name)
	}

	year := time.Now().Year()

	nextSeq, err := s.sequenceRepo.GetNextNumber(ctx, zoneID, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("zoneID", zoneID.String()),
			zap.Int("year", year),
			zap.String("entityType", entityType),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s reference: %w", entityType, err)
	}

	// SHORTFORM-YYYY-NNN, zero-padded to 3 digits
	reference := fmt.Sprintf("%s-%d-%03d", zone.ShortForm, year, nextSeq)

	s.logger.Info("generated reference",
		zap.String("reference", reference),
		zap.String("zoneID", zoneID.String()),
		zap.Int("year", year),
		zap.Int("sequence", nextSeq),
		zap.String("entityType", entityType))

	return reference, nil
}

// CurrentSequence returns the current counter for a zone/year without
// incrementing it. Returns 0 if no counter exists yet.
func (s *ReferenceService) CurrentSequence(ctx context.Context, zoneID uuid.UUID, year int) (int, error) {
	return s.sequenceRepo.GetCurrentSequence(ctx, zoneID, year)
}

// InitializeSequence sets the counter to a specific value, for data
// migrations where numbered rows already exist. The value should be the
// last used sequence number.
func (s *ReferenceService) InitializeSequence(ctx context.Context, zoneID uuid.UUID, year, value int) error {
	return s.sequenceRepo.SetSequence(ctx, zoneID, year, value)
}
