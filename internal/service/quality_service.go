package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/repository"
	"go.uber.org/zap"
)

// QualityService repairs historical offer data: month strings whose year
// drifted from the registration date, and rows still carrying the deprecated
// PO_RECEIVED stage. It backs both the nightly sweep and the
// fix-offer-months CLI.
type QualityService struct {
	offerRepo *repository.OfferRepository
	logger    *zap.Logger
}

func NewQualityService(offerRepo *repository.OfferRepository, logger *zap.Logger) *QualityService {
	return &QualityService{
		offerRepo: offerRepo,
		logger:    logger,
	}
}

// SweepResult reports what a sweep run changed
type SweepResult struct {
	MonthsRepaired  int
	StagesCollapsed int
}

// Run executes both corrections and returns the counts
func (s *QualityService) Run(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}

	repaired, err := s.RepairMonths(ctx)
	if err != nil {
		return nil, err
	}
	result.MonthsRepaired = repaired

	collapsed, err := s.CollapseLegacyStages(ctx)
	if err != nil {
		return nil, err
	}
	result.StagesCollapsed = collapsed

	s.logger.Info("offer quality sweep finished",
		zap.Int("monthsRepaired", result.MonthsRepaired),
		zap.Int("stagesCollapsed", result.StagesCollapsed))
	return result, nil
}

// RepairMonths rewrites the year part of each "YYYY-MM" month string to the
// offer's registration year when they disagree. Returns the number of
// offers changed.
func (s *QualityService) RepairMonths(ctx context.Context) (int, error) {
	offers, err := s.offerRepo.ListWithMonths(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load offers with month fields: %w", err)
	}

	repaired := 0
	for i := range offers {
		offer := &offers[i]
		year := offer.RegistrationDate.Year()

		changed := false
		for _, field := range []*string{&offer.OfferMonth, &offer.POExpectedMonth, &offer.POReceivedMonth} {
			fixed, ok := repairMonthYear(*field, year)
			if ok {
				*field = fixed
				changed = true
			}
		}
		if !changed {
			continue
		}

		if err := s.offerRepo.SaveMonths(ctx, offer); err != nil {
			return repaired, fmt.Errorf("failed to save repaired months for offer %s: %w", offer.ID, err)
		}
		s.logger.Debug("repaired offer month fields",
			zap.String("offerID", offer.ID.String()),
			zap.String("reference", offer.Reference),
			zap.Int("year", year))
		repaired++
	}
	return repaired, nil
}

// repairMonthYear returns the corrected month string and whether a change
// was needed. Malformed values are left alone.
func repairMonthYear(month string, year int) (string, bool) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 {
		return month, false
	}
	monthYear, err := strconv.Atoi(parts[0])
	if err != nil || monthYear == year {
		return month, false
	}
	return fmt.Sprintf("%04d-%s", year, parts[1]), true
}

// CollapseLegacyStages rewrites PO_RECEIVED rows to WON. Returns the number
// of offers changed.
func (s *QualityService) CollapseLegacyStages(ctx context.Context) (int, error) {
	offers, err := s.offerRepo.ListWithLegacyStage(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load offers with legacy stage: %w", err)
	}

	collapsed := 0
	for i := range offers {
		if err := s.offerRepo.SetStage(ctx, offers[i].ID, domain.OfferStageWon); err != nil {
			return collapsed, fmt.Errorf("failed to collapse stage for offer %s: %w", offers[i].ID, err)
		}
		collapsed++
	}
	return collapsed, nil
}
