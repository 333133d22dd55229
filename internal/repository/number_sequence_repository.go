package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

// NumberSequenceRepository handles database operations for number sequences.
// Sequences are SHARED between tickets and offers so reference numbers stay
// unique across both entity types within a zone/year combination.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically increments and returns the sequence for a
// zone/year. The increment is a single UPDATE so concurrent callers
// serialize on the row; the row is created starting at 1 when none exists.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, zoneID uuid.UUID, year int) (int, error) {
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.NumberSequence{}).
			Where("zone_id = ? AND year = ?", zoneID, year).
			Updates(map[string]interface{}{
				"counter":    gorm.Expr("counter + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to increment number sequence: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			seq := domain.NumberSequence{
				ZoneID:    zoneID,
				Year:      year,
				Counter:   1,
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			nextSeq = 1
			return nil
		}

		var seq domain.NumberSequence
		if err := tx.Where("zone_id = ? AND year = ?", zoneID, year).
			First(&seq).Error; err != nil {
			return fmt.Errorf("failed to read number sequence: %w", err)
		}
		nextSeq = seq.Counter
		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// GetCurrentSequence retrieves the current counter without incrementing.
// Returns 0 if no sequence exists for the zone/year.
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, zoneID uuid.UUID, year int) (int, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).
		Where("zone_id = ? AND year = ?", zoneID, year).
		First(&seq)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.Counter, nil
}

// SetSequence raises the counter to a specific value when the new value is
// higher than the current one. Used by migrations that backfill references.
func (r *NumberSequenceRepository) SetSequence(ctx context.Context, zoneID uuid.UUID, year int, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.NumberSequence{}).
			Where("zone_id = ? AND year = ? AND counter < ?", zoneID, year, value).
			Updates(map[string]interface{}{
				"counter":    value,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update number sequence: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		var seq domain.NumberSequence
		err := tx.Where("zone_id = ? AND year = ?", zoneID, year).First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = domain.NumberSequence{
				ZoneID:    zoneID,
				Year:      year,
				Counter:   value,
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get number sequence: %w", err)
		}
		// Counter is already at or above the requested value
		return nil
	})
}

// ListSequences returns all sequences (useful for debugging/admin)
func (r *NumberSequenceRepository) ListSequences(ctx context.Context) ([]domain.NumberSequence, error) {
	var sequences []domain.NumberSequence
	err := r.db.WithContext(ctx).
		Order("zone_id ASC, year DESC").
		Find(&sequences).Error
	return sequences, err
}
