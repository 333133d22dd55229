package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var offer domain.Offer
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Zone").
		Preload("AssignedTo").
		Where("id = ?", id)
	query = ApplyScope(ctx, query)
	if err := query.First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetByIDWithDetails loads an offer with linked assets and stage remarks
func (r *OfferRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var offer domain.Offer
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Zone").
		Preload("AssignedTo").
		Preload("Assets").
		Preload("Assets.Asset").
		Preload("Remarks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id)
	query = ApplyScope(ctx, query)
	if err := query.First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *OfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

// Delete removes an offer and its dependents in one transaction.
// Dependent rows go first: offer assets, then stage remarks, then the offer
// itself, so a mid-flight failure never leaves orphaned children.
func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.OfferAsset{}, "offer_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.StageRemark{}, "offer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Offer{}, "id = ?", id).Error
	})
}

// OfferFilters narrows List results
type OfferFilters struct {
	Stage      *domain.OfferStage
	CustomerID *uuid.UUID
	ZoneID     *uuid.UUID
	Search     string
}

func (r *OfferRepository) List(ctx context.Context, page, pageSize int, filters OfferFilters) ([]domain.Offer, int64, error) {
	var offers []domain.Offer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Preload("Customer").
		Preload("Zone")
	query = ApplyScope(ctx, query)

	if filters.Stage != nil {
		query = query.Where("stage = ?", *filters.Stage)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.ZoneID != nil {
		query = query.Where("zone_id = ?", *filters.ZoneID)
	}
	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(reference) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(ListOrder()).Find(&offers).Error

	return offers, total, err
}

// UpdateStage overwrites the offer stage and appends a remark row in one
// transaction. Any valid stage may follow any other.
func (r *OfferRepository) UpdateStage(ctx context.Context, offer *domain.Offer, remark *domain.StageRemark) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"stage": offer.Stage,
		}
		if offer.POReceivedMonth != "" {
			updates["po_received_month"] = offer.POReceivedMonth
		}
		if offer.POValue != 0 {
			updates["po_value"] = offer.POValue
		}
		if err := tx.Model(&domain.Offer{}).
			Where("id = ?", offer.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(remark).Error
	})
}

// AddAsset links an asset to an offer
func (r *OfferRepository) AddAsset(ctx context.Context, link *domain.OfferAsset) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// RemoveAsset unlinks an asset from an offer
func (r *OfferRepository) RemoveAsset(ctx context.Context, offerID, linkID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.OfferAsset{}, "id = ? AND offer_id = ?", linkID, offerID).Error
}

// AddRemark appends a free-standing remark without changing the stage
func (r *OfferRepository) AddRemark(ctx context.Context, remark *domain.StageRemark) error {
	return r.db.WithContext(ctx).Create(remark).Error
}

// Remarks returns the remark log for an offer, newest first
func (r *OfferRepository) Remarks(ctx context.Context, offerID uuid.UUID) ([]domain.StageRemark, error) {
	var remarks []domain.StageRemark
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("created_at DESC").
		Find(&remarks).Error
	return remarks, err
}

// StageFunnel aggregates offer counts and value per stage for the dashboard
func (r *OfferRepository) StageFunnel(ctx context.Context) ([]domain.StageFunnelData, error) {
	var rows []struct {
		Stage domain.OfferStage
		Count int64
		Value float64
	}

	query := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Select("stage, COUNT(*) as count, COALESCE(SUM(offer_value), 0) as value").
		Group("stage")
	query = ApplyScope(ctx, query)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	funnel := make([]domain.StageFunnelData, 0, len(rows))
	for _, row := range rows {
		funnel = append(funnel, domain.StageFunnelData{
			Stage:      row.Stage,
			Count:      row.Count,
			TotalValue: row.Value,
		})
	}
	return funnel, nil
}

// WonStats counts WON offers and sums their PO value. Legacy PO_RECEIVED rows
// count as won until the quality sweep collapses them.
func (r *OfferRepository) WonStats(ctx context.Context) (count int64, value float64, err error) {
	won := []domain.OfferStage{domain.OfferStageWon, domain.OfferStagePOReceived}

	query := r.db.WithContext(ctx).Model(&domain.Offer{}).Where("stage IN ?", won)
	query = ApplyScope(ctx, query)
	if err = query.Count(&count).Error; err != nil {
		return
	}

	var row struct{ Value float64 }
	query = r.db.WithContext(ctx).Model(&domain.Offer{}).
		Select("COALESCE(SUM(po_value), 0) as value").
		Where("stage IN ?", won)
	query = ApplyScope(ctx, query)
	err = query.Scan(&row).Error
	value = row.Value
	return
}

// CountActive counts offers not yet decided
func (r *OfferRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	decided := []domain.OfferStage{domain.OfferStageWon, domain.OfferStagePOReceived, domain.OfferStageLost}
	query := r.db.WithContext(ctx).Model(&domain.Offer{}).Where("stage NOT IN ?", decided)
	query = ApplyScope(ctx, query)
	err := query.Count(&count).Error
	return count, err
}

// Recent returns the latest offers for the dashboard
func (r *OfferRepository) Recent(ctx context.Context, limit int) ([]domain.Offer, error) {
	var offers []domain.Offer
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Zone").
		Order("created_at DESC").
		Limit(limit)
	query = ApplyScope(ctx, query)
	err := query.Find(&offers).Error
	return offers, err
}

// ListAll returns every visible offer without pagination, for exports
func (r *OfferRepository) ListAll(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Zone").
		Preload("AssignedTo").
		Order("created_at DESC")
	query = ApplyScope(ctx, query)
	err := query.Find(&offers).Error
	return offers, err
}

// ListWithLegacyStage returns offers still carrying the deprecated
// PO_RECEIVED stage, for the quality sweep.
func (r *OfferRepository) ListWithLegacyStage(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := r.db.WithContext(ctx).
		Where("stage = ?", domain.OfferStagePOReceived).
		Find(&offers).Error
	return offers, err
}

// ListWithMonths returns offers with at least one month field set. Month/year
// consistency is checked in Go so the query stays portable across dialects.
func (r *OfferRepository) ListWithMonths(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := r.db.WithContext(ctx).
		Where("offer_month != '' OR po_expected_month != '' OR po_received_month != ''").
		Find(&offers).Error
	return offers, err
}

// SaveMonths persists only the month fields of an offer
func (r *OfferRepository) SaveMonths(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ?", offer.ID).
		Updates(map[string]interface{}{
			"offer_month":       offer.OfferMonth,
			"po_expected_month": offer.POExpectedMonth,
			"po_received_month": offer.POReceivedMonth,
		}).Error
}

// SetStage overwrites only the stage column, for the quality sweep
func (r *OfferRepository) SetStage(ctx context.Context, id uuid.UUID, stage domain.OfferStage) error {
	return r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ?", id).
		Update("stage", stage).Error
}
