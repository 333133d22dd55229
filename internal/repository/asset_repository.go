package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// scoped restricts assets through their owning customer's zone
func (r *AssetRepository) scoped(ctx context.Context, query *gorm.DB) *gorm.DB {
	scope := auth.EffectiveScope(ctx)
	switch scope.Kind {
	case auth.ScopeCustomer:
		if scope.CustomerID == nil {
			return query.Where("1 = 0")
		}
		return query.Where("customer_id = ?", *scope.CustomerID)
	case auth.ScopeZones:
		if len(scope.ZoneIDs) == 0 {
			return query.Where("1 = 0")
		}
		return query.Where("customer_id IN (?)",
			r.db.Model(&domain.Customer{}).Select("id").Where("service_zone_id IN ?", scope.ZoneIDs))
	default:
		return query
	}
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ?", id)
	query = r.scoped(ctx, query)
	if err := query.First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetBySerialNumber looks up an asset by its globally unique serial
func (r *AssetRepository) GetBySerialNumber(ctx context.Context, serial string) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Asset{}, "id = ?", id).Error
}

func (r *AssetRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Asset, error) {
	var assets []domain.Asset
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("serial_number ASC").
		Find(&assets).Error
	return assets, err
}

func (r *AssetRepository) List(ctx context.Context, page, pageSize int, search string, customerID *uuid.UUID) ([]domain.Asset, int64, error) {
	var assets []domain.Asset
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Asset{}).Preload("Customer")
	query = r.scoped(ctx, query)

	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(serial_number) LIKE ? OR LOWER(model) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(ListOrder("serial_number ASC")).Find(&assets).Error

	return assets, total, err
}

func (r *AssetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Asset{})
	query = r.scoped(ctx, query)
	err := query.Count(&count).Error
	return count, err
}
