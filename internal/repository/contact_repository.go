package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// scoped restricts contacts through their owning customer's zone. Contacts
// carry no zone_id themselves, so zone scoping goes through a subquery.
func (r *ContactRepository) scoped(ctx context.Context, query *gorm.DB) *gorm.DB {
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

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ?", id)
	query = r.scoped(ctx, query)
	if err := query.First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}

func (r *ContactRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Contact, int64, error) {
	var contacts []domain.Contact
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Contact{}).Preload("Customer")
	query = r.scoped(ctx, query)

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(ListOrder("name ASC")).Find(&contacts).Error

	return contacts, total, err
}
