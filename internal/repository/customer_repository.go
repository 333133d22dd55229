package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// scoped applies the caller's visibility filter. For customers the customer
// scope matches the row's own id rather than a customer_id column.
func (r *CustomerRepository) scoped(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyZoneScope(ctx, query, "service_zone_id", "id")
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	query := r.db.WithContext(ctx).Preload("ServiceZone").Where("id = ?", id)
	query = r.scoped(ctx, query)
	err := query.First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByIDWithDetails loads a customer with contacts and assets preloaded
func (r *CustomerRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	query := r.db.WithContext(ctx).
		Preload("ServiceZone").
		Preload("Contacts").
		Preload("Assets").
		Where("id = ?", id)
	query = r.scoped(ctx, query)
	err := query.First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByNameAndPlace finds a customer by its import identity columns
func (r *CustomerRepository) GetByNameAndPlace(ctx context.Context, companyName, place string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("company_name = ? AND place = ?", companyName, place).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id).Error
}

func (r *CustomerRepository) List(ctx context.Context, page, pageSize int, search string, zoneID *uuid.UUID) ([]domain.Customer, int64, error) {
	var customers []domain.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Customer{}).Preload("ServiceZone")
	query = r.scoped(ctx, query)

	if zoneID != nil {
		query = query.Where("service_zone_id = ?", *zoneID)
	}

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(company_name) LIKE ? OR LOWER(place) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(ListOrder()).Find(&customers).Error

	return customers, total, err
}

// ListAll returns every visible customer without pagination, for exports
func (r *CustomerRepository) ListAll(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	query := r.db.WithContext(ctx).
		Preload("ServiceZone").
		Preload("Assets").
		Order("company_name ASC")
	query = r.scoped(ctx, query)
	err := query.Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) GetContactsCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).Where("customer_id = ?", customerID).Count(&count).Error
	return int(count), err
}

func (r *CustomerRepository) GetAssetsCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Asset{}).Where("customer_id = ?", customerID).Count(&count).Error
	return int(count), err
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Customer{})
	query = r.scoped(ctx, query)
	err := query.Count(&count).Error
	return count, err
}

func (r *CustomerRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Customer, error) {
	var customers []domain.Customer
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	query := r.db.WithContext(ctx).
		Where("LOWER(company_name) LIKE ? OR LOWER(place) LIKE ?", searchPattern, searchPattern)
	query = r.scoped(ctx, query)
	err := query.Limit(limit).Find(&customers).Error
	return customers, err
}
