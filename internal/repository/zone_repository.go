package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type ZoneRepository struct {
	db *gorm.DB
}

func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

func (r *ZoneRepository) Create(ctx context.Context, zone *domain.ServiceZone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *ZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceZone, error) {
	var zone domain.ServiceZone
	err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) GetByName(ctx context.Context, name string) (*domain.ServiceZone, error) {
	var zone domain.ServiceZone
	err := r.db.WithContext(ctx).First(&zone, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) GetByShortForm(ctx context.Context, shortForm string) (*domain.ServiceZone, error) {
	var zone domain.ServiceZone
	err := r.db.WithContext(ctx).First(&zone, "short_form = ?", shortForm).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) Update(ctx context.Context, zone *domain.ServiceZone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

func (r *ZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ServiceZone{}, "id = ?", id).Error
}

// List returns every zone ordered by name
func (r *ZoneRepository) List(ctx context.Context) ([]domain.ServiceZone, error) {
	var zones []domain.ServiceZone
	err := r.db.WithContext(ctx).Order("name ASC").Find(&zones).Error
	return zones, err
}

// CustomerCount returns the number of customers assigned to a zone
func (r *ZoneRepository) CustomerCount(ctx context.Context, zoneID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("service_zone_id = ?", zoneID).
		Count(&count).Error
	return count, err
}

// AssignUser links a service person to a zone. The unique index on
// (user_id, service_zone_id) rejects duplicate assignments.
func (r *ZoneRepository) AssignUser(ctx context.Context, link *domain.ServicePersonZone) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// UnassignUser removes a service person's link to a zone
func (r *ZoneRepository) UnassignUser(ctx context.Context, userID, zoneID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.ServicePersonZone{}, "user_id = ? AND service_zone_id = ?", userID, zoneID).Error
}

// GetAssignment returns the link row for a user/zone pair, if any
func (r *ZoneRepository) GetAssignment(ctx context.Context, userID, zoneID uuid.UUID) (*domain.ServicePersonZone, error) {
	var link domain.ServicePersonZone
	err := r.db.WithContext(ctx).
		First(&link, "user_id = ? AND service_zone_id = ?", userID, zoneID).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListAssignments returns every user link for a zone together with the user
func (r *ZoneRepository) ListAssignments(ctx context.Context, zoneID uuid.UUID) ([]domain.ServicePersonZone, error) {
	var links []domain.ServicePersonZone
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("service_zone_id = ?", zoneID).
		Find(&links).Error
	return links, err
}

// ListAssignmentsForUser returns every zone link for a user together with the zone
func (r *ZoneRepository) ListAssignmentsForUser(ctx context.Context, userID uuid.UUID) ([]domain.ServicePersonZone, error) {
	var links []domain.ServicePersonZone
	err := r.db.WithContext(ctx).
		Preload("ServiceZone").
		Where("user_id = ?", userID).
		Find(&links).Error
	return links, err
}
