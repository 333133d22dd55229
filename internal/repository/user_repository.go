package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("ZoneLinks").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("ZoneLinks").
		First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int, role *domain.UserRole) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.User{}).Preload("ZoneLinks")
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(ListOrder("name ASC")).Find(&users).Error

	return users, total, err
}

// ListByZone returns active users assigned to the given zone
func (r *UserRepository) ListByZone(ctx context.Context, zoneID uuid.UUID) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN service_person_zones ON service_person_zones.user_id = users.id").
		Where("service_person_zones.service_zone_id = ? AND users.is_active = ?", zoneID, true).
		Find(&users).Error
	return users, err
}

// TouchLastLogin records the login time without rewriting the row
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
}

// ZoneIDsForUser returns the zone IDs a user is assigned to
func (r *UserRepository) ZoneIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var links []domain.ServicePersonZone
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ServiceZoneID)
	}
	return ids, nil
}
