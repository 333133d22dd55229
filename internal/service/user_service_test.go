package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		user, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:    "tech@example.com",
			Name:     "Field Tech",
			Password: "correct-horse",
			Role:     domain.RoleServicePerson,
		})
		require.NoError(t, err)
		assert.True(t, user.IsActive)

		var row domain.User
		require.NoError(t, db.First(&row, "id = ?", user.ID).Error)
		assert.NotEqual(t, "correct-horse", row.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("correct-horse")))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:    "tech@example.com",
			Name:     "Imposter",
			Password: "password123",
			Role:     domain.RoleZoneUser,
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:    "other@example.com",
			Name:     "Other",
			Password: "password123",
			Role:     "SUPERVISOR",
		})
		assert.ErrorIs(t, err, service.ErrInvalidRole)
	})

	t.Run("customer role requires a customer", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:    "owner@example.com",
			Name:     "Owner",
			Password: "password123",
			Role:     domain.RoleCustomerOwner,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("customer role with a customer", func(t *testing.T) {
		zone := testutil.CreateTestZone(t, db, "Central Zone", "C")
		customer := testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")

		user, err := svc.Create(ctx, &domain.CreateUserRequest{
			Email:      "owner@example.com",
			Name:       "Owner",
			Password:   "password123",
			Role:       domain.RoleCustomerOwner,
			CustomerID: &customer.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, user.CustomerID)
		assert.Equal(t, customer.ID, *user.CustomerID)
	})
}

func TestUserService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "Leaving Soon", domain.RoleZoneUser)

	require.NoError(t, svc.Delete(ctx, user.ID))

	// Deactivated, not removed: history rows keep their author
	var row domain.User
	require.NoError(t, db.First(&row, "id = ?", user.ID).Error)
	assert.False(t, row.IsActive)

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), service.ErrUserNotFound)
	})
}

func TestUserService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, "Promotable", domain.RoleZoneUser)

	t.Run("role change", func(t *testing.T) {
		updated, err := svc.Update(ctx, user.ID, &domain.UpdateUserRequest{
			Name: "Promotable",
			Role: domain.RoleZoneManager,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleZoneManager, updated.Role)
	})

	t.Run("reactivation", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, user.ID))

		active := true
		updated, err := svc.Update(ctx, user.ID, &domain.UpdateUserRequest{
			Name:     "Promotable",
			Role:     domain.RoleZoneManager,
			IsActive: &active,
		})
		require.NoError(t, err)
		assert.True(t, updated.IsActive)
	})
}
