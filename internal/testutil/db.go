package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/database"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory SQLite database carrying the full schema.
// The pool is pinned to a single connection so every query sees the same
// in-memory store.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test schema")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateTestZone inserts a service zone
func CreateTestZone(t *testing.T, db *gorm.DB, name, shortForm string) *domain.ServiceZone {
	t.Helper()
	zone := &domain.ServiceZone{
		Name:      name,
		ShortForm: shortForm,
		IsActive:  true,
	}
	require.NoError(t, db.Create(zone).Error)
	return zone
}

// CreateTestCustomer inserts an active customer in the given zone
func CreateTestCustomer(t *testing.T, db *gorm.DB, zoneID uuid.UUID, name, place string) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		CompanyName:   name,
		Place:         place,
		Status:        domain.CustomerStatusActive,
		ServiceZoneID: zoneID,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestUser inserts an active user with the given role. The email is
// made unique so a test can create several users.
func CreateTestUser(t *testing.T, db *gorm.DB, name string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Name:         name,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestAsset inserts a machine for a customer
func CreateTestAsset(t *testing.T, db *gorm.DB, customerID uuid.UUID, serial string) *domain.Asset {
	t.Helper()
	asset := &domain.Asset{
		CustomerID:   customerID,
		SerialNumber: serial,
		Status:       "ACTIVE",
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}
