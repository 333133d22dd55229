package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOffer(t *testing.T, db *gorm.DB, zoneID, customerID uuid.UUID, reference string, mutate func(*domain.Offer)) *domain.Offer {
	t.Helper()
	offer := &domain.Offer{
		Reference:        reference,
		Title:            "Seeded offer",
		Stage:            domain.OfferStageInitial,
		CustomerID:       customerID,
		ZoneID:           zoneID,
		CreatedByID:      uuid.New(),
		RegistrationDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(offer)
	}
	require.NoError(t, db.Create(offer).Error)
	return offer
}

func TestQualityService_RepairMonths(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQualityService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "Central Zone", "C")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")

	drifted := seedOffer(t, db, zone.ID, customer.ID, "C-2025-001", func(o *domain.Offer) {
		o.OfferMonth = "2024-06"
		o.POExpectedMonth = "2026-08"
	})
	consistent := seedOffer(t, db, zone.ID, customer.ID, "C-2025-002", func(o *domain.Offer) {
		o.OfferMonth = "2025-06"
	})
	malformed := seedOffer(t, db, zone.ID, customer.ID, "C-2025-003", func(o *domain.Offer) {
		o.OfferMonth = "June 2024"
	})

	repaired, err := svc.RepairMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired, "only the drifted offer counts")

	var row domain.Offer
	require.NoError(t, db.First(&row, "id = ?", drifted.ID).Error)
	assert.Equal(t, "2025-06", row.OfferMonth, "year rewritten to the registration year")
	assert.Equal(t, "2025-08", row.POExpectedMonth)

	row = domain.Offer{}
	require.NoError(t, db.First(&row, "id = ?", consistent.ID).Error)
	assert.Equal(t, "2025-06", row.OfferMonth)

	row = domain.Offer{}
	require.NoError(t, db.First(&row, "id = ?", malformed.ID).Error)
	assert.Equal(t, "June 2024", row.OfferMonth, "malformed values are left alone")
}

func TestQualityService_CollapseLegacyStages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQualityService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Beta Corp", "Nagpur")

	legacy := seedOffer(t, db, zone.ID, customer.ID, "N-2025-001", func(o *domain.Offer) {
		o.Stage = domain.OfferStagePOReceived
	})
	won := seedOffer(t, db, zone.ID, customer.ID, "N-2025-002", func(o *domain.Offer) {
		o.Stage = domain.OfferStageWon
	})
	open := seedOffer(t, db, zone.ID, customer.ID, "N-2025-003", nil)

	collapsed, err := svc.CollapseLegacyStages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, collapsed)

	var row domain.Offer
	require.NoError(t, db.First(&row, "id = ?", legacy.ID).Error)
	assert.Equal(t, domain.OfferStageWon, row.Stage)

	row = domain.Offer{}
	require.NoError(t, db.First(&row, "id = ?", won.ID).Error)
	assert.Equal(t, domain.OfferStageWon, row.Stage)

	row = domain.Offer{}
	require.NoError(t, db.First(&row, "id = ?", open.ID).Error)
	assert.Equal(t, domain.OfferStageInitial, row.Stage)
}

func TestQualityService_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQualityService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "South Zone", "S")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Gamma Ltd", "Chennai")

	seedOffer(t, db, zone.ID, customer.ID, "S-2025-001", func(o *domain.Offer) {
		o.OfferMonth = "2023-01"
		o.Stage = domain.OfferStagePOReceived
	})

	result, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MonthsRepaired)
	assert.Equal(t, 1, result.StagesCollapsed)

	t.Run("second run is a no-op", func(t *testing.T) {
		result, err := svc.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, result.MonthsRepaired)
		assert.Zero(t, result.StagesCollapsed)
	})
}
