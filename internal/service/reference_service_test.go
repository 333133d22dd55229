package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceService_Format(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReferenceService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "Central Zone", "C")
	year := time.Now().Year()

	ref, err := svc.NextTicketReference(ctx, zone.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("C-%d-001", year), ref)
}

func TestReferenceService_SharedCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReferenceService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")
	year := time.Now().Year()

	// Tickets and offers draw from the same zone/year counter
	first, err := svc.NextTicketReference(ctx, zone.ID)
	require.NoError(t, err)
	second, err := svc.NextOfferReference(ctx, zone.ID)
	require.NoError(t, err)
	third, err := svc.NextTicketReference(ctx, zone.ID)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("N-%d-001", year), first)
	assert.Equal(t, fmt.Sprintf("N-%d-002", year), second)
	assert.Equal(t, fmt.Sprintf("N-%d-003", year), third)
}

func TestReferenceService_PerZoneCounters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReferenceService(db)
	ctx := context.Background()

	north := testutil.CreateTestZone(t, db, "North Zone", "N")
	south := testutil.CreateTestZone(t, db, "South Zone", "S")
	year := time.Now().Year()

	_, err := svc.NextTicketReference(ctx, north.ID)
	require.NoError(t, err)
	_, err = svc.NextTicketReference(ctx, north.ID)
	require.NoError(t, err)

	// South is untouched by North's counter
	ref, err := svc.NextOfferReference(ctx, south.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("S-%d-001", year), ref)
}

func TestReferenceService_Sequences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReferenceService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "East Zone", "E")
	year := time.Now().Year()

	t.Run("current sequence starts at zero", func(t *testing.T) {
		current, err := svc.CurrentSequence(ctx, zone.ID, year)
		require.NoError(t, err)
		assert.Equal(t, 0, current)
	})

	t.Run("initialize backfills the counter", func(t *testing.T) {
		require.NoError(t, svc.InitializeSequence(ctx, zone.ID, year, 41))

		ref, err := svc.NextTicketReference(ctx, zone.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("E-%d-042", year), ref)
	})

	t.Run("initialize never lowers the counter", func(t *testing.T) {
		require.NoError(t, svc.InitializeSequence(ctx, zone.ID, year, 5))

		current, err := svc.CurrentSequence(ctx, zone.ID, year)
		require.NoError(t, err)
		assert.Equal(t, 42, current)
	})
}

func TestReferenceService_ZoneWithoutShortForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReferenceService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "Unnamed Region", "")

	_, err := svc.NextTicketReference(ctx, zone.ID)
	assert.Error(t, err)
}
