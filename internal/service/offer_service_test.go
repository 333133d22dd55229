package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOfferService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "Central Zone", "C")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")

	t.Run("starts at INITIAL with a reference", func(t *testing.T) {
		offer, err := svc.Create(ctx, &domain.CreateOfferRequest{
			Title:      "Shuttle retrofit",
			CustomerID: customer.ID,
			OfferValue: 250000,
		})
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("C-%d-001", time.Now().Year()), offer.Reference)
		assert.Equal(t, domain.OfferStageInitial, offer.Stage)
		assert.Equal(t, zone.ID, offer.ZoneID, "offer inherits the customer's zone")

		remarks, err := svc.Remarks(ctx, offer.ID)
		require.NoError(t, err)
		require.Len(t, remarks, 1)
		assert.Nil(t, remarks[0].FromStage)
		assert.Equal(t, domain.OfferStageInitial, remarks[0].ToStage)
	})

	t.Run("offer month defaults to registration month", func(t *testing.T) {
		offer, err := svc.Create(ctx, &domain.CreateOfferRequest{
			Title:            "Spare parts package",
			CustomerID:       customer.ID,
			RegistrationDate: "2026-03-15",
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-15", offer.RegistrationDate)
		assert.Equal(t, "2026-03", offer.OfferMonth)
	})

	t.Run("explicit offer month kept", func(t *testing.T) {
		offer, err := svc.Create(ctx, &domain.CreateOfferRequest{
			Title:            "Maintenance contract",
			CustomerID:       customer.ID,
			RegistrationDate: "2026-03-15",
			OfferMonth:       "2026-04",
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-04", offer.OfferMonth)
	})

	t.Run("bad registration date", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateOfferRequest{
			Title:            "Bad date",
			CustomerID:       customer.ID,
			RegistrationDate: "15/03/2026",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestOfferService_UpdateStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOfferService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Beta Corp", "Nagpur")

	offer, err := svc.Create(ctx, &domain.CreateOfferRequest{
		Title:      "Crane refurbishment",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	t.Run("moving to WON stamps the received month", func(t *testing.T) {
		updated, err := svc.UpdateStage(ctx, offer.ID, &domain.UpdateOfferStageRequest{
			Stage: domain.OfferStageWon,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OfferStageWon, updated.Stage)
		assert.Equal(t, time.Now().Format("2006-01"), updated.POReceivedMonth)
	})

	t.Run("lost goes back to negotiation by overwrite", func(t *testing.T) {
		_, err := svc.UpdateStage(ctx, offer.ID, &domain.UpdateOfferStageRequest{Stage: domain.OfferStageLost})
		require.NoError(t, err)

		updated, err := svc.UpdateStage(ctx, offer.ID, &domain.UpdateOfferStageRequest{
			Stage:  domain.OfferStageNegotiation,
			Remark: "customer reopened the discussion",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OfferStageNegotiation, updated.Stage)
	})

	t.Run("every overwrite appends a remark row", func(t *testing.T) {
		remarks, err := svc.Remarks(ctx, offer.ID)
		require.NoError(t, err)
		// opening + WON + LOST + NEGOTIATION
		assert.Len(t, remarks, 4)
	})

	t.Run("deprecated PO_RECEIVED alias accepted", func(t *testing.T) {
		updated, err := svc.UpdateStage(ctx, offer.ID, &domain.UpdateOfferStageRequest{
			Stage: domain.OfferStagePOReceived,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OfferStagePOReceived, updated.Stage)
	})

	t.Run("received month stamped only once", func(t *testing.T) {
		var row domain.Offer
		require.NoError(t, db.First(&row, "id = ?", offer.ID).Error)

		first := row.POReceivedMonth
		require.NotEmpty(t, first)

		_, err := svc.UpdateStage(ctx, offer.ID, &domain.UpdateOfferStageRequest{Stage: domain.OfferStageWon})
		require.NoError(t, err)

		require.NoError(t, db.First(&row, "id = ?", offer.ID).Error)
		assert.Equal(t, first, row.POReceivedMonth)
	})

	t.Run("unknown stage rejected", func(t *testing.T) {
		_, err := svc.UpdateStage(ctx, offer.ID, &domain.UpdateOfferStageRequest{Stage: "SIGNED"})
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})
}

func TestOfferService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOfferService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "South Zone", "S")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Gamma Ltd", "Chennai")
	asset := testutil.CreateTestAsset(t, db, customer.ID, "SN-1001")

	offer, err := svc.Create(ctx, &domain.CreateOfferRequest{
		Title:      "Full line upgrade",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	_, err = svc.AddAsset(ctx, offer.ID, &domain.AddOfferAssetRequest{AssetID: asset.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddRemark(ctx, offer.ID, &domain.AddStageRemarkRequest{Remark: "waiting on budget"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, offer.ID))

	t.Run("offer row gone", func(t *testing.T) {
		_, err := svc.GetByID(ctx, offer.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("no orphaned children", func(t *testing.T) {
		var assetLinks, remarks int64
		require.NoError(t, db.Model(&domain.OfferAsset{}).Where("offer_id = ?", offer.ID).Count(&assetLinks).Error)
		require.NoError(t, db.Model(&domain.StageRemark{}).Where("offer_id = ?", offer.ID).Count(&remarks).Error)
		assert.Zero(t, assetLinks)
		assert.Zero(t, remarks)
	})

	t.Run("delete unknown offer", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), service.ErrNotFound)
	})
}

func TestOfferService_Assets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOfferService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "West Zone", "W")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Delta GmbH", "Mumbai")
	asset := testutil.CreateTestAsset(t, db, customer.ID, "SN-2002")

	offer, err := svc.Create(ctx, &domain.CreateOfferRequest{
		Title:      "Single machine quote",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	t.Run("quantity defaults to one", func(t *testing.T) {
		link, err := svc.AddAsset(ctx, offer.ID, &domain.AddOfferAssetRequest{AssetID: asset.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, link.Quantity)
		assert.Equal(t, asset.ID, link.AssetID)
	})

	t.Run("remove unlinks", func(t *testing.T) {
		details, err := svc.GetByID(ctx, offer.ID)
		require.NoError(t, err)
		require.Len(t, details.Assets, 1)

		require.NoError(t, svc.RemoveAsset(ctx, offer.ID, details.Assets[0].ID))

		details, err = svc.GetByID(ctx, offer.ID)
		require.NoError(t, err)
		assert.Empty(t, details.Assets)
	})

	t.Run("unknown asset rejected", func(t *testing.T) {
		_, err := svc.AddAsset(ctx, offer.ID, &domain.AddOfferAssetRequest{AssetID: uuid.New()})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
