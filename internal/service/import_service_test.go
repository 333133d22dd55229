package service_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/excel"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// importWorkbook builds an .xlsx upload with the standard customer headers
func importWorkbook(t *testing.T, rows [][]interface{}) io.Reader {
	t.Helper()
	data, err := excel.WriteSheet("Sheet1", excel.RequiredColumns, rows)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestImportService_Validate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newImportService(db)
	ctx := adminContext()

	t.Run("missing column reported", func(t *testing.T) {
		data, err := excel.WriteSheet("Sheet1",
			[]string{"Name of the Customer", "Place", "Department", "Zone"},
			[][]interface{}{{"Acme Industries", "Pune", "Logistics", "Central Zone"}})
		require.NoError(t, err)

		result, err := svc.Validate(ctx, bytes.NewReader(data))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Serial Number", result.Errors[0].Column)
	})

	t.Run("no data rows reported", func(t *testing.T) {
		result, err := svc.Validate(ctx, importWorkbook(t, nil))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0].Message, "no data rows")
	})

	t.Run("previews zones and serials a commit would create", func(t *testing.T) {
		existing := testutil.CreateTestZone(t, db, "North Zone", "N")
		customer := testutil.CreateTestCustomer(t, db, existing.ID, "Beta Corp", "Nagpur")
		testutil.CreateTestAsset(t, db, customer.ID, "SN-OLD")

		result, err := svc.Validate(ctx, importWorkbook(t, [][]interface{}{
			{"Acme Industries", "Pune", "Logistics", "Central Zone", "SN-NEW"},
			{"Beta Corp", "Nagpur", "", "North Zone", "SN-OLD"},
		}))
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 2, result.RowCount)
		assert.Equal(t, []string{"Central Zone"}, result.NewZones)
		assert.Equal(t, []string{"SN-NEW"}, result.NewSerials)
	})

	t.Run("rows with blanks rejected", func(t *testing.T) {
		result, err := svc.Validate(ctx, importWorkbook(t, [][]interface{}{
			{"", "Pune", "", "Central Zone", "SN-1"},
			{"Acme Industries", "Pune", "", "", "SN-2"},
			{"Acme Industries", "Pune", "", "Central Zone", ""},
		}))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 3)
	})
}

func TestImportService_Import(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newImportService(db)
	ctx := adminContext()

	upload := [][]interface{}{
		{"Acme Industries", "Pune", "Logistics", "Central Zone", "SN-1001"},
		{"Acme Industries", "Pune", "Logistics", "Central Zone", "SN-1002"},
		{"Beta Corp", "Nagpur", "", "North Zone", "SN-2001"},
	}

	t.Run("first run creates everything", func(t *testing.T) {
		result, err := svc.Import(ctx, importWorkbook(t, upload))
		require.NoError(t, err)

		assert.Equal(t, 2, result.ZonesCreated)
		assert.Equal(t, 2, result.CustomersCreated)
		assert.Equal(t, 3, result.AssetsCreated)
		assert.Zero(t, result.RowsSkipped)

		var zone domain.ServiceZone
		require.NoError(t, db.First(&zone, "name = ?", "Central Zone").Error)
		assert.Equal(t, "C", zone.ShortForm, "auto-created zone gets a derived short form")
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		result, err := svc.Import(ctx, importWorkbook(t, upload))
		require.NoError(t, err)

		assert.Zero(t, result.ZonesCreated)
		assert.Zero(t, result.CustomersCreated)
		assert.Zero(t, result.CustomersUpdated)
		assert.Zero(t, result.AssetsCreated)
		assert.Zero(t, result.AssetsUpdated)
	})

	t.Run("serial moving between customers re-homes the asset", func(t *testing.T) {
		result, err := svc.Import(ctx, importWorkbook(t, [][]interface{}{
			{"Beta Corp", "Nagpur", "", "North Zone", "SN-1002"},
		}))
		require.NoError(t, err)
		assert.Equal(t, 1, result.AssetsUpdated)

		var asset domain.Asset
		require.NoError(t, db.First(&asset, "serial_number = ?", "SN-1002").Error)

		var owner domain.Customer
		require.NoError(t, db.First(&owner, "id = ?", asset.CustomerID).Error)
		assert.Equal(t, "Beta Corp", owner.CompanyName)
	})

	t.Run("zone change updates the customer", func(t *testing.T) {
		result, err := svc.Import(ctx, importWorkbook(t, [][]interface{}{
			{"Beta Corp", "Nagpur", "", "Central Zone", "SN-2001"},
		}))
		require.NoError(t, err)
		assert.Equal(t, 1, result.CustomersUpdated)
	})

	t.Run("invalid rows are skipped and counted", func(t *testing.T) {
		result, err := svc.Import(ctx, importWorkbook(t, [][]interface{}{
			{"", "Pune", "", "Central Zone", "SN-3001"},
			{"Acme Industries", "Pune", "", "Central Zone", "SN-3002"},
		}))
		require.NoError(t, err)
		assert.Equal(t, 1, result.RowsSkipped)
		assert.Equal(t, 1, result.AssetsCreated)
	})

	t.Run("missing columns abort the import", func(t *testing.T) {
		data, err := excel.WriteSheet("Sheet1",
			[]string{"Name of the Customer", "Place"},
			[][]interface{}{{"Acme Industries", "Pune"}})
		require.NoError(t, err)

		_, err = svc.Import(ctx, bytes.NewReader(data))
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}
