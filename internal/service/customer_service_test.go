package service_test

import (
	"testing"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_ZoneBoundary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCustomerService(db)

	north := testutil.CreateTestZone(t, db, "North Zone", "N")
	south := testutil.CreateTestZone(t, db, "South Zone", "S")

	t.Run("admin creates in any zone", func(t *testing.T) {
		dto, err := svc.Create(adminContext(), &domain.CreateCustomerRequest{
			CompanyName: "Anywhere Inc",
			Place:       "Delhi",
			ZoneID:      south.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Anywhere Inc", dto.CompanyName)
	})

	t.Run("zone manager creates only within assigned zones", func(t *testing.T) {
		scoped := zoneScopedContext(domain.RoleZoneManager, north.ID)

		_, err := svc.Create(scoped, &domain.CreateCustomerRequest{
			CompanyName: "North Mills",
			Place:       "Delhi",
			ZoneID:      north.ID,
		})
		require.NoError(t, err)

		_, err = svc.Create(scoped, &domain.CreateCustomerRequest{
			CompanyName: "South Mills",
			Place:       "Chennai",
			ZoneID:      south.ID,
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("zone manager cannot move a customer out of reach", func(t *testing.T) {
		customer := testutil.CreateTestCustomer(t, db, north.ID, "Movable Co", "Delhi")
		scoped := zoneScopedContext(domain.RoleZoneManager, north.ID)

		_, err := svc.Update(scoped, customer.ID, &domain.UpdateCustomerRequest{
			CompanyName: customer.CompanyName,
			Place:       customer.Place,
			ZoneID:      south.ID,
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		// An admin may move it
		dto, err := svc.Update(adminContext(), customer.ID, &domain.UpdateCustomerRequest{
			CompanyName: customer.CompanyName,
			Place:       customer.Place,
			ZoneID:      south.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, south.ID, dto.ZoneID)
	})
}
