package service_test

import (
	"context"
	"testing"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveShortForm(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"North Zone", "N"},
		{"South Zone", "S"},
		{"East Zone", "E"},
		{"West Zone", "W"},
		{"Central Zone", "C"},
		{"North East", "NE"},
		{"South West", "SW"},
		{"Karnataka", "K"},
		{"  Central Zone  ", "C"}, // padded known name
		{"bangalore", "B"},        // fallback uppercases
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, service.DeriveShortForm(tc.name), "name %q", tc.name)
	}
}

func TestZoneService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newZoneService(db)
	ctx := context.Background()

	t.Run("derives short form from known name", func(t *testing.T) {
		zone, err := svc.Create(ctx, &domain.CreateServiceZoneRequest{Name: "Central Zone"})
		require.NoError(t, err)
		assert.Equal(t, "C", zone.ShortForm)
		assert.True(t, zone.IsActive)
	})

	t.Run("explicit short form wins", func(t *testing.T) {
		zone, err := svc.Create(ctx, &domain.CreateServiceZoneRequest{Name: "Coastal Belt", ShortForm: "CB"})
		require.NoError(t, err)
		assert.Equal(t, "CB", zone.ShortForm)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateServiceZoneRequest{Name: "Central Zone"})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("duplicate short form rejected", func(t *testing.T) {
		// "Chennai" derives "C", already taken by Central Zone
		_, err := svc.Create(ctx, &domain.CreateServiceZoneRequest{Name: "Chennai"})
		assert.ErrorIs(t, err, service.ErrConflict)
	})
}

func TestZoneService_EnsureZone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newZoneService(db)
	ctx := context.Background()

	t.Run("returns existing zone without creating", func(t *testing.T) {
		existing := testutil.CreateTestZone(t, db, "North Zone", "N")

		zone, created, err := svc.EnsureZone(ctx, "North Zone")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, zone.ID)
	})

	t.Run("creates missing zone with derived short form", func(t *testing.T) {
		zone, created, err := svc.EnsureZone(ctx, "South Zone")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "S", zone.ShortForm)
		assert.True(t, zone.IsActive)
	})

	t.Run("extends short form on collision", func(t *testing.T) {
		// "Nagpur" derives "N", taken by North Zone; next candidate is "NA"
		zone, created, err := svc.EnsureZone(ctx, "Nagpur")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "NA", zone.ShortForm)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, _, err := svc.EnsureZone(ctx, "   ")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestZoneService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newZoneService(db)
	ctx := context.Background()

	t.Run("blocked while customers remain", func(t *testing.T) {
		zone := testutil.CreateTestZone(t, db, "Busy Zone", "BZ")
		testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")

		err := svc.Delete(ctx, zone.ID)
		assert.ErrorIs(t, err, service.ErrZoneHasCustomers)
	})

	t.Run("empty zone deletes", func(t *testing.T) {
		zone := testutil.CreateTestZone(t, db, "Empty Zone", "EZ")

		require.NoError(t, svc.Delete(ctx, zone.ID))

		_, err := svc.GetByID(ctx, zone.ID)
		assert.ErrorIs(t, err, service.ErrZoneNotFound)
	})
}

func TestZoneService_Assignments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newZoneService(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "West Zone", "W")
	user := testutil.CreateTestUser(t, db, "Field Tech", domain.RoleServicePerson)

	t.Run("assign and list", func(t *testing.T) {
		dto, err := svc.AssignUser(ctx, &domain.AssignZoneRequest{UserID: user.ID, ZoneID: zone.ID})
		require.NoError(t, err)
		assert.Equal(t, user.ID, dto.UserID)
		assert.Equal(t, zone.ID, dto.ZoneID)

		links, err := svc.ListAssignments(ctx, zone.ID)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, user.ID, links[0].UserID)
	})

	t.Run("duplicate assignment rejected", func(t *testing.T) {
		_, err := svc.AssignUser(ctx, &domain.AssignZoneRequest{UserID: user.ID, ZoneID: zone.ID})
		assert.ErrorIs(t, err, service.ErrAlreadyAssigned)
	})

	t.Run("unassign removes the link", func(t *testing.T) {
		require.NoError(t, svc.UnassignUser(ctx, user.ID, zone.ID))

		links, err := svc.ListAssignments(ctx, zone.ID)
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("unassign without link", func(t *testing.T) {
		err := svc.UnassignUser(ctx, user.ID, zone.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		missing := testutil.CreateTestUser(t, db, "Gone", domain.RoleServicePerson)
		require.NoError(t, db.Unscoped().Delete(&domain.User{}, "id = ?", missing.ID).Error)

		_, err := svc.AssignUser(ctx, &domain.AssignZoneRequest{UserID: missing.ID, ZoneID: zone.ID})
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}
