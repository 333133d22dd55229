package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Role:        domain.RoleAdmin,
	}

	ctx := auth.WithUserContext(context.Background(), userCtx)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, userCtx.UserID, got.UserID)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestCanAccessCustomer(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	u := &auth.UserContext{Role: domain.RoleCustomerOwner, CustomerID: &own}
	assert.True(t, u.CanAccessCustomer(own))
	assert.False(t, u.CanAccessCustomer(other))

	staff := &auth.UserContext{Role: domain.RoleZoneUser}
	assert.True(t, staff.CanAccessCustomer(other), "staff roles are not customer-constrained")
}

func TestScopeForUser(t *testing.T) {
	zoneID := uuid.New()
	customerID := uuid.New()

	cases := []struct {
		role         domain.UserRole
		unrestricted bool
	}{
		{domain.RoleAdmin, true},
		{domain.RoleExpertHelpdesk, true},
		{domain.RoleExternalUser, true},
		{domain.RoleZoneManager, false},
		{domain.RoleZoneUser, false},
		{domain.RoleServicePerson, false},
		{domain.RoleCustomerOwner, false},
		{domain.RoleCustomerContact, false},
	}

	for _, tc := range cases {
		u := &auth.UserContext{
			Role:       tc.role,
			ZoneIDs:    []uuid.UUID{zoneID},
			CustomerID: &customerID,
		}
		scope := auth.ScopeForUser(u)
		assert.Equal(t, tc.unrestricted, scope.IsUnrestricted(), "role %s", tc.role)
	}

	t.Run("zone roles carry their zones", func(t *testing.T) {
		u := &auth.UserContext{Role: domain.RoleZoneUser, ZoneIDs: []uuid.UUID{zoneID}}
		scope := auth.ScopeForUser(u)
		assert.Equal(t, []uuid.UUID{zoneID}, scope.ZoneIDs)
		assert.Nil(t, scope.CustomerID)
	})

	t.Run("customer roles carry their customer", func(t *testing.T) {
		u := &auth.UserContext{Role: domain.RoleCustomerContact, CustomerID: &customerID}
		scope := auth.ScopeForUser(u)
		assert.Equal(t, auth.ScopeCustomer, scope.Kind)
		require.NotNil(t, scope.CustomerID)
		assert.Equal(t, customerID, *scope.CustomerID)
		assert.Empty(t, scope.ZoneIDs)
	})

	t.Run("zone roles without assignments stay restricted", func(t *testing.T) {
		for _, role := range []domain.UserRole{domain.RoleZoneManager, domain.RoleZoneUser} {
			u := &auth.UserContext{Role: role}
			scope := auth.ScopeForUser(u)
			assert.Equal(t, auth.ScopeZones, scope.Kind, "role %s", role)
			assert.False(t, scope.IsUnrestricted(), "role %s", role)
			assert.Empty(t, scope.ZoneIDs, "role %s", role)
		}
	})

	t.Run("service person without links is unrestricted", func(t *testing.T) {
		u := &auth.UserContext{Role: domain.RoleServicePerson}
		assert.True(t, auth.ScopeForUser(u).IsUnrestricted())

		linked := &auth.UserContext{Role: domain.RoleServicePerson, ZoneIDs: []uuid.UUID{zoneID}}
		scope := auth.ScopeForUser(linked)
		assert.Equal(t, auth.ScopeZones, scope.Kind)
		assert.Equal(t, []uuid.UUID{zoneID}, scope.ZoneIDs)
	})
}

func TestEffectiveScope(t *testing.T) {
	zoneID := uuid.New()

	t.Run("explicit scope wins", func(t *testing.T) {
		ctx := auth.WithScope(context.Background(), &auth.Scope{Kind: auth.ScopeZones, ZoneIDs: []uuid.UUID{zoneID}})
		scope := auth.EffectiveScope(ctx)
		assert.Equal(t, []uuid.UUID{zoneID}, scope.ZoneIDs)
	})

	t.Run("falls back to the user context", func(t *testing.T) {
		u := &auth.UserContext{Role: domain.RoleZoneUser, ZoneIDs: []uuid.UUID{zoneID}}
		ctx := auth.WithUserContext(context.Background(), u)
		scope := auth.EffectiveScope(ctx)
		assert.Equal(t, []uuid.UUID{zoneID}, scope.ZoneIDs)
	})

	t.Run("anonymous context is unrestricted", func(t *testing.T) {
		scope := auth.EffectiveScope(context.Background())
		assert.True(t, scope.IsUnrestricted())
	})
}
