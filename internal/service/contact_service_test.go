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

func TestContactService_Authorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)

	zone := testutil.CreateTestZone(t, db, "Central Zone", "C")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")
	other := testutil.CreateTestCustomer(t, db, zone.ID, "Beta Corp", "Nagpur")

	req := &domain.CreateContactRequest{Name: "Ravi Kumar", Phone: "9876543210"}

	t.Run("admin manages any customer", func(t *testing.T) {
		contact, err := svc.Create(adminContext(), customer.ID, req)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, contact.CustomerID)
		assert.Equal(t, domain.ContactRoleContact, contact.Role, "role defaults to CONTACT")
	})

	t.Run("customer owner manages their own customer", func(t *testing.T) {
		ctx := customerContext(domain.RoleCustomerOwner, customer.ID)

		contact, err := svc.Create(ctx, customer.ID, &domain.CreateContactRequest{Name: "Priya Shah"})
		require.NoError(t, err)
		assert.Equal(t, "Priya Shah", contact.Name)
	})

	t.Run("customer owner blocked from other customers", func(t *testing.T) {
		ctx := customerContext(domain.RoleCustomerOwner, customer.ID)

		_, err := svc.Create(ctx, other.ID, req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("customer contact cannot manage", func(t *testing.T) {
		ctx := customerContext(domain.RoleCustomerContact, customer.ID)

		_, err := svc.Create(ctx, customer.ID, req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("no user context", func(t *testing.T) {
		_, err := svc.Create(context.Background(), customer.ID, req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestContactService_UpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContactService(db)

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")
	other := testutil.CreateTestCustomer(t, db, zone.ID, "Beta Corp", "Nagpur")

	contact, err := svc.Create(adminContext(), customer.ID, &domain.CreateContactRequest{Name: "Ravi Kumar"})
	require.NoError(t, err)

	t.Run("foreign owner cannot see the contact", func(t *testing.T) {
		// Scope hides other customers' contacts before the permission
		// check ever runs
		ctx := customerContext(domain.RoleCustomerOwner, other.ID)

		_, err := svc.Update(ctx, contact.ID, &domain.UpdateContactRequest{Name: "Hijacked"})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("owner updates own contact", func(t *testing.T) {
		ctx := customerContext(domain.RoleCustomerOwner, customer.ID)

		updated, err := svc.Update(ctx, contact.ID, &domain.UpdateContactRequest{
			Name: "Ravi Kumar",
			Role: domain.ContactRoleAccountOwner,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ContactRoleAccountOwner, updated.Role)
	})

	t.Run("delete blocked for foreign owner", func(t *testing.T) {
		ctx := customerContext(domain.RoleCustomerOwner, other.ID)
		assert.ErrorIs(t, svc.Delete(ctx, contact.ID), service.ErrNotFound)
	})

	t.Run("admin deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(adminContext(), contact.ID))

		_, err := svc.GetByID(adminContext(), contact.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
