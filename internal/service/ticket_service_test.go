package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTicketService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "Central Zone", "C")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Acme Industries", "Pune")

	t.Run("opens with reference and seeded history", func(t *testing.T) {
		ticket, err := svc.Create(ctx, &domain.CreateTicketRequest{
			Title:      "Shuttle jammed",
			CustomerID: customer.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("C-%d-001", time.Now().Year()), ticket.Reference)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Equal(t, domain.PriorityMedium, ticket.Priority)
		assert.Equal(t, zone.ID, ticket.ZoneID, "ticket inherits the customer's zone")

		history, err := svc.History(ctx, ticket.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Nil(t, history[0].FromStatus)
		assert.Equal(t, domain.TicketStatusOpen, history[0].ToStatus)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateTicketRequest{
			Title:      "Orphan",
			CustomerID: uuid.New(),
		})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateTicketRequest{
			Title:      "Bad priority",
			CustomerID: customer.ID,
			Priority:   "SOMEDAY",
		})
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})
}

func TestTicketService_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTicketService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Beta Corp", "Nagpur")

	ticket, err := svc.Create(ctx, &domain.CreateTicketRequest{
		Title:      "Conveyor misaligned",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	t.Run("overwrite records a history row", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, ticket.ID, &domain.UpdateTicketStatusRequest{
			Status: domain.TicketStatusClosed,
			Note:   "resolved on phone",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, updated.Status)

		history, err := svc.History(ctx, ticket.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
	})

	t.Run("closed goes straight back to in progress", func(t *testing.T) {
		// No transition table; any status may follow any other
		updated, err := svc.UpdateStatus(ctx, ticket.ID, &domain.UpdateTicketStatusRequest{
			Status: domain.TicketStatusInProgress,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

		history, err := svc.History(ctx, ticket.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)

		var fromClosed bool
		for _, h := range history {
			if h.FromStatus != nil && *h.FromStatus == domain.TicketStatusClosed &&
				h.ToStatus == domain.TicketStatusInProgress {
				fromClosed = true
			}
		}
		assert.True(t, fromClosed, "history should record CLOSED -> IN_PROGRESS")
	})

	t.Run("every enum value is accepted", func(t *testing.T) {
		for _, status := range domain.AllTicketStatuses {
			_, err := svc.UpdateStatus(ctx, ticket.ID, &domain.UpdateTicketStatusRequest{Status: status})
			require.NoError(t, err, "status %s", status)
		}

		history, err := svc.History(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Len(t, history, 3+len(domain.AllTicketStatuses))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, ticket.ID, &domain.UpdateTicketStatusRequest{Status: "SOLVED"})
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, uuid.New(), &domain.UpdateTicketStatusRequest{Status: domain.TicketStatusOpen})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestTicketService_Assign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTicketService(db)
	ctx := adminContext()

	zone := testutil.CreateTestZone(t, db, "South Zone", "S")
	customer := testutil.CreateTestCustomer(t, db, zone.ID, "Gamma Ltd", "Chennai")
	tech := testutil.CreateTestUser(t, db, "Field Tech", domain.RoleServicePerson)

	ticket, err := svc.Create(ctx, &domain.CreateTicketRequest{
		Title:      "Lift stuck",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	t.Run("assign", func(t *testing.T) {
		updated, err := svc.Assign(ctx, ticket.ID, &domain.AssignTicketRequest{AssignedToID: &tech.ID})
		require.NoError(t, err)
		require.NotNil(t, updated.AssignedToID)
		assert.Equal(t, tech.ID, *updated.AssignedToID)
	})

	t.Run("unassign with null", func(t *testing.T) {
		updated, err := svc.Assign(ctx, ticket.ID, &domain.AssignTicketRequest{AssignedToID: nil})
		require.NoError(t, err)
		assert.Nil(t, updated.AssignedToID)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.Assign(ctx, ticket.ID, &domain.AssignTicketRequest{AssignedToID: &missing})
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestTicketService_ZoneScopedList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTicketService(db)
	ctx := adminContext()

	north := testutil.CreateTestZone(t, db, "North Zone", "N")
	south := testutil.CreateTestZone(t, db, "South Zone", "S")
	northCustomer := testutil.CreateTestCustomer(t, db, north.ID, "North Co", "Delhi")
	southCustomer := testutil.CreateTestCustomer(t, db, south.ID, "South Co", "Chennai")

	_, err := svc.Create(ctx, &domain.CreateTicketRequest{Title: "North ticket", CustomerID: northCustomer.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateTicketRequest{Title: "South ticket", CustomerID: southCustomer.ID})
	require.NoError(t, err)

	t.Run("admin sees all zones", func(t *testing.T) {
		page, err := svc.List(ctx, 1, 20, repository.TicketFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("zone user sees only assigned zones", func(t *testing.T) {
		scoped := zoneScopedContext(domain.RoleZoneUser, north.ID)

		page, err := svc.List(scoped, 1, 20, repository.TicketFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)

		tickets, ok := page.Data.([]domain.TicketDTO)
		require.True(t, ok)
		require.Len(t, tickets, 1)
		assert.Equal(t, "North ticket", tickets[0].Title)
	})

	t.Run("customer user sees only their tickets", func(t *testing.T) {
		scoped := customerContext(domain.RoleCustomerOwner, southCustomer.ID)

		page, err := svc.List(scoped, 1, 20, repository.TicketFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("zone user without assignments sees nothing", func(t *testing.T) {
		for _, role := range []domain.UserRole{domain.RoleZoneUser, domain.RoleZoneManager} {
			scoped := zoneScopedContext(role)

			page, err := svc.List(scoped, 1, 20, repository.TicketFilters{})
			require.NoError(t, err)
			assert.Equal(t, int64(0), page.Total, "role %s", role)
		}
	})

	t.Run("service person without links sees all zones", func(t *testing.T) {
		scoped := zoneScopedContext(domain.RoleServicePerson)

		page, err := svc.List(scoped, 1, 20, repository.TicketFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})
}
