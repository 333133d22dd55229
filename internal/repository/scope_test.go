package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrder(t *testing.T) {
	assert.Equal(t, "id ASC", repository.ListOrder())
	assert.Equal(t, "name ASC, id ASC", repository.ListOrder("name ASC"))
}

func TestCustomerListPagesDoNotOverlap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")
	// Rows land within the same second, so created_at ties across all of
	// them; only the id ordering keeps page boundaries stable.
	const total = 25
	for i := 0; i < total; i++ {
		testutil.CreateTestCustomer(t, db, zone.ID, fmt.Sprintf("Customer %02d", i), "Delhi")
	}

	seen := make(map[uuid.UUID]int)
	for page := 1; page <= 3; page++ {
		customers, count, err := repo.List(ctx, page, 10, "", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(total), count)
		for _, c := range customers {
			seen[c.ID]++
		}
	}

	assert.Len(t, seen, total, "every customer appears across the pages")
	for id, n := range seen {
		assert.Equal(t, 1, n, "customer %s appeared on more than one page", id)
	}
}
