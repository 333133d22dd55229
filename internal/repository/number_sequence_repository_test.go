package repository_test

import (
	"context"
	"testing"

	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberSequenceRepository_GetNextNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "Central Zone", "C")

	t.Run("starts at one and increments", func(t *testing.T) {
		for want := 1; want <= 3; want++ {
			got, err := repo.GetNextNumber(ctx, zone.ID, 2026)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("years have independent counters", func(t *testing.T) {
		got, err := repo.GetNextNumber(ctx, zone.ID, 2027)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})
}

func TestNumberSequenceRepository_SetSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "North Zone", "N")

	t.Run("creates the row when missing", func(t *testing.T) {
		require.NoError(t, repo.SetSequence(ctx, zone.ID, 2026, 10))

		current, err := repo.GetCurrentSequence(ctx, zone.ID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 10, current)
	})

	t.Run("raises the counter", func(t *testing.T) {
		require.NoError(t, repo.SetSequence(ctx, zone.ID, 2026, 25))

		current, err := repo.GetCurrentSequence(ctx, zone.ID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 25, current)
	})

	t.Run("never lowers the counter", func(t *testing.T) {
		require.NoError(t, repo.SetSequence(ctx, zone.ID, 2026, 5))

		current, err := repo.GetCurrentSequence(ctx, zone.ID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 25, current)
	})

	t.Run("next number continues from the backfill", func(t *testing.T) {
		got, err := repo.GetNextNumber(ctx, zone.ID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 26, got)
	})
}

func TestNumberSequenceRepository_GetCurrentSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	zone := testutil.CreateTestZone(t, db, "South Zone", "S")

	current, err := repo.GetCurrentSequence(ctx, zone.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, current, "missing sequence reads as zero")
}
