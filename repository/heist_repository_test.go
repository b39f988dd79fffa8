package repository

import (
	"context"
	"testing"

	"crooksempire/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeistRepository_SeededMasterData(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewHeistRepository(testDB.DB)
	ctx := context.Background()

	heists, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, heists)

	// Ordered by stamina cost, cheapest first
	for i := 1; i < len(heists); i++ {
		assert.LessOrEqual(t, heists[i-1].StaminaCost, heists[i].StaminaCost)
	}

	heist, err := repo.GetByKey(ctx, "pickpocket")
	require.NoError(t, err)
	require.NotNil(t, heist)
	assert.Equal(t, "pickpocket", heist.Key)
	assert.NotEmpty(t, heist.Title)
	assert.NotEmpty(t, heist.MinRole)
	assert.Greater(t, heist.PointsMax, 0)
	assert.LessOrEqual(t, heist.PointsMin, heist.PointsMax)
	assert.LessOrEqual(t, heist.TokenDropsMin, heist.TokenDropsMax)
	assert.LessOrEqual(t, heist.AmountUSDMin, heist.AmountUSDMax)
}

func TestHeistRepository_GetByKey_Missing(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewHeistRepository(testDB.DB)

	heist, err := repo.GetByKey(context.Background(), "no_such_heist")
	require.NoError(t, err)
	assert.Nil(t, heist)
}
