package repository

import (
	"context"
	"testing"

	"crooksempire/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetOrCreateByWallet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()
	wallet := testutil.TestWallet(1)

	account, created, err := repo.GetOrCreateByWallet(ctx, wallet)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, account.ID)
	assert.Equal(t, wallet, account.WalletAddress)
	assert.Equal(t, int64(0), account.Points)

	// Second call finds the same row
	again, created, err := repo.GetOrCreateByWallet(ctx, wallet)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, account.ID, again.ID)
	assert.False(t, again.LastLoginAt.Before(account.LastLoginAt))
}

func TestAccountRepository_AddPoints(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := repo.GetOrCreateByWallet(ctx, testutil.TestWallet(2))
	require.NoError(t, err)

	points, err := repo.AddPoints(ctx, account.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), points)

	points, err = repo.AddPoints(ctx, account.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), points)

	// Losses never push the total below zero
	points, err = repo.AddPoints(ctx, account.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), points)
}

func TestAccountRepository_GetByID_Missing(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)

	account, err := repo.GetByID(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, account)
}
