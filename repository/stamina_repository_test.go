package repository

import (
	"context"
	"testing"

	"crooksempire/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaminaRepository_EnsureExistsAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	stamina := NewStaminaRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(20))
	require.NoError(t, err)

	state, err := stamina.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, state)

	require.NoError(t, stamina.EnsureExists(ctx, account.ID, 5))

	state, err = stamina.Get(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 5, state.Stamina)
	assert.Equal(t, 5, state.Cap)

	// A second ensure does not reset the row
	require.NoError(t, stamina.Update(ctx, account.ID, 2, 5))
	require.NoError(t, stamina.EnsureExists(ctx, account.ID, 5))

	state, err = stamina.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Stamina)
}

func TestStaminaRepository_RegenerateAll(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	stamina := NewStaminaRepository(testDB.DB)
	ctx := context.Background()

	below, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(21))
	require.NoError(t, err)
	full, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(22))
	require.NoError(t, err)

	require.NoError(t, stamina.EnsureExists(ctx, below.ID, 5))
	require.NoError(t, stamina.Update(ctx, below.ID, 1, 5))
	require.NoError(t, stamina.EnsureExists(ctx, full.ID, 5))

	affected, err := stamina.RegenerateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	state, err := stamina.Get(ctx, below.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Stamina)

	// The capped account is untouched
	state, err = stamina.Get(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, state.Stamina)
}
