package repository

import (
	"context"
	"sync"
	"testing"

	"crooksempire/repository/testutil"
	"crooksempire/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceRepository_AddAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	balances := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(10))
	require.NoError(t, err)

	// Missing rows read as zero
	balance, err := balances.Get(ctx, account.ID, "CRKS")
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	balance, err = balances.Add(ctx, account.ID, "CRKS", 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance)

	balance, err = balances.Add(ctx, account.ID, "CRKS", 25.5)
	require.NoError(t, err)
	assert.Equal(t, 125.5, balance)
}

func TestBalanceRepository_NegativeBalanceRejectedBySchema(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	balances := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(14))
	require.NoError(t, err)

	_, err = balances.Add(ctx, account.ID, "CRKS", 50)
	require.NoError(t, err)

	// Even a raw Add past zero is stopped by the CHECK constraint
	_, err = balances.Add(ctx, account.ID, "CRKS", -80)
	require.Error(t, err)

	balance, err := balances.Get(ctx, account.ID, "CRKS")
	require.NoError(t, err)
	assert.Equal(t, 50.0, balance)
}

func TestBalanceRepository_Deduct(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	balances := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(11))
	require.NoError(t, err)

	_, err = balances.Add(ctx, account.ID, "CRO", 50)
	require.NoError(t, err)

	balance, err := balances.Deduct(ctx, account.ID, "CRO", 20)
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance)

	// Overdraft is refused and leaves the balance untouched
	_, err = balances.Deduct(ctx, account.ID, "CRO", 31)
	require.ErrorIs(t, err, service.ErrInsufficientBalance)

	balance, err = balances.Get(ctx, account.ID, "CRO")
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance)

	// Deducting from a token with no row is also an overdraft
	_, err = balances.Deduct(ctx, account.ID, "MOON", 1)
	require.ErrorIs(t, err, service.ErrInsufficientBalance)
}

func TestBalanceRepository_ConcurrentAdds(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	balances := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(12))
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := balances.Add(ctx, account.ID, "CRKS", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := balances.Get(ctx, account.ID, "CRKS")
	require.NoError(t, err)
	assert.Equal(t, float64(workers), balance)
}

func TestLedgerAndBalanceStayConsistent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	balances := NewBalanceRepository(testDB.DB)
	ledger := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	account, _, err := accounts.GetOrCreateByWallet(ctx, testutil.TestWallet(13))
	require.NoError(t, err)

	for _, amount := range []float64{100, 50, -30} {
		entry := testutil.CreateTestLedgerEntry(account.ID, "CRKS", amount)
		require.NoError(t, ledger.Append(ctx, entry))
		assert.NotZero(t, entry.ID)

		_, err := balances.Add(ctx, account.ID, "CRKS", amount)
		require.NoError(t, err)
	}

	sum, err := ledger.SumByUserToken(ctx, account.ID, "CRKS")
	require.NoError(t, err)

	balance, err := balances.Get(ctx, account.ID, "CRKS")
	require.NoError(t, err)
	assert.Equal(t, sum, balance)
	assert.Equal(t, 120.0, balance)

	entries, err := ledger.GetByUser(ctx, account.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first
	assert.Equal(t, -30.0, entries[0].Amount)
}
