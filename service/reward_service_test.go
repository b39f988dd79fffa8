package service

import (
	"context"
	"testing"

	"crooksempire/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRewardService_Credit(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceRepository)
	mockLedgerRepo := new(MockLedgerRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockBalanceRepo, mockLedgerRepo, nil, nil, nil)

	svc := NewRewardService(mockFactory, testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreateByWallet", ctx, testWallet).Return(&models.Account{ID: 7, WalletAddress: testWallet}, false, nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 7 && e.TokenSymbol == "MOON" && e.Amount == 25.0 && e.Reason == models.LedgerReasonReward
	})).Return(nil)
	mockBalanceRepo.On("Add", ctx, int64(7), "MOON", 25.0).Return(125.0, nil)

	// Lowercase symbol must be normalized before any storage call
	balance, err := svc.Credit(ctx, testWallet, "moon", 25.0, models.LedgerReasonReward, nil)

	require.NoError(t, err)
	assert.Equal(t, 125.0, balance)

	mockUoW.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
}

func TestRewardService_Credit_RejectsUnknownToken(t *testing.T) {
	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewRewardService(mockFactory, testTokens)

	_, err := svc.Credit(context.Background(), testWallet, "DOGE", 10, models.LedgerReasonReward, nil)

	require.ErrorIs(t, err, ErrTokenNotAllowed)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestRewardService_Credit_RejectsBadAmounts(t *testing.T) {
	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewRewardService(mockFactory, testTokens)

	for _, amount := range []float64{0, -5} {
		_, err := svc.Credit(context.Background(), testWallet, "CRKS", amount, models.LedgerReasonReward, nil)
		require.ErrorIs(t, err, ErrInvalidAmount, "amount=%v", amount)
	}
	mockFactory.AssertNotCalled(t, "Create")
}

func TestRewardService_CreditBatch(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockIdemRepo := new(MockIdempotencyRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockBalanceRepo, mockLedgerRepo, nil, mockIdemRepo, nil)

	svc := NewRewardService(mockFactory, testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreateByWallet", ctx, testWallet).Return(&models.Account{ID: 7, WalletAddress: testWallet}, false, nil)
	mockIdemRepo.On("TryClaim", ctx, "batch-001", int64(7)).Return(true, nil)

	// DOGE is not allow-listed and the zero amount is dropped; only the
	// two valid tokens are credited.
	mockLedgerRepo.On("Append", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(nil).Twice()
	mockBalanceRepo.On("Add", ctx, int64(7), "CRKS", 100.0).Return(100.0, nil)
	mockBalanceRepo.On("Add", ctx, int64(7), "CRO", 3.5).Return(3.5, nil)

	rewards := map[string]float64{
		"crks": 100,
		"CRO":  3.5,
		"DOGE": 999,
		"MOON": 0,
	}

	balances, idempotent, err := svc.CreditBatch(ctx, testWallet, rewards, models.LedgerReasonReward, "batch-001")

	require.NoError(t, err)
	assert.False(t, idempotent)
	assert.Equal(t, map[string]float64{"CRKS": 100.0, "CRO": 3.5}, balances)

	mockUoW.AssertExpectations(t)
	mockIdemRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
}

func TestRewardService_CreditBatch_ReplayIsNoop(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockIdemRepo := new(MockIdempotencyRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, mockLedgerRepo, nil, mockIdemRepo, nil)

	svc := NewRewardService(mockFactory, testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreateByWallet", ctx, testWallet).Return(&models.Account{ID: 7, WalletAddress: testWallet}, false, nil)
	mockIdemRepo.On("TryClaim", ctx, "batch-001", int64(7)).Return(false, nil)

	balances, idempotent, err := svc.CreditBatch(ctx, testWallet, map[string]float64{"CRKS": 100}, models.LedgerReasonReward, "batch-001")

	require.NoError(t, err)
	assert.True(t, idempotent)
	assert.Empty(t, balances)

	// The replay must not touch the ledger
	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertExpectations(t)
}

func TestRewardService_CreditBatch_NoValidRewards(t *testing.T) {
	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewRewardService(mockFactory, testTokens)

	_, _, err := svc.CreditBatch(context.Background(), testWallet, map[string]float64{"DOGE": 10, "CRKS": -1}, models.LedgerReasonReward, "batch-002")

	require.ErrorIs(t, err, ErrNoValidRewards)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestRewardService_CreditBatch_RequiresKey(t *testing.T) {
	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewRewardService(mockFactory, testTokens)

	_, _, err := svc.CreditBatch(context.Background(), testWallet, map[string]float64{"CRKS": 10}, models.LedgerReasonReward, "  ")

	require.Error(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}
