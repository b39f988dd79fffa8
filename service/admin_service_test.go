package service

import (
	"context"
	"testing"

	"crooksempire/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_AddFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceRepository)
	mockLedgerRepo := new(MockLedgerRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockBalanceRepo, mockLedgerRepo, nil, nil, nil)

	svc := NewAdminService(mockFactory, testServiceRules(), testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreateByWallet", ctx, testWallet).Return(&models.Account{ID: 5, WalletAddress: testWallet}, false, nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 5 && e.TokenSymbol == "CRO" && e.Amount == 50.0 && e.Reason == models.LedgerReasonAdminAdd
	})).Return(nil)
	mockBalanceRepo.On("Add", ctx, int64(5), "CRO", 50.0).Return(50.0, nil)

	balance, err := svc.AddFunds(ctx, testWallet, "CRO", 50)

	require.NoError(t, err)
	assert.Equal(t, 50.0, balance)
	mockLedgerRepo.AssertExpectations(t)
}

func TestAdminService_ResetWalletBalances(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockBalanceRepo := new(MockBalanceRepository)
	mockLedgerRepo := new(MockLedgerRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockBalanceRepo, mockLedgerRepo, nil, nil, nil)

	svc := NewAdminService(mockFactory, testServiceRules(), testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreateByWallet", ctx, testWallet).Return(&models.Account{ID: 5, WalletAddress: testWallet}, false, nil)
	mockBalanceRepo.On("GetByUser", ctx, int64(5)).Return([]*models.TokenBalance{
		{UserID: 5, TokenSymbol: "CRKS", Balance: 120},
		{UserID: 5, TokenSymbol: "CRO", Balance: 0},
	}, nil)

	// Only the nonzero balance gets a compensating entry
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 5 && e.TokenSymbol == "CRKS" && e.Amount == -120.0 && e.Reason == models.LedgerReasonAdminReset
	})).Return(nil)
	mockBalanceRepo.On("Add", ctx, int64(5), "CRKS", -120.0).Return(0.0, nil)

	err := svc.ResetWalletBalances(ctx, testWallet, "")

	require.NoError(t, err)
	mockLedgerRepo.AssertExpectations(t)
	mockBalanceRepo.AssertExpectations(t)
}

func TestAdminService_ResetAllBalances_SingleToken(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)
	mockLedgerRepo := new(MockLedgerRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockBalanceRepo, mockLedgerRepo, nil, nil, nil)

	svc := NewAdminService(mockFactory, testServiceRules(), testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBalanceRepo.On("GetAll", ctx).Return([]*models.TokenBalance{
		{UserID: 1, TokenSymbol: "CRKS", Balance: 10},
		{UserID: 2, TokenSymbol: "CRO", Balance: 5},
	}, map[int64]string{1: "0x1", 2: "0x2"}, nil)

	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 1 && e.TokenSymbol == "CRKS" && e.Amount == -10.0
	})).Return(nil)
	mockBalanceRepo.On("Add", ctx, int64(1), "CRKS", -10.0).Return(0.0, nil)

	err := svc.ResetAllBalances(ctx, "CRKS")

	require.NoError(t, err)
	// The CRO balance is untouched
	mockBalanceRepo.AssertNotCalled(t, "Add", ctx, int64(2), "CRO", mock.Anything)
}

func TestAdminService_Holdings(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockBalanceRepo := new(MockBalanceRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockBalanceRepo, nil, nil, nil, nil)

	svc := NewAdminService(mockFactory, testServiceRules(), testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBalanceRepo.On("GetAll", ctx).Return([]*models.TokenBalance{
		{UserID: 1, TokenSymbol: "CRKS", Balance: 100},
		{UserID: 2, TokenSymbol: "CRKS", Balance: 50},
		{UserID: 2, TokenSymbol: "DOGE", Balance: 999},
		{UserID: 3, TokenSymbol: "CRO", Balance: 0},
	}, map[int64]string{1: "0xaa", 2: "0xbb", 3: "0xcc"}, nil)

	summary, err := svc.Holdings(ctx)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"CRKS": 150}, summary.Totals)
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "0xaa", summary.Rows[0].WalletAddress)
}

func TestAdminService_GrantStamina(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockStaminaRepo := new(MockStaminaRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, mockStaminaRepo, nil, nil, nil, nil, nil)

	svc := NewAdminService(mockFactory, testServiceRules(), testTokens)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreateByWallet", ctx, testWallet).Return(&models.Account{ID: 5, WalletAddress: testWallet, Points: 1}, false, nil)
	mockStaminaRepo.On("EnsureExists", ctx, int64(5), 5).Return(nil)
	mockStaminaRepo.On("GetForUpdate", ctx, int64(5)).Return(&models.StaminaState{UserID: 5, Stamina: 1, Cap: 5}, nil)
	mockStaminaRepo.On("Update", ctx, int64(5), 4, 5).Return(nil)

	state, err := svc.GrantStamina(ctx, testWallet, 3)

	require.NoError(t, err)
	assert.Equal(t, 4, state.Stamina)
}
