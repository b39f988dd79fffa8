package service

import (
	"context"
	"fmt"

	"crooksempire/models"
)

// defaultLedgerLimit caps history reads when the caller asks for none
const defaultLedgerLimit = 50

type accountService struct {
	uowFactory UnitOfWorkFactory
	allowed    tokenSet
}

// NewAccountService creates an account service
func NewAccountService(uowFactory UnitOfWorkFactory, allowedTokens []string) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		allowed:    newTokenSet(allowedTokens),
	}
}

// GetOrCreate upserts the account for a wallet and stamps its last login
func (s *accountService) GetOrCreate(ctx context.Context, wallet string) (*models.Account, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return account, nil
}

// Balances returns the allow-listed balances for a wallet. Balances in
// tokens no longer on the allow-list stay in storage but are not shown.
func (s *accountService) Balances(ctx context.Context, wallet string) (*models.Account, []*models.TokenBalance, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, nil, err
	}

	all, err := uow.BalanceRepository().GetByUser(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit: %w", err)
	}

	balances := make([]*models.TokenBalance, 0, len(all))
	for _, b := range all {
		if s.allowed.contains(b.TokenSymbol) {
			balances = append(balances, b)
		}
	}
	return account, balances, nil
}

// Ledger returns the most recent ledger entries for a wallet
func (s *accountService) Ledger(ctx context.Context, wallet string, limit int) (*models.Account, []*models.LedgerEntry, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = defaultLedgerLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uow.LedgerRepository().GetByUser(ctx, account.ID, limit)
	if err != nil {
		return nil, nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit: %w", err)
	}
	return account, entries, nil
}
