package service

import (
	"context"
	"fmt"

	"crooksempire/models"
	log "github.com/sirupsen/logrus"
)

type withdrawalService struct {
	uowFactory UnitOfWorkFactory
	allowed    tokenSet
}

// NewWithdrawalService creates a withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory, allowedTokens []string) WithdrawalService {
	return &withdrawalService{
		uowFactory: uowFactory,
		allowed:    newTokenSet(allowedTokens),
	}
}

// Request debits the wallet's balance and queues a withdrawal request in
// one transaction. The guarded deduct fails the whole request when the
// balance does not cover the amount, so a queued request always has its
// funds already taken out.
func (s *withdrawalService) Request(ctx context.Context, wallet, symbol string, amount float64) (*models.WithdrawRequest, float64, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, 0, err
	}
	symbol = normalizeSymbol(symbol)
	if !s.allowed.contains(symbol) {
		return nil, 0, fmt.Errorf("%w: %s", ErrTokenNotAllowed, symbol)
	}
	if !validAmount(amount) {
		return nil, 0, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, 0, err
	}

	req := &models.WithdrawRequest{
		UserID:      account.ID,
		TokenSymbol: symbol,
		Amount:      amount,
		ToAddress:   wallet,
		Status:      models.WithdrawStatusQueued,
	}
	if err := uow.WithdrawalRepository().Create(ctx, req); err != nil {
		return nil, 0, err
	}

	balance, err := debitToken(ctx, uow, account.ID, symbol, amount, models.LedgerReasonWithdraw, &req.ID)
	if err != nil {
		return nil, 0, err
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit withdrawal: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet": wallet,
		"token":  symbol,
		"amount": amount,
		"id":     req.ID,
	}).Info("Withdrawal queued")

	return req, balance, nil
}

// List returns the most recent withdrawal requests for a wallet
func (s *withdrawalService) List(ctx context.Context, wallet string, limit int) ([]*models.WithdrawRequest, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLedgerLimit
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

	requests, err := uow.WithdrawalRepository().GetByUser(ctx, account.ID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return requests, nil
}
