package service

import (
	"context"
	"fmt"
	"strings"

	"crooksempire/events"
	"crooksempire/models"
	log "github.com/sirupsen/logrus"
)

type rewardService struct {
	uowFactory UnitOfWorkFactory
	allowed    tokenSet
}

// NewRewardService creates a reward service bound to a token allow-list
func NewRewardService(uowFactory UnitOfWorkFactory, allowedTokens []string) RewardService {
	return &rewardService{
		uowFactory: uowFactory,
		allowed:    newTokenSet(allowedTokens),
	}
}

// Credit applies a single reward to a wallet and returns the new balance
func (s *rewardService) Credit(ctx context.Context, wallet, symbol string, amount float64, reason models.LedgerReason, refID *int64) (float64, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}
	symbol = normalizeSymbol(symbol)
	if !s.allowed.contains(symbol) {
		return 0, fmt.Errorf("%w: %s", ErrTokenNotAllowed, symbol)
	}
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return 0, err
	}

	balance, err := creditToken(ctx, uow, account.ID, symbol, amount, reason, refID)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit credit: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet": wallet,
		"token":  symbol,
		"amount": amount,
		"reason": reason,
	}).Info("Token credited")

	return balance, nil
}

// CreditBatch applies a reward map under one idempotency key. The key is
// claimed inside the same transaction as the credits, so a replayed key
// can never double-credit: either the first claim committed with its
// credits, or neither did.
func (s *rewardService) CreditBatch(ctx context.Context, wallet string, rewards map[string]float64, reason models.LedgerReason, idempotencyKey string) (map[string]float64, bool, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, false, err
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" {
		return nil, false, fmt.Errorf("%w: idempotency key required", ErrInvalidAmount)
	}

	valid := make(map[string]float64)
	for symbol, amount := range rewards {
		symbol = normalizeSymbol(symbol)
		if !s.allowed.contains(symbol) || !validAmount(amount) {
			continue
		}
		valid[symbol] += amount
	}
	if len(valid) == 0 {
		return nil, false, ErrNoValidRewards
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, false, err
	}

	claimed, err := uow.IdempotencyRepository().TryClaim(ctx, idempotencyKey, account.ID)
	if err != nil {
		return nil, false, err
	}
	if !claimed {
		if err := uow.Commit(); err != nil {
			return nil, false, fmt.Errorf("failed to commit: %w", err)
		}
		log.WithFields(log.Fields{
			"wallet": wallet,
			"key":    idempotencyKey,
		}).Info("Reward batch replayed, skipping credits")
		return map[string]float64{}, true, nil
	}

	balances := make(map[string]float64, len(valid))
	for symbol, amount := range valid {
		balance, err := creditToken(ctx, uow, account.ID, symbol, amount, reason, nil)
		if err != nil {
			return nil, false, err
		}
		balances[symbol] = balance
	}

	if err := uow.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit reward batch: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet": wallet,
		"key":    idempotencyKey,
		"tokens": len(balances),
	}).Info("Reward batch credited")

	return balances, false, nil
}

// getOrCreateAccount upserts an account within the caller's transaction,
// publishing the creation event for first contacts.
func getOrCreateAccount(ctx context.Context, uow UnitOfWork, wallet string) (*models.Account, error) {
	account, created, err := uow.AccountRepository().GetOrCreateByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: account.ID, WalletAddress: account.WalletAddress})
	}
	return account, nil
}
