package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"crooksempire/events"
	"crooksempire/models"
)

// tokenSet is a case-normalized token allow-list
type tokenSet map[string]struct{}

func newTokenSet(symbols []string) tokenSet {
	set := make(tokenSet, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return set
}

func (s tokenSet) contains(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

// normalizeSymbol trims and uppercases a token symbol
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// validAmount reports whether an amount is a finite, positive number.
// NaN and infinities must never reach the ledger.
func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount > 0
}

// creditToken appends one ledger entry and applies the matching balance
// delta inside the caller's transaction. Ledger and balance move
// together or not at all. Returns the new balance.
func creditToken(ctx context.Context, uow UnitOfWork, userID int64, symbol string, amount float64, reason models.LedgerReason, refID *int64) (float64, error) {
	entry := &models.LedgerEntry{
		UserID:      userID,
		TokenSymbol: symbol,
		Amount:      amount,
		Reason:      reason,
		RefID:       refID,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	balance, err := uow.BalanceRepository().Add(ctx, userID, symbol, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	uow.EventBus().Publish(events.TokenCreditedEvent{
		UserID:      userID,
		TokenSymbol: symbol,
		Amount:      amount,
		Reason:      string(reason),
		NewBalance:  balance,
	})

	return balance, nil
}

// debitToken appends a negative ledger entry and deducts the balance,
// failing without side effects when the balance is insufficient.
func debitToken(ctx context.Context, uow UnitOfWork, userID int64, symbol string, amount float64, reason models.LedgerReason, refID *int64) (float64, error) {
	balance, err := uow.BalanceRepository().Deduct(ctx, userID, symbol, amount)
	if err != nil {
		return 0, err
	}

	entry := &models.LedgerEntry{
		UserID:      userID,
		TokenSymbol: symbol,
		Amount:      -amount,
		Reason:      reason,
		RefID:       refID,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	uow.EventBus().Publish(events.TokenCreditedEvent{
		UserID:      userID,
		TokenSymbol: symbol,
		Amount:      -amount,
		Reason:      string(reason),
		NewBalance:  balance,
	})

	return balance, nil
}
