package service

import (
	"context"
	"fmt"

	"crooksempire/engine"
	"crooksempire/events"
	"crooksempire/models"
	log "github.com/sirupsen/logrus"
)

type adminService struct {
	uowFactory UnitOfWorkFactory
	rules      engine.Rules
	allowed    tokenSet
}

// NewAdminService creates the operator-only maintenance service
func NewAdminService(uowFactory UnitOfWorkFactory, rules engine.Rules, allowedTokens []string) AdminService {
	return &adminService{
		uowFactory: uowFactory,
		rules:      rules,
		allowed:    newTokenSet(allowedTokens),
	}
}

// AddFunds credits a wallet through the ledger with the admin reason
func (s *adminService) AddFunds(ctx context.Context, wallet, symbol string, amount float64) (float64, error) {
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

	balance, err := creditToken(ctx, uow, account.ID, symbol, amount, models.LedgerReasonAdminAdd, nil)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet": wallet,
		"token":  symbol,
		"amount": amount,
	}).Info("Admin funds added")

	return balance, nil
}

// GrantStamina adjusts a wallet's stamina, clamped to [0, cap]
func (s *adminService) GrantStamina(ctx context.Context, wallet string, delta int) (*models.StaminaState, error) {
	if delta == 0 {
		return nil, ErrInvalidAmount
	}
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

	cap := s.rules.Caps.CapFor(s.rules.Ranks.ForPoints(account.Points).Name)
	state, err := lockStaminaWithCap(ctx, uow, account.ID, cap)
	if err != nil {
		return nil, err
	}

	next := state.Stamina + delta
	if next < 0 {
		next = 0
	}
	if next > state.Cap {
		next = state.Cap
	}
	if err := uow.StaminaRepository().Update(ctx, account.ID, next, state.Cap); err != nil {
		return nil, err
	}
	state.Stamina = next
	uow.EventBus().Publish(events.StaminaChangedEvent{UserID: account.ID, Stamina: next, Cap: state.Cap})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet":  wallet,
		"delta":   delta,
		"stamina": next,
	}).Info("Admin stamina granted")

	return state, nil
}

// ResetWalletBalances zeroes one wallet's balances, one token or all.
// Each zeroed balance gets a compensating ledger entry so the ledger sum
// still equals the materialized balance afterwards.
func (s *adminService) ResetWalletBalances(ctx context.Context, wallet, symbol string) error {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return err
	}
	if symbol != "" {
		symbol = normalizeSymbol(symbol)
		if !s.allowed.contains(symbol) {
			return fmt.Errorf("%w: %s", ErrTokenNotAllowed, symbol)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return err
	}

	balances, err := uow.BalanceRepository().GetByUser(ctx, account.ID)
	if err != nil {
		return err
	}

	reset := 0
	for _, b := range balances {
		if symbol != "" && b.TokenSymbol != symbol {
			continue
		}
		if err := zeroBalance(ctx, uow, b); err != nil {
			return err
		}
		reset++
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet": wallet,
		"token":  symbol,
		"reset":  reset,
	}).Warn("Admin balance reset")

	return nil
}

// ResetAllBalances zeroes every balance in the system, one token or all
func (s *adminService) ResetAllBalances(ctx context.Context, symbol string) error {
	if symbol != "" {
		symbol = normalizeSymbol(symbol)
		if !s.allowed.contains(symbol) {
			return fmt.Errorf("%w: %s", ErrTokenNotAllowed, symbol)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balances, _, err := uow.BalanceRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	reset := 0
	for _, b := range balances {
		if symbol != "" && b.TokenSymbol != symbol {
			continue
		}
		if err := zeroBalance(ctx, uow, b); err != nil {
			return err
		}
		reset++
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	log.WithFields(log.Fields{
		"token": symbol,
		"reset": reset,
	}).Warn("Admin global balance reset")

	return nil
}

// zeroBalance writes a compensating ledger entry for the full balance
// and drives the materialized row to zero.
func zeroBalance(ctx context.Context, uow UnitOfWork, b *models.TokenBalance) error {
	if b.Balance == 0 {
		return nil
	}

	entry := &models.LedgerEntry{
		UserID:      b.UserID,
		TokenSymbol: b.TokenSymbol,
		Amount:      -b.Balance,
		Reason:      models.LedgerReasonAdminReset,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append reset entry: %w", err)
	}
	if _, err := uow.BalanceRepository().Add(ctx, b.UserID, b.TokenSymbol, -b.Balance); err != nil {
		return fmt.Errorf("failed to zero balance: %w", err)
	}
	return nil
}

// Holdings returns the per-token totals across all wallets, restricted
// to the allow-list.
func (s *adminService) Holdings(ctx context.Context) (*HoldingsSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balances, wallets, err := uow.BalanceRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	summary := &HoldingsSummary{Totals: make(map[string]float64)}
	for _, b := range balances {
		if !s.allowed.contains(b.TokenSymbol) || b.Balance == 0 {
			continue
		}
		summary.Totals[b.TokenSymbol] += b.Balance
		summary.Rows = append(summary.Rows, HoldingsRow{
			WalletAddress: wallets[b.UserID],
			TokenSymbol:   b.TokenSymbol,
			Balance:       b.Balance,
		})
	}
	return summary, nil
}
