package service

import (
	"context"
	"fmt"

	"crooksempire/engine"
	"crooksempire/events"
	"crooksempire/models"
	log "github.com/sirupsen/logrus"
)

type staminaService struct {
	uowFactory UnitOfWorkFactory
	rules      engine.Rules
}

// NewStaminaService creates a stamina service
func NewStaminaService(uowFactory UnitOfWorkFactory, rules engine.Rules) StaminaService {
	return &staminaService{uowFactory: uowFactory, rules: rules}
}

// GetState returns the stamina state for a wallet along with the rank
// its cap derives from. The row is created on first contact and the cap
// is repaired whenever the account's points rank has moved since the
// last write.
func (s *staminaService) GetState(ctx context.Context, wallet string) (*models.StaminaState, string, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, "", err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, "", err
	}

	rank := s.rules.Ranks.ForPoints(account.Points)
	state, err := lockStaminaWithCap(ctx, uow, account.ID, s.rules.Caps.CapFor(rank.Name))
	if err != nil {
		return nil, "", err
	}

	if err := uow.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit: %w", err)
	}
	return state, rank.Name, nil
}

// Spend deducts stamina from a wallet, failing when the remaining
// stamina does not cover the amount.
func (s *staminaService) Spend(ctx context.Context, wallet string, amount int) (*models.StaminaState, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.adjust(ctx, wallet, -amount, true)
}

// Grant adds (or removes) stamina, clamping the result to [0, cap]
func (s *staminaService) Grant(ctx context.Context, wallet string, delta int) (*models.StaminaState, error) {
	if delta == 0 {
		return nil, ErrInvalidAmount
	}
	return s.adjust(ctx, wallet, delta, false)
}

func (s *staminaService) adjust(ctx context.Context, wallet string, delta int, strict bool) (*models.StaminaState, error) {
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

	rank := s.rules.Ranks.ForPoints(account.Points)
	state, err := lockStaminaWithCap(ctx, uow, account.ID, s.rules.Caps.CapFor(rank.Name))
	if err != nil {
		return nil, err
	}

	next := state.Stamina + delta
	if strict && next < 0 {
		return nil, ErrInsufficientStamina
	}
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
		return nil, fmt.Errorf("failed to commit stamina change: %w", err)
	}
	return state, nil
}

// lockStaminaWithCap loads the stamina row under a row lock, creating it
// if absent and rewriting the cap when the rank-derived cap has changed.
// The lock serializes all stamina writes for the account until commit.
func lockStaminaWithCap(ctx context.Context, uow UnitOfWork, userID int64, cap int) (*models.StaminaState, error) {
	if err := uow.StaminaRepository().EnsureExists(ctx, userID, cap); err != nil {
		return nil, err
	}

	state, err := uow.StaminaRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("stamina state missing for account %d", userID)
	}

	if state.Cap != cap {
		state.Cap = cap
		if state.Stamina > cap {
			state.Stamina = cap
		}
		if err := uow.StaminaRepository().Update(ctx, userID, state.Stamina, state.Cap); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// RegenerateTick grants one stamina to every account below its cap.
// Runs on the scheduler; a single statement keeps it cheap.
func (s *staminaService) RegenerateTick(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	affected, err := uow.StaminaRepository().RegenerateAll(ctx)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit regeneration: %w", err)
	}

	if affected > 0 {
		log.WithField("accounts", affected).Info("Stamina regenerated")
	}
	return affected, nil
}
