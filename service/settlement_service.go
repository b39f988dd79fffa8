package service

import (
	"context"
	"encoding/json"
	"fmt"

	"crooksempire/database"
	"crooksempire/engine"
	"crooksempire/events"
	"crooksempire/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxSettleRetries bounds the retry loop on serialization failures
const maxSettleRetries = 3

type settlementService struct {
	uowFactory UnitOfWorkFactory
	rules      engine.Rules
	evaluator  *engine.Evaluator
	allowed    tokenSet
}

// NewSettlementService creates a settlement service. All randomness is
// drawn through the given roller.
func NewSettlementService(uowFactory UnitOfWorkFactory, rules engine.Rules, roller engine.Roller, allowedTokens []string) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		rules:      rules,
		evaluator:  engine.NewEvaluator(rules, roller),
		allowed:    newTokenSet(allowedTokens),
	}
}

// Play settles one heist attempt. The whole settlement is a single
// transaction serialized per account by the stamina row lock: gate
// checks, outcome evaluation, stamina deduction, run audit, reward
// credits and the points delta all commit together or not at all.
func (s *settlementService) Play(ctx context.Context, wallet, heistKey string, player PlayRequest) (*models.SettlementResult, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return nil, err
	}

	var result *models.SettlementResult
	for attempt := 0; ; attempt++ {
		result, err = s.settle(ctx, wallet, heistKey, player)
		if err == nil {
			return result, nil
		}
		if !database.IsSerializationFailure(err) || attempt+1 >= maxSettleRetries {
			return nil, err
		}
		log.WithFields(log.Fields{
			"wallet":  wallet,
			"heist":   heistKey,
			"attempt": attempt + 1,
		}).Warn("Settlement hit serialization failure, retrying")
	}
}

func (s *settlementService) settle(ctx context.Context, wallet, heistKey string, player PlayRequest) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, wallet)
	if err != nil {
		return nil, err
	}

	heist, err := uow.HeistRepository().GetByKey(ctx, heistKey)
	if err != nil {
		return nil, err
	}
	if heist == nil {
		return nil, ErrUnknownHeist
	}

	// Rank comes from the account's points. A client-claimed rank never
	// reaches the gate.
	rank := s.rules.Ranks.ForPoints(account.Points)

	state, err := lockStaminaWithCap(ctx, uow, account.ID, s.rules.Caps.CapFor(rank.Name))
	if err != nil {
		return nil, err
	}

	outcome := s.evaluator.Evaluate(heist, engine.PlayerSnapshot{
		Stamina:    state.Stamina,
		Strength:   player.Strength,
		Multiplier: player.Multiplier,
		RankName:   rank.Name,
	})
	if outcome.Blocked {
		return nil, &BlockedError{Reason: outcome.BlockReason}
	}

	staminaAfter := state.Stamina - outcome.StaminaCost
	if staminaAfter < 0 {
		staminaAfter = 0
	}
	if err := uow.StaminaRepository().Update(ctx, account.ID, staminaAfter, state.Cap); err != nil {
		return nil, err
	}
	uow.EventBus().Publish(events.StaminaChangedEvent{UserID: account.ID, Stamina: staminaAfter, Cap: state.Cap})

	rewardsJSON, err := json.Marshal(outcome.Rewards)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rewards: %w", err)
	}

	run := &models.HeistRun{
		UserID:           account.ID,
		HeistKey:         heist.Key,
		Success:          outcome.Success,
		PointsChange:     outcome.PointsChange,
		StaminaCost:      outcome.StaminaCost,
		RewardsJSON:      string(rewardsJSON),
		Lucky:            outcome.Lucky,
		LuckyMultiplier:  outcome.LuckyMultiplier,
		PlayerStrength:   int(player.Strength),
		PlayerMultiplier: player.Multiplier,
		RNGSeed:          uuid.NewString(),
	}
	if err := uow.HeistRunRepository().Create(ctx, run); err != nil {
		return nil, err
	}

	credited := make(map[string]float64)
	for symbol, amount := range outcome.Rewards {
		symbol = normalizeSymbol(symbol)
		if !s.allowed.contains(symbol) || !validAmount(amount) {
			continue
		}
		if _, err := creditToken(ctx, uow, account.ID, symbol, amount, models.LedgerReasonHeistReward, &run.ID); err != nil {
			return nil, err
		}
		credited[symbol] = amount
	}

	if outcome.PointsChange != 0 {
		if _, err := uow.AccountRepository().AddPoints(ctx, account.ID, int64(outcome.PointsChange)); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.HeistSettledEvent{
		UserID:       account.ID,
		HeistKey:     heist.Key,
		RunID:        run.ID,
		Success:      outcome.Success,
		Lucky:        outcome.Lucky,
		PointsChange: outcome.PointsChange,
		Rewards:      credited,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	log.WithFields(log.Fields{
		"wallet":  wallet,
		"heist":   heist.Key,
		"runID":   run.ID,
		"success": outcome.Success,
		"lucky":   outcome.Lucky,
		"points":  outcome.PointsChange,
	}).Info("Heist settled")

	return &models.SettlementResult{
		RunID:           run.ID,
		Success:         outcome.Success,
		Message:         outcome.Message,
		PointsChange:    outcome.PointsChange,
		Rewards:         credited,
		Lucky:           outcome.Lucky,
		LuckyMultiplier: outcome.LuckyMultiplier,
		StaminaCost:     outcome.StaminaCost,
		StaminaAfter:    staminaAfter,
	}, nil
}

// ListHeists returns the heist master list
func (s *settlementService) ListHeists(ctx context.Context) ([]*models.Heist, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	heists, err := uow.HeistRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return heists, nil
}
