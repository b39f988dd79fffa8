package server

import (
	"errors"
	"time"

	"crooksempire/models"
	"crooksempire/service"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type heistResponse struct {
	Key                 string  `json:"key"`
	Title               string  `json:"title"`
	MinRole             string  `json:"minRole"`
	StaminaCost         int     `json:"staminaCost"`
	RecommendedStrength int     `json:"recommendedStrength"`
	TokenDropsMin       int     `json:"tokenDropsMin"`
	TokenDropsMax       int     `json:"tokenDropsMax"`
	AmountUSDMin        float64 `json:"amountUsdMin"`
	AmountUSDMax        float64 `json:"amountUsdMax"`
	PointsMin           int     `json:"pointsMin"`
	PointsMax           int     `json:"pointsMax"`
	Difficulty          string  `json:"difficulty,omitempty"`
}

func toHeistResponse(h *models.Heist) heistResponse {
	return heistResponse{
		Key:                 h.Key,
		Title:               h.Title,
		MinRole:             h.MinRole,
		StaminaCost:         h.StaminaCost,
		RecommendedStrength: h.RecommendedStrength,
		TokenDropsMin:       h.TokenDropsMin,
		TokenDropsMax:       h.TokenDropsMax,
		AmountUSDMin:        h.AmountUSDMin,
		AmountUSDMax:        h.AmountUSDMax,
		PointsMin:           h.PointsMin,
		PointsMax:           h.PointsMax,
		Difficulty:          h.Difficulty,
	}
}

func (s *Server) handleListHeists(c *fiber.Ctx) error {
	heists, err := s.settlement.ListHeists(c.Context())
	if err != nil {
		return s.mapError(c, err)
	}
	out := make([]heistResponse, 0, len(heists))
	for _, h := range heists {
		out = append(out, toHeistResponse(h))
	}
	return c.JSON(fiber.Map{"heists": out})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	account, err := s.accounts.GetOrCreate(c.Context(), callerWallet(c))
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":     account.ID,
		"wallet": account.WalletAddress,
		"points": account.Points,
	})
}

func (s *Server) handleStamina(c *fiber.Ctx) error {
	state, rank, err := s.stamina.GetState(c.Context(), callerWallet(c))
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"stamina": state.Stamina,
		"cap":     state.Cap,
		"rank":    rank,
	})
}

func (s *Server) handleSpendStamina(c *fiber.Ctx) error {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	state, err := s.stamina.Spend(c.Context(), callerWallet(c), req.Amount)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"stamina": state.Stamina,
		"cap":     state.Cap,
	})
}

func (s *Server) handleBalances(c *fiber.Ctx) error {
	account, balances, err := s.accounts.Balances(c.Context(), callerWallet(c))
	if err != nil {
		return s.mapError(c, err)
	}
	out := make(map[string]float64, len(balances))
	for _, b := range balances {
		out[b.TokenSymbol] = b.Balance
	}
	return c.JSON(fiber.Map{
		"wallet":   account.WalletAddress,
		"balances": out,
	})
}

type ledgerEntryResponse struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	RefID     *int64    `json:"refId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleLedger(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")

	_, entries, err := s.accounts.Ledger(c.Context(), callerWallet(c), limit)
	if err != nil {
		return s.mapError(c, err)
	}
	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledgerEntryResponse{
			ID:        e.ID,
			Token:     e.TokenSymbol,
			Amount:    e.Amount,
			Reason:    string(e.Reason),
			RefID:     e.RefID,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"entries": out})
}

func (s *Server) handlePlay(c *fiber.Ctx) error {
	var req struct {
		Strength   float64 `json:"strength"`
		Multiplier float64 `json:"multiplier"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := s.settlement.Play(c.Context(), callerWallet(c), c.Params("key"), service.PlayRequest{
		Strength:   req.Strength,
		Multiplier: req.Multiplier,
	})
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(fiber.Map{
		"runId":           result.RunID,
		"success":         result.Success,
		"message":         result.Message,
		"pointsChange":    result.PointsChange,
		"rewards":         result.Rewards,
		"lucky":           result.Lucky,
		"luckyMultiplier": result.LuckyMultiplier,
		"staminaCost":     result.StaminaCost,
		"staminaAfter":    result.StaminaAfter,
	})
}

func (s *Server) handleReward(c *fiber.Ctx) error {
	var req struct {
		Token  string  `json:"token"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	balance, err := s.rewards.Credit(c.Context(), callerWallet(c), req.Token, req.Amount, models.LedgerReasonReward, nil)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":   req.Token,
		"balance": balance,
	})
}

func (s *Server) handleRewardBatch(c *fiber.Ctx) error {
	var req struct {
		Rewards        map[string]float64 `json:"rewards"`
		IdempotencyKey string             `json:"idempotencyKey"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	balances, idempotent, err := s.rewards.CreditBatch(c.Context(), callerWallet(c), req.Rewards, models.LedgerReasonReward, req.IdempotencyKey)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"balances":   balances,
		"idempotent": idempotent,
	})
}

func (s *Server) handleWithdraw(c *fiber.Ctx) error {
	var req struct {
		Token  string  `json:"token"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	wr, balance, err := s.withdrawals.Request(c.Context(), callerWallet(c), req.Token, req.Amount)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":      wr.ID,
		"token":   wr.TokenSymbol,
		"amount":  wr.Amount,
		"status":  wr.Status,
		"balance": balance,
	})
}

type withdrawalResponse struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleListWithdrawals(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")

	requests, err := s.withdrawals.List(c.Context(), callerWallet(c), limit)
	if err != nil {
		return s.mapError(c, err)
	}
	out := make([]withdrawalResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, withdrawalResponse{
			ID:        r.ID,
			Token:     r.TokenSymbol,
			Amount:    r.Amount,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"withdrawals": out})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// mapError translates service errors into HTTP responses. Gate blocks
// are a normal game outcome and carry their reason to the client.
func (s *Server) mapError(c *fiber.Ctx, err error) error {
	if reason, blocked := service.IsBlocked(err); blocked {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"blocked": true,
			"message": reason,
		})
	}

	switch {
	case errors.Is(err, service.ErrUnknownHeist):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidWallet):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrTokenNotAllowed),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientStamina),
		errors.Is(err, service.ErrNoValidRewards):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.WithError(err).WithField("path", c.Path()).Error("Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
