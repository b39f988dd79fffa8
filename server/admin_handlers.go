package server

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleAdminAddFunds(c *fiber.Ctx) error {
	var req struct {
		Wallet string  `json:"wallet"`
		Token  string  `json:"token"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	balance, err := s.admin.AddFunds(c.Context(), req.Wallet, req.Token, req.Amount)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"wallet":  req.Wallet,
		"token":   req.Token,
		"balance": balance,
	})
}

func (s *Server) handleAdminGrantStamina(c *fiber.Ctx) error {
	var req struct {
		Wallet string `json:"wallet"`
		Delta  int    `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	state, err := s.admin.GrantStamina(c.Context(), req.Wallet, req.Delta)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"stamina": state.Stamina,
		"cap":     state.Cap,
	})
}

func (s *Server) handleAdminResetWallet(c *fiber.Ctx) error {
	var req struct {
		Wallet string `json:"wallet"`
		Token  string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := s.admin.ResetWalletBalances(c.Context(), req.Wallet, req.Token); err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{"reset": true})
}

func (s *Server) handleAdminResetAll(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	// Body is optional: no token means every token
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	if err := s.admin.ResetAllBalances(c.Context(), req.Token); err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{"reset": true})
}

func (s *Server) handleAdminHoldings(c *fiber.Ctx) error {
	summary, err := s.admin.Holdings(c.Context())
	if err != nil {
		return s.mapError(c, err)
	}

	rows := make([]fiber.Map, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		rows = append(rows, fiber.Map{
			"wallet":  r.WalletAddress,
			"token":   r.TokenSymbol,
			"balance": r.Balance,
		})
	}
	return c.JSON(fiber.Map{
		"totals":   summary.Totals,
		"holdings": rows,
	})
}
