package server

import (
	"strings"

	"crooksempire/service"
	"github.com/gofiber/fiber/v2"
)

const walletKey = "wallet"

// requireWallet resolves the caller's wallet address. Header first, then
// a bearer token carrying the address, then the legacy ?wallet= query
// fallback kept for older clients.
func (s *Server) requireWallet(c *fiber.Ctx) error {
	raw := c.Get("X-Wallet-Address")
	if raw == "" {
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if raw == "" {
		raw = c.Query("wallet")
	}

	wallet, err := service.NormalizeWallet(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing or invalid wallet address",
		})
	}

	c.Locals(walletKey, wallet)
	return c.Next()
}

// requireAdmin gates a route on the configured admin wallet. Runs after
// requireWallet, so the locals value is always set and normalized.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	wallet := c.Locals(walletKey).(string)
	if s.cfg.AdminWallet == "" || wallet != s.cfg.AdminWallet {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin access required",
		})
	}
	return c.Next()
}

func callerWallet(c *fiber.Ctx) string {
	return c.Locals(walletKey).(string)
}
