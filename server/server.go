package server

import (
	"context"

	"crooksempire/config"
	"crooksempire/database"
	"crooksempire/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Server is the HTTP boundary. It owns the fiber app and maps requests
// onto the service layer; no business rules live here.
type Server struct {
	app *fiber.App
	cfg *config.Config
	db  *database.DB

	accounts    service.AccountService
	stamina     service.StaminaService
	settlement  service.SettlementService
	rewards     service.RewardService
	withdrawals service.WithdrawalService
	admin       service.AdminService
}

// Services bundles the service-layer dependencies the server needs
type Services struct {
	Accounts    service.AccountService
	Stamina     service.StaminaService
	Settlement  service.SettlementService
	Rewards     service.RewardService
	Withdrawals service.WithdrawalService
	Admin       service.AdminService
}

// New creates the HTTP server and registers all routes
func New(cfg *config.Config, db *database.DB, svcs Services) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "crooksempire",
			DisableStartupMessage: true,
		}),
		cfg:         cfg,
		db:          db,
		accounts:    svcs.Accounts,
		stamina:     svcs.Stamina,
		settlement:  svcs.Settlement,
		rewards:     svcs.Rewards,
		withdrawals: svcs.Withdrawals,
		admin:       svcs.Admin,
	}

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Wallet-Address",
	}))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Get("/health", s.handleHealth)
	api.Get("/heists", s.handleListHeists)

	me := api.Group("/me", s.requireWallet)
	me.Get("/", s.handleMe)
	me.Get("/stamina", s.handleStamina)
	me.Post("/stamina/spend", s.handleSpendStamina)
	me.Get("/balances", s.handleBalances)
	me.Get("/ledger", s.handleLedger)
	me.Post("/heists/:key/play", s.handlePlay)

	api.Post("/reward", s.requireWallet, s.handleReward)
	api.Post("/rewardBatch", s.requireWallet, s.handleRewardBatch)
	api.Post("/withdraw", s.requireWallet, s.handleWithdraw)
	api.Get("/withdrawals", s.requireWallet, s.handleListWithdrawals)

	admin := api.Group("/admin", s.requireWallet, s.requireAdmin)
	admin.Post("/addFunds", s.handleAdminAddFunds)
	admin.Post("/grantStamina", s.handleAdminGrantStamina)
	admin.Post("/resetWalletBalances", s.handleAdminResetWallet)
	admin.Post("/resetAllBalances", s.handleAdminResetAll)
	admin.Get("/holdingsSummary", s.handleAdminHoldings)
}

// Listen starts serving on the configured port. Blocks until shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Port)
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.db.Pool.Ping(context.Background()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "database unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
