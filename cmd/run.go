package cmd

import (
	"context"
	"fmt"
	"time"

	"crooksempire/config"
	"crooksempire/database"
	"crooksempire/engine"
	"crooksempire/events"
	"crooksempire/repository"
	"crooksempire/server"
	"crooksempire/service"
	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting crooks empire server...")

	cfg := config.Get()
	rules := cfg.Rules()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	roller := engine.NewCryptoRoller()
	accountService := service.NewAccountService(uowFactory, config.AllowedTokens)
	staminaService := service.NewStaminaService(uowFactory, rules)
	settlementService := service.NewSettlementService(uowFactory, rules, roller, config.AllowedTokens)
	rewardService := service.NewRewardService(uowFactory, config.AllowedTokens)
	withdrawalService := service.NewWithdrawalService(uowFactory, config.AllowedTokens)
	adminService := service.NewAdminService(uowFactory, rules, config.AllowedTokens)
	log.Info("Services initialized")

	scheduler, err := startRegenScheduler(cfg, staminaService)
	if err != nil {
		return fmt.Errorf("failed to start stamina scheduler: %w", err)
	}

	srv := server.New(cfg, db, server.Services{
		Accounts:    accountService,
		Stamina:     staminaService,
		Settlement:  settlementService,
		Rewards:     rewardService,
		Withdrawals: withdrawalService,
		Admin:       adminService,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Infof("Server running in %s mode", cfg.Environment)
		serverErr <- srv.Listen()
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	if err := scheduler.Shutdown(); err != nil {
		log.WithError(err).Warn("Error stopping scheduler")
	}
	if err := srv.Shutdown(); err != nil {
		log.WithError(err).Warn("Error stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

// startRegenScheduler runs the stamina regeneration tick on its own
// interval. Failures are logged and retried on the next tick.
func startRegenScheduler(cfg *config.Config, stamina service.StaminaService) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.StaminaRegenEvery),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := stamina.RegenerateTick(ctx); err != nil {
				log.WithError(err).Error("Stamina regeneration tick failed")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.WithField("interval", cfg.StaminaRegenEvery).Info("Stamina regeneration scheduled")
	return scheduler, nil
}

// subscribeEventLogging wires structured log lines onto the domain
// events so operators can trace settlements without reading SQL.
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		e := event.(events.AccountCreatedEvent)
		log.WithFields(log.Fields{
			"userID": e.UserID,
			"wallet": e.WalletAddress,
		}).Info("Account created")
	})

	bus.Subscribe(events.EventTypeHeistSettled, func(ctx context.Context, event events.Event) {
		e := event.(events.HeistSettledEvent)
		log.WithFields(log.Fields{
			"userID":  e.UserID,
			"heist":   e.HeistKey,
			"runID":   e.RunID,
			"success": e.Success,
			"lucky":   e.Lucky,
		}).Debug("Heist settled event")
	})

	bus.Subscribe(events.EventTypeTokenCredited, func(ctx context.Context, event events.Event) {
		e := event.(events.TokenCreditedEvent)
		log.WithFields(log.Fields{
			"userID": e.UserID,
			"token":  e.TokenSymbol,
			"amount": e.Amount,
			"reason": e.Reason,
		}).Debug("Token credited event")
	})
}
