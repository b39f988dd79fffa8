package service

import (
	"context"

	"crooksempire/events"
	"crooksempire/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetOrCreateByWallet upserts an account for a normalized wallet
	// address. The second return value is true when the account was
	// created by this call.
	GetOrCreateByWallet(ctx context.Context, wallet string) (*models.Account, bool, error)

	// GetByID retrieves an account by its ID, or nil when absent
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// AddPoints applies a point delta (clamped at zero) and returns the new total
	AddPoints(ctx context.Context, id int64, delta int64) (int64, error)

	// GetAll returns all accounts
	GetAll(ctx context.Context) ([]*models.Account, error)
}

// HeistRepository defines the interface for heist master-data access
type HeistRepository interface {
	// GetByKey retrieves a heist definition by key, or nil when absent
	GetByKey(ctx context.Context, key string) (*models.Heist, error)

	// GetAll returns the heist master list
	GetAll(ctx context.Context) ([]*models.Heist, error)
}

// StaminaRepository defines the interface for stamina state access
type StaminaRepository interface {
	// EnsureExists creates the stamina row if missing, seeded at the given cap
	EnsureExists(ctx context.Context, userID int64, cap int) error

	// Get retrieves the stamina state, or nil when absent
	Get(ctx context.Context, userID int64) (*models.StaminaState, error)

	// GetForUpdate retrieves the stamina state under a row-level write lock
	GetForUpdate(ctx context.Context, userID int64) (*models.StaminaState, error)

	// Update writes a new stamina value and cap
	Update(ctx context.Context, userID int64, stamina, cap int) error

	// RegenerateAll grants one stamina to every account below cap
	RegenerateAll(ctx context.Context) (int64, error)
}

// BalanceRepository defines the interface for materialized token balances
type BalanceRepository interface {
	// Add atomically applies a delta and returns the new balance
	Add(ctx context.Context, userID int64, symbol string, delta float64) (float64, error)

	// Deduct atomically subtracts amount, failing when the balance is insufficient
	Deduct(ctx context.Context, userID int64, symbol string, amount float64) (float64, error)

	// Get retrieves one balance; missing rows read as zero
	Get(ctx context.Context, userID int64, symbol string) (float64, error)

	// GetByUser returns all balances for an account
	GetByUser(ctx context.Context, userID int64) ([]*models.TokenBalance, error)

	// GetAll returns every balance row plus a user-id to wallet map
	GetAll(ctx context.Context) ([]*models.TokenBalance, map[int64]string, error)
}

// LedgerRepository defines the interface for the append-only token ledger
type LedgerRepository interface {
	// Append writes a new ledger entry
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// GetByUser returns the most recent entries for an account
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error)

	// SumByUserToken returns the ledger sum for one (account, token) pair
	SumByUserToken(ctx context.Context, userID int64, symbol string) (float64, error)
}

// HeistRunRepository defines the interface for heist run audit records
type HeistRunRepository interface {
	// Create inserts a new run record
	Create(ctx context.Context, run *models.HeistRun) error

	// GetByUser returns the most recent runs for an account
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.HeistRun, error)
}

// IdempotencyRepository defines the interface for idempotency key claims
type IdempotencyRepository interface {
	// TryClaim records a key, returning false when it was already recorded
	TryClaim(ctx context.Context, key string, userID int64) (bool, error)
}

// WithdrawalRepository defines the interface for withdrawal requests
type WithdrawalRepository interface {
	// Create inserts a new withdrawal request
	Create(ctx context.Context, req *models.WithdrawRequest) error

	// GetByUser returns the most recent requests for an account
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.WithdrawRequest, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// SettlementService executes heist attempts as atomic settlements
type SettlementService interface {
	// Play settles one heist attempt for a wallet
	Play(ctx context.Context, wallet, heistKey string, player PlayRequest) (*models.SettlementResult, error)

	// ListHeists returns the heist master list
	ListHeists(ctx context.Context) ([]*models.Heist, error)
}

// PlayRequest carries the client-reported player stats for one attempt.
// The rank used for gating is always derived from the account's points,
// never taken from the client.
type PlayRequest struct {
	Strength   float64
	Multiplier float64
}

// RewardService credits token rewards outside the heist flow
type RewardService interface {
	// Credit applies a single reward and returns the new balance
	Credit(ctx context.Context, wallet, symbol string, amount float64, reason models.LedgerReason, refID *int64) (float64, error)

	// CreditBatch applies a reward map idempotently. The returned map
	// holds the new balance per credited token; idempotent is true when
	// the key was seen before and nothing was credited.
	CreditBatch(ctx context.Context, wallet string, rewards map[string]float64, reason models.LedgerReason, idempotencyKey string) (balances map[string]float64, idempotent bool, err error)
}

// StaminaService manages per-account stamina
type StaminaService interface {
	// GetState returns the stamina state for a wallet, creating the row
	// on first contact and repairing the cap from the account's rank.
	GetState(ctx context.Context, wallet string) (*models.StaminaState, string, error)

	// Spend deducts stamina, failing when insufficient
	Spend(ctx context.Context, wallet string, amount int) (*models.StaminaState, error)

	// Grant adds (or removes) stamina, clamped to [0, cap]
	Grant(ctx context.Context, wallet string, delta int) (*models.StaminaState, error)

	// RegenerateTick grants one stamina to every account below cap
	RegenerateTick(ctx context.Context) (int64, error)
}

// AccountService manages player accounts
type AccountService interface {
	// GetOrCreate upserts an account for a wallet
	GetOrCreate(ctx context.Context, wallet string) (*models.Account, error)

	// Balances returns the allow-listed balances for a wallet
	Balances(ctx context.Context, wallet string) (*models.Account, []*models.TokenBalance, error)

	// Ledger returns recent ledger entries for a wallet
	Ledger(ctx context.Context, wallet string, limit int) (*models.Account, []*models.LedgerEntry, error)
}

// WithdrawalService debits balances into withdrawal requests
type WithdrawalService interface {
	// Request debits the balance and queues a withdrawal
	Request(ctx context.Context, wallet, symbol string, amount float64) (*models.WithdrawRequest, float64, error)

	// List returns recent withdrawal requests for a wallet
	List(ctx context.Context, wallet string, limit int) ([]*models.WithdrawRequest, error)
}

// HoldingsSummary aggregates balances per allow-listed token
type HoldingsSummary struct {
	Totals map[string]float64
	Rows   []HoldingsRow
}

// HoldingsRow is one wallet/token line of the admin summary
type HoldingsRow struct {
	WalletAddress string
	TokenSymbol   string
	Balance       float64
}

// AdminService implements operator-only maintenance operations
type AdminService interface {
	// AddFunds credits a wallet through the ledger
	AddFunds(ctx context.Context, wallet, symbol string, amount float64) (float64, error)

	// GrantStamina adjusts a wallet's stamina, clamped to [0, cap]
	GrantStamina(ctx context.Context, wallet string, delta int) (*models.StaminaState, error)

	// ResetWalletBalances zeroes one wallet's balances (one token, or all)
	ResetWalletBalances(ctx context.Context, wallet, symbol string) error

	// ResetAllBalances zeroes every balance (one token, or all)
	ResetAllBalances(ctx context.Context, symbol string) error

	// Holdings returns the per-token totals across all wallets
	Holdings(ctx context.Context) (*HoldingsSummary, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	HeistRepository() HeistRepository
	StaminaRepository() StaminaRepository
	BalanceRepository() BalanceRepository
	LedgerRepository() LedgerRepository
	HeistRunRepository() HeistRunRepository
	IdempotencyRepository() IdempotencyRepository
	WithdrawalRepository() WithdrawalRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
