package service

import (
	"context"

	"crooksempire/events"
	"crooksempire/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreateByWallet(ctx context.Context, wallet string) (*models.Account, bool, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddPoints(ctx context.Context, id int64, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockHeistRepository is a mock implementation of HeistRepository
type MockHeistRepository struct {
	mock.Mock
}

func (m *MockHeistRepository) GetByKey(ctx context.Context, key string) (*models.Heist, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Heist), args.Error(1)
}

func (m *MockHeistRepository) GetAll(ctx context.Context) ([]*models.Heist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Heist), args.Error(1)
}

// MockStaminaRepository is a mock implementation of StaminaRepository
type MockStaminaRepository struct {
	mock.Mock
}

func (m *MockStaminaRepository) EnsureExists(ctx context.Context, userID int64, cap int) error {
	args := m.Called(ctx, userID, cap)
	return args.Error(0)
}

func (m *MockStaminaRepository) Get(ctx context.Context, userID int64) (*models.StaminaState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaminaState), args.Error(1)
}

func (m *MockStaminaRepository) GetForUpdate(ctx context.Context, userID int64) (*models.StaminaState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaminaState), args.Error(1)
}

func (m *MockStaminaRepository) Update(ctx context.Context, userID int64, stamina, cap int) error {
	args := m.Called(ctx, userID, stamina, cap)
	return args.Error(0)
}

func (m *MockStaminaRepository) RegenerateAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Add(ctx context.Context, userID int64, symbol string, delta float64) (float64, error) {
	args := m.Called(ctx, userID, symbol, delta)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBalanceRepository) Deduct(ctx context.Context, userID int64, symbol string, amount float64) (float64, error) {
	args := m.Called(ctx, userID, symbol, amount)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBalanceRepository) Get(ctx context.Context, userID int64, symbol string) (float64, error) {
	args := m.Called(ctx, userID, symbol)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBalanceRepository) GetByUser(ctx context.Context, userID int64) ([]*models.TokenBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TokenBalance), args.Error(1)
}

func (m *MockBalanceRepository) GetAll(ctx context.Context) ([]*models.TokenBalance, map[int64]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*models.TokenBalance), args.Get(1).(map[int64]string), args.Error(2)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumByUserToken(ctx context.Context, userID int64, symbol string) (float64, error) {
	args := m.Called(ctx, userID, symbol)
	return args.Get(0).(float64), args.Error(1)
}

// MockHeistRunRepository is a mock implementation of HeistRunRepository
type MockHeistRunRepository struct {
	mock.Mock
}

func (m *MockHeistRunRepository) Create(ctx context.Context, run *models.HeistRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockHeistRunRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.HeistRun, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HeistRun), args.Error(1)
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository
type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) TryClaim(ctx context.Context, key string, userID int64) (bool, error) {
	args := m.Called(ctx, key, userID)
	return args.Bool(0), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, req *models.WithdrawRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher swallows events for tests that do not assert on them
type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories
// are plain fields so tests wire in whichever repo mocks they need.
type MockUnitOfWork struct {
	mock.Mock

	accounts    AccountRepository
	heists      HeistRepository
	stamina     StaminaRepository
	balances    BalanceRepository
	ledger      LedgerRepository
	runs        HeistRunRepository
	idempotency IdempotencyRepository
	withdrawals WithdrawalRepository
	bus         EventPublisher
}

// SetRepositories wires the repository mocks a test cares about. Any nil
// slot is left unset and will panic if the code under test touches it.
func (m *MockUnitOfWork) SetRepositories(
	accounts AccountRepository,
	heists HeistRepository,
	stamina StaminaRepository,
	balances BalanceRepository,
	ledger LedgerRepository,
	runs HeistRunRepository,
	idempotency IdempotencyRepository,
	withdrawals WithdrawalRepository,
) {
	m.accounts = accounts
	m.heists = heists
	m.stamina = stamina
	m.balances = balances
	m.ledger = ledger
	m.runs = runs
	m.idempotency = idempotency
	m.withdrawals = withdrawals
}

// SetEventBus overrides the event publisher; unset defaults to a no-op
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.bus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository         { return m.accounts }
func (m *MockUnitOfWork) HeistRepository() HeistRepository             { return m.heists }
func (m *MockUnitOfWork) StaminaRepository() StaminaRepository         { return m.stamina }
func (m *MockUnitOfWork) BalanceRepository() BalanceRepository         { return m.balances }
func (m *MockUnitOfWork) LedgerRepository() LedgerRepository           { return m.ledger }
func (m *MockUnitOfWork) HeistRunRepository() HeistRunRepository       { return m.runs }
func (m *MockUnitOfWork) IdempotencyRepository() IdempotencyRepository { return m.idempotency }
func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository   { return m.withdrawals }

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.bus == nil {
		return noopPublisher{}
	}
	return m.bus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
