package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/events"
	"crooksempire/service"
	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	heistRepo        service.HeistRepository
	staminaRepo      service.StaminaRepository
	balanceRepo      service.BalanceRepository
	ledgerRepo       service.LedgerRepository
	heistRunRepo     service.HeistRunRepository
	idempotencyRepo  service.IdempotencyRepository
	withdrawalRepo   service.WithdrawalRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.heistRepo = newHeistRepositoryWithTx(tx)
	u.staminaRepo = newStaminaRepositoryWithTx(tx)
	u.balanceRepo = newBalanceRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.heistRunRepo = newHeistRunRepositoryWithTx(tx)
	u.idempotencyRepo = newIdempotencyRepositoryWithTx(tx)
	u.withdrawalRepo = newWithdrawalRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// HeistRepository returns the heist repository for this unit of work
func (u *unitOfWork) HeistRepository() service.HeistRepository {
	if u.heistRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.heistRepo
}

// StaminaRepository returns the stamina repository for this unit of work
func (u *unitOfWork) StaminaRepository() service.StaminaRepository {
	if u.staminaRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.staminaRepo
}

// BalanceRepository returns the balance repository for this unit of work
func (u *unitOfWork) BalanceRepository() service.BalanceRepository {
	if u.balanceRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// HeistRunRepository returns the heist run repository for this unit of work
func (u *unitOfWork) HeistRunRepository() service.HeistRunRepository {
	if u.heistRunRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.heistRunRepo
}

// IdempotencyRepository returns the idempotency repository for this unit of work
func (u *unitOfWork) IdempotencyRepository() service.IdempotencyRepository {
	if u.idempotencyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.idempotencyRepo
}

// WithdrawalRepository returns the withdrawal repository for this unit of work
func (u *unitOfWork) WithdrawalRepository() service.WithdrawalRepository {
	if u.withdrawalRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.withdrawalRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
