package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
	"crooksempire/service"
	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

// Add applies a delta to the materialized balance for one
// (account, token) pair as a single atomic upsert, and returns the new
// balance. Concurrent credits to the same pair cannot lose updates.
func (r *BalanceRepository) Add(ctx context.Context, userID int64, symbol string, delta float64) (float64, error) {
	query := `
		INSERT INTO token_balances (user_id, token_symbol, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, token_symbol) DO UPDATE
		SET balance = token_balances.balance + excluded.balance,
		    updated_at = NOW()
		RETURNING balance::float8
	`

	var balance float64
	err := r.q.QueryRow(ctx, query, userID, symbol, delta).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance for account %d token %s: %w", userID, symbol, err)
	}

	return balance, nil
}

// Deduct subtracts amount from the materialized balance, guarded so the
// balance cannot go negative. A zero row count means the balance was
// insufficient (or the row does not exist).
func (r *BalanceRepository) Deduct(ctx context.Context, userID int64, symbol string, amount float64) (float64, error) {
	query := `
		UPDATE token_balances
		SET balance = balance - $3,
		    updated_at = NOW()
		WHERE user_id = $1 AND token_symbol = $2 AND balance >= $3
		RETURNING balance::float8
	`

	var balance float64
	err := r.q.QueryRow(ctx, query, userID, symbol, amount).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, service.ErrInsufficientBalance
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for account %d token %s: %w", userID, symbol, err)
	}

	return balance, nil
}

// Get retrieves the balance for one (account, token) pair; missing rows
// read as zero.
func (r *BalanceRepository) Get(ctx context.Context, userID int64, symbol string) (float64, error) {
	query := `
		SELECT balance::float8
		FROM token_balances
		WHERE user_id = $1 AND token_symbol = $2
	`

	var balance float64
	err := r.q.QueryRow(ctx, query, userID, symbol).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance for account %d token %s: %w", userID, symbol, err)
	}

	return balance, nil
}

// GetByUser returns all balances for an account ordered by token symbol
func (r *BalanceRepository) GetByUser(ctx context.Context, userID int64) ([]*models.TokenBalance, error) {
	query := `
		SELECT user_id, token_symbol, balance::float8, updated_at
		FROM token_balances
		WHERE user_id = $1
		ORDER BY token_symbol
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances for account %d: %w", userID, err)
	}
	defer rows.Close()

	return scanBalances(rows)
}

// GetAll returns every balance row joined with its wallet address,
// keyed for the admin holdings summary.
func (r *BalanceRepository) GetAll(ctx context.Context) ([]*models.TokenBalance, map[int64]string, error) {
	query := `
		SELECT b.user_id, b.token_symbol, b.balance::float8, b.updated_at, u.wallet_address
		FROM token_balances b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.token_symbol, b.balance DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get all balances: %w", err)
	}
	defer rows.Close()

	var balances []*models.TokenBalance
	wallets := make(map[int64]string)
	for rows.Next() {
		var balance models.TokenBalance
		var wallet string
		err := rows.Scan(&balance.UserID, &balance.TokenSymbol, &balance.Balance, &balance.UpdatedAt, &wallet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, &balance)
		wallets[balance.UserID] = wallet
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, wallets, nil
}

func scanBalances(rows pgx.Rows) ([]*models.TokenBalance, error) {
	var balances []*models.TokenBalance
	for rows.Next() {
		var balance models.TokenBalance
		err := rows.Scan(&balance.UserID, &balance.TokenSymbol, &balance.Balance, &balance.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, &balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}
