package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetOrCreateByWallet upserts an account for a wallet address and stamps
// last_login_at. The wallet must already be case-normalized. The second
// return value reports whether the row was inserted by this call.
func (r *AccountRepository) GetOrCreateByWallet(ctx context.Context, wallet string) (*models.Account, bool, error) {
	query := `
		INSERT INTO users (wallet_address)
		VALUES ($1)
		ON CONFLICT (wallet_address) DO UPDATE SET last_login_at = NOW()
		RETURNING id, wallet_address, points, created_at, last_login_at,
			(xmax = 0) AS inserted
	`

	var account models.Account
	var created bool
	err := r.q.QueryRow(ctx, query, wallet).Scan(
		&account.ID,
		&account.WalletAddress,
		&account.Points,
		&account.CreatedAt,
		&account.LastLoginAt,
		&created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert account for wallet %s: %w", wallet, err)
	}

	return &account, created, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, wallet_address, points, created_at, last_login_at
		FROM users
		WHERE id = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.WalletAddress,
		&account.Points,
		&account.CreatedAt,
		&account.LastLoginAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	return &account, nil
}

// AddPoints applies a point delta to an account, clamping the total at
// zero, and returns the new total.
func (r *AccountRepository) AddPoints(ctx context.Context, id int64, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET points = GREATEST(0, points + $1)
		WHERE id = $2
		RETURNING points
	`

	var points int64
	err := r.q.QueryRow(ctx, query, delta, id).Scan(&points)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("account %d not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add points for account %d: %w", id, err)
	}

	return points, nil
}

// GetAll returns all accounts, newest first
func (r *AccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, wallet_address, points, created_at, last_login_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.WalletAddress,
			&account.Points,
			&account.CreatedAt,
			&account.LastLoginAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
