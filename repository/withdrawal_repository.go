package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
)

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create inserts a new withdrawal request and fills in its ID and timestamp
func (r *WithdrawalRepository) Create(ctx context.Context, req *models.WithdrawRequest) error {
	query := `
		INSERT INTO withdraw_requests (user_id, token_symbol, amount, to_address, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		req.UserID,
		req.TokenSymbol,
		req.Amount,
		req.ToAddress,
		req.Status,
		req.Note,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal for account %d: %w", req.UserID, err)
	}

	return nil
}

// GetByUser returns the most recent withdrawal requests for an account
func (r *WithdrawalRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.WithdrawRequest, error) {
	query := `
		SELECT id, user_id, token_symbol, amount::float8, to_address, status, note, created_at
		FROM withdraw_requests
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals for account %d: %w", userID, err)
	}
	defer rows.Close()

	var requests []*models.WithdrawRequest
	for rows.Next() {
		var req models.WithdrawRequest
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.TokenSymbol,
			&req.Amount,
			&req.ToAddress,
			&req.Status,
			&req.Note,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}

	return requests, nil
}
