package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
)

// LedgerRepository implements the LedgerRepository interface.
// The ledger is append-only: there is deliberately no update or delete.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append writes a new ledger entry and fills in its ID and timestamp
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO token_ledger (user_id, token_symbol, amount, reason, ref_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.TokenSymbol,
		entry.Amount,
		entry.Reason,
		entry.RefID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for account %d: %w", entry.UserID, err)
	}

	return nil
}

// GetByUser returns the most recent ledger entries for an account
func (r *LedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, user_id, token_symbol, amount::float8, reason, ref_id, created_at
		FROM token_ledger
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger for account %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.TokenSymbol,
			&entry.Amount,
			&entry.Reason,
			&entry.RefID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// SumByUserToken returns the sum of all ledger amounts for one
// (account, token) pair. The materialized balance must always equal
// this value.
func (r *LedgerRepository) SumByUserToken(ctx context.Context, userID int64, symbol string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::float8
		FROM token_ledger
		WHERE user_id = $1 AND token_symbol = $2
	`

	var sum float64
	if err := r.q.QueryRow(ctx, query, userID, symbol).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger for account %d token %s: %w", userID, symbol, err)
	}

	return sum, nil
}
