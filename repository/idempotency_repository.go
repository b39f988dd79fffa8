package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
)

// IdempotencyRepository implements the IdempotencyRepository interface
type IdempotencyRepository struct {
	q queryable
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *database.DB) *IdempotencyRepository {
	return &IdempotencyRepository{q: db.Pool}
}

// newIdempotencyRepositoryWithTx creates a new idempotency repository with a transaction
func newIdempotencyRepositoryWithTx(tx queryable) *IdempotencyRepository {
	return &IdempotencyRepository{q: tx}
}

// TryClaim records an idempotency key for an account. It returns false
// when the key was already recorded, in which case the caller must
// treat the request as a replay and skip all crediting.
func (r *IdempotencyRepository) TryClaim(ctx context.Context, key string, userID int64) (bool, error) {
	query := `
		INSERT INTO idempotency_keys (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (key, user_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, key, userID)
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key %s for account %d: %w", key, userID, err)
	}

	return result.RowsAffected() > 0, nil
}
