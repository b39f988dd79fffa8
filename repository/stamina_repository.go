package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
	"github.com/jackc/pgx/v5"
)

// StaminaRepository implements the StaminaRepository interface
type StaminaRepository struct {
	q queryable
}

// NewStaminaRepository creates a new stamina repository
func NewStaminaRepository(db *database.DB) *StaminaRepository {
	return &StaminaRepository{q: db.Pool}
}

// newStaminaRepositoryWithTx creates a new stamina repository with a transaction
func newStaminaRepositoryWithTx(tx queryable) *StaminaRepository {
	return &StaminaRepository{q: tx}
}

// EnsureExists creates the stamina row for an account if it is missing,
// seeding both stamina and cap with the rank-derived cap.
func (r *StaminaRepository) EnsureExists(ctx context.Context, userID int64, cap int) error {
	query := `
		INSERT INTO stamina_states (user_id, stamina, cap, last_tick_at)
		VALUES ($1, $2, $2, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, userID, cap); err != nil {
		return fmt.Errorf("failed to ensure stamina row for account %d: %w", userID, err)
	}
	return nil
}

// Get retrieves the stamina state for an account, or nil when absent
func (r *StaminaRepository) Get(ctx context.Context, userID int64) (*models.StaminaState, error) {
	return r.get(ctx, userID, false)
}

// GetForUpdate retrieves the stamina state holding a row-level write
// lock for the rest of the transaction. Two concurrent settlements for
// the same account serialize here.
func (r *StaminaRepository) GetForUpdate(ctx context.Context, userID int64) (*models.StaminaState, error) {
	return r.get(ctx, userID, true)
}

func (r *StaminaRepository) get(ctx context.Context, userID int64, forUpdate bool) (*models.StaminaState, error) {
	query := `
		SELECT user_id, stamina, cap, last_tick_at, updated_at
		FROM stamina_states
		WHERE user_id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var state models.StaminaState
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&state.UserID,
		&state.Stamina,
		&state.Cap,
		&state.LastTickAt,
		&state.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stamina for account %d: %w", userID, err)
	}

	return &state, nil
}

// Update writes a new stamina value and cap, stamping last_tick_at
func (r *StaminaRepository) Update(ctx context.Context, userID int64, stamina, cap int) error {
	query := `
		UPDATE stamina_states
		SET stamina = $1, cap = $2, last_tick_at = NOW(), updated_at = NOW()
		WHERE user_id = $3
	`

	result, err := r.q.Exec(ctx, query, stamina, cap, userID)
	if err != nil {
		return fmt.Errorf("failed to update stamina for account %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("stamina row for account %d not found", userID)
	}

	return nil
}

// RegenerateAll grants one stamina to every account below its cap and
// returns the number of accounts affected.
func (r *StaminaRepository) RegenerateAll(ctx context.Context) (int64, error) {
	query := `
		UPDATE stamina_states
		SET stamina = LEAST(cap, stamina + 1), last_tick_at = NOW(), updated_at = NOW()
		WHERE stamina < cap
	`

	result, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to regenerate stamina: %w", err)
	}

	return result.RowsAffected(), nil
}
