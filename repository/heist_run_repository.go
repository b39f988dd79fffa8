package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
)

// HeistRunRepository implements the HeistRunRepository interface.
// Run rows are an append-only audit trail, written once per settlement.
type HeistRunRepository struct {
	q queryable
}

// NewHeistRunRepository creates a new heist run repository
func NewHeistRunRepository(db *database.DB) *HeistRunRepository {
	return &HeistRunRepository{q: db.Pool}
}

// newHeistRunRepositoryWithTx creates a new heist run repository with a transaction
func newHeistRunRepositoryWithTx(tx queryable) *HeistRunRepository {
	return &HeistRunRepository{q: tx}
}

// Create inserts a new run record and fills in its ID and timestamp
func (r *HeistRunRepository) Create(ctx context.Context, run *models.HeistRun) error {
	query := `
		INSERT INTO heist_runs
			(user_id, heist_key, success, points_change, stamina_cost, rewards_json,
			 lucky, lucky_multiplier, player_strength, player_multiplier, rng_seed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		run.UserID,
		run.HeistKey,
		run.Success,
		run.PointsChange,
		run.StaminaCost,
		run.RewardsJSON,
		run.Lucky,
		run.LuckyMultiplier,
		run.PlayerStrength,
		run.PlayerMultiplier,
		run.RNGSeed,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create heist run for account %d: %w", run.UserID, err)
	}

	return nil
}

// GetByUser returns the most recent runs for an account
func (r *HeistRunRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.HeistRun, error) {
	query := `
		SELECT id, user_id, heist_key, success, points_change, stamina_cost, rewards_json,
		       lucky, lucky_multiplier, player_strength, player_multiplier, rng_seed, created_at
		FROM heist_runs
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get heist runs for account %d: %w", userID, err)
	}
	defer rows.Close()

	var runs []*models.HeistRun
	for rows.Next() {
		var run models.HeistRun
		err := rows.Scan(
			&run.ID,
			&run.UserID,
			&run.HeistKey,
			&run.Success,
			&run.PointsChange,
			&run.StaminaCost,
			&run.RewardsJSON,
			&run.Lucky,
			&run.LuckyMultiplier,
			&run.PlayerStrength,
			&run.PlayerMultiplier,
			&run.RNGSeed,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan heist run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heist runs: %w", err)
	}

	return runs, nil
}
