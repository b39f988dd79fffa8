package repository

import (
	"context"
	"fmt"

	"crooksempire/database"
	"crooksempire/models"
	"github.com/jackc/pgx/v5"
)

// HeistRepository implements the HeistRepository interface
type HeistRepository struct {
	q queryable
}

// NewHeistRepository creates a new heist repository
func NewHeistRepository(db *database.DB) *HeistRepository {
	return &HeistRepository{q: db.Pool}
}

// newHeistRepositoryWithTx creates a new heist repository with a transaction
func newHeistRepositoryWithTx(tx queryable) *HeistRepository {
	return &HeistRepository{q: tx}
}

const heistColumns = `key, title, min_role, stamina_cost, recommended_strength,
	token_drops_min, token_drops_max, amount_usd_min::float8, amount_usd_max::float8,
	points_min, points_max, difficulty, created_at`

func scanHeist(row pgx.Row) (*models.Heist, error) {
	var heist models.Heist
	err := row.Scan(
		&heist.Key,
		&heist.Title,
		&heist.MinRole,
		&heist.StaminaCost,
		&heist.RecommendedStrength,
		&heist.TokenDropsMin,
		&heist.TokenDropsMax,
		&heist.AmountUSDMin,
		&heist.AmountUSDMax,
		&heist.PointsMin,
		&heist.PointsMax,
		&heist.Difficulty,
		&heist.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &heist, nil
}

// GetByKey retrieves a heist definition by its key, or nil when absent
func (r *HeistRepository) GetByKey(ctx context.Context, key string) (*models.Heist, error) {
	query := fmt.Sprintf(`SELECT %s FROM heists WHERE key = $1`, heistColumns)

	heist, err := scanHeist(r.q.QueryRow(ctx, query, key))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get heist %s: %w", key, err)
	}

	return heist, nil
}

// GetAll returns the heist master list ordered by stamina cost then title
func (r *HeistRepository) GetAll(ctx context.Context) ([]*models.Heist, error) {
	query := fmt.Sprintf(`SELECT %s FROM heists ORDER BY stamina_cost, title`, heistColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get heists: %w", err)
	}
	defer rows.Close()

	var heists []*models.Heist
	for rows.Next() {
		heist, err := scanHeist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan heist: %w", err)
		}
		heists = append(heists, heist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heists: %w", err)
	}

	return heists, nil
}
