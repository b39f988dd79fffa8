package models

import "time"

// Heist is an immutable master-data row describing a playable heist.
// Gameplay never mutates these; they are seeded via migrations.
type Heist struct {
	Key                 string    `db:"key"`
	Title               string    `db:"title"`
	MinRole             string    `db:"min_role"`
	StaminaCost         int       `db:"stamina_cost"`
	RecommendedStrength int       `db:"recommended_strength"`
	TokenDropsMin       int       `db:"token_drops_min"`
	TokenDropsMax       int       `db:"token_drops_max"`
	AmountUSDMin        float64   `db:"amount_usd_min"`
	AmountUSDMax        float64   `db:"amount_usd_max"`
	PointsMin           int       `db:"points_min"`
	PointsMax           int       `db:"points_max"`
	Difficulty          string    `db:"difficulty"`
	CreatedAt           time.Time `db:"created_at"`
}
