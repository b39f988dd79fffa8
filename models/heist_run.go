package models

import "time"

// HeistRun is the append-only audit row written once per settlement
// attempt that passed the gates. It captures inputs and outcome for
// replay and never changes.
type HeistRun struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	HeistKey         string    `db:"heist_key"`
	Success          bool      `db:"success"`
	PointsChange     int       `db:"points_change"`
	StaminaCost      int       `db:"stamina_cost"`
	RewardsJSON      string    `db:"rewards_json"`
	Lucky            bool      `db:"lucky"`
	LuckyMultiplier  float64   `db:"lucky_multiplier"`
	PlayerStrength   int       `db:"player_strength"`
	PlayerMultiplier float64   `db:"player_multiplier"`
	RNGSeed          string    `db:"rng_seed"`
	CreatedAt        time.Time `db:"created_at"`
}

// SettlementResult is the outcome of a heist settlement (returned to the caller)
type SettlementResult struct {
	RunID           int64
	Success         bool
	Message         string
	PointsChange    int
	Rewards         map[string]float64
	Lucky           bool
	LuckyMultiplier float64
	StaminaCost     int
	StaminaAfter    int
}
