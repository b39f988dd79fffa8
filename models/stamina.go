package models

import "time"

// StaminaState is the per-account stamina row.
// Invariant: 0 <= Stamina <= Cap after any write.
type StaminaState struct {
	UserID     int64     `db:"user_id"`
	Stamina    int       `db:"stamina"`
	Cap        int       `db:"cap"`
	LastTickAt time.Time `db:"last_tick_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
