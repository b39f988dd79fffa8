package models

import "time"

// LedgerReason represents why a ledger entry was written
type LedgerReason string

const (
	LedgerReasonHeistReward LedgerReason = "heist_reward"
	LedgerReasonReward      LedgerReason = "reward"
	LedgerReasonWithdraw    LedgerReason = "withdraw"
	LedgerReasonAdminAdd    LedgerReason = "admin_add"
	LedgerReasonAdminReset  LedgerReason = "admin_reset"
)

// LedgerEntry is an append-only record of a single balance change.
// Entries are the source of truth for balances and are never updated
// or deleted once written.
type LedgerEntry struct {
	ID          int64        `db:"id"`
	UserID      int64        `db:"user_id"`
	TokenSymbol string       `db:"token_symbol"`
	Amount      float64      `db:"amount"`
	Reason      LedgerReason `db:"reason"`
	RefID       *int64       `db:"ref_id"`
	CreatedAt   time.Time    `db:"created_at"`
}

// TokenBalance is the materialized sum of ledger entries for one
// (account, token) pair.
type TokenBalance struct {
	UserID      int64     `db:"user_id"`
	TokenSymbol string    `db:"token_symbol"`
	Balance     float64   `db:"balance"`
	UpdatedAt   time.Time `db:"updated_at"`
}
