package models

import "time"

// WithdrawStatus represents the processing state of a withdrawal request
type WithdrawStatus string

const (
	WithdrawStatusQueued WithdrawStatus = "queued"
	WithdrawStatusSent   WithdrawStatus = "sent"
	WithdrawStatusFailed WithdrawStatus = "failed"
)

// WithdrawRequest mirrors a balance debit that is to be paid out
// externally. The on-chain transfer itself happens outside this service;
// the request row plus the ledger debit are what we own.
type WithdrawRequest struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	TokenSymbol string         `db:"token_symbol"`
	Amount      float64        `db:"amount"`
	ToAddress   string         `db:"to_address"`
	Status      WithdrawStatus `db:"status"`
	Note        string         `db:"note"`
	CreatedAt   time.Time      `db:"created_at"`
}
