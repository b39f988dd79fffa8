package models

import (
	"time"
)

// Account represents a player identified by a wallet address.
// Wallet addresses are stored case-normalized (lowercase 0x + 40 hex chars).
type Account struct {
	ID            int64     `db:"id"`
	WalletAddress string    `db:"wallet_address"`
	Points        int64     `db:"points"`
	CreatedAt     time.Time `db:"created_at"`
	LastLoginAt   time.Time `db:"last_login_at"`
}
