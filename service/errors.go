package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHeist means the requested heist key has no definition
	ErrUnknownHeist = errors.New("unknown heist")

	// ErrInvalidWallet means the wallet address failed validation
	ErrInvalidWallet = errors.New("missing or invalid wallet")

	// ErrInvalidAmount means an amount was non-finite or out of range
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrTokenNotAllowed means a token symbol is outside the allow-list
	ErrTokenNotAllowed = errors.New("token not allowed")

	// ErrInsufficientBalance means a debit exceeds the current balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientStamina means a spend exceeds the current stamina
	ErrInsufficientStamina = errors.New("not enough stamina")

	// ErrNoValidRewards means a batch contained no creditable entries
	ErrNoValidRewards = errors.New("no valid rewards")
)

// BlockedError reports a gate failure (rank or stamina). It is an
// expected outcome, not a system failure: no state was touched and the
// caller should render the reason rather than an error page.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked: %s", e.Reason)
}

// IsBlocked reports whether an error is a gate block and returns the reason
func IsBlocked(err error) (string, bool) {
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return blocked.Reason, true
	}
	return "", false
}
