package service

import (
	"regexp"
	"strings"
)

var walletPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// NormalizeWallet validates a wallet address and returns its canonical
// lowercase form. Every layer below the HTTP boundary works with the
// normalized form only.
func NormalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if !walletPattern.MatchString(wallet) {
		return "", ErrInvalidWallet
	}
	return strings.ToLower(wallet), nil
}
