package testutil

import (
	"fmt"

	"crooksempire/models"
)

// TestWallet builds a syntactically valid lowercase wallet address from
// a small integer, so tests get distinct stable addresses.
func TestWallet(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

// CreateTestHeist creates a heist definition with defaults that make
// settlement math easy to assert against.
func CreateTestHeist(key string) *models.Heist {
	return &models.Heist{
		Key:                 key,
		Title:               "Test Heist",
		MinRole:             "Prospect",
		StaminaCost:         2,
		RecommendedStrength: 10,
		TokenDropsMin:       1,
		TokenDropsMax:       1,
		AmountUSDMin:        1,
		AmountUSDMax:        1,
		PointsMin:           8,
		PointsMax:           16,
		Difficulty:          "easy",
	}
}

// CreateTestLedgerEntry creates a ledger entry with default values
func CreateTestLedgerEntry(userID int64, symbol string, amount float64) *models.LedgerEntry {
	return &models.LedgerEntry{
		UserID:      userID,
		TokenSymbol: symbol,
		Amount:      amount,
		Reason:      models.LedgerReasonReward,
	}
}

// CreateTestRun creates a heist run audit row with default values
func CreateTestRun(userID int64, heistKey string) *models.HeistRun {
	return &models.HeistRun{
		UserID:           userID,
		HeistKey:         heistKey,
		Success:          true,
		PointsChange:     10,
		StaminaCost:      2,
		RewardsJSON:      `{"CRKS":100}`,
		LuckyMultiplier:  1,
		PlayerStrength:   10,
		PlayerMultiplier: 1,
		RNGSeed:          "test-seed",
	}
}
