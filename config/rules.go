package config

import "crooksempire/engine"

// Rank ladder shared by the whole game. Points thresholds decide the
// rank an account holds; the tier order decides rank gates on heists.
var ranks = engine.RankTable{
	{Tier: 1, Name: "Prospect", MinPoints: 0},
	{Tier: 2, Name: "Member", MinPoints: 1},
	{Tier: 3, Name: "Hustler", MinPoints: 2},
	{Tier: 4, Name: "Street Soldier", MinPoints: 3},
	{Tier: 5, Name: "Enforcer", MinPoints: 5},
	{Tier: 6, Name: "Officer", MinPoints: 10},
	{Tier: 7, Name: "Captain", MinPoints: 25},
	{Tier: 8, Name: "General", MinPoints: 50},
	{Tier: 9, Name: "Gang Leader", MinPoints: 75},
	{Tier: 10, Name: "Boss", MinPoints: 100},
	{Tier: 11, Name: "Kingpin", MinPoints: 150},
	{Tier: 12, Name: "Overlord", MinPoints: 200},
	{Tier: 13, Name: "Icon", MinPoints: 300},
	{Tier: 14, Name: "Legend", MinPoints: 400},
	{Tier: 15, Name: "Immortal", MinPoints: 500},
}

// Stamina caps per rank. Unknown ranks fall back to the Prospect cap (0).
var staminaCaps = engine.StaminaCaps{
	"Prospect": 0, "Member": 2, "Hustler": 4, "Street Soldier": 6, "Enforcer": 8,
	"Officer": 10, "Captain": 12, "General": 14, "Gang Leader": 16, "Boss": 18,
	"Kingpin": 18, "Overlord": 19, "Icon": 19, "Legend": 20, "Immortal": 20,
}

// AllowedTokens is the fixed allow-list gating every credit and debit.
var AllowedTokens = []string{"CRO", "CRKS", "MOON", "KRIS", "BONE", "BOBZ", "CRY", "CROCARD"}

// Rules builds the immutable rule set handed to the evaluator and the
// settlement service. The default token pool drops only CRKS at a fixed
// price; deployments with a price table can pass a wider pool.
func (c *Config) Rules() engine.Rules {
	return engine.Rules{
		Ranks: ranks,
		Caps:  staminaCaps,
		TokenPool: []engine.TokenInfo{
			{Symbol: "CRKS", PriceUSD: 0.01, Decimals: 2},
		},
		LuckyChance:        c.LuckyChance,
		LuckyMultiplierMin: c.LuckyMultiplierMin,
		LuckyMultiplierMax: c.LuckyMultiplierMax,
	}
}
