package engine

import (
	"testing"

	"crooksempire/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRoller replays a fixed queue of uniform draws. The derived
// methods mirror CryptoRoller so a script maps one-to-one onto the
// draws Evaluate makes.
type scriptedRoller struct {
	t     *testing.T
	draws []float64
	next  int
}

func newScriptedRoller(t *testing.T, draws ...float64) *scriptedRoller {
	return &scriptedRoller{t: t, draws: draws}
}

func (r *scriptedRoller) Uniform() float64 {
	if r.next >= len(r.draws) {
		r.t.Fatalf("unexpected draw %d, scripted only %d", r.next+1, len(r.draws))
	}
	v := r.draws[r.next]
	r.next++
	return v
}

func (r *scriptedRoller) UniformInRange(min, max float64) float64 {
	return r.Uniform()*(max-min) + min
}

func (r *scriptedRoller) UniformInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + int(r.Uniform()*float64(max-min+1))
}

func (r *scriptedRoller) Chance(p float64) bool {
	return r.Uniform() < p
}

func (r *scriptedRoller) assertExhausted() {
	assert.Equal(r.t, len(r.draws), r.next, "not all scripted draws were consumed")
}

func testRules() Rules {
	return Rules{
		Ranks: RankTable{
			{Tier: 1, Name: "Prospect", MinPoints: 0},
			{Tier: 2, Name: "Member", MinPoints: 1},
			{Tier: 3, Name: "Hustler", MinPoints: 2},
		},
		Caps: StaminaCaps{"Prospect": 0, "Member": 2, "Hustler": 4},
		TokenPool: []TokenInfo{
			{Symbol: "CRKS", PriceUSD: 0.01, Decimals: 2},
		},
		LuckyChance:        0.10,
		LuckyMultiplierMin: 1.5,
		LuckyMultiplierMax: 3.0,
	}
}

func testHeist() *models.Heist {
	return &models.Heist{
		Key:                 "corner_store",
		Title:               "Corner Store Job",
		MinRole:             "Member",
		StaminaCost:         2,
		RecommendedStrength: 10,
		TokenDropsMin:       1,
		TokenDropsMax:       1,
		AmountUSDMin:        1,
		AmountUSDMax:        1,
		PointsMin:           8,
		PointsMax:           16,
	}
}

func TestSuccessChance(t *testing.T) {
	tests := []struct {
		name        string
		strength    float64
		recommended int
		want        float64
	}{
		{"matching recommended strength", 10, 10, 0.80},
		{"zero strength floors at base", 0, 10, 0.40},
		{"overwhelming strength caps at 90", 1000, 10, 0.90},
		{"zero recommended treated as one", 0.5, 0, 0.60},
		{"half recommended", 5, 10, 0.60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SuccessChance(tt.strength, tt.recommended), 1e-9)
		})
	}
}

func TestEvaluate_BlockedByRank(t *testing.T) {
	// No draws scripted: a blocked attempt must not touch the roller
	roller := newScriptedRoller(t)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:  10,
		Strength: 10,
		RankName: "Prospect",
	})

	require.True(t, outcome.Blocked)
	assert.Equal(t, "Requires rank Member+", outcome.BlockReason)
	roller.assertExhausted()
}

func TestEvaluate_BlockedByStamina(t *testing.T) {
	roller := newScriptedRoller(t)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:  1,
		Strength: 10,
		RankName: "Member",
	})

	require.True(t, outcome.Blocked)
	assert.Equal(t, "Not enough stamina", outcome.BlockReason)
	roller.assertExhausted()
}

func TestEvaluate_UnknownRankBlocked(t *testing.T) {
	roller := newScriptedRoller(t)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:  10,
		Strength: 10,
		RankName: "Galactic Emperor",
	})

	require.True(t, outcome.Blocked)
	roller.assertExhausted()
}

func TestEvaluate_Loss(t *testing.T) {
	// Draws: success roll (0.99 vs 0.80 chance = fail),
	// penalty roll (0.5 of [4, 8] = 6), fail message index.
	roller := newScriptedRoller(t, 0.99, 0.5, 0.0)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:  5,
		Strength: 10,
		RankName: "Member",
	})

	require.False(t, outcome.Blocked)
	assert.False(t, outcome.Success)
	assert.Equal(t, -6, outcome.PointsChange)
	assert.Equal(t, 2, outcome.StaminaCost)
	assert.Empty(t, outcome.Rewards)
	assert.False(t, outcome.Lucky)
	assert.Equal(t, 1.0, outcome.LuckyMultiplier)
	assert.Equal(t, failMessages[0], outcome.Message)
	roller.assertExhausted()
}

func TestEvaluate_LossPenaltyStaysInRange(t *testing.T) {
	heist := testHeist()
	for _, u := range []float64{0.0, 0.25, 0.75, 0.999} {
		roller := newScriptedRoller(t, 0.99, u, 0.0)
		ev := NewEvaluator(testRules(), roller)

		outcome := ev.Evaluate(heist, PlayerSnapshot{Stamina: 5, Strength: 10, RankName: "Member"})

		require.False(t, outcome.Success)
		assert.GreaterOrEqual(t, outcome.PointsChange, -heist.PointsMin)
		assert.LessOrEqual(t, outcome.PointsChange, -heist.PointsMin/2)
	}
}

func TestEvaluate_Win(t *testing.T) {
	// Draws: success roll (0.0 = success), drop count, lucky roll
	// (0.99 = not lucky), token pick, usd roll, points roll
	// (0.5 of [8, 16] = 12), success message index.
	roller := newScriptedRoller(t, 0.0, 0.0, 0.99, 0.0, 0.0, 0.5, 0.0)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:  5,
		Strength: 10,
		RankName: "Member",
	})

	require.False(t, outcome.Blocked)
	assert.True(t, outcome.Success)
	assert.Equal(t, 12, outcome.PointsChange)
	assert.Equal(t, 2, outcome.StaminaCost)
	assert.False(t, outcome.Lucky)
	// $1 drop at $0.01 per CRKS
	assert.Equal(t, 100.0, outcome.Rewards["CRKS"])
	roller.assertExhausted()
}

func TestEvaluate_LuckyWinAppliesMultiplier(t *testing.T) {
	// Lucky roll 0.0 triggers; multiplier draw 0.0 of [1.5, 3.0] = 1.5
	roller := newScriptedRoller(t, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.5, 0.0)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:  5,
		Strength: 10,
		RankName: "Member",
	})

	require.True(t, outcome.Success)
	assert.True(t, outcome.Lucky)
	assert.Equal(t, 1.5, outcome.LuckyMultiplier)
	assert.Equal(t, 150.0, outcome.Rewards["CRKS"])
	roller.assertExhausted()
}

func TestEvaluate_PlayerMultiplierScalesRewards(t *testing.T) {
	roller := newScriptedRoller(t, 0.0, 0.0, 0.99, 0.0, 0.0, 0.5, 0.0)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{
		Stamina:    5,
		Strength:   10,
		Multiplier: 2.0,
		RankName:   "Member",
	})

	require.True(t, outcome.Success)
	assert.Equal(t, 200.0, outcome.Rewards["CRKS"])
	roller.assertExhausted()
}

func TestEvaluate_MultipleDropsAccumulate(t *testing.T) {
	heist := testHeist()
	heist.TokenDropsMin = 2
	heist.TokenDropsMax = 2

	// Two drops, both CRKS at $1 each
	roller := newScriptedRoller(t, 0.0, 0.0, 0.99, 0.0, 0.0, 0.0, 0.0, 0.5, 0.0)
	ev := NewEvaluator(testRules(), roller)

	outcome := ev.Evaluate(heist, PlayerSnapshot{Stamina: 5, Strength: 10, RankName: "Member"})

	require.True(t, outcome.Success)
	assert.Equal(t, 200.0, outcome.Rewards["CRKS"])
	roller.assertExhausted()
}

func TestEvaluate_RewardsRoundedToTokenDecimals(t *testing.T) {
	rules := testRules()
	rules.TokenPool = []TokenInfo{{Symbol: "CRO", PriceUSD: 0.07, Decimals: 2}}

	roller := newScriptedRoller(t, 0.0, 0.0, 0.99, 0.0, 0.0, 0.5, 0.0)
	ev := NewEvaluator(rules, roller)

	outcome := ev.Evaluate(testHeist(), PlayerSnapshot{Stamina: 5, Strength: 10, RankName: "Member"})

	require.True(t, outcome.Success)
	// 1 / 0.07 = 14.2857... rounded to 2 decimals
	assert.Equal(t, 14.29, outcome.Rewards["CRO"])
	roller.assertExhausted()
}

func TestCryptoRollerBounds(t *testing.T) {
	roller := NewCryptoRoller()
	for i := 0; i < 1000; i++ {
		u := roller.Uniform()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)

		n := roller.UniformInt(3, 7)
		require.GreaterOrEqual(t, n, 3)
		require.LessOrEqual(t, n, 7)
	}
	assert.True(t, roller.Chance(1.1))
	assert.False(t, roller.Chance(0))
}
