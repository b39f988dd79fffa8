package engine

import (
	"fmt"
	"math"

	"crooksempire/models"
)

// PlayerSnapshot is the player state a heist is resolved against
type PlayerSnapshot struct {
	Stamina    int
	Strength   float64
	Multiplier float64
	RankName   string
}

// Outcome is the result of evaluating one heist attempt. A blocked
// outcome is terminal: the caller must not mutate any state for it.
type Outcome struct {
	Blocked     bool
	BlockReason string

	Success         bool
	PointsChange    int
	StaminaCost     int
	Rewards         map[string]float64
	Lucky           bool
	LuckyMultiplier float64
	Message         string
}

const (
	baseSuccessChance  = 0.40
	maxStrengthBonus   = 0.45
	strengthBonusScale = 0.40
	maxSuccessChance   = 0.90
)

var failMessages = []string{
	"The job went sideways. You slipped out with nothing.",
	"Alarms everywhere. You barely made it out clean.",
	"The crew got spooked and scattered. No loot this time.",
}

var successMessages = []string{
	"Clean getaway. Loot: %s",
	"In and out before anyone noticed. Loot: %s",
	"The plan held together. Loot: %s",
}

// Evaluator maps (heist definition, player snapshot) to an outcome.
// It is pure apart from entropy consumed through the Roller.
type Evaluator struct {
	rules  Rules
	roller Roller
}

// NewEvaluator creates an evaluator with the given rule set and roller
func NewEvaluator(rules Rules, roller Roller) *Evaluator {
	return &Evaluator{rules: rules, roller: roller}
}

// SuccessChance returns the success probability for a strength against a
// recommended strength: a 40% floor, a scaling bonus capped at 45
// percentage points, and an overall cap of 90%.
func SuccessChance(strength float64, recommended int) float64 {
	rec := math.Max(1, float64(recommended))
	bonus := math.Min(maxStrengthBonus, (strength/rec)*strengthBonusScale)
	return math.Min(maxSuccessChance, baseSuccessChance+bonus)
}

// Evaluate resolves one heist attempt. Gate checks happen before any
// randomness is drawn; a blocked outcome therefore consumes no entropy.
func (e *Evaluator) Evaluate(heist *models.Heist, player PlayerSnapshot) Outcome {
	if !e.rules.Ranks.AtLeast(player.RankName, heist.MinRole) {
		return Outcome{Blocked: true, BlockReason: fmt.Sprintf("Requires rank %s+", heist.MinRole)}
	}
	if player.Stamina < heist.StaminaCost {
		return Outcome{Blocked: true, BlockReason: "Not enough stamina"}
	}

	chance := SuccessChance(player.Strength, heist.RecommendedStrength)
	success := e.roller.Chance(chance)

	if !success {
		// Conservative partial penalty: roll in [points_min/2, points_min]
		lost := int(math.Round(e.roller.UniformInRange(float64(heist.PointsMin)/2, float64(heist.PointsMin))))
		if lost < 0 {
			lost = 0
		}
		return Outcome{
			Success:         false,
			PointsChange:    -lost,
			StaminaCost:     heist.StaminaCost,
			Rewards:         map[string]float64{},
			Lucky:           false,
			LuckyMultiplier: 1,
			Message:         failMessages[e.roller.UniformInt(0, len(failMessages)-1)],
		}
	}

	drops := e.roller.UniformInt(heist.TokenDropsMin, heist.TokenDropsMax)

	lucky := e.roller.Chance(e.rules.LuckyChance)
	luckyMultiplier := 1.0
	if lucky {
		luckyMultiplier = e.roller.UniformInRange(e.rules.LuckyMultiplierMin, e.rules.LuckyMultiplierMax)
	}

	multiplier := player.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	rewards := make(map[string]float64)
	for i := 0; i < drops; i++ {
		token := e.rules.TokenPool[e.roller.UniformInt(0, len(e.rules.TokenPool)-1)]
		usd := e.roller.UniformInRange(heist.AmountUSDMin, heist.AmountUSDMax) * multiplier * luckyMultiplier
		rewards[token.Symbol] += usd / token.PriceUSD
	}
	for _, token := range e.rules.TokenPool {
		if amount, ok := rewards[token.Symbol]; ok {
			rewards[token.Symbol] = roundTo(amount, token.Decimals)
		}
	}

	points := int(math.Round(e.roller.UniformInRange(float64(heist.PointsMin), float64(heist.PointsMax))))

	return Outcome{
		Success:         true,
		PointsChange:    points,
		StaminaCost:     heist.StaminaCost,
		Rewards:         rewards,
		Lucky:           lucky,
		LuckyMultiplier: luckyMultiplier,
		Message:         fmt.Sprintf(successMessages[e.roller.UniformInt(0, len(successMessages)-1)], formatRewards(rewards)),
	}
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

func formatRewards(rewards map[string]float64) string {
	if len(rewards) == 0 {
		return "nothing"
	}
	out := ""
	for sym, amount := range rewards {
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("%g %s", amount, sym)
	}
	return out
}
