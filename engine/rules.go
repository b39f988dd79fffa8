package engine

import "strings"

// Rank is one rung of the rank ladder
type Rank struct {
	Tier      int
	Name      string
	MinPoints int64
}

// RankTable is the ordered rank ladder, lowest tier first
type RankTable []Rank

func normalizeRank(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// tierOf returns the tier for a rank name, or -1 when unknown
func (t RankTable) tierOf(name string) int {
	norm := normalizeRank(name)
	for _, r := range t {
		if normalizeRank(r.Name) == norm {
			return r.Tier
		}
	}
	return -1
}

// AtLeast reports whether rank cur meets or exceeds rank need.
// Unknown current ranks never pass; unknown required ranks never match.
func (t RankTable) AtLeast(cur, need string) bool {
	a := t.tierOf(cur)
	b := t.tierOf(need)
	if b == -1 {
		return false
	}
	return a >= b
}

// ForPoints returns the highest rank whose points threshold is met
func (t RankTable) ForPoints(points int64) Rank {
	if len(t) == 0 {
		return Rank{}
	}
	best := t[0]
	for _, r := range t {
		if points >= r.MinPoints && r.Tier > best.Tier {
			best = r
		}
	}
	return best
}

// StaminaCaps maps rank names to stamina caps
type StaminaCaps map[string]int

// CapFor returns the stamina cap for a rank name. Unknown ranks resolve
// to the lowest tier's cap (0).
func (c StaminaCaps) CapFor(rankName string) int {
	if cap, ok := c[rankName]; ok {
		return cap
	}
	return 0
}

// TokenInfo describes one token in the reward pool
type TokenInfo struct {
	Symbol   string
	PriceUSD float64
	Decimals int
}

// Rules is the immutable rule set for heist resolution. It is built
// once from configuration and passed in at construction so tests can
// swap it wholesale.
type Rules struct {
	Ranks     RankTable
	Caps      StaminaCaps
	TokenPool []TokenInfo

	LuckyChance        float64
	LuckyMultiplierMin float64
	LuckyMultiplierMax float64
}
