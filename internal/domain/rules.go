package domain

// GameRule bounds the main and bonus numbers for one game. Extractors
// reject candidate number sets that fall outside these ranges.
type GameRule struct {
	MainCount int
	MainMin   int
	MainMax   int
	BonusMin  int
	BonusMax  int
	BonusName string
}

// GameRules covers the multi-state games the pipeline tracks.
var GameRules = map[string]GameRule{
	"Powerball":      {MainCount: 5, MainMin: 1, MainMax: 69, BonusMin: 1, BonusMax: 26, BonusName: "Powerball"},
	"Mega Millions":  {MainCount: 5, MainMin: 1, MainMax: 70, BonusMin: 1, BonusMax: 25, BonusName: "Mega Ball"},
	"Lucky for Life": {MainCount: 5, MainMin: 1, MainMax: 48, BonusMin: 1, BonusMax: 18, BonusName: "Lucky Ball"},
	"Cash4Life":      {MainCount: 5, MainMin: 1, MainMax: 60, BonusMin: 1, BonusMax: 4, BonusName: "Cash Ball"},
	"Lotto America":  {MainCount: 5, MainMin: 1, MainMax: 52, BonusMin: 1, BonusMax: 10, BonusName: "Star Ball"},
}

// ValidNumbers reports whether mains+bonus satisfy the game's rule.
// Games without a rule table entry are accepted as-is; the reconciler
// still dedupes them by key.
func ValidNumbers(game string, mains []int, bonus int) bool {
	rule, ok := GameRules[game]
	if !ok {
		return true
	}
	if len(mains) != rule.MainCount {
		return false
	}
	for _, n := range mains {
		if n < rule.MainMin || n > rule.MainMax {
			return false
		}
	}
	return bonus >= rule.BonusMin && bonus <= rule.BonusMax
}
