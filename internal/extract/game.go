package extract

import "strings"

// gameHints map context substrings to canonical game names. Order
// matters: first match wins, so the more specific phrases come first.
var gameHints = []struct {
	game    string
	needles []string
}{
	{"Mega Millions", []string{"mega millions", "mega-millions", "megamillions", "mega ball", "megaball"}},
	{"Lucky for Life", []string{"lucky for life", "lucky-for-life", "luckyforlife", "lucky ball"}},
	{"Lotto America", []string{"lotto america", "lottoamerica", "star ball"}},
	{"Cash4Life", []string{"cash4life", "cash 4 life", "cash-4-life", "cash ball"}},
	{"Powerball", []string{"powerball"}},
}

// DetectGame guesses the game from page or payload context plus the
// source URL. Returns "" when nothing matches; callers fall back to
// target metadata or drop the record.
func DetectGame(context, sourceURL string) string {
	haystack := strings.ToLower(context + " " + sourceURL)
	for _, hint := range gameHints {
		for _, needle := range hint.needles {
			if strings.Contains(haystack, needle) {
				return hint.game
			}
		}
	}
	return ""
}
