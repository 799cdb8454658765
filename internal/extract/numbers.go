package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Loose bounds applied when the game (and so its rule) is unknown.
const (
	looseMainMax  = 75
	looseBonusMax = 35
	mainCount     = 5
)

var (
	smallNumRx = regexp.MustCompile(`\d{1,2}`)

	// fiveThenBonusRx matches five delimited 1-2 digit numbers followed
	// by a separated bonus: "01 12 23 34 45 + 10" and variants.
	fiveThenBonusRx = regexp.MustCompile(
		`\b(\d{1,2})\b[,\s]+(\d{1,2})\b[,\s]+(\d{1,2})\b[,\s]+(\d{1,2})\b[,\s]+(\d{1,2})\b\s*(?:[+\-–]\s*|\(\s*|\s)(\d{1,2})\b\)?`)

	// bonusKeywordRx finds a bonus-ball label followed by its number.
	bonusKeywordRx = regexp.MustCompile(
		`(?i)(powerball|mega\s*ball|lucky\s*ball|cash\s*ball|star\s*ball|bonus)[^\d]{0,6}(\d{1,2})`)
)

// SmallNumbers extracts every 1-2 digit token from s in order.
func SmallNumbers(s string) []int {
	var out []int
	for _, tok := range smallNumRx.FindAllString(s, -1) {
		n, err := strconv.Atoi(tok)
		if err == nil {
			out = append(out, n)
		}
	}
	return out
}

// GenericNumbers finds the first plausible five-mains-plus-bonus set in
// flattened text. Returns mains, bonus, ok.
func GenericNumbers(text string) ([]int, int, bool) {
	m := fiveThenBonusRx.FindStringSubmatch(text)
	if m == nil {
		return nil, 0, false
	}
	mains := make([]int, 0, mainCount)
	for _, tok := range m[1 : 1+mainCount] {
		n, _ := strconv.Atoi(tok)
		mains = append(mains, n)
	}
	bonus, _ := strconv.Atoi(m[6])
	if !looseValid(mains, bonus) {
		return nil, 0, false
	}
	return mains, bonus, true
}

// NumbersNearKeyword finds five mains whose bonus is labeled with the
// given ball name nearby ("... 5 numbers ... Lucky Ball 12").
func NumbersNearKeyword(text, keyword string) ([]int, int, bool) {
	pat := `\b(\d{1,2})\b[,\s]+(\d{1,2})\b[,\s]+(\d{1,2})\b[,\s]+(\d{1,2})\b[,\s]+(\d{1,2})\b.{0,40}?` +
		regexp.QuoteMeta(keyword) + `.{0,10}?\b(\d{1,2})\b`
	rx, err := regexp.Compile(`(?is)` + pat)
	if err != nil {
		return nil, 0, false
	}
	m := rx.FindStringSubmatch(text)
	if m == nil {
		return nil, 0, false
	}
	mains := make([]int, 0, mainCount)
	for _, tok := range m[1 : 1+mainCount] {
		n, _ := strconv.Atoi(tok)
		mains = append(mains, n)
	}
	bonus, _ := strconv.Atoi(m[6])
	if !looseValid(mains, bonus) {
		return nil, 0, false
	}
	return mains, bonus, true
}

// BonusNear returns the first keyword-labeled bonus number in text.
func BonusNear(text string) (int, bool) {
	m := bonusKeywordRx.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

func looseValid(mains []int, bonus int) bool {
	for _, n := range mains {
		if n < 1 || n > looseMainMax {
			return false
		}
	}
	return bonus >= 1 && bonus <= looseBonusMax
}

// joinNumbers renders mains+bonus for context logging.
func joinNumbers(mains []int, bonus int) string {
	parts := make([]string, 0, len(mains)+1)
	for _, n := range mains {
		parts = append(parts, strconv.Itoa(n))
	}
	parts = append(parts, strconv.Itoa(bonus))
	return strings.Join(parts, " ")
}
