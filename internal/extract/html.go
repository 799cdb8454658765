package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonesrussell/godraws/internal/adapters"
	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/htmltext"
	"github.com/jonesrussell/godraws/internal/logger"
)

// soft404Rx catches pages that returned 200 but are really error
// pages. A triaged body can still be a styled "not found" template.
var soft404Rx = regexp.MustCompile(`(?i)\b(404|page not found|not found)\b`)

var moneyRx = regexp.MustCompile(`(?i)(?:est(?:imated)?\.?\s+)?\$\s*[\d][\d,\.]*(?:\s*(?:million|billion))?`)

// HTMLExtractor pulls draw records out of rendered pages, preferring
// per-host adapter rules and falling back to generic harvesting over
// the page's text blocks.
type HTMLExtractor struct {
	table *adapters.Table
	log   logger.Interface
}

// NewHTMLExtractor creates an HTML extractor backed by the adapter table.
func NewHTMLExtractor(table *adapters.Table, log logger.Interface) *HTMLExtractor {
	return &HTMLExtractor{table: table, log: log.WithComponent("extract.html")}
}

// Method identifies this extractor's records.
func (e *HTMLExtractor) Method() domain.Method { return domain.MethodHTML }

// Extract runs adapter rules first and falls back to the generic path
// when no rule matched. A soft 404 yields zero records, not an error.
func (e *HTMLExtractor) Extract(
	_ context.Context,
	target domain.Target,
	res domain.FetchResult,
) ([]domain.DrawRecord, error) {
	page := htmltext.Flatten(res.Body)
	if page == "" {
		return nil, nil
	}
	if soft404Rx.MatchString(page) && len(page) < 2000 {
		e.log.Debug("dropping soft 404 page", "url", res.URL)
		return nil, nil
	}

	if recs := e.extractWithRules(target, res, page); len(recs) > 0 {
		return recs, nil
	}
	rec, ok := e.extractGeneric(target, res, page)
	if !ok {
		return nil, nil
	}
	return []domain.DrawRecord{rec}, nil
}

// extractWithRules applies every adapter rule registered for the
// page's host against each text block, most specific scope first.
func (e *HTMLExtractor) extractWithRules(
	target domain.Target,
	res domain.FetchResult,
	page string,
) []domain.DrawRecord {
	pageURL := res.FinalURL
	if pageURL == "" {
		pageURL = res.URL
	}
	rules := e.table.RulesFor(pageURL)
	if len(rules) == 0 {
		return nil
	}

	blocks := htmltext.Blocks(res.Body)
	if len(blocks) == 0 {
		blocks = []string{page}
	}

	var out []domain.DrawRecord
	for _, rule := range rules {
		for _, block := range blocks {
			if !scopeMatches(rule.ScopeContains, block) {
				continue
			}
			rec, ok := e.applyRule(rule, target, res, block)
			if !ok {
				continue
			}
			out = append(out, rec)
			break // one record per rule, narrowest matching block wins
		}
	}
	return out
}

// scopeMatches reports whether every scope keyword appears in the
// block, case-insensitively. An empty scope matches everything.
func scopeMatches(scope []string, block string) bool {
	lowered := strings.ToLower(block)
	for _, keyword := range scope {
		if !strings.Contains(lowered, strings.ToLower(keyword)) {
			return false
		}
	}
	return true
}

func (e *HTMLExtractor) applyRule(
	rule *adapters.Rule,
	target domain.Target,
	res domain.FetchResult,
	block string,
) (domain.DrawRecord, bool) {
	game := rule.Game
	if game == "" {
		game = target.Game
	}
	if game == "" {
		game = DetectGame(block, res.FinalURL)
	}
	if game == "" {
		return domain.DrawRecord{}, false
	}

	var mains []int
	bonus := 0
	if rx := rule.NumbersRx(); rx != nil {
		m := rx.FindStringSubmatch(block)
		if m == nil {
			return domain.DrawRecord{}, false
		}
		nums := SmallNumbers(strings.Join(m[1:], " "))
		if len(nums) == 0 {
			nums = SmallNumbers(m[0])
		}
		if len(nums) < mainCount {
			return domain.DrawRecord{}, false
		}
		mains = nums[:mainCount]
		if len(nums) > mainCount {
			bonus = nums[mainCount]
		}
	} else {
		var ok bool
		mains, bonus, ok = GenericNumbers(block)
		if !ok {
			return domain.DrawRecord{}, false
		}
	}

	if rx := rule.BonusRx(); rx != nil {
		if m := rx.FindStringSubmatch(block); m != nil {
			if nums := SmallNumbers(strings.Join(m[1:], " ")); len(nums) > 0 {
				bonus = nums[0]
			}
		}
	}
	if bonus == 0 {
		if b, ok := BonusNear(block); ok {
			bonus = b
		}
	}
	if bonus == 0 || !domain.ValidNumbers(game, mains, bonus) {
		return domain.DrawRecord{}, false
	}

	date := ""
	if rx := rule.DateRx(); rx != nil {
		if m := rx.FindStringSubmatch(block); m != nil {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			date = NormalizeDate(raw)
		}
	}
	if date == "" {
		date = SniffDate(block)
	}
	if date == "" {
		return domain.DrawRecord{}, false
	}

	rec := domain.DrawRecord{
		Game:    game,
		Date:    date,
		Numbers: append(mains, bonus),
	}
	if rx := rule.JackpotRx(); rx != nil {
		if m := rx.FindStringSubmatch(block); m != nil {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			rec.JackpotUSD = ParseMoney(raw)
		}
	}
	if rec.JackpotUSD == nil {
		applyBlockMoney(&rec, block)
	}
	finishRecord(&rec, domain.MethodHTML, res)
	return rec, true
}

// extractGeneric is the no-adapter path: detect the game, harvest a
// five-plus-bonus run, and sniff a date from the page text.
func (e *HTMLExtractor) extractGeneric(
	target domain.Target,
	res domain.FetchResult,
	page string,
) (domain.DrawRecord, bool) {
	game := target.Game
	if game == "" {
		game = DetectGame(page, res.FinalURL)
	}
	if game == "" {
		return domain.DrawRecord{}, false
	}

	mains, bonus, ok := GenericNumbers(page)
	if !ok {
		mains, bonus, ok = NumbersNearKeyword(page, game)
		if !ok {
			return domain.DrawRecord{}, false
		}
	}
	if b, labeled := BonusNear(page); labeled {
		bonus = b
	}
	if bonus == 0 || !domain.ValidNumbers(game, mains, bonus) {
		return domain.DrawRecord{}, false
	}

	date := SniffDate(page)
	if date == "" {
		return domain.DrawRecord{}, false
	}

	rec := domain.DrawRecord{
		Game:    game,
		Date:    date,
		Numbers: append(mains, bonus),
	}
	applyBlockMoney(&rec, page)
	finishRecord(&rec, domain.MethodHTML, res)
	e.log.Debug("generic extraction",
		"url", res.URL, "game", game, "numbers", joinNumbers(mains, bonus))
	return rec, true
}

// applyBlockMoney fills jackpot and cash value from dollar figures in
// the text, keyed off the words around each match.
func applyBlockMoney(rec *domain.DrawRecord, text string) {
	for _, loc := range moneyRx.FindAllStringIndex(text, 8) {
		raw := text[loc[0]:loc[1]]
		money := ParseMoney(raw)
		if money == nil {
			continue
		}
		before := text[max(0, loc[0]-60):loc[0]]
		lowered := strings.ToLower(before)
		switch {
		case strings.Contains(lowered, "cash"):
			if rec.CashValueUSD == nil {
				rec.CashValueUSD = money
			}
		case strings.Contains(lowered, "jackpot") || strings.Contains(lowered, "annuity") ||
			strings.Contains(lowered, "prize"):
			if rec.JackpotUSD == nil {
				rec.JackpotUSD = money
				if strings.Contains(lowered, "annuity") {
					rec.JackpotType = domain.JackpotAnnuity
				}
			}
		default:
			if rec.JackpotUSD == nil {
				rec.JackpotUSD = money
			}
		}
	}
}
