package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
)

// maxJSONRecords caps records harvested from one payload so a runaway
// archive endpoint cannot flood a batch.
const maxJSONRecords = 200

// Ordered candidate key lists. Slices, not maps: lookup order must be
// deterministic so repeated runs extract identical records.
var (
	numberKeys = []string{
		"winning_numbers", "winningnumbers", "field_winning_numbers",
		"numbers", "drawn_numbers", "drawnnumbers", "results",
		"white_balls", "whiteballs",
	}
	bonusKeys = []string{
		"powerball", "field_powerball", "pb",
		"mega_ball", "megaball", "mball", "mb",
		"lucky_ball", "luckyball",
		"cash_ball", "cashball",
		"star_ball", "starball",
		"red_ball", "redball",
		"bonus", "bonus_ball",
	}
	jackpotKeys = []string{
		"jackpot", "estimated_jackpot", "estimatedjackpot",
		"field_jackpot", "jackpot_amount", "jackpot_value",
		"annuity_jackpot", "estimatedannuity", "currentprizepool", "prize",
	}
	cashValueKeys = []string{
		"cash_value", "cashvalue", "jackpotcashvalue", "cash_option",
	}
	winnerKeys = []string{
		"winners", "winner_count", "winners_count", "num_winners", "number_of_winners",
	}
	gameHintKeys = []string{
		"game", "game_name", "name", "title", "product", "productname",
	}
)

// JSONExtractor harvests draw records from structured payloads. It
// copes with the payload shapes the registry actually serves: plain
// arrays, {"data": [...]}-style wrappers, ASMX {"d": "..."} envelopes,
// and the Drawing/Jackpot bundle some operators return.
type JSONExtractor struct {
	log logger.Interface
}

// NewJSONExtractor creates a JSON extractor.
func NewJSONExtractor(log logger.Interface) *JSONExtractor {
	return &JSONExtractor{log: log.WithComponent("extract.json")}
}

// Method identifies this extractor's records.
func (e *JSONExtractor) Method() domain.Method { return domain.MethodJSON }

// Extract parses the body and walks every object node for rows that
// carry a date and a numbers set.
func (e *JSONExtractor) Extract(
	_ context.Context,
	target domain.Target,
	res domain.FetchResult,
) ([]domain.DrawRecord, error) {
	root, err := decodePayload(res.Body)
	if err != nil {
		return nil, fmt.Errorf("json extract %s: %w", res.URL, err)
	}

	var out []domain.DrawRecord
	walkObjects(root, func(node map[string]any) bool {
		if len(out) >= maxJSONRecords {
			return false
		}
		if rec, ok := e.recordFromNode(node, target, res); ok {
			finishRecord(&rec, domain.MethodJSON, res)
			out = append(out, rec)
		}
		return true
	})
	return out, nil
}

// decodePayload unmarshals the body, stripping any junk before the
// first bracket (XSSI prefixes, preambles) and unwrapping one level of
// ASMX {"d": "<json string>"} envelope.
func decodePayload(body []byte) (any, error) {
	trimmed := bytes.TrimLeft(body, "\uFEFF \t\r\n")
	objIdx := bytes.IndexByte(trimmed, '{')
	arrIdx := bytes.IndexByte(trimmed, '[')
	start := objIdx
	if start == -1 || (arrIdx != -1 && arrIdx < start) {
		start = arrIdx
	}
	if start > 0 {
		trimmed = trimmed[start:]
	}

	var root any
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	if obj, ok := root.(map[string]any); ok {
		if inner, exists := obj["d"]; exists {
			if innerStr, isStr := inner.(string); isStr {
				var unwrapped any
				if err := json.Unmarshal([]byte(innerStr), &unwrapped); err != nil {
					return nil, fmt.Errorf("decode asmx envelope: %w", err)
				}
				return unwrapped, nil
			}
			return inner, nil
		}
	}
	return root, nil
}

// walkObjects visits every map node in the structure depth-first.
// Returning false from visit stops the walk.
func walkObjects(node any, visit func(map[string]any) bool) bool {
	switch v := node.(type) {
	case map[string]any:
		if !visit(v) {
			return false
		}
		for _, key := range sortedKeys(v) {
			if !walkObjects(v[key], visit) {
				return false
			}
		}
	case []any:
		for _, item := range v {
			if !walkObjects(item, visit) {
				return false
			}
		}
	}
	return true
}

func (e *JSONExtractor) recordFromNode(
	node map[string]any,
	target domain.Target,
	res domain.FetchResult,
) (domain.DrawRecord, bool) {
	lower := lowerKeyIndex(node)

	// Operator bundle: {"Drawing": {N1..N5, MBall, PlayDate}, "Jackpot": {...}}
	if drawing, ok := lookup(node, lower, "drawing"); ok {
		if inner, isMap := drawing.(map[string]any); isMap {
			return e.recordFromDrawingBundle(node, inner, target, res)
		}
	}

	mains, bonus, ok := numbersFromNode(node, lower)
	if !ok {
		return domain.DrawRecord{}, false
	}

	date := dateFromNode(node, lower)
	if date == "" {
		return domain.DrawRecord{}, false
	}

	game := gameForNode(node, lower, target, res)
	if game == "" {
		return domain.DrawRecord{}, false
	}
	if !domain.ValidNumbers(game, mains, bonus) {
		return domain.DrawRecord{}, false
	}

	rec := domain.DrawRecord{
		Game:    game,
		Date:    date,
		Numbers: append(mains, bonus),
	}
	applyMoney(&rec, node, lower)
	applyWinners(&rec, node, lower)
	return rec, true
}

// recordFromDrawingBundle handles the ASMX Drawing/Jackpot pair where
// the money lives on a sibling of the numbers.
func (e *JSONExtractor) recordFromDrawingBundle(
	parent, drawing map[string]any,
	target domain.Target,
	res domain.FetchResult,
) (domain.DrawRecord, bool) {
	dLower := lowerKeyIndex(drawing)

	mains := make([]int, 0, mainCount)
	for i := 1; i <= mainCount; i++ {
		v, ok := lookup(drawing, dLower, fmt.Sprintf("n%d", i))
		if !ok {
			return domain.DrawRecord{}, false
		}
		nums := SmallNumbers(fmt.Sprintf("%v", v))
		if len(nums) == 0 {
			return domain.DrawRecord{}, false
		}
		mains = append(mains, nums[0])
	}

	bonus := 0
	if v, ok := lookup(drawing, dLower, "mball"); ok {
		if nums := SmallNumbers(fmt.Sprintf("%v", v)); len(nums) > 0 {
			bonus = nums[0]
		}
	}

	date := dateFromNode(drawing, dLower)
	if date == "" || bonus == 0 {
		return domain.DrawRecord{}, false
	}

	game := target.Game
	if game == "" {
		game = DetectGame("", res.FinalURL)
	}
	if game == "" || !domain.ValidNumbers(game, mains, bonus) {
		return domain.DrawRecord{}, false
	}

	rec := domain.DrawRecord{
		Game:    game,
		Date:    date,
		Numbers: append(mains, bonus),
	}
	pLower := lowerKeyIndex(parent)
	if jackpot, ok := lookup(parent, pLower, "jackpot"); ok {
		if jm, isMap := jackpot.(map[string]any); isMap {
			jLower := lowerKeyIndex(jm)
			applyMoney(&rec, jm, jLower)
		}
	}
	return rec, true
}

// numbersFromNode pulls five mains and a bonus from the node's
// number-ish keys, falling back to the sixth harvested number when no
// explicit bonus key is present.
func numbersFromNode(node map[string]any, lower map[string]string) ([]int, int, bool) {
	var harvested []int
	for _, key := range numberKeys {
		v, ok := lookup(node, lower, key)
		if !ok {
			continue
		}
		harvested = numbersFromValue(v)
		if len(harvested) >= mainCount {
			break
		}
	}
	if len(harvested) < mainCount {
		return nil, 0, false
	}
	mains := append([]int(nil), harvested[:mainCount]...)

	bonus := 0
	for _, key := range bonusKeys {
		v, ok := lookup(node, lower, key)
		if !ok || v == nil {
			continue
		}
		if nums := SmallNumbers(fmt.Sprintf("%v", v)); len(nums) > 0 {
			bonus = nums[0]
			break
		}
	}
	if bonus == 0 && len(harvested) > mainCount {
		bonus = harvested[mainCount]
	}
	if bonus == 0 {
		return nil, 0, false
	}
	return mains, bonus, true
}

func numbersFromValue(v any) []int {
	switch val := v.(type) {
	case string:
		return SmallNumbers(val)
	case []any:
		var out []int
		for _, item := range val {
			out = append(out, SmallNumbers(fmt.Sprintf("%v", item))...)
		}
		return out
	case map[string]any:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return SmallNumbers(string(raw))
	default:
		return nil
	}
}

// dateFromNode tries any key containing "date", in sorted key order
// for determinism.
func dateFromNode(node map[string]any, lower map[string]string) string {
	keys := make([]string, 0, len(lower))
	for lk := range lower {
		if strings.Contains(lk, "date") {
			keys = append(keys, lk)
		}
	}
	sort.Strings(keys)

	for _, lk := range keys {
		v := node[lower[lk]]
		if v == nil {
			continue
		}
		if date := NormalizeDate(fmt.Sprintf("%v", v)); date != "" {
			return date
		}
	}
	return ""
}

func gameForNode(node map[string]any, lower map[string]string, target domain.Target, res domain.FetchResult) string {
	if target.Game != "" {
		return target.Game
	}

	var hints []string
	for _, key := range gameHintKeys {
		if v, ok := lookup(node, lower, key); ok {
			if s, isStr := v.(string); isStr {
				hints = append(hints, s)
			}
		}
	}
	return DetectGame(strings.Join(hints, " "), res.FinalURL)
}

func applyMoney(rec *domain.DrawRecord, node map[string]any, lower map[string]string) {
	for _, key := range jackpotKeys {
		v, ok := lookup(node, lower, key)
		if !ok {
			continue
		}
		if money := MoneyFromValue(v); money != nil {
			rec.JackpotUSD = money
			if strings.Contains(key, "annuity") {
				rec.JackpotType = domain.JackpotAnnuity
			}
			break
		}
	}
	for _, key := range cashValueKeys {
		v, ok := lookup(node, lower, key)
		if !ok {
			continue
		}
		if money := MoneyFromValue(v); money != nil {
			rec.CashValueUSD = money
			break
		}
	}
	if v, ok := lookup(node, lower, "jackpot_type"); ok {
		if s, isStr := v.(string); isStr {
			rec.JackpotType = domain.NormalizeJackpotType(s)
		}
	}
}

func applyWinners(rec *domain.DrawRecord, node map[string]any, lower map[string]string) {
	for _, key := range winnerKeys {
		v, ok := lookup(node, lower, key)
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			n := int(val)
			rec.Winners = &n
			return
		case string:
			if nums := SmallNumbers(val); len(nums) > 0 {
				rec.Winners = &nums[0]
				return
			}
		}
	}
}

// lowerKeyIndex maps lowercased key names to their original spelling
// so lookups tolerate the casing zoo across source payloads.
func lowerKeyIndex(node map[string]any) map[string]string {
	out := make(map[string]string, len(node))
	for k := range node {
		out[strings.ToLower(k)] = k
	}
	return out
}

func lookup(node map[string]any, lower map[string]string, key string) (any, bool) {
	orig, ok := lower[key]
	if !ok {
		return nil, false
	}
	v, ok := node[orig]
	return v, ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
