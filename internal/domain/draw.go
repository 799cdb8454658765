// Package domain defines the core types shared across the pipeline:
// targets, fetch results, classifications, and normalized draw records.
package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Method identifies how a draw record was extracted from a source.
type Method string

const (
	MethodJSON    Method = "json"
	MethodHTML    Method = "html"
	MethodVision  Method = "vision"
	MethodUnknown Method = ""
)

// Rank orders extraction methods by trustworthiness. Higher wins.
func (m Method) Rank() int {
	switch m {
	case MethodJSON:
		return 3
	case MethodHTML:
		return 2
	case MethodVision:
		return 1
	default:
		return 0
	}
}

// JackpotType is the closed set of jackpot figure interpretations.
type JackpotType string

const (
	JackpotAnnuity JackpotType = "annuity"
	JackpotCash    JackpotType = "cash"
	JackpotUnknown JackpotType = "unknown"
)

// NormalizeJackpotType folds a free-form jackpot type string into the
// closed three-value set.
func NormalizeJackpotType(s string) JackpotType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annuity", "annuitized":
		return JackpotAnnuity
	case "cash", "cash value", "cash_value", "lump sum", "lump_sum":
		return JackpotCash
	default:
		return JackpotUnknown
	}
}

// DrawRecord is one normalized report of a lottery drawing.
// Monetary fields are integer USD or nil; never free-form strings.
type DrawRecord struct {
	Game         string      `json:"game"`
	Date         string      `json:"date"` // YYYY-MM-DD
	Numbers      []int       `json:"numbers"`
	JackpotUSD   *int64      `json:"jackpot_usd,omitempty"`
	JackpotType  JackpotType `json:"jackpot_type"`
	CashValueUSD *int64      `json:"cash_value_usd,omitempty"`
	Winners      *int        `json:"winners,omitempty"`
	SourceURL    string      `json:"source_url"`
	Method       Method      `json:"extraction_method"`
	FetchedAt    time.Time   `json:"fetched_at"`
}

// Key identifies one real-world drawing: same game, date, and numbers
// are the same event regardless of which source reported it.
type Key struct {
	Game    string
	Date    string
	Numbers string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Game, k.Date, k.Numbers)
}

// Key computes the dedupe key for the record. Numbers are compared in
// ascending order so source ordering differences do not split events.
func (r *DrawRecord) Key() Key {
	nums := make([]int, len(r.Numbers))
	copy(nums, r.Numbers)
	sort.Ints(nums)

	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}

	return Key{Game: r.Game, Date: r.Date, Numbers: strings.Join(parts, " ")}
}

// Normalize sorts the stored numbers ascending and folds the jackpot
// type into the closed set. Called before comparison and storage.
func (r *DrawRecord) Normalize() {
	sort.Ints(r.Numbers)
	r.JackpotType = NormalizeJackpotType(string(r.JackpotType))
}

// JackpotQuality ranks how informative the record's jackpot figures
// are: annuity beats cash-only beats nothing.
func (r *DrawRecord) JackpotQuality() int {
	const (
		qualityAnnuity = 3
		qualityCash    = 2
		qualityNone    = 1
	)

	if r.JackpotUSD != nil && r.JackpotType == JackpotAnnuity {
		return qualityAnnuity
	}
	if r.CashValueUSD != nil || (r.JackpotUSD != nil && r.JackpotType == JackpotCash) {
		return qualityCash
	}
	if r.JackpotUSD != nil {
		return qualityCash
	}
	return qualityNone
}

// Dataset is the canonical mapping from drawing key to the winning
// record for that drawing. At most one record per key.
type Dataset map[Key]DrawRecord

// Records returns the dataset's records sorted by key for stable output.
func (d Dataset) Records() []DrawRecord {
	out := make([]DrawRecord, 0, len(d))
	for _, r := range d {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().String() < out[j].Key().String()
	})
	return out
}

// Clone returns a shallow copy of the dataset map.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
