// Package adapters holds the per-host extraction rule table and the
// authoritative-domain table. Both are loaded once at startup from a
// YAML directory and resolved by host for the rest of the run.
package adapters

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/godraws/internal/domain"
)

// Source rank scores. An exact authoritative domain for the specific
// game outranks any generic lottery site, which outranks anything we
// can only judge by extraction method.
const (
	RankAuthoritative = 100
	RankGenericSite   = 60
	RankMethodJSON    = 50
	RankMethodHTML    = 40
	RankMethodVision  = 30
	RankNone          = 0
)

// genericSubstrings mark a host as lottery-related even when it is not
// listed as authoritative for any game.
var genericSubstrings = []string{
	"lottery",
	"lotto",
	"powerball",
	"megamillions",
	"mega-millions",
	"cash4life",
	"luckyforlife",
}

// Rule is one per-host extraction hint set, mirroring the adapter YAML
// shape: a game, scope keywords that must appear in a candidate text
// block, and optional field regexes overriding the generic patterns.
type Rule struct {
	Host          string   `yaml:"host"`
	Game          string   `yaml:"game"`
	ScopeContains []string `yaml:"scope_contains"`
	DateRegex     string   `yaml:"date_regex"`
	NumbersRegex  string   `yaml:"numbers_regex"`
	BonusRegex    string   `yaml:"bonus_regex"`
	JackpotRegex  string   `yaml:"jackpot_regex"`

	dateRx    *regexp.Regexp
	numbersRx *regexp.Regexp
	bonusRx   *regexp.Regexp
	jackpotRx *regexp.Regexp
}

// DateRx returns the compiled date regex, or nil when unset.
func (r *Rule) DateRx() *regexp.Regexp { return r.dateRx }

// NumbersRx returns the compiled numbers regex, or nil when unset.
func (r *Rule) NumbersRx() *regexp.Regexp { return r.numbersRx }

// BonusRx returns the compiled bonus regex, or nil when unset.
func (r *Rule) BonusRx() *regexp.Regexp { return r.bonusRx }

// JackpotRx returns the compiled jackpot regex, or nil when unset.
func (r *Rule) JackpotRx() *regexp.Regexp { return r.jackpotRx }

// authorityFile is the shape of authority.yaml: game name to the hosts
// considered authoritative for that game.
type authorityFile struct {
	Games map[string][]string `yaml:"games"`
}

// Table resolves hosts to extraction rules and source ranks.
type Table struct {
	rules     map[string][]*Rule
	authority map[string][]string
}

// NewTable returns an empty table: no rules, no authoritative hosts.
func NewTable() *Table {
	return &Table{
		rules:     map[string][]*Rule{},
		authority: map[string][]string{},
	}
}

// LoadDir loads every *.yaml adapter file in dir. A file named
// authority.yaml supplies the game → authoritative hosts table; any
// other file is a per-host rule. A missing directory yields an empty
// table rather than an error.
func LoadDir(dir string) (*Table, error) {
	t := NewTable()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read adapters dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read adapter %s: %w", path, readErr)
		}

		if entry.Name() == "authority.yaml" {
			var af authorityFile
			if umErr := yaml.Unmarshal(raw, &af); umErr != nil {
				return nil, fmt.Errorf("parse authority table %s: %w", path, umErr)
			}
			for game, hosts := range af.Games {
				for _, h := range hosts {
					t.authority[game] = append(t.authority[game], strings.ToLower(h))
				}
			}
			continue
		}

		var rule Rule
		if umErr := yaml.Unmarshal(raw, &rule); umErr != nil {
			return nil, fmt.Errorf("parse adapter %s: %w", path, umErr)
		}
		if rule.Host == "" {
			continue
		}
		if compErr := rule.compile(); compErr != nil {
			return nil, fmt.Errorf("adapter %s: %w", path, compErr)
		}
		host := strings.ToLower(rule.Host)
		t.rules[host] = append(t.rules[host], &rule)
	}

	return t, nil
}

// AddAuthority registers host as authoritative for game. Used by tests
// and programmatic setup.
func (t *Table) AddAuthority(game, host string) {
	t.authority[game] = append(t.authority[game], strings.ToLower(host))
}

// AddRule registers a rule under its host, compiling its regexes.
func (t *Table) AddRule(rule *Rule) error {
	if err := rule.compile(); err != nil {
		return err
	}
	host := strings.ToLower(rule.Host)
	t.rules[host] = append(t.rules[host], rule)
	return nil
}

func (r *Rule) compile() error {
	var err error
	compile := func(expr string) (*regexp.Regexp, error) {
		if expr == "" {
			return nil, nil
		}
		return regexp.Compile("(?is)" + expr)
	}
	if r.dateRx, err = compile(r.DateRegex); err != nil {
		return fmt.Errorf("date_regex: %w", err)
	}
	if r.numbersRx, err = compile(r.NumbersRegex); err != nil {
		return fmt.Errorf("numbers_regex: %w", err)
	}
	if r.bonusRx, err = compile(r.BonusRegex); err != nil {
		return fmt.Errorf("bonus_regex: %w", err)
	}
	if r.jackpotRx, err = compile(r.JackpotRegex); err != nil {
		return fmt.Errorf("jackpot_regex: %w", err)
	}
	return nil
}

// RulesFor returns the rules registered for the URL's host, falling
// back to the registrable domain when no exact entry exists.
func (t *Table) RulesFor(rawURL string) []*Rule {
	host := hostOf(rawURL)
	if host == "" {
		return nil
	}
	if rules, ok := t.rules[host]; ok {
		return rules
	}
	if base := baseDomain(host); base != host {
		return t.rules[base]
	}
	return nil
}

// SourceRank scores the authority of a record from the given source
// URL for the given game. Falls back to extraction-method rank when
// the host is neither authoritative nor recognizably lottery-related.
func (t *Table) SourceRank(sourceURL, game string, method domain.Method) int {
	host := hostOf(sourceURL)

	if host != "" {
		for _, auth := range t.authority[game] {
			if host == auth || strings.HasSuffix(host, "."+auth) {
				return RankAuthoritative
			}
		}
		for _, sub := range genericSubstrings {
			if strings.Contains(host, sub) {
				return RankGenericSite
			}
		}
	}

	switch method {
	case domain.MethodJSON:
		return RankMethodJSON
	case domain.MethodHTML:
		return RankMethodHTML
	case domain.MethodVision:
		return RankMethodVision
	default:
		return RankNone
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// baseDomain trims the host to its last two labels, enough for the
// "www." and state-subdomain cases the registry actually contains.
func baseDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
