package adapters_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godraws/internal/adapters"
	"github.com/jonesrussell/godraws/internal/domain"
)

func newTable(t *testing.T) *adapters.Table {
	t.Helper()
	tbl := adapters.NewTable()
	tbl.AddAuthority("Powerball", "powerball.com")
	tbl.AddAuthority("Mega Millions", "megamillions.com")
	tbl.AddAuthority("Cash4Life", "data.ny.gov")
	return tbl
}

func TestSourceRank_AuthoritativeDomain(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	rank := tbl.SourceRank("https://www.powerball.com/api/v1/numbers", "Powerball", domain.MethodJSON)
	assert.Equal(t, adapters.RankAuthoritative, rank)
}

func TestSourceRank_AuthorityIsPerGame(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	// powerball.com is not authoritative for Mega Millions, but the
	// host still contains a generic lottery substring.
	rank := tbl.SourceRank("https://www.powerball.com/api/v1/numbers", "Mega Millions", domain.MethodJSON)
	assert.Equal(t, adapters.RankGenericSite, rank)
}

func TestSourceRank_GenericLotterySite(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	rank := tbl.SourceRank("https://www.mdlottery.com/winning-numbers/", "Powerball", domain.MethodHTML)
	assert.Equal(t, adapters.RankGenericSite, rank)
}

func TestSourceRank_MethodFallback(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	cases := []struct {
		method domain.Method
		want   int
	}{
		{domain.MethodJSON, adapters.RankMethodJSON},
		{domain.MethodHTML, adapters.RankMethodHTML},
		{domain.MethodVision, adapters.RankMethodVision},
		{domain.MethodUnknown, adapters.RankNone},
	}
	for _, tc := range cases {
		rank := tbl.SourceRank("https://news.example.com/draws", "Powerball", tc.method)
		assert.Equal(t, tc.want, rank, "method %q", tc.method)
	}
}

func TestLoadDir_RulesAndAuthority(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "authority.yaml"), []byte(`
games:
  Powerball:
    - powerball.com
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mdlottery.yaml"), []byte(`
host: www.mdlottery.com
game: Powerball
scope_contains:
  - powerball
numbers_regex: '(\d{1,2}[,\s]+){4}\d{1,2}'
bonus_regex: 'powerball[^\d]{0,6}(\d{1,2})'
`), 0o644))

	tbl, err := adapters.LoadDir(dir)
	require.NoError(t, err)

	rules := tbl.RulesFor("https://www.mdlottery.com/winning-numbers/")
	require.Len(t, rules, 1)
	assert.Equal(t, "Powerball", rules[0].Game)
	assert.NotNil(t, rules[0].NumbersRx())
	assert.Nil(t, rules[0].DateRx())

	assert.Equal(t, adapters.RankAuthoritative,
		tbl.SourceRank("https://powerball.com/previous-results", "Powerball", domain.MethodHTML))
}

func TestLoadDir_MissingDirIsEmptyTable(t *testing.T) {
	t.Parallel()

	tbl, err := adapters.LoadDir(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Nil(t, tbl.RulesFor("https://example.com/"))
}

func TestRulesFor_BaseDomainFallback(t *testing.T) {
	t.Parallel()

	tbl := adapters.NewTable()
	require.NoError(t, tbl.AddRule(&adapters.Rule{Host: "rilot.com", Game: "Powerball"}))

	rules := tbl.RulesFor("https://www.rilot.com/winning-numbers")
	require.Len(t, rules, 1)
	assert.Equal(t, "Powerball", rules[0].Game)
}
