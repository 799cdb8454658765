package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godraws/internal/extract"
)

func TestParseMoney_EquivalentRenderings(t *testing.T) {
	t.Parallel()

	a := extract.ParseMoney("$1,200,000,000")
	b := extract.ParseMoney("1200000000")
	c := extract.ParseMoney("Est. $1,200,000,000")

	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)
	assert.Equal(t, int64(1200000000), *a)
	assert.Equal(t, *a, *b)
	assert.Equal(t, *a, *c)
}

func TestParseMoney_AbsentStaysAbsent(t *testing.T) {
	t.Parallel()

	assert.Nil(t, extract.ParseMoney(""))
	assert.Nil(t, extract.ParseMoney("TBD"))
	assert.Nil(t, extract.ParseMoney("estimated"))
}

func TestMoneyFromValue(t *testing.T) {
	t.Parallel()

	fromFloat := extract.MoneyFromValue(float64(48000000))
	require.NotNil(t, fromFloat)
	assert.Equal(t, int64(48000000), *fromFloat)

	fromString := extract.MoneyFromValue("$48,000,000")
	require.NotNil(t, fromString)
	assert.Equal(t, int64(48000000), *fromString)

	assert.Nil(t, extract.MoneyFromValue(nil))
	assert.Nil(t, extract.MoneyFromValue(true))
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"2025-08-27":          "2025-08-27",
		"2025-08-27T00:00:00": "2025-08-27",
		"08/27/2025":          "2025-08-27",
		"8/5/25":              "2025-08-05",
		"August 27, 2025":     "2025-08-27",
		"not a date":          "",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extract.NormalizeDate(in), "input %q", in)
	}
}

func TestSniffDate_PrefersLabeledDrawDate(t *testing.T) {
	t.Parallel()

	text := "Updated 01/01/2020. Drawing Date: 08/27/2025. Numbers below."
	assert.Equal(t, "2025-08-27", extract.SniffDate(text))
}

func TestSniffDate_NothingFound(t *testing.T) {
	t.Parallel()

	assert.Empty(t, extract.SniffDate("no dates anywhere in this text"))
}

func TestGenericNumbers(t *testing.T) {
	t.Parallel()

	mains, bonus, ok := extract.GenericNumbers("Winning numbers: 11, 23, 44, 57, 61 + 24")
	require.True(t, ok)
	assert.Equal(t, []int{11, 23, 44, 57, 61}, mains)
	assert.Equal(t, 24, bonus)

	_, _, ok = extract.GenericNumbers("only 1 2 3 here")
	assert.False(t, ok)
}

func TestBonusNear(t *testing.T) {
	t.Parallel()

	bonus, ok := extract.BonusNear("11 23 44 57 61 Powerball: 24 Power Play 2x")
	require.True(t, ok)
	assert.Equal(t, 24, bonus)

	_, ok = extract.BonusNear("nothing labeled here")
	assert.False(t, ok)
}

func TestDetectGame(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Mega Millions", extract.DetectGame("Mega Millions winning numbers", ""))
	assert.Equal(t, "Powerball", extract.DetectGame("", "https://www.powerball.com/draw"))
	assert.Equal(t, "Lucky for Life", extract.DetectGame("tonight's Lucky Ball is 7", ""))
	assert.Empty(t, extract.DetectGame("keno results", "https://example.com"))
}
