package targets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godraws/internal/targets"
)

func TestParse_SkipsBlanksAndComments(t *testing.T) {
	t.Parallel()

	in := `
# national operators
https://www.powerball.com/api/v1/numbers/powerball/recent?_format=json Powerball

https://www.megamillions.com/cmspages/utilservice.asmx/GetLatestDrawData Mega Millions
# state sites
https://www.mdlottery.com/winning-numbers/
`
	list, err := targets.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "Powerball", list[0].Game)
	assert.Equal(t, "Mega Millions", list[1].Game)
	assert.Empty(t, list[2].Game)
}

func TestParse_OrderPreserved(t *testing.T) {
	t.Parallel()

	in := "https://b.example/1\nhttps://a.example/2\nhttps://c.example/3\n"
	list, err := targets.Parse(strings.NewReader(in))
	require.NoError(t, err)

	urls := []string{list[0].URL, list[1].URL, list[2].URL}
	assert.Equal(t, []string{"https://b.example/1", "https://a.example/2", "https://c.example/3"}, urls)
}

func TestParse_InlineNoteStripped(t *testing.T) {
	t.Parallel()

	in := "https://www.rilot.com/winning-numbers # flaky, renders client side\n"
	list, err := targets.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.Equal(t, "https://www.rilot.com/winning-numbers", list[0].URL)
	assert.Equal(t, "flaky, renders client side", list[0].Note)
}

func TestParse_EmptyRegistry(t *testing.T) {
	t.Parallel()

	_, err := targets.Parse(strings.NewReader("# nothing here\n\n"))
	assert.ErrorIs(t, err, targets.ErrNoTargets)
}

func TestValidate_ReportsMalformedEntries(t *testing.T) {
	t.Parallel()

	list, err := targets.Parse(strings.NewReader(
		"https://ok.example/results\nftp://bad.example/results\n",
	))
	require.NoError(t, err)

	errs := targets.Validate(list)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unsupported scheme")
}
