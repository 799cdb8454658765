package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godraws/internal/adapters"
	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
	"github.com/jonesrussell/godraws/internal/reconcile"
)

func int64p(v int64) *int64 { return &v }

func record(source string, method domain.Method, jackpot *int64) domain.DrawRecord {
	return domain.DrawRecord{
		Game:       "Powerball",
		Date:       "2025-08-27",
		Numbers:    []int{11, 23, 44, 57, 61, 24},
		JackpotUSD: jackpot,
		SourceURL:  source,
		Method:     method,
	}
}

func newReconciler(t *testing.T) *reconcile.Reconciler {
	t.Helper()
	table := adapters.NewTable()
	table.AddAuthority("Powerball", "powerball.com")
	table.AddAuthority("Mega Millions", "megamillions.com")
	return reconcile.New(table, logger.NewNoOp())
}

func TestMerge_InsertsNewRecords(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	batch := []domain.DrawRecord{
		record("https://www.powerball.com/api", domain.MethodJSON, int64p(150000000)),
	}

	merged, stats := r.Merge(nil, batch)
	assert.Equal(t, 1, stats.Inserted)
	assert.Zero(t, stats.Replaced)
	assert.Len(t, merged, 1)
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	batch := []domain.DrawRecord{
		record("https://www.powerball.com/api", domain.MethodJSON, int64p(150000000)),
		record("https://www.mdlottery.com/powerball", domain.MethodHTML, int64p(150000000)),
	}

	once, _ := r.Merge(nil, batch)
	twice, stats := r.Merge(once, batch)

	assert.Equal(t, once, twice)
	assert.Zero(t, stats.Inserted)
	assert.Zero(t, stats.Replaced)
	assert.Equal(t, 2, stats.Unchanged)
}

func TestMerge_OrderIndependent(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	a := record("https://www.powerball.com/api", domain.MethodJSON, int64p(150000000))
	b := record("https://www.mdlottery.com/powerball", domain.MethodHTML, int64p(160000000))
	c := record("https://news.example.com/lottery-results", domain.MethodVision, int64p(170000000))

	forward, _ := r.Merge(nil, []domain.DrawRecord{a, b, c})
	backward, _ := r.Merge(nil, []domain.DrawRecord{c, b, a})

	assert.Equal(t, forward, backward)
}

func TestMerge_AuthorityBeatsBiggerJackpot(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	authoritative := record("https://www.powerball.com/draw", domain.MethodHTML, int64p(150000000))
	aggregator := record("https://news.example.com/results", domain.MethodJSON, int64p(1500000000))

	merged, _ := r.Merge(nil, []domain.DrawRecord{aggregator, authoritative})
	require.Len(t, merged, 1)
	got := merged[authoritative.Key()]
	assert.Equal(t, authoritative.SourceURL, got.SourceURL)
	assert.Equal(t, int64(150000000), *got.JackpotUSD)
}

func TestMerge_JSONBeatsHTMLAtEqualRank(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	html := record("https://www.mdlottery.com/powerball", domain.MethodHTML, int64p(150000000))
	jsonRec := record("https://www.ctlottery.org/api/draws", domain.MethodJSON, int64p(150000000))

	merged, _ := r.Merge(nil, []domain.DrawRecord{html, jsonRec})
	require.Len(t, merged, 1)
	got := merged[html.Key()]
	assert.Equal(t, domain.MethodJSON, got.Method)
}

func TestMerge_JackpotQualityBeatsMethod(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	jsonNoMoney := record("https://www.mdlottery.com/api", domain.MethodJSON, nil)
	htmlAnnuity := record("https://www.ctlottery.org/powerball", domain.MethodHTML, int64p(150000000))
	htmlAnnuity.JackpotType = domain.JackpotAnnuity

	merged, _ := r.Merge(nil, []domain.DrawRecord{jsonNoMoney, htmlAnnuity})
	require.Len(t, merged, 1)
	got := merged[jsonNoMoney.Key()]
	assert.Equal(t, domain.MethodHTML, got.Method)
	require.NotNil(t, got.JackpotUSD)
}

func TestMerge_BiggerJackpotBreaksFullTie(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	smaller := record("https://www.mdlottery.com/powerball", domain.MethodHTML, int64p(150000000))
	bigger := record("https://www.ctlottery.org/powerball", domain.MethodHTML, int64p(160000000))

	merged, _ := r.Merge(nil, []domain.DrawRecord{smaller, bigger})
	require.Len(t, merged, 1)
	got := merged[smaller.Key()]
	assert.Equal(t, int64(160000000), *got.JackpotUSD)
}

func TestMerge_DistinctDrawsCoexist(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	pb := record("https://www.powerball.com/api", domain.MethodJSON, int64p(150000000))
	mm := pb
	mm.Game = "Mega Millions"
	mm.Numbers = []int{7, 11, 23, 44, 67, 12}
	mm.SourceURL = "https://www.megamillions.com/api"

	merged, stats := r.Merge(nil, []domain.DrawRecord{pb, mm})
	assert.Equal(t, 2, stats.Inserted)
	assert.Len(t, merged, 2)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	r := newReconciler(t)
	existing := domain.Dataset{}
	seed := record("https://www.mdlottery.com/powerball", domain.MethodHTML, int64p(150000000))
	existing[seed.Key()] = seed

	challenger := record("https://www.powerball.com/draw", domain.MethodJSON, int64p(150000000))
	merged, stats := r.Merge(existing, []domain.DrawRecord{challenger})

	assert.Equal(t, 1, stats.Replaced)
	assert.Equal(t, seed.SourceURL, existing[seed.Key()].SourceURL, "input dataset must stay untouched")
	assert.Equal(t, challenger.SourceURL, merged[seed.Key()].SourceURL)
}
