package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godraws/internal/dataset"
	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
)

func int64p(v int64) *int64 { return &v }

func sampleDataset() domain.Dataset {
	recs := []domain.DrawRecord{
		{
			Game:       "Powerball",
			Date:       "2025-08-27",
			Numbers:    []int{11, 23, 24, 44, 57, 61},
			JackpotUSD: int64p(150000000),
			SourceURL:  "https://www.powerball.com/api",
			Method:     domain.MethodJSON,
		},
		{
			Game:      "Mega Millions",
			Date:      "2025-08-26",
			Numbers:   []int{7, 11, 12, 23, 44, 67},
			SourceURL: "https://www.megamillions.com/api",
			Method:    domain.MethodJSON,
		},
	}
	d := domain.Dataset{}
	for _, r := range recs {
		r.Normalize()
		d[r.Key()] = r
	}
	return d
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "latest-draws.json")
	store := dataset.NewStore(path, logger.NewNoOp())

	want := sampleDataset()
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	store := dataset.NewStore(filepath.Join(t.TempDir(), "never-written.json"), logger.NewNoOp())
	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_CorruptFileIsFatalAndUntouched(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "latest-draws.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := dataset.NewStore(path, logger.NewNoOp())
	_, err := store.Load()
	require.ErrorIs(t, err, dataset.ErrCorruptDataset)

	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(raw), "load must never modify the file")
}

func TestStore_SaveCSVProjection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := dataset.NewStore(filepath.Join(dir, "latest-draws.json"), logger.NewNoOp())
	csvPath := filepath.Join(dir, "latest-draws.csv")

	require.NoError(t, store.SaveCSV(csvPath, sampleDataset()))

	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"date,game,numbers,jackpot_usd,jackpot_type,cash_value_usd,source_url,extraction_method",
		lines[0])
	assert.Contains(t, lines[1], "2025-08-26,Mega Millions,7 11 12 23 44 67")
	assert.Contains(t, lines[2], "150000000")
	assert.Contains(t, lines[2], "11 23 24 44 57 61")
}

func TestCategories_ExclusiveAndExhaustive(t *testing.T) {
	t.Parallel()

	cats := dataset.NewCategories()
	cats.Add(domain.ClassJSONOK, "https://a.example/api")
	cats.Add(domain.ClassHTMLOK, "https://b.example/page")
	cats.Add(domain.ClassNeedsVision, "https://c.example/canvas")
	cats.Add(domain.ClassUnsupported, "https://d.example/report.pdf")
	cats.Add(domain.ClassBadHTTP, "https://e.example/gone")

	dir := t.TempDir()
	require.NoError(t, cats.Write(dir))

	read := func(name string) string {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(raw)
	}

	assert.Equal(t, "https://a.example/api\n", read("json-ok.txt"))
	assert.Equal(t, "https://b.example/page\n", read("html-ok.txt"))
	needsVision := read("needs-vision.txt")
	assert.Contains(t, needsVision, "https://c.example/canvas\n")
	assert.Contains(t, needsVision, "https://d.example/report.pdf\n")
	assert.Equal(t, "https://e.example/gone\n", read("failed.txt"))
}

func TestCategories_404LandsOnlyInFailed(t *testing.T) {
	t.Parallel()

	cats := dataset.NewCategories()
	cats.Add(domain.ClassBadHTTP, "https://gone.example/404")

	dir := t.TempDir()
	require.NoError(t, cats.Write(dir))

	for _, name := range []string{"json-ok.txt", "html-ok.txt", "needs-vision.txt"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Empty(t, string(raw), "%s must be empty", name)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "failed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "https://gone.example/404\n", string(raw))
}

func TestAppendAudits_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.jsonl")
	first := []domain.AuditRecord{{URL: "https://a.example", Class: domain.ClassJSONOK}}
	second := []domain.AuditRecord{{URL: "https://b.example", Class: domain.ClassBadHTTP}}

	require.NoError(t, dataset.AppendAudits(path, first))
	require.NoError(t, dataset.AppendAudits(path, second))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "https://a.example")
	assert.Contains(t, lines[1], "https://b.example")
}
