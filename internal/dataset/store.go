// Package dataset persists the canonical draw dataset and the run
// artifacts around it: a CSV projection, categorized URL lists, the
// append-only audit log, and per-run summaries. All full-file writes
// go through write-to-temp-then-rename so a crashed run never leaves a
// truncated dataset behind.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/logger"
	"github.com/jonesrussell/godraws/internal/reconcile"
)

const fileMode = 0o644

// ErrCorruptDataset marks a previous dataset file that exists but
// cannot be decoded. Callers must abort rather than overwrite it.
var ErrCorruptDataset = errors.New("corrupt dataset file")

// datasetFile is the on-disk shape: a stable, sorted record list plus
// a generation stamp.
type datasetFile struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Records     []domain.DrawRecord `json:"records"`
}

// Store reads and writes the canonical dataset at a fixed path.
type Store struct {
	path string
	log  logger.Interface
}

// NewStore creates a store over the given dataset file path.
func NewStore(path string, log logger.Interface) *Store {
	return &Store{path: path, log: log.WithComponent("dataset")}
}

// Path returns the dataset file location.
func (s *Store) Path() string { return s.path }

// Load reads the previous dataset. A file that has never existed
// yields an empty dataset; a file that exists but will not decode is
// ErrCorruptDataset, and the caller must not write over it.
func (s *Store) Load() (domain.Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no previous dataset, starting empty", "path", s.path)
			return domain.Dataset{}, nil
		}
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	var file datasetFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDataset, s.path, err)
	}

	out := make(domain.Dataset, len(file.Records))
	for _, rec := range file.Records {
		rec.Normalize()
		out[rec.Key()] = rec
	}
	s.log.Info("loaded dataset", "path", s.path, "records", len(out))
	return out, nil
}

// Save writes the dataset atomically, records sorted by key so
// successive files diff cleanly.
func (s *Store) Save(d domain.Dataset) error {
	file := datasetFile{
		GeneratedAt: time.Now().UTC(),
		Records:     d.Records(),
	}
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := writeFileAtomic(s.path, append(raw, '\n')); err != nil {
		return fmt.Errorf("save dataset %s: %w", s.path, err)
	}
	s.log.Info("saved dataset", "path", s.path, "records", len(file.Records))
	return nil
}

// csvHeader is the projection column order.
var csvHeader = []string{
	"date", "game", "numbers",
	"jackpot_usd", "jackpot_type", "cash_value_usd",
	"source_url", "extraction_method",
}

// SaveCSV writes the flat projection of the dataset next to the JSON.
func (s *Store) SaveCSV(path string, d domain.Dataset) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range d.Records() {
		row := []string{
			rec.Date,
			rec.Game,
			joinInts(rec.Numbers),
			moneyField(rec.JackpotUSD),
			string(rec.JackpotType),
			moneyField(rec.CashValueUSD),
			rec.SourceURL,
			string(rec.Method),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := writeFileAtomic(path, []byte(sb.String())); err != nil {
		return fmt.Errorf("save csv %s: %w", path, err)
	}
	return nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func moneyField(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// writeFileAtomic writes data to a temp file in the destination's
// directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// categoryFiles maps every classification onto exactly one list file.
// The two vision-bound classes share a file; everything else is 1:1.
var categoryFiles = map[domain.Classification]string{
	domain.ClassJSONOK:      "json-ok.txt",
	domain.ClassHTMLOK:      "html-ok.txt",
	domain.ClassNeedsVision: "needs-vision.txt",
	domain.ClassUnsupported: "needs-vision.txt",
	domain.ClassBadHTTP:     "failed.txt",
}

// listFileNames is every distinct category file, written even when
// empty so consumers can rely on all four existing after a run.
var listFileNames = []string{"json-ok.txt", "html-ok.txt", "needs-vision.txt", "failed.txt"}

// Categories accumulates URLs per classification during a run.
type Categories struct {
	byFile map[string][]string
}

// NewCategories returns an empty accumulator.
func NewCategories() *Categories {
	return &Categories{byFile: map[string][]string{}}
}

// Add files the URL under its classification's list.
func (c *Categories) Add(class domain.Classification, url string) {
	name, ok := categoryFiles[class]
	if !ok {
		name = "failed.txt"
	}
	c.byFile[name] = append(c.byFile[name], url)
}

// Count returns how many URLs landed in the named list.
func (c *Categories) Count(name string) int { return len(c.byFile[name]) }

// Write emits all four list files into dir, one URL per line, sorted
// for run-to-run stability.
func (c *Categories) Write(dir string) error {
	for _, name := range listFileNames {
		urls := append([]string(nil), c.byFile[name]...)
		sort.Strings(urls)

		var sb strings.Builder
		for _, u := range urls {
			sb.WriteString(u)
			sb.WriteByte('\n')
		}
		if err := writeFileAtomic(filepath.Join(dir, name), []byte(sb.String())); err != nil {
			return fmt.Errorf("write category list %s: %w", name, err)
		}
	}
	return nil
}

// AppendAudits appends one JSON line per audit record to the run log.
func AppendAudits(path string, records []domain.AuditRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("open audit log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("append audit record: %w", err)
		}
	}
	return nil
}

// Run status values for the summary.
const (
	StatusOK    = "ok"
	StatusWarn  = "warn"
	StatusError = "error"
)

// Summary is the per-run report written next to the dataset.
type Summary struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Targets    int             `json:"targets"`
	Classes    map[string]int  `json:"classes"`
	Extracted  int             `json:"extracted"`
	Merge      reconcile.Stats `json:"merge"`
	Records    int             `json:"dataset_records"`
	Status     string          `json:"status"`
}

// WriteSummary persists the run summary atomically.
func WriteSummary(path string, sum Summary) error {
	raw, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := writeFileAtomic(path, append(raw, '\n')); err != nil {
		return fmt.Errorf("save summary %s: %w", path, err)
	}
	return nil
}
