// Package pipeline orchestrates a full ingestion run: fan the target
// registry out to a bounded worker pool (fetch, classify, extract),
// then reconcile the combined batch into the dataset exactly once and
// persist every run artifact.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/godraws/internal/dataset"
	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/extract"
	"github.com/jonesrussell/godraws/internal/logger"
	"github.com/jonesrussell/godraws/internal/reconcile"
	"github.com/jonesrussell/godraws/internal/triage"
)

const defaultWorkers = 4

// Fetcher is the one pipeline dependency with a network side effect.
type Fetcher interface {
	Fetch(ctx context.Context, target domain.Target) domain.FetchResult
}

// Options wires a pipeline run.
type Options struct {
	Targets    []domain.Target
	Fetcher    Fetcher
	Extractors *extract.Set
	Reconciler *reconcile.Reconciler
	Store      *dataset.Store
	OutputDir  string
	Workers    int
	Log        logger.Interface
}

// Pipeline runs the fetch → classify → extract → reconcile → persist
// sequence for one batch of targets.
type Pipeline struct {
	opts Options
	log  logger.Interface
}

// New creates a pipeline from options, applying worker defaults.
func New(opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Log == nil {
		opts.Log = logger.NewNoOp()
	}
	return &Pipeline{opts: opts, log: opts.Log.WithComponent("pipeline")}
}

// targetOutcome is what one worker produces for one target.
type targetOutcome struct {
	class   domain.Classification
	audit   domain.AuditRecord
	records []domain.DrawRecord
}

// Run executes the whole pipeline. The returned summary is written to
// the output directory as well. A corrupt previous dataset or a failed
// persist aborts with an error and leaves the previous file untouched.
func (p *Pipeline) Run(ctx context.Context) (dataset.Summary, error) {
	runID := uuid.NewString()
	started := time.Now().UTC()
	log := p.log.WithRunID(runID)
	log.Info("starting run", "targets", len(p.opts.Targets), "workers", p.opts.Workers)

	existing, err := p.opts.Store.Load()
	if err != nil {
		return p.finish(runID, started, nil, nil, reconcile.Stats{}, 0, dataset.StatusError),
			fmt.Errorf("load previous dataset: %w", err)
	}

	outcomes := p.fanOut(ctx, log)
	// Workers finish in arbitrary order; sort so the audit log and the
	// batch fold the same way on every run over the same inputs.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].audit.URL < outcomes[j].audit.URL
	})

	var (
		batch  []domain.DrawRecord
		audits []domain.AuditRecord
		cats   = dataset.NewCategories()
		counts = map[string]int{}
	)
	for _, oc := range outcomes {
		oc.audit.RunID = runID
		audits = append(audits, oc.audit)
		cats.Add(oc.class, oc.audit.URL)
		counts[string(oc.class)]++
		batch = append(batch, oc.records...)
	}

	merged, stats := p.opts.Reconciler.Merge(existing, batch)

	if err := p.persist(merged, audits, cats); err != nil {
		sum := p.finish(runID, started, counts, merged, stats, len(batch), dataset.StatusError)
		return sum, err
	}

	status := dataset.StatusOK
	if len(batch) == 0 {
		status = dataset.StatusWarn
		log.Warn("run extracted zero records")
	}
	if ctx.Err() != nil {
		status = dataset.StatusWarn
		log.Warn("run interrupted, partial results persisted")
	}

	sum := p.finish(runID, started, counts, merged, stats, len(batch), status)
	if err := dataset.WriteSummary(filepath.Join(p.opts.OutputDir, "run-summary.json"), sum); err != nil {
		return sum, err
	}
	log.Info("run complete",
		"status", status,
		"extracted", len(batch),
		"inserted", stats.Inserted,
		"replaced", stats.Replaced,
		"dataset_records", len(merged))
	return sum, nil
}

// fanOut distributes targets over the worker pool and gathers one
// outcome per processed target. Cancellation stops scheduling; targets
// already picked up still complete.
func (p *Pipeline) fanOut(ctx context.Context, log logger.Interface) []targetOutcome {
	jobs := make(chan domain.Target)
	var (
		mu       sync.Mutex
		outcomes []targetOutcome
		wg       sync.WaitGroup
	)

	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				oc := p.processTarget(ctx, log, target)
				mu.Lock()
				outcomes = append(outcomes, oc)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, target := range p.opts.Targets {
		select {
		case jobs <- target:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

// processTarget runs fetch → classify → extract for one target.
// Extraction failures are logged and become an empty record set; the
// audit entry is produced regardless.
func (p *Pipeline) processTarget(ctx context.Context, log logger.Interface, target domain.Target) targetOutcome {
	tlog := log.WithTarget(target.URL)
	start := time.Now()

	res := p.opts.Fetcher.Fetch(ctx, target)
	class := triage.Classify(res)
	audit := triage.Audit(res, class)

	oc := targetOutcome{class: class, audit: audit}
	if ex := p.opts.Extractors.For(class); ex != nil {
		records, err := ex.Extract(ctx, target, res)
		if err != nil {
			tlog.Warn("extraction failed, dropping target's records",
				"class", string(class), "error", err)
		} else {
			oc.records = records
		}
	}

	tlog.Debug("processed target",
		"class", string(class),
		"records", len(oc.records),
		"duration", time.Since(start).String())
	return oc
}

// persist writes the dataset, its CSV projection, the category lists,
// and the audit log. Any failure here is fatal to the run.
func (p *Pipeline) persist(merged domain.Dataset, audits []domain.AuditRecord, cats *dataset.Categories) error {
	if err := p.opts.Store.Save(merged); err != nil {
		return err
	}
	csvPath := strings.TrimSuffix(p.opts.Store.Path(), filepath.Ext(p.opts.Store.Path())) + ".csv"
	if err := p.opts.Store.SaveCSV(csvPath, merged); err != nil {
		return err
	}
	if err := cats.Write(p.opts.OutputDir); err != nil {
		return err
	}
	return dataset.AppendAudits(filepath.Join(p.opts.OutputDir, "audit.jsonl"), audits)
}

func (p *Pipeline) finish(
	runID string,
	started time.Time,
	counts map[string]int,
	merged domain.Dataset,
	stats reconcile.Stats,
	extracted int,
	status string,
) dataset.Summary {
	if counts == nil {
		counts = map[string]int{}
	}
	return dataset.Summary{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Targets:    len(p.opts.Targets),
		Classes:    counts,
		Extracted:  extracted,
		Merge:      stats,
		Records:    len(merged),
		Status:     status,
	}
}
