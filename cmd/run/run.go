// Package run implements the command that executes a full ingestion
// pass: fetch every registry target, classify, extract, reconcile,
// and persist the dataset with its run artifacts.
package run

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godraws/cmd/common"
	"github.com/jonesrussell/godraws/internal/adapters"
	"github.com/jonesrussell/godraws/internal/dataset"
	"github.com/jonesrussell/godraws/internal/extract"
	"github.com/jonesrussell/godraws/internal/fetcher"
	"github.com/jonesrussell/godraws/internal/pipeline"
	"github.com/jonesrussell/godraws/internal/reconcile"
	"github.com/jonesrussell/godraws/internal/targets"
)

// Command returns the run command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch all targets and update the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(*cfgFile, *debug)
			if err != nil {
				return err
			}
			cfg, log := deps.Config, deps.Log

			list, err := targets.Load(cfg.Paths.TargetsFile)
			if err != nil {
				return fmt.Errorf("load targets: %w", err)
			}

			table, err := adapters.LoadDir(cfg.Paths.AdaptersDir)
			if err != nil {
				return fmt.Errorf("load adapters: %w", err)
			}

			p := pipeline.New(pipeline.Options{
				Targets: list,
				Fetcher: fetcher.New(fetcher.Config{
					Timeout:      cfg.Fetcher.Timeout,
					UserAgent:    cfg.Fetcher.UserAgent,
					MaxBodyBytes: cfg.Fetcher.MaxBodyBytes,
				}, log),
				Extractors: extract.NewSet(table, extract.VisionConfig{
					URL:     cfg.Vision.URL,
					APIKey:  cfg.Vision.APIKey,
					Timeout: cfg.Vision.Timeout,
				}, log),
				Reconciler: reconcile.New(table, log),
				Store:      dataset.NewStore(cfg.Paths.DatasetFile, log),
				OutputDir:  cfg.Paths.OutputDir,
				Workers:    cfg.Pipeline.Workers,
				Log:        log,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sum, err := p.Run(ctx)
			if err != nil {
				return fmt.Errorf("run pipeline: %w", err)
			}

			fmt.Printf("run %s: %s — %d targets, %d extracted, %d inserted, %d replaced, %d records\n",
				sum.RunID, sum.Status, sum.Targets, sum.Extracted,
				sum.Merge.Inserted, sum.Merge.Replaced, sum.Records)
			return nil
		},
	}
}
