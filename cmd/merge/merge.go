// Package merge implements the command that folds an existing batch
// file of extracted records into the dataset without fetching
// anything. Useful for replaying vision output or hand-curated fixes.
package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godraws/cmd/common"
	"github.com/jonesrussell/godraws/internal/adapters"
	"github.com/jonesrussell/godraws/internal/dataset"
	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/reconcile"
)

// Command returns the merge command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <batch.json>",
		Short: "Merge a batch file of draw records into the dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(*cfgFile, *debug)
			if err != nil {
				return err
			}
			cfg, log := deps.Config, deps.Log

			batch, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			table, err := adapters.LoadDir(cfg.Paths.AdaptersDir)
			if err != nil {
				return fmt.Errorf("load adapters: %w", err)
			}

			store := dataset.NewStore(cfg.Paths.DatasetFile, log)
			existing, err := store.Load()
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}

			merged, stats := reconcile.New(table, log).Merge(existing, batch)
			if err := store.Save(merged); err != nil {
				return fmt.Errorf("save dataset: %w", err)
			}
			csvPath := strings.TrimSuffix(store.Path(), filepath.Ext(store.Path())) + ".csv"
			if err := store.SaveCSV(csvPath, merged); err != nil {
				return fmt.Errorf("save csv: %w", err)
			}

			fmt.Printf("merged %d records: %d inserted, %d replaced, %d unchanged — %d total\n",
				stats.Total(), stats.Inserted, stats.Replaced, stats.Unchanged, len(merged))
			return nil
		},
	}
}

// loadBatch reads a JSON array of draw records from path.
func loadBatch(path string) ([]domain.DrawRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch %s: %w", path, err)
	}
	var batch []domain.DrawRecord
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	return batch, nil
}
