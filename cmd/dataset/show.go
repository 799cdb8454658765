package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/godraws/cmd/common"
	internaldataset "github.com/jonesrussell/godraws/internal/dataset"
	"github.com/jonesrussell/godraws/internal/domain"
)

// showCommand returns the dataset show command.
func showCommand(cfgFile *string, debug *bool) *cobra.Command {
	var game string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the dataset's draw records",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(*cfgFile, *debug)
			if err != nil {
				return err
			}

			store := internaldataset.NewStore(deps.Config.Paths.DatasetFile, deps.Log)
			d, err := store.Load()
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}

			renderRecords(d, game)
			return nil
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "only show records for this game")
	return cmd
}

// renderRecords formats and displays records in a table, optionally
// filtered by game.
func renderRecords(d domain.Dataset, game string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Date", "Game", "Numbers", "Jackpot", "Type", "Cash Value", "Method", "Source"})
	shown := 0
	for _, rec := range d.Records() {
		if game != "" && !strings.EqualFold(rec.Game, game) {
			continue
		}
		t.AppendRow(table.Row{
			rec.Date,
			rec.Game,
			joinNumbers(rec.Numbers),
			moneyCell(rec.JackpotUSD),
			string(rec.JackpotType),
			moneyCell(rec.CashValueUSD),
			string(rec.Method),
			rec.SourceURL,
		})
		shown++
	}
	t.Render()
	fmt.Printf("%d records\n", shown)
}

func joinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func moneyCell(v *int64) string {
	if v == nil {
		return ""
	}
	return "$" + strconv.FormatInt(*v, 10)
}
