package targets

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/godraws/cmd/common"
	"github.com/jonesrussell/godraws/internal/domain"
	internaltargets "github.com/jonesrussell/godraws/internal/targets"
)

// listCommand returns the targets list command.
func listCommand(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registry targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(*cfgFile, *debug)
			if err != nil {
				return err
			}

			list, err := internaltargets.Load(deps.Config.Paths.TargetsFile)
			if err != nil {
				return fmt.Errorf("load targets: %w", err)
			}

			renderTargets(list)
			return nil
		},
	}
}

// renderTargets formats and displays the registry in a table.
func renderTargets(list []domain.Target) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "URL", "Game", "Note"})
	for i, target := range list {
		t.AppendRow(table.Row{i + 1, target.URL, target.Game, target.Note})
	}
	t.Render()
}
