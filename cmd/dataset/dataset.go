// Package dataset implements the dataset inspection commands.
package dataset

import (
	"github.com/spf13/cobra"
)

// Command returns the dataset command group.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect the canonical draw dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(showCommand(cfgFile, debug))
	return cmd
}
