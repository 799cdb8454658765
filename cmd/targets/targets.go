// Package targets implements the registry inspection commands:
// listing the configured targets in a table and validating them.
package targets

import (
	"github.com/spf13/cobra"
)

// Command returns the targets command group.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Inspect the target registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(listCommand(cfgFile, debug))
	cmd.AddCommand(validateCommand(cfgFile, debug))
	return cmd
}
