package targets

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/godraws/cmd/common"
	internaltargets "github.com/jonesrussell/godraws/internal/targets"
)

// errInvalidTargets is returned when any registry entry is malformed.
var errInvalidTargets = errors.New("registry contains invalid targets")

// validateCommand returns the targets validate command.
func validateCommand(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every registry target URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build(*cfgFile, *debug)
			if err != nil {
				return err
			}

			list, err := internaltargets.Load(deps.Config.Paths.TargetsFile)
			if err != nil {
				return fmt.Errorf("load targets: %w", err)
			}

			problems := internaltargets.Validate(list)
			for _, p := range problems {
				fmt.Printf("invalid: %v\n", p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidTargets, len(problems), len(list))
			}

			fmt.Printf("all %d targets valid\n", len(list))
			return nil
		},
	}
}
