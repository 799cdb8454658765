// Package cmd implements the command-line interface for godraws.
// It provides the root command and subcommands for running the
// ingestion pipeline and inspecting its inputs and outputs.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cmddataset "github.com/jonesrussell/godraws/cmd/dataset"
	"github.com/jonesrussell/godraws/cmd/merge"
	"github.com/jonesrussell/godraws/cmd/run"
	cmdtargets "github.com/jonesrussell/godraws/cmd/targets"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the godraws CLI.
	rootCmd = &cobra.Command{
		Use:   "godraws",
		Short: "Lottery draw ingestion pipeline",
		Long: `godraws fetches lottery result pages and APIs, classifies each
response, extracts draw records, and reconciles them into a single
canonical dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment overrides are visible to viper.
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("godraws version %s\n", Version)
		},
	})

	rootCmd.AddCommand(run.Command(&cfgFile, &debug))
	rootCmd.AddCommand(merge.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdtargets.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmddataset.Command(&cfgFile, &debug))
}
