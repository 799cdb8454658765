// Package common holds the dependency wiring shared by all godraws
// subcommands: configuration loading and logger construction.
package common

import (
	"fmt"

	"github.com/jonesrussell/godraws/internal/config"
	"github.com/jonesrussell/godraws/internal/logger"
)

// Deps bundles the shared dependencies every subcommand starts from.
type Deps struct {
	Config *config.Config
	Log    logger.Interface
}

// Build loads configuration from cfgFile (or the defaults) and
// constructs the logger. The debug flag forces debug-level logging
// regardless of the configured level.
func Build(cfgFile string, debug bool) (*Deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{
		Level:       level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.App.Environment == "development",
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &Deps{Config: cfg, Log: log}, nil
}
