// Package config provides configuration management for the godraws
// pipeline. It handles loading, validation, and access to configuration
// values from a YAML file and GODRAWS_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when the config file or keys are absent.
const (
	defaultFetchTimeout  = 25 * time.Second
	defaultMaxBodyBytes  = 10 * 1024 * 1024 // 10 MB
	defaultWorkerCount   = 4
	defaultUserAgent     = "godraws/1.0 (+https://github.com/jonesrussell/godraws)"
	defaultTargetsFile   = "targets.txt"
	defaultAdaptersDir   = "adapters"
	defaultDatasetFile   = "datasets/latest-draws.json"
	defaultOutputDir     = "out"
	defaultVisionTimeout = 60 * time.Second
)

// ErrMissingTargets is returned when no targets file is configured.
var ErrMissingTargets = errors.New("targets file is required")

// Config represents the application configuration.
type Config struct {
	// App holds application-wide settings
	App AppConfig `mapstructure:"app"`
	// Logging holds logger settings
	Logging LoggingConfig `mapstructure:"logging"`
	// Fetcher holds HTTP fetcher settings
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	// Vision holds the external recognition collaborator settings
	Vision VisionConfig `mapstructure:"vision"`
	// Pipeline holds run orchestration settings
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	// Paths holds input and output locations
	Paths PathsConfig `mapstructure:"paths"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// FetcherConfig holds HTTP fetcher settings.
type FetcherConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// VisionConfig holds the external recognition endpoint settings. An
// empty URL disables the vision fallback; targets routed there yield
// zero records.
type VisionConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PipelineConfig holds run orchestration settings.
type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

// PathsConfig holds input and output locations.
type PathsConfig struct {
	TargetsFile string `mapstructure:"targets_file"`
	AdaptersDir string `mapstructure:"adapters_dir"`
	DatasetFile string `mapstructure:"dataset_file"`
	OutputDir   string `mapstructure:"output_dir"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.TargetsFile == "" {
		return ErrMissingTargets
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive, got %s", c.Fetcher.Timeout)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("pipeline workers must be positive, got %d", c.Pipeline.Workers)
	}
	return nil
}

// Load loads configuration from the given path (or the defaults when
// path is empty and no config.yaml is present).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GODRAWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for every key so a bare environment
// still produces a runnable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("fetcher.timeout", defaultFetchTimeout)
	v.SetDefault("fetcher.user_agent", defaultUserAgent)
	v.SetDefault("fetcher.max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("vision.url", "")
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.timeout", defaultVisionTimeout)
	v.SetDefault("pipeline.workers", defaultWorkerCount)
	v.SetDefault("paths.targets_file", defaultTargetsFile)
	v.SetDefault("paths.adapters_dir", defaultAdaptersDir)
	v.SetDefault("paths.dataset_file", defaultDatasetFile)
	v.SetDefault("paths.output_dir", defaultOutputDir)
}
