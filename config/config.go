// Package config resolves the analysis run configuration from an optional
// YAML or JSON file plus EV_-prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/evmetrics/evinsight/dataset"
	"github.com/evmetrics/evinsight/forecast"
)

type Config struct {
	// Input is the registration CSV to analyze.
	Input string `json:"input"`
	// State keeps only registrations of this state. Empty keeps every state.
	State string `json:"state"`
	// Output is the directory charts and reports are written to.
	Output string `json:"output"`
	// Horizon is the number of years to project past the last observed year.
	Horizon int `json:"horizon"`
	// MaxYear caps the observed years entering the fit. Zero means no cap.
	MaxYear int `json:"max_year"`
	// PreviewRows is the number of records echoed by the dataset preview.
	PreviewRows int           `json:"preview_rows"`
	Outputs     OutputsConfig `json:"outputs"`
	Logging     LoggingConfig `json:"logging"`
}

// OutputsConfig toggles the run artifacts.
type OutputsConfig struct {
	// Charts produces the PNG chart files.
	Charts bool `json:"charts"`
	// Dashboard produces the interactive HTML dashboard.
	Dashboard bool `json:"dashboard"`
	// Workbook produces the xlsx workbook.
	Workbook bool `json:"workbook"`
	// JSON produces the machine-readable run report.
	JSON bool `json:"json"`
}

// LoggingConfig defines log verbosity and format.
type LoggingConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, or error.
	Level string `json:"level"`
	// Pretty switches from JSON log lines to a human console format.
	Pretty bool `json:"pretty"`
}

// Default returns the configuration used when no file or overrides are
// given: charts only, Washington registrations, six year projection.
func Default() *Config {
	return &Config{
		Input:       "input/ev_data.csv",
		State:       dataset.DefaultState,
		Output:      "output",
		Horizon:     forecast.DefaultHorizon,
		PreviewRows: dataset.DefaultPreviewRows,
		Outputs: OutputsConfig{
			Charts: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load resolves the configuration: defaults, then the file at path if one is
// given, then EV_-prefixed environment variables. Nested keys use a double
// underscore, e.g. EV_OUTPUTS__WORKBOOK=true.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("unable to load config file, %w", err)
		}
	}

	// optional environment overrides
	if err := k.Load(env.Provider("EV_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ev_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("unable to load environment overrides, %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks mandatory fields.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.Horizon < 1 {
		return fmt.Errorf("horizon must be at least 1, got %d", c.Horizon)
	}
	if c.MaxYear < 0 {
		return fmt.Errorf("max_year cannot be negative, got %d", c.MaxYear)
	}
	if c.PreviewRows < 1 {
		return fmt.Errorf("preview_rows must be at least 1, got %d", c.PreviewRows)
	}
	return c.Logging.Validate()
}

// Validate checks the level is a known zerolog level name.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %s", c.Level)
}
