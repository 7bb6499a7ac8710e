package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "input/ev_data.csv", cfg.Input)
	assert.Equal(t, "WA", cfg.State)
	assert.Equal(t, "output", cfg.Output)
	assert.Equal(t, 6, cfg.Horizon)
	assert.Equal(t, 0, cfg.MaxYear)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.True(t, cfg.Outputs.Charts)
	assert.False(t, cfg.Outputs.Dashboard)
	assert.False(t, cfg.Outputs.Workbook)
	assert.False(t, cfg.Outputs.JSON)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `input: data/registrations.csv
state: ""
horizon: 10
max_year: 2023
outputs:
  workbook: true
logging:
  level: debug
  pretty: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/registrations.csv", cfg.Input)
	assert.Empty(t, cfg.State)
	assert.Equal(t, 10, cfg.Horizon)
	assert.Equal(t, 2023, cfg.MaxYear)
	assert.True(t, cfg.Outputs.Workbook)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)

	// untouched keys keep their defaults
	assert.Equal(t, "output", cfg.Output)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.True(t, cfg.Outputs.Charts)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "input": "data/registrations.csv",
  "horizon": 3,
  "outputs": {"dashboard": true, "json": true}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/registrations.csv", cfg.Input)
	assert.Equal(t, 3, cfg.Horizon)
	assert.True(t, cfg.Outputs.Dashboard)
	assert.True(t, cfg.Outputs.JSON)
	assert.Equal(t, "WA", cfg.State)
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EV_STATE", "OR")
	t.Setenv("EV_HORIZON", "8")
	t.Setenv("EV_OUTPUTS__WORKBOOK", "true")
	t.Setenv("EV_LOGGING__LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "OR", cfg.State)
	assert.Equal(t, 8, cfg.Horizon)
	assert.True(t, cfg.Outputs.Workbook)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "horizon: 10\n")
	t.Setenv("EV_HORIZON", "4")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Horizon)
}

func TestLoadErrors(t *testing.T) {
	testData := map[string]func(t *testing.T) string{
		"missing file": func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "nope.yaml")
		},
		"unsupported extension": func(t *testing.T) string {
			return writeConfig(t, "config.toml", "input = 'x'\n")
		},
		"invalid yaml": func(t *testing.T) string {
			return writeConfig(t, "config.yaml", ":\n  - {")
		},
		"fails validation": func(t *testing.T) string {
			return writeConfig(t, "config.yaml", "horizon: 0\n")
		},
	}
	for name, makePath := range testData {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(makePath(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	testData := map[string]func(cfg *Config){
		"empty input":           func(cfg *Config) { cfg.Input = "" },
		"empty output":          func(cfg *Config) { cfg.Output = "" },
		"zero horizon":          func(cfg *Config) { cfg.Horizon = 0 },
		"negative max year":     func(cfg *Config) { cfg.MaxYear = -1 },
		"zero preview rows":     func(cfg *Config) { cfg.PreviewRows = 0 },
		"unknown logging level": func(cfg *Config) { cfg.Logging.Level = "verbose" },
	}
	for name, mutate := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
