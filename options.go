package evinsight

import (
	"github.com/evmetrics/evinsight/config"
	"github.com/evmetrics/evinsight/dataset"
	"github.com/evmetrics/evinsight/forecast"
)

// Options configure an analysis run.
type Options struct {
	// Input is the registration CSV to analyze.
	Input string
	// State keeps only registrations of this state. Empty keeps every state.
	State string
	// Output is the directory charts and reports are written to.
	Output string
	// Horizon is the number of years projected past the last observed year.
	Horizon int
	// MaxYear caps the observed years entering the fit. Zero means no cap.
	MaxYear int
	// PreviewRows is the number of records echoed in the dataset preview.
	PreviewRows int

	// Charts draws the PNG chart files.
	Charts bool
	// Dashboard writes the interactive HTML dashboard.
	Dashboard bool
	// Workbook writes the xlsx workbook.
	Workbook bool
	// JSON writes the machine-readable run report.
	JSON bool

	// LogLevel is a zerolog level name, LogPretty switches to console format.
	LogLevel  string
	LogPretty bool
}

// NewDefaultOptions returns the options used when none are provided: charts
// only, Washington registrations, six year projection.
func NewDefaultOptions() *Options {
	return &Options{
		Input:       "input/ev_data.csv",
		State:       dataset.DefaultState,
		Output:      "output",
		Horizon:     forecast.DefaultHorizon,
		PreviewRows: dataset.DefaultPreviewRows,
		Charts:      true,
		LogLevel:    "info",
	}
}

// OptionsFromConfig maps a resolved configuration onto run options.
func OptionsFromConfig(cfg *config.Config) *Options {
	return &Options{
		Input:       cfg.Input,
		State:       cfg.State,
		Output:      cfg.Output,
		Horizon:     cfg.Horizon,
		MaxYear:     cfg.MaxYear,
		PreviewRows: cfg.PreviewRows,
		Charts:      cfg.Outputs.Charts,
		Dashboard:   cfg.Outputs.Dashboard,
		Workbook:    cfg.Outputs.Workbook,
		JSON:        cfg.Outputs.JSON,
		LogLevel:    cfg.Logging.Level,
		LogPretty:   cfg.Logging.Pretty,
	}
}
