package report

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/evmetrics/evinsight/aggregate"
	"github.com/evmetrics/evinsight/dataset"
	"github.com/evmetrics/evinsight/forecast"
)

// Report is the machine-readable record of one analysis run. Floats keep
// full precision; rounding is left to display layers.
type Report struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Input       string               `json:"input"`
	State       string               `json:"state,omitempty"`
	Stats       dataset.Stats        `json:"stats"`
	Summary     aggregate.Summary    `json:"summary"`
	Model       forecast.GrowthModel `json:"model"`
	Projection  forecast.Projection  `json:"projection"`
}

// New stamps a report with a fresh run id and the generation time.
func New(input, state string, stats dataset.Stats, summary aggregate.Summary, model forecast.GrowthModel, projection forecast.Projection) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Input:       input,
		State:       state,
		Stats:       stats,
		Summary:     summary,
		Model:       model,
		Projection:  projection,
	}
}

// Write saves the report as indented JSON at path.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal report, %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write report, %w", err)
	}
	return nil
}
