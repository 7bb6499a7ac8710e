// Package evinsight analyzes electric vehicle registration data: it loads
// and cleans a registration CSV, aggregates adoption, geography, make,
// model, and range tables, fits an exponential growth model to the yearly
// totals, and writes charts and reports for all of it.
package evinsight

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/evmetrics/evinsight/aggregate"
	"github.com/evmetrics/evinsight/dataset"
	"github.com/evmetrics/evinsight/forecast"
	"github.com/evmetrics/evinsight/logger"
	"github.com/evmetrics/evinsight/render"
	"github.com/evmetrics/evinsight/report"
)

// Analyzer runs the full analysis pass over one registration file.
type Analyzer struct {
	opt *Options
	log zerolog.Logger
	out io.Writer

	table      *dataset.Table
	summary    aggregate.Summary
	observed   aggregate.YearCounts
	model      forecast.GrowthModel
	projection forecast.Projection
}

// New creates a new Analyzer using the provided options. If no options are
// provided a default is used.
func New(opt *Options) *Analyzer {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Analyzer{
		opt: opt,
		log: logger.New("evinsight", opt.LogLevel, opt.LogPretty),
		out: os.Stdout,
	}
}

// Run executes the analysis. A dataset that cannot be loaded or a growth
// model that cannot be fitted aborts the run; a chart or report that cannot
// be written is logged and skipped so the remaining artifacts still land.
func (a *Analyzer) Run() error {
	if err := a.load(); err != nil {
		return err
	}
	if err := a.analyze(); err != nil {
		return err
	}
	return a.write()
}

// Table returns the cleaned registration table of the last run.
func (a *Analyzer) Table() *dataset.Table {
	return a.table
}

// Summary returns the aggregate tables of the last run.
func (a *Analyzer) Summary() aggregate.Summary {
	return a.summary
}

// Model returns the growth model fitted by the last run.
func (a *Analyzer) Model() forecast.GrowthModel {
	return a.model
}

// Projection returns the projected registrations of the last run.
func (a *Analyzer) Projection() forecast.Projection {
	return a.projection
}

func (a *Analyzer) load() error {
	table, err := dataset.Load(a.opt.Input, &dataset.LoadOptions{State: a.opt.State})
	if err != nil {
		return fmt.Errorf("unable to load dataset, %w", err)
	}
	a.table = table

	a.log.Info().
		Int("rows_read", table.Stats.RowsRead).
		Int("rows_kept", table.Stats.RowsKept).
		Int("rows_dropped", table.Stats.RowsDropped).
		Int("rows_filtered", table.Stats.RowsFiltered).
		Msg("loaded dataset")

	return table.TablePrint(a.out, a.opt.PreviewRows)
}

func (a *Analyzer) analyze() error {
	a.summary = aggregate.Compute(a.table.Records)
	a.observed = a.summary.Adoption.Through(a.opt.MaxYear)

	years, counts := a.observed.Series()
	model, err := forecast.FitGrowth(years, counts)
	if err != nil {
		return fmt.Errorf("unable to fit growth model, %w", err)
	}
	a.model = model

	lastYear := a.observed[len(a.observed)-1].Year
	a.projection = model.Project(lastYear, a.opt.Horizon)

	ev := a.log.Info().Str("model", model.Eq())
	if model.Scores != nil {
		ev = ev.
			Float64("mse", model.Scores.MSE).
			Float64("mape", model.Scores.MAPE).
			Float64("r2", model.Scores.R2)
	}
	ev.Msg("fitted growth model")

	if _, err := fmt.Fprintln(a.out); err != nil {
		return err
	}
	return a.projection.TablePrint(a.out)
}

func (a *Analyzer) write() error {
	if err := os.MkdirAll(a.opt.Output, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory, %w", err)
	}

	if a.opt.Charts {
		a.writeCharts()
	}
	if a.opt.Dashboard {
		a.writeArtifact(render.FileDashboard, func(path string) error {
			return render.Dashboard(a.summary, a.model, a.projection, path)
		})
	}
	if a.opt.Workbook {
		a.writeArtifact(report.WorkbookFile, func(path string) error {
			return report.WriteWorkbook(path, a.summary, a.model, a.projection)
		})
	}
	if a.opt.JSON {
		a.writeArtifact(report.ReportFile, func(path string) error {
			rep := report.New(a.opt.Input, a.opt.State, a.table.Stats, a.summary, a.model, a.projection)
			return rep.Write(path)
		})
	}
	return nil
}

// writeCharts draws each chart on its own so one bad chart cannot take the
// others down with it.
func (a *Analyzer) writeCharts() {
	charts := []struct {
		file string
		draw func(path string) error
	}{
		{file: render.FileAdoption, draw: func(path string) error {
			return render.AdoptionOverTime(a.summary.Adoption, path)
		}},
		{file: render.FileTopCities, draw: func(path string) error {
			return render.TopCities(a.summary.CitiesInCounties, path)
		}},
		{file: render.FileTypes, draw: func(path string) error {
			return render.TypeDistribution(a.summary.Types, path)
		}},
		{file: render.FileTopMakes, draw: func(path string) error {
			return render.TopMakes(a.summary.Makes, path)
		}},
		{file: render.FileTopModels, draw: func(path string) error {
			return render.TopModelsInMakes(a.summary.ModelsInMakes, path)
		}},
		{file: render.FileRangeByYear, draw: func(path string) error {
			return render.AverageRangeByYear(a.summary.RangeByYear, path)
		}},
		{file: render.FileModelsByRange, draw: func(path string) error {
			return render.TopModelsByRange(a.summary.ModelsByRange, path)
		}},
		{file: render.FileForecast, draw: func(path string) error {
			return render.MarketForecast(a.observed, a.projection, path)
		}},
	}

	for _, c := range charts {
		a.writeArtifact(c.file, c.draw)
	}
}

func (a *Analyzer) writeArtifact(file string, write func(path string) error) {
	path := filepath.Join(a.opt.Output, file)
	if err := write(path); err != nil {
		a.log.Warn().Err(err).Str("file", file).Msg("skipping artifact")
		return
	}
	a.log.Info().Str("file", file).Msg("saved artifact")
}
