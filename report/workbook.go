// Package report exports the analysis results as files other tools can
// consume: a multi-sheet xlsx workbook and a machine-readable JSON run
// report.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/evmetrics/evinsight/aggregate"
	"github.com/evmetrics/evinsight/forecast"
)

// Export file names, fixed so downstream consumers can rely on them.
const (
	WorkbookFile = "evinsight.xlsx"
	ReportFile   = "report.json"
)

// Workbook sheet names.
const (
	SheetAdoption = "Adoption"
	SheetCities   = "Top Cities"
	SheetTypes    = "Vehicle Types"
	SheetMakes    = "Top Makes"
	SheetModels   = "Top Models"
	SheetRanges   = "Electric Range"
	SheetForecast = "Forecast"
)

// WriteWorkbook saves every aggregate table, the fitted growth model, and
// the projection as one xlsx workbook.
func WriteWorkbook(path string, summary aggregate.Summary, model forecast.GrowthModel, projection forecast.Projection) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows [][]any
	}{
		{name: SheetAdoption, rows: adoptionRows(summary.Adoption)},
		{name: SheetCities, rows: cityRows(summary.CitiesInCounties)},
		{name: SheetTypes, rows: keyCountRows("Electric Vehicle Type", summary.Types)},
		{name: SheetMakes, rows: keyCountRows("Make", summary.Makes)},
		{name: SheetModels, rows: modelRows(summary.ModelsInMakes)},
		{name: SheetRanges, rows: rangeRows(summary.RangeByYear, summary.ModelsByRange)},
		{name: SheetForecast, rows: forecastRows(model, projection)},
	}

	if err := f.SetSheetName("Sheet1", sheets[0].name); err != nil {
		return fmt.Errorf("unable to rename sheet, %w", err)
	}
	for i, sheet := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("unable to create sheet %s, %w", sheet.name, err)
			}
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("unable to save workbook, %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for ri, row := range rows {
		for ci, val := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return fmt.Errorf("unable to map cell, %w", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("unable to set cell %s!%s, %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func adoptionRows(series aggregate.YearCounts) [][]any {
	rows := [][]any{{"Year", "Registrations"}}
	for _, yc := range series {
		rows = append(rows, []any{yc.Year, yc.Count})
	}
	return rows
}

func cityRows(groups []aggregate.GroupCounts) [][]any {
	rows := [][]any{{"County", "City", "Registrations"}}
	for _, g := range groups {
		for _, item := range g.Items {
			rows = append(rows, []any{g.Group, item.Key, item.Count})
		}
	}
	return rows
}

func keyCountRows(label string, items []aggregate.KeyCount) [][]any {
	rows := [][]any{{label, "Registrations"}}
	for _, item := range items {
		rows = append(rows, []any{item.Key, item.Count})
	}
	return rows
}

func modelRows(groups []aggregate.GroupCounts) [][]any {
	rows := [][]any{{"Make", "Model", "Registrations"}}
	for _, g := range groups {
		for _, item := range g.Items {
			rows = append(rows, []any{g.Group, item.Key, item.Count})
		}
	}
	return rows
}

// rangeRows stacks the per-year table and the per-model table on one sheet,
// separated by a blank row.
func rangeRows(byYear []aggregate.YearMean, byModel []aggregate.GroupMeans) [][]any {
	rows := [][]any{{"Model Year", "Average Range (miles)", "Known Values"}}
	for _, ym := range byYear {
		rows = append(rows, []any{ym.Year, ym.Mean, ym.Known})
	}

	rows = append(rows, []any{})
	rows = append(rows, []any{"Make", "Model", "Average Range (miles)", "Known Values"})
	for _, g := range byModel {
		for _, item := range g.Items {
			rows = append(rows, []any{g.Group, item.Key, item.Mean, item.Known})
		}
	}
	return rows
}

// forecastRows writes the model parameters, then the projected years at full
// precision with their display rounding.
func forecastRows(model forecast.GrowthModel, projection forecast.Projection) [][]any {
	rows := [][]any{
		{"Model", model.Eq()},
		{"Base Year", model.BaseYear},
		{"Initial", model.Initial},
		{"Growth Rate", model.Rate},
	}
	if model.Scores != nil {
		rows = append(rows,
			[]any{"MSE", model.Scores.MSE},
			[]any{"MAPE", model.Scores.MAPE},
			[]any{"R2", model.Scores.R2},
		)
	}

	rows = append(rows, []any{})
	rows = append(rows, []any{"Year", "Forecasted Registrations", "Rounded"})
	rounded := projection.Rounded()
	for i, py := range projection {
		rows = append(rows, []any{py.Year, py.Count, rounded[i].Count})
	}
	return rows
}
