package evinsight

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmetrics/evinsight/dataset"
	"github.com/evmetrics/evinsight/forecast"
	"github.com/evmetrics/evinsight/render"
	"github.com/evmetrics/evinsight/report"
)

var chartFiles = []string{
	render.FileAdoption,
	render.FileTopCities,
	render.FileTypes,
	render.FileTopMakes,
	render.FileTopModels,
	render.FileRangeByYear,
	render.FileModelsByRange,
	render.FileForecast,
}

// writeRegistrations generates a registration CSV with the given number of
// rows per model year, cycling through a fixed set of vehicles and places.
func writeRegistrations(t *testing.T, path string, counts map[int]int, rangeKnown bool) {
	t.Helper()

	vehicles := []struct {
		mk    string
		model string
		rng   int
	}{
		{mk: "TESLA", model: "MODEL 3", rng: 215},
		{mk: "TESLA", model: "MODEL Y", rng: 291},
		{mk: "NISSAN", model: "LEAF", rng: 150},
		{mk: "CHEVROLET", model: "BOLT EV", rng: 259},
		{mk: "KIA", model: "NIRO", rng: 239},
	}
	places := []struct {
		county string
		city   string
	}{
		{county: "King", city: "Seattle"},
		{county: "King", city: "Bellevue"},
		{county: "Snohomish", city: "Everett"},
		{county: "Pierce", city: "Tacoma"},
		{county: "Clark", city: "Vancouver"},
	}

	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Ints(years)

	var sb strings.Builder
	sb.WriteString("State,Model Year,Make,Model,County,City,Electric Vehicle Type,Electric Range\n")
	i := 0
	for _, year := range years {
		for n := 0; n < counts[year]; n++ {
			v := vehicles[i%len(vehicles)]
			p := places[i%len(places)]
			rng := strconv.Itoa(v.rng)
			if !rangeKnown {
				rng = ""
			}
			typ := "Battery Electric Vehicle (BEV)"
			if i%4 == 3 {
				typ = "Plug-in Hybrid Electric Vehicle (PHEV)"
			}
			fmt.Fprintf(&sb, "WA,%d,%s,%s,%s,%s,%s,%s\n", year, v.mk, v.model, p.county, p.city, typ, rng)
			i++
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
}

func testAnalyzer(t *testing.T, counts map[int]int, rangeKnown bool, mutate func(opt *Options)) (*Analyzer, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "ev_data.csv")
	writeRegistrations(t, input, counts, rangeKnown)

	opt := NewDefaultOptions()
	opt.Input = input
	opt.Output = filepath.Join(dir, "output")
	opt.LogLevel = "error"
	if mutate != nil {
		mutate(opt)
	}

	a := New(opt)
	var buf bytes.Buffer
	a.out = &buf
	return a, &buf
}

func TestAnalyzerRun(t *testing.T) {
	counts := map[int]int{2018: 20, 2019: 30, 2020: 45}
	a, out := testAnalyzer(t, counts, true, func(opt *Options) {
		opt.Dashboard = true
		opt.Workbook = true
		opt.JSON = true
	})
	require.NoError(t, a.Run())

	for _, file := range chartFiles {
		info, err := os.Stat(filepath.Join(a.opt.Output, file))
		require.NoError(t, err, file)
		assert.Greater(t, info.Size(), int64(0), file)
	}
	for _, file := range []string{render.FileDashboard, report.WorkbookFile, report.ReportFile} {
		_, err := os.Stat(filepath.Join(a.opt.Output, file))
		require.NoError(t, err, file)
	}

	model := a.Model()
	assert.Equal(t, 2018, model.BaseYear)
	assert.InDelta(t, 20.0, model.Initial, 1e-6)
	assert.InDelta(t, math.Log(1.5), model.Rate, 1e-9)
	assert.InDelta(t, 67.5, model.Predict(2021), 1e-6)

	projection := a.Projection()
	require.Len(t, projection, 6)
	assert.Equal(t, 2021, projection[0].Year)
	assert.Equal(t, 2026, projection[5].Year)

	console := out.String()
	assert.Contains(t, console, "Dataset Preview:")
	assert.Contains(t, console, "Dataset Info:")
	assert.Contains(t, console, "Missing Values:")
	assert.Contains(t, console, "Forecasted EV Registrations (2021-2026):")

	summary := a.Summary()
	assert.Len(t, summary.Adoption, 3)
	assert.Equal(t, 95, a.Table().Stats.RowsKept)
}

func TestAnalyzerRunMissingInput(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Input = filepath.Join(t.TempDir(), "nope.csv")
	opt.LogLevel = "error"

	a := New(opt)
	a.out = &bytes.Buffer{}
	require.Error(t, a.Run())
}

func TestAnalyzerRunMissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ev_data.csv")
	data := "State,Model Year,Make,Model,County,City,Electric Vehicle Type\n" +
		"WA,2018,TESLA,MODEL 3,King,Seattle,Battery Electric Vehicle (BEV)\n"
	require.NoError(t, os.WriteFile(input, []byte(data), 0o644))

	opt := NewDefaultOptions()
	opt.Input = input
	opt.Output = filepath.Join(dir, "output")
	opt.LogLevel = "error"

	a := New(opt)
	a.out = &bytes.Buffer{}
	err := a.Run()
	require.ErrorIs(t, err, dataset.ErrMissingColumn)

	// nothing is written when the load fails
	_, statErr := os.Stat(opt.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAnalyzerRunInsufficientYears(t *testing.T) {
	a, _ := testAnalyzer(t, map[int]int{2020: 25}, true, nil)
	err := a.Run()
	require.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestAnalyzerRunSkipsChartsWithoutRanges(t *testing.T) {
	counts := map[int]int{2018: 20, 2019: 30, 2020: 45}
	a, _ := testAnalyzer(t, counts, false, nil)
	require.NoError(t, a.Run())

	skipped := map[string]bool{
		render.FileRangeByYear:   true,
		render.FileModelsByRange: true,
	}
	for _, file := range chartFiles {
		_, err := os.Stat(filepath.Join(a.opt.Output, file))
		if skipped[file] {
			assert.True(t, os.IsNotExist(err), file)
			continue
		}
		require.NoError(t, err, file)
	}
}

func TestAnalyzerRunMaxYearCap(t *testing.T) {
	counts := map[int]int{2018: 20, 2019: 30, 2020: 45, 2021: 1000}
	a, out := testAnalyzer(t, counts, true, func(opt *Options) {
		opt.MaxYear = 2020
		opt.Horizon = 3
	})
	require.NoError(t, a.Run())

	model := a.Model()
	assert.InDelta(t, math.Log(1.5), model.Rate, 1e-9)

	projection := a.Projection()
	require.Len(t, projection, 3)
	assert.Equal(t, 2021, projection[0].Year)
	assert.Contains(t, out.String(), "Forecasted EV Registrations (2021-2023):")

	// the adoption chart still covers every observed year
	assert.Len(t, a.Summary().Adoption, 4)
}

func TestAnalyzerRunStateFilterKeepsNothing(t *testing.T) {
	a, _ := testAnalyzer(t, map[int]int{2018: 5, 2019: 8}, true, func(opt *Options) {
		opt.State = "OR"
	})
	err := a.Run()
	require.ErrorIs(t, err, dataset.ErrNoRows)
}

func TestNewDefaultsWhenNil(t *testing.T) {
	a := New(nil)
	require.NotNil(t, a)
	assert.Nil(t, a.Table())
	assert.Empty(t, a.Projection())
}
