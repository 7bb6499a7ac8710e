// Package dataset loads and cleans the electric vehicle registration table
// feeding every aggregate and the growth forecast.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/evmetrics/evinsight/stats"
)

// Header names of the input file. The loader resolves columns by name so the
// file may carry extra columns in any order.
const (
	ColState         = "State"
	ColModelYear     = "Model Year"
	ColMake          = "Make"
	ColModel         = "Model"
	ColCounty        = "County"
	ColCity          = "City"
	ColVehicleType   = "Electric Vehicle Type"
	ColElectricRange = "Electric Range"
)

// RequiredColumns lists the header names the input file must carry, in
// display order.
var RequiredColumns = []string{
	ColState,
	ColModelYear,
	ColMake,
	ColModel,
	ColCounty,
	ColCity,
	ColVehicleType,
	ColElectricRange,
}

var (
	ErrMissingColumn = errors.New("required column is missing")
	ErrEmptyFile     = errors.New("file has no header row")
	ErrNoRows        = errors.New("no usable rows after cleaning")
)

// DefaultState keeps only Washington registrations unless overridden.
const DefaultState = "WA"

// Tukey fence parameters for the observational range outlier count.
const (
	outlierLowerPerc   = 0.1
	outlierUpperPerc   = 0.9
	outlierTukeyFactor = 1.0
)

// Record is one cleaned vehicle registration. ElectricRange is NaN when the
// range is unknown so range aggregates can skip it instead of treating it as
// zero.
type Record struct {
	State         string
	ModelYear     int
	Make          string
	Model         string
	County        string
	City          string
	VehicleType   string
	ElectricRange float64
}

// HasRange reports whether the electric range is known for this record.
func (r Record) HasRange() bool {
	return !math.IsNaN(r.ElectricRange)
}

// Stats accounts for what the cleaning pass read, kept, and threw away.
type Stats struct {
	RowsRead      int            `json:"rows_read"`
	RowsKept      int            `json:"rows_kept"`
	RowsDropped   int            `json:"rows_dropped"`
	RowsFiltered  int            `json:"rows_filtered"`
	Missing       map[string]int `json:"missing"`
	Distinct      map[string]int `json:"distinct"`
	RangeOutliers int            `json:"range_outliers"`
}

// Table is the cleaned in-memory registration table.
type Table struct {
	Records []Record
	Stats   Stats
}

// LoadOptions control the cleaning pass.
type LoadOptions struct {
	// State drops registrations outside this state. Empty keeps every state.
	State string
}

// NewDefaultLoadOptions returns the default cleaning options.
func NewDefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		State: DefaultState,
	}
}

// Load reads the registration CSV at path and returns the cleaned table. If
// no options are provided a default is used. Rows missing a key field are
// dropped and counted; a missing or unparsable electric range keeps the row
// with the range marked unknown.
func Load(path string, opt *LoadOptions) (*Table, error) {
	if opt == nil {
		opt = NewDefaultLoadOptions()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset, %w", err)
	}
	defer file.Close()

	t, err := read(file, opt)
	if err != nil {
		return nil, fmt.Errorf("%s, %w", path, err)
	}
	return t, nil
}

func read(r io.Reader, opt *LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range RequiredColumns {
		if _, exists := idx[col]; !exists {
			return nil, fmt.Errorf("%s, %w", col, ErrMissingColumn)
		}
	}

	t := &Table{
		Stats: Stats{
			Missing:  make(map[string]int),
			Distinct: make(map[string]int),
		},
	}
	distinctCols := []string{ColState, ColModelYear, ColMake, ColModel, ColCounty, ColCity, ColVehicleType}
	distinct := make(map[string]map[string]struct{}, len(distinctCols))
	for _, col := range distinctCols {
		distinct[col] = make(map[string]struct{})
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				// short rows are missing fields, treat like any other dirty row
				t.Stats.RowsRead++
				t.Stats.RowsDropped++
				continue
			}
			return nil, fmt.Errorf("unable to read row %d, %w", t.Stats.RowsRead+1, err)
		}
		t.Stats.RowsRead++

		cell := func(col string) string {
			return strings.TrimSpace(row[idx[col]])
		}

		rec := Record{
			State:       cell(ColState),
			Make:        cell(ColMake),
			Model:       cell(ColModel),
			County:      cell(ColCounty),
			City:        cell(ColCity),
			VehicleType: cell(ColVehicleType),
		}

		drop := false
		for _, col := range []string{ColMake, ColModel, ColCounty, ColCity, ColVehicleType} {
			if cell(col) == "" {
				t.Stats.Missing[col]++
				drop = true
			}
		}
		if rec.State == "" {
			t.Stats.Missing[ColState]++
		}

		year, err := strconv.Atoi(cell(ColModelYear))
		if err != nil || year <= 0 {
			t.Stats.Missing[ColModelYear]++
			drop = true
		} else {
			rec.ModelYear = year
		}

		rng, known := parseRange(cell(ColElectricRange))
		if !known {
			t.Stats.Missing[ColElectricRange]++
		}
		rec.ElectricRange = rng

		if drop {
			t.Stats.RowsDropped++
			continue
		}
		if opt.State != "" && rec.State != opt.State {
			t.Stats.RowsFiltered++
			continue
		}

		t.Records = append(t.Records, rec)
		distinct[ColState][rec.State] = struct{}{}
		distinct[ColMake][rec.Make] = struct{}{}
		distinct[ColModel][rec.Model] = struct{}{}
		distinct[ColCounty][rec.County] = struct{}{}
		distinct[ColCity][rec.City] = struct{}{}
		distinct[ColVehicleType][rec.VehicleType] = struct{}{}
		distinct[ColModelYear][strconv.Itoa(rec.ModelYear)] = struct{}{}
	}

	if len(t.Records) == 0 {
		return nil, ErrNoRows
	}

	t.Stats.RowsKept = len(t.Records)
	for col, vals := range distinct {
		t.Stats.Distinct[col] = len(vals)
	}

	ranges := make([]float64, 0, len(t.Records))
	for _, rec := range t.Records {
		ranges = append(ranges, rec.ElectricRange)
	}
	t.Stats.RangeOutliers = len(stats.DetectOutliers(ranges, outlierLowerPerc, outlierUpperPerc, outlierTukeyFactor))

	return t, nil
}

// parseRange interprets the electric range cell. Empty, unparsable, or
// negative values are unknown rather than zero so they cannot skew range
// averages.
func parseRange(s string) (float64, bool) {
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return math.NaN(), false
	}
	return v, true
}
