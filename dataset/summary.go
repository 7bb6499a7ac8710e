package dataset

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// columnTypes maps each column to the Go type it is parsed into.
var columnTypes = map[string]string{
	ColState:         "string",
	ColModelYear:     "int",
	ColMake:          "string",
	ColModel:         "string",
	ColCounty:        "string",
	ColCity:          "string",
	ColVehicleType:   "string",
	ColElectricRange: "float64",
}

// DefaultPreviewRows is the number of records shown by the dataset preview.
const DefaultPreviewRows = 5

// TablePrint writes the dataset preview, column summary, and missing value
// counts. The output is observational and not part of the data contract.
func (t *Table) TablePrint(w io.Writer, previewRows int) error {
	if err := t.Preview(w, previewRows); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := t.Info(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return t.MissingValues(w)
}

// Preview writes the first n cleaned records as an aligned table.
func (t *Table) Preview(w io.Writer, n int) error {
	if n < 1 {
		n = DefaultPreviewRows
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}

	if _, err := fmt.Fprintln(w, "Dataset Preview:"); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, col := range RequiredColumns {
		if _, err := fmt.Fprintf(tbl, "%s\t", col); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(tbl); err != nil {
		return err
	}
	for _, rec := range t.Records[:n] {
		for _, col := range RequiredColumns {
			if _, err := fmt.Fprintf(tbl, "%s\t", rec.field(col)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tbl); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// Info writes the column types, distinct value counts, and row accounting.
func (t *Table) Info(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Dataset Info:"); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, col := range RequiredColumns {
		if _, err := fmt.Fprintf(tbl, "%s\t%s\t", col, columnTypes[col]); err != nil {
			return err
		}
		if n, exists := t.Stats.Distinct[col]; exists {
			if _, err := fmt.Fprintf(tbl, "%d distinct", n); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tbl); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d columns, %d rows read, %d kept, %d dropped, %d filtered by state, %d range outliers\n",
		len(RequiredColumns),
		t.Stats.RowsRead,
		t.Stats.RowsKept,
		t.Stats.RowsDropped,
		t.Stats.RowsFiltered,
		t.Stats.RangeOutliers,
	)
	return err
}

// MissingValues writes the per-column missing cell counts seen before
// cleaning.
func (t *Table) MissingValues(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Missing Values:"); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, col := range RequiredColumns {
		if _, err := fmt.Fprintf(tbl, "%s\t%d\t\n", col, t.Stats.Missing[col]); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// field renders one column of the record for the preview.
func (r Record) field(col string) string {
	switch col {
	case ColState:
		return r.State
	case ColModelYear:
		return strconv.Itoa(r.ModelYear)
	case ColMake:
		return r.Make
	case ColModel:
		return r.Model
	case ColCounty:
		return r.County
	case ColCity:
		return r.City
	case ColVehicleType:
		return r.VehicleType
	case ColElectricRange:
		if !r.HasRange() {
			return ""
		}
		return strconv.FormatFloat(r.ElectricRange, 'f', -1, 64)
	}
	return ""
}
