package forecast

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// ProjectedYear is a single projected year keeping the full precision
// predicted count.
type ProjectedYear struct {
	Year  int     `json:"year"`
	Count float64 `json:"count"`
}

// Projection is the sequence of projected years ordered ascending. It is
// produced once per run and not mutated afterward.
type Projection []ProjectedYear

// Project evaluates the growth curve for the horizon years strictly after
// lastYear.
func (m GrowthModel) Project(lastYear, horizon int) Projection {
	p := make(Projection, 0, horizon)
	for year := lastYear + 1; year <= lastYear+horizon; year++ {
		p = append(p, ProjectedYear{Year: year, Count: m.Predict(year)})
	}
	return p
}

// RoundedYear is the display form of a projected year. Registrations are
// discrete so the count is rounded to the nearest whole vehicle.
type RoundedYear struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Rounded returns the projection with counts rounded for display.
func (p Projection) Rounded() []RoundedYear {
	rounded := make([]RoundedYear, 0, len(p))
	for _, py := range p {
		rounded = append(rounded, RoundedYear{Year: py.Year, Count: int(math.Round(py.Count))})
	}
	return rounded
}

// TablePrint writes the rounded projection as an aligned table.
func (p Projection) TablePrint(w io.Writer) error {
	if len(p) == 0 {
		_, err := fmt.Fprintln(w, "No projected years")
		return err
	}

	if _, err := fmt.Fprintf(w, "Forecasted EV Registrations (%d-%d):\n", p[0].Year, p[len(p)-1].Year); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, ry := range p.Rounded() {
		if _, err := fmt.Fprintf(tbl, "%d\t%d\t\n", ry.Year, ry.Count); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
