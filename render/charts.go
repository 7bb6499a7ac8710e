package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/evmetrics/evinsight/aggregate"
	"github.com/evmetrics/evinsight/forecast"
)

// AdoptionOverTime draws registrations per model year as vertical bars.
func AdoptionOverTime(series aggregate.YearCounts, path string) error {
	if len(series) == 0 {
		return ErrNoData
	}

	p := newPlot("EV Adoption Over Time", "Model Year", "Number of Vehicles")

	values := make(plotter.Values, len(series))
	labels := make([]string, len(series))
	for i, yc := range series {
		values[i] = float64(yc.Count)
		labels[i] = fmt.Sprintf("%d", yc.Year)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("unable to draw bars, %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	rotateYearLabels(p)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("unable to save chart, %w", err)
	}
	return nil
}

// TopCities draws city registration counts as horizontal bars colored by
// county, one legend entry per county.
func TopCities(groups []aggregate.GroupCounts, path string) error {
	names := make([]string, 0, len(groups))
	var rows []barRow
	for gi, g := range groups {
		names = append(names, g.Group)
		for _, item := range g.Items {
			rows = append(rows, barRow{label: item.Key, value: float64(item.Count), group: gi})
		}
	}
	return groupedBarChart(
		"Top Cities in Top Counties by EV Registrations",
		"Number of Vehicles",
		"City",
		names, rows, path,
	)
}

// TypeDistribution draws registrations per vehicle type as horizontal bars.
func TypeDistribution(types []aggregate.KeyCount, path string) error {
	return countBarChart(
		"Distribution of Electric Vehicle Types",
		"Number of Vehicles",
		"Electric Vehicle Type",
		types, path,
	)
}

// TopMakes draws the most registered makes as horizontal bars.
func TopMakes(makes []aggregate.KeyCount, path string) error {
	return countBarChart(
		"Top 5 Popular EV Makes",
		"Number of Vehicles",
		"Make",
		makes, path,
	)
}

// TopModelsInMakes draws model registration counts as horizontal bars
// colored by make, one legend entry per make.
func TopModelsInMakes(groups []aggregate.GroupCounts, path string) error {
	names := make([]string, 0, len(groups))
	var rows []barRow
	for gi, g := range groups {
		names = append(names, g.Group)
		for _, item := range g.Items {
			rows = append(rows, barRow{label: item.Key, value: float64(item.Count), group: gi})
		}
	}
	return groupedBarChart(
		"Top Models in Top 3 Makes by EV Registrations",
		"Number of Vehicles",
		"Model",
		names, rows, path,
	)
}

// AverageRangeByYear draws the mean known electric range per model year as a
// marked line.
func AverageRangeByYear(means []aggregate.YearMean, path string) error {
	if len(means) == 0 {
		return ErrNoData
	}

	p := newPlot("Average Electric Range by Model Year", "Model Year", "Average Electric Range (miles)")

	xys := make(plotter.XYs, len(means))
	years := make([]int, len(means))
	for i, ym := range means {
		xys[i] = plotter.XY{X: float64(ym.Year), Y: ym.Mean}
		years[i] = ym.Year
	}

	line, scatter, err := markedLine(xys, rangeColor)
	if err != nil {
		return err
	}
	p.Add(line, scatter)
	p.X.Tick.Marker = yearTicks(years)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("unable to save chart, %w", err)
	}
	return nil
}

// TopModelsByRange draws mean electric range per model as horizontal bars
// colored by make, one legend entry per make.
func TopModelsByRange(groups []aggregate.GroupMeans, path string) error {
	names := make([]string, 0, len(groups))
	var rows []barRow
	for gi, g := range groups {
		names = append(names, g.Group)
		for _, item := range g.Items {
			rows = append(rows, barRow{label: item.Key, value: item.Mean, group: gi})
		}
	}
	return groupedBarChart(
		"Top 5 Models by Average Range in Top Makes",
		"Average Electric Range (miles)",
		"Model",
		names, rows, path,
	)
}

// MarketForecast draws observed registrations as a solid marked line and the
// projection as a dashed one.
func MarketForecast(actual aggregate.YearCounts, projection forecast.Projection, path string) error {
	if len(actual) == 0 {
		return ErrNoData
	}

	p := newPlot("Current & Estimated EV Market", "Year", "Number of EV Registrations")

	years := make([]int, 0, len(actual)+len(projection))

	actualXYs := make(plotter.XYs, len(actual))
	for i, yc := range actual {
		actualXYs[i] = plotter.XY{X: float64(yc.Year), Y: float64(yc.Count)}
		years = append(years, yc.Year)
	}
	actualLine, actualPoints, err := markedLine(actualXYs, actualColor)
	if err != nil {
		return err
	}
	p.Add(actualLine, actualPoints)
	p.Legend.Add("Actual Registrations", actualLine, actualPoints)

	if len(projection) > 0 {
		forecastXYs := make(plotter.XYs, len(projection))
		for i, py := range projection {
			forecastXYs[i] = plotter.XY{X: float64(py.Year), Y: py.Count}
			years = append(years, py.Year)
		}
		forecastLine, forecastPoints, err := markedLine(forecastXYs, forecastColor)
		if err != nil {
			return err
		}
		forecastLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(forecastLine, forecastPoints)
		p.Legend.Add("Forecasted Registrations", forecastLine, forecastPoints)
	}

	p.X.Tick.Marker = yearTicks(years)
	rotateYearLabels(p)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("unable to save chart, %w", err)
	}
	return nil
}

// barRow is one horizontal bar: its category label, its length, and the
// group whose color it takes.
type barRow struct {
	label string
	value float64
	group int
}

// groupedBarChart draws rows as horizontal bars where each group gets its
// own color and legend entry. Rows keep their given order top to bottom.
func groupedBarChart(title, xLabel, yLabel string, groupNames []string, rows []barRow, path string) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	p := newPlot(title, xLabel, yLabel)

	// rows are ranked top-down, nominal Y runs bottom-up
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[len(rows)-1-i] = truncateLabel(row.label)
	}

	for gi, name := range groupNames {
		values := make(plotter.Values, len(rows))
		used := false
		for i, row := range rows {
			if row.group != gi {
				continue
			}
			values[len(rows)-1-i] = row.value
			used = true
		}
		if !used {
			continue
		}

		bars, err := plotter.NewBarChart(values, vg.Points(16))
		if err != nil {
			return fmt.Errorf("unable to draw bars, %w", err)
		}
		bars.Horizontal = true
		bars.Color = groupColor(gi)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(name, bars)
	}

	p.NominalY(labels...)
	p.Legend.Top = true

	w, h := barCanvas(len(rows), longestLabel(labels))
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("unable to save chart, %w", err)
	}
	return nil
}

// countBarChart draws one horizontal bar per key without grouping.
func countBarChart(title, xLabel, yLabel string, items []aggregate.KeyCount, path string) error {
	if len(items) == 0 {
		return ErrNoData
	}

	p := newPlot(title, xLabel, yLabel)

	values := make(plotter.Values, len(items))
	labels := make([]string, len(items))
	for i, item := range items {
		values[len(items)-1-i] = float64(item.Count)
		labels[len(items)-1-i] = truncateLabel(item.Key)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("unable to draw bars, %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalY(labels...)

	w, h := barCanvas(len(items), longestLabel(labels))
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("unable to save chart, %w", err)
	}
	return nil
}

// markedLine builds a line with point markers in the given color.
func markedLine(xys plotter.XYs, c color.Color) (*plotter.Line, *plotter.Scatter, error) {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to draw line, %w", err)
	}
	line.Color = c
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to draw points, %w", err)
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(3)

	return line, scatter, nil
}
