package render

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/evmetrics/evinsight/aggregate"
	"github.com/evmetrics/evinsight/forecast"
)

// Dashboard uses the Apache Echarts library to generate an html file with
// interactive versions of the adoption, vehicle type, make, range, and
// market forecast series.
func Dashboard(summary aggregate.Summary, model forecast.GrowthModel, projection forecast.Projection, path string) error {
	if len(summary.Adoption) == 0 {
		return ErrNoData
	}

	page := components.NewPage()
	page.AddCharts(
		barYearSeries("EV Adoption Over Time", summary.Adoption),
		barKeySeries("Distribution of Electric Vehicle Types", summary.Types),
		barKeySeries("Top 5 Popular EV Makes", summary.Makes),
		lineRangeSeries("Average Electric Range by Model Year", summary.RangeByYear),
		lineMarket(summary.Adoption, model, projection),
	)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create dashboard, %w", err)
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}

// barYearSeries generates an echart bar chart of registrations per year.
func barYearSeries(title string, series aggregate.YearCounts) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	years := make([]string, 0, len(series))
	barData := make([]opts.BarData, 0, len(series))
	for _, yc := range series {
		years = append(years, strconv.Itoa(yc.Year))
		barData = append(barData, opts.BarData{Value: yc.Count})
	}

	bar.SetXAxis(years).AddSeries("Registrations", barData)
	return bar
}

// barKeySeries generates an echart bar chart of counts per categorical key.
func barKeySeries(title string, items []aggregate.KeyCount) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	keys := make([]string, 0, len(items))
	barData := make([]opts.BarData, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key)
		barData = append(barData, opts.BarData{Value: item.Count})
	}

	bar.SetXAxis(keys).AddSeries("Registrations", barData)
	return bar
}

// lineRangeSeries generates an echart line chart of mean electric range per
// model year.
func lineRangeSeries(title string, means []aggregate.YearMean) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	years := make([]string, 0, len(means))
	lineData := make([]opts.LineData, 0, len(means))
	for _, ym := range means {
		years = append(years, strconv.Itoa(ym.Year))
		lineData = append(lineData, opts.LineData{Value: ym.Mean})
	}

	line.SetXAxis(years).AddSeries("Average Range", lineData)
	return line
}

// lineMarket generates an echart line chart plotting the observed
// registrations along with the projected ones.
func lineMarket(actual aggregate.YearCounts, model forecast.GrowthModel, projection forecast.Projection) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    "Current & Estimated EV Market",
				Subtitle: model.Eq(),
			},
		),
	)

	years := make([]string, 0, len(actual)+len(projection))
	lineDataActual := make([]opts.LineData, 0, len(actual))
	lineDataForecast := make([]opts.LineData, 0, len(actual)+len(projection))

	for _, yc := range actual {
		years = append(years, strconv.Itoa(yc.Year))
		lineDataActual = append(lineDataActual, opts.LineData{Value: yc.Count})
		// placeholder keeps the projected series aligned with the axis
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: "-"})
	}
	for _, py := range projection {
		years = append(years, strconv.Itoa(py.Year))
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: py.Count})
	}

	line.SetXAxis(years).
		AddSeries("Actual Registrations", lineDataActual).
		AddSeries("Forecasted Registrations", lineDataForecast)
	return line
}
