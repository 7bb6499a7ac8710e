// Package render draws the analysis charts: eight deterministic PNG files
// via gonum/plot and an optional self-contained HTML dashboard. Every chart
// function is independent so one failed chart never blocks the others.
package render

import (
	"errors"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart file names, fixed so downstream consumers can rely on them.
const (
	FileAdoption      = "adoption-over-time.png"
	FileTopCities     = "top-cities.png"
	FileTypes         = "type-distribution.png"
	FileTopMakes      = "top-makes.png"
	FileTopModels     = "top-models-in-top-makes.png"
	FileRangeByYear   = "average-range-by-year.png"
	FileModelsByRange = "top-models-by-range.png"
	FileForecast      = "market-forecast.png"
	FileDashboard     = "dashboard.html"
)

// ErrNoData indicates a chart had no rows to draw.
var ErrNoData = errors.New("no rows to chart")

// maxLabelRunes is where category labels get cut so bar charts stay legible.
const maxLabelRunes = 12

// groupPalette colors ranked groups, sampled from the viridis ramp.
var groupPalette = []color.RGBA{
	{R: 68, G: 1, B: 84, A: 255},
	{R: 59, G: 82, B: 139, A: 255},
	{R: 33, G: 145, B: 140, A: 255},
	{R: 94, G: 201, B: 98, A: 255},
	{R: 253, G: 231, B: 37, A: 255},
}

var (
	barColor      = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	rangeColor    = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	actualColor   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	forecastColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

func groupColor(i int) color.RGBA {
	return groupPalette[i%len(groupPalette)]
}

// truncateLabel cuts category labels past maxLabelRunes with an ellipsis
// suffix so one long city or model name cannot blow up the axis.
func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelRunes {
		return s
	}
	return string(runes[:maxLabelRunes]) + "..."
}

// newPlot starts a chart with the shared title and axis styling.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// barCanvas sizes a horizontal bar chart so every row and the longest
// category label stay visible.
func barCanvas(rows, longestLabel int) (vg.Length, vg.Length) {
	w := 8 * vg.Inch
	if longestLabel > 8 {
		w += vg.Length(longestLabel-8) * vg.Inch / 10
	}
	h := 4 * vg.Inch
	if rows > 6 {
		h += vg.Length(rows-6) * vg.Inch * 2 / 5
	}
	return w, h
}

// longestLabel reports the longest rune length among the labels.
func longestLabel(labels []string) int {
	longest := 0
	for _, l := range labels {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	return longest
}

// yearTicks pins the horizontal axis to the exact observed years so no
// fractional year labels appear.
func yearTicks(years []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, 0, len(years))
	for _, year := range years {
		ticks = append(ticks, plot.Tick{Value: float64(year), Label: strconv.Itoa(year)})
	}
	return plot.ConstantTicks(ticks)
}

// rotateYearLabels angles crowded year labels the way the adoption chart has
// always shown them.
func rotateYearLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
