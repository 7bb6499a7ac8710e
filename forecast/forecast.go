// Package forecast fits an exponential growth model to yearly registration
// totals and projects the totals forward.
package forecast

import (
	"errors"
	"fmt"
	"math"

	mat_ "github.com/evmetrics/evinsight/mat"
	"github.com/evmetrics/evinsight/regression"
)

var (
	ErrInsufficientData  = errors.New("insufficient data, need at least 2 distinct years with nonzero counts")
	ErrSeriesLenMismatch = errors.New("years have a different length than counts")
)

// DefaultHorizon is the number of years projected forward when no horizon is
// configured.
const DefaultHorizon = 6

// GrowthModel represents a fit exponential growth curve of the form
// y = Initial*e^(Rate*(year-BaseYear)). Rate is a per-year fractional growth
// rate.
type GrowthModel struct {
	BaseYear int     `json:"base_year"`
	Initial  float64 `json:"initial"`
	Rate     float64 `json:"rate"`
	Scores   *Scores `json:"scores,omitempty"`
}

// FitGrowth fits an exponential growth model to yearly totals with a least
// squares regression of ln(count) against the year offset from the first
// usable year. Years with a zero or negative count cannot be log-transformed
// and are excluded from the fit. Fewer than 2 distinct usable years leaves the
// fit underdetermined and returns ErrInsufficientData.
func FitGrowth(years []int, counts []float64) (GrowthModel, error) {
	if len(years) != len(counts) {
		return GrowthModel{}, fmt.Errorf(
			"years has length of %d, but counts has a length of %d, %w",
			len(years), len(counts), ErrSeriesLenMismatch,
		)
	}

	usableYears := make([]int, 0, len(years))
	usableCounts := make([]float64, 0, len(counts))
	distinct := make(map[int]struct{})
	for i, year := range years {
		if math.IsNaN(counts[i]) || counts[i] <= 0 {
			continue
		}
		usableYears = append(usableYears, year)
		usableCounts = append(usableCounts, counts[i])
		distinct[year] = struct{}{}
	}
	if len(distinct) < 2 {
		return GrowthModel{}, fmt.Errorf("got %d usable years, %w", len(distinct), ErrInsufficientData)
	}

	base := usableYears[0]
	x := make([][]float64, len(usableYears))
	logCounts := make([]float64, len(usableCounts))
	for i, year := range usableYears {
		x[i] = []float64{float64(year - base)}
		logCounts[i] = math.Log(usableCounts[i])
	}

	design, err := mat_.NewDenseFromArray(x)
	if err != nil {
		return GrowthModel{}, fmt.Errorf("unable to build design matrix, %w", err)
	}
	target := mat_.NewDenseFromVector(logCounts)

	ols := regression.NewOLS()
	if err := ols.Fit(design, target); err != nil {
		return GrowthModel{}, fmt.Errorf("unable to fit log-linear model, %w", err)
	}

	m := GrowthModel{
		BaseYear: base,
		Initial:  math.Exp(ols.Intercept()),
		Rate:     ols.Coef()[0],
	}

	predicted := make([]float64, len(usableYears))
	for i, year := range usableYears {
		predicted[i] = m.Predict(year)
	}
	scores, err := NewScores(predicted, usableCounts)
	if err != nil {
		return GrowthModel{}, fmt.Errorf("unable to score fit, %w", err)
	}
	m.Scores = scores

	return m, nil
}

// Predict evaluates the growth curve at the given year retaining full float
// precision.
func (m GrowthModel) Predict(year int) float64 {
	return m.Initial * math.Exp(m.Rate*float64(year-m.BaseYear))
}

// Eq returns a string representation of the fit growth curve in the format of
// y ~ a*e^(r*(year-base))
func (m GrowthModel) Eq() string {
	return fmt.Sprintf("y ~ %.2f*e^(%.4f*(year-%d))", m.Initial, m.Rate, m.BaseYear)
}
