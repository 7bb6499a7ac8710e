// Package stats carries the small numeric helpers shared by the cleaning
// summary and the aggregation tables.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MeanIgnoringNaN computes the mean of vals skipping NaN entries and returns
// the number of values that contributed. A slice with no usable values
// returns (NaN, 0) so callers can drop the group instead of reporting zero.
func MeanIgnoringNaN(vals []float64) (float64, int) {
	var sum float64
	var n int
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), 0
	}
	return sum / float64(n), n
}

// DetectOutliers returns the indexes of values falling outside a Tukey fence
// drawn around the lower and upper empirical quantiles. NaN values are never
// flagged and do not contribute to the quantiles.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	known := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		known = append(known, v)
	}
	if len(known) == 0 {
		return nil
	}
	sort.Float64s(known)

	lower := stat.Quantile(lowerPerc, stat.Empirical, known, nil)
	upper := stat.Quantile(upperPerc, stat.Empirical, known, nil)
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
