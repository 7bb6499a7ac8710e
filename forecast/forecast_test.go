package forecast

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateGrowthSeries evaluates a known growth curve over consecutive years
// starting at base.
func generateGrowthSeries(base int, initial, rate float64, n int) ([]int, []float64) {
	years := make([]int, 0, n)
	counts := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		years = append(years, base+i)
		counts = append(counts, initial*math.Exp(rate*float64(i)))
	}
	return years, counts
}

func TestFitGrowthRecoversParams(t *testing.T) {
	tol := 1e-6
	testData := map[string]struct {
		base    int
		initial float64
		rate    float64
		n       int
	}{
		"steady adoption": {
			base:    2012,
			initial: 120.0,
			rate:    0.35,
			n:       10,
		},
		"rapid adoption": {
			base:    2017,
			initial: 45.0,
			rate:    0.9,
			n:       5,
		},
		"declining market": {
			base:    2015,
			initial: 900.0,
			rate:    -0.2,
			n:       8,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			years, counts := generateGrowthSeries(td.base, td.initial, td.rate, td.n)

			m, err := FitGrowth(years, counts)
			require.Nil(t, err)

			assert.Equal(t, td.base, m.BaseYear)
			assert.InDelta(t, td.initial, m.Initial, tol)
			assert.InDelta(t, td.rate, m.Rate, tol)

			require.NotNil(t, m.Scores)
			assert.Less(t, m.Scores.MSE, tol)
			assert.Less(t, m.Scores.MAPE, tol)
			assert.InDelta(t, 1.0, m.Scores.R2, tol)
		})
	}
}

func TestFitGrowthPureGrowthScenario(t *testing.T) {
	// pure 1.5x yearly growth
	years := []int{2018, 2019, 2020}
	counts := []float64{100, 150, 225}

	m, err := FitGrowth(years, counts)
	require.Nil(t, err)

	assert.Equal(t, 2018, m.BaseYear)
	assert.InDelta(t, 100.0, m.Initial, 1e-9)
	assert.InDelta(t, math.Log(1.5), m.Rate, 1e-9)

	// 225*1.5
	assert.InDelta(t, 337.5, m.Predict(2021), 1e-6)
}

func TestFitGrowthExcludesZeroCountYears(t *testing.T) {
	years := []int{2018, 2019, 2020}
	counts := []float64{0, 50, 100}

	m, err := FitGrowth(years, counts)
	require.Nil(t, err)

	// 2018 cannot be log-transformed so the base becomes the first nonzero year
	assert.Equal(t, 2019, m.BaseYear)
	assert.InDelta(t, 50.0, m.Initial, 1e-9)
	assert.InDelta(t, math.Log(2.0), m.Rate, 1e-9)
	assert.InDelta(t, 200.0, m.Predict(2021), 1e-6)
}

func TestFitGrowthInsufficientData(t *testing.T) {
	testData := map[string]struct {
		years  []int
		counts []float64
	}{
		"empty": {},
		"single year": {
			years:  []int{2020},
			counts: []float64{500},
		},
		"single nonzero year": {
			years:  []int{2019, 2020},
			counts: []float64{0, 500},
		},
		"all zero": {
			years:  []int{2018, 2019, 2020},
			counts: []float64{0, 0, 0},
		},
		"repeated year": {
			years:  []int{2020, 2020},
			counts: []float64{500, 500},
		},
		"nan counts": {
			years:  []int{2019, 2020},
			counts: []float64{math.NaN(), 500},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := FitGrowth(td.years, td.counts)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestFitGrowthSeriesLenMismatch(t *testing.T) {
	_, err := FitGrowth([]int{2019, 2020}, []float64{100})
	assert.ErrorIs(t, err, ErrSeriesLenMismatch)
}

func TestGrowthModelEq(t *testing.T) {
	m := GrowthModel{BaseYear: 2018, Initial: 100.0, Rate: 0.4055}
	assert.Equal(t, "y ~ 100.00*e^(0.4055*(year-2018))", m.Eq())
}

func TestGrowthModelJSONRoundTrip(t *testing.T) {
	years, counts := generateGrowthSeries(2016, 80.0, 0.42, 7)
	m, err := FitGrowth(years, counts)
	require.Nil(t, err)

	bytes, err := json.Marshal(m)
	require.Nil(t, err)

	var reloaded GrowthModel
	require.Nil(t, json.Unmarshal(bytes, &reloaded))

	assert.Equal(t, m.BaseYear, reloaded.BaseYear)
	assert.InDelta(t, m.Initial, reloaded.Initial, 1e-12)
	assert.InDelta(t, m.Rate, reloaded.Rate, 1e-12)
	require.NotNil(t, reloaded.Scores)
	assert.InDelta(t, m.Scores.R2, reloaded.Scores.R2, 1e-12)

	// a reloaded model predicts without refitting
	assert.InDelta(t, m.Predict(2030), reloaded.Predict(2030), 1e-9)
}

func BenchmarkFitGrowth(b *testing.B) {
	years, counts := generateGrowthSeries(2000, 250.0, 0.3, 25)

	for i := 0; i < b.N; i++ {
		if _, err := FitGrowth(years, counts); err != nil {
			b.Fatal(err)
		}
	}
}
