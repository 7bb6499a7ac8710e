// Package aggregate computes the summary tables behind every chart and
// report: registration counts and mean electric ranges grouped by year,
// geography, vehicle type, make, and model. Each table is computed
// independently from the cleaned records and omits groups with no qualifying
// rows.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/evmetrics/evinsight/dataset"
)

// Ranking cutoffs. Every ranking uses post-cleaning counts.
const (
	TopCountyCount    = 5
	TopCityCount      = 5
	TopMakeCount      = 5
	TopModelCount     = 5
	TopMakeGroupCount = 3
)

// YearCount is the registration count for one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearCounts is a registration series ordered ascending by year.
type YearCounts []YearCount

// Series splits the counts into the paired slices the growth fit consumes.
func (y YearCounts) Series() ([]int, []float64) {
	years := make([]int, 0, len(y))
	counts := make([]float64, 0, len(y))
	for _, yc := range y {
		years = append(years, yc.Year)
		counts = append(counts, float64(yc.Count))
	}
	return years, counts
}

// Through keeps the years up to and including maxYear. Zero means no cap.
func (y YearCounts) Through(maxYear int) YearCounts {
	if maxYear == 0 {
		return y
	}
	capped := make(YearCounts, 0, len(y))
	for _, yc := range y {
		if yc.Year <= maxYear {
			capped = append(capped, yc)
		}
	}
	return capped
}

// KeyCount is the registration count for one categorical key such as a make,
// county, city, or vehicle type.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GroupCounts ranks the members of one group, such as the cities of a county.
type GroupCounts struct {
	Group string     `json:"group"`
	Items []KeyCount `json:"items"`
}

// YearMean is the mean known electric range for one model year.
type YearMean struct {
	Year  int     `json:"year"`
	Mean  float64 `json:"mean"`
	Known int     `json:"known"`
}

// KeyMean is the mean known electric range for one categorical key.
type KeyMean struct {
	Key   string  `json:"key"`
	Mean  float64 `json:"mean"`
	Known int     `json:"known"`
}

// GroupMeans ranks the members of one group by mean electric range.
type GroupMeans struct {
	Group string    `json:"group"`
	Items []KeyMean `json:"items"`
}

// CountByYear counts registrations per model year, ascending by year.
func CountByYear(records []dataset.Record) YearCounts {
	counts := make(map[int]int)
	for _, rec := range records {
		counts[rec.ModelYear]++
	}

	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Ints(years)

	res := make(YearCounts, 0, len(years))
	for _, year := range years {
		res = append(res, YearCount{Year: year, Count: counts[year]})
	}
	return res
}

// CountByType counts registrations per vehicle type, descending by count.
func CountByType(records []dataset.Record) []KeyCount {
	c := newCounter()
	for _, rec := range records {
		c.add(rec.VehicleType)
	}
	return c.ranked()
}

// TopMakes returns the k makes with the most registrations.
func TopMakes(records []dataset.Record, k int) []KeyCount {
	c := newCounter()
	for _, rec := range records {
		c.add(rec.Make)
	}
	return top(c.ranked(), k)
}

// TopCounties returns the k counties with the most registrations.
func TopCounties(records []dataset.Record, k int) []KeyCount {
	c := newCounter()
	for _, rec := range records {
		c.add(rec.County)
	}
	return top(c.ranked(), k)
}

// TopCitiesInCounties ranks the cities of the top counties. For each of the
// top counties by registrations it keeps the top cities, ties broken by
// higher count then alphabetical city name. Counties appear in rank order.
func TopCitiesInCounties(records []dataset.Record) []GroupCounts {
	counties := TopCounties(records, TopCountyCount)

	cities := make(map[string]*counter, len(counties))
	for _, county := range counties {
		cities[county.Key] = newCounter()
	}
	for _, rec := range records {
		if c, exists := cities[rec.County]; exists {
			c.add(rec.City)
		}
	}

	res := make([]GroupCounts, 0, len(counties))
	for _, county := range counties {
		items := cities[county.Key].ranked()
		sort.Slice(items, func(i, j int) bool {
			if items[i].Count != items[j].Count {
				return items[i].Count > items[j].Count
			}
			return items[i].Key < items[j].Key
		})
		res = append(res, GroupCounts{
			Group: county.Key,
			Items: top(items, TopCityCount),
		})
	}
	return res
}

// TopModelsInMakes ranks the models of the top makes. For each of the top
// makes by registrations it keeps the top models by count.
func TopModelsInMakes(records []dataset.Record) []GroupCounts {
	makes := TopMakes(records, TopMakeGroupCount)

	models := make(map[string]*counter, len(makes))
	for _, mk := range makes {
		models[mk.Key] = newCounter()
	}
	for _, rec := range records {
		if c, exists := models[rec.Make]; exists {
			c.add(rec.Model)
		}
	}

	res := make([]GroupCounts, 0, len(makes))
	for _, mk := range makes {
		res = append(res, GroupCounts{
			Group: mk.Key,
			Items: top(models[mk.Key].ranked(), TopModelCount),
		})
	}
	return res
}

// MeanRangeByYear averages the known electric range per model year,
// ascending by year. Years where every range is unknown are omitted.
func MeanRangeByYear(records []dataset.Record) []YearMean {
	m := newMeaner()
	for _, rec := range records {
		m.add(strconv.Itoa(rec.ModelYear), rec.ElectricRange)
	}

	items := m.means()
	res := make([]YearMean, 0, len(items))
	for _, km := range items {
		year, err := strconv.Atoi(km.Key)
		if err != nil {
			continue
		}
		res = append(res, YearMean{Year: year, Mean: km.Mean, Known: km.Known})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Year < res[j].Year
	})
	return res
}

// TopModelsByMeanRange ranks the models of the top makes by mean known
// electric range, keeping the top models per make. Models where every range
// is unknown are omitted, and a make with no qualifying models is omitted.
func TopModelsByMeanRange(records []dataset.Record) []GroupMeans {
	makes := TopMakes(records, TopMakeGroupCount)

	models := make(map[string]*meaner, len(makes))
	for _, mk := range makes {
		models[mk.Key] = newMeaner()
	}
	for _, rec := range records {
		if m, exists := models[rec.Make]; exists {
			m.add(rec.Model, rec.ElectricRange)
		}
	}

	res := make([]GroupMeans, 0, len(makes))
	for _, mk := range makes {
		items := models[mk.Key].means()
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Mean > items[j].Mean
		})
		if len(items) > TopModelCount {
			items = items[:TopModelCount]
		}
		if len(items) == 0 {
			continue
		}
		res = append(res, GroupMeans{Group: mk.Key, Items: items})
	}
	return res
}

// Summary bundles every aggregate table for the renderer and the reports.
type Summary struct {
	Adoption         YearCounts    `json:"adoption"`
	Types            []KeyCount    `json:"types"`
	Makes            []KeyCount    `json:"makes"`
	Counties         []KeyCount    `json:"counties"`
	CitiesInCounties []GroupCounts `json:"cities_in_counties"`
	ModelsInMakes    []GroupCounts `json:"models_in_makes"`
	RangeByYear      []YearMean    `json:"range_by_year"`
	ModelsByRange    []GroupMeans  `json:"models_by_range"`
}

// Compute fills every table from the cleaned records.
func Compute(records []dataset.Record) Summary {
	return Summary{
		Adoption:         CountByYear(records),
		Types:            CountByType(records),
		Makes:            TopMakes(records, TopMakeCount),
		Counties:         TopCounties(records, TopCountyCount),
		CitiesInCounties: TopCitiesInCounties(records),
		ModelsInMakes:    TopModelsInMakes(records),
		RangeByYear:      MeanRangeByYear(records),
		ModelsByRange:    TopModelsByMeanRange(records),
	}
}

// top keeps the first k ranked items.
func top(items []KeyCount, k int) []KeyCount {
	if k < 0 {
		k = 0
	}
	if len(items) > k {
		items = items[:k]
	}
	return items
}
