package aggregate

import (
	"sort"

	"github.com/evmetrics/evinsight/stats"
)

// counter tallies occurrences per key while remembering first-encountered
// order, the default tie-break for rankings.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{
		counts: make(map[string]int),
	}
}

func (c *counter) add(key string) {
	if _, exists := c.counts[key]; !exists {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns every key descending by count. Ties keep first-encountered
// order.
func (c *counter) ranked() []KeyCount {
	res := make([]KeyCount, 0, len(c.order))
	for _, key := range c.order {
		res = append(res, KeyCount{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Count > res[j].Count
	})
	return res
}

// meaner collects the values observed per key so unknown entries can be
// skipped when averaging.
type meaner struct {
	vals  map[string][]float64
	order []string
}

func newMeaner() *meaner {
	return &meaner{
		vals: make(map[string][]float64),
	}
}

func (m *meaner) add(key string, val float64) {
	if _, exists := m.vals[key]; !exists {
		m.order = append(m.order, key)
	}
	m.vals[key] = append(m.vals[key], val)
}

// means returns the mean of the known values per key in first-encountered
// order. Keys with no known values are omitted.
func (m *meaner) means() []KeyMean {
	res := make([]KeyMean, 0, len(m.order))
	for _, key := range m.order {
		mean, known := stats.MeanIgnoringNaN(m.vals[key])
		if known == 0 {
			continue
		}
		res = append(res, KeyMean{Key: key, Mean: mean, Known: known})
	}
	return res
}
