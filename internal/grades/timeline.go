package grades

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/gradelens/gradelens/internal/analytics"
)

// monthLayout keys grades by calendar month
const monthLayout = "2006-01"

// RunningAverage returns the cumulative weighted average after each grade in
// time order. While the running weight is zero the grade's own value is used.
func RunningAverage(gs analytics.Grades) analytics.TimeSeries {
	sorted := gs.SortedByTime()
	out := make(analytics.TimeSeries, 0, len(sorted))

	var sum, weight float64
	for _, g := range sorted {
		sum += g.Value * g.Weight
		weight += g.Weight
		avg := g.Value
		if weight > 0 {
			avg = sum / weight
		}
		out = append(out, analytics.TimeSeriesPoint{Timestamp: g.Timestamp, Value: avg})
	}
	return out
}

// MonthKey formats a millisecond timestamp as its UTC calendar month
func MonthKey(timestampMillis int64) string {
	return time.UnixMilli(timestampMillis).UTC().Format(monthLayout)
}

// MonthGroup is the grades that fall in one calendar month
type MonthGroup struct {
	Month   string           `json:"month"`
	Average float64          `json:"average"`
	Grades  analytics.Grades `json:"grades"`
}

// GroupByMonth buckets grades by UTC calendar month, months ascending. Grades
// keep their input order within a month.
func GroupByMonth(gs analytics.Grades) []MonthGroup {
	byMonth := make(map[string]analytics.Grades)
	for _, g := range gs {
		key := MonthKey(g.Timestamp)
		byMonth[key] = append(byMonth[key], g)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	groups := make([]MonthGroup, len(months))
	for i, m := range months {
		groups[i] = MonthGroup{
			Month:   m,
			Average: WeightedAverage(byMonth[m]),
			Grades:  byMonth[m],
		}
	}
	return groups
}

// DistributionBucket counts grades whose floor is Grade
type DistributionBucket struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

// Distribution counts grades per whole grade 1..10. Values are floored and
// clamped into that range, so a 10.0 lands in "10" and a 0.5 in "1".
func Distribution(gs analytics.Grades) []DistributionBucket {
	counts := make([]int, 10)
	for _, g := range gs {
		bucket := int(analytics.Clamp(math.Floor(g.Value), 1, 10))
		counts[bucket-1]++
	}

	out := make([]DistributionBucket, len(counts))
	for i, c := range counts {
		out[i] = DistributionBucket{Grade: strconv.Itoa(i + 1), Count: c}
	}
	return out
}

// Improvement is the average of the latest quarter of grades minus the
// average of the earliest quarter, in time order.
func Improvement(gs analytics.Grades) float64 {
	if len(gs) < 2 {
		return 0
	}

	sorted := gs.SortedByTime()
	quarter := max(len(sorted)/4, 1)
	first := SimpleAverage(sorted[:quarter])
	last := SimpleAverage(sorted[len(sorted)-quarter:])
	return last - first
}
