// Package analytics provides the value types shared by the statistics, trend,
// forecast and anomaly packages.
package analytics

import (
	"math"
	"sort"
	"strings"
)

// PassingThreshold is the grade at or above which a grade counts as passing
// when no explicit flag is supplied.
const PassingThreshold = 5.5

// Grade is a single weighted observation with a timestamp.
// Timestamps only order grades; they carry no wall-clock meaning here.
type Grade struct {
	Value       float64 `json:"value"`
	Weight      float64 `json:"weight"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
	IsPassing   bool    `json:"is_passing"`
}

// NewGrade creates a grade, deriving IsPassing from the value
func NewGrade(value, weight float64, subject, description string, timestamp int64) Grade {
	return Grade{
		Value:       value,
		Weight:      weight,
		Subject:     subject,
		Description: description,
		Timestamp:   timestamp,
		IsPassing:   value >= PassingThreshold,
	}
}

// Grades is an ordered list of grades
type Grades []Grade

// Values extracts the grade values in order
func (gs Grades) Values() []float64 {
	values := make([]float64, len(gs))
	for i, g := range gs {
		values[i] = g.Value
	}
	return values
}

// SortedByTime returns a copy sorted by timestamp. Equal timestamps keep
// their input order.
func (gs Grades) SortedByTime() Grades {
	sorted := make(Grades, len(gs))
	copy(sorted, gs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// Series converts grades to a time series without reordering
func (gs Grades) Series() TimeSeries {
	series := make(TimeSeries, len(gs))
	for i, g := range gs {
		series[i] = TimeSeriesPoint{Timestamp: g.Timestamp, Value: g.Value}
	}
	return series
}

// TotalWeight sums the weights
func (gs Grades) TotalWeight() float64 {
	total := 0.0
	for _, g := range gs {
		total += g.Weight
	}
	return total
}

// WeightedSum sums value*weight
func (gs Grades) WeightedSum() float64 {
	sum := 0.0
	for _, g := range gs {
		sum += g.Value * g.Weight
	}
	return sum
}

// BySubject returns the grades whose subject matches case-insensitively
func (gs Grades) BySubject(subject string) Grades {
	key := strings.ToLower(subject)
	var out Grades
	for _, g := range gs {
		if strings.ToLower(g.Subject) == key {
			out = append(out, g)
		}
	}
	return out
}

// TimeSeriesPoint is a single (timestamp, value) pair
type TimeSeriesPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// TimeSeries is an ordered list of points. It may be unsorted.
type TimeSeries []TimeSeriesPoint

// Values extracts just the values from the time series
func (ts TimeSeries) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Timestamps extracts just the timestamps from the time series
func (ts TimeSeries) Timestamps() []int64 {
	times := make([]int64, len(ts))
	for i, p := range ts {
		times[i] = p.Timestamp
	}
	return times
}

// Len returns the number of data points
func (ts TimeSeries) Len() int {
	return len(ts)
}

// SortedByTime returns a stable, time-ordered copy
func (ts TimeSeries) SortedByTime() TimeSeries {
	sorted := make(TimeSeries, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// Clamp limits v to [lo, hi]. NaN passes through unchanged.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
