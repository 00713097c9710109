// Package stats computes descriptive statistics, smoothing and correlation
// measures over plain numeric sequences.
//
// Every function is total: empty or too-short input yields a zero or neutral
// result instead of an error. NaN and Inf inputs are not sanitized and
// propagate through IEEE-754 arithmetic.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the descriptive statistics of a sequence
type Summary struct {
	Count        int       `json:"count"`
	Sum          float64   `json:"sum"`
	Mean         float64   `json:"mean"`
	Median       float64   `json:"median"`
	Mode         []float64 `json:"mode"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Range        float64   `json:"range"`
	Variance     float64   `json:"variance"`
	StdDeviation float64   `json:"std_deviation"`
	Percentile25 float64   `json:"percentile_25"`
	Percentile50 float64   `json:"percentile_50"`
	Percentile75 float64   `json:"percentile_75"`
	Percentile90 float64   `json:"percentile_90"`
	IQR          float64   `json:"iqr"`
	Skewness     float64   `json:"skewness"`
	Kurtosis     float64   `json:"kurtosis"`
}

// modePrecision buckets values to two decimals before counting
const modePrecision = 100.0

// Calculate computes the full summary. An empty sequence yields the zero summary.
func Calculate(data []float64) Summary {
	if len(data) == 0 {
		return Summary{Mode: []float64{}}
	}

	count := len(data)
	sum := floats.Sum(data)
	mean := stat.Mean(data, nil)

	sorted := sortedCopy(data)
	variance := Variance(data)
	stdDev := math.Sqrt(variance)

	p25 := percentileSorted(sorted, 25)
	p75 := percentileSorted(sorted, 75)

	return Summary{
		Count:        count,
		Sum:          sum,
		Mean:         mean,
		Median:       Median(sorted),
		Mode:         Mode(data),
		Min:          sorted[0],
		Max:          sorted[count-1],
		Range:        sorted[count-1] - sorted[0],
		Variance:     variance,
		StdDeviation: stdDev,
		Percentile25: p25,
		Percentile50: percentileSorted(sorted, 50),
		Percentile75: p75,
		Percentile90: percentileSorted(sorted, 90),
		IQR:          p75 - p25,
		Skewness:     Skewness(data),
		Kurtosis:     Kurtosis(data),
	}
}

// Mean returns the arithmetic mean, 0 for empty input
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Median returns the median of an already sorted sequence
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Mode returns the most frequent values after rounding to two decimals,
// in ascending order. If every bucket holds a single value there is no mode
// and the result is empty.
func Mode(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	frequency := make(map[int64]int)
	for _, v := range data {
		frequency[int64(math.Round(v*modePrecision))]++
	}

	maxFreq := 0
	for _, f := range frequency {
		if f > maxFreq {
			maxFreq = f
		}
	}
	if maxFreq <= 1 {
		return []float64{}
	}

	keys := make([]int64, 0)
	for k, f := range frequency {
		if f == maxFreq {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	modes := make([]float64, len(keys))
	for i, k := range keys {
		modes[i] = float64(k) / modePrecision
	}
	return modes
}

// Variance returns the sample variance (n-1 denominator); 0 below two points
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// StdDev returns the sample standard deviation; 0 below two points
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(data, nil)
	return std
}

// Percentile returns the p-th percentile (p clamped to [0, 100]) using
// linear interpolation between order statistics.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return percentileSorted(sortedCopy(data), p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	p = math.Max(0, math.Min(100, p))
	index := (p / 100) * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	weight := index - float64(lower)

	if lower == upper || upper >= n {
		if lower > n-1 {
			lower = n - 1
		}
		return sorted[lower]
	}
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Skewness returns the adjusted Fisher-Pearson skewness.
// It needs at least three points and a nonzero standard deviation.
func Skewness(data []float64) float64 {
	if len(data) < 3 || StdDev(data) == 0 {
		return 0
	}
	return stat.Skew(data, nil)
}

// Kurtosis returns the bias-corrected excess kurtosis.
// It needs at least four points and a nonzero standard deviation.
func Kurtosis(data []float64) float64 {
	if len(data) < 4 || StdDev(data) == 0 {
		return 0
	}
	return stat.ExKurtosis(data, nil)
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}
