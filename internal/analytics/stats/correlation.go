package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// epsilon guards divisions by numerically zero denominators
const epsilon = 1e-10

// Correlation returns the Pearson correlation coefficient. Sequences of
// different length, shorter than two, or with zero variance give 0.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}

	// sqrt(SSa * SSb) with SS the sum of squared deviations
	ss := float64(len(a) - 1)
	if math.Sqrt(Variance(a)*ss*Variance(b)*ss) < epsilon {
		return 0
	}
	return stat.Correlation(a, b, nil)
}

// CoefficientOfVariation returns the standard deviation relative to the
// absolute mean, in percent. A zero mean gives 0.
func CoefficientOfVariation(data []float64) float64 {
	mean := Mean(data)
	if mean == 0 {
		return 0
	}
	return (StdDev(data) / math.Abs(mean)) * 100
}

// ZScores standardizes each value. Zero deviation gives all zeros.
func ZScores(data []float64) []float64 {
	scores := make([]float64, len(data))
	mean := Mean(data)
	stdDev := StdDev(data)
	if stdDev == 0 {
		return scores
	}
	for i, v := range data {
		scores[i] = (v - mean) / stdDev
	}
	return scores
}

// Autocorrelation returns the lag-k autocorrelation. The sequence must be
// longer than lag and have nonzero variance, otherwise 0.
func Autocorrelation(data []float64, lag int) float64 {
	if lag < 0 || len(data) <= lag {
		return 0
	}

	mean := Mean(data)
	variance := Variance(data)
	if variance == 0 {
		return 0
	}

	n := len(data) - lag
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += (data[i] - mean) * (data[i+lag] - mean)
	}
	return sum / (float64(n) * variance)
}
