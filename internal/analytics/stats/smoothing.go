package stats

import "math"

// MovingAverage returns the trailing moving average. The window is clamped to
// the sequence length and shrinks at the start instead of padding with zeros.
func MovingAverage(data []float64, windowSize int) []float64 {
	if len(data) == 0 || windowSize <= 0 {
		return []float64{}
	}
	if windowSize > len(data) {
		windowSize = len(data)
	}

	result := make([]float64, len(data))
	for i := range data {
		start := 0
		if i >= windowSize-1 {
			start = i - windowSize + 1
		}
		sum := 0.0
		for _, v := range data[start : i+1] {
			sum += v
		}
		result[i] = sum / float64(i+1-start)
	}
	return result
}

// EMA returns the exponential moving average seeded with the first value.
// Alpha is clamped to [0, 1].
func EMA(data []float64, alpha float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}
	alpha = math.Max(0, math.Min(1, alpha))

	result := make([]float64, len(data))
	result[0] = data[0]
	for i := 1; i < len(data); i++ {
		result[i] = alpha*data[i] + (1-alpha)*result[i-1]
	}
	return result
}
