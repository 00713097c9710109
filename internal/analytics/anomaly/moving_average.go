package anomaly

import (
	"math"
)

// MovingAverageDetector compares each grade to the average of its neighbours.
// Good for catching a single bad result inside an otherwise trending series.
type MovingAverageDetector struct{}

func init() {
	RegisterDetector("moving_avg", &MovingAverageDetector{})
}

// Name returns the algorithm name
func (ma *MovingAverageDetector) Name() string {
	return "moving_avg"
}

// Detect finds anomalies using a centered window that excludes the point
// being scored.
func (ma *MovingAverageDetector) Detect(data []DataPoint, config DetectorConfig) []AnomalyResult {
	if len(data) < config.MinDataPoints {
		return nil
	}

	windowSize := config.WindowSize
	if windowSize <= 0 {
		windowSize = DefaultConfig().WindowSize
	}
	if windowSize > len(data) {
		windowSize = len(data) / 2
	}
	if windowSize < 3 {
		windowSize = 3
	}

	var results []AnomalyResult
	for i, dp := range data {
		localMean, localStdDev, ok := neighbourhood(data, i, windowSize/2)
		if !ok {
			continue
		}

		var deviation float64
		if localStdDev > 0 {
			deviation = math.Abs(dp.Value-localMean) / localStdDev
		} else if dp.Value != localMean {
			// flat neighbourhood, any difference is significant
			deviation = config.Threshold + 1
		}

		if deviation <= config.Threshold {
			continue
		}

		anomalyType := AnomalyTypeDrop
		if dp.Value > localMean {
			anomalyType = AnomalyTypeSpike
		}

		results = append(results, AnomalyResult{
			Index: i,
			Score: deviation,
			Type:  anomalyType,
			Expected: &Range{
				Min: localMean - config.Threshold*localStdDev,
				Max: localMean + config.Threshold*localStdDev,
			},
		})
	}

	return results
}

// neighbourhood returns the population mean and deviation of the points within
// radius of i, excluding i itself.
func neighbourhood(data []DataPoint, i, radius int) (mean, stdDev float64, ok bool) {
	start := max(i-radius, 0)
	end := min(i+radius, len(data)-1)

	var sum float64
	count := 0
	for j := start; j <= end; j++ {
		if j != i {
			sum += data[j].Value
			count++
		}
	}
	if count == 0 {
		return 0, 0, false
	}
	mean = sum / float64(count)

	var varianceSum float64
	for j := start; j <= end; j++ {
		if j != i {
			diff := data[j].Value - mean
			varianceSum += diff * diff
		}
	}
	return mean, math.Sqrt(varianceSum / float64(count)), true
}
