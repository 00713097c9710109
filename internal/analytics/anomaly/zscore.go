package anomaly

import (
	"math"

	"github.com/gradelens/gradelens/internal/analytics/stats"
)

// ZScoreDetector detects anomalies using Z-Score (standard score)
// Z-Score measures how many standard deviations a point is from the mean
// Points with |Z| > threshold are considered anomalies
type ZScoreDetector struct{}

func init() {
	RegisterDetector("zscore", &ZScoreDetector{})
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// Detect finds anomalies using Z-Score method. A series with no variation is
// reported as a flatline.
func (z *ZScoreDetector) Detect(data []DataPoint, config DetectorConfig) []AnomalyResult {
	if len(data) < config.MinDataPoints {
		return nil
	}

	vals := values(data)
	mean := stats.Mean(vals)
	stdDev := stats.StdDev(vals)

	if stdDev == 0 {
		return detectFlatline(data)
	}

	expectedRange := &Range{
		Min: mean - config.Threshold*stdDev,
		Max: mean + config.Threshold*stdDev,
	}

	var results []AnomalyResult
	for i, zScore := range stats.ZScores(vals) {
		if math.Abs(zScore) <= config.Threshold {
			continue
		}

		anomalyType := AnomalyTypeDrop
		if zScore > 0 {
			anomalyType = AnomalyTypeSpike
		}

		results = append(results, AnomalyResult{
			Index:    i,
			Score:    math.Abs(zScore),
			Type:     anomalyType,
			Expected: expectedRange,
		})
	}

	return results
}

// detectFlatline marks every point when all values are equal
func detectFlatline(data []DataPoint) []AnomalyResult {
	if len(data) < 2 {
		return nil
	}

	first := data[0].Value
	for _, dp := range data[1:] {
		if dp.Value != first {
			return nil
		}
	}

	results := make([]AnomalyResult, len(data))
	for i := range data {
		results[i] = AnomalyResult{
			Index: i,
			Score: 1.0,
			Type:  AnomalyTypeFlatline,
		}
	}
	return results
}
