package anomaly

import (
	"github.com/gradelens/gradelens/internal/analytics/stats"
)

// IQRDetector detects anomalies using Interquartile Range (IQR) method
// IQR is robust to outliers compared to Z-Score
// Anomalies are points outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR]
type IQRDetector struct{}

func init() {
	RegisterDetector("iqr", &IQRDetector{})
}

// Name returns the algorithm name
func (iqr *IQRDetector) Name() string {
	return "iqr"
}

// Detect reports the IQR outliers of the series. Scores measure the distance
// past the fence in units of IQR.
func (iqr *IQRDetector) Detect(data []DataPoint, config DetectorConfig) []AnomalyResult {
	if len(data) < config.MinDataPoints {
		return nil
	}

	vals := values(data)
	outliers := stats.DetectOutliers(vals)
	if len(outliers) == 0 {
		return nil
	}

	summary := stats.Calculate(vals)
	lowerBound, upperBound := stats.Fences(vals)
	expectedRange := &Range{
		Min: lowerBound,
		Max: upperBound,
	}

	results := make([]AnomalyResult, 0, len(outliers))
	for _, o := range outliers {
		score := 1.0
		anomalyType := AnomalyTypeSpike
		if o.Value < lowerBound {
			anomalyType = AnomalyTypeDrop
		}
		if summary.IQR > 0 {
			if anomalyType == AnomalyTypeDrop {
				score = (lowerBound - o.Value) / summary.IQR
			} else {
				score = (o.Value - upperBound) / summary.IQR
			}
		}

		results = append(results, AnomalyResult{
			Index:    o.Index,
			Score:    score,
			Type:     anomalyType,
			Expected: expectedRange,
		})
	}

	return results
}
