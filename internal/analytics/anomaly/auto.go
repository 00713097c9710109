package anomaly

import (
	"math"

	"github.com/gradelens/gradelens/internal/analytics/stats"
	"github.com/gradelens/gradelens/internal/analytics/trend"
)

// AutoDetector selects a detector from the shape of the series
type AutoDetector struct{}

func init() {
	RegisterDetector("auto", &AutoDetector{})
}

// Name returns the algorithm name
func (a *AutoDetector) Name() string {
	return "auto"
}

// Detect analyzes the series and delegates to the selected detector
func (a *AutoDetector) Detect(data []DataPoint, config DetectorConfig) []AnomalyResult {
	if len(data) < config.MinDataPoints {
		return nil
	}

	chars := AnalyzeData(data)
	detector, err := GetDetector(chars.SelectedAlgorithm)
	if err != nil {
		detector = &IQRDetector{}
	}
	return detector.Detect(data, config)
}

// DataCharacteristics describes properties of the data
type DataCharacteristics struct {
	// IsNormalDistribution is true when skewness and excess kurtosis are small
	IsNormalDistribution bool

	// HasTrend indicates a fitted line explains a meaningful share of variance
	HasTrend bool

	// TrendStrength from -1 (strong downward) to 1 (strong upward)
	TrendStrength float64

	// OutlierPercentage percentage of IQR outliers
	OutlierPercentage float64

	// Variability coefficient of variation, in percent
	Variability float64

	DataSize int

	SelectedAlgorithm string
}

// AnalyzeData returns the characteristics of the series and the detector
// that suits them.
func AnalyzeData(data []DataPoint) DataCharacteristics {
	chars := DataCharacteristics{DataSize: len(data)}
	if len(data) >= 3 {
		vals := values(data)
		summary := stats.Calculate(vals)

		chars.Variability = stats.CoefficientOfVariation(vals)
		chars.IsNormalDistribution = len(vals) >= 10 && summary.StdDeviation > 0 &&
			math.Abs(summary.Skewness) < 1 && math.Abs(summary.Kurtosis) < 2

		model := trend.Analyze(data)
		chars.HasTrend = model.Strength != trend.StrengthNone
		chars.TrendStrength = model.RSquared
		if model.Slope < 0 {
			chars.TrendStrength = -model.RSquared
		}

		outliers := stats.DetectOutliers(vals)
		chars.OutlierPercentage = float64(len(outliers)) / float64(len(vals)) * 100
	}

	chars.SelectedAlgorithm = selectAlgorithm(chars)
	return chars
}

// selectAlgorithm picks iqr for outlier-heavy data, moving_avg for trending
// data, zscore for roughly normal data and iqr otherwise.
func selectAlgorithm(chars DataCharacteristics) string {
	if chars.OutlierPercentage > 5 {
		return "iqr"
	}
	if chars.HasTrend && math.Abs(chars.TrendStrength) > 0.3 {
		return "moving_avg"
	}
	if chars.IsNormalDistribution {
		return "zscore"
	}
	return "iqr"
}
