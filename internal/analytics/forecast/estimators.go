package forecast

import (
	"math"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/analytics/stats"
	"github.com/gradelens/gradelens/internal/analytics/trend"
)

const (
	emaAlpha = 0.3

	minConfidence = 0.1
	maxConfidence = 0.9

	fallbackConfidence  = 0.3
	regressionMinPoints = 3
	trendMargin         = 1.5
	emaMargin           = 1.0
	regressionMargin    = 1.5
	emaVarianceFallback = 1.0
	coefficientCeiling  = 100.0
)

// predictFromTrend extrapolates the fitted line one average sampling
// interval past the last grade. Input must be sorted by time.
func predictFromTrend(sorted analytics.Grades) Prediction {
	model := trend.Analyze(sorted.Series())

	first := sorted[0].Timestamp
	last := sorted[len(sorted)-1].Timestamp
	avgInterval := (last - first) / int64(len(sorted)-1)

	next := float64(last-first) + float64(avgInterval)
	value := model.ValueAt(next)

	return Prediction{
		PredictedValue: analytics.Clamp(value, MinGrade, MaxGrade),
		Confidence:     model.RSquared,
		LowerBound:     math.Max(value-trendMargin, MinGrade),
		UpperBound:     math.Min(value+trendMargin, MaxGrade),
		Method:         MethodTrend,
	}
}

// predictFromEMA takes the last smoothed value. Confidence falls as the
// smoothed series itself varies more.
func predictFromEMA(sorted analytics.Grades) Prediction {
	smoothed := stats.EMA(sorted.Values(), emaAlpha)
	value := smoothed[len(smoothed)-1]

	variance := emaVarianceFallback
	if len(smoothed) > 1 {
		variance = stats.Variance(smoothed)
	}
	confidence := analytics.Clamp(1/(1+math.Sqrt(variance)), minConfidence, maxConfidence)

	return Prediction{
		PredictedValue: analytics.Clamp(value, MinGrade, MaxGrade),
		Confidence:     confidence,
		LowerBound:     math.Max(value-emaMargin, MinGrade),
		UpperBound:     math.Min(value+emaMargin, MaxGrade),
		Method:         MethodEMA,
	}
}

// predictFromRegression weights each grade by the square of its position so
// recent grades dominate. Short histories fall back to a plain average, which
// is returned unclamped.
func predictFromRegression(sorted analytics.Grades) Prediction {
	values := sorted.Values()

	if len(values) < regressionMinPoints {
		avg := stats.Mean(values)
		return Prediction{
			PredictedValue: avg,
			Confidence:     fallbackConfidence,
			LowerBound:     math.Max(avg-regressionMargin, MinGrade),
			UpperBound:     math.Min(avg+regressionMargin, MaxGrade),
			Method:         MethodSimpleAverage,
		}
	}

	var weightedSum, weightTotal float64
	for i, v := range values {
		w := float64(i+1) * float64(i+1)
		weightedSum += v * w
		weightTotal += w
	}
	value := weightedSum / weightTotal

	cv := stats.CoefficientOfVariation(values)
	confidence := (coefficientCeiling - math.Min(cv, coefficientCeiling)) / coefficientCeiling

	return Prediction{
		PredictedValue: analytics.Clamp(value, MinGrade, MaxGrade),
		Confidence:     analytics.Clamp(confidence, minConfidence, maxConfidence),
		LowerBound:     math.Max(value-regressionMargin, MinGrade),
		UpperBound:     math.Min(value+regressionMargin, MaxGrade),
		Method:         MethodWeightedRegression,
	}
}
