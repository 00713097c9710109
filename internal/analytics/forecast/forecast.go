// Package forecast predicts the next grade of a history by blending three
// estimators: trend extrapolation, exponential smoothing and recency-weighted
// regression.
package forecast

import (
	"math"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/analytics/stats"
)

// Method tags which estimator or blend produced a prediction
type Method string

const (
	MethodNone               Method = "none"
	MethodSingleValue        Method = "single_value"
	MethodTrend              Method = "trend"
	MethodEMA                Method = "ema"
	MethodWeightedRegression Method = "weighted_regression"
	MethodSimpleAverage      Method = "simple_average"
	MethodEnsemble           Method = "ensemble"
	MethodFinalProjection    Method = "final_projection"
)

// Valid grade range every prediction is clamped to
const (
	MinGrade = 1.0
	MaxGrade = 10.0
)

const (
	singleValueConfidence = 0.2
	singleValueMargin     = 1.0

	trendWeightLarge   = 0.4
	trendWeightSmall   = 0.2
	trendWeightMinimum = 5
	emaWeight          = 0.3

	boundStdDevs = 2.0
)

// Prediction is a point estimate with confidence and bounds
type Prediction struct {
	PredictedValue float64 `json:"predicted_value"`
	Confidence     float64 `json:"confidence"`
	LowerBound     float64 `json:"lower_bound"`
	UpperBound     float64 `json:"upper_bound"`
	Method         Method  `json:"method"`
}

// PredictNext forecasts the next grade from the full history.
//
// With two or more grades the history is sorted by timestamp and the three
// estimators are blended with size-dependent weights. The blended confidence
// is the plain mean of the estimator confidences, not weighted like the value.
func PredictNext(grades analytics.Grades) Prediction {
	switch len(grades) {
	case 0:
		return Prediction{Method: MethodNone}
	case 1:
		v := grades[0].Value
		return Prediction{
			PredictedValue: v,
			Confidence:     singleValueConfidence,
			LowerBound:     math.Max(v-singleValueMargin, MinGrade),
			UpperBound:     math.Min(v+singleValueMargin, MaxGrade),
			Method:         MethodSingleValue,
		}
	}

	sorted := grades.SortedByTime()
	estimates := estimate(sorted)
	trend, ema, regression := estimates[0], estimates[1], estimates[2]

	trendWeight := trendWeightSmall
	if len(sorted) >= trendWeightMinimum {
		trendWeight = trendWeightLarge
	}
	regressionWeight := 1 - trendWeight - emaWeight

	combined := trend.PredictedValue*trendWeight +
		ema.PredictedValue*emaWeight +
		regression.PredictedValue*regressionWeight
	confidence := (trend.Confidence + ema.Confidence + regression.Confidence) / 3

	spread := boundStdDevs * stats.StdDev(sorted.Values())
	return Prediction{
		PredictedValue: analytics.Clamp(combined, MinGrade, MaxGrade),
		Confidence:     confidence,
		LowerBound:     math.Max(combined-spread, MinGrade),
		UpperBound:     math.Min(combined+spread, MaxGrade),
		Method:         MethodEnsemble,
	}
}

// Estimates returns the individual trend, EMA and regression predictions that
// PredictNext blends. Fewer than two grades yield no estimates.
func Estimates(grades analytics.Grades) []Prediction {
	if len(grades) < 2 {
		return []Prediction{}
	}
	e := estimate(grades.SortedByTime())
	return e[:]
}

func estimate(sorted analytics.Grades) [3]Prediction {
	return [3]Prediction{
		predictFromTrend(sorted),
		predictFromEMA(sorted),
		predictFromRegression(sorted),
	}
}

// CalculateMAPE calculates Mean Absolute Percentage Error
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
