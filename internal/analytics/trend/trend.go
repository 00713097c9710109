// Package trend fits ordinary least-squares lines to grade time series and
// classifies the result.
package trend

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/gradelens/gradelens/internal/analytics"
)

// Direction classifies the sign of a trend slope
type Direction string

const (
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
	DirectionImproving Direction = "improving"
)

// Strength classifies how well a line explains the data
type Strength string

const (
	StrengthNone     Strength = "none"
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

const (
	// StableSlope is the absolute slope below which a trend is stable
	StableSlope = 0.001

	weakR2     = 0.1
	moderateR2 = 0.3
	strongR2   = 0.6

	degenerateDenominator = 1e-10
)

// Model is a fitted line plus its classification
type Model struct {
	Slope           float64   `json:"slope"`
	Intercept       float64   `json:"intercept"`
	RSquared        float64   `json:"r_squared"`
	Direction       Direction `json:"direction"`
	Strength        Strength  `json:"strength"`
	PredictedValues []float64 `json:"predicted_values"`
}

// Analyze fits y = slope*x + intercept with x being each timestamp minus the
// minimum timestamp, so the intercept is the value at the earliest point.
//
// The series is used in the order given. Callers that care about temporal
// order must sort first; the fitted values follow input order.
func Analyze(series analytics.TimeSeries) Model {
	if len(series) < 2 {
		return flat(0)
	}

	minTime := series[0].Timestamp
	for _, p := range series[1:] {
		if p.Timestamp < minTime {
			minTime = p.Timestamp
		}
	}

	xs := make([]float64, len(series))
	ys := series.Values()
	for i, p := range series {
		xs[i] = float64(p.Timestamp - minTime)
	}

	n := float64(len(series))
	sumX := floats.Sum(xs)
	if math.Abs(n*floats.Dot(xs, xs)-sumX*sumX) < degenerateDenominator {
		return flat(stat.Mean(ys, nil))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	fitted := make([]float64, len(series))
	for i, x := range xs {
		fitted[i] = slope*x + intercept
	}

	// R² is undefined for constant values
	rSquared := 0.0
	if stat.Variance(ys, nil) > 0 {
		rSquared = stat.RSquared(xs, ys, nil, intercept, slope)
	}

	direction, strength := Classify(slope, rSquared)
	return Model{
		Slope:           slope,
		Intercept:       intercept,
		RSquared:        rSquared,
		Direction:       direction,
		Strength:        strength,
		PredictedValues: fitted,
	}
}

// Classify derives direction from the slope and strength from R²
func Classify(slope, rSquared float64) (Direction, Strength) {
	direction := DirectionDeclining
	switch {
	case math.Abs(slope) < StableSlope:
		direction = DirectionStable
	case slope > 0:
		direction = DirectionImproving
	}

	var strength Strength
	switch {
	case rSquared < weakR2:
		strength = StrengthNone
	case rSquared < moderateR2:
		strength = StrengthWeak
	case rSquared < strongR2:
		strength = StrengthModerate
	default:
		strength = StrengthStrong
	}
	return direction, strength
}

// ValueAt evaluates the line at an offset from the earliest timestamp
func (m Model) ValueAt(offset float64) float64 {
	return m.Slope*offset + m.Intercept
}

func flat(intercept float64) Model {
	return Model{
		Intercept:       intercept,
		Direction:       DirectionStable,
		Strength:        StrengthNone,
		PredictedValues: []float64{},
	}
}
