// Package grades holds the bookkeeping around a grade list: averages, GPA
// conversion, per-subject summaries and the combined analytics report.
package grades

import (
	"github.com/gradelens/gradelens/internal/analytics"
)

// Scale describes the source grading scale and the GPA scale it maps onto
type Scale struct {
	MaxGrade     float64 `json:"max_grade"`
	PassingGrade float64 `json:"passing_grade"`
	GPAMax       float64 `json:"gpa_max"`
}

// DefaultScale is the 1-10 scale mapped onto a 4.0 GPA
func DefaultScale() Scale {
	return Scale{
		MaxGrade:     10.0,
		PassingGrade: analytics.PassingThreshold,
		GPAMax:       4.0,
	}
}

// SimpleAverage is the unweighted mean of the values, 0 when empty
func SimpleAverage(gs analytics.Grades) float64 {
	if len(gs) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range gs {
		sum += g.Value
	}
	return sum / float64(len(gs))
}

// WeightedAverage falls back to the simple average when all weights are zero
func WeightedAverage(gs analytics.Grades) float64 {
	if len(gs) == 0 {
		return 0
	}
	total := gs.TotalWeight()
	if total == 0 {
		return SimpleAverage(gs)
	}
	return gs.WeightedSum() / total
}

// GPA rescales the weighted average linearly from [1, MaxGrade] to
// [0, GPAMax], clamping the result.
func GPA(gs analytics.Grades, scale Scale) float64 {
	if len(gs) == 0 {
		return 0
	}
	normalized := (WeightedAverage(gs) - 1) / (scale.MaxGrade - 1)
	return analytics.Clamp(normalized*scale.GPAMax, 0, scale.GPAMax)
}

// SubjectAverage is the weighted average of one subject's grades
func SubjectAverage(gs analytics.Grades, subject string) float64 {
	return WeightedAverage(gs.BySubject(subject))
}
