// Package scenario answers what-if questions about a grade history: the grade
// needed to reach a target, the effect of hypothetical grades and projections
// of the final average.
package scenario

import (
	"math"

	"github.com/gradelens/gradelens/internal/analytics"
)

// Grade range used for achievability checks
const (
	MinGrade = 1.0
	MaxGrade = 10.0
)

// impact curves sweep 1.0..10.0 in half-grade steps
const impactStep = 0.5

// DefaultTargets are the target averages reported by WhatIf
var DefaultTargets = []float64{5.5, 6.0, 6.5, 7.0, 7.5, 8.0}

// GradeNeeded is the grade required on a new assessment to reach a target
type GradeNeeded struct {
	TargetAverage float64 `json:"target_average"`
	GradeNeeded   float64 `json:"grade_needed"`
	Weight        float64 `json:"weight"`
	Achievable    bool    `json:"achievable"`
}

// ImpactEntry is the resulting average for one hypothetical grade
type ImpactEntry struct {
	HypotheticalGrade float64 `json:"hypothetical_grade"`
	ResultingAverage  float64 `json:"resulting_average"`
	Impact            float64 `json:"impact"`
}

// WhatIfResult compares the current average with the average after adding
// hypothetical grades.
type WhatIfResult struct {
	CurrentAverage        float64       `json:"current_average"`
	NewAverage            float64       `json:"new_average"`
	Change                float64       `json:"change"`
	ChangePercent         float64       `json:"change_percent"`
	GradesNeededForTarget []GradeNeeded `json:"grades_needed_for_target"`
	ImpactAnalysis        []ImpactEntry `json:"impact_analysis"`
}

// CalculateGradeNeeded solves
//
//	target = (avg*weight + x*newWeight) / (weight + newWeight)
//
// for x. It returns NaN when newWeight is not positive.
func CalculateGradeNeeded(currentAverage, currentWeight, target, newWeight float64) float64 {
	if newWeight <= 0 {
		return math.NaN()
	}
	return (target*(currentWeight+newWeight) - currentAverage*currentWeight) / newWeight
}

// Achievable reports whether a needed grade lies in the valid range. NaN is
// never achievable.
func Achievable(needed float64) bool {
	return needed >= MinGrade && needed <= MaxGrade
}

// WhatIf adds the hypothetical grades to the history and reports the change,
// the grades needed for DefaultTargets and an impact curve. The follow-up
// assessment uses the weight of the first hypothetical grade, or 1.
func WhatIf(gs, hypothetical analytics.Grades) WhatIfResult {
	if len(gs) == 0 && len(hypothetical) == 0 {
		return WhatIfResult{
			GradesNeededForTarget: []GradeNeeded{},
			ImpactAnalysis:        []ImpactEntry{},
		}
	}

	currentWeight := gs.TotalWeight()
	currentSum := gs.WeightedSum()
	currentAverage := 0.0
	if currentWeight > 0 {
		currentAverage = currentSum / currentWeight
	}

	newWeight := currentWeight + hypothetical.TotalWeight()
	newAverage := 0.0
	if newWeight > 0 {
		newAverage = (currentSum + hypothetical.WeightedSum()) / newWeight
	}

	change := newAverage - currentAverage
	changePercent := 0.0
	if currentAverage > 0 {
		changePercent = change / currentAverage * 100
	}

	nextWeight := 1.0
	if len(hypothetical) > 0 {
		nextWeight = hypothetical[0].Weight
	}

	needed := make([]GradeNeeded, len(DefaultTargets))
	for i, target := range DefaultTargets {
		g := CalculateGradeNeeded(newAverage, newWeight, target, nextWeight)
		needed[i] = GradeNeeded{
			TargetAverage: target,
			GradeNeeded:   g,
			Weight:        nextWeight,
			Achievable:    Achievable(g),
		}
	}

	return WhatIfResult{
		CurrentAverage:        currentAverage,
		NewAverage:            newAverage,
		Change:                change,
		ChangePercent:         changePercent,
		GradesNeededForTarget: needed,
		ImpactAnalysis:        ImpactCurve(newAverage, newWeight, nextWeight),
	}
}

// ImpactCurve returns the resulting average for every hypothetical grade from
// 1.0 to 10.0 in steps of 0.5.
func ImpactCurve(currentAverage, currentWeight, newWeight float64) []ImpactEntry {
	total := currentWeight + newWeight
	return sweep(func(grade float64) (float64, float64) {
		avg := (currentAverage*currentWeight + grade*newWeight) / total
		return avg, avg - currentAverage
	})
}

// SubjectImpact is ImpactCurve over one subject's grades. A subject without
// weighted grades gets each hypothetical grade as its resulting average.
func SubjectImpact(gs analytics.Grades, subject string, weight float64) []ImpactEntry {
	subjectGrades := gs.BySubject(subject)
	currentWeight := subjectGrades.TotalWeight()
	if len(subjectGrades) == 0 || currentWeight == 0 {
		return sweep(func(grade float64) (float64, float64) { return grade, 0 })
	}

	avg := subjectGrades.WeightedSum() / currentWeight
	return ImpactCurve(avg, currentWeight, weight)
}

// GradesForTargets computes the grade needed on one subject for each target.
// Without weighted grades in the subject the target itself is needed.
func GradesForTargets(gs analytics.Grades, subject string, weight float64, targets []float64) []GradeNeeded {
	subjectGrades := gs.BySubject(subject)
	currentWeight := subjectGrades.TotalWeight()
	out := make([]GradeNeeded, len(targets))

	if len(subjectGrades) == 0 || currentWeight == 0 {
		for i, target := range targets {
			out[i] = GradeNeeded{
				TargetAverage: target,
				GradeNeeded:   target,
				Weight:        weight,
				Achievable:    Achievable(target),
			}
		}
		return out
	}

	avg := subjectGrades.WeightedSum() / currentWeight
	for i, target := range targets {
		g := CalculateGradeNeeded(avg, currentWeight, target, weight)
		out[i] = GradeNeeded{
			TargetAverage: target,
			GradeNeeded:   g,
			Weight:        weight,
			Achievable:    Achievable(g),
		}
	}
	return out
}

// sweep evaluates the resulting average and impact for each grade step
func sweep(result func(grade float64) (avg, impact float64)) []ImpactEntry {
	steps := int((MaxGrade-MinGrade)/impactStep) + 1
	entries := make([]ImpactEntry, steps)
	for i := range entries {
		grade := MinGrade + float64(i)*impactStep
		avg, impact := result(grade)
		entries[i] = ImpactEntry{
			HypotheticalGrade: grade,
			ResultingAverage:  avg,
			Impact:            impact,
		}
	}
	return entries
}
