package scenario

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/analytics/forecast"
	"github.com/gradelens/gradelens/internal/grades"
)

const (
	remainingConfidenceDecay = 0.1
	finalMargin              = 1.0

	// passSteepness divides the gap between needed and current average
	passSteepness = 2.0

	targetAverage    = 6.5
	recentWindow     = 3
	declineMargin    = 0.5
	failingPenalty   = 15.0
	decliningBonus   = 10.0
	averageWeighting = 10.0
)

// PredictFinal projects the final weighted average assuming each remaining
// assessment scores the ensemble's next-grade prediction. Confidence shrinks
// with every remaining assessment.
func PredictFinal(gs analytics.Grades, remaining int, typicalWeight float64) forecast.Prediction {
	if len(gs) == 0 {
		return forecast.Prediction{Method: forecast.MethodNone}
	}

	next := forecast.PredictNext(gs)
	currentWeight := gs.TotalWeight()
	futureWeight := float64(remaining) * typicalWeight
	total := currentWeight + futureWeight

	final := grades.SimpleAverage(gs)
	if total != 0 {
		final = (gs.WeightedSum() + next.PredictedValue*futureWeight) / total
	}

	adjustment := 1 / (1 + float64(remaining)*remainingConfidenceDecay)
	return forecast.Prediction{
		PredictedValue: analytics.Clamp(final, MinGrade, MaxGrade),
		Confidence:     next.Confidence * adjustment,
		LowerBound:     math.Max(final-finalMargin, MinGrade),
		UpperBound:     math.Min(final+finalMargin, MaxGrade),
		Method:         forecast.MethodFinalProjection,
	}
}

// PassProbability estimates the chance of finishing at or above passingGrade
// once remainingWeight more assessment weight is graded. It is a logistic
// function of how far the required grade sits above the current average.
func PassProbability(gs analytics.Grades, remainingWeight, passingGrade float64) float64 {
	if len(gs) == 0 {
		return 0.5
	}

	currentAverage := grades.WeightedAverage(gs)
	if remainingWeight <= 0 {
		if currentAverage >= passingGrade {
			return 1
		}
		return 0
	}

	currentWeight := gs.TotalWeight()
	minNeeded := (passingGrade*(currentWeight+remainingWeight) - gs.WeightedSum()) / remainingWeight

	switch {
	case minNeeded <= MinGrade:
		return 1
	case minNeeded > MaxGrade:
		return 0
	}

	difficulty := (minNeeded - currentAverage) / passSteepness
	return 1 / (1 + math.Exp(difficulty))
}

// Priority is a study recommendation for one subject
type Priority struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// SuggestPriorities scores every subject, highest priority first. Lower
// averages, failing grades and a weak last three grades all raise the score.
// Equal scores are ordered by subject.
func SuggestPriorities(gs analytics.Grades) []Priority {
	bySubject := make(map[string]analytics.Grades)
	for _, g := range gs {
		key := strings.ToLower(g.Subject)
		bySubject[key] = append(bySubject[key], g)
	}

	priorities := make([]Priority, 0, len(bySubject))
	for subject, subjectGrades := range bySubject {
		avg := grades.SimpleAverage(subjectGrades)
		priorities = append(priorities, Priority{
			Subject: subject,
			Score:   priorityScore(avg, subjectGrades),
			Reason:  priorityReason(avg, subjectGrades),
		})
	}

	sort.Slice(priorities, func(i, j int) bool {
		if priorities[i].Score != priorities[j].Score {
			return priorities[i].Score > priorities[j].Score
		}
		return priorities[i].Subject < priorities[j].Subject
	})
	return priorities
}

func priorityScore(avg float64, gs analytics.Grades) float64 {
	score := (MaxGrade - avg) * averageWeighting
	score += float64(failingCount(gs)) * failingPenalty
	if recent, ok := recentAverage(gs); ok && recent < avg {
		score += decliningBonus
	}
	return score
}

func priorityReason(avg float64, gs analytics.Grades) string {
	if avg < analytics.PassingThreshold {
		return "Failing average - immediate attention needed"
	}
	if n := failingCount(gs); n > 0 {
		return fmt.Sprintf("%d failing grade(s) affecting average", n)
	}
	if avg < targetAverage {
		return "Below target average - room for improvement"
	}
	if recent, ok := recentAverage(gs); ok && recent < avg-declineMargin {
		return "Recent decline detected"
	}
	return "Maintain current performance"
}

func failingCount(gs analytics.Grades) int {
	n := 0
	for _, g := range gs {
		if !g.IsPassing {
			n++
		}
	}
	return n
}

// recentAverage averages the last grades in input order
func recentAverage(gs analytics.Grades) (float64, bool) {
	if len(gs) < recentWindow {
		return 0, false
	}
	return grades.SimpleAverage(gs[len(gs)-recentWindow:]), true
}
