package grades

import (
	"math"
	"sort"
	"strings"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/analytics/forecast"
	"github.com/gradelens/gradelens/internal/analytics/trend"
)

const (
	attentionAverage = 6.0
	attentionSlope   = -0.1
)

// SubjectSummary aggregates one subject's grades
type SubjectSummary struct {
	Subject         string  `json:"subject"`
	Average         float64 `json:"average"`
	WeightedAverage float64 `json:"weighted_average"`
	GradeCount      int     `json:"grade_count"`
	TotalWeight     float64 `json:"total_weight"`
	Highest         float64 `json:"highest"`
	Lowest          float64 `json:"lowest"`
	PassingCount    int     `json:"passing_count"`
	FailingCount    int     `json:"failing_count"`
	Trend           float64 `json:"trend"`
	PredictedNext   float64 `json:"predicted_next"`
}

// Summarize builds the summary of the grades matching subject
// case-insensitively. An unknown subject yields a zero summary.
func Summarize(gs analytics.Grades, subject string) SubjectSummary {
	subjectGrades := gs.BySubject(subject)
	summary := SubjectSummary{Subject: subject}
	if len(subjectGrades) == 0 {
		return summary
	}

	summary.Average = SimpleAverage(subjectGrades)
	summary.WeightedAverage = WeightedAverage(subjectGrades)
	summary.GradeCount = len(subjectGrades)
	summary.TotalWeight = subjectGrades.TotalWeight()

	summary.Highest, summary.Lowest = math.Inf(-1), math.Inf(1)
	for _, g := range subjectGrades {
		summary.Highest = math.Max(summary.Highest, g.Value)
		summary.Lowest = math.Min(summary.Lowest, g.Value)
		if g.IsPassing {
			summary.PassingCount++
		}
	}
	summary.FailingCount = summary.GradeCount - summary.PassingCount

	if len(subjectGrades) >= 2 {
		summary.Trend = trend.Analyze(subjectGrades.SortedByTime().Series()).Slope
	}
	summary.PredictedNext = forecast.PredictNext(subjectGrades).PredictedValue

	return summary
}

// SubjectKeys returns the distinct lower-cased subjects in ascending order
func SubjectKeys(gs analytics.Grades) []string {
	seen := make(map[string]struct{})
	for _, g := range gs {
		seen[strings.ToLower(g.Subject)] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AllSubjectSummaries summarizes every subject, ordered by subject key
func AllSubjectSummaries(gs analytics.Grades) []SubjectSummary {
	keys := SubjectKeys(gs)
	summaries := make([]SubjectSummary, 0, len(keys))
	for _, k := range keys {
		summaries = append(summaries, Summarize(gs, k))
	}
	return summaries
}

// ExtremeSubjects returns the subjects with the highest and lowest weighted
// average. Both are nil when there are no grades; ties keep the first subject
// in key order.
func ExtremeSubjects(gs analytics.Grades) (best, worst *SubjectSummary) {
	summaries := AllSubjectSummaries(gs)
	for i := range summaries {
		s := &summaries[i]
		if best == nil || s.WeightedAverage > best.WeightedAverage {
			best = s
		}
		if worst == nil || s.WeightedAverage < worst.WeightedAverage {
			worst = s
		}
	}
	return best, worst
}

// AttentionNeeded lists subjects averaging below 6.0 or trending down by
// more than 0.1 per timestamp unit.
func AttentionNeeded(gs analytics.Grades) []SubjectSummary {
	out := []SubjectSummary{}
	for _, s := range AllSubjectSummaries(gs) {
		if s.WeightedAverage < attentionAverage || s.Trend < attentionSlope {
			out = append(out, s)
		}
	}
	return out
}
