package grades

import (
	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/analytics/forecast"
	"github.com/gradelens/gradelens/internal/analytics/stats"
	"github.com/gradelens/gradelens/internal/analytics/trend"
)

// PassFailStats tallies passing and failing grades. Rates are percentages.
type PassFailStats struct {
	Total          int     `json:"total"`
	Passing        int     `json:"passing"`
	Failing        int     `json:"failing"`
	PassRate       float64 `json:"pass_rate"`
	FailRate       float64 `json:"fail_rate"`
	AveragePassing float64 `json:"average_passing"`
	AverageFailing float64 `json:"average_failing"`
}

// PassFail splits grades on their IsPassing flag
func PassFail(gs analytics.Grades) PassFailStats {
	if len(gs) == 0 {
		return PassFailStats{}
	}

	var passing, failing analytics.Grades
	for _, g := range gs {
		if g.IsPassing {
			passing = append(passing, g)
		} else {
			failing = append(failing, g)
		}
	}

	total := float64(len(gs))
	return PassFailStats{
		Total:          len(gs),
		Passing:        len(passing),
		Failing:        len(failing),
		PassRate:       float64(len(passing)) / total * 100,
		FailRate:       float64(len(failing)) / total * 100,
		AveragePassing: SimpleAverage(passing),
		AverageFailing: SimpleAverage(failing),
	}
}

// Report is the complete analysis of a grade list
type Report struct {
	OverallAverage  float64               `json:"overall_average"`
	WeightedAverage float64               `json:"weighted_average"`
	GPA             float64               `json:"gpa"`
	TotalGrades     int                   `json:"total_grades"`
	PassingGrades   int                   `json:"passing_grades"`
	FailingGrades   int                   `json:"failing_grades"`
	PassRate        float64               `json:"pass_rate"`
	Subjects        []SubjectSummary      `json:"subjects"`
	Statistics      stats.Summary         `json:"statistics"`
	Trend           trend.Model           `json:"trend"`
	Predictions     []forecast.Prediction `json:"predictions"`
	Outliers        []stats.Outlier       `json:"outliers"`
}

// Analyze builds the full report. The overall trend is fitted on the
// time-sorted history; Predictions follow the order of Subjects.
func Analyze(gs analytics.Grades, scale Scale) Report {
	if len(gs) == 0 {
		return Report{
			Subjects:    []SubjectSummary{},
			Statistics:  stats.Calculate(nil),
			Trend:       trend.Analyze(nil),
			Predictions: []forecast.Prediction{},
			Outliers:    []stats.Outlier{},
		}
	}

	pf := PassFail(gs)
	subjects := AllSubjectSummaries(gs)

	predictions := make([]forecast.Prediction, len(subjects))
	for i, s := range subjects {
		predictions[i] = forecast.PredictNext(gs.BySubject(s.Subject))
	}

	values := gs.Values()
	return Report{
		OverallAverage:  SimpleAverage(gs),
		WeightedAverage: WeightedAverage(gs),
		GPA:             GPA(gs, scale),
		TotalGrades:     len(gs),
		PassingGrades:   pf.Passing,
		FailingGrades:   pf.Failing,
		PassRate:        pf.PassRate,
		Subjects:        subjects,
		Statistics:      stats.Calculate(values),
		Trend:           trend.Analyze(gs.SortedByTime().Series()),
		Predictions:     predictions,
		Outliers:        stats.DetectOutliers(values),
	}
}
