package services

import (
	"context"
	"strings"
	"time"

	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/utils"
)

// Analyze builds the full report for a grade history
func (s *AnalyticsService) Analyze(ctx context.Context, req *models.GradesRequest) (*grades.Report, error) {
	start := time.Now()

	gs, scale, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpAnalyze, len(req.Grades), start, err)
	}

	report := grades.Analyze(gs, scale)
	s.done(ctx, OpAnalyze, len(gs), start, report)
	return &report, nil
}

// Averages returns the simple and weighted averages and the GPA
func (s *AnalyticsService) Averages(ctx context.Context, req *models.GradesRequest) (*models.AveragesResponse, error) {
	start := time.Now()

	gs, scale, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpAverages, len(req.Grades), start, err)
	}

	resp := &models.AveragesResponse{
		SimpleAverage:   grades.SimpleAverage(gs),
		WeightedAverage: grades.WeightedAverage(gs),
		GPA:             grades.GPA(gs, scale),
		Scale:           scale,
	}
	s.done(ctx, OpAverages, len(gs), start, resp)
	return resp, nil
}

// Subjects summarizes every subject and picks out the best, the worst and
// those needing attention.
func (s *AnalyticsService) Subjects(ctx context.Context, req *models.GradesRequest) (*models.SubjectsResponse, error) {
	start := time.Now()

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpSubjects, len(req.Grades), start, err)
	}

	best, worst := grades.ExtremeSubjects(gs)
	resp := &models.SubjectsResponse{
		Subjects:        grades.AllSubjectSummaries(gs),
		Best:            best,
		Worst:           worst,
		AttentionNeeded: grades.AttentionNeeded(gs),
	}
	s.done(ctx, OpSubjects, len(gs), start, resp)
	return resp, nil
}

// SubjectSummary summarizes one subject, matched case-insensitively
func (s *AnalyticsService) SubjectSummary(ctx context.Context, subject string, req *models.GradesRequest) (*grades.SubjectSummary, error) {
	start := time.Now()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, s.fail(ctx, OpSubjectSummary, len(req.Grades), start,
			invalidParameter("subject", "is required"))
	}

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpSubjectSummary, len(req.Grades), start, err)
	}
	if len(gs.BySubject(subject)) == 0 {
		return nil, s.fail(ctx, OpSubjectSummary, len(gs), start,
			NewServiceErrorWithDetails(CodeSubjectNotFound, "no grades for subject "+subject, map[string]interface{}{
				"subject":            subject,
				"available_subjects": grades.SubjectKeys(gs),
			}))
	}

	summary := grades.Summarize(gs, subject)
	s.done(ctx, OpSubjectSummary, len(gs), start, summary)
	return &summary, nil
}

// PassFail tallies passing and failing grades
func (s *AnalyticsService) PassFail(ctx context.Context, req *models.GradesRequest) (*grades.PassFailStats, error) {
	start := time.Now()

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpPassFail, len(req.Grades), start, err)
	}

	pf := grades.PassFail(gs)
	s.done(ctx, OpPassFail, len(gs), start, pf)
	return &pf, nil
}

// Timeline returns the running average, monthly groups, the grade
// distribution and the improvement between the first and last quarter.
func (s *AnalyticsService) Timeline(ctx context.Context, req *models.GradesRequest) (*models.TimelineResponse, error) {
	start := time.Now()

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpTimeline, len(req.Grades), start, err)
	}

	resp := &models.TimelineResponse{
		RunningAverage: grades.RunningAverage(gs),
		Months:         grades.GroupByMonth(gs),
		Distribution:   grades.Distribution(gs),
		Improvement:    grades.Improvement(gs),
	}
	s.done(ctx, OpTimeline, len(gs), start, resp)
	return resp, nil
}

// ValidateGrade reports whether a value lies on the 1-10 scale
func (s *AnalyticsService) ValidateGrade(ctx context.Context, req *models.GradeValueRequest) (*models.ValidateGradeResponse, error) {
	start := time.Now()

	if req.Value == nil {
		return nil, s.fail(ctx, OpValidateGrade, 0, start,
			&models.DecodeError{Field: "value", Reason: "is required"})
	}

	resp := &models.ValidateGradeResponse{Value: *req.Value, Valid: utils.ValidGrade(*req.Value)}
	s.done(ctx, OpValidateGrade, 1, start, resp)
	return resp, nil
}

// FormatGrade renders a value with a comma decimal separator
func (s *AnalyticsService) FormatGrade(ctx context.Context, req *models.GradeValueRequest) (*models.FormatGradeResponse, error) {
	start := time.Now()

	if req.Value == nil {
		return nil, s.fail(ctx, OpFormatGrade, 0, start,
			&models.DecodeError{Field: "value", Reason: "is required"})
	}

	decimals := s.decimals
	if req.Decimals != nil {
		decimals = *req.Decimals
	}
	if decimals < 0 || decimals > utils.MaxDecimals {
		return nil, s.fail(ctx, OpFormatGrade, 1, start,
			invalidParameter("decimals", "must be between 0 and 10"))
	}

	resp := &models.FormatGradeResponse{Value: *req.Value, Formatted: utils.FormatGrade(*req.Value, decimals)}
	s.done(ctx, OpFormatGrade, 1, start, resp)
	return resp, nil
}

// ParseGrade reads a grade written with a comma or a period
func (s *AnalyticsService) ParseGrade(ctx context.Context, req *models.ParseGradeRequest) (*models.ParseGradeResponse, error) {
	start := time.Now()

	v, err := utils.ParseGrade(req.Grade)
	if err != nil {
		return nil, s.fail(ctx, OpParseGrade, 1, start,
			&models.DecodeError{Field: "grade", Reason: err.Error()})
	}

	resp := &models.ParseGradeResponse{Grade: req.Grade, Value: v, Valid: utils.ValidGrade(v)}
	s.done(ctx, OpParseGrade, 1, start, resp)
	return resp, nil
}
