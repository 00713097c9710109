package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/scenario"
)

// WhatIf compares the current average with the average after adding
// hypothetical grades.
func (s *AnalyticsService) WhatIf(ctx context.Context, req *models.WhatIfRequest) (*scenario.WhatIfResult, error) {
	start := time.Now()
	size := len(req.Grades) + len(req.Hypothetical)

	gs, err := models.DecodeGrades(req.Grades, s.scale.PassingGrade, "grades")
	if err != nil {
		return nil, s.fail(ctx, OpWhatIf, size, start, err)
	}
	hypothetical, err := models.DecodeGrades(req.Hypothetical, s.scale.PassingGrade, "hypothetical")
	if err != nil {
		return nil, s.fail(ctx, OpWhatIf, size, start, err)
	}
	// The first hypothetical weight is reused for the follow-up assessment
	if len(hypothetical) > 0 && hypothetical[0].Weight == 0 {
		return nil, s.fail(ctx, OpWhatIf, size, start,
			invalidParameter("hypothetical[0].weight", "must be positive"))
	}

	result := scenario.WhatIf(gs, hypothetical)
	s.done(ctx, OpWhatIf, size, start, result)
	return &result, nil
}

// GradeNeeded solves for the grade that lifts the current average to the
// target. The grade is null when the new weight is not positive.
func (s *AnalyticsService) GradeNeeded(ctx context.Context, req *models.GradeNeededRequest) (*models.GradeNeededResponse, error) {
	start := time.Now()

	required := []struct {
		field string
		value *float64
	}{
		{"current_average", req.CurrentAverage},
		{"current_weight", req.CurrentWeight},
		{"target_average", req.TargetAverage},
		{"new_weight", req.NewWeight},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, s.fail(ctx, OpGradeNeeded, 1, start,
				&models.DecodeError{Field: r.field, Reason: "is required"})
		}
	}
	if *req.CurrentWeight < 0 {
		return nil, s.fail(ctx, OpGradeNeeded, 1, start,
			invalidParameter("current_weight", "must not be negative"))
	}

	needed := scenario.CalculateGradeNeeded(*req.CurrentAverage, *req.CurrentWeight, *req.TargetAverage, *req.NewWeight)
	resp := &models.GradeNeededResponse{Achievable: scenario.Achievable(needed)}
	if !math.IsNaN(needed) {
		resp.GradeNeeded = &needed
	}

	s.done(ctx, OpGradeNeeded, 1, start, resp)
	return resp, nil
}

// Impact sweeps hypothetical grades from 1 to 10 and reports the resulting
// average. With a subject only that subject's grades count.
func (s *AnalyticsService) Impact(ctx context.Context, req *models.ImpactRequest) ([]scenario.ImpactEntry, error) {
	start := time.Now()

	gs, err := models.DecodeGrades(req.Grades, s.scale.PassingGrade, "grades")
	if err != nil {
		return nil, s.fail(ctx, OpImpact, len(req.Grades), start, err)
	}
	weight, err := positiveWeight(req.Weight)
	if err != nil {
		return nil, s.fail(ctx, OpImpact, len(gs), start, err)
	}

	var curve []scenario.ImpactEntry
	if subject := strings.TrimSpace(req.Subject); subject != "" {
		curve = scenario.SubjectImpact(gs, subject, weight)
	} else {
		curve = scenario.ImpactCurve(grades.WeightedAverage(gs), gs.TotalWeight(), weight)
	}

	s.done(ctx, OpImpact, len(gs), start, curve)
	return curve, nil
}

// Targets computes the grade needed on one subject for each target average
func (s *AnalyticsService) Targets(ctx context.Context, req *models.TargetsRequest) ([]scenario.GradeNeeded, error) {
	start := time.Now()

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, s.fail(ctx, OpTargets, len(req.Grades), start,
			invalidParameter("subject", "is required"))
	}

	gs, err := models.DecodeGrades(req.Grades, s.scale.PassingGrade, "grades")
	if err != nil {
		return nil, s.fail(ctx, OpTargets, len(req.Grades), start, err)
	}
	weight, err := positiveWeight(req.Weight)
	if err != nil {
		return nil, s.fail(ctx, OpTargets, len(gs), start, err)
	}

	targets := req.Targets
	if len(targets) == 0 {
		targets = scenario.DefaultTargets
	}

	needed := scenario.GradesForTargets(gs, subject, weight, targets)
	s.done(ctx, OpTargets, len(gs), start, needed)
	return needed, nil
}

// Priorities ranks subjects by how much study attention they need
func (s *AnalyticsService) Priorities(ctx context.Context, req *models.GradesRequest) ([]scenario.Priority, error) {
	start := time.Now()

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpPriorities, len(req.Grades), start, err)
	}

	priorities := scenario.SuggestPriorities(gs)
	if priorities == nil {
		priorities = []scenario.Priority{}
	}
	s.done(ctx, OpPriorities, len(gs), start, priorities)
	return priorities, nil
}

// positiveWeight applies the default weight of 1 and rejects weights that
// would divide by zero.
func positiveWeight(w *float64) (float64, error) {
	if w == nil {
		return 1.0, nil
	}
	if *w <= 0 || math.IsInf(*w, 0) {
		return 0, invalidParameter("weight", "must be positive")
	}
	return *w, nil
}
