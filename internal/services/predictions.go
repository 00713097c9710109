package services

import (
	"context"
	"math"
	"time"

	"github.com/gradelens/gradelens/internal/analytics/forecast"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/scenario"
)

// PredictNext forecasts the next grade and lists the blended estimates
func (s *AnalyticsService) PredictNext(ctx context.Context, req *models.GradesRequest) (*models.PredictionResponse, error) {
	start := time.Now()

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpPredictNext, len(req.Grades), start, err)
	}

	resp := &models.PredictionResponse{
		Prediction: forecast.PredictNext(gs),
		Estimates:  forecast.Estimates(gs),
	}
	s.done(ctx, OpPredictNext, len(gs), start, resp)
	return resp, nil
}

// Evaluate replays the history to measure one-step-ahead prediction error
func (s *AnalyticsService) Evaluate(ctx context.Context, req *models.GradesRequest) (*forecast.Evaluation, error) {
	start := time.Now()

	gs, _, err := s.decodeGrades(req.Grades, req.Scale)
	if err != nil {
		return nil, s.fail(ctx, OpEvaluate, len(req.Grades), start, err)
	}

	eval := forecast.Evaluate(gs)
	s.done(ctx, OpEvaluate, len(gs), start, eval)
	return &eval, nil
}

// FinalProjection projects the final average after the remaining assessments
func (s *AnalyticsService) FinalProjection(ctx context.Context, req *models.FinalProjectionRequest) (*forecast.Prediction, error) {
	start := time.Now()
	size := len(req.Grades)

	gs, err := models.DecodeGrades(req.Grades, s.scale.PassingGrade, "grades")
	if err != nil {
		return nil, s.fail(ctx, OpFinalProjection, size, start, err)
	}
	if req.Remaining == nil {
		return nil, s.fail(ctx, OpFinalProjection, size, start,
			&models.DecodeError{Field: "remaining", Reason: "is required"})
	}
	if *req.Remaining < 0 {
		return nil, s.fail(ctx, OpFinalProjection, size, start,
			invalidParameter("remaining", "must not be negative"))
	}

	weight := 1.0
	if req.TypicalWeight != nil {
		weight = *req.TypicalWeight
	}
	if weight < 0 || math.IsInf(weight, 0) {
		return nil, s.fail(ctx, OpFinalProjection, size, start,
			invalidParameter("typical_weight", "must not be negative"))
	}

	prediction := scenario.PredictFinal(gs, *req.Remaining, weight)
	s.done(ctx, OpFinalProjection, size, start, prediction)
	return &prediction, nil
}

// PassProbability estimates the chance of finishing at or above the passing
// grade.
func (s *AnalyticsService) PassProbability(ctx context.Context, req *models.PassProbabilityRequest) (*models.PassProbabilityResponse, error) {
	start := time.Now()
	size := len(req.Grades)

	passing := s.scale.PassingGrade
	if req.PassingGrade != nil {
		passing = *req.PassingGrade
	}

	gs, err := models.DecodeGrades(req.Grades, passing, "grades")
	if err != nil {
		return nil, s.fail(ctx, OpPassProbability, size, start, err)
	}
	if req.RemainingWeight == nil {
		return nil, s.fail(ctx, OpPassProbability, size, start,
			&models.DecodeError{Field: "remaining_weight", Reason: "is required"})
	}

	resp := &models.PassProbabilityResponse{
		Probability:  scenario.PassProbability(gs, *req.RemainingWeight, passing),
		PassingGrade: passing,
	}
	s.done(ctx, OpPassProbability, size, start, resp)
	return resp, nil
}
