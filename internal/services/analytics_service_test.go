package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/gradelens/internal/compression"
	"github.com/gradelens/gradelens/internal/config"
	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/metrics"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/queue"
)

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) *AnalyticsService {
	t.Helper()
	return NewAnalyticsService(logging.NewNop(), metrics.New("test"), nil, grades.DefaultScale(), 1)
}

func gradeInputs(values ...float64) []models.GradeInput {
	in := make([]models.GradeInput, len(values))
	for i, v := range values {
		in[i] = models.GradeInput{Value: ptr(v), Timestamp: ptr(int64(i+1) * 1000)}
	}
	return in
}

func floats(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func requireServiceError(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := err.(*ServiceError)
	require.True(t, ok, "expected *ServiceError, got %T", err)
	assert.Equal(t, code, svcErr.Code)
	return svcErr
}

func TestStatistics(t *testing.T) {
	s := newTestService(t)

	summary, err := s.Statistics(context.Background(), &models.ValuesRequest{Values: floats(6, 7, 8, 8)})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Count)
	assert.InDelta(t, 7.25, summary.Mean, 1e-9)
	assert.Equal(t, []float64{8}, summary.Mode)

	_, err = s.Statistics(context.Background(), &models.ValuesRequest{Values: []*float64{ptr(1.0), nil}})
	svcErr := requireServiceError(t, err, CodeInvalidField)
	assert.Equal(t, "values[1]", svcErr.Details["field"])
}

func TestPercentile(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	values := floats(1, 2, 3, 4, 5)

	resp, err := s.Percentile(ctx, &models.PercentileRequest{Values: values, Percentile: ptr(50.0)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, *resp.Value)
	assert.Nil(t, resp.Rank)

	resp, err = s.Percentile(ctx, &models.PercentileRequest{Values: values, Value: ptr(3.0)})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, *resp.Rank, 1e-9)
	assert.Nil(t, resp.Percentile)

	_, err = s.Percentile(ctx, &models.PercentileRequest{Values: values})
	requireServiceError(t, err, CodeInvalidParameter)

	_, err = s.Percentile(ctx, &models.PercentileRequest{Values: values, Percentile: ptr(101.0)})
	requireServiceError(t, err, CodeInvalidParameter)
}

func TestCorrelation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	resp, err := s.Correlation(ctx, &models.CorrelationRequest{X: floats(1, 2, 3, 4), Y: floats(2, 4, 6, 8), Lag: ptr(1)})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, resp.Correlation, 1e-9)
	require.NotNil(t, resp.Autocorrelation)
	assert.Equal(t, 1, *resp.Lag)

	_, err = s.Correlation(ctx, &models.CorrelationRequest{X: floats(1, 2), Y: floats(1)})
	svcErr := requireServiceError(t, err, CodeInvalidParameter)
	assert.Equal(t, "y", svcErr.Details["field"])

	_, err = s.Correlation(ctx, &models.CorrelationRequest{X: floats(1, 2), Y: floats(1, 2), Lag: ptr(-1)})
	requireServiceError(t, err, CodeInvalidParameter)
}

func TestSmoothing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	resp, err := s.Smoothing(ctx, &models.SmoothingRequest{Values: floats(4, 6, 8)})
	require.NoError(t, err)
	assert.Equal(t, DefaultSmoothingWindow, resp.Window)
	assert.Equal(t, DefaultSmoothingAlpha, resp.Alpha)
	assert.Equal(t, []float64{4, 5, 6}, resp.MovingAverage)
	assert.Len(t, resp.EMA, 3)
	assert.Equal(t, 4.0, resp.EMA[0])

	_, err = s.Smoothing(ctx, &models.SmoothingRequest{Values: floats(1), Window: ptr(0)})
	requireServiceError(t, err, CodeInvalidParameter)

	_, err = s.Smoothing(ctx, &models.SmoothingRequest{Values: floats(1), Alpha: ptr(1.5)})
	requireServiceError(t, err, CodeInvalidParameter)
}

func TestOutliersAndHistogram(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	out, err := s.Outliers(ctx, &models.ValuesRequest{Values: floats(7, 7, 7, 8, 8, 7, 1)})
	require.NoError(t, err)
	require.Len(t, out.Outliers, 1)
	assert.Equal(t, 1.0, out.Outliers[0].Value)
	assert.Len(t, out.ZScores, 7)

	empty, err := s.Outliers(ctx, &models.ValuesRequest{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Outliers)

	hist, err := s.Histogram(ctx, &models.HistogramRequest{Values: floats(1, 2, 3, 4), Buckets: ptr(2)})
	require.NoError(t, err)
	assert.Len(t, hist.Buckets, 2)

	_, err = s.Histogram(ctx, &models.HistogramRequest{Values: floats(1), Buckets: ptr(101)})
	requireServiceError(t, err, CodeInvalidParameter)
}

func TestTrendAndAnomalies(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	series := []json.RawMessage{
		json.RawMessage(`[0, 5]`),
		json.RawMessage(`[1, 6]`),
		json.RawMessage(`{"timestamp": 2, "value": 7}`),
	}
	model, err := s.Trend(ctx, &models.SeriesRequest{Series: series})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, model.Slope, 1e-9)

	resp, err := s.Anomalies(ctx, &models.AnomalyRequest{Series: series})
	require.NoError(t, err)
	assert.Equal(t, DefaultAnomalyAlgorithm, resp.Algorithm)
	assert.Contains(t, resp.AvailableAlgorithms, "zscore")

	_, err = s.Anomalies(ctx, &models.AnomalyRequest{Series: series, Algorithm: "prophet"})
	svcErr := requireServiceError(t, err, CodeInvalidParameter)
	assert.Equal(t, "algorithm", svcErr.Details["field"])

	_, err = s.Anomalies(ctx, &models.AnomalyRequest{Series: series, Threshold: ptr(0.0)})
	requireServiceError(t, err, CodeInvalidParameter)

	_, err = s.Trend(ctx, &models.SeriesRequest{Series: []json.RawMessage{json.RawMessage(`[1]`)}})
	requireServiceError(t, err, CodeInvalidField)
}

func TestPredictions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	history := gradeInputs(6, 7, 8)

	pred, err := s.PredictNext(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.Len(t, pred.Estimates, 3)
	assert.GreaterOrEqual(t, pred.Prediction.PredictedValue, 1.0)
	assert.LessOrEqual(t, pred.Prediction.PredictedValue, 10.0)

	eval, err := s.Evaluate(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.Equal(t, 2, eval.DataPoints)

	final, err := s.FinalProjection(ctx, &models.FinalProjectionRequest{Grades: history, Remaining: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "final_projection", string(final.Method))

	_, err = s.FinalProjection(ctx, &models.FinalProjectionRequest{Grades: history})
	svcErr := requireServiceError(t, err, CodeInvalidField)
	assert.Equal(t, "remaining", svcErr.Details["field"])

	_, err = s.FinalProjection(ctx, &models.FinalProjectionRequest{Grades: history, Remaining: ptr(-1)})
	requireServiceError(t, err, CodeInvalidParameter)

	prob, err := s.PassProbability(ctx, &models.PassProbabilityRequest{Grades: history, RemainingWeight: ptr(0.0)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, prob.Probability)
	assert.Equal(t, 5.5, prob.PassingGrade)

	prob, err = s.PassProbability(ctx, &models.PassProbabilityRequest{
		Grades: history, RemainingWeight: ptr(0.0), PassingGrade: ptr(9.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, prob.Probability)
}

func TestGradeOperations(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	history := []models.GradeInput{
		{Value: ptr(8.0), Subject: "Math", Timestamp: ptr(int64(1000))},
		{Value: ptr(4.0), Weight: ptr(2.0), Subject: "History", Timestamp: ptr(int64(2000))},
		{Value: ptr(6.0), Subject: "math", Timestamp: ptr(int64(3000))},
	}

	avg, err := s.Averages(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, avg.SimpleAverage, 1e-9)
	assert.InDelta(t, 5.5, avg.WeightedAverage, 1e-9)
	assert.Equal(t, grades.DefaultScale(), avg.Scale)

	avg, err = s.Averages(ctx, &models.GradesRequest{Grades: history, Scale: &models.ScaleInput{GPAMax: ptr(5.0)}})
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg.Scale.GPAMax)

	subjects, err := s.Subjects(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	require.Len(t, subjects.Subjects, 2)
	assert.Equal(t, "math", subjects.Best.Subject)
	assert.Equal(t, "history", subjects.Worst.Subject)

	summary, err := s.SubjectSummary(ctx, "MATH", &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.GradeCount)

	_, err = s.SubjectSummary(ctx, "Physics", &models.GradesRequest{Grades: history})
	svcErr := requireServiceError(t, err, CodeSubjectNotFound)
	assert.Equal(t, []string{"history", "math"}, svcErr.Details["available_subjects"])

	pf, err := s.PassFail(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.Equal(t, 2, pf.Passing)
	assert.Equal(t, 1, pf.Failing)

	timeline, err := s.Timeline(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.Len(t, timeline.RunningAverage, 3)
	require.Len(t, timeline.Months, 1)
	assert.Equal(t, "1970-01", timeline.Months[0].Month)

	report, err := s.Analyze(ctx, &models.GradesRequest{Grades: history})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalGrades)

	_, err = s.Analyze(ctx, &models.GradesRequest{Grades: history, Scale: &models.ScaleInput{PassingGrade: ptr(0.5)}})
	svcErr = requireServiceError(t, err, CodeInvalidField)
	assert.Equal(t, "scale.passing_grade", svcErr.Details["field"])
}

func TestGradeValueOperations(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	v, err := s.ValidateGrade(ctx, &models.GradeValueRequest{Value: ptr(10.5)})
	require.NoError(t, err)
	assert.False(t, v.Valid)

	f, err := s.FormatGrade(ctx, &models.GradeValueRequest{Value: ptr(7.25)})
	require.NoError(t, err)
	assert.Equal(t, "7,3", f.Formatted)

	f, err = s.FormatGrade(ctx, &models.GradeValueRequest{Value: ptr(7.0), Decimals: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "7,00", f.Formatted)

	_, err = s.FormatGrade(ctx, &models.GradeValueRequest{Value: ptr(7.0), Decimals: ptr(11)})
	requireServiceError(t, err, CodeInvalidParameter)

	_, err = s.FormatGrade(ctx, &models.GradeValueRequest{})
	requireServiceError(t, err, CodeInvalidField)

	p, err := s.ParseGrade(ctx, &models.ParseGradeRequest{Grade: " 6,5 "})
	require.NoError(t, err)
	assert.Equal(t, 6.5, p.Value)
	assert.True(t, p.Valid)

	_, err = s.ParseGrade(ctx, &models.ParseGradeRequest{Grade: "six"})
	svcErr := requireServiceError(t, err, CodeInvalidField)
	assert.Equal(t, "grade", svcErr.Details["field"])
}

func TestScenarioOperations(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	history := gradeInputs(6, 8)

	whatIf, err := s.WhatIf(ctx, &models.WhatIfRequest{Grades: history, Hypothetical: gradeInputs(10)})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, whatIf.CurrentAverage, 1e-9)
	assert.InDelta(t, 8.0, whatIf.NewAverage, 1e-9)

	_, err = s.WhatIf(ctx, &models.WhatIfRequest{
		Grades:       history,
		Hypothetical: []models.GradeInput{{Value: ptr(9.0), Weight: ptr(0.0), Timestamp: ptr(int64(1))}},
	})
	requireServiceError(t, err, CodeInvalidParameter)

	needed, err := s.GradeNeeded(ctx, &models.GradeNeededRequest{
		CurrentAverage: ptr(6.0), CurrentWeight: ptr(3.0), TargetAverage: ptr(7.0), NewWeight: ptr(1.0),
	})
	require.NoError(t, err)
	require.NotNil(t, needed.GradeNeeded)
	assert.InDelta(t, 10.0, *needed.GradeNeeded, 1e-9)
	assert.True(t, needed.Achievable)

	needed, err = s.GradeNeeded(ctx, &models.GradeNeededRequest{
		CurrentAverage: ptr(6.0), CurrentWeight: ptr(3.0), TargetAverage: ptr(7.0), NewWeight: ptr(0.0),
	})
	require.NoError(t, err)
	assert.Nil(t, needed.GradeNeeded)
	assert.False(t, needed.Achievable)

	_, err = s.GradeNeeded(ctx, &models.GradeNeededRequest{CurrentAverage: ptr(6.0)})
	svcErr := requireServiceError(t, err, CodeInvalidField)
	assert.Equal(t, "current_weight", svcErr.Details["field"])

	curve, err := s.Impact(ctx, &models.ImpactRequest{Grades: history})
	require.NoError(t, err)
	require.Len(t, curve, 19)
	assert.Equal(t, 1.0, curve[0].HypotheticalGrade)
	assert.InDelta(t, 5.0, curve[0].ResultingAverage, 1e-9)

	_, err = s.Impact(ctx, &models.ImpactRequest{Grades: history, Weight: ptr(0.0)})
	requireServiceError(t, err, CodeInvalidParameter)

	targets, err := s.Targets(ctx, &models.TargetsRequest{Grades: history, Subject: "none"})
	require.NoError(t, err)
	assert.Len(t, targets, 6)

	_, err = s.Targets(ctx, &models.TargetsRequest{Grades: history})
	requireServiceError(t, err, CodeInvalidParameter)

	priorities, err := s.Priorities(ctx, &models.GradesRequest{})
	require.NoError(t, err)
	assert.NotNil(t, priorities)
}

func TestOperationsPublishEvents(t *testing.T) {
	q, err := queue.NewQueue(config.EventsConfig{})
	require.NoError(t, err)

	events := NewEventPublisher(q, compression.NewSnappyCompressor(), "gradelens.analytics", logging.NewNop(), nil)
	defer func() { _ = events.Close() }()

	received := make(chan queue.Message, 1)
	require.NoError(t, q.Subscribe("gradelens.analytics.statistics", func(msg queue.Message) error {
		received <- msg
		return nil
	}))

	s := NewAnalyticsService(logging.NewNop(), nil, events, grades.DefaultScale(), 1)
	ctx := logging.WithRequestID(context.Background(), "req-1")
	_, err = s.Statistics(ctx, &models.ValuesRequest{Values: floats(5, 7)})
	require.NoError(t, err)

	select {
	case msg := <-received:
		ev, err := DecodeEvent(msg.Data)
		require.NoError(t, err)
		assert.Equal(t, OpStatistics, ev.Operation)
		assert.Equal(t, "req-1", ev.RequestID)
		assert.Equal(t, 2, ev.InputSize)
		assert.NotEmpty(t, ev.ID)
		result, ok := ev.Result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 6.0, result["mean"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRejectedOperationsDoNotPublish(t *testing.T) {
	q, err := queue.NewQueue(config.EventsConfig{})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	mq := q.(*queue.MemoryQueue)
	events := NewEventPublisher(q, nil, "gradelens.analytics", logging.NewNop(), nil)
	s := NewAnalyticsService(logging.NewNop(), nil, events, grades.DefaultScale(), 1)

	_, err = s.Smoothing(context.Background(), &models.SmoothingRequest{Window: ptr(0)})
	require.Error(t, err)
	assert.Equal(t, 0, mq.PendingCount("gradelens.analytics.smoothing"))

	_, err = s.Smoothing(context.Background(), &models.SmoothingRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, mq.PendingCount("gradelens.analytics.smoothing"))
}

func TestGradeNeededResponseIsSerializable(t *testing.T) {
	s := newTestService(t)

	resp, err := s.GradeNeeded(context.Background(), &models.GradeNeededRequest{
		CurrentAverage: ptr(6.0), CurrentWeight: ptr(3.0), TargetAverage: ptr(7.0), NewWeight: ptr(-1.0),
	})
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"grade_needed": null, "achievable": false}`, string(data))
}
