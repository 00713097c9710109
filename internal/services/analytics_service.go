package services

import (
	"context"
	"time"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/metrics"
	"github.com/gradelens/gradelens/internal/models"
)

// Operation names. They label metrics and form the last element of event
// subjects.
const (
	OpStatistics      = "statistics"
	OpPercentile      = "percentile"
	OpCorrelation     = "correlation"
	OpSmoothing       = "smoothing"
	OpOutliers        = "outliers"
	OpHistogram       = "histogram"
	OpTrend           = "trend"
	OpAnomalies       = "anomalies"
	OpPredictNext     = "predict_next"
	OpEvaluate        = "evaluate"
	OpFinalProjection = "final_projection"
	OpPassProbability = "pass_probability"
	OpAnalyze         = "analyze"
	OpAverages        = "averages"
	OpSubjects        = "subjects"
	OpSubjectSummary  = "subject_summary"
	OpPassFail        = "pass_fail"
	OpTimeline        = "timeline"
	OpWhatIf          = "whatif"
	OpGradeNeeded     = "grade_needed"
	OpImpact          = "impact"
	OpTargets         = "targets"
	OpPriorities      = "priorities"
	OpValidateGrade   = "validate_grade"
	OpFormatGrade     = "format_grade"
	OpParseGrade      = "parse_grade"
)

// Operations lists every operation name
var Operations = []string{
	OpStatistics, OpPercentile, OpCorrelation, OpSmoothing, OpOutliers,
	OpHistogram, OpTrend, OpAnomalies, OpPredictNext, OpEvaluate,
	OpFinalProjection, OpPassProbability, OpAnalyze, OpAverages, OpSubjects,
	OpSubjectSummary, OpPassFail, OpTimeline, OpWhatIf, OpGradeNeeded,
	OpImpact, OpTargets, OpPriorities, OpValidateGrade, OpFormatGrade,
	OpParseGrade,
}

// AnalyticsService runs the analytics operations behind the HTTP API
type AnalyticsService struct {
	logger   *logging.Logger
	metrics  *metrics.Metrics
	events   *EventPublisher
	scale    grades.Scale
	decimals int
}

// NewAnalyticsService creates a new AnalyticsService. scale is the default
// grading scale; decimals is the default for grade formatting. metrics and
// events may be nil.
func NewAnalyticsService(
	logger *logging.Logger,
	m *metrics.Metrics,
	events *EventPublisher,
	scale grades.Scale,
	decimals int,
) *AnalyticsService {
	return &AnalyticsService{
		logger:   logger,
		metrics:  m,
		events:   events,
		scale:    scale,
		decimals: decimals,
	}
}

// Scale returns the default grading scale
func (s *AnalyticsService) Scale() grades.Scale {
	return s.scale
}

// done records a successful operation and publishes its event
func (s *AnalyticsService) done(ctx context.Context, op string, size int, start time.Time, result interface{}) {
	d := time.Since(start)
	s.metrics.ObserveOperation(op, size, nil, d)
	s.logger.WithContext(ctx).Debug("Analytics operation completed",
		"operation", op, "input_size", size, "duration", d)

	_ = s.events.Publish(ctx, Event{
		Operation:  op,
		RequestID:  logging.RequestID(ctx),
		InputSize:  size,
		DurationMs: float64(d.Microseconds()) / 1000,
		Result:     result,
	})
}

// fail records a rejected operation and converts err into a ServiceError
func (s *AnalyticsService) fail(ctx context.Context, op string, size int, start time.Time, err error) *ServiceError {
	svcErr := FromDecodeError(err)
	s.metrics.ObserveOperation(op, size, svcErr, time.Since(start))
	s.logger.WithContext(ctx).Debug("Analytics operation rejected",
		"operation", op, "code", svcErr.Code, "error", svcErr.Message)
	return svcErr
}

// decodeGrades decodes a grade list against scale's passing grade
func (s *AnalyticsService) decodeGrades(in []models.GradeInput, scaleIn *models.ScaleInput) (analytics.Grades, grades.Scale, error) {
	scale, err := models.DecodeScale(scaleIn, s.scale, "scale")
	if err != nil {
		return nil, scale, err
	}
	gs, err := models.DecodeGrades(in, scale.PassingGrade, "grades")
	return gs, scale, err
}
