package models

import (
	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/analytics/anomaly"
	"github.com/gradelens/gradelens/internal/analytics/forecast"
	"github.com/gradelens/gradelens/internal/analytics/stats"
	"github.com/gradelens/gradelens/internal/grades"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// VersionResponse represents version response
type VersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// PercentileResponse represents percentile response
type PercentileResponse struct {
	Percentile *float64 `json:"percentile,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Rank       *float64 `json:"rank,omitempty"`
}

// CorrelationResponse represents correlation response
type CorrelationResponse struct {
	Correlation     float64  `json:"correlation"`
	Autocorrelation *float64 `json:"autocorrelation,omitempty"`
	Lag             *int     `json:"lag,omitempty"`
}

// SmoothingResponse represents smoothing response
type SmoothingResponse struct {
	Window        int       `json:"window"`
	Alpha         float64   `json:"alpha"`
	MovingAverage []float64 `json:"moving_average"`
	EMA           []float64 `json:"ema"`
}

// OutliersResponse represents outlier detection response
type OutliersResponse struct {
	Outliers               []stats.Outlier `json:"outliers"`
	LowerFence             float64         `json:"lower_fence"`
	UpperFence             float64         `json:"upper_fence"`
	ZScores                []float64       `json:"z_scores"`
	CoefficientOfVariation float64         `json:"coefficient_of_variation"`
}

// HistogramResponse represents histogram response
type HistogramResponse struct {
	Buckets []stats.Bucket `json:"buckets"`
}

// AnomalyResponse represents anomaly detection response
type AnomalyResponse struct {
	Algorithm           string            `json:"algorithm"`
	Anomalies           []anomaly.Anomaly `json:"anomalies"`
	AvailableAlgorithms []string          `json:"available_algorithms"`
}

// PredictionResponse represents next-grade prediction response
type PredictionResponse struct {
	Prediction forecast.Prediction   `json:"prediction"`
	Estimates  []forecast.Prediction `json:"estimates"`
}

// AveragesResponse represents averages response
type AveragesResponse struct {
	SimpleAverage   float64      `json:"simple_average"`
	WeightedAverage float64      `json:"weighted_average"`
	GPA             float64      `json:"gpa"`
	Scale           grades.Scale `json:"scale"`
}

// SubjectsResponse represents all-subjects response
type SubjectsResponse struct {
	Subjects        []grades.SubjectSummary `json:"subjects"`
	Best            *grades.SubjectSummary  `json:"best"`
	Worst           *grades.SubjectSummary  `json:"worst"`
	AttentionNeeded []grades.SubjectSummary `json:"attention_needed"`
}

// TimelineResponse represents timeline response
type TimelineResponse struct {
	RunningAverage analytics.TimeSeries        `json:"running_average"`
	Months         []grades.MonthGroup         `json:"months"`
	Distribution   []grades.DistributionBucket `json:"distribution"`
	Improvement    float64                     `json:"improvement"`
}

// GradeNeededResponse represents grade-needed response. GradeNeeded is null
// when the new weight is not positive.
type GradeNeededResponse struct {
	GradeNeeded *float64 `json:"grade_needed"`
	Achievable  bool     `json:"achievable"`
}

// PassProbabilityResponse represents pass probability response
type PassProbabilityResponse struct {
	Probability  float64 `json:"probability"`
	PassingGrade float64 `json:"passing_grade"`
}

// ValidateGradeResponse represents grade validation response
type ValidateGradeResponse struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// FormatGradeResponse represents grade formatting response
type FormatGradeResponse struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// ParseGradeResponse represents grade parsing response
type ParseGradeResponse struct {
	Grade string  `json:"grade"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
