package models

import "encoding/json"

// ValuesRequest carries a plain list of values
type ValuesRequest struct {
	Values []*float64 `json:"values"`
}

// PercentileRequest asks for the value at Percentile and, when Value is set,
// the percentile rank of Value.
type PercentileRequest struct {
	Values     []*float64 `json:"values"`
	Percentile *float64   `json:"percentile,omitempty"`
	Value      *float64   `json:"value,omitempty"`
}

// CorrelationRequest correlates X with Y. Lag adds the autocorrelation of X.
type CorrelationRequest struct {
	X   []*float64 `json:"x"`
	Y   []*float64 `json:"y"`
	Lag *int       `json:"lag,omitempty"`
}

// SmoothingRequest carries the window for the moving average and the alpha
// for the exponential moving average.
type SmoothingRequest struct {
	Values []*float64 `json:"values"`
	Window *int       `json:"window,omitempty"`
	Alpha  *float64   `json:"alpha,omitempty"`
}

// HistogramRequest buckets values into Buckets equal-width bins
type HistogramRequest struct {
	Values  []*float64 `json:"values"`
	Buckets *int       `json:"buckets,omitempty"`
}

// SeriesRequest carries a time series as pairs or objects
type SeriesRequest struct {
	Series []json.RawMessage `json:"series"`
}

// AnomalyRequest selects an anomaly detector and its sensitivity
type AnomalyRequest struct {
	Series     []json.RawMessage `json:"series"`
	Algorithm  string            `json:"algorithm,omitempty"`
	Threshold  *float64          `json:"threshold,omitempty"`
	WindowSize *int              `json:"window_size,omitempty"`
}

// GradesRequest carries a grade history and an optional scale override
type GradesRequest struct {
	Grades []GradeInput `json:"grades"`
	Scale  *ScaleInput  `json:"scale,omitempty"`
}

// FinalProjectionRequest projects the final average over Remaining more
// assessments of TypicalWeight each.
type FinalProjectionRequest struct {
	Grades        []GradeInput `json:"grades"`
	Remaining     *int         `json:"remaining"`
	TypicalWeight *float64     `json:"typical_weight,omitempty"`
}

// PassProbabilityRequest estimates the chance of passing once RemainingWeight
// more weight is graded. PassingGrade defaults to the configured scale.
type PassProbabilityRequest struct {
	Grades          []GradeInput `json:"grades"`
	RemainingWeight *float64     `json:"remaining_weight"`
	PassingGrade    *float64     `json:"passing_grade,omitempty"`
}

// WhatIfRequest adds hypothetical grades to a history
type WhatIfRequest struct {
	Grades       []GradeInput `json:"grades"`
	Hypothetical []GradeInput `json:"hypothetical"`
}

// GradeNeededRequest solves for the grade that lifts the current average to
// the target.
type GradeNeededRequest struct {
	CurrentAverage *float64 `json:"current_average"`
	CurrentWeight  *float64 `json:"current_weight"`
	TargetAverage  *float64 `json:"target_average"`
	NewWeight      *float64 `json:"new_weight"`
}

// ImpactRequest sweeps hypothetical grades of Weight. Without a subject the
// whole history is used.
type ImpactRequest struct {
	Grades  []GradeInput `json:"grades"`
	Subject string       `json:"subject,omitempty"`
	Weight  *float64     `json:"weight,omitempty"`
}

// TargetsRequest computes the grade needed on one subject per target
type TargetsRequest struct {
	Grades  []GradeInput `json:"grades"`
	Subject string       `json:"subject"`
	Weight  *float64     `json:"weight,omitempty"`
	Targets []float64    `json:"targets,omitempty"`
}

// GradeValueRequest carries a single grade value
type GradeValueRequest struct {
	Value    *float64 `json:"value"`
	Decimals *int     `json:"decimals,omitempty"`
}

// ParseGradeRequest carries a grade written with a comma or period
type ParseGradeRequest struct {
	Grade string `json:"grade"`
}
