package services

import (
	"context"
	"math"
	"time"

	"github.com/gradelens/gradelens/internal/analytics/anomaly"
	"github.com/gradelens/gradelens/internal/analytics/stats"
	"github.com/gradelens/gradelens/internal/analytics/trend"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/utils"
)

// Defaults for optional statistics parameters
const (
	DefaultSmoothingWindow  = 3
	DefaultSmoothingAlpha   = 0.3
	DefaultHistogramBuckets = 10
	DefaultAnomalyAlgorithm = "auto"
)

// Statistics computes the descriptive summary of a value list
func (s *AnalyticsService) Statistics(ctx context.Context, req *models.ValuesRequest) (*stats.Summary, error) {
	start := time.Now()

	values, err := models.DecodeValues(req.Values, "values")
	if err != nil {
		return nil, s.fail(ctx, OpStatistics, len(req.Values), start, err)
	}

	summary := stats.Calculate(values)
	s.done(ctx, OpStatistics, len(values), start, summary)
	return &summary, nil
}

// Percentile returns the value at a percentile and/or the percentile rank of
// a value.
func (s *AnalyticsService) Percentile(ctx context.Context, req *models.PercentileRequest) (*models.PercentileResponse, error) {
	start := time.Now()

	values, err := models.DecodeValues(req.Values, "values")
	if err != nil {
		return nil, s.fail(ctx, OpPercentile, len(req.Values), start, err)
	}
	if req.Percentile == nil && req.Value == nil {
		return nil, s.fail(ctx, OpPercentile, len(values), start,
			invalidParameter("percentile", "percentile or value is required"))
	}

	resp := &models.PercentileResponse{}
	if req.Percentile != nil {
		p := *req.Percentile
		if p < 0 || p > 100 {
			return nil, s.fail(ctx, OpPercentile, len(values), start,
				invalidParameter("percentile", "must be between 0 and 100"))
		}
		v := stats.Percentile(values, p)
		resp.Percentile = &p
		resp.Value = &v
	}
	if req.Value != nil {
		rank := stats.ValuePercentile(values, *req.Value)
		resp.Rank = &rank
		if resp.Value == nil {
			resp.Value = req.Value
		}
	}

	s.done(ctx, OpPercentile, len(values), start, resp)
	return resp, nil
}

// Correlation returns the Pearson correlation of x and y, plus the
// autocorrelation of x when a lag is given.
func (s *AnalyticsService) Correlation(ctx context.Context, req *models.CorrelationRequest) (*models.CorrelationResponse, error) {
	start := time.Now()
	size := len(req.X)

	x, err := models.DecodeValues(req.X, "x")
	if err != nil {
		return nil, s.fail(ctx, OpCorrelation, size, start, err)
	}
	y, err := models.DecodeValues(req.Y, "y")
	if err != nil {
		return nil, s.fail(ctx, OpCorrelation, size, start, err)
	}
	if len(x) != len(y) {
		return nil, s.fail(ctx, OpCorrelation, size, start,
			invalidParameter("y", "must have the same length as x"))
	}

	resp := &models.CorrelationResponse{Correlation: stats.Correlation(x, y)}
	if req.Lag != nil {
		if *req.Lag < 0 {
			return nil, s.fail(ctx, OpCorrelation, size, start,
				invalidParameter("lag", "must not be negative"))
		}
		ac := stats.Autocorrelation(x, *req.Lag)
		resp.Autocorrelation = &ac
		resp.Lag = req.Lag
	}

	s.done(ctx, OpCorrelation, size, start, resp)
	return resp, nil
}

// Smoothing returns the trailing moving average and the EMA of a value list
func (s *AnalyticsService) Smoothing(ctx context.Context, req *models.SmoothingRequest) (*models.SmoothingResponse, error) {
	start := time.Now()

	values, err := models.DecodeValues(req.Values, "values")
	if err != nil {
		return nil, s.fail(ctx, OpSmoothing, len(req.Values), start, err)
	}

	window := DefaultSmoothingWindow
	if req.Window != nil {
		window = *req.Window
	}
	if window < 1 {
		return nil, s.fail(ctx, OpSmoothing, len(values), start,
			invalidParameter("window", "must be at least 1"))
	}

	alpha := DefaultSmoothingAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	if alpha < 0 || alpha > 1 {
		return nil, s.fail(ctx, OpSmoothing, len(values), start,
			invalidParameter("alpha", "must be between 0 and 1"))
	}

	resp := &models.SmoothingResponse{
		Window:        window,
		Alpha:         alpha,
		MovingAverage: stats.MovingAverage(values, window),
		EMA:           stats.EMA(values, alpha),
	}
	s.done(ctx, OpSmoothing, len(values), start, resp)
	return resp, nil
}

// Outliers flags values outside the IQR fences and reports their z-scores
func (s *AnalyticsService) Outliers(ctx context.Context, req *models.ValuesRequest) (*models.OutliersResponse, error) {
	start := time.Now()

	values, err := models.DecodeValues(req.Values, "values")
	if err != nil {
		return nil, s.fail(ctx, OpOutliers, len(req.Values), start, err)
	}

	lower, upper := stats.Fences(values)
	resp := &models.OutliersResponse{
		Outliers:               stats.DetectOutliers(values),
		LowerFence:             lower,
		UpperFence:             upper,
		ZScores:                stats.ZScores(values),
		CoefficientOfVariation: stats.CoefficientOfVariation(values),
	}
	if resp.Outliers == nil {
		resp.Outliers = []stats.Outlier{}
	}
	if resp.ZScores == nil {
		resp.ZScores = []float64{}
	}

	s.done(ctx, OpOutliers, len(values), start, resp)
	return resp, nil
}

// Histogram buckets values into equal-width bins
func (s *AnalyticsService) Histogram(ctx context.Context, req *models.HistogramRequest) (*models.HistogramResponse, error) {
	start := time.Now()

	values, err := models.DecodeValues(req.Values, "values")
	if err != nil {
		return nil, s.fail(ctx, OpHistogram, len(req.Values), start, err)
	}

	buckets := DefaultHistogramBuckets
	if req.Buckets != nil {
		buckets = *req.Buckets
	}
	if buckets < 1 || buckets > utils.MaxHistogramBuckets {
		return nil, s.fail(ctx, OpHistogram, len(values), start,
			invalidParameter("buckets", "must be between 1 and 100"))
	}

	resp := &models.HistogramResponse{Buckets: stats.Histogram(values, buckets)}
	if resp.Buckets == nil {
		resp.Buckets = []stats.Bucket{}
	}
	s.done(ctx, OpHistogram, len(values), start, resp)
	return resp, nil
}

// Trend fits a line through a time series in the order given
func (s *AnalyticsService) Trend(ctx context.Context, req *models.SeriesRequest) (*trend.Model, error) {
	start := time.Now()

	series, err := models.DecodeSeries(req.Series, "series")
	if err != nil {
		return nil, s.fail(ctx, OpTrend, len(req.Series), start, err)
	}

	model := trend.Analyze(series)
	s.done(ctx, OpTrend, len(series), start, model)
	return &model, nil
}

// Anomalies runs an anomaly detector over a time series
func (s *AnalyticsService) Anomalies(ctx context.Context, req *models.AnomalyRequest) (*models.AnomalyResponse, error) {
	start := time.Now()

	series, err := models.DecodeSeries(req.Series, "series")
	if err != nil {
		return nil, s.fail(ctx, OpAnomalies, len(req.Series), start, err)
	}

	cfg := anomaly.DefaultConfig()
	if req.Threshold != nil {
		if *req.Threshold <= 0 || math.IsInf(*req.Threshold, 0) {
			return nil, s.fail(ctx, OpAnomalies, len(series), start,
				invalidParameter("threshold", "must be positive"))
		}
		cfg.Threshold = *req.Threshold
	}
	if req.WindowSize != nil {
		if *req.WindowSize < 2 {
			return nil, s.fail(ctx, OpAnomalies, len(series), start,
				invalidParameter("window_size", "must be at least 2"))
		}
		cfg.WindowSize = *req.WindowSize
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = DefaultAnomalyAlgorithm
	}

	anomalies, err := anomaly.DetectAnomalies(algorithm, series, cfg)
	if err != nil {
		return nil, s.fail(ctx, OpAnomalies, len(series), start,
			NewServiceErrorWithDetails(CodeInvalidParameter, err.Error(), map[string]interface{}{
				"field":                "algorithm",
				"available_algorithms": anomaly.ListDetectors(),
			}))
	}

	resp := &models.AnomalyResponse{
		Algorithm:           algorithm,
		Anomalies:           anomalies,
		AvailableAlgorithms: anomaly.ListDetectors(),
	}
	s.done(ctx, OpAnomalies, len(series), start, resp)
	return resp, nil
}
