// Package anomaly flags unusual grades in a time series.
package anomaly

import (
	"fmt"
	"sort"

	"github.com/gradelens/gradelens/internal/analytics"
)

// AnomalyType represents the type of anomaly detected
type AnomalyType string

const (
	AnomalyTypeSpike    AnomalyType = "spike"    // Unusually high grade
	AnomalyTypeDrop     AnomalyType = "drop"     // Unusually low grade
	AnomalyTypeOutlier  AnomalyType = "outlier"  // Outside the normal range
	AnomalyTypeFlatline AnomalyType = "flatline" // Every grade identical
)

// Anomaly is a detected anomaly tied back to its grade
type Anomaly struct {
	Index     int         `json:"index"`
	Timestamp int64       `json:"timestamp"`
	Value     float64     `json:"value"`
	Expected  *Range      `json:"expected,omitempty"`
	Score     float64     `json:"score"`     // How anomalous (higher = more abnormal)
	Type      AnomalyType `json:"type"`      // Type of anomaly
	Algorithm string      `json:"algorithm"` // Which algorithm detected it
}

// Range represents expected value range
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DataPoint is an alias to the shared analytics.TimeSeriesPoint type.
type DataPoint = analytics.TimeSeriesPoint

// DetectorConfig holds configuration for anomaly detection
type DetectorConfig struct {
	// Threshold for detection sensitivity (e.g., number of std deviations for Z-Score)
	Threshold float64

	// WindowSize for moving average/window-based algorithms
	WindowSize int

	// MinDataPoints minimum number of points required for detection
	MinDataPoints int
}

// DefaultConfig returns defaults sized for a term's worth of grades
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		Threshold:     2.0,
		WindowSize:    5,
		MinDataPoints: 4,
	}
}

// AnomalyDetector interface for all anomaly detection algorithms
type AnomalyDetector interface {
	// Name returns the algorithm name
	Name() string

	// Detect finds anomalies in the given data points
	Detect(data []DataPoint, config DetectorConfig) []AnomalyResult
}

// AnomalyResult contains detection result for a single point
type AnomalyResult struct {
	Index    int         // Index in original data
	Score    float64     // Anomaly score
	Type     AnomalyType // Type of anomaly
	Expected *Range      // Expected range
}

// Registry holds available anomaly detectors
var detectorRegistry = make(map[string]AnomalyDetector)

// RegisterDetector adds a detector to the registry
func RegisterDetector(name string, detector AnomalyDetector) {
	detectorRegistry[name] = detector
}

// GetDetector returns a detector by name
func GetDetector(name string) (AnomalyDetector, error) {
	if detector, ok := detectorRegistry[name]; ok {
		return detector, nil
	}
	return nil, fmt.Errorf("unknown anomaly detector: %s", name)
}

// ListDetectors returns the registered detector names, sorted
func ListDetectors() []string {
	names := make([]string, 0, len(detectorRegistry))
	for name := range detectorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectAnomalies runs the named detector and resolves each result back to
// the timestamp and value it refers to.
func DetectAnomalies(algorithm string, data []DataPoint, config DetectorConfig) ([]Anomaly, error) {
	detector, err := GetDetector(algorithm)
	if err != nil {
		return nil, err
	}

	results := detector.Detect(data, config)
	anomalies := make([]Anomaly, 0, len(results))
	for _, r := range results {
		anomalies = append(anomalies, Anomaly{
			Index:     r.Index,
			Timestamp: data[r.Index].Timestamp,
			Value:     data[r.Index].Value,
			Expected:  r.Expected,
			Score:     r.Score,
			Type:      r.Type,
			Algorithm: detector.Name(),
		})
	}
	return anomalies, nil
}

func values(data []DataPoint) []float64 {
	return analytics.TimeSeries(data).Values()
}
