package stats

// OutlierFence is the IQR multiplier for the Tukey fences
const OutlierFence = 1.5

// Outlier is a value outside the IQR fences with its original position
type Outlier struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Fences returns the lower and upper IQR fences of data
func Fences(data []float64) (lower, upper float64) {
	s := Calculate(data)
	return s.Percentile25 - OutlierFence*s.IQR, s.Percentile75 + OutlierFence*s.IQR
}

// DetectOutliers returns the values outside [p25-1.5*IQR, p75+1.5*IQR] in
// order of appearance. Fewer than four points never produce outliers.
func DetectOutliers(data []float64) []Outlier {
	outliers := []Outlier{}
	if len(data) < 4 {
		return outliers
	}

	lower, upper := Fences(data)
	for i, v := range data {
		if v < lower || v > upper {
			outliers = append(outliers, Outlier{Index: i, Value: v})
		}
	}
	return outliers
}
