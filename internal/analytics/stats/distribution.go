package stats

import "math"

// histogramEdgeNudge widens the last bucket so the maximum falls inside it
const histogramEdgeNudge = 0.001

// tieTolerance is the distance within which values count as equal for ranking
const tieTolerance = 0.001

// Bucket is one histogram bin covering [Start, End)
type Bucket struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram splits data into equal-width buckets. When all values are equal a
// single bucket [min, max] holds everything.
func Histogram(data []float64, numBuckets int) []Bucket {
	if len(data) == 0 || numBuckets <= 0 {
		return []Bucket{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if math.Abs(hi-lo) < epsilon {
		return []Bucket{{Start: lo, End: hi, Count: len(data)}}
	}

	size := (hi - lo) / float64(numBuckets)
	buckets := make([]Bucket, numBuckets)
	for i := range buckets {
		start := lo + float64(i)*size
		end := start + size
		if i == numBuckets-1 {
			end = hi + histogramEdgeNudge
		}
		buckets[i] = Bucket{Start: start, End: end}
	}

	for _, v := range data {
		idx := int(math.Floor((v - lo) / size))
		if idx > numBuckets-1 {
			idx = numBuckets - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

// ValuePercentile returns the percentile rank (0-100) of value within data
// using the mid-rank convention: values strictly below count fully, values
// within 0.001 count half.
func ValuePercentile(data []float64, value float64) float64 {
	if len(data) == 0 {
		return 0
	}

	below, equal := 0, 0
	for _, v := range data {
		if v < value {
			below++
		}
		if math.Abs(v-value) < tieTolerance {
			equal++
		}
	}
	return (float64(below) + 0.5*float64(equal)) / float64(len(data)) * 100
}
