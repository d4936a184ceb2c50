package stats

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Series is the running list of sample means of a session. It is not safe for concurrent use.
type Series struct {
	values []float64
}

// Add appends a sample mean.
func (s *Series) Add(v float64) {
	s.values = append(s.values, v)
}

// Len returns the number of recorded means.
func (s *Series) Len() int {
	return len(s.values)
}

// Reset drops every recorded mean.
func (s *Series) Reset() {
	s.values = s.values[:0]
}

// Values returns a copy of the recorded means.
func (s *Series) Values() []float64 {
	return slices.Clone(s.values)
}

// Summary describes the empirical sampling distribution of the mean.
type Summary struct {
	Count int     `json:"count" msgpack:"count" codec:"count"`
	Mean  float64 `json:"mean"  msgpack:"mean"  codec:"mean"`
	SD    float64 `json:"sd"    msgpack:"sd"    codec:"sd"`
}

// Summary returns the mean and the standard deviation (n-1 denominator) of the recorded means.
func (s *Series) Summary() Summary {
	out := Summary{Count: len(s.values)}

	switch len(s.values) {
	case 0:
	case 1:
		out.Mean = s.values[0]
	default:
		out.Mean, out.SD = stat.MeanStdDev(s.values, nil)
	}

	return out
}
