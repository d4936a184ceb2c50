// Package binning maps continuous values onto discrete bins.
//
// It computes the bin geometry of a histogram (width and lower bound), the coarser bin map
// used to animate sample means, and classifies a value into exactly one bin of that map.
// Classification rounds the value and the bin edges to RoundingPlaces decimals and treats every
// bin as the half-open interval [lower, upper): a value on an upper edge always lands in the
// next bin, so no value is ever counted twice.
package binning

import (
	"math"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/distribution"
)

// Geometry is the bin layout of a histogram.
type Geometry interface {
	// MinBin returns the lower bound of the first bin.
	MinBin() float64
	// BinWidth returns the numerical width of one bin.
	BinWidth() float64
}

// Interval is a half-open bin [Lower, Upper).
type Interval struct {
	Lower float64 `json:"lower" msgpack:"lower" codec:"lower"`
	Upper float64 `json:"upper" msgpack:"upper" codec:"upper"`
}

// Contains reports whether v lies in [Lower, Upper).
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lower && v < iv.Upper
}

// Map is an ordered, contiguous sequence of intervals.
type Map []Interval

// Span returns the lower edge of the first interval and the upper edge of the last one.
func (m Map) Span() (lower, upper float64) {
	if len(m) == 0 {
		return 0, 0
	}

	return m[0].Lower, m[len(m)-1].Upper
}

// Bins holds one counter per interval of a Map.
type Bins []int

// Max returns the largest count.
func (b Bins) Max() int {
	highest := 0
	for _, c := range b {
		if c > highest {
			highest = c
		}
	}

	return highest
}

// Total returns the sum of all counts.
func (b Bins) Total() int {
	total := 0
	for _, c := range b {
		total += c
	}

	return total
}

// Result describes where Classify placed a value.
type Result struct {
	Index int     `json:"index" msgpack:"index" codec:"index"`
	Lower float64 `json:"lower" msgpack:"lower" codec:"lower"`
	Count int     `json:"count" msgpack:"count" codec:"count"`
}

// BinWidth returns the width of one of numBins bins spanning numSDs standard deviations.
func BinWidth(numBins int, sd, numSDs float64) float64 {
	return (numSDs / float64(numBins)) * sd
}

// MinBin returns the lower bound of the first of numBins bins centered on mean.
func MinBin(numBins int, mean, width float64) float64 {
	return mean - (float64(numBins)/2)*width
}

// NewBins returns numBins/modifier zeroed animation bins.
func NewBins(numBins, modifier int) (Bins, error) {
	if numBins <= 0 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidBinCount, "%d", numBins)
	}

	if modifier < 1 || numBins%modifier != 0 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidModifier, "%d does not divide %d", modifier, numBins)
	}

	return make(Bins, numBins/modifier), nil
}

// NewMap builds count intervals. The default layout starts at the geometry's lower bound and
// widens each histogram bin by modifier; the bounded layout splits [0, 1.1) into count equal
// parts rounded to RoundingPlaces decimals, independent of the geometry.
func NewMap(g Geometry, count, modifier int, kind distribution.Kind) Map {
	if count <= 0 {
		return Map{}
	}

	edges := make([]float64, count+1)

	if kind.IsBounded() {
		step := constants.BoundedDomainMax / float64(count)
		for i := range edges {
			edges[i] = Round(float64(i)*step, constants.RoundingPlaces)
		}
	} else {
		step := g.BinWidth() * float64(modifier)
		for i := range edges {
			edges[i] = g.MinBin() + float64(i)*step
		}
	}

	m := make(Map, count)
	for i := range m {
		m[i] = Interval{Lower: edges[i], Upper: edges[i+1]}
	}

	return m
}

// Classify finds the bin of value, increments its count and reports it.
// On failure bins is left untouched.
func Classify(bins Bins, m Map, value float64) (Result, error) {
	if len(bins) != len(m) {
		return Result{}, ewrap.Wrapf(sentinel.ErrBinMapMismatch, "%d bins, %d intervals", len(bins), len(m))
	}

	v := Round(value, constants.RoundingPlaces)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{}, ewrap.Wrapf(sentinel.ErrUnclassifiable, "value %v", value)
	}

	for i, iv := range m {
		lower := Round(iv.Lower, constants.RoundingPlaces)
		upper := Round(iv.Upper, constants.RoundingPlaces)

		if v < lower {
			// intervals ascend, so nothing further can match
			break
		}

		if v >= upper {
			// on or past the upper edge: the next bin's lower edge takes it
			continue
		}

		bins[i]++

		return Result{Index: i, Lower: iv.Lower, Count: bins[i]}, nil
	}

	return Result{}, ewrap.Wrapf(sentinel.ErrUnclassifiable, "value %v", value)
}

// SafeBinLimits rounds a pixel position up to the next multiple of width and steps back one
// pixel, so animated bars snap to the animation grid.
func SafeBinLimits(pixel, width float64) int {
	if width <= 0 {
		return int(math.Ceil(pixel)) - 1
	}

	// round the quotient first: 1.1/0.1 must not ceil to 12
	slots := math.Ceil(Round(pixel/width, 9))

	return int(math.Round(slots*width)) - 1
}

// Index returns the histogram bin of value: floor((value - min) / width).
func Index(value, minBin, width float64) int {
	return int(math.Floor((value - minBin) / width))
}

// Count bins raw values onto a histogram with numBins bins; values outside the histogram are dropped.
func Count(values []float64, minBin, width float64, numBins int) []int {
	counts := make([]int, numBins)

	for _, v := range values {
		i := Index(v, minBin, width)
		if i < 0 || i >= numBins {
			continue
		}

		counts[i]++
	}

	return counts
}

// Round rounds v to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))

	return math.Round(v*p) / p
}
