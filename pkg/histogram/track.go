package histogram

import (
	"slices"

	"github.com/hyp3rd/sampledist/pkg/render"
)

// Mode names the layout of a Track.
type Mode string

// Constants for the track layouts.
const (
	ModeContinuous Mode = "continuous"
	ModeBounded    Mode = "bounded"
)

// Track is the active bar track of a histogram: exactly one of *ContinuousTrack or *BoundedTrack.
// Heights and bars always have the same length.
type Track interface {
	// Mode returns the layout of the track.
	Mode() Mode
	// Heights returns a copy of the bar heights.
	Heights() []float64
	// Bars returns a copy of the bar handles.
	Bars() []render.BarID
	// Len returns the number of bars.
	Len() int

	handleList() []render.BarID
	setHeights(heights []float64)
}

type barSet struct {
	heights []float64
	handles []render.BarID
}

// Heights implements Track.
func (b *barSet) Heights() []float64 {
	return slices.Clone(b.heights)
}

// Bars implements Track.
func (b *barSet) Bars() []render.BarID {
	return slices.Clone(b.handles)
}

// Len implements Track.
func (b *barSet) Len() int {
	return len(b.handles)
}

func (b *barSet) handleList() []render.BarID {
	return b.handles
}

func (b *barSet) setHeights(heights []float64) {
	b.heights = heights
}

// ContinuousTrack draws one bar per histogram bin.
type ContinuousTrack struct {
	barSet
}

// Mode implements Track.
func (*ContinuousTrack) Mode() Mode { return ModeContinuous }

// BoundedTrack draws a fixed number of bars over the proportion domain.
type BoundedTrack struct {
	barSet
}

// Mode implements Track.
func (*BoundedTrack) Mode() Mode { return ModeBounded }
