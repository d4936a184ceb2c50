// Package histogram models a distribution drawn as a bar histogram.
//
// A Histogram owns its bin geometry, one bar handle per bar and the bar heights, and derives a
// synthetic dataset from its curve for resampling. It draws through a render.Adapter and never
// destroys handles during its lifetime: parameter changes transition existing bars, resets
// animate them to zero height.
//
// Bars live on one of two mutually exclusive tracks. The continuous track has one bar per bin;
// the bounded track has a fixed number of bars over the proportion domain [0, 1.1). Switching
// track clears the previous bars and draws the new ones.
package histogram

import (
	"math"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/binning"
	"github.com/hyp3rd/sampledist/pkg/distribution"
	"github.com/hyp3rd/sampledist/pkg/render"
)

// Histogram is a distribution drawn as bars. It is not safe for concurrent use.
type Histogram struct {
	adapter render.Adapter
	canvas  render.CanvasID
	id      string
	fill    string
	opacity float64

	canvasWidth  float64
	canvasHeight float64

	mean     float64
	sd       float64
	axisSD   float64
	numBins  int
	binWidth float64
	minBin   float64

	evaluator distribution.Evaluator
	track     Track
	dataset   []float64
	hidden    bool
	noDataset bool
}

// New computes the bin geometry, draws one bar per bin and builds the synthetic dataset.
func New(
	adapter render.Adapter,
	canvas render.CanvasID,
	id, fill string,
	mean, sd float64,
	numBins int,
	opts ...Option,
) (*Histogram, error) {
	if numBins <= 0 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidBinCount, "%d", numBins)
	}

	h := &Histogram{
		adapter: adapter,
		canvas:  canvas,
		id:      id,
		fill:    fill,
		mean:    mean,
		sd:      sd,
		axisSD:  sd,
		numBins: numBins,
	}

	defaults(h)

	for _, opt := range opts {
		opt(h)
	}

	h.computeGeometry()
	h.track = &ContinuousTrack{}
	h.Regenerate(true, nil)

	return h, nil
}

// ID returns the histogram identifier.
func (h *Histogram) ID() string { return h.id }

// Mean returns the distribution mean (p for the bounded family).
func (h *Histogram) Mean() float64 { return h.mean }

// SD returns the distribution standard deviation.
func (h *Histogram) SD() float64 { return h.sd }

// NumBins returns the number of continuous bins.
func (h *Histogram) NumBins() int { return h.numBins }

// BinWidth implements binning.Geometry.
func (h *Histogram) BinWidth() float64 { return h.binWidth }

// MinBin implements binning.Geometry.
func (h *Histogram) MinBin() float64 { return h.minBin }

// Hidden reports whether the bars are parked at the baseline.
func (h *Histogram) Hidden() bool { return h.hidden }

// Track returns the active track.
func (h *Histogram) Track() Track { return h.track }

// Bounded reports whether the bounded track is active.
func (h *Histogram) Bounded() bool { return h.track.Mode() == ModeBounded }

// Heights returns a copy of the bar heights of the active track.
func (h *Histogram) Heights() []float64 { return h.track.Heights() }

// Bars returns a copy of the bar handles of the active track.
func (h *Histogram) Bars() []render.BarID { return h.track.Bars() }

// Dataset returns the synthetic dataset. Callers must not modify it.
func (h *Histogram) Dataset() []float64 { return h.dataset }

// CanvasHeight returns the pixel height of the canvas.
func (h *Histogram) CanvasHeight() float64 { return h.canvasHeight }

// CanvasWidth returns the pixel width of the canvas.
func (h *Histogram) CanvasWidth() float64 { return h.canvasWidth }

// Regenerate recomputes every bar height of the continuous track from evaluator (or the last
// evaluator when nil) and rebuilds the dataset. With firstDraw the bars are drawn anew, otherwise
// the existing bars transition unless the histogram is hidden.
func (h *Histogram) Regenerate(firstDraw bool, evaluator distribution.Evaluator) {
	if evaluator != nil {
		h.evaluator = evaluator
	}

	if _, ok := h.track.(*ContinuousTrack); !ok {
		h.switchTrack(&ContinuousTrack{})

		firstDraw = true
	}

	track := h.track.(*ContinuousTrack)
	if firstDraw && track.Len() > 0 {
		h.adapter.ClearByClass(h.canvas, h.class(ModeContinuous))
	}

	barWidth := h.canvasWidth / float64(h.numBins)
	heights := make([]float64, h.numBins)
	handles := track.handles

	if firstDraw {
		handles = make([]render.BarID, h.numBins)
	}

	h.dataset = h.dataset[:0]

	for i := range h.numBins {
		value := h.minBin + float64(i+1)*h.binWidth
		height := distribution.Sanitize(h.evaluator.Evaluate(h.mean, h.sd, value))
		heights[i] = height

		y := h.canvasHeight - height

		switch {
		case firstDraw && h.hidden:
			handles[i] = h.adapter.DrawBar(h.canvas, h.class(ModeContinuous), float64(i)*barWidth, h.canvasHeight, barWidth, 0, h.fill, h.opacity)
		case firstDraw:
			handles[i] = h.adapter.DrawBar(h.canvas, h.class(ModeContinuous), float64(i)*barWidth, y, barWidth, height, h.fill, h.opacity)
		case !h.hidden:
			h.adapter.UpdateBar(handles[i], y, height)
		}

		h.expand(value, height)
	}

	track.handles = handles
	track.heights = heights
}

// UpdateParameters animates the bars to zero, adopts the new parameters and geometry and redraws:
// the continuous track from evaluator, or with bounded the fixed bar transform over proportions.
// A bin count change reallocates the continuous handles.
func (h *Histogram) UpdateParameters(mean, sd float64, numBins int, evaluator distribution.Evaluator, bounded bool) error {
	if numBins <= 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidBinCount, "%d", numBins)
	}

	h.Reset()

	resized := numBins != h.numBins

	h.mean = mean
	h.sd = sd
	h.numBins = numBins
	h.computeGeometry()

	if evaluator != nil {
		h.evaluator = evaluator
	}

	if bounded {
		h.boundedTransform()

		return nil
	}

	h.Regenerate(resized, nil)

	return nil
}

// boundedTransform draws BoundedBars bars at proportions i/(BoundedBars-1) on the bounded track.
func (h *Histogram) boundedTransform() {
	firstDraw := false

	if _, ok := h.track.(*BoundedTrack); !ok {
		h.switchTrack(&BoundedTrack{})

		firstDraw = true
	}

	track := h.track.(*BoundedTrack)
	count := constants.BoundedBars
	barWidth := h.canvasWidth / (constants.BoundedDomainMax * float64(count-1)) / 2
	heights := make([]float64, count)
	handles := track.handles

	if firstDraw {
		handles = make([]render.BarID, count)
	}

	h.dataset = h.dataset[:0]

	for i := range count {
		proportion := float64(i) / float64(count-1)
		height := distribution.Sanitize(h.evaluator.Evaluate(h.mean, h.sd, proportion))
		heights[i] = height

		x := h.PixelX(proportion)
		y := h.canvasHeight - height

		switch {
		case firstDraw && h.hidden:
			handles[i] = h.adapter.DrawBar(h.canvas, h.class(ModeBounded), x, h.canvasHeight, barWidth, 0, h.fill, h.opacity)
		case firstDraw:
			handles[i] = h.adapter.DrawBar(h.canvas, h.class(ModeBounded), x, y, barWidth, height, h.fill, h.opacity)
		case !h.hidden:
			h.adapter.UpdateBar(handles[i], y, height)
		}

		h.expand(proportion, height)
	}

	track.handles = handles
	track.heights = heights
}

// switchTrack animates the active bars to zero, removes them and installs next.
func (h *Histogram) switchTrack(next Track) {
	h.park()
	h.adapter.ClearByClass(h.canvas, h.class(h.track.Mode()))
	h.track = next
}

// Reset animates every bar of the active track to zero height, zeroes the heights and empties
// the dataset. Handles are kept. Calling it again yields the same state.
func (h *Histogram) Reset() {
	h.park()
	h.track.setHeights(make([]float64, h.track.Len()))
	h.dataset = h.dataset[:0]
}

// SetHidden parks the bars at the baseline, or regenerates them when shown again.
func (h *Histogram) SetHidden(hidden bool) {
	if hidden == h.hidden {
		return
	}

	h.hidden = hidden

	if hidden {
		h.park()

		return
	}

	h.redraw()
}

// SetParameters changes mean and standard deviation and redraws the active track.
func (h *Histogram) SetParameters(mean, sd float64) {
	h.mean = mean
	h.sd = sd
	h.computeGeometry()
	h.redraw()
}

// PixelX returns the canvas x coordinate of a value.
func (h *Histogram) PixelX(value float64) float64 {
	if h.Bounded() {
		return value / constants.BoundedDomainMax * h.canvasWidth
	}

	return (value - h.minBin) / h.binWidth * (h.canvasWidth / float64(h.numBins))
}

// State is a serializable summary of a Histogram.
type State struct {
	ID          string    `json:"id"           msgpack:"id"           codec:"id"`
	Mode        Mode      `json:"mode"         msgpack:"mode"         codec:"mode"`
	Mean        float64   `json:"mean"         msgpack:"mean"         codec:"mean"`
	SD          float64   `json:"sd"           msgpack:"sd"           codec:"sd"`
	NumBins     int       `json:"num_bins"     msgpack:"num_bins"     codec:"num_bins"`
	BinWidth    float64   `json:"bin_width"    msgpack:"bin_width"    codec:"bin_width"`
	MinBin      float64   `json:"min_bin"      msgpack:"min_bin"      codec:"min_bin"`
	Hidden      bool      `json:"hidden"       msgpack:"hidden"       codec:"hidden"`
	DatasetSize int       `json:"dataset_size" msgpack:"dataset_size" codec:"dataset_size"`
	Heights     []float64 `json:"heights"      msgpack:"heights"      codec:"heights"`
}

// State returns a copy of the histogram state.
func (h *Histogram) State() State {
	return State{
		ID:          h.id,
		Mode:        h.track.Mode(),
		Mean:        h.mean,
		SD:          h.sd,
		NumBins:     h.numBins,
		BinWidth:    h.binWidth,
		MinBin:      h.minBin,
		Hidden:      h.hidden,
		DatasetSize: len(h.dataset),
		Heights:     h.track.Heights(),
	}
}

func (h *Histogram) redraw() {
	if h.Bounded() {
		h.boundedTransform()

		return
	}

	h.Regenerate(false, nil)
}

// park moves every bar of the active track to the baseline.
func (h *Histogram) park() {
	for _, bar := range h.track.handleList() {
		h.adapter.UpdateBar(bar, h.canvasHeight, 0)
	}
}

func (h *Histogram) computeGeometry() {
	h.binWidth = binning.BinWidth(h.numBins, h.axisSD, constants.NumSDs)
	h.minBin = binning.MinBin(h.numBins, h.mean, h.binWidth)
}

// expand appends round(height) copies of value to the dataset.
func (h *Histogram) expand(value, height float64) {
	if h.noDataset {
		return
	}

	copies := int(math.Round(height))
	for range copies {
		h.dataset = append(h.dataset, value)
	}
}

func (h *Histogram) class(mode Mode) string {
	if mode == ModeBounded {
		return "bounded" + h.id
	}

	return "histogram" + h.id
}

// Class returns the bar class of the active track.
func (h *Histogram) Class() string {
	return h.class(h.track.Mode())
}

var _ binning.Geometry = (*Histogram)(nil)
