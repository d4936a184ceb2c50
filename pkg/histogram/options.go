package histogram

import (
	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/pkg/distribution"
)

// Option configures a Histogram.
type Option func(*Histogram)

// WithAxisSD fixes the standard deviation the bin geometry is computed from.
// Histograms sharing an axis SD line up pixel for pixel.
func WithAxisSD(sd float64) Option {
	return func(h *Histogram) {
		if sd > 0 {
			h.axisSD = sd
		}
	}
}

// WithoutDataset disables the synthetic dataset, for histograms that are never resampled.
func WithoutDataset() Option {
	return func(h *Histogram) {
		h.noDataset = true
	}
}

// WithEvaluator sets the family the first draw uses. Defaults to the normal density.
func WithEvaluator(evaluator distribution.Evaluator) Option {
	return func(h *Histogram) {
		if evaluator != nil {
			h.evaluator = evaluator
		}
	}
}

// WithHidden starts the histogram hidden: bars are allocated parked at the baseline.
func WithHidden(hidden bool) Option {
	return func(h *Histogram) {
		h.hidden = hidden
	}
}

// WithCanvasSize sets the pixel size of the canvas the histogram draws on.
func WithCanvasSize(width, height int) Option {
	return func(h *Histogram) {
		if width > 0 && height > 0 {
			h.canvasWidth = float64(width)
			h.canvasHeight = float64(height)
		}
	}
}

// WithOpacity sets the opacity of the bars.
func WithOpacity(opacity float64) Option {
	return func(h *Histogram) {
		if opacity > 0 && opacity <= 1 {
			h.opacity = opacity
		}
	}
}

func defaults(h *Histogram) {
	h.canvasWidth = constants.DefaultCanvasWidth
	h.canvasHeight = constants.DefaultCanvasHeight
	h.opacity = 1
	h.evaluator = distribution.NormalDensity{Scale: constants.DefaultHeightScale}
}
