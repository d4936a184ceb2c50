package distribution

import (
	"math"

	"github.com/hyp3rd/ewrap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
)

// Evaluator returns the bar height of a family at x, given its mean and shape parameter
// (the standard deviation for continuous families).
type Evaluator interface {
	Evaluate(mean, shape, x float64) float64
}

// EvaluatorFunc is an adapter to use a plain function as an Evaluator.
type EvaluatorFunc func(mean, shape, x float64) float64

// Evaluate calls f(mean, shape, x).
func (f EvaluatorFunc) Evaluate(mean, shape, x float64) float64 {
	return f(mean, shape, x)
}

// NormalDensity is the Gaussian density scaled into pixel heights.
type NormalDensity struct {
	Scale float64
}

// Evaluate returns Scale times the normal density at x.
func (d NormalDensity) Evaluate(mean, sd, x float64) float64 {
	if sd <= 0 {
		return 0
	}

	return Sanitize(d.Scale * distuv.Normal{Mu: mean, Sigma: sd}.Prob(x))
}

// UniformDensity is the uniform density with the given mean and standard deviation,
// supported on [mean - sqrt(3)*sd, mean + sqrt(3)*sd].
type UniformDensity struct {
	Scale float64
}

// Evaluate returns the constant height inside the support and zero outside.
func (d UniformDensity) Evaluate(mean, sd, x float64) float64 {
	if sd <= 0 {
		return 0
	}

	halfWidth := math.Sqrt(3) * sd

	return Sanitize(d.Scale * distuv.Uniform{Min: mean - halfWidth, Max: mean + halfWidth}.Prob(x))
}

// BoundedMass is the binomial probability mass of a proportion x in [0, 1].
type BoundedMass struct {
	Scale  float64
	Trials int
}

// Evaluate returns Scale times P(K = round(x*Trials)) for K ~ Binomial(Trials, p).
// The shape parameter is not used: the spread is fixed by p and the number of trials.
func (d BoundedMass) Evaluate(p, _, x float64) float64 {
	if d.Trials < 1 || x < 0 || x > 1 || p < 0 || p > 1 {
		return 0
	}

	k := math.Round(x * float64(d.Trials))

	return Sanitize(d.Scale * distuv.Binomial{N: float64(d.Trials), P: p}.Prob(k))
}

// Sanitize clamps non-finite and negative heights to zero so invalid geometry never reaches a renderer.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	return v
}

type settings struct {
	scale         float64
	boundedScale  float64
	boundedTrials int
}

// Option configures the evaluators returned by For.
type Option func(*settings)

// WithScale sets the pixel scale of continuous densities.
func WithScale(scale float64) Option {
	return func(s *settings) {
		if scale > 0 {
			s.scale = scale
		}
	}
}

// WithBoundedScale sets the pixel scale of the bounded probability masses.
func WithBoundedScale(scale float64) Option {
	return func(s *settings) {
		if scale > 0 {
			s.boundedScale = scale
		}
	}
}

// WithBoundedTrials sets the number of Bernoulli trials behind the bounded family.
func WithBoundedTrials(trials int) Option {
	return func(s *settings) {
		if trials > 0 {
			s.boundedTrials = trials
		}
	}
}

// For returns the Evaluator of a family.
func For(kind Kind, opts ...Option) (Evaluator, error) {
	cfg := settings{
		scale:         constants.DefaultHeightScale,
		boundedScale:  constants.DefaultBoundedHeightScale,
		boundedTrials: constants.BoundedBars - 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch kind {
	case Normal, NormalNarrow:
		return NormalDensity{Scale: cfg.scale}, nil
	case Uniform:
		return UniformDensity{Scale: cfg.scale}, nil
	case Bounded:
		return BoundedMass{Scale: cfg.boundedScale, Trials: cfg.boundedTrials}, nil
	default:
		return nil, ewrap.Wrap(sentinel.ErrUnknownDistribution, kind.String())
	}
}
