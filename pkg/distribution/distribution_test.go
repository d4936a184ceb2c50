package distribution

import (
	"errors"
	"math"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

const eps = 1e-9

func TestNormalDensity_PeakAndSymmetry(t *testing.T) {
	d := NormalDensity{Scale: 2000}

	peak := d.Evaluate(100, 10, 100)
	want := 2000 / (10 * math.Sqrt(2*math.Pi))
	assert.True(t, math.Abs(peak-want) < eps)

	assert.True(t, math.Abs(d.Evaluate(100, 10, 90)-d.Evaluate(100, 10, 110)) < eps)
	assert.True(t, d.Evaluate(100, 10, 130) < peak)
	assert.Equal(t, 0.0, d.Evaluate(100, 0, 100))
}

func TestUniformDensity_ConstantInsideSupport(t *testing.T) {
	d := UniformDensity{Scale: 2000}
	halfWidth := math.Sqrt(3) * 10
	want := 2000 / (2 * halfWidth)

	for _, x := range []float64{100 - halfWidth + 0.01, 95, 100, 117} {
		assert.True(t, math.Abs(d.Evaluate(100, 10, x)-want) < eps)
	}

	assert.Equal(t, 0.0, d.Evaluate(100, 10, 100-halfWidth-0.01))
	assert.Equal(t, 0.0, d.Evaluate(100, 10, 100+halfWidth+0.01))
}

func TestBoundedMass_SumsToScale(t *testing.T) {
	d := BoundedMass{Scale: 150, Trials: 9}

	var total float64
	for k := 0; k <= 9; k++ {
		total += d.Evaluate(0.1, 0.3, float64(k)/9)
	}

	assert.True(t, math.Abs(total-150) < 1e-6)

	// P(K=0) = 0.9^9
	assert.True(t, math.Abs(d.Evaluate(0.1, 0.3, 0)-150*math.Pow(0.9, 9)) < 1e-9)
	assert.Equal(t, 0.0, d.Evaluate(0.1, 0.3, 1.2))
	assert.Equal(t, 0.0, d.Evaluate(0.1, 0.3, -0.1))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, 0.0, Sanitize(math.NaN()))
	assert.Equal(t, 0.0, Sanitize(math.Inf(1)))
	assert.Equal(t, 0.0, Sanitize(-3))
	assert.Equal(t, 4.5, Sanitize(4.5))
}

func TestFor_Dispatch(t *testing.T) {
	e, err := For(Normal)
	assert.Nil(t, err)
	_, ok := e.(NormalDensity)
	assert.True(t, ok)

	e, err = For(Uniform, WithScale(10))
	assert.Nil(t, err)
	assert.Equal(t, UniformDensity{Scale: 10}, e)

	e, err = For(Bounded, WithBoundedScale(50), WithBoundedTrials(4))
	assert.Nil(t, err)
	assert.Equal(t, BoundedMass{Scale: 50, Trials: 4}, e)

	_, err = For(Kind("cauchy"))
	if !errors.Is(err, sentinel.ErrUnknownDistribution) {
		t.Fatalf("expected ErrUnknownDistribution, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"normal":        Normal,
		"Normal3":       NormalNarrow,
		"normal-narrow": NormalNarrow,
		" uniform ":     Uniform,
		"binomial":      Bounded,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("poisson")
	if !errors.Is(err, sentinel.ErrUnknownDistribution) {
		t.Fatalf("expected ErrUnknownDistribution, got %v", err)
	}
}

func TestKind_Capabilities(t *testing.T) {
	assert.True(t, Normal.SupportsSDM())
	assert.True(t, NormalNarrow.SupportsSDM())
	assert.False(t, Uniform.SupportsSDM())
	assert.False(t, Bounded.SupportsSDM())
	assert.True(t, Bounded.IsBounded())

	assert.Equal(t, Parameters{Mean: 100, SD: 2}, Family(NormalNarrow))
	assert.Equal(t, Parameters{Mean: 0.10, SD: 0.30}, Family(Bounded))
}
