package sampling

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/binning"
	"github.com/hyp3rd/sampledist/pkg/distribution"
)

func TestSample_Errors(t *testing.T) {
	s := NewSampler(1)

	_, err := s.Sample([]float64{1, 2}, 0)
	if !errors.Is(err, sentinel.ErrInvalidSampleSize) {
		t.Fatalf("expected ErrInvalidSampleSize, got %v", err)
	}

	_, err = s.Sample(nil, 5)
	if !errors.Is(err, sentinel.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}

	assert.Equal(t, uint64(0), s.Seq())
}

func TestSample_DrawsFromDataset(t *testing.T) {
	dataset := []float64{100, 100, 100, 100, 100, 110, 110, 110, 110, 110}
	s := NewSampler(42)

	sample, err := s.Sample(dataset, 25)
	assert.Nil(t, err)
	assert.Equal(t, 25, len(sample))

	for _, v := range sample {
		if v != 100 && v != 110 {
			t.Fatalf("value %v is not in the dataset", v)
		}
	}

	mean := Mean(sample)
	assert.True(t, mean >= 100 && mean <= 110)

	// the SDM bin map of a 1000 bin, sd 10 histogram around 100 covers [70, 130)
	m := binning.NewMap(geometryOf(70, 0.06), 100, 10, distribution.Normal)
	bins := make(binning.Bins, len(m))

	res, err := binning.Classify(bins, m, mean)
	assert.Nil(t, err)

	rounded := binning.Round(mean, 5)
	assert.True(t, rounded >= binning.Round(m[res.Index].Lower, 5))
	assert.True(t, rounded < binning.Round(m[res.Index].Upper, 5))
}

func TestSample_Reproducible(t *testing.T) {
	dataset := make([]float64, 1000)
	for i := range dataset {
		dataset[i] = float64(i)
	}

	a, b := NewSampler(7), NewSampler(7)

	first, err := a.Sample(dataset, 50)
	assert.Nil(t, err)

	second, err := b.Sample(dataset, 50)
	assert.Nil(t, err)
	assert.Equal(t, first, second)

	// consecutive samples use different streams
	third, err := a.Sample(dataset, 50)
	assert.Nil(t, err)
	assert.False(t, slices.Equal(first, third))
}

func TestSeedFor(t *testing.T) {
	hi1, lo1 := SeedFor(1, 1)
	hi2, lo2 := SeedFor(1, 2)
	hi3, lo3 := SeedFor(2, 1)

	assert.True(t, hi1 != hi2 || lo1 != lo2)
	assert.True(t, hi1 != hi3 || lo1 != lo3)

	hi, lo := SeedFor(1, 1)
	assert.Equal(t, hi1, hi)
	assert.Equal(t, lo1, lo)
}

func TestMeanAndStandardDeviation(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.Equal(t, 5.0, Mean(values))
	// sum of squares 32, n-1 = 7
	assert.True(t, math.Abs(StandardDeviation(values)-math.Sqrt(32.0/7)) < 1e-12)

	assert.Equal(t, 0.0, StandardDeviation([]float64{3}))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 3.14, Round(3.14159, 2))
}

func TestRepeat(t *testing.T) {
	var sizes []int

	completed, err := Repeat(context.Background(), 12, 5, func(_ context.Context, size int) (int, error) {
		sizes = append(sizes, size)

		return size, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 12, completed)
	assert.Equal(t, []int{5, 5, 2}, sizes)
}

func TestRepeat_StopsEarly(t *testing.T) {
	completed, err := Repeat(context.Background(), 25, 5, func(_ context.Context, size int) (int, error) {
		return size - 2, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 3, completed)

	boom := errors.New("boom")

	completed, err = Repeat(context.Background(), 25, 5, func(_ context.Context, size int) (int, error) {
		return 1, boom
	})
	assert.Equal(t, 1, completed)
	assert.True(t, errors.Is(err, boom))

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	completed, err = Repeat(ctx, 25, 5, func(_ context.Context, size int) (int, error) {
		calls++
		cancel()

		return size, nil
	})
	assert.Equal(t, 5, completed)
	assert.Equal(t, 1, calls)

	if !errors.Is(err, sentinel.ErrTimeoutOrCanceled) {
		t.Fatalf("expected ErrTimeoutOrCanceled, got %v", err)
	}
}

type fixedGeometry struct{ min, width float64 }

func (g fixedGeometry) MinBin() float64   { return g.min }
func (g fixedGeometry) BinWidth() float64 { return g.width }

func geometryOf(minBin, width float64) binning.Geometry {
	return fixedGeometry{min: minBin, width: width}
}
