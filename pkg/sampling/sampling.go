// Package sampling draws random samples from a synthetic dataset and summarizes them.
//
// Every sample is drawn from its own PCG stream, seeded from the session seed and the sample's
// sequence number, so samples never share generator state and a session can be replayed.
package sampling

import (
	"context"
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/hyp3rd/ewrap"
	"gonum.org/v1/gonum/stat"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

// Sampler draws samples with replacement. It is not safe for concurrent use.
type Sampler struct {
	seed uint64
	seq  uint64
}

// NewSampler returns a Sampler whose streams derive from seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{seed: seed}
}

// Seq returns the number of samples drawn so far.
func (s *Sampler) Seq() uint64 {
	return s.seq
}

// Sample draws n values uniformly at random, with replacement, from dataset.
func (s *Sampler) Sample(dataset []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidSampleSize, "%d", n)
	}

	if len(dataset) == 0 {
		return nil, ewrap.Wrapf(sentinel.ErrEmptyDataset, "sample of %d", n)
	}

	s.seq++
	hi, lo := SeedFor(s.seed, s.seq)
	rng := rand.New(rand.NewPCG(hi, lo))

	out := make([]float64, n)
	for i := range out {
		out[i] = dataset[rng.IntN(len(dataset))]
	}

	return out, nil
}

// SeedFor derives the PCG seed of the seq-th sample of a session.
func SeedFor(sessionSeed, seq uint64) (hi, lo uint64) {
	var buf [16]byte

	binary.LittleEndian.PutUint64(buf[:8], sessionSeed)
	binary.LittleEndian.PutUint64(buf[8:], seq)

	hi = xxhash.Sum64(buf[:])

	binary.LittleEndian.PutUint64(buf[:8], hi)

	return hi, xxhash.Sum64(buf[:])
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return stat.Mean(values, nil)
}

// StandardDeviation returns the sample standard deviation (n-1 denominator).
// A single value has a standard deviation of 0.
func StandardDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	return stat.StdDev(values, nil)
}

// Round rounds v to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))

	return math.Round(v*p) / p
}

// Repeat runs repetitions iterations in chunks of at most chunk, calling runChunk with the size of
// each chunk. It stops early when ctx is done or runChunk fails, and reports how many iterations
// completed.
func Repeat(ctx context.Context, repetitions, chunk int, runChunk func(ctx context.Context, size int) (int, error)) (int, error) {
	if chunk < 1 {
		chunk = 1
	}

	completed := 0

	for completed < repetitions {
		err := ctx.Err()
		if err != nil {
			return completed, ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, err.Error())
		}

		size := min(chunk, repetitions-completed)

		done, err := runChunk(ctx, size)
		completed += done

		if err != nil {
			return completed, err
		}

		if done < size {
			// the chunk stopped on its own, e.g. the track locked
			return completed, nil
		}
	}

	return completed, nil
}
