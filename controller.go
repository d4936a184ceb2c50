package sampledist

import (
	"context"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/pkg/distribution"
	"github.com/hyp3rd/sampledist/pkg/render"
	"github.com/hyp3rd/sampledist/pkg/sampling"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// SampleReport describes the outcome of a Sample call.
type SampleReport struct {
	Requested int           `json:"requested"      msgpack:"requested" codec:"requested"`
	Completed int           `json:"completed"      msgpack:"completed" codec:"completed"`
	Excluded  int           `json:"excluded"       msgpack:"excluded"  codec:"excluded"`
	Locked    bool          `json:"locked"         msgpack:"locked"    codec:"locked"`
	Phase     Phase         `json:"phase"          msgpack:"phase"     codec:"phase"`
	Last      *SampleResult `json:"last,omitempty" msgpack:"last"      codec:"last"`
}

// Controller implements Service on top of a Session. Every call runs as a job on its EventLoop;
// a batch runs one job per chunk so other calls interleave between chunks.
type Controller struct {
	session *Session
	loop    *EventLoop
	cfg     Config
}

// NewController creates the session and starts the event loop.
func NewController(adapter render.Adapter, cfg *Config, opts ...SessionOption) (*Controller, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	session, err := NewSession(adapter, cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &Controller{
		session: session,
		loop:    NewEventLoop(constants.DefaultBatchChunk),
		cfg:     *cfg,
	}, nil
}

// SessionID returns the identifier of the controlled session.
func (c *Controller) SessionID() string {
	return c.session.ID()
}

// ChangePopulation implements Service.
func (c *Controller) ChangePopulation(ctx context.Context, name string) error {
	kind, err := distribution.ParseKind(name)
	if err != nil {
		return err
	}

	return c.do(ctx, func() error {
		return c.session.ChangePopulation(kind)
	})
}

// SetSampleSize implements Service.
func (c *Controller) SetSampleSize(ctx context.Context, n int) error {
	return c.do(ctx, func() error {
		return c.session.SetSampleSize(n)
	})
}

// SetRepetitions implements Service.
func (c *Controller) SetRepetitions(ctx context.Context, repetitions int) error {
	return c.do(ctx, func() error {
		return c.session.SetRepetitions(repetitions)
	})
}

// SetSDMVisible implements Service.
func (c *Controller) SetSDMVisible(ctx context.Context, visible bool) error {
	return c.do(ctx, func() error {
		return c.session.SetSDMVisible(visible)
	})
}

// Reset implements Service.
func (c *Controller) Reset(ctx context.Context) error {
	return c.do(ctx, func() error {
		c.session.Reset()

		return nil
	})
}

// Snapshot implements Service.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	err := c.do(ctx, func() error {
		snap = c.session.Snapshot()

		return nil
	})

	return snap, err
}

// GetStats implements Service.
func (c *Controller) GetStats() stats.Stats {
	return c.session.collector.GetStats()
}

// Stop implements Service.
func (c *Controller) Stop() {
	c.loop.Stop()
}

// Sample implements Service. In single mode it draws one sample; otherwise it runs a batch of
// BatchSize samples in chunks of BatchChunk, stopping when the track locks, when ctx ends or when
// a reset interrupts it.
func (c *Controller) Sample(ctx context.Context) (SampleReport, error) {
	var (
		single     bool
		res        SampleResult
		phase      Phase
		generation uint64
		excluded   int
	)

	err := c.do(ctx, func() error {
		var err error

		if c.session.Repetitions() == constants.SingleRepetitions {
			single = true
			res, err = c.session.SampleOnce()
			phase = c.session.Phase()

			return err
		}

		excluded = c.session.excluded
		generation, err = c.session.BeginBatch()

		return err
	})
	if err != nil {
		return SampleReport{}, err
	}

	if single {
		report := SampleReport{
			Requested: 1,
			Completed: 1,
			Locked:    res.Locked,
			Phase:     phase,
			Last:      &res,
		}
		if res.Excluded {
			report.Excluded = 1
		}

		return report, nil
	}

	return c.batch(ctx, generation, excluded)
}

func (c *Controller) batch(ctx context.Context, generation uint64, excludedBefore int) (SampleReport, error) {
	report := SampleReport{Requested: c.cfg.BatchSize}

	completed, batchErr := sampling.Repeat(ctx, c.cfg.BatchSize, c.cfg.BatchChunk,
		func(ctx context.Context, size int) (int, error) {
			var done int

			err := c.do(ctx, func() error {
				var err error

				done, err = c.session.SampleChunk(generation, size)

				return err
			})

			return done, err
		})

	report.Completed = completed

	// leave the batch state even when ctx already ended
	cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
	defer cancel()

	err := c.loop.Do(cleanup, func() error {
		c.session.EndBatch(generation)

		report.Phase = c.session.Phase()
		report.Locked = report.Phase == PhaseLocked

		if generation == c.session.Generation() {
			report.Excluded = c.session.excluded - excludedBefore

			if last, ok := c.session.Last(); ok {
				report.Last = &last
			}
		}

		c.session.collector.Histogram(stats.KeyBatchSize, int64(completed))

		return nil
	})

	if batchErr != nil {
		return report, batchErr
	}

	return report, err
}

// do runs job on the event loop, bounded by the configured timeout.
func (c *Controller) do(ctx context.Context, job JobFunc) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	return c.loop.Do(ctx, job)
}

var _ Service = (*Controller)(nil)
