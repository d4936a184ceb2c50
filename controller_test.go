package sampledist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/render"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()

	cfg := NewConfig(append([]Option{WithSeed(7)}, opts...)...)

	ctrl, err := NewController(render.NewRecorder(render.NewScene()), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Cleanup(ctrl.Stop)

	return ctrl
}

func TestController_SingleSample(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()

	report, err := ctrl.Sample(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Requested != 1 || report.Completed != 1 || report.Last == nil {
		t.Errorf("unexpected report %+v", report)
	}

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Samples+snap.Excluded != 1 {
		t.Errorf("expected one sample, got %d + %d excluded", snap.Samples, snap.Excluded)
	}

	if snap.SessionID != ctrl.SessionID() {
		t.Errorf("expected session id %s, got %s", ctrl.SessionID(), snap.SessionID)
	}
}

func TestController_Batch(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()

	err := ctrl.SetRepetitions(ctx, constants.BatchRepetitions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := ctrl.Sample(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Requested != 25 || report.Completed != 25 || report.Phase != PhaseIdle {
		t.Errorf("unexpected report %+v", report)
	}

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Samples+snap.Excluded != 25 || snap.Means.Count != snap.Samples {
		t.Errorf("unexpected snapshot: %d samples, %d excluded, %d means", snap.Samples, snap.Excluded, snap.Means.Count)
	}

	if ctrl.GetStats()[stats.KeyBatchSize.String()] == nil {
		t.Error("expected the batch size to be recorded")
	}
}

func TestController_BatchStopsOnLock(t *testing.T) {
	// one animation bin, block height 0.4: the track locks after 10 means
	ctrl := newTestController(t, WithBins(10, 10), WithCanvas(800, 4))
	ctx := context.Background()

	err := ctrl.SetRepetitions(ctx, constants.BatchRepetitions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := ctrl.Sample(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Completed != 10 || !report.Locked || report.Phase != PhaseLocked {
		t.Errorf("unexpected report %+v", report)
	}

	_, err = ctrl.Sample(ctx)
	if !errors.Is(err, sentinel.ErrSamplingLocked) {
		t.Errorf("expected ErrSamplingLocked, got %v", err)
	}

	err = ctrl.Reset(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ctrl.Sample(ctx)
	if err != nil {
		t.Errorf("expected sampling after reset, got %v", err)
	}
}

func TestController_ConcurrentCallsAreSerialized(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			_, err := ctrl.Sample(ctx)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	wg.Wait()

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Samples+snap.Excluded != 8 {
		t.Errorf("expected 8 samples, got %d + %d", snap.Samples, snap.Excluded)
	}
}

func TestController_InvalidInput(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()

	err := ctrl.ChangePopulation(ctx, "cauchy")
	if !errors.Is(err, sentinel.ErrUnknownDistribution) {
		t.Errorf("expected ErrUnknownDistribution, got %v", err)
	}

	err = ctrl.SetSampleSize(ctx, 500)
	if !errors.Is(err, sentinel.ErrInvalidSampleSize) {
		t.Errorf("expected ErrInvalidSampleSize, got %v", err)
	}

	err = ctrl.ChangePopulation(ctx, "uniform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = ctrl.SetSDMVisible(ctx, true)
	if !errors.Is(err, sentinel.ErrSDMUnavailable) {
		t.Errorf("expected ErrSDMUnavailable, got %v", err)
	}
}

func TestController_Stopped(t *testing.T) {
	ctrl := newTestController(t)
	ctrl.Stop()

	_, err := ctrl.Sample(context.Background())
	if !errors.Is(err, sentinel.ErrLoopStopped) {
		t.Errorf("expected ErrLoopStopped, got %v", err)
	}
}

func TestController_CanceledContext(t *testing.T) {
	ctrl := newTestController(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ctrl.Reset(ctx)
	if !errors.Is(err, sentinel.ErrTimeoutOrCanceled) && !errors.Is(err, context.Canceled) {
		t.Errorf("expected a cancellation error, got %v", err)
	}
}

func TestController_BatchTimedOutWhileQueued(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()

	err := ctrl.SetRepetitions(ctx, constants.BatchRepetitions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = ctrl.loop.Do(ctx, func() error {
			close(started)
			<-release

			return nil
		})
	}()

	<-started

	time.AfterFunc(100*time.Millisecond, func() { close(release) })

	timeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	report, err := ctrl.Sample(timeout)
	if !errors.Is(err, sentinel.ErrTimeoutOrCanceled) {
		t.Fatalf("expected ErrTimeoutOrCanceled, got %v", err)
	}

	if report.Phase != PhaseIdle {
		t.Errorf("expected the batch to end, got phase %s", report.Phase)
	}

	report, err = ctrl.Sample(ctx)
	if err != nil {
		t.Fatalf("unexpected error after a timed-out batch: %v", err)
	}

	if report.Completed != constants.BatchRepetitions {
		t.Errorf("expected a full batch, got %+v", report)
	}
}

func TestController_StatsCollectorByName(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{stats.CollectorHistogram, stats.CollectorDiscard} {
		ctrl := newTestController(t, WithStatsCollectorName(name))

		_, err := ctrl.Sample(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		recorded := len(ctrl.GetStats()) > 0
		if recorded != (name == stats.CollectorHistogram) {
			t.Errorf("collector %s: unexpected stats %v", name, ctrl.GetStats())
		}
	}

	_, err := NewController(render.NewRecorder(render.NewScene()), NewConfig(WithStatsCollectorName("statsd")))
	if !errors.Is(err, sentinel.ErrStatsCollectorNotFound) {
		t.Errorf("expected ErrStatsCollectorNotFound, got %v", err)
	}
}
