// Package middleware provides various middleware implementations for the sampledist service.
// This package includes stats middleware that collects and reports service call statistics.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/sampledist"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// StatsCollectorMiddleware is a middleware that collects stats. It can and should re-use the same stats collector as the session.
// Must implement the sampledist.Service interface.
type StatsCollectorMiddleware struct {
	next           sampledist.Service
	statsCollector stats.ICollector
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware(next sampledist.Service, statsCollector stats.ICollector) sampledist.Service {
	return &StatsCollectorMiddleware{next: next, statsCollector: statsCollector}
}

// ChangePopulation collects stats for the ChangePopulation method.
func (mw StatsCollectorMiddleware) ChangePopulation(ctx context.Context, name string) error {
	defer mw.track("change_population", time.Now())

	return mw.failed(mw.next.ChangePopulation(ctx, name))
}

// SetSampleSize collects stats for the SetSampleSize method.
func (mw StatsCollectorMiddleware) SetSampleSize(ctx context.Context, n int) error {
	defer mw.track("set_sample_size", time.Now())

	return mw.failed(mw.next.SetSampleSize(ctx, n))
}

// SetRepetitions collects stats for the SetRepetitions method.
func (mw StatsCollectorMiddleware) SetRepetitions(ctx context.Context, repetitions int) error {
	defer mw.track("set_repetitions", time.Now())

	return mw.failed(mw.next.SetRepetitions(ctx, repetitions))
}

// SetSDMVisible collects stats for the SetSDMVisible method.
func (mw StatsCollectorMiddleware) SetSDMVisible(ctx context.Context, visible bool) error {
	defer mw.track("set_sdm_visible", time.Now())

	return mw.failed(mw.next.SetSDMVisible(ctx, visible))
}

// Sample collects stats for the Sample method.
func (mw StatsCollectorMiddleware) Sample(ctx context.Context) (sampledist.SampleReport, error) {
	defer mw.track("sample", time.Now())

	report, err := mw.next.Sample(ctx)

	return report, mw.failed(err)
}

// Reset collects stats for the Reset method.
func (mw StatsCollectorMiddleware) Reset(ctx context.Context) error {
	defer mw.track("reset", time.Now())

	return mw.failed(mw.next.Reset(ctx))
}

// Snapshot returns the session state.
func (mw StatsCollectorMiddleware) Snapshot(ctx context.Context) (sampledist.Snapshot, error) {
	return mw.next.Snapshot(ctx)
}

// GetStats returns the stats of the service.
func (mw StatsCollectorMiddleware) GetStats() stats.Stats {
	return mw.next.GetStats()
}

// Stop collects the stats for the Stop method and stops the service.
func (mw StatsCollectorMiddleware) Stop() {
	defer mw.track("stop", time.Now())

	mw.next.Stop()
}

func (mw StatsCollectorMiddleware) track(method string, start time.Time) {
	elapsed := time.Since(start).Nanoseconds()

	mw.statsCollector.Timing(stats.Key("sampledist_"+method+"_duration"), elapsed)
	mw.statsCollector.Incr(stats.Key("sampledist_"+method+"_count"), 1)
	mw.statsCollector.Timing(stats.KeyCallDuration, elapsed)
}

func (mw StatsCollectorMiddleware) failed(err error) error {
	if err != nil {
		mw.statsCollector.Incr(stats.KeyCallErrors, 1)
	}

	return err
}
