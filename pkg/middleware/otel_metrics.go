package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/sampledist"
	"github.com/hyp3rd/sampledist/internal/telemetry/attrs"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service methods.
type OTelMetricsMiddleware struct {
	next  sampledist.Service
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	errors    metric.Int64Counter
	samples   metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next sampledist.Service, meter metric.Meter) (sampledist.Service, error) {
	calls, err := meter.Int64Counter("sampledist.calls")
	if err != nil {
		return nil, ewrap.Wrap(err, "create counter")
	}

	failures, err := meter.Int64Counter("sampledist.errors")
	if err != nil {
		return nil, ewrap.Wrap(err, "create error counter")
	}

	samples, err := meter.Int64Counter("sampledist.samples")
	if err != nil {
		return nil, ewrap.Wrap(err, "create sample counter")
	}

	durations, err := meter.Float64Histogram("sampledist.duration.ms")
	if err != nil {
		return nil, ewrap.Wrap(err, "create histogram")
	}

	return &OTelMetricsMiddleware{
		next:      next,
		meter:     meter,
		calls:     calls,
		errors:    failures,
		samples:   samples,
		durations: durations,
	}, nil
}

// ChangePopulation implements Service.ChangePopulation with metrics.
func (mw *OTelMetricsMiddleware) ChangePopulation(ctx context.Context, name string) error {
	start := time.Now()
	err := mw.next.ChangePopulation(ctx, name)
	mw.rec(ctx, "ChangePopulation", start, err, attribute.String(attrs.AttrDistribution, name))

	return err
}

// SetSampleSize implements Service.SetSampleSize with metrics.
func (mw *OTelMetricsMiddleware) SetSampleSize(ctx context.Context, n int) error {
	start := time.Now()
	err := mw.next.SetSampleSize(ctx, n)
	mw.rec(ctx, "SetSampleSize", start, err, attribute.Int(attrs.AttrSampleSize, n))

	return err
}

// SetRepetitions implements Service.SetRepetitions with metrics.
func (mw *OTelMetricsMiddleware) SetRepetitions(ctx context.Context, repetitions int) error {
	start := time.Now()
	err := mw.next.SetRepetitions(ctx, repetitions)
	mw.rec(ctx, "SetRepetitions", start, err, attribute.Int(attrs.AttrRepetitions, repetitions))

	return err
}

// SetSDMVisible implements Service.SetSDMVisible with metrics.
func (mw *OTelMetricsMiddleware) SetSDMVisible(ctx context.Context, visible bool) error {
	start := time.Now()
	err := mw.next.SetSDMVisible(ctx, visible)
	mw.rec(ctx, "SetSDMVisible", start, err, attribute.Bool(attrs.AttrVisible, visible))

	return err
}

// Sample implements Service.Sample with metrics.
func (mw *OTelMetricsMiddleware) Sample(ctx context.Context) (sampledist.SampleReport, error) {
	start := time.Now()
	report, err := mw.next.Sample(ctx)
	mw.rec(ctx, "Sample", start, err,
		attribute.Int(attrs.AttrRepetitions, report.Requested),
		attribute.Int(attrs.AttrCompleted, report.Completed),
		attribute.Bool(attrs.AttrLocked, report.Locked))

	if report.Completed > 0 {
		mw.samples.Add(ctx, int64(report.Completed), metric.WithAttributes(attribute.Bool(attrs.AttrLocked, report.Locked)))
	}

	return report, err
}

// Reset implements Service.Reset with metrics.
func (mw *OTelMetricsMiddleware) Reset(ctx context.Context) error {
	start := time.Now()
	err := mw.next.Reset(ctx)
	mw.rec(ctx, "Reset", start, err)

	return err
}

// Snapshot returns the session state.
func (mw *OTelMetricsMiddleware) Snapshot(ctx context.Context) (sampledist.Snapshot, error) {
	return mw.next.Snapshot(ctx)
}

// Stop stops the underlying service.
func (mw *OTelMetricsMiddleware) Stop() { mw.next.Stop() }

// GetStats returns stats.
func (mw *OTelMetricsMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// rec records call count and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, method string, start time.Time, err error, attributes ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String(attrs.AttrMethod, method)}
	if len(attributes) > 0 {
		base = append(base, attributes...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(base...))

	if err != nil {
		mw.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(attrs.AttrMethod, method)))
	}
}
