// Package middleware contains service middlewares for sampledist.
package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/sampledist"
	"github.com/hyp3rd/sampledist/internal/telemetry/attrs"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// OTelTracingMiddleware wraps sampledist.Service methods with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   sampledist.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next sampledist.Service, tracer trace.Tracer, opts ...OTelTracingOption) sampledist.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// ChangePopulation implements Service.ChangePopulation with tracing.
func (mw OTelTracingMiddleware) ChangePopulation(ctx context.Context, name string) error {
	ctx, span := mw.startSpan(ctx, "sampledist.ChangePopulation", attribute.String(attrs.AttrDistribution, name))
	defer span.End()

	return recordErr(span, mw.next.ChangePopulation(ctx, name))
}

// SetSampleSize implements Service.SetSampleSize with tracing.
func (mw OTelTracingMiddleware) SetSampleSize(ctx context.Context, n int) error {
	ctx, span := mw.startSpan(ctx, "sampledist.SetSampleSize", attribute.Int(attrs.AttrSampleSize, n))
	defer span.End()

	return recordErr(span, mw.next.SetSampleSize(ctx, n))
}

// SetRepetitions implements Service.SetRepetitions with tracing.
func (mw OTelTracingMiddleware) SetRepetitions(ctx context.Context, repetitions int) error {
	ctx, span := mw.startSpan(ctx, "sampledist.SetRepetitions", attribute.Int(attrs.AttrRepetitions, repetitions))
	defer span.End()

	return recordErr(span, mw.next.SetRepetitions(ctx, repetitions))
}

// SetSDMVisible implements Service.SetSDMVisible with tracing.
func (mw OTelTracingMiddleware) SetSDMVisible(ctx context.Context, visible bool) error {
	ctx, span := mw.startSpan(ctx, "sampledist.SetSDMVisible", attribute.Bool(attrs.AttrVisible, visible))
	defer span.End()

	return recordErr(span, mw.next.SetSDMVisible(ctx, visible))
}

// Sample implements Service.Sample with tracing.
func (mw OTelTracingMiddleware) Sample(ctx context.Context) (sampledist.SampleReport, error) {
	ctx, span := mw.startSpan(ctx, "sampledist.Sample")
	defer span.End()

	report, err := mw.next.Sample(ctx)
	span.SetAttributes(
		attribute.Int(attrs.AttrRepetitions, report.Requested),
		attribute.Int(attrs.AttrCompleted, report.Completed),
		attribute.Int(attrs.AttrExcluded, report.Excluded),
		attribute.Bool(attrs.AttrLocked, report.Locked),
	)

	return report, recordErr(span, err)
}

// Reset implements Service.Reset with tracing.
func (mw OTelTracingMiddleware) Reset(ctx context.Context) error {
	ctx, span := mw.startSpan(ctx, "sampledist.Reset")
	defer span.End()

	return recordErr(span, mw.next.Reset(ctx))
}

// Snapshot implements Service.Snapshot with tracing.
func (mw OTelTracingMiddleware) Snapshot(ctx context.Context) (sampledist.Snapshot, error) {
	ctx, span := mw.startSpan(ctx, "sampledist.Snapshot")
	defer span.End()

	snap, err := mw.next.Snapshot(ctx)

	return snap, recordErr(span, err)
}

// Stop stops the service with a span.
func (mw OTelTracingMiddleware) Stop() {
	_, span := mw.startSpan(context.Background(), "sampledist.Stop")
	defer span.End()

	mw.next.Stop()
}

// GetStats returns stats.
func (mw OTelTracingMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
