package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.opentelemetry.io/otel/attribute"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/hyp3rd/sampledist"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/middleware"
	"github.com/hyp3rd/sampledist/pkg/render"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

type lineLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *lineLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}

	return false
}

func newService(t *testing.T, collector stats.ICollector) sampledist.Service {
	t.Helper()

	ctrl, err := sampledist.NewController(
		render.NewRecorder(render.NewScene()),
		sampledist.NewConfig(sampledist.WithSeed(11)),
		sampledist.WithStatsCollector(collector),
	)
	assert.NoError(t, err)

	return ctrl
}

func TestLoggingMiddleware(t *testing.T) {
	logger := &lineLogger{}
	svc := middleware.NewLoggingMiddleware(newService(t, stats.NewHistogramStatsCollector()), logger)
	defer svc.Stop()

	ctx := context.Background()

	_, err := svc.Sample(ctx)
	assert.NoError(t, err)
	assert.True(t, logger.contains("Sample method invoked"))
	assert.True(t, logger.contains("method Sample took"))

	err = svc.SetSampleSize(ctx, 1)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidSampleSize))
	assert.True(t, logger.contains("method SetSampleSize failed"))
}

func TestStatsCollectorMiddleware(t *testing.T) {
	collector := stats.NewHistogramStatsCollector()
	svc := middleware.NewStatsCollectorMiddleware(newService(t, collector), collector)
	defer svc.Stop()

	ctx := context.Background()

	for range 3 {
		_, err := svc.Sample(ctx)
		assert.NoError(t, err)
	}

	err := svc.SetRepetitions(ctx, 3)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidRepetitions))

	got := svc.GetStats()
	assert.Equal(t, int64(3), got["sampledist_sample_count"].Sum)
	assert.Equal(t, int64(1), got[stats.KeyCallErrors.String()].Sum)
	assert.Equal(t, 4, got[stats.KeyCallDuration.String()].Count)
	assert.True(t, got[stats.KeySamples.String()] != nil)
}

func TestOTelMiddlewareChain(t *testing.T) {
	meter := metricnoop.NewMeterProvider().Meter("sampledist/test")
	tracer := tracenoop.NewTracerProvider().Tracer("sampledist/test")

	svc := sampledist.ApplyMiddleware(newService(t, stats.NewHistogramStatsCollector()),
		func(next sampledist.Service) sampledist.Service {
			return middleware.NewOTelTracingMiddleware(next, tracer, middleware.WithCommonAttributes(
				attribute.String("component", "sampledist"),
			))
		},
		func(next sampledist.Service) sampledist.Service {
			mw, err := middleware.NewOTelMetricsMiddleware(next, meter)
			assert.NoError(t, err)

			return mw
		},
	)
	defer svc.Stop()

	ctx := context.Background()

	assert.NoError(t, svc.ChangePopulation(ctx, "uniform"))
	assert.True(t, errors.Is(svc.SetSDMVisible(ctx, true), sentinel.ErrSDMUnavailable))

	report, err := svc.Sample(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Completed)

	snap, err := svc.Snapshot(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "uniform", snap.Distribution.String())

	assert.NoError(t, svc.Reset(ctx))
}
