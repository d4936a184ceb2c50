// Package middleware provides various middleware implementations for the sampledist service.
// This package includes logging middleware that wraps the sampledist service to provide
// execution time logging and method call tracing for debugging and monitoring purposes.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/sampledist"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// Uber's Zap works through zap.NewStdLog, but any logger that matches the interface will do.
type Logger interface {
	Printf(format string, v ...any)
}

// LoggingMiddleware is a middleware that logs the time it takes to execute the next middleware.
// Must implement the sampledist.Service interface.
type LoggingMiddleware struct {
	next   sampledist.Service
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next sampledist.Service, logger Logger) sampledist.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

// ChangePopulation logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) ChangePopulation(ctx context.Context, name string) error {
	defer func(begin time.Time) {
		mw.logger.Printf("method ChangePopulation took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("ChangePopulation method called with family: %s", name)

	return mw.logErr("ChangePopulation", mw.next.ChangePopulation(ctx, name))
}

// SetSampleSize logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) SetSampleSize(ctx context.Context, n int) error {
	defer func(begin time.Time) {
		mw.logger.Printf("method SetSampleSize took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("SetSampleSize method called with n: %d", n)

	return mw.logErr("SetSampleSize", mw.next.SetSampleSize(ctx, n))
}

// SetRepetitions logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) SetRepetitions(ctx context.Context, repetitions int) error {
	defer func(begin time.Time) {
		mw.logger.Printf("method SetRepetitions took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("SetRepetitions method called with repetitions: %d", repetitions)

	return mw.logErr("SetRepetitions", mw.next.SetRepetitions(ctx, repetitions))
}

// SetSDMVisible logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) SetSDMVisible(ctx context.Context, visible bool) error {
	defer func(begin time.Time) {
		mw.logger.Printf("method SetSDMVisible took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("SetSDMVisible method called with visible: %t", visible)

	return mw.logErr("SetSDMVisible", mw.next.SetSDMVisible(ctx, visible))
}

// Sample logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Sample(ctx context.Context) (sampledist.SampleReport, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Sample took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Sample method invoked")

	report, err := mw.next.Sample(ctx)
	if err == nil {
		mw.logger.Printf("Sample completed %d of %d, %d excluded, phase %s",
			report.Completed, report.Requested, report.Excluded, report.Phase)
	}

	return report, mw.logErr("Sample", err)
}

// Reset logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Reset(ctx context.Context) error {
	defer func(begin time.Time) {
		mw.logger.Printf("method Reset took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Reset method invoked")

	return mw.logErr("Reset", mw.next.Reset(ctx))
}

// Snapshot passes through to the next middleware.
func (mw LoggingMiddleware) Snapshot(ctx context.Context) (sampledist.Snapshot, error) {
	return mw.next.Snapshot(ctx)
}

// GetStats logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) GetStats() stats.Stats {
	defer func(begin time.Time) {
		mw.logger.Printf("method GetStats took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("GetStats method invoked")

	return mw.next.GetStats()
}

// Stop logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Stop() {
	defer func(begin time.Time) {
		mw.logger.Printf("method Stop took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Stop method invoked")
	mw.next.Stop()
}

func (mw LoggingMiddleware) logErr(method string, err error) error {
	if err != nil {
		mw.logger.Printf("method %s failed: %v", method, err)
	}

	return err
}
