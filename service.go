package sampledist

import (
	"context"

	"github.com/hyp3rd/sampledist/pkg/stats"
)

// Service is the service interface of the sampling demo.
// It enables middleware to be added to the service.
type Service interface {
	// ChangePopulation switches the population family by name (normal, normal-narrow, uniform, bounded)
	ChangePopulation(ctx context.Context, name string) error
	// SetSampleSize sets the number of values per sample, an integer between 2 and 100
	SetSampleSize(ctx context.Context, n int) error
	// SetRepetitions sets the number of samples drawn per Sample call
	SetRepetitions(ctx context.Context, repetitions int) error
	// SetSDMVisible shows or hides the sampling distribution curve
	SetSDMVisible(ctx context.Context, visible bool) error
	// Sample draws one sample or a batch, depending on the repetitions setting
	Sample(ctx context.Context) (SampleReport, error)
	// Reset clears the animation track and unlocks sampling
	Reset(ctx context.Context) error
	// Snapshot returns a copy of the session state
	Snapshot(ctx context.Context) (Snapshot, error)
	// GetStats returns the collected statistics
	GetStats() stats.Stats
	// Stop stops the service
	Stop()
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}
	// Return the decorated service
	return svc
}
