package stats

import (
	"slices"
	"strings"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

const (
	// CollectorHistogram keeps every recorded value and summarizes them on demand.
	CollectorHistogram = "histogram"
	// CollectorDiscard drops every recorded value.
	CollectorDiscard = "discard"
)

// ICollector is an interface that defines the methods that a stats collector should implement.
type ICollector interface {
	// Incr increments the count of a statistic by the given value.
	Incr(stat Key, value int64)
	// Timing records the time it took for an event to occur.
	Timing(stat Key, value int64)
	// Gauge records the current value of a statistic.
	Gauge(stat Key, value int64)
	// Histogram records the statistical distribution of a set of values.
	Histogram(stat Key, value int64)
	// GetStats returns the collected statistics.
	GetStats() Stats
}

// Factory builds a collector.
type Factory func() ICollector

// Registry resolves collector names, as found in a session config, to collectors.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var defaultRegistry = NewRegistry()

// NewRegistry returns a registry knowing the histogram and discard collectors.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register(CollectorHistogram, func() ICollector { return NewHistogramStatsCollector() })
	r.Register(CollectorDiscard, func() ICollector { return Discard{} })

	return r
}

// Register adds or replaces the factory for name. Names are case-insensitive.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[strings.ToLower(name)] = factory
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[strings.ToLower(name)]

	return ok
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// New builds the collector registered under name.
func (r *Registry) New(name string) (ICollector, error) {
	if name == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "stats collector")
	}

	r.mu.RLock()
	factory, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, ewrap.Wrapf(sentinel.ErrStatsCollectorNotFound, "%q, want one of %v", name, r.Names())
	}

	return factory(), nil
}

// NewCollector builds a collector from the default registry.
func NewCollector(name string) (ICollector, error) {
	return defaultRegistry.New(name)
}

// Registered reports whether the default registry knows name.
func Registered(name string) bool {
	return defaultRegistry.Has(name)
}

// Discard is a collector that records nothing.
type Discard struct{}

// Incr does nothing.
func (Discard) Incr(Key, int64) {}

// Timing does nothing.
func (Discard) Timing(Key, int64) {}

// Gauge does nothing.
func (Discard) Gauge(Key, int64) {}

// Histogram does nothing.
func (Discard) Histogram(Key, int64) {}

// GetStats returns an empty set.
func (Discard) GetStats() Stats { return Stats{} }
