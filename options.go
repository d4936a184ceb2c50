package sampledist

import (
	"time"
)

// Option is a function type that can be used to configure a Config.
type Option func(*Config)

// ApplyOptions applies the given options to the given config.
func ApplyOptions(cfg *Config, options ...Option) {
	for _, option := range options {
		option(cfg)
	}
}

// WithDistribution sets the population family a session starts with.
func WithDistribution(name string) Option {
	return func(cfg *Config) {
		cfg.Distribution = name
	}
}

// WithBins sets the number of histogram bins and the modifier that coarsens them into animation bins.
// The modifier must divide the number of bins.
func WithBins(bins, modifier int) Option {
	return func(cfg *Config) {
		cfg.Bins = bins
		cfg.Modifier = modifier
	}
}

// WithPopulation sets the axis mean and standard deviation.
func WithPopulation(mean, sd float64) Option {
	return func(cfg *Config) {
		cfg.PopulationMean = mean
		cfg.PopulationSD = sd
	}
}

// WithSampleSize sets the initial sample size.
func WithSampleSize(n int) Option {
	return func(cfg *Config) {
		cfg.SampleSize = n
	}
}

// WithRepetitions sets the initial number of samples per request.
func WithRepetitions(repetitions int) Option {
	return func(cfg *Config) {
		cfg.Repetitions = repetitions
	}
}

// WithBatch sets the number of samples of a batch request and how many run per event loop job.
func WithBatch(size, chunk int) Option {
	return func(cfg *Config) {
		cfg.BatchSize = size
		cfg.BatchChunk = chunk
	}
}

// WithCanvas sets the pixel size of both graphs.
func WithCanvas(width, height int) Option {
	return func(cfg *Config) {
		cfg.CanvasWidth = width
		cfg.CanvasHeight = height
	}
}

// WithSDMDisplay sets whether the sampling distribution curve is displayed on start.
func WithSDMDisplay(show bool) Option {
	return func(cfg *Config) {
		cfg.ShowSDM = show
	}
}

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(cfg *Config) {
		cfg.Seed = seed
	}
}

// WithJournalSize sets the number of render events kept for polling clients.
func WithJournalSize(size int) Option {
	return func(cfg *Config) {
		cfg.JournalSize = size
	}
}

// WithTimeout bounds a single request against the event loop.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		if timeout > 0 {
			cfg.Timeout = timeout
		}
	}
}

// WithStatsCollectorName selects a registered stats collector by name.
func WithStatsCollectorName(name string) Option {
	return func(cfg *Config) {
		cfg.StatsCollector = name
	}
}

// WithHTTPAddress sets the address of the demo HTTP server.
func WithHTTPAddress(addr string) Option {
	return func(cfg *Config) {
		cfg.HTTP.Address = addr
	}
}
