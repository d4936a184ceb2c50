package sampledist

import (
	"os"
	"time"

	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/distribution"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// Config is a struct that wraps all the configuration options of a sampling session and of the
// demo HTTP server. It can be built with NewConfig and options, or loaded from a YAML file.
type Config struct {
	// Distribution is the population family a session starts with.
	Distribution string `yaml:"distribution"`
	// Bins is the number of bins of the population and SDM histograms.
	Bins int `yaml:"bins"`
	// Modifier coarsens the histogram bins into animation bins.
	Modifier int `yaml:"modifier"`
	// PopulationMean and PopulationSD set the axis both histograms are drawn on.
	PopulationMean float64 `yaml:"population_mean"`
	PopulationSD   float64 `yaml:"population_sd"`
	// SampleSize is the number of values drawn per sample (2-100).
	SampleSize int `yaml:"sample_size"`
	// Repetitions is the number of samples drawn per request (1 or BatchSize).
	Repetitions int `yaml:"repetitions"`
	// BatchSize is the number of samples of a batch request.
	BatchSize int `yaml:"batch_size"`
	// BatchChunk is the number of samples a batch runs before other requests may interleave.
	BatchChunk int `yaml:"batch_chunk"`
	// CanvasWidth and CanvasHeight are the pixel size of both graphs.
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`
	// HeightScale and BoundedHeightScale turn densities and masses into pixel heights.
	HeightScale        float64 `yaml:"height_scale"`
	BoundedHeightScale float64 `yaml:"bounded_height_scale"`
	// ShowSDM displays the sampling distribution curve on start.
	ShowSDM bool `yaml:"show_sdm"`
	// Seed makes sampling reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
	// JournalSize is the number of render events kept for polling clients.
	JournalSize int `yaml:"journal_size"`
	// Timeout bounds a single request against the event loop.
	Timeout time.Duration `yaml:"timeout"`
	// StatsCollector names the collector sessions record their stats with.
	StatsCollector string `yaml:"stats_collector"`
	// HTTP configures the demo HTTP server.
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the demo HTTP server.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// NewConfig returns a Config with default values:
//   - normal population, mean 100 and sd 10, 1000 bins, animation modifier 10
//   - sample size 10, one sample per request, batches of 25 in chunks of 5
//   - 800x200 canvases, SDM curve displayed
//   - histogram stats collector
//
// Each of the above can be overridden by passing options.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Distribution:       distribution.Normal.String(),
		Bins:               constants.DefaultBins,
		Modifier:           constants.DefaultModifier,
		PopulationMean:     constants.DefaultPopulationMean,
		PopulationSD:       constants.DefaultPopulationSD,
		SampleSize:         constants.DefaultSampleSize,
		Repetitions:        constants.SingleRepetitions,
		BatchSize:          constants.BatchRepetitions,
		BatchChunk:         constants.DefaultBatchChunk,
		CanvasWidth:        constants.DefaultCanvasWidth,
		CanvasHeight:       constants.DefaultCanvasHeight,
		HeightScale:        constants.DefaultHeightScale,
		BoundedHeightScale: constants.DefaultBoundedHeightScale,
		ShowSDM:            true,
		JournalSize:        constants.DefaultJournalSize,
		Timeout:            constants.DefaultTimeout,
		StatsCollector:     stats.CollectorHistogram,
		HTTP: HTTPConfig{
			Address:      constants.DefaultHTTPAddress,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
	}

	ApplyOptions(cfg, opts...)

	return cfg
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string, opts ...Option) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ewrap.Wrapf(err, "read config %s", path)
	}

	cfg := NewConfig()

	err = yaml.Unmarshal(raw, cfg)
	if err != nil {
		return nil, ewrap.Wrapf(err, "parse config %s", path)
	}

	ApplyOptions(cfg, opts...)

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	_, err := distribution.ParseKind(c.Distribution)
	if err != nil {
		return err
	}

	if c.Bins <= 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidBinCount, "%d", c.Bins)
	}

	if c.Modifier < 1 || c.Bins%c.Modifier != 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidModifier, "%d does not divide %d", c.Modifier, c.Bins)
	}

	if c.PopulationSD <= 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidPopulation, "sd %v", c.PopulationSD)
	}

	err = validateSampleSize(c.SampleSize)
	if err != nil {
		return err
	}

	if c.BatchSize < 2 || c.BatchChunk < 1 {
		return ewrap.Wrapf(sentinel.ErrInvalidRepetitions, "batch %d chunk %d", c.BatchSize, c.BatchChunk)
	}

	err = c.validateRepetitions(c.Repetitions)
	if err != nil {
		return err
	}

	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 ||
		c.CanvasWidth > constants.MaxCanvasWidth || c.CanvasHeight > constants.MaxCanvasHeight {
		return ewrap.Wrapf(sentinel.ErrInvalidCanvas, "%dx%d", c.CanvasWidth, c.CanvasHeight)
	}

	if c.HeightScale <= 0 || c.BoundedHeightScale <= 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidCanvas, "height scales %v and %v", c.HeightScale, c.BoundedHeightScale)
	}

	if !stats.Registered(c.StatsCollector) {
		return ewrap.Wrapf(sentinel.ErrStatsCollectorNotFound, "%q", c.StatsCollector)
	}

	return nil
}

func validateSampleSize(n int) error {
	if n < constants.MinSampleSize || n > constants.MaxSampleSize {
		return ewrap.Wrapf(sentinel.ErrInvalidSampleSize, "got %d", n)
	}

	return nil
}

func (c *Config) validateRepetitions(r int) error {
	if r != constants.SingleRepetitions && r != c.BatchSize {
		return ewrap.Wrapf(sentinel.ErrInvalidRepetitions, "got %d, want %d or %d", r, constants.SingleRepetitions, c.BatchSize)
	}

	return nil
}
