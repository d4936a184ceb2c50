// Package constants defines default configuration values for the sampledist system.
// It provides the standard population parameters, histogram resolution, animation
// settings and canvas limits used when no explicit configuration is supplied.
package constants

import "time"

const (
	// DefaultBins is the number of bins of the population and SDM histograms.
	DefaultBins = 1000
	// NumSDs is the number of standard deviations a histogram spans around its mean.
	NumSDs = 6.0
	// DefaultModifier coarsens the SDM bins into animation bins (1 animation bin per 10 histogram bins).
	DefaultModifier = 10

	// DefaultPopulationMean is the mean of the normal, narrow normal and uniform populations.
	DefaultPopulationMean = 100.0
	// DefaultPopulationSD is the standard deviation of the normal and uniform populations.
	DefaultPopulationSD = 10.0
	// NarrowPopulationSD is the standard deviation of the narrow normal population.
	NarrowPopulationSD = 2.0
	// BoundedMean is the success probability of the bounded (binomial) population.
	BoundedMean = 0.10
	// BoundedSD is the standard deviation reported for the bounded population.
	BoundedSD = 0.30

	// DefaultSampleSize is the sample size a new session starts with.
	DefaultSampleSize = 10
	// MinSampleSize is the smallest accepted sample size.
	MinSampleSize = 2
	// MaxSampleSize is the largest accepted sample size.
	MaxSampleSize = 100
	// SingleRepetitions draws one sample per request.
	SingleRepetitions = 1
	// BatchRepetitions draws a batch of samples per request.
	BatchRepetitions = 25
	// DefaultBatchChunk is the number of samples a batch runs before yielding the event loop.
	DefaultBatchChunk = 5

	// RoundingPlaces is the number of decimals values and bin edges are rounded to before classification.
	RoundingPlaces = 5
	// StatsPlaces is the number of decimals displayed sample statistics are rounded to.
	StatsPlaces = 2
	// BoundedDomainMax is the upper end of the bounded bin map domain [0, 1.1).
	BoundedDomainMax = 1.1
	// BoundedBars is the number of bars of the bounded population track.
	BoundedBars = 10

	// BlockHeight is the pixel height of one animated sample mean in single mode.
	BlockHeight = 10.0
	// SampleBarHeight is the pixel height of one raw sample value on the population canvas.
	SampleBarHeight = 10.0
	// DefaultHeightScale turns continuous densities into pixel heights.
	DefaultHeightScale = 2000.0
	// DefaultBoundedHeightScale turns bounded probability masses into pixel heights.
	DefaultBoundedHeightScale = 150.0

	// DefaultCanvasWidth is the pixel width of each graph.
	DefaultCanvasWidth = 800
	// DefaultCanvasHeight is the pixel height of each graph (width * 4 / 16).
	DefaultCanvasHeight = 200
	// MaxCanvasWidth caps the graph width.
	MaxCanvasWidth = 800
	// MaxCanvasHeight caps the graph height.
	MaxCanvasHeight = 450

	// DefaultJournalSize is the number of render events retained for polling clients.
	DefaultJournalSize = 4096
	// DefaultTimeout bounds a single request against the event loop.
	DefaultTimeout = 5 * time.Second
	// DefaultHTTPAddress is where the demo HTTP server listens.
	DefaultHTTPAddress = "127.0.0.1:8080"
)

const (
	// PopulationCanvas is the id of the population graph.
	PopulationCanvas = "pop-graph"
	// SDMCanvas is the id of the sampling distribution graph.
	SDMCanvas = "sdm-graph"

	// PopulationFill is the bar color of the population histogram.
	PopulationFill = "steelblue"
	// SDMFill is the bar color of the sampling distribution histogram.
	SDMFill = "green"
	// SampleFill is the bar color of a drawn sample and of the statistics text.
	SampleFill = "#ff8c00"
	// MeanBlockFill is the color of an animated sample mean.
	MeanBlockFill = "red"

	// SampleClass tags the bars of the most recent sample on the population canvas.
	SampleClass = "sample"
	// AnimatedMeanClass tags the stacked sample mean blocks on the SDM canvas.
	AnimatedMeanClass = "animatedMean"
)
