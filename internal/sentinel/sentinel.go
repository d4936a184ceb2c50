// Package sentinel provides standardized error definitions for the sampledist system.
// This package centralizes all error types used across the sampledist components,
// ensuring consistent error handling and messaging throughout the application.
//
// The errors defined here cover various scenarios including:
// - Invalid configuration surface input (sample size, repetitions, bin counts)
// - Binning failures (unclassifiable sample means, mismatched bin maps)
// - Sampling state transitions (locked track, busy batch, unavailable SDM display)
// - Runtime operation errors (timeouts, cancellations, stopped event loop)
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrInvalidSampleSize is returned when a sample size is not an integer in the accepted range.
	ErrInvalidSampleSize = ewrap.New("please enter an integer between 2 and 100 as a sample size")

	// ErrInvalidRepetitions is returned when the number of repetitions is not one of the supported values.
	ErrInvalidRepetitions = ewrap.New("number of samples must be 1 or 25")

	// ErrInvalidBinCount is returned when a histogram is configured with a non-positive number of bins.
	ErrInvalidBinCount = ewrap.New("invalid bin count")

	// ErrInvalidModifier is returned when the animation modifier does not evenly divide the bin count.
	ErrInvalidModifier = ewrap.New("invalid animation bin modifier")

	// ErrInvalidCanvas is returned when canvas dimensions are not positive.
	ErrInvalidCanvas = ewrap.New("invalid canvas dimensions")

	// ErrInvalidPopulation is returned when the population parameters cannot be drawn.
	ErrInvalidPopulation = ewrap.New("invalid population parameters")

	// ErrEmptyDataset is returned when a sample is requested from an empty synthetic dataset.
	ErrEmptyDataset = ewrap.New("dataset is empty")

	// ErrUnclassifiable is returned when a value matches no bin of the bin map.
	ErrUnclassifiable = ewrap.New("binning error")

	// ErrBinMapMismatch is returned when the animation bins and the bin map differ in length.
	ErrBinMapMismatch = ewrap.New("animation bins and bin map differ in length")

	// ErrUnknownDistribution is returned when a distribution family name is not recognized.
	ErrUnknownDistribution = ewrap.New("unknown distribution family")

	// ErrSamplingLocked is returned when sampling is requested while the animation track is full.
	ErrSamplingLocked = ewrap.New("sampling is locked until reset")

	// ErrSamplingBusy is returned when a sample is requested while a batch is still running.
	ErrSamplingBusy = ewrap.New("a batch of samples is already running")

	// ErrBatchInterrupted is returned when a reset happens while a batch is between chunks.
	ErrBatchInterrupted = ewrap.New("batch interrupted by reset")

	// ErrSDMUnavailable is returned when the sampling distribution display is requested for a non-normal population.
	ErrSDMUnavailable = ewrap.New("the sampling distribution of the mean can only be displayed when the population is normal")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrSerializerNotFound is returned when a serializer is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrStatsCollectorNotFound is returned when a stats collector is not found.
	ErrStatsCollectorNotFound = ewrap.New("stats collector not found")

	// ErrCanvasNotFound is returned when a canvas id is not known to the scene.
	ErrCanvasNotFound = ewrap.New("canvas not found")

	// ErrLoopStopped is returned when a job is submitted to a stopped event loop.
	ErrLoopStopped = ewrap.New("event loop stopped")

	// ErrJobPanicked is returned when a job submitted to the event loop panics.
	ErrJobPanicked = ewrap.New("event loop job panicked")

	// ErrTimeoutOrCanceled is returned when a timeout or cancellation occurs.
	ErrTimeoutOrCanceled = ewrap.New("the operation timed out or was canceled")

	// ErrHTTPShutdownTimeout is returned when the demo HTTP server fails to shutdown before context deadline.
	ErrHTTPShutdownTimeout = ewrap.New("demo http shutdown timeout")
)
