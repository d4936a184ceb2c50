// Package attrs defines telemetry attribute keys used for observability across the
// sampledist service. These constants provide standardized key names for metrics,
// traces, and logs so every middleware reports the same dimensions.
package attrs

const (
	// AttrMethod is the Service method that was invoked.
	AttrMethod = "method"
	// AttrDistribution is the population family selected for the session.
	AttrDistribution = "distribution"
	// AttrSampleSize is the number of values drawn per sample.
	AttrSampleSize = "sample.size"
	// AttrRepetitions is the number of samples drawn per request.
	AttrRepetitions = "repetitions"
	// AttrCompleted is the number of samples a request actually completed.
	AttrCompleted = "samples.completed"
	// AttrExcluded is the number of samples excluded from the animation track by a binning error.
	AttrExcluded = "samples.excluded"
	// AttrLocked reports whether the animation track is locked.
	AttrLocked = "locked"
	// AttrVisible is the requested SDM display state.
	AttrVisible = "sdm.visible"
)
