// Package stats collects operational statistics of the sampling demo: call counts and durations
// recorded by the stats middleware, and the running series of sample means.
package stats

// Key names a collected statistic.
type Key string

// String returns the string representation of a Key.
func (k Key) String() string {
	return string(k)
}

// Keys recorded by the session and the stats middleware.
const (
	KeySamples      Key = "samples"            // sample means classified into the animation track
	KeyExcluded     Key = "samples_excluded"   // sample means that matched no bin
	KeyLocks        Key = "locks"              // transitions into the locked state
	KeyResets       Key = "resets"             // reset events
	KeyBatchSize    Key = "batch_size"         // samples completed per batch request
	KeyCallDuration Key = "call_duration"      // service call duration, nanoseconds
	KeyCallErrors   Key = "call_errors"        // failed service calls
	KeyPopulations  Key = "population_changes" // population family changes
)

// Stat summarizes the values recorded for a Key.
type Stat struct {
	Mean     float64 `json:"mean"     msgpack:"mean"     codec:"mean"`
	Median   float64 `json:"median"   msgpack:"median"   codec:"median"`
	Min      int64   `json:"min"      msgpack:"min"      codec:"min"`
	Max      int64   `json:"max"      msgpack:"max"      codec:"max"`
	Count    int     `json:"count"    msgpack:"count"    codec:"count"`
	Sum      int64   `json:"sum"      msgpack:"sum"      codec:"sum"`
	Variance float64 `json:"variance" msgpack:"variance" codec:"variance"`
}

// Stats maps a statistic name to its summary.
type Stats map[string]*Stat
