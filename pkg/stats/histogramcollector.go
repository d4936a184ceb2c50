package stats

import (
	"math"
	"slices"
	"sync"
)

// HistogramStatsCollector keeps every recorded value and summarizes them on demand.
type HistogramStatsCollector struct {
	mu    sync.RWMutex // mutex to protect concurrent access to the stats
	stats map[string][]int64
}

// NewHistogramStatsCollector creates a new histogram stats collector.
func NewHistogramStatsCollector() *HistogramStatsCollector {
	return &HistogramStatsCollector{
		stats: make(map[string][]int64),
	}
}

// Incr increments the count of a statistic by the given value.
func (c *HistogramStatsCollector) Incr(stat Key, value int64) {
	c.record(stat, value)
}

// Timing records the time it took for an event to occur.
func (c *HistogramStatsCollector) Timing(stat Key, value int64) {
	c.record(stat, value)
}

// Gauge records the current value of a statistic.
func (c *HistogramStatsCollector) Gauge(stat Key, value int64) {
	c.record(stat, value)
}

// Histogram records the statistical distribution of a set of values.
func (c *HistogramStatsCollector) Histogram(stat Key, value int64) {
	c.record(stat, value)
}

func (c *HistogramStatsCollector) record(stat Key, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats[stat.String()] = append(c.stats[stat.String()], value)
}

// Mean returns the mean value of a statistic.
func (c *HistogramStatsCollector) Mean(stat Key) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return mean(c.stats[stat.String()])
}

// Median returns the median value of a statistic.
func (c *HistogramStatsCollector) Median(stat Key) float64 {
	c.mu.RLock()
	values := slices.Clone(c.stats[stat.String()])
	c.mu.RUnlock()

	slices.Sort(values)

	return median(values)
}

// Percentile returns the pth percentile value of a statistic.
func (c *HistogramStatsCollector) Percentile(stat Key, percentile float64) float64 {
	c.mu.RLock()
	values := slices.Clone(c.stats[stat.String()])
	c.mu.RUnlock()

	if len(values) == 0 {
		return 0
	}

	slices.Sort(values)

	index := min(int(float64(len(values))*percentile), len(values)-1)

	return float64(values[max(index, 0)])
}

// Total returns the sum of the values recorded for a statistic.
func (c *HistogramStatsCollector) Total(stat Key) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return sum(c.stats[stat.String()])
}

// GetStats returns the mean, median, min, max, count, sum and variance of every statistic.
func (c *HistogramStatsCollector) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(Stats, len(c.stats))
	for stat, recorded := range c.stats {
		values := slices.Clone(recorded)
		slices.Sort(values)

		avg := mean(values)

		stats[stat] = &Stat{
			Mean:     avg,
			Median:   median(values),
			Min:      values[0],
			Max:      values[len(values)-1],
			Count:    len(values),
			Sum:      sum(values),
			Variance: variance(values, avg),
		}
	}

	return stats
}

// Reset drops every recorded value.
func (c *HistogramStatsCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = make(map[string][]int64)
}

func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	return float64(sum(values)) / float64(len(values))
}

// median expects sorted values.
func median(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	mid := len(values) / 2
	if len(values)%2 == 0 {
		return float64(values[mid-1]+values[mid]) / 2
	}

	return float64(values[mid])
}

func sum(values []int64) int64 {
	var total int64
	for _, value := range values {
		total += value
	}

	return total
}

func variance(values []int64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var acc float64
	for _, value := range values {
		acc += math.Pow(float64(value)-avg, 2)
	}

	return acc / float64(len(values))
}
