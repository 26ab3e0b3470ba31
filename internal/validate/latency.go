package validate

import (
	"math"
	"slices"
	"time"
)

// LatencyStats summarizes per-formula evaluation time over one run.
type LatencyStats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Median      time.Duration         `json:"median"`
	Stddev      time.Duration         `json:"stddev"`
	Total       time.Duration         `json:"total"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sample_count"`
}

var reportedPercentiles = []int{50, 90, 99}

func ComputeLatencyStats(samples []time.Duration) LatencyStats {
	stats := LatencyStats{Percentiles: make(map[int]time.Duration, len(reportedPercentiles))}
	if len(samples) == 0 {
		return stats
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Median = percentile(sorted, 50)
	stats.SampleCount = len(sorted)

	for _, d := range sorted {
		stats.Total += d
	}
	stats.Mean = stats.Total / time.Duration(len(sorted))

	if len(sorted) > 1 {
		var sumSquares float64
		mean := float64(stats.Mean)
		for _, d := range sorted {
			diff := float64(d) - mean
			sumSquares += diff * diff
		}
		stats.Stddev = time.Duration(math.Sqrt(sumSquares / float64(len(sorted)-1)))
	}

	for _, p := range reportedPercentiles {
		stats.Percentiles[p] = percentile(sorted, p)
	}
	return stats
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []time.Duration, p int) time.Duration {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := rank - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[lower+1])*weight)
}

func (s LatencyStats) P90() time.Duration { return s.Percentiles[90] }
func (s LatencyStats) P99() time.Duration { return s.Percentiles[99] }

func (s LatencyStats) IsZero() bool {
	return s.SampleCount == 0
}
