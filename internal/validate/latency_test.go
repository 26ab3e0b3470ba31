package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ms(v ...int) []time.Duration {
	out := make([]time.Duration, len(v))
	for i, x := range v {
		out[i] = time.Duration(x) * time.Millisecond
	}
	return out
}

func TestComputeLatencyStats(t *testing.T) {
	tests := []struct {
		name       string
		samples    []time.Duration
		wantMin    time.Duration
		wantMax    time.Duration
		wantMean   time.Duration
		wantMedian time.Duration
		wantTotal  time.Duration
	}{
		{"single", ms(10), 10 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond},
		{"odd count", ms(10, 20, 30, 40, 50), 10 * time.Millisecond, 50 * time.Millisecond, 30 * time.Millisecond, 30 * time.Millisecond, 150 * time.Millisecond},
		{"even count", ms(10, 20, 30, 40), 10 * time.Millisecond, 40 * time.Millisecond, 25 * time.Millisecond, 25 * time.Millisecond, 100 * time.Millisecond},
		{"unsorted", ms(50, 10, 30, 20, 40), 10 * time.Millisecond, 50 * time.Millisecond, 30 * time.Millisecond, 30 * time.Millisecond, 150 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeLatencyStats(tt.samples)
			assert.Equal(t, tt.wantMin, stats.Min)
			assert.Equal(t, tt.wantMax, stats.Max)
			assert.Equal(t, tt.wantMean, stats.Mean)
			assert.Equal(t, tt.wantMedian, stats.Median)
			assert.Equal(t, tt.wantTotal, stats.Total)
			assert.Equal(t, len(tt.samples), stats.SampleCount)
			assert.False(t, stats.IsZero())
		})
	}
}

func TestComputeLatencyStats_Empty(t *testing.T) {
	stats := ComputeLatencyStats(nil)
	assert.True(t, stats.IsZero())
	assert.Zero(t, stats.Mean)
	assert.NotNil(t, stats.Percentiles)
}

func TestComputeLatencyStats_DoesNotReorderInput(t *testing.T) {
	samples := ms(30, 10, 20)
	ComputeLatencyStats(samples)
	assert.Equal(t, ms(30, 10, 20), samples)
}

func TestComputeLatencyStats_Percentiles(t *testing.T) {
	samples := make([]time.Duration, 100)
	for i := range samples {
		samples[i] = time.Duration(i+1) * time.Millisecond
	}
	stats := ComputeLatencyStats(samples)

	assert.InDelta(t, float64(90*time.Millisecond), float64(stats.P90()), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(stats.P99()), float64(time.Millisecond))
}

func TestComputeLatencyStats_Stddev(t *testing.T) {
	assert.Zero(t, ComputeLatencyStats(ms(100, 100, 100)).Stddev)
	assert.Greater(t, ComputeLatencyStats(ms(10, 20, 30)).Stddev, time.Duration(0))
}

func TestPercentile_EdgeCases(t *testing.T) {
	one := ms(10)
	assert.Equal(t, 10*time.Millisecond, percentile(one, 0))
	assert.Equal(t, 10*time.Millisecond, percentile(one, 100))
	assert.Zero(t, percentile(nil, 50))
}
