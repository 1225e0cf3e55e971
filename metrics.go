package bitnet

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// RecordVecDot runs on the inference hot path, so implementations must stay
// allocation-free and cheap; it deliberately carries no duration because
// timing a nanosecond-scale kernel would dominate the measurement.
type MetricsCollector interface {
	// RecordCacheWeights is called after each load-time registration.
	// duration is the transcode+insert time, err is nil on success.
	RecordCacheWeights(duration time.Duration, err error)

	// RecordRelease is called after each handle release attempt.
	// released is false for stale or already-released handles.
	RecordRelease(released bool)

	// RecordVecDot is called after each dot-product dispatch.
	// cached reports which path ran; hit is false when a cached-path handle
	// failed to resolve and the fail-soft zero result was produced.
	RecordVecDot(n int, cached, hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCacheWeights(time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(bool)                      {}
func (NoopMetricsCollector) RecordVecDot(int, bool, bool)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CacheWeightsCount  atomic.Int64
	CacheWeightsErrors atomic.Int64
	CacheWeightsNanos  atomic.Int64
	ReleaseCount       atomic.Int64
	ReleaseStale       atomic.Int64
	VecDotCached       atomic.Int64
	VecDotFallback     atomic.Int64
	VecDotHandleMisses atomic.Int64
	VecDotElements     atomic.Int64
}

// RecordCacheWeights implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheWeights(duration time.Duration, err error) {
	b.CacheWeightsCount.Add(1)
	b.CacheWeightsNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CacheWeightsErrors.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(released bool) {
	b.ReleaseCount.Add(1)
	if !released {
		b.ReleaseStale.Add(1)
	}
}

// RecordVecDot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVecDot(n int, cached, hit bool) {
	if cached {
		b.VecDotCached.Add(1)
		if !hit {
			b.VecDotHandleMisses.Add(1)
		}
	} else {
		b.VecDotFallback.Add(1)
	}
	b.VecDotElements.Add(int64(n))
}
