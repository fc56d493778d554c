package goAuthClient

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by goAuthClient APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the client SDK.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the client SDK.
	MetricLoginFailure
	// MetricRegisterSuccess is an exported constant or variable used by the client SDK.
	MetricRegisterSuccess
	// MetricRegisterFailure is an exported constant or variable used by the client SDK.
	MetricRegisterFailure
	// MetricLogout is an exported constant or variable used by the client SDK.
	MetricLogout
	// MetricRequestSent is an exported constant or variable used by the client SDK.
	MetricRequestSent
	// MetricRequestRetried is an exported constant or variable used by the client SDK.
	MetricRequestRetried
	// MetricAuthorizationFailure is an exported constant or variable used by the client SDK.
	MetricAuthorizationFailure
	// MetricRenewalStarted is an exported constant or variable used by the client SDK.
	MetricRenewalStarted
	// MetricRenewalJoined is an exported constant or variable used by the client SDK.
	MetricRenewalJoined
	// MetricRenewalSuccess is an exported constant or variable used by the client SDK.
	MetricRenewalSuccess
	// MetricRenewalFailure is an exported constant or variable used by the client SDK.
	MetricRenewalFailure
	// MetricSessionExpired is an exported constant or variable used by the client SDK.
	MetricSessionExpired
	// MetricCacheHit is an exported constant or variable used by the client SDK.
	MetricCacheHit
	// MetricCacheDiscarded is an exported constant or variable used by the client SDK.
	MetricCacheDiscarded
	// MetricRequestLatency is an exported constant or variable used by the client SDK.
	MetricRequestLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by goAuthClient APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by goAuthClient APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled describes the enabled operation and its observable behavior.
//
// Enabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// ObserveLatency describes the observelatency operation and its observable behavior.
//
// ObserveLatency records d into exponential buckets: <1ms, <2ms, <4ms, ...
// with the final bucket absorbing everything slower.
// ObserveLatency does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) ObserveLatency(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id >= metricIDCount {
		return
	}
	bucket := 0
	threshold := time.Millisecond
	for bucket < histBucketCount-1 && d >= threshold {
		bucket++
		threshold *= 2
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucket], 1)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snap.Counters[id] = v
		}
	}
	if m.enableLatency {
		for id := MetricID(0); id < metricIDCount; id++ {
			var buckets []uint64
			for b := 0; b < histBucketCount; b++ {
				v := atomic.LoadUint64(&m.histograms[id].buckets[b])
				if buckets == nil && v == 0 {
					continue
				}
				if buckets == nil {
					buckets = make([]uint64, histBucketCount)
				}
				buckets[b] = v
			}
			if buckets != nil {
				snap.Histograms[id] = buckets
			}
		}
	}
	return snap
}
