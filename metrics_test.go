package goAuthClient

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricRequestSent)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if got := snap.Counters[MetricRequestSent]; got != workers*perWorker {
		t.Fatalf("counter = %d, want %d", got, workers*perWorker)
	}
	if got := snap.Counters[MetricLoginSuccess]; got != 0 {
		t.Fatalf("untouched counter = %d, want 0", got)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricRequestSent)
	m.ObserveLatency(MetricRequestLatency, time.Millisecond)

	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("disabled metrics recorded counters: %v", snap.Counters)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.ObserveLatency(MetricRequestLatency, 500*time.Microsecond)
	m.ObserveLatency(MetricRequestLatency, 50*time.Millisecond)
	m.ObserveLatency(MetricRequestLatency, 5*time.Second)

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricRequestLatency]
	if buckets == nil {
		t.Fatal("missing latency histogram")
	}
	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 3 {
		t.Fatalf("histogram observations = %d, want 3", total)
	}
}
