package circuitmonitor

import (
	"sync"
	"time"

	"github.com/netra-systems/agentfabric/circuit"
)

const defaultSampleCap = 1000

// Sample is one point-in-time reading of a circuit's metrics.
type Sample struct {
	Timestamp time.Time
	State     circuit.State
	Metrics   circuit.Counters
}

// Aggregate summarizes a window of Samples for one circuit.
type Aggregate struct {
	AvgSuccessRate  float64
	TotalCalls      int64
	TotalRejections int64
	TotalTimeouts   int64
	// StateChanges is the number of distinct states observed in the
	// window, minus one. Zero means the circuit held a single state
	// throughout.
	StateChanges int
}

// MetricsCollector samples a circuit.Registry over time and aggregates the
// history per circuit, bounded by a fixed per-circuit ring so memory does
// not grow without limit.
type MetricsCollector struct {
	registry  *circuit.Registry
	sampleCap int

	mu      sync.Mutex
	history map[string]*ring[Sample]
}

// NewMetricsCollector creates a MetricsCollector over registry. sampleCap
// bounds how many samples are retained per circuit; 0 uses the default of
// 1000.
func NewMetricsCollector(registry *circuit.Registry, sampleCap int) *MetricsCollector {
	if sampleCap <= 0 {
		sampleCap = defaultSampleCap
	}
	return &MetricsCollector{
		registry:  registry,
		sampleCap: sampleCap,
		history:   make(map[string]*ring[Sample]),
	}
}

// Collect takes one sample of every registered circuit and stores it.
func (c *MetricsCollector) Collect() map[string]circuit.Status {
	all := c.registry.GetAllStatus()
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, status := range all {
		r, ok := c.history[name]
		if !ok {
			r = newRing[Sample](c.sampleCap)
			c.history[name] = r
		}
		r.push(Sample{Timestamp: now, State: status.State, Metrics: status.Metrics})
	}
	return all
}

// History returns the samples for name taken within the last window.
func (c *MetricsCollector) History(name string, window time.Duration) []Sample {
	c.mu.Lock()
	r, ok := c.history[name]
	var all []Sample
	if ok {
		all = r.last(0)
	}
	c.mu.Unlock()

	if !ok || window <= 0 {
		return all
	}

	cutoff := time.Now().Add(-window)
	out := make([]Sample, 0, len(all))
	for _, s := range all {
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// Aggregated returns an Aggregate for every circuit with at least one
// sample within the last window.
func (c *MetricsCollector) Aggregated(window time.Duration) map[string]Aggregate {
	c.mu.Lock()
	names := make([]string, 0, len(c.history))
	for name := range c.history {
		names = append(names, name)
	}
	c.mu.Unlock()

	out := make(map[string]Aggregate, len(names))
	for _, name := range names {
		samples := c.History(name, window)
		if len(samples) == 0 {
			continue
		}
		out[name] = aggregate(samples)
	}
	return out
}

func aggregate(samples []Sample) Aggregate {
	var totalCalls, totalRejections, totalTimeouts int64
	var rateSum float64
	var rateCount int
	states := make(map[circuit.State]struct{}, 3)

	for _, s := range samples {
		totalCalls += s.Metrics.TotalCalls
		totalRejections += s.Metrics.RejectedCalls
		totalTimeouts += s.Metrics.Timeouts
		if s.Metrics.TotalCalls > 0 {
			rateSum += s.Metrics.SuccessRate()
			rateCount++
		}
		states[s.State] = struct{}{}
	}

	var avg float64
	if rateCount > 0 {
		avg = rateSum / float64(rateCount)
	}

	return Aggregate{
		AvgSuccessRate:  avg,
		TotalCalls:      totalCalls,
		TotalRejections: totalRejections,
		TotalTimeouts:   totalTimeouts,
		StateChanges:    len(states) - 1,
	}
}
