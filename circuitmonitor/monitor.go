package circuitmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netra-systems/agentfabric/circuit"
	"github.com/netra-systems/agentfabric/observe"
)

const (
	defaultEventCap = 1000
	defaultAlertCap = 500

	lowSuccessRateThreshold = 0.5
	lowSuccessRateMinCalls  = 10
	highRejectionRateThresh = 0.1
	highRejectionRateMinRej = 5
)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	// Interval is how often the registry is polled. Default 5s.
	Interval time.Duration

	// EventCapacity bounds the state-change event ring. Default 1000.
	EventCapacity int

	// AlertCapacity bounds the alert ring. Default 500.
	AlertCapacity int

	Logger observe.Logger
}

func (c *MonitorConfig) setDefaults() {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.EventCapacity <= 0 {
		c.EventCapacity = defaultEventCap
	}
	if c.AlertCapacity <= 0 {
		c.AlertCapacity = defaultAlertCap
	}
	if c.Logger == nil {
		c.Logger = observe.NewNoopLogger()
	}
}

// Monitor polls a circuit.Registry, derives state-change events, and raises
// alerts on sustained low success rate, high rejection rate, or a trip to
// OPEN. It never abandons polling on a single bad tick — errors from a
// handler are logged and the loop continues.
type Monitor struct {
	registry *circuit.Registry
	config   MonitorConfig

	mu         sync.Mutex
	lastStates map[string]circuit.State
	events     *ring[Event]
	alerts     *ring[Alert]
	handlers   []AlertHandler

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a Monitor over registry.
func NewMonitor(registry *circuit.Registry, cfg MonitorConfig) *Monitor {
	cfg.setDefaults()
	return &Monitor{
		registry:   registry,
		config:     cfg,
		lastStates: make(map[string]circuit.State),
		events:     newRing[Event](cfg.EventCapacity),
		alerts:     newRing[Alert](cfg.AlertCapacity),
	}
}

// AddAlertHandler registers a handler invoked for every new alert. Handlers
// are called in registration order from the monitor's own goroutine.
func (m *Monitor) AddAlertHandler(h AlertHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// Start begins polling in a background goroutine. Calling Start twice
// without an intervening Stop is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		m.config.Logger.Warn(ctx, "circuit monitor already running")
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.config.Logger.Info(ctx, "circuit monitor started",
		observe.Field{Key: "interval", Value: m.config.Interval.String()})

	go m.loop(loopCtx)
}

// Stop halts polling and waits for the loop goroutine to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		m.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick checks every registered circuit once. It is unexported; the
// monitoring loop calls it on every scheduled poll.
func (m *Monitor) tick(ctx context.Context) {
	for name, status := range m.registry.GetAllStatus() {
		m.processStatus(ctx, name, status)
	}
}

func (m *Monitor) processStatus(ctx context.Context, name string, status circuit.Status) {
	m.mu.Lock()
	oldState, known := m.lastStates[name]
	m.lastStates[name] = status.State
	m.mu.Unlock()

	if known && oldState != status.State {
		m.handleStateChange(ctx, name, oldState, status)
	}

	m.checkAlerts(ctx, name, status)
}

func (m *Monitor) handleStateChange(ctx context.Context, name string, oldState circuit.State, status circuit.Status) {
	event := Event{
		CircuitName:  name,
		OldState:     oldState,
		NewState:     status.State,
		Timestamp:    time.Now(),
		FailureCount: status.FailureCount,
		SuccessRate:  status.Metrics.SuccessRate(),
		Metrics:      status.Metrics,
	}

	m.mu.Lock()
	m.events.push(event)
	m.mu.Unlock()

	m.config.Logger.Info(ctx, "circuit breaker state change",
		observe.Field{Key: "circuit", Value: name},
		observe.Field{Key: "old_state", Value: oldState.String()},
		observe.Field{Key: "new_state", Value: status.State.String()})

	if status.State == circuit.StateOpen {
		m.raiseAlert(ctx, Alert{
			CircuitName: name,
			Severity:    SeverityHigh,
			Message:     "Circuit breaker OPENED due to failures",
			Timestamp:   time.Now(),
			State:       status.State,
			Metrics:     status.Metrics,
		})
	}
}

func (m *Monitor) checkAlerts(ctx context.Context, name string, status circuit.Status) {
	metrics := status.Metrics
	successRate := metrics.SuccessRate()

	if status.State == circuit.StateClosed &&
		successRate < lowSuccessRateThreshold &&
		metrics.TotalCalls > lowSuccessRateMinCalls {
		m.raiseAlert(ctx, Alert{
			CircuitName: name,
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("Low success rate: %.2f%%", successRate*100),
			Timestamp:   time.Now(),
			State:       status.State,
			Metrics:     metrics,
		})
	}

	rejectionRate := metrics.RejectionRate()
	if rejectionRate > highRejectionRateThresh && metrics.RejectedCalls > highRejectionRateMinRej {
		m.raiseAlert(ctx, Alert{
			CircuitName: name,
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("High rejection rate: %.2f%%", rejectionRate*100),
			Timestamp:   time.Now(),
			State:       status.State,
			Metrics:     metrics,
		})
	}
}

func (m *Monitor) raiseAlert(ctx context.Context, alert Alert) {
	m.mu.Lock()
	m.alerts.push(alert)
	handlers := make([]AlertHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	m.config.Logger.Warn(ctx, "circuit breaker alert",
		observe.Field{Key: "circuit", Value: alert.CircuitName},
		observe.Field{Key: "severity", Value: alert.Severity.String()},
		observe.Field{Key: "message", Value: alert.Message})

	for _, h := range handlers {
		m.dispatch(ctx, h, alert)
	}
}

func (m *Monitor) dispatch(ctx context.Context, h AlertHandler, alert Alert) {
	defer func() {
		if r := recover(); r != nil {
			m.config.Logger.Error(ctx, "alert handler panicked",
				observe.Field{Key: "circuit", Value: alert.CircuitName},
				observe.Field{Key: "panic", Value: fmt.Sprintf("%v", r)})
		}
	}()
	h(alert)
}

// RecentEvents returns up to limit of the most recent state-change events.
func (m *Monitor) RecentEvents(limit int) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.last(limit)
}

// RecentAlerts returns up to limit of the most recent alerts.
func (m *Monitor) RecentAlerts(limit int) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alerts.last(limit)
}

// HealthSummary categorizes every circuit last observed by the monitor into
// healthy/degraded/unhealthy buckets.
type HealthSummary struct {
	TotalCircuits     int
	HealthyCircuits   int
	DegradedCircuits  int
	UnhealthyCircuits int
	RecentEvents      int
	RecentAlerts      int
}

// HealthSummary builds a HealthSummary from the last known state of every
// circuit the monitor has observed.
func (m *Monitor) HealthSummary() HealthSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := HealthSummary{
		TotalCircuits: len(m.lastStates),
		RecentEvents:  min(10, m.events.len()),
		RecentAlerts:  min(10, m.alerts.len()),
	}

	for _, state := range m.lastStates {
		switch categorizeState(state) {
		case "healthy":
			summary.HealthyCircuits++
		case "degraded":
			summary.DegradedCircuits++
		default:
			summary.UnhealthyCircuits++
		}
	}

	return summary
}

func categorizeState(s circuit.State) string {
	switch s {
	case circuit.StateClosed:
		return "healthy"
	case circuit.StateHalfOpen:
		return "degraded"
	default:
		return "unhealthy"
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
