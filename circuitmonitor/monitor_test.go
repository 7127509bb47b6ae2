package circuitmonitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/netra-systems/agentfabric/circuit"
)

func TestMonitor_TickRecordsStateChangeEvent(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1})

	m := NewMonitor(registry, MonitorConfig{})
	m.tick(context.Background())

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	m.tick(context.Background())

	events := m.RecentEvents(10)
	if len(events) != 1 {
		t.Fatalf("RecentEvents() = %d entries, want 1", len(events))
	}
	if events[0].OldState != circuit.StateClosed || events[0].NewState != circuit.StateOpen {
		t.Errorf("event transition = %v -> %v, want closed -> open", events[0].OldState, events[0].NewState)
	}
}

func TestMonitor_OpenTransitionRaisesHighAlert(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1})

	m := NewMonitor(registry, MonitorConfig{})
	m.tick(context.Background())

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	m.tick(context.Background())

	alerts := m.RecentAlerts(10)
	if len(alerts) == 0 {
		t.Fatal("expected at least one alert")
	}

	found := false
	for _, a := range alerts {
		if a.Severity == SeverityHigh && a.Message == "Circuit breaker OPENED due to failures" {
			found = true
		}
	}
	if !found {
		t.Errorf("no OPEN alert found among %+v", alerts)
	}
}

func TestMonitor_LowSuccessRateAlert(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1000})

	m := NewMonitor(registry, MonitorConfig{})

	for i := 0; i < 11; i++ {
		_ = b.Execute(context.Background(), func(ctx context.Context) error {
			return errors.New("fail")
		})
	}

	m.tick(context.Background())

	found := false
	for _, a := range m.RecentAlerts(10) {
		if a.Severity == SeverityMedium {
			found = true
		}
	}
	if !found {
		t.Error("expected a medium-severity low success rate alert")
	}
}

func TestMonitor_NoAlertBelowCallFloor(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1000})

	m := NewMonitor(registry, MonitorConfig{})

	for i := 0; i < 5; i++ {
		_ = b.Execute(context.Background(), func(ctx context.Context) error {
			return errors.New("fail")
		})
	}

	m.tick(context.Background())

	for _, a := range m.RecentAlerts(10) {
		if a.Severity == SeverityMedium {
			t.Error("should not alert on low success rate below the call floor")
		}
	}
}

func TestMonitor_HighRejectionRateAlert(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
	})

	m := NewMonitor(registry, MonitorConfig{})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	for i := 0; i < 6; i++ {
		_ = b.Execute(context.Background(), func(ctx context.Context) error {
			return nil
		})
	}

	m.tick(context.Background())

	found := false
	for _, a := range m.RecentAlerts(10) {
		if a.Severity == SeverityHigh && a.Message != "Circuit breaker OPENED due to failures" {
			found = true
		}
	}
	if !found {
		t.Error("expected a high-severity rejection rate alert")
	}
}

func TestMonitor_AlertHandlerDispatched(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1})

	m := NewMonitor(registry, MonitorConfig{})

	var mu sync.Mutex
	var received []Alert
	m.AddAlertHandler(func(a Alert) {
		mu.Lock()
		received = append(received, a)
		mu.Unlock()
	})

	m.tick(context.Background())
	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	m.tick(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(received) == 0 {
		t.Error("alert handler was never invoked")
	}
}

func TestMonitor_HandlerPanicDoesNotStopLoop(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1})

	m := NewMonitor(registry, MonitorConfig{})
	m.AddAlertHandler(func(a Alert) {
		panic("handler exploded")
	})

	m.tick(context.Background())
	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	// Must not panic the caller.
	m.tick(context.Background())

	if len(m.RecentAlerts(10)) == 0 {
		t.Error("alert should still be recorded even though the handler panicked")
	}
}

func TestMonitor_HealthSummary(t *testing.T) {
	registry := circuit.NewRegistry()
	registry.GetOrCreate("healthy-dep", circuit.Config{})
	openDep := registry.GetOrCreate("open-dep", circuit.Config{FailureThreshold: 1})
	_ = openDep.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	m := NewMonitor(registry, MonitorConfig{})
	m.tick(context.Background())

	summary := m.HealthSummary()
	if summary.TotalCircuits != 2 {
		t.Errorf("TotalCircuits = %d, want 2", summary.TotalCircuits)
	}
	if summary.HealthyCircuits != 1 {
		t.Errorf("HealthyCircuits = %d, want 1", summary.HealthyCircuits)
	}
	if summary.UnhealthyCircuits != 1 {
		t.Errorf("UnhealthyCircuits = %d, want 1", summary.UnhealthyCircuits)
	}
}

func TestMonitor_StartStop(t *testing.T) {
	registry := circuit.NewRegistry()
	registry.GetOrCreate("dep", circuit.Config{})

	m := NewMonitor(registry, MonitorConfig{Interval: 5 * time.Millisecond})

	m.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	m.Stop()

	if len(m.lastStates) != 1 {
		t.Errorf("expected the loop to have observed the registered circuit")
	}
}

func TestMonitor_StartTwiceIsNoop(t *testing.T) {
	registry := circuit.NewRegistry()
	m := NewMonitor(registry, MonitorConfig{Interval: 5 * time.Millisecond})

	m.Start(context.Background())
	m.Start(context.Background())
	m.Stop()
}

func TestRing_DropsOldestOnOverflow(t *testing.T) {
	r := newRing[int](3)
	r.push(1)
	r.push(2)
	r.push(3)
	r.push(4)

	got := r.last(0)
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("last() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("last()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
