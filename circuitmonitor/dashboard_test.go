package circuitmonitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/netra-systems/agentfabric/circuit"
)

func TestBuildDashboard(t *testing.T) {
	registry := circuit.NewRegistry()
	b := registry.GetOrCreate("dep", circuit.Config{FailureThreshold: 1})

	m := NewMonitor(registry, MonitorConfig{})
	collector := NewMetricsCollector(registry, 0)

	m.tick(context.Background())
	collector.Collect()

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	m.tick(context.Background())
	collector.Collect()

	dash := BuildDashboard(m, collector, time.Hour)

	if dash.Summary.TotalCircuits != 1 {
		t.Errorf("Summary.TotalCircuits = %d, want 1", dash.Summary.TotalCircuits)
	}
	if len(dash.RecentEvents) != 1 {
		t.Fatalf("RecentEvents = %d, want 1", len(dash.RecentEvents))
	}
	if dash.RecentEvents[0].Transition != "closed -> open" {
		t.Errorf("Transition = %q, want %q", dash.RecentEvents[0].Transition, "closed -> open")
	}
	if len(dash.RecentAlerts) == 0 {
		t.Error("expected at least one alert in the dashboard")
	}
	if _, ok := dash.Metrics["dep"]; !ok {
		t.Error("dashboard metrics missing dep")
	}
}

func TestBuildDashboard_NilCollector(t *testing.T) {
	registry := circuit.NewRegistry()
	registry.GetOrCreate("dep", circuit.Config{})
	m := NewMonitor(registry, MonitorConfig{})
	m.tick(context.Background())

	dash := BuildDashboard(m, nil, time.Hour)
	if dash.Metrics != nil {
		t.Errorf("Metrics = %v, want nil when no collector is supplied", dash.Metrics)
	}
}
