package circuitmonitor

import "time"

// EventView is the display-friendly projection of an Event.
type EventView struct {
	Circuit     string
	Transition  string
	Timestamp   time.Time
	SuccessRate float64
}

// AlertView is the display-friendly projection of an Alert.
type AlertView struct {
	Circuit   string
	Severity  string
	Message   string
	Timestamp time.Time
}

// Dashboard is a single snapshot combining health, recent activity, and
// aggregated metrics — the shape an operator-facing status page renders.
type Dashboard struct {
	Summary      HealthSummary
	RecentEvents []EventView
	RecentAlerts []AlertView
	Metrics      map[string]Aggregate
}

// BuildDashboard assembles a Dashboard from a Monitor and its paired
// MetricsCollector.
func BuildDashboard(m *Monitor, collector *MetricsCollector, window time.Duration) Dashboard {
	events := m.RecentEvents(20)
	alerts := m.RecentAlerts(10)

	eventViews := make([]EventView, len(events))
	for i, e := range events {
		eventViews[i] = EventView{
			Circuit:     e.CircuitName,
			Transition:  e.OldState.String() + " -> " + e.NewState.String(),
			Timestamp:   e.Timestamp,
			SuccessRate: e.SuccessRate,
		}
	}

	alertViews := make([]AlertView, len(alerts))
	for i, a := range alerts {
		alertViews[i] = AlertView{
			Circuit:   a.CircuitName,
			Severity:  a.Severity.String(),
			Message:   a.Message,
			Timestamp: a.Timestamp,
		}
	}

	var metrics map[string]Aggregate
	if collector != nil {
		metrics = collector.Aggregated(window)
	}

	return Dashboard{
		Summary:      m.HealthSummary(),
		RecentEvents: eventViews,
		RecentAlerts: alertViews,
		Metrics:      metrics,
	}
}
