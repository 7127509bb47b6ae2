package circuitmonitor

import (
	"strings"

	"github.com/netra-systems/agentfabric/circuit"
)

// Service is a coarse grouping of circuits by the kind of dependency they
// guard, used to roll per-circuit health into a per-service summary.
type Service string

const (
	ServiceLLM          Service = "llm"
	ServiceDatabase     Service = "database"
	ServiceExternalAPIs Service = "external_apis"
	ServiceOther        Service = "other"
)

var serviceKeywords = map[Service][]string{
	ServiceLLM:          {"llm"},
	ServiceDatabase:     {"postgres", "clickhouse", "db_"},
	ServiceExternalAPIs: {"http_", "api", "mcp"},
}

// CategorizeCircuits groups statuses by Service, based on substring matches
// against the circuit name. A circuit matching no known keyword set falls
// into ServiceOther.
func CategorizeCircuits(all map[string]circuit.Status) map[Service]map[string]circuit.Status {
	grouped := map[Service]map[string]circuit.Status{
		ServiceLLM:          {},
		ServiceDatabase:     {},
		ServiceExternalAPIs: {},
		ServiceOther:        {},
	}

	for name, status := range all {
		service := classify(name)
		grouped[service][name] = status
	}

	return grouped
}

func classify(name string) Service {
	lower := strings.ToLower(name)
	for _, service := range []Service{ServiceLLM, ServiceDatabase, ServiceExternalAPIs} {
		for _, kw := range serviceKeywords[service] {
			if strings.Contains(lower, kw) {
				return service
			}
		}
	}
	return ServiceOther
}

// ServiceSummary rolls up the circuits belonging to one Service.
type ServiceSummary struct {
	CircuitCount  int
	OverallHealth string
	Circuits      map[string]circuit.Status
}

// BuildServiceSummaries turns a CategorizeCircuits grouping into one
// ServiceSummary per service, with an overall health verdict derived from
// the worst circuit in the group.
func BuildServiceSummaries(grouped map[Service]map[string]circuit.Status) map[Service]ServiceSummary {
	out := make(map[Service]ServiceSummary, len(grouped))
	for service, circuits := range grouped {
		out[service] = ServiceSummary{
			CircuitCount:  len(circuits),
			OverallHealth: assessServiceHealth(circuits),
			Circuits:      circuits,
		}
	}
	return out
}

// assessServiceHealth returns "unhealthy" if any circuit in the group is
// open, "degraded" if any is half-open, otherwise "healthy". An empty group
// is "healthy" by convention — there is nothing to be unhealthy about.
func assessServiceHealth(circuits map[string]circuit.Status) string {
	degraded := false
	for _, status := range circuits {
		switch status.State {
		case circuit.StateOpen:
			return "unhealthy"
		case circuit.StateHalfOpen:
			degraded = true
		}
	}
	if degraded {
		return "degraded"
	}
	return "healthy"
}
