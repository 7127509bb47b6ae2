package mcp

import (
	"context"
	"fmt"

	"github.com/netra-systems/agentfabric/health"
)

// ManagerChecker reports the worst per-server HealthStatus across a
// Manager's registered servers as one composite health.Checker.
type ManagerChecker struct {
	name    string
	manager *Manager
}

// NewManagerChecker wraps manager as a health.Checker under name.
func NewManagerChecker(name string, manager *Manager) *ManagerChecker {
	return &ManagerChecker{name: name, manager: manager}
}

// Name returns the checker's registered name.
func (c *ManagerChecker) Name() string {
	return c.name
}

// Check reports degraded/unhealthy if any registered server is failed or
// degraded, healthy if every server is healthy, and healthy (with a
// no-servers message) if nothing is registered yet.
func (c *ManagerChecker) Check(ctx context.Context) health.Result {
	statuses := c.manager.Status()
	if len(statuses) == 0 {
		return health.Healthy("no MCP servers registered")
	}

	details := make(map[string]any, len(statuses))
	failed := 0
	degraded := 0
	for name, st := range statuses {
		details[name] = map[string]any{
			"health_status":      st.HealthStatus,
			"circuit_state":      st.CircuitBreakerState.String(),
			"pool_available":     st.Pool.Available,
			"pool_capacity":      st.Pool.Capacity,
			"failed_connections": st.FailedConnections,
		}
		switch st.HealthStatus {
		case "failed":
			failed++
		case "degraded":
			degraded++
		}
	}

	var result health.Result
	switch {
	case failed > 0:
		result = health.Unhealthy(fmt.Sprintf("%d MCP server(s) failed", failed), ErrResourceUnavailable)
	case degraded > 0:
		result = health.Degraded(fmt.Sprintf("%d MCP server(s) degraded", degraded))
	default:
		result = health.Healthy("all MCP servers healthy")
	}
	return result.WithDetails(details)
}
