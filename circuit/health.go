package circuit

import (
	"context"
	"fmt"

	"github.com/netra-systems/agentfabric/health"
)

// RegistryChecker reports every breaker in a Registry as one composite
// health.Checker: any breaker open makes the check unhealthy, any breaker
// half-open makes it degraded, and a breaker set with no breakers at all
// is healthy by default.
type RegistryChecker struct {
	name     string
	registry *Registry
}

// NewRegistryChecker wraps registry as a health.Checker under name.
func NewRegistryChecker(name string, registry *Registry) *RegistryChecker {
	return &RegistryChecker{name: name, registry: registry}
}

// Name returns the checker's registered name.
func (c *RegistryChecker) Name() string {
	return c.name
}

// Check reports the worst state across every registered breaker.
func (c *RegistryChecker) Check(ctx context.Context) health.Result {
	statuses := c.registry.GetAllStatus()
	if len(statuses) == 0 {
		return health.Healthy("no breakers registered")
	}

	details := make(map[string]any, len(statuses))
	open := 0
	halfOpen := 0
	for name, st := range statuses {
		details[name] = map[string]any{
			"state":         st.State.String(),
			"failure_count": st.FailureCount,
			"success_rate":  st.Metrics.SuccessRate(),
		}
		switch st.State {
		case StateOpen:
			open++
		case StateHalfOpen:
			halfOpen++
		}
	}

	var result health.Result
	switch {
	case open > 0:
		result = health.Unhealthy(fmt.Sprintf("%d breaker(s) open", open), ErrCircuitOpen)
	case halfOpen > 0:
		result = health.Degraded(fmt.Sprintf("%d breaker(s) half-open, probing recovery", halfOpen))
	default:
		result = health.Healthy("all breakers closed")
	}
	return result.WithDetails(details)
}
