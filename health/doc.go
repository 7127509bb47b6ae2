// Package health provides the generic health-checking framework this
// module's Aggregator wraps around two concrete sources: the circuit
// breaker registry (via circuit.RegistryChecker) and the MCP connection
// manager (via mcp.ManagerChecker). session.Registry builds one Aggregator
// from whichever of those two it's configured with and exposes it over
// /healthz and /readyz.
//
// # Ecosystem Position
//
// health sits between session.Registry and the process's liveness/readiness
// probes:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     Health Check Architecture                   │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   Probe               health              Component              │
//	│   ┌─────────┐      ┌───────────┐        ┌───────────────┐      │
//	│   │Liveness │─────▶│  HTTP     │        │ circuit.Registry│     │
//	│   │ Probe   │      │ Handlers  │        │ RegistryChecker │     │
//	│   ├─────────┤      │           │        ├───────────────┤      │
//	│   │Readiness│─────▶│ /healthz  │◀───────│   mcp.Manager   │     │
//	│   │ Probe   │      │ /readyz   │        │ ManagerChecker  │     │
//	│   └─────────┘      │           │        └───────────────┘      │
//	│                    │ ┌───────┐ │                                │
//	│   session.Registry │ │Aggreg-│◀┼────────────────────────────────┘
//	│   ┌─────────┐      │ │ ator  │ │
//	│   │CheckHealth────▶│ └───────┘ │
//	│   └─────────┘      └───────────┘                                │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Status Types
//
// The [Status] type represents component health:
//
//   - [StatusHealthy]: Component is functioning normally
//   - [StatusDegraded]: Component is functioning but with issues
//   - [StatusUnhealthy]: Component is not functioning properly
//
// # Core Components
//
//   - [Checker]: Interface for health checks (Name() + Check())
//   - [CheckerFunc]: Adapter for function-based checkers
//   - [Result]: Health check outcome with status, message, details, duration
//   - [Aggregator]: Combines multiple checkers into composite health
//   - [MemoryChecker]: Built-in checker for memory usage thresholds
//
// # Quick Start
//
//	circuitRegistry := circuit.NewRegistry()
//	mcpManager := mcp.NewManager(mcp.ManagerConfig{Registry: circuitRegistry})
//
//	registry := session.NewRegistry(session.RegistryConfig{
//	    CircuitRegistry: circuitRegistry,
//	    MCPManager:      mcpManager,
//	})
//
//	// Check all components
//	results := registry.CheckHealth(ctx)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/healthz", registry.LivenessHandler())
//	mux.HandleFunc("/readyz", registry.ReadinessHandler())
//
// # HTTP Endpoints
//
// The package provides Kubernetes-compatible HTTP handlers:
//
//   - [LivenessHandler]: Simple /healthz endpoint - always returns 200 if running
//   - [ReadinessHandler]: Runs all checks, returns 503 if any unhealthy
//   - [DetailedHandler]: Returns JSON with full check details
//   - [SingleCheckHandler]: Check a specific component by name
//   - [RegisterHandlers]: Convenience function to register all handlers
//
// Example registration:
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, aggregator)
//	// Registers: /healthz, /readyz, /health
//
// # Aggregation Behavior
//
// The [Aggregator] computes overall status using worst-case logic:
//
//   - If ANY check is Unhealthy → overall Unhealthy (e.g. an open breaker or
//     a failed MCP server)
//   - If ANY check is Degraded (and none Unhealthy) → overall Degraded (a
//     half-open breaker probing recovery)
//   - If ALL checks are Healthy → overall Healthy
//
// Checks can run in parallel (default) or sequentially via [AggregatorConfig].
//
// # Thread Safety
//
// All exported types are safe for concurrent use:
//
//   - [Aggregator]: sync.RWMutex protects registration and check execution
//   - [MemoryChecker]: Stateless, concurrent-safe
//   - [CheckerFunc]: Delegates to user function, ensure your function is safe
//   - [Result]: Immutable after creation
//
// # Error Handling
//
// Sentinel errors (use errors.Is for checking):
//
//   - [ErrCheckFailed]: Generic health check failure
//   - [ErrCheckTimeout]: Check exceeded timeout
//   - [ErrCheckerNotFound]: Named checker not registered
//   - [ErrNoCheckers]: No checkers registered in aggregator
//
// # Integration
//
//   - circuit: RegistryChecker reports the worst breaker state across a Registry
//   - mcp: ManagerChecker reports the worst per-server HealthStatus
//   - session: Registry owns the Aggregator these checkers are registered into
//   - observe: Log health check results via observability middleware
package health
