// Package observe provides OpenTelemetry-based observability for fabric
// operations: circuit breaker calls, MCP connection pool actions, and
// per-user session/agent lifecycle steps.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the Observer into circuit, mcp,
// session, and bridge, or into any other middleware layer.
//
// # Overview
//
// observe provides three observability pillars:
//   - Tracing: OpenTelemetry spans with operation metadata attributes
//   - Metrics: Execution counters and duration histograms
//   - Logging: Structured JSON logging with automatic field redaction
//
// # Core Components
//
//   - [Observer]: Main facade providing Tracer, Meter, and Logger access
//   - [Tracer]: Span creation with operation metadata as span attributes
//   - [Metrics]: Records execution counts, errors, and duration histograms
//   - [Logger]: Structured JSON logging with sensitive field redaction
//   - [Middleware]: Wraps a FabricOperationFunc with complete observability
//
// # Quick Start
//
//	cfg := observe.Config{
//	    ServiceName: "agent-fabric",
//	    Version:     "1.0.0",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 1.0},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	}
//
//	obs, err := observe.NewObserver(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer obs.Shutdown(ctx)
//
//	// Create middleware and wrap a fabric operation
//	mw, _ := observe.MiddlewareFromObserver(obs)
//	wrapped := mw.Wrap(originalOperationFunc)
//
//	// Execute - automatically traced, metered, and logged
//	result, err := wrapped(ctx, opMeta, input)
//
// # Telemetry Details
//
// Tracing creates spans with deterministic names:
//   - With component: "fabric.<component>.<name>" (e.g., "fabric.circuit.execute")
//   - Without component: "fabric.<name>" (e.g., "fabric.release_connection")
//
// Span attributes include:
//   - fabric.operation.id: Fully qualified operation identifier
//   - fabric.operation.name: Operation name (required)
//   - fabric.component: Owning component (if set)
//   - fabric.operation.version: Operation version (if set)
//   - fabric.operation.category: Operation category (if set)
//   - fabric.operation.tags: Discovery tags (if set)
//   - fabric.operation.error: Boolean indicating execution failure
//
// Metrics recorded:
//   - fabric.op.total (counter): Total executions by operation
//   - fabric.op.errors (counter): Total errors by operation
//   - fabric.op.duration_ms (histogram): Duration distribution in milliseconds
//
// All metrics include labels: fabric.operation.id, fabric.operation.name,
// fabric.component (if set).
//
// # Sensitive Field Redaction
//
// The logger automatically redacts these fields to prevent credential leakage:
//   - input, inputs
//   - password, secret, token
//   - api_key, apiKey, credential
//
// See [RedactedFields] for the complete list.
//
// # Exporter Configuration
//
// Tracing exporters:
//   - "otlp": OTLP gRPC (requires OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_TRACES_ENDPOINT)
//   - "jaeger": Jaeger via OTLP (requires OTEL_EXPORTER_JAEGER_ENDPOINT)
//   - "stdout": Console output for development
//   - "none" or "": Disabled (no-op)
//
// Metrics exporters:
//   - "otlp": OTLP gRPC (requires OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_METRICS_ENDPOINT)
//   - "prometheus": Prometheus scrape endpoint
//   - "stdout": Console output for development
//   - "none" or "": Disabled (no-op)
//
// # Thread Safety
//
// All exported types are safe for concurrent use after construction:
//   - [Observer]: Tracer(), Meter(), Logger() are safe; Shutdown() is idempotent
//   - [Tracer]: StartSpan() and EndSpan() are safe for concurrent use
//   - [Metrics]: RecordExecution() is safe for concurrent use
//   - [Logger]: All logging methods are mutex-protected
//   - [Middleware]: Wrap() returns a thread-safe FabricOperationFunc
//
// # Error Handling
//
// Configuration errors (use errors.Is for checking):
//   - [ErrMissingServiceName]: Config.ServiceName is empty
//   - [ErrInvalidSamplePct]: Tracing.SamplePct not in [0.0, 1.0]
//   - [ErrInvalidTracingExporter]: Unknown tracing exporter name
//   - [ErrInvalidMetricsExporter]: Unknown metrics exporter name
//   - [ErrInvalidLogLevel]: Unknown log level
//
// Exporter errors:
//   - [ErrEndpointNotConfigured]: Required endpoint env var not set
//
// Runtime errors:
//   - [ErrNilObserver]: Nil Observer passed to function
//   - [ErrMissingOperationName]: OperationMeta.Name is empty
//
// Example error handling:
//
//	obs, err := observe.NewObserver(ctx, cfg)
//	if errors.Is(err, observe.ErrMissingServiceName) {
//	    // Handle missing service name
//	}
//	if errors.Is(err, observe.ErrEndpointNotConfigured) {
//	    // Handle missing OTLP endpoint
//	}
//
// # Integration
//
// Other packages in this module use observe as follows:
//   - mcp: spans for create_connection and health_check, structured logging
//   - session: spans for create_agent_for_user and create_tool_dispatcher_for_user,
//     logging of cleanup failures
//   - bridge: a warning log when the manager does not implement an event
//   - circuitmonitor: structured logging of events and alerts
//
// The circuit package does not use observe.
package observe
