// Package resilience provides the reliability patterns the MCP connection
// manager wraps every outbound call in: retry, timeout, and bulkhead
// concurrency limiting. Patterns can be composed with Executor to build a
// single call pipeline, though the connection manager wires Retry and
// Timeout directly around negotiation and leaves circuit breaking to the
// dedicated circuit package rather than resilience's own CircuitBreaker.
//
// # Ecosystem Position
//
// resilience sits between the connection manager and the transport it is
// dialing:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                 MCP Connection Manager Call Path                 │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   mcp.Manager        resilience              MCP Server          │
//	│   ┌──────────┐     ┌───────────┐           ┌─────────┐         │
//	│   │ Create   │────▶│ Bulkhead  │──────────▶│ Connect │         │
//	│   │Connection│     │           │           │Negotiate│         │
//	│   └──────────┘     │ ┌───────┐ │           └─────────┘         │
//	│                    │ │ Retry │ │                                │
//	│                    │ ├───────┤ │                                │
//	│                    │ │Timeout│ │                                │
//	│                    │ └───────┘ │                                │
//	│                    └───────────┘                                │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Resilience Patterns
//
// The package provides five core patterns:
//
//   - [CircuitBreaker]: Prevents cascading failures by stopping requests to
//     failing services after a threshold is reached. Transitions through
//     Closed → Open → HalfOpen states. Not used by this module's MCP call
//     path, which relies on circuit.Breaker's per-server breaker instead.
//
//   - [Retry]: Automatically retries failed operations with configurable
//     backoff strategies (exponential, linear, constant) and jitter. Wraps
//     every MCP negotiation attempt.
//
//   - [RateLimiter]: Token bucket rate limiting to prevent overwhelming
//     downstream services. Supports burst allowance and wait-on-limit.
//
//   - [Bulkhead]: Semaphore-based concurrency limiting. Bounds how many MCP
//     connection attempts run at once across every server a Manager knows
//     about.
//
//   - [Timeout]: Context-based timeout to ensure operations complete within
//     a time limit. Bounds the overall MCP negotiation window, including
//     every retry attempt inside it.
//
// # Quick Start
//
//	// Individual pattern usage
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 20})
//
//	err := bh.Execute(ctx, func(ctx context.Context) error {
//	    return dialServer(ctx)
//	})
//
//	// Composed patterns with Executor
//	executor := resilience.NewExecutor(
//	    resilience.WithBulkhead(bh),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 100 * time.Millisecond,
//	    })),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err = executor.Execute(ctx, func(ctx context.Context) error {
//	    return dialServer(ctx)
//	})
//
// # Execution Order
//
// When using the Executor, patterns are applied in this order (outermost first):
//
//  1. Rate Limiter - limits request rate
//  2. Bulkhead - limits concurrency
//  3. Circuit Breaker - prevents cascading failures
//  4. Retry - retries on failure
//  5. Timeout - limits execution time (innermost)
//
// mcp.Manager does not use Executor for negotiation: it nests Retry inside
// an outer Timeout directly, so the timeout bounds the whole retry budget
// rather than each individual attempt.
//
// # Thread Safety
//
// All exported types are safe for concurrent use after construction:
//
//   - [CircuitBreaker]: Execute() and State() are mutex-protected; Reset() is safe
//   - [Retry]: Execute() is stateless and safe for concurrent use
//   - [RateLimiter]: Allow(), AllowN(), Wait(), Execute() are mutex-protected
//   - [Bulkhead]: Acquire(), Release(), Execute() use channel-based semaphore
//   - [Timeout]: Execute() is stateless and safe for concurrent use
//   - [Executor]: Execute() is safe; all wrapped patterns maintain their guarantees
//
// # Error Handling
//
// Each pattern returns specific sentinel errors (use errors.Is for checking):
//
//   - [ErrCircuitOpen]: Circuit breaker is in open state, rejecting requests
//   - [ErrMaxRetriesExceeded]: Defined for exhausted retries; not returned by
//     [Retry], whose Execute returns the last operation error
//   - [ErrRateLimitExceeded]: Rate limit exceeded and no wait configured
//   - [ErrBulkheadFull]: Bulkhead at maximum concurrency
//   - [ErrTimeout]: Operation exceeded configured timeout
//
// Example error handling:
//
//	err := bh.Execute(ctx, dial)
//	if errors.Is(err, resilience.ErrBulkheadFull) {
//	    // Too many connection attempts in flight across every server
//	    return nil, status.Error(codes.ResourceExhausted, "connection manager at capacity")
//	}
//
// # Callbacks and Observability
//
// Patterns support callbacks for observability integration:
//
//   - CircuitBreakerConfig.OnStateChange: Called on state transitions
//   - RetryConfig.OnRetry: Called before each retry attempt
//   - CircuitBreakerConfig.IsFailure: Custom failure classification
//   - RetryConfig.RetryIf: Custom retry decision logic
//
// # Integration
//
//   - mcp: Bulkhead bounds connection attempts; Retry+Timeout wrap negotiation
//   - observe: Connect callbacks to observability middleware
//   - circuit, health: RegistryChecker/ManagerChecker report breaker and pool
//     state independently of these patterns
package resilience
