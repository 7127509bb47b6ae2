package observe

import (
	"context"
	"time"
)

// FabricOperationFunc is the signature for a fabric operation.
// This is the standard function signature that Middleware wraps.
type FabricOperationFunc func(ctx context.Context, op OperationMeta, input any) (any, error)

// Middleware wraps a fabric operation with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe FabricOperationFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
//   - Ownership: Input/output values are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a FabricOperationFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn FabricOperationFunc) FabricOperationFunc {
	return func(ctx context.Context, op OperationMeta, input any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, op)

		start := time.Now()
		result, err := fn(ctx, op, input)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, op, duration, err)

		opLogger := m.logger.WithOperation(op)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "fabric operation failed", fields...)
		} else {
			opLogger.Info(ctx, "fabric operation completed", fields...)
		}

		return result, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
