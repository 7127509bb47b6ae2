package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OperationMeta contains metadata about a fabric operation for telemetry
// purposes. A "fabric operation" is any breaker-guarded call, MCP pool
// action, or per-user session/agent lifecycle step worth a span.
type OperationMeta struct {
	ID        string   // Fully qualified operation ID (component.name or just name)
	Component string   // Owning component, e.g. "circuit", "mcp", "session" (may be empty)
	Name      string   // Operation name (required)
	Version   string   // Optional schema/version tag
	Tags      []string // Optional tags for discovery/filtering
	Category  string   // Optional category, e.g. "pool", "breaker", "lifecycle"
}

// SpanName returns the deterministic span name for this operation.
// Format: fabric.<component>.<name> or fabric.<name>
func (m OperationMeta) SpanName() string {
	if m.Component != "" {
		return "fabric." + m.Component + "." + m.Name
	}
	return "fabric." + m.Name
}

// Validate checks that required fields are set.
func (m OperationMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingOperationName
	}
	return nil
}

// OperationID returns the fully qualified operation identifier.
// If ID field is set, returns it. Otherwise constructs from component and name.
func (m OperationMeta) OperationID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Component != "" {
		return m.Component + "." + m.Name
	}
	return m.Name
}

// Tracer wraps OpenTelemetry tracing with fabric-operation-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan derives the span from ctx and returns the derived context; it returns no error.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a fabric operation.
	StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	attrs := []attribute.KeyValue{
		attribute.String("fabric.operation.id", meta.OperationID()),
		attribute.String("fabric.operation.name", meta.Name),
		attribute.Bool("fabric.operation.error", false), // updated in EndSpan if error
	}

	if meta.Component != "" {
		attrs = append(attrs, attribute.String("fabric.component", meta.Component))
	}
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("fabric.operation.version", meta.Version))
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("fabric.operation.category", meta.Category))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("fabric.operation.tags", meta.Tags))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("fabric.operation.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
