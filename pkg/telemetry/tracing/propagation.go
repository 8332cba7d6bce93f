package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/propagation"
)

// Environment variables carrying a parent trace context.
const (
	EnvTraceParent = "TRACEPARENT"
	EnvTraceState  = "TRACESTATE"
)

// FromEnvironment returns ctx with the W3C trace context found in the
// TRACEPARENT and TRACESTATE environment variables. Without them ctx is
// returned unchanged.
func FromEnvironment(ctx context.Context) context.Context {
	return Extract(ctx, os.Getenv(EnvTraceParent), os.Getenv(EnvTraceState))
}

// Extract returns ctx with the trace context described by a traceparent and
// tracestate pair. An invalid traceparent is ignored.
func Extract(ctx context.Context, traceparent, tracestate string) context.Context {
	if traceparent == "" {
		return ctx
	}
	carrier := propagation.MapCarrier{"traceparent": traceparent}
	if tracestate != "" {
		carrier["tracestate"] = tracestate
	}
	return propagation.TraceContext{}.Extract(ctx, carrier)
}
