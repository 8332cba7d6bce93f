// Package tracing provides OpenTelemetry tracing for costlens runs.
//
// # Overview
//
// Every command run is one trace. The root span covers the command; child
// spans cover loading the log, processing it and exporting the report. Spans
// are exported to an OTLP/gRPC collector.
//
// # Parent Traces
//
// When costlens runs inside a traced pipeline (a CI job, a scheduler), the
// parent context can be passed in the W3C TRACEPARENT and TRACESTATE
// environment variables:
//
//	TRACEPARENT=00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01 costlens process session.json
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample all runs (default)
//   - never: Sample no runs
//   - ratio: Sample a fraction of runs
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx = tracing.FromEnvironment(ctx)
//	ctx, span := tracer.Start(ctx, "costlens.process")
//	defer span.End()
//
//	result, err := p.Process(ctx, evs)
//	tracing.SetResult(span, result)
//	tracing.SetStatus(span, err)
//
// When tracing is disabled a noop tracer is returned and spans cost next to
// nothing.
package tracing
