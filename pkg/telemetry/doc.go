// Package telemetry groups the observability packages of costlens.
//
// # Components
//
//   - logging: Structured slog logging with run-scoped fields and redaction
//   - metrics: Prometheus run metrics written to a node-exporter textfile
//   - tracing: OpenTelemetry traces of command runs over OTLP/gRPC
//
// Each component is configured from the telemetry section of the
// configuration file:
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    enabled: true
//	    textfile_path: /var/lib/node_exporter/costlens.prom
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
package telemetry
