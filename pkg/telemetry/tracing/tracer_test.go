package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/costlens/pkg/config"
	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/processor"
)

func testTracer(t *testing.T, sampler string) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tr, err := NewWithExporter(&config.TracingConfig{Enabled: true, Sampler: sampler, ServiceName: "test"}, "0.0.1", exporter)
	if err != nil {
		t.Fatalf("NewWithExporter failed: %v", err)
	}
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	return tr, exporter
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", wantErr: true},
		{name: "disabled", config: &config.TracingConfig{Enabled: false}},
		{name: "enabled without endpoint", config: &config.TracingConfig{Enabled: true, Sampler: "always"}, wantErr: true},
		{
			name:        "enabled",
			config:      &config.TracingConfig{Enabled: true, Sampler: "always", Endpoint: "localhost:4317", Insecure: true},
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.config, "0.0.1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tr.Shutdown(context.Background())
			if tr.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tr.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestDisabledTracer_Noop(t *testing.T) {
	tr, err := New(&config.TracingConfig{}, "0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tr.Start(context.Background(), "costlens.process")
	span.End()

	if span.IsRecording() {
		t.Error("noop span should not record")
	}
	if TraceID(ctx) != "" {
		t.Error("noop span should have no trace id")
	}
	if err := tr.Flush(context.Background()); err != nil {
		t.Errorf("Flush() = %v", err)
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestTracer_RecordsSpans(t *testing.T) {
	tr, exporter := testTracer(t, SamplerAlways)

	ctx, root := tr.Start(context.Background(), "costlens.process")
	_, child := tr.Start(ctx, "costlens.load")
	SetStatus(child, errors.New("file not found"))
	child.End()
	SetStatus(root, nil)
	root.End()

	if err := tr.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}
	load, process := byName["costlens.load"], byName["costlens.process"]
	if load.Parent.SpanID() != process.SpanContext.SpanID() {
		t.Error("load span should be a child of the process span")
	}
	if load.Status.Code != codes.Error || len(load.Events) == 0 {
		t.Errorf("expected error status with recorded event, got %+v", load.Status)
	}
	if process.Status.Code != codes.Ok {
		t.Errorf("process status = %v, want Ok", process.Status.Code)
	}
}

func TestTracer_NeverSampler(t *testing.T) {
	tr, exporter := testTracer(t, SamplerNever)

	_, span := tr.Start(context.Background(), "costlens.process")
	span.End()
	_ = tr.Flush(context.Background())

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("expected no spans, got %d", n)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		_, err := samplerFor(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("samplerFor(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}
}

func TestExtract(t *testing.T) {
	const parent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	ctx := Extract(context.Background(), parent, "")
	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("TraceID() = %q", got)
	}

	if got := TraceID(Extract(context.Background(), "garbage", "")); got != "" {
		t.Errorf("invalid traceparent should be ignored, got %q", got)
	}

	t.Setenv(EnvTraceParent, parent)
	if TraceID(FromEnvironment(context.Background())) == "" {
		t.Error("FromEnvironment should read TRACEPARENT")
	}
}

func TestTracer_JoinsParentTrace(t *testing.T) {
	tr, exporter := testTracer(t, SamplerNever)

	// A sampled parent overrides the local never sampler.
	ctx := Extract(context.Background(), "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", "")
	_, span := tr.Start(ctx, "costlens.process")
	span.End()
	_ = tr.Flush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].SpanContext.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Error("span should join the parent trace")
	}
}

func TestSetResult(t *testing.T) {
	tr, exporter := testTracer(t, SamplerAlways)

	result := &processor.Result{
		Variant: processor.VariantForward,
		Rows: []processor.Row{
			{Costs: costs.Breakdown{
				CompletionCost:    decimal.RequireFromString("0.0015"),
				CacheCreationCost: decimal.RequireFromString("0.0005"),
				CacheReadCost:     decimal.RequireFromString("0.0001"),
			}},
		},
		Stats: processor.Stats{Events: 3, Candidates: 2, Rows: 1, Suppressed: 1, Sorted: true},
	}

	_, span := tr.Start(context.Background(), "costlens.process")
	span.SetAttributes(RunAttributes("run-1", "process", "session.json")...)
	SetResult(span, result)
	SetResult(span, nil)
	span.End()
	_ = tr.Flush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}

	if attrs[AttrRunID].AsString() != "run-1" {
		t.Errorf("run id = %q", attrs[AttrRunID].AsString())
	}
	if attrs[AttrRows].AsInt64() != 1 || attrs[AttrSuppressed].AsInt64() != 1 {
		t.Errorf("unexpected row counts: %v", spans[0].Attributes)
	}
	if attrs[AttrEventCost].AsString() != "0.002" || attrs[AttrTotalCost].AsString() != "0.0021" {
		t.Errorf("costs = %s / %s", attrs[AttrEventCost].AsString(), attrs[AttrTotalCost].AsString())
	}
}
