package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/processor"
)

// Attribute keys use the "costlens." namespace.
const (
	AttrRunID      = "costlens.run_id"
	AttrCommand    = "costlens.command"
	AttrLogPath    = "costlens.log_path"
	AttrVariant    = "costlens.variant"
	AttrEvents     = "costlens.events"
	AttrCandidates = "costlens.candidates"
	AttrRows       = "costlens.rows"
	AttrSuppressed = "costlens.rows.suppressed"
	AttrStale      = "costlens.rows.stale"
	AttrSorted     = "costlens.sorted"
	AttrEventCost  = "costlens.cost.event"
	AttrTotalCost  = "costlens.cost.total"
	AttrFormat     = "costlens.format"
)

// RunAttributes returns the attributes identifying a run.
func RunAttributes(runID, command, logPath string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrCommand, command),
		attribute.String(AttrLogPath, logPath),
	}
}

// SetResult records the counts and totals of a processing result on span.
// Costs are decimal strings.
func SetResult(span trace.Span, result *processor.Result) {
	if result == nil {
		return
	}

	var total costs.Breakdown
	for _, row := range result.Rows {
		total = total.Add(row.Costs)
	}

	span.SetAttributes(
		attribute.String(AttrVariant, string(result.Variant)),
		attribute.Int(AttrEvents, result.Stats.Events),
		attribute.Int(AttrCandidates, result.Stats.Candidates),
		attribute.Int(AttrRows, result.Stats.Rows),
		attribute.Int(AttrSuppressed, result.Stats.Suppressed),
		attribute.Int(AttrStale, result.Stats.Stale),
		attribute.Bool(AttrSorted, result.Stats.Sorted),
		attribute.String(AttrEventCost, total.EventCost().String()),
		attribute.String(AttrTotalCost, total.TotalCost().String()),
	)
}
