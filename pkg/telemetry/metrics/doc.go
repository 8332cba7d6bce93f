// Package metrics provides Prometheus metrics for costlens runs.
//
// # Metrics
//
//   - costlens_events_total: Input events read
//   - costlens_rows_total: Cost rows emitted, by variant
//   - costlens_rows_suppressed_total: Billable events without a row
//   - costlens_rows_stale_total: Rows marked "cache miss: outdated"
//   - costlens_cost_usd_total: Cost in USD, by component
//   - costlens_row_cost_usd: Distribution of row total cost (histogram)
//   - costlens_run_duration_seconds: Processing duration (histogram)
//
// costlens is a batch tool, so metrics are not served over HTTP. They are
// written to a node-exporter textfile after each run:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordResult(result)
//	if err := collector.WriteTextfile(cfg.Telemetry.Metrics.TextfilePath); err != nil {
//		return err
//	}
package metrics
