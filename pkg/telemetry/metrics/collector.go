package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/costlens/pkg/config"
	"mercator-hq/costlens/pkg/processor"
)

// Cost components used as the "component" label.
const (
	ComponentCompletion    = "completion"
	ComponentCacheCreation = "cache_creation"
	ComponentCacheRead     = "cache_read"
)

// Collector records run metrics on its own registry.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	events      prometheus.Counter
	rows        *prometheus.CounterVec
	suppressed  prometheus.Counter
	stale       prometheus.Counter
	costTotal   *prometheus.CounterVec
	rowCost     prometheus.Histogram
	runDuration prometheus.Histogram
}

// NewCollector creates a collector and registers its metrics. If registry is
// nil a new one is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RowCostBuckets) == 0 {
		cfg.RowCostBuckets = append([]float64(nil), config.DefaultRowCostBuckets...)
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "events_total",
			Help:      "Total number of input events read",
		}),

		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_total",
				Help:      "Total number of cost rows emitted by correlation variant",
			},
			[]string{"variant"},
		),

		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rows_suppressed_total",
			Help:      "Total number of billable events that produced no row",
		}),

		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rows_stale_total",
			Help:      "Total number of rows marked as outdated cache misses",
		}),

		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_usd_total",
				Help:      "Total cost in USD by cost component",
			},
			[]string{"component"},
		),

		rowCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "row_cost_usd",
			Help:      "Distribution of row total cost in USD",
			Buckets:   cfg.RowCostBuckets,
		}),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_duration_seconds",
			Help:      "Duration of event processing runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	registry.MustRegister(
		c.events,
		c.rows,
		c.suppressed,
		c.stale,
		c.costTotal,
		c.rowCost,
		c.runDuration,
	)

	return c
}

// RecordResult adds a processing result to the metrics. It does nothing when
// metrics are disabled or result is nil.
func (c *Collector) RecordResult(result *processor.Result) {
	if !c.config.Enabled || result == nil {
		return
	}

	c.events.Add(float64(result.Stats.Events))
	c.rows.WithLabelValues(string(result.Variant)).Add(float64(result.Stats.Rows))
	c.suppressed.Add(float64(result.Stats.Suppressed))
	c.stale.Add(float64(result.Stats.Stale))
	c.runDuration.Observe(result.Duration.Seconds())

	for _, row := range result.Rows {
		c.costTotal.WithLabelValues(ComponentCompletion).Add(row.Costs.CompletionCost.InexactFloat64())
		c.costTotal.WithLabelValues(ComponentCacheCreation).Add(row.Costs.CacheCreationCost.InexactFloat64())
		c.costTotal.WithLabelValues(ComponentCacheRead).Add(row.Costs.CacheReadCost.InexactFloat64())
		c.rowCost.Observe(row.TotalCost().InexactFloat64())
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all metrics in the text exposition format to path.
// The file is written atomically.
func (c *Collector) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics textfile path is empty")
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
