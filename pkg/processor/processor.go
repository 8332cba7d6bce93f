package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/telemetry/logging"
)

// Processor converts event logs to cost rows. It holds no per-run state and
// is safe for concurrent use.
type Processor struct {
	config Config
	calc   *costs.Calculator
	logger *slog.Logger
}

// New creates a processor. Zero config fields take their defaults.
func New(cfg Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	return &Processor{
		config: cfg,
		calc:   costs.NewCalculator(cfg.Rates),
		logger: logger.With("component", "processor"),
	}
}

// Process converts the events to cost rows. The run ID is taken from the
// context when present, otherwise a new one is generated.
//
// A malformed timestamp on any event aborts the run with an
// *events.InvalidLogDataError. An empty input yields an empty result.
func (p *Processor) Process(ctx context.Context, evs []*events.Event) (*Result, error) {
	start := time.Now()

	runID := logging.GetRunID(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = logging.WithRunID(ctx, runID)
	}

	r, err := prepare(evs)
	if err != nil {
		return nil, err
	}

	var step stepFunc
	switch p.config.Variant {
	case VariantBackward:
		p.logger.WarnContext(ctx, "backward correlation variant is deprecated", "run_id", runID)
		step = p.backwardStep(r)
	default:
		if !r.sorted {
			p.logger.WarnContext(ctx, "event timestamps are not in order, using full forward scan",
				"run_id", runID,
				"events", len(evs),
			)
		}
		step = p.forwardStep(r, r.forwardRecords(p.config.CorrelationWindow))
	}

	result := &Result{
		RunID:   runID,
		Variant: p.config.Variant,
		Rows:    make([]Row, 0),
		Stats: Stats{
			Events: len(evs),
			Sorted: r.sorted,
		},
	}

	var c cursor
	for i, ev := range evs {
		if !ev.Billable() {
			continue
		}
		result.Stats.Candidates++

		row, next, ok := step(c, i)
		c = next
		if !ok {
			result.Stats.Suppressed++
			continue
		}
		if row.IsStale() {
			result.Stats.Stale++
		}
		result.Rows = append(result.Rows, row)
	}

	result.Stats.Rows = len(result.Rows)
	result.Duration = time.Since(start)

	p.logger.DebugContext(ctx, "processed event log",
		"run_id", runID,
		"variant", string(result.Variant),
		"events", result.Stats.Events,
		"candidates", result.Stats.Candidates,
		"rows", result.Stats.Rows,
		"suppressed", result.Stats.Suppressed,
		"stale", result.Stats.Stale,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// Process runs a processor with cfg over evs.
func Process(ctx context.Context, evs []*events.Event, cfg Config) (*Result, error) {
	return New(cfg, nil).Process(ctx, evs)
}

// cursor is the last emitted event that carried usage of its own.
type cursor struct {
	set   bool
	hasTS bool
	ts    time.Time
}

// stepFunc folds one billable event into the run. It returns the row, the
// updated cursor and whether the row is emitted.
type stepFunc func(c cursor, i int) (Row, cursor, bool)

// run holds the per-event data both variants read.
type run struct {
	evs    []*events.Event
	usages []events.Usage
	times  []time.Time
	hasTS  []bool

	// sorted reports whether timestamped events are in non-decreasing order.
	sorted bool
}

// prepare parses every timestamp and extracts every usage record up front.
func prepare(evs []*events.Event) (*run, error) {
	r := &run{
		evs:    evs,
		usages: make([]events.Usage, len(evs)),
		times:  make([]time.Time, len(evs)),
		hasTS:  make([]bool, len(evs)),
		sorted: true,
	}

	var last time.Time
	seen := false
	for i, ev := range evs {
		r.usages[i] = ev.Usage()

		t, ok, err := ev.Time()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		r.times[i] = t
		r.hasTS[i] = true

		if seen && t.Before(last) {
			r.sorted = false
		}
		last = t
		seen = true
	}
	return r, nil
}

// cursorAt returns a cursor pointing at event i.
func (r *run) cursorAt(i int) cursor {
	return cursor{set: true, hasTS: r.hasTS[i], ts: r.times[i]}
}

// stale reports whether event i is further than window from the cursor.
// A missing timestamp on either side is never stale.
func (r *run) stale(c cursor, i int, window time.Duration) bool {
	if !c.set || !c.hasTS || !r.hasTS[i] {
		return false
	}
	return r.times[i].Sub(c.ts) > window
}

// row builds the cost row of ev.
func (p *Processor) row(ev *events.Event, counts costs.TokenCounts, special string) Row {
	msg := ev.AnnotatedMessage()
	if p.config.MessageFilter != nil {
		msg = p.config.MessageFilter(msg)
	}

	return Row{
		ID:                  ev.ID,
		Timestamp:           ev.Timestamp,
		Source:              ev.Source,
		Message:             events.Truncate(msg, p.config.MessageWidth),
		Subtype:             ev.Subtype(),
		CacheReadTokens:     counts.CacheRead,
		CacheCreationTokens: counts.CacheCreation,
		CompletionTokens:    counts.Completion,
		Costs:               p.calc.Calculate(counts),
		Special:             special,
	}
}

func specialFor(stale bool) string {
	if stale {
		return SpecialOutdated
	}
	return ""
}
