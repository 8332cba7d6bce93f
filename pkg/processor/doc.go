// Package processor turns an agent event log into per-event cost rows.
//
// The processor walks the event sequence once, decides which events are billed,
// correlates each billed event with the token usage that prices it and flags
// correlations whose previous usage record is too old to have hit the prompt
// cache ("cache miss: outdated").
//
// # Variants
//
// Two correlation strategies are available:
//
//   - VariantForward (default): completion tokens come from the event itself,
//     cache-read and cache-creation tokens come from the next event within the
//     correlation window that carries usage. Cache statistics for a request
//     are only reported on the following interaction, so events without such
//     a follow-up are suppressed.
//   - VariantBackward (deprecated): all counts come from the event itself and
//     every billable event produces a row.
//
// An event is billable when it has a cause or is a condensation action.
//
// # Forward Lookup
//
// Well-formed logs have non-decreasing timestamps. The processor checks this
// and resolves every forward record with a single two-pointer sweep. When the
// order is broken it logs a warning and scans the whole sequence for each
// event instead, which gives the same rows the sweep gives on sorted input.
//
// # Usage
//
//	p := processor.New(processor.DefaultConfig(), logger)
//	result, err := p.Process(ctx, evs)
//	if err != nil {
//		return err
//	}
//	for _, row := range result.Rows {
//		fmt.Println(row.ID, costs.FormatUSD(row.EventCost(), 2))
//	}
//
// Rows are returned in input order. Sorting belongs to the report package.
package processor
