package processor

import (
	"mercator-hq/costlens/pkg/costs"
)

// backwardStep emits a row for every billable event, with all counts taken
// from the event itself. The cursor moves to the event after its own
// staleness check whenever the event carries usage.
func (p *Processor) backwardStep(r *run) stepFunc {
	return func(c cursor, i int) (Row, cursor, bool) {
		own := r.usages[i]
		counts := costs.TokenCounts{
			Completion:    own.CompletionTokens,
			CacheRead:     own.CacheReadInputTokens,
			CacheCreation: own.CacheCreationInputTokens,
		}
		special := specialFor(r.stale(c, i, p.config.StalenessWindow))

		if !own.IsEmpty() {
			c = r.cursorAt(i)
		}
		return p.row(r.evs[i], counts, special), c, true
	}
}
