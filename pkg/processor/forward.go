package processor

import (
	"time"

	"mercator-hq/costlens/pkg/costs"
)

// forwardStep emits a row for a billable event that has usage of its own, a
// timestamp and a forward usage record. The cursor moves to every emitted
// row.
func (p *Processor) forwardStep(r *run, forward []int) stepFunc {
	return func(c cursor, i int) (Row, cursor, bool) {
		own := r.usages[i]
		if own.IsEmpty() {
			return Row{}, c, false
		}
		j := forward[i]
		if j < 0 {
			return Row{}, c, false
		}
		next := r.usages[j]

		counts := costs.TokenCounts{
			Completion:    own.CompletionTokens,
			CacheRead:     next.CacheReadInputTokens,
			CacheCreation: next.CacheCreationInputTokens,
		}
		special := specialFor(r.stale(c, i, p.config.StalenessWindow))

		return p.row(r.evs[i], counts, special), r.cursorAt(i), true
	}
}

// forwardRecords returns, for every event, the index of its forward usage
// record or -1. The record of event i is the first event in sequence order
// whose timestamp is after t(i) and at most window later and whose usage is
// non-empty. Events without a timestamp have no record and are never one.
func (r *run) forwardRecords(window time.Duration) []int {
	if r.sorted {
		return r.sweep(window)
	}
	return r.scan(window)
}

// sweep resolves forward records in linear time. It requires timestamped
// events to be in non-decreasing order.
func (r *run) sweep(window time.Duration) []int {
	out := make([]int, len(r.evs))
	for i := range out {
		out[i] = -1
	}

	timed := make([]int, 0, len(r.evs))
	for i := range r.evs {
		if r.hasTS[i] {
			timed = append(timed, i)
		}
	}

	// nextUsage[k] is the first position >= k in timed whose event has usage.
	nextUsage := make([]int, len(timed)+1)
	nextUsage[len(timed)] = -1
	for k := len(timed) - 1; k >= 0; k-- {
		if r.usages[timed[k]].IsEmpty() {
			nextUsage[k] = nextUsage[k+1]
		} else {
			nextUsage[k] = k
		}
	}

	j := 0
	for k, i := range timed {
		t := r.times[i]
		if j < k+1 {
			j = k + 1
		}
		for j < len(timed) && !r.times[timed[j]].After(t) {
			j++
		}

		n := nextUsage[j]
		if n < 0 {
			continue
		}
		if r.times[timed[n]].Sub(t) <= window {
			out[i] = timed[n]
		}
	}
	return out
}

// scan resolves forward records by scanning the whole sequence for each event.
func (r *run) scan(window time.Duration) []int {
	out := make([]int, len(r.evs))
	for i := range r.evs {
		out[i] = r.scanFrom(i, window)
	}
	return out
}

func (r *run) scanFrom(i int, window time.Duration) int {
	if !r.hasTS[i] {
		return -1
	}
	t := r.times[i]
	limit := t.Add(window)

	for k := range r.evs {
		if !r.hasTS[k] || r.usages[k].IsEmpty() {
			continue
		}
		tk := r.times[k]
		if tk.After(t) && !tk.After(limit) {
			return k
		}
	}
	return -1
}
