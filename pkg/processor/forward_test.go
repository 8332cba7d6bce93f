package processor

import (
	"context"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"mercator-hq/costlens/pkg/events"
)

// randomRun builds a run with non-decreasing timestamps, some events
// without a timestamp and some without usage.
func randomRun(rng *rand.Rand, n int) *run {
	r := &run{
		evs:    make([]*events.Event, n),
		usages: make([]events.Usage, n),
		times:  make([]time.Time, n),
		hasTS:  make([]bool, n),
		sorted: true,
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t := base
	for i := 0; i < n; i++ {
		r.evs[i] = &events.Event{}
		if rng.Intn(6) != 0 {
			t = t.Add(time.Duration(rng.Intn(180)) * time.Second)
			r.times[i] = t
			r.hasTS[i] = true
		}
		if rng.Intn(3) != 0 {
			r.usages[i] = events.MustDecode(`[{"tool_call_metadata": {"model_response": {"usage": {"completion_tokens": 1}}}}]`)[0].Usage()
		}
	}
	return r
}

func TestSweep_MatchesScanOnSortedInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		r := randomRun(rng, 1+rng.Intn(40))

		sweep := r.sweep(DefaultWindow)
		scan := r.scan(DefaultWindow)
		if !reflect.DeepEqual(sweep, scan) {
			t.Fatalf("trial %d: sweep %v != scan %v", trial, sweep, scan)
		}
	}
}

func TestProcess_UnsortedInputFallsBackToScan(t *testing.T) {
	sorted := []fixture{
		{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 1}`},
		{id: 2, ts: at(1), cause: true, usage: `{"completion_tokens": 2, "cache_read_input_tokens": 20}`},
		{id: 3, ts: at(2), cause: true, usage: `{"completion_tokens": 3, "cache_read_input_tokens": 30}`},
		{id: 4, ts: at(9), cause: true, usage: `{"completion_tokens": 4, "cache_read_input_tokens": 40}`},
		{id: 5, ts: at(10), usage: `{"cache_read_input_tokens": 50}`},
	}
	shuffled := []fixture{sorted[3], sorted[0], sorted[4], sorted[2], sorted[1]}

	want := process(t, VariantForward, decode(t, sorted...))
	got := process(t, VariantForward, decode(t, shuffled...))

	if !want.Stats.Sorted {
		t.Error("sorted input should use the sweep")
	}
	if got.Stats.Sorted {
		t.Error("shuffled input should fall back to the scan")
	}

	check := func(name string, rows []Row, wantIDs []string, wantReads []int64) {
		t.Helper()
		if len(rows) != len(wantIDs) {
			t.Fatalf("%s: got %d rows, want %d", name, len(rows), len(wantIDs))
		}
		for i, row := range rows {
			if row.ID.String() != wantIDs[i] || row.CacheReadTokens != wantReads[i] {
				t.Errorf("%s row %d: got %s/%d, want %s/%d",
					name, i, row.ID, row.CacheReadTokens, wantIDs[i], wantReads[i])
			}
		}
	}

	check("sorted", want.Rows, []string{"1", "2", "4"}, []int64{20, 30, 50})

	// The scan takes the first match in sequence order, so event 1 now
	// correlates with event 3 and event 3 finds nothing.
	check("shuffled", got.Rows, []string{"4", "1", "2"}, []int64{50, 30, 30})
}

func TestScan_FirstMatchInSequenceOrder(t *testing.T) {
	// Event 1 is anchored at minute 0. Both later events fall in the window;
	// the scan returns the one that comes first in the sequence even though
	// it is later in time.
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 1}`},
		fixture{id: 2, ts: at(3), usage: `{"cache_read_input_tokens": 30}`},
		fixture{id: 3, ts: at(1), usage: `{"cache_read_input_tokens": 10}`},
	)

	result, err := New(DefaultConfig(), nil).Process(context.Background(), evs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if result.Rows[0].CacheReadTokens != 30 {
		t.Errorf("CacheReadTokens = %d, want 30", result.Rows[0].CacheReadTokens)
	}
}

func TestPrepare_IgnoresMissingTimestampsForOrder(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0)},
		fixture{id: 2},
		fixture{id: 3, ts: at(1)},
		fixture{id: 4, ts: at(1)},
	)

	r, err := prepare(evs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.sorted {
		t.Error("expected sorted")
	}
	if r.hasTS[1] {
		t.Error("event 2 has no timestamp")
	}
}
