package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/telemetry/logging"
)

// fixture builds a JSON event. Empty fields are omitted.
type fixture struct {
	id        int
	ts        string
	cause     bool
	action    string
	message   string
	usage     string // tool-call usage object, "" for none
	accUsage  string // accumulated usage object, "" for none
	extraJSON string
}

func (e fixture) json() string {
	parts := []string{fmt.Sprintf(`"id": %d`, e.id)}
	if e.ts != "" {
		parts = append(parts, fmt.Sprintf(`"timestamp": %q`, e.ts))
	}
	if e.cause {
		parts = append(parts, fmt.Sprintf(`"cause": %d`, e.id-1))
	}
	if e.action != "" {
		parts = append(parts, fmt.Sprintf(`"action": %q`, e.action))
	}
	if e.message != "" {
		parts = append(parts, fmt.Sprintf(`"message": %q`, e.message))
	}
	if e.usage != "" {
		parts = append(parts, fmt.Sprintf(`"tool_call_metadata": {"model_response": {"usage": %s}}`, e.usage))
	}
	if e.accUsage != "" {
		parts = append(parts, fmt.Sprintf(`"llm_metrics": {"accumulated_token_usage": %s}`, e.accUsage))
	}
	if e.extraJSON != "" {
		parts = append(parts, e.extraJSON)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func decode(t *testing.T, list ...fixture) []*events.Event {
	t.Helper()
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.json()
	}
	evs, err := events.Decode(strings.NewReader("["+strings.Join(parts, ",")+"]"), "test")
	if err != nil {
		t.Fatalf("failed to decode events: %v", err)
	}
	return evs
}

func at(minutes int) string {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute).Format("2006-01-02T15:04:05")
}

func process(t *testing.T, variant Variant, evs []*events.Event) *Result {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Variant = variant
	result, err := New(cfg, nil).Process(context.Background(), evs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	return result
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID.String()
	}
	return ids
}

func TestProcess_WorkedExample(t *testing.T) {
	evs := events.MustDecode(`[
		{"id": 1, "cause": null, "action": "condensation", "timestamp": "2024-01-01T00:00:00",
		 "tool_call_metadata": {"model_response": {"usage": {"completion_tokens": 100}}}},
		{"id": 2, "timestamp": "2024-01-01T00:01:00",
		 "tool_call_metadata": {"model_response": {"usage": {"cache_read_input_tokens": 50, "cache_creation_input_tokens": 20, "completion_tokens": 0}}}}
	]`)

	result := process(t, VariantForward, evs)

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	row := result.Rows[0]

	if row.ID.String() != "1" {
		t.Errorf("ID = %s, want 1", row.ID)
	}
	if row.CompletionTokens != 100 || row.CacheReadTokens != 50 || row.CacheCreationTokens != 20 {
		t.Errorf("unexpected counts: completion=%d read=%d creation=%d",
			row.CompletionTokens, row.CacheReadTokens, row.CacheCreationTokens)
	}
	if !row.Costs.CompletionCost.Equal(decimal.RequireFromString("0.0015")) {
		t.Errorf("completion cost = %s, want 0.0015", row.Costs.CompletionCost)
	}
	if row.Special != "" {
		t.Errorf("Special = %q, want empty", row.Special)
	}
	if row.Subtype != events.ActionCondensation {
		t.Errorf("Subtype = %q, want condensation", row.Subtype)
	}
}

func TestProcess_NonBillableEventsProduceNoRows(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), action: "message", usage: `{"completion_tokens": 10}`},
		fixture{id: 2, ts: at(1), usage: `{"completion_tokens": 10}`},
		fixture{id: 3, ts: at(2), action: "read", usage: `{"completion_tokens": 10}`},
	)

	for _, variant := range []Variant{VariantForward, VariantBackward} {
		result := process(t, variant, evs)
		if len(result.Rows) != 0 {
			t.Errorf("%s: expected no rows, got %v", variant, rowIDs(result.Rows))
		}
		if result.Stats.Candidates != 0 {
			t.Errorf("%s: expected no candidates, got %d", variant, result.Stats.Candidates)
		}
	}
}

func TestProcess_CostInvariants(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 1234, "cache_read_input_tokens": 99, "cache_creation_input_tokens": 7}`},
		fixture{id: 2, ts: at(1), cause: true, usage: `{"completion_tokens": 55, "cache_read_input_tokens": 4000, "cache_creation_input_tokens": 321}`},
		fixture{id: 3, ts: at(2), usage: `{"completion_tokens": 1, "cache_read_input_tokens": 12000, "cache_creation_input_tokens": 800}`},
	)

	for _, variant := range []Variant{VariantForward, VariantBackward} {
		result := process(t, variant, evs)
		if len(result.Rows) == 0 {
			t.Fatalf("%s: expected rows", variant)
		}
		for _, row := range result.Rows {
			b := row.Costs
			if !row.EventCost().Equal(b.CompletionCost.Add(b.CacheCreationCost)) {
				t.Errorf("%s row %s: event cost %s != completion + creation", variant, row.ID, row.EventCost())
			}
			if !row.TotalCost().Equal(row.EventCost().Add(b.CacheReadCost)) {
				t.Errorf("%s row %s: total cost %s != event + read", variant, row.ID, row.TotalCost())
			}
		}
	}
}

func TestProcess_Staleness(t *testing.T) {
	tests := []struct {
		name    string
		evs     []fixture
		variant Variant
		wantIDs []string
		want    map[string]string
	}{
		{
			name: "forward six minutes apart is stale",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(1), usage: `{"cache_read_input_tokens": 5}`},
				{id: 3, ts: at(6), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 4, ts: at(7), usage: `{"cache_read_input_tokens": 5}`},
			},
			variant: VariantForward,
			wantIDs: []string{"1", "3"},
			want:    map[string]string{"1": "", "3": SpecialOutdated},
		},
		{
			name: "forward four minutes apart is fresh",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(4), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 3, ts: at(5), usage: `{"cache_read_input_tokens": 5}`},
			},
			variant: VariantForward,
			wantIDs: []string{"1", "2"},
			want:    map[string]string{"1": "", "2": ""},
		},
		{
			name: "backward six minutes apart is stale",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(6), cause: true, usage: `{"completion_tokens": 10}`},
			},
			variant: VariantBackward,
			wantIDs: []string{"1", "2"},
			want:    map[string]string{"1": "", "2": SpecialOutdated},
		},
		{
			name: "backward four minutes apart is fresh",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(4), cause: true, usage: `{"completion_tokens": 10}`},
			},
			variant: VariantBackward,
			wantIDs: []string{"1", "2"},
			want:    map[string]string{"1": "", "2": ""},
		},
		{
			name: "backward candidate without usage keeps the cursor",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(3), cause: true},
				{id: 3, ts: at(6), cause: true, usage: `{"completion_tokens": 10}`},
			},
			variant: VariantBackward,
			wantIDs: []string{"1", "2", "3"},
			want:    map[string]string{"1": "", "2": "", "3": SpecialOutdated},
		},
		{
			name: "backward missing timestamp skips the check",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, cause: true, usage: `{"completion_tokens": 10}`},
				{id: 3, ts: at(60), cause: true, usage: `{"completion_tokens": 10}`},
			},
			variant: VariantBackward,
			wantIDs: []string{"1", "2", "3"},
			want:    map[string]string{"1": "", "2": "", "3": ""},
		},
		{
			name: "exactly five minutes is fresh",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(5), cause: true, usage: `{"completion_tokens": 10}`},
			},
			variant: VariantBackward,
			wantIDs: []string{"1", "2"},
			want:    map[string]string{"1": "", "2": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := process(t, tt.variant, decode(t, tt.evs...))

			if got := strings.Join(rowIDs(result.Rows), ","); got != strings.Join(tt.wantIDs, ",") {
				t.Fatalf("row IDs = %s, want %s", got, strings.Join(tt.wantIDs, ","))
			}
			stale := 0
			for _, row := range result.Rows {
				if row.Special != tt.want[row.ID.String()] {
					t.Errorf("row %s: Special = %q, want %q", row.ID, row.Special, tt.want[row.ID.String()])
				}
				if row.IsStale() {
					stale++
				}
			}
			if result.Stats.Stale != stale {
				t.Errorf("Stats.Stale = %d, want %d", result.Stats.Stale, stale)
			}
		})
	}
}

func TestProcess_ForwardSuppression(t *testing.T) {
	tests := []struct {
		name    string
		evs     []fixture
		wantIDs []string
	}{
		{
			name: "no later usage",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
			},
			wantIDs: nil,
		},
		{
			name: "later usage outside the window",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(6), usage: `{"cache_read_input_tokens": 5}`},
			},
			wantIDs: nil,
		},
		{
			name: "later event without usage",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(1), usage: `{}`},
			},
			wantIDs: nil,
		},
		{
			name: "same timestamp is not later",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(0), usage: `{"cache_read_input_tokens": 5}`},
			},
			wantIDs: nil,
		},
		{
			name: "own usage empty",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true},
				{id: 2, ts: at(1), usage: `{"cache_read_input_tokens": 5}`},
			},
			wantIDs: nil,
		},
		{
			name: "missing timestamp never anchors",
			evs: []fixture{
				{id: 1, cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(1), usage: `{"cache_read_input_tokens": 5}`},
			},
			wantIDs: nil,
		},
		{
			name: "exactly five minutes later matches",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(5), usage: `{"cache_read_input_tokens": 5}`},
			},
			wantIDs: []string{"1"},
		},
		{
			name: "accumulated usage counts",
			evs: []fixture{
				{id: 1, ts: at(0), cause: true, accUsage: `{"completion_tokens": 10}`},
				{id: 2, ts: at(1), accUsage: `{"cache_read_input_tokens": 5}`},
			},
			wantIDs: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := process(t, VariantForward, decode(t, tt.evs...))

			if got := strings.Join(rowIDs(result.Rows), ","); got != strings.Join(tt.wantIDs, ",") {
				t.Errorf("row IDs = %q, want %q", got, strings.Join(tt.wantIDs, ","))
			}
			if result.Stats.Suppressed != result.Stats.Candidates-len(result.Rows) {
				t.Errorf("Stats.Suppressed = %d, want %d", result.Stats.Suppressed, result.Stats.Candidates-len(result.Rows))
			}
		})
	}
}

func TestProcess_ForwardCountsComeFromNextRecord(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10, "cache_read_input_tokens": 1000, "cache_creation_input_tokens": 1000}`},
		fixture{id: 2, ts: at(1), usage: `{}`},
		fixture{id: 3, ts: at(2), usage: `{"completion_tokens": 99, "cache_read_input_tokens": 7, "cache_creation_input_tokens": 3}`},
		fixture{id: 4, ts: at(3), usage: `{"cache_read_input_tokens": 8, "cache_creation_input_tokens": 4}`},
	)

	result := process(t, VariantForward, evs)
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if row.CompletionTokens != 10 {
		t.Errorf("CompletionTokens = %d, want 10", row.CompletionTokens)
	}
	if row.CacheReadTokens != 7 || row.CacheCreationTokens != 3 {
		t.Errorf("cache counts = %d/%d, want 7/3", row.CacheReadTokens, row.CacheCreationTokens)
	}
}

func TestProcess_BackwardEmitsEveryCandidate(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 10, "cache_read_input_tokens": 3, "cache_creation_input_tokens": 2}`},
		fixture{id: 2, ts: at(1), cause: true},
		fixture{id: 3, ts: at(2), action: "condensation"},
		fixture{id: 4, ts: at(3), action: "message", usage: `{"completion_tokens": 10}`},
	)

	result := process(t, VariantBackward, evs)

	if got := strings.Join(rowIDs(result.Rows), ","); got != "1,2,3" {
		t.Fatalf("row IDs = %s, want 1,2,3", got)
	}
	first := result.Rows[0]
	if first.CompletionTokens != 10 || first.CacheReadTokens != 3 || first.CacheCreationTokens != 2 {
		t.Errorf("unexpected counts on row 1: %+v", first)
	}
	if !result.Rows[1].TotalCost().IsZero() {
		t.Errorf("row 2 should cost nothing, got %s", result.Rows[1].TotalCost())
	}
}

func TestProcess_CompletionTokensRoundTrip(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 11}`},
		fixture{id: 2, ts: at(1), cause: true, usage: `{"completion_tokens": 22}`},
		fixture{id: 3, ts: at(2), usage: `{"completion_tokens": 1000}`},
		fixture{id: 4, ts: at(3), action: "condensation", usage: `{"completion_tokens": 33}`},
		fixture{id: 5, ts: at(4), usage: `{"cache_read_input_tokens": 1}`},
	)

	for _, variant := range []Variant{VariantForward, VariantBackward} {
		result := process(t, variant, evs)

		emitted := make(map[string]bool)
		var fromRows int64
		for _, row := range result.Rows {
			fromRows += row.CompletionTokens
			emitted[row.ID.String()] = true
		}

		var fromInput int64
		for _, e := range evs {
			if emitted[e.ID.String()] {
				fromInput += e.Usage().CompletionTokens
			}
		}

		if fromRows != fromInput {
			t.Errorf("%s: row completion tokens %d != input %d", variant, fromRows, fromInput)
		}
		if fromRows != 66 {
			t.Errorf("%s: completion tokens = %d, want 66", variant, fromRows)
		}
	}
}

func TestProcess_MessageAnnotatedThenTruncated(t *testing.T) {
	long := strings.Repeat("x", 50)
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, message: long, usage: `{"completion_tokens": 1}`, extraJSON: `"args": {"path": "/a/b.go", "command": "go test"}`},
		fixture{id: 2, ts: at(1), cause: true, message: "héllo wörld", usage: `{"completion_tokens": 1}`},
		fixture{id: 3, ts: at(2), usage: `{"completion_tokens": 1}`},
	)

	result := process(t, VariantForward, evs)
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}

	want := (long + " (Path: /a/b.go) (Command: go test)")[:60]
	if result.Rows[0].Message != want {
		t.Errorf("Message = %q, want %q", result.Rows[0].Message, want)
	}
	if result.Rows[1].Message != "héllo wörld" {
		t.Errorf("Message = %q, want %q", result.Rows[1].Message, "héllo wörld")
	}
}

func TestProcess_MessageFilterRunsBeforeTruncation(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, message: "curl -H 'Authorization: Bearer abc123def'", usage: `{"completion_tokens": 1}`},
		fixture{id: 2, ts: at(1), usage: `{"completion_tokens": 1}`},
	)

	redactor := logging.NewRedactor(nil)
	cfg := DefaultConfig()
	cfg.MessageWidth = 36
	cfg.MessageFilter = redactor.RedactString

	result, err := New(cfg, nil).Process(context.Background(), evs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}

	want := "curl -H 'Authorization: Bearer ***'"
	if result.Rows[0].Message != want {
		t.Errorf("Message = %q, want %q", result.Rows[0].Message, want)
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	for _, variant := range []Variant{VariantForward, VariantBackward} {
		result := process(t, variant, nil)
		if result.Rows == nil || len(result.Rows) != 0 {
			t.Errorf("%s: expected empty non-nil rows, got %v", variant, result.Rows)
		}
		if result.RunID == "" {
			t.Errorf("%s: expected a run ID", variant)
		}
	}
}

func TestProcess_MalformedTimestampIsFatal(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, usage: `{"completion_tokens": 1}`},
		fixture{id: 2, ts: "last tuesday"},
	)

	for _, variant := range []Variant{VariantForward, VariantBackward} {
		cfg := DefaultConfig()
		cfg.Variant = variant
		_, err := New(cfg, nil).Process(context.Background(), evs)

		var dataErr *events.InvalidLogDataError
		if !errors.As(err, &dataErr) {
			t.Fatalf("%s: expected InvalidLogDataError, got %v", variant, err)
		}
		if dataErr.EventID != "2" || dataErr.Value != "last tuesday" {
			t.Errorf("%s: unexpected error fields: %+v", variant, dataErr)
		}
	}
}

func TestProcess_RunIDFromContext(t *testing.T) {
	ctx := logging.WithRunID(context.Background(), "run-42")

	result, err := New(DefaultConfig(), nil).Process(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RunID != "run-42" {
		t.Errorf("RunID = %q, want run-42", result.RunID)
	}
}

func TestProcess_CustomConfig(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, message: "abcdefghij", usage: `{"completion_tokens": 1000000}`},
		fixture{id: 2, ts: at(8), usage: `{"cache_read_input_tokens": 1000000}`},
	)

	cfg := Config{
		CorrelationWindow: 10 * time.Minute,
		MessageWidth:      4,
	}
	result, err := New(cfg, nil).Process(context.Background(), evs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row with a 10m window, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if row.Message != "abcd" {
		t.Errorf("Message = %q, want abcd", row.Message)
	}
	if !row.TotalCost().Equal(decimal.RequireFromString("15.3")) {
		t.Errorf("TotalCost = %s, want 15.3", row.TotalCost())
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantForward, false},
		{"forward", VariantForward, false},
		{"Backward", VariantBackward, false},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariant(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRow_MarshalJSON(t *testing.T) {
	evs := decode(t,
		fixture{id: 1, ts: at(0), cause: true, action: "run", usage: `{"completion_tokens": 100}`},
		fixture{id: 2, ts: at(1), usage: `{"cache_read_input_tokens": 50, "cache_creation_input_tokens": 20}`},
	)
	result := process(t, VariantForward, evs)

	data, err := result.Rows[0].MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	for _, want := range []string{`"id":1`, `"subt":"run"`, `"completion_cost":"0.0015"`, `"event_cost":"0.001575"`, `"total_cost":"0.00159"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}
