package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/processor"
)

// SortKey names the column rows are ordered by.
type SortKey string

// Sort keys. Every key sorts descending.
const (
	SortNone                SortKey = ""
	SortEventCost           SortKey = "event_cost"
	SortTotalCost           SortKey = "total_cost"
	SortCompletionTokens    SortKey = "completion_tokens"
	SortCacheReadTokens     SortKey = "cache_read_tokens"
	SortCacheCreationTokens SortKey = "cache_creation_tokens"
	SortCompletionCost      SortKey = "completion_cost"
	SortCacheReadCost       SortKey = "cache_read_cost"
	SortCacheCreationCost   SortKey = "cache_creation_cost"
)

// ParseSortKey parses a sort column name. The empty string keeps input order.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortValues[key]; ok || key == SortNone {
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// sortValues maps each key to the value it orders by.
var sortValues = map[SortKey]func(processor.Row) decimal.Decimal{
	SortEventCost:           processor.Row.EventCost,
	SortTotalCost:           processor.Row.TotalCost,
	SortCompletionTokens:    func(r processor.Row) decimal.Decimal { return decimal.NewFromInt(r.CompletionTokens) },
	SortCacheReadTokens:     func(r processor.Row) decimal.Decimal { return decimal.NewFromInt(r.CacheReadTokens) },
	SortCacheCreationTokens: func(r processor.Row) decimal.Decimal { return decimal.NewFromInt(r.CacheCreationTokens) },
	SortCompletionCost:      func(r processor.Row) decimal.Decimal { return r.Costs.CompletionCost },
	SortCacheReadCost:       func(r processor.Row) decimal.Decimal { return r.Costs.CacheReadCost },
	SortCacheCreationCost:   func(r processor.Row) decimal.Decimal { return r.Costs.CacheCreationCost },
}

// SortRows returns a copy of rows ordered descending by key. Ties keep their
// input order. SortNone returns the copy unchanged.
func SortRows(rows []processor.Row, key SortKey) []processor.Row {
	out := make([]processor.Row, len(rows))
	copy(out, rows)

	value, ok := sortValues[key]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return value(out[i]).GreaterThan(value(out[j]))
	})
	return out
}
