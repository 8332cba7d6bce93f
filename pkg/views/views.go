package views

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/export"
)

// Name identifies a view.
type Name string

// Available views.
const (
	All        Name = "all"
	Completion Name = "completion"
	Input      Name = "input"
	Top        Name = "top"
)

// Names lists the views in help order.
var Names = []Name{All, Completion, Input, Top}

// TopLimit is the number of events kept by the top view.
const TopLimit = 10

// MessageWidth is the number of runes kept of view messages.
const MessageWidth = 60

// ParseName parses a view name.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown view %q (expected all, completion, input or top)", s)
}

// Render builds the named view as a table.
func Render(name Name, evs []*events.Event, calc *costs.Calculator) (*export.Table, error) {
	if calc == nil {
		calc = costs.NewCalculator(costs.DefaultRates())
	}
	switch name {
	case All:
		return AllTable(AllEvents(evs, calc)), nil
	case Completion:
		return CompletionTable(CompletionCosts(evs, calc)), nil
	case Input:
		return InputTable(InputCosts(evs, calc)), nil
	case Top:
		return TopTable(TopCosts(evs, calc, TopLimit)), nil
	default:
		return nil, fmt.Errorf("unknown view %q", name)
	}
}

// EventLine is one line of the all-events view.
type EventLine struct {
	ID                  events.ID       `json:"id"`
	Timestamp           string          `json:"timestamp"`
	Source              string          `json:"source"`
	Message             string          `json:"message"`
	Type                string          `json:"type"`
	Subtype             string          `json:"subt"`
	CacheReadTokens     int64           `json:"cache_read_tokens"`
	CacheCreationTokens int64           `json:"cache_creation_tokens"`
	CompletionTokens    int64           `json:"completion_tokens"`
	Costs               costs.Breakdown `json:"-"`
	TotalCost           decimal.Decimal `json:"total_cost"`
}

// AllEvents prices every event from its own tool-call usage. The total
// includes the cache-read cost.
func AllEvents(evs []*events.Event, calc *costs.Calculator) []EventLine {
	lines := make([]EventLine, 0, len(evs))
	for _, ev := range evs {
		u := ev.ToolCallUsage()
		breakdown := calc.Calculate(costs.TokenCounts{
			Completion:    u.CompletionTokens,
			CacheCreation: u.CacheCreationInputTokens,
			CacheRead:     u.CacheReadInputTokens,
		})
		lines = append(lines, EventLine{
			ID:                  ev.ID,
			Timestamp:           ev.Timestamp,
			Source:              ev.Source,
			Message:             ev.ShortMessage(MessageWidth),
			Type:                ev.Kind(),
			Subtype:             ev.SubtypeOr(""),
			CacheReadTokens:     u.CacheReadInputTokens,
			CacheCreationTokens: u.CacheCreationInputTokens,
			CompletionTokens:    u.CompletionTokens,
			Costs:               breakdown,
			TotalCost:           breakdown.TotalCost(),
		})
	}
	return lines
}

// AllTable renders the all-events view at two digits.
func AllTable(lines []EventLine) *export.Table {
	p := costs.DefaultPrecision
	t := &export.Table{
		Name: "All Events",
		Header: []string{
			"id", "timestamp", "source", "message", "type", "subt",
			"cache_read_tokens", "cache_creation_tokens", "completion_tokens",
			"cache_read_cost", "cache_creation_cost", "completion_cost", "total_cost",
		},
		Rows:    make([][]string, 0, len(lines)),
		Records: lines,
	}
	for _, l := range lines {
		t.Rows = append(t.Rows, []string{
			l.ID.String(), l.Timestamp, l.Source, l.Message, l.Type, l.Subtype,
			itoa(l.CacheReadTokens), itoa(l.CacheCreationTokens), itoa(l.CompletionTokens),
			costs.FormatUSD(l.Costs.CacheReadCost, p),
			costs.FormatUSD(l.Costs.CacheCreationCost, p),
			costs.FormatUSD(l.Costs.CompletionCost, p),
			costs.FormatUSD(l.TotalCost, p),
		})
	}
	return t
}

// CostLine is one line of the completion and input views.
type CostLine struct {
	ID        events.ID       `json:"id"`
	Timestamp string          `json:"timestamp"`
	Source    string          `json:"source"`
	Subtype   string          `json:"subt"`
	Message   string          `json:"message"`
	Tokens    int64           `json:"tokens"`
	Cost      decimal.Decimal `json:"cost"`
}

// CompletionCosts lists events whose accumulated usage has a completion
// token count, most tokens first.
func CompletionCosts(evs []*events.Event, calc *costs.Calculator) []CostLine {
	lines := make([]CostLine, 0)
	for _, ev := range evs {
		u, ok := ev.AccumulatedUsage()
		if !ok || !u.Has(events.KeyCompletionTokens) {
			continue
		}
		lines = append(lines, CostLine{
			ID:        ev.ID,
			Timestamp: ev.Timestamp,
			Source:    ev.Source,
			Subtype:   ev.ActionName(),
			Message:   ev.ShortMessage(MessageWidth),
			Tokens:    u.CompletionTokens,
			Cost:      calc.CompletionCost(u.CompletionTokens),
		})
	}
	sortByTokens(lines)
	return lines
}

// InputCosts lists observations whose tool-call usage has a cache-creation
// token count, most tokens first.
func InputCosts(evs []*events.Event, calc *costs.Calculator) []CostLine {
	lines := make([]CostLine, 0)
	for _, ev := range evs {
		if ev.Observation == nil {
			continue
		}
		u := ev.ToolCallUsage()
		if !u.Has(events.KeyCacheCreationInputTokens) {
			continue
		}
		lines = append(lines, CostLine{
			ID:        ev.ID,
			Timestamp: ev.Timestamp,
			Source:    ev.Source,
			Subtype:   *ev.Observation,
			Message:   ev.ShortMessage(MessageWidth),
			Tokens:    u.CacheCreationInputTokens,
			Cost:      calc.CacheWriteCost(u.CacheCreationInputTokens),
		})
	}
	sortByTokens(lines)
	return lines
}

func sortByTokens(lines []CostLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Tokens > lines[j].Tokens
	})
}

// CompletionTable renders the completion view at six digits.
func CompletionTable(lines []CostLine) *export.Table {
	return costTable("Completion Cost", []string{"id", "timestamp", "source", "action", "message", "completion_tokens", "cost"}, lines)
}

// InputTable renders the input view at six digits.
func InputTable(lines []CostLine) *export.Table {
	return costTable("Input Cost", []string{"id", "timestamp", "source", "observation", "message", "cache_creation_tokens", "cost"}, lines)
}

func costTable(name string, header []string, lines []CostLine) *export.Table {
	t := &export.Table{
		Name:    name,
		Header:  header,
		Rows:    make([][]string, 0, len(lines)),
		Records: lines,
	}
	for _, l := range lines {
		t.Rows = append(t.Rows, []string{
			l.ID.String(), l.Timestamp, l.Source, l.Subtype, l.Message,
			itoa(l.Tokens), costs.FormatUSD(l.Cost, costs.DetailPrecision),
		})
	}
	return t
}

// TopLine is one line of the top-cost view.
type TopLine struct {
	ID             events.ID       `json:"id"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	CacheWriteCost decimal.Decimal `json:"cache_write_cost"`
	CompletionCost decimal.Decimal `json:"completion_cost"`
}

// TopCosts returns the limit events with accumulated usage that have the
// highest completion plus cache-write cost. Ties keep input order.
func TopCosts(evs []*events.Event, calc *costs.Calculator, limit int) []TopLine {
	lines := make([]TopLine, 0)
	for _, ev := range evs {
		u, ok := ev.AccumulatedUsage()
		if !ok {
			continue
		}
		completion := calc.CompletionCost(u.CompletionTokens)
		write := calc.CacheWriteCost(u.CacheWriteTokens)
		lines = append(lines, TopLine{
			ID:             ev.ID,
			TotalCost:      completion.Add(write),
			CacheWriteCost: write,
			CompletionCost: completion,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TotalCost.GreaterThan(lines[j].TotalCost)
	})
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines
}

// TopTable renders the top view at two digits.
func TopTable(lines []TopLine) *export.Table {
	p := costs.DefaultPrecision
	t := &export.Table{
		Name:    "Top Events by Cost",
		Header:  []string{"id", "total_cost", "cache_write_cost", "completion_cost"},
		Rows:    make([][]string, 0, len(lines)),
		Records: lines,
	}
	for _, l := range lines {
		t.Rows = append(t.Rows, []string{
			l.ID.String(),
			costs.FormatUSD(l.TotalCost, p),
			costs.FormatUSD(l.CacheWriteCost, p),
			costs.FormatUSD(l.CompletionCost, p),
		})
	}
	return t
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
