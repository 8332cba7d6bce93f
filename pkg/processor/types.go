package processor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/events"
)

// Variant selects the correlation strategy.
type Variant string

const (
	// VariantForward reads cache counts from the next usage record.
	VariantForward Variant = "forward"

	// VariantBackward reads all counts from the event itself.
	// Deprecated: kept for comparison with older reports.
	VariantBackward Variant = "backward"
)

// ParseVariant parses a variant name. The empty string selects VariantForward.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantForward:
		return VariantForward, nil
	case VariantBackward:
		return VariantBackward, nil
	default:
		return "", fmt.Errorf("unknown correlation variant %q (expected forward or backward)", s)
	}
}

// SpecialOutdated annotates rows whose previous usage record is older than
// the staleness window.
const SpecialOutdated = "cache miss: outdated"

// Defaults.
const (
	DefaultWindow       = 5 * time.Minute
	DefaultMessageWidth = 60
)

// Config contains configuration for the Processor.
type Config struct {
	// Variant is the correlation strategy (default: forward)
	Variant Variant

	// CorrelationWindow bounds how far ahead the forward record may be
	// (default: 5m)
	CorrelationWindow time.Duration

	// StalenessWindow is the gap after which a row is marked outdated
	// (default: 5m)
	StalenessWindow time.Duration

	// MessageWidth is the number of characters kept of the annotated
	// message (default: 60)
	MessageWidth int

	// Rates is the rate table (default: costs.DefaultRates)
	Rates costs.Rates

	// MessageFilter rewrites the annotated message before it is cut to
	// MessageWidth. Nil leaves messages untouched.
	MessageFilter func(string) string
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() Config {
	return Config{
		Variant:           VariantForward,
		CorrelationWindow: DefaultWindow,
		StalenessWindow:   DefaultWindow,
		MessageWidth:      DefaultMessageWidth,
		Rates:             costs.DefaultRates(),
	}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Variant == "" {
		c.Variant = VariantForward
	}
	if c.CorrelationWindow <= 0 {
		c.CorrelationWindow = DefaultWindow
	}
	if c.StalenessWindow <= 0 {
		c.StalenessWindow = DefaultWindow
	}
	if c.MessageWidth <= 0 {
		c.MessageWidth = DefaultMessageWidth
	}
	if c.Rates.IsZero() {
		c.Rates = costs.DefaultRates()
	}
	return c
}

// Row is the cost record of one billed event.
type Row struct {
	ID        events.ID
	Timestamp string
	Source    string

	// Message is the annotated message cut to the configured width.
	Message string

	// Subtype is the observation value, else the action value, else
	// events.UnknownSubtype.
	Subtype string

	CacheReadTokens     int64
	CacheCreationTokens int64
	CompletionTokens    int64

	// Costs holds the three cost components.
	Costs costs.Breakdown

	// Special is empty or SpecialOutdated.
	Special string
}

// EventCost is the completion plus cache-creation cost.
func (r Row) EventCost() decimal.Decimal {
	return r.Costs.EventCost()
}

// TotalCost is the event cost plus the cache-read cost.
func (r Row) TotalCost() decimal.Decimal {
	return r.Costs.TotalCost()
}

// IsStale reports whether the row is marked outdated.
func (r Row) IsStale() bool {
	return r.Special != ""
}

// rowJSON is the wire form of a Row.
type rowJSON struct {
	ID                  events.ID       `json:"id"`
	Timestamp           string          `json:"timestamp"`
	Source              string          `json:"source"`
	Message             string          `json:"message"`
	Subtype             string          `json:"subt"`
	CacheReadTokens     int64           `json:"cache_read_tokens"`
	CacheCreationTokens int64           `json:"cache_creation_tokens"`
	CompletionTokens    int64           `json:"completion_tokens"`
	CacheReadCost       decimal.Decimal `json:"cache_read_cost"`
	CacheCreationCost   decimal.Decimal `json:"cache_creation_cost"`
	CompletionCost      decimal.Decimal `json:"completion_cost"`
	EventCost           decimal.Decimal `json:"event_cost"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	Special             string          `json:"special"`
}

// MarshalJSON writes the row with its derived costs. Amounts are decimal
// strings.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowJSON{
		ID:                  r.ID,
		Timestamp:           r.Timestamp,
		Source:              r.Source,
		Message:             r.Message,
		Subtype:             r.Subtype,
		CacheReadTokens:     r.CacheReadTokens,
		CacheCreationTokens: r.CacheCreationTokens,
		CompletionTokens:    r.CompletionTokens,
		CacheReadCost:       r.Costs.CacheReadCost,
		CacheCreationCost:   r.Costs.CacheCreationCost,
		CompletionCost:      r.Costs.CompletionCost,
		EventCost:           r.EventCost(),
		TotalCost:           r.TotalCost(),
		Special:             r.Special,
	})
}

// Stats counts what happened during a run.
type Stats struct {
	// Events is the number of input events.
	Events int

	// Candidates is the number of billable events.
	Candidates int

	// Rows is the number of emitted rows.
	Rows int

	// Suppressed is the number of billable events without a row.
	Suppressed int

	// Stale is the number of rows marked outdated.
	Stale int

	// Sorted reports whether the forward sweep could be used.
	Sorted bool
}

// Result is the outcome of a processing run.
type Result struct {
	// RunID identifies the run in logs and exported artifacts.
	RunID string

	// Variant is the strategy that produced the rows.
	Variant Variant

	// Rows holds one row per emitted event, in input order.
	Rows []Row

	// Stats holds the run counters.
	Stats Stats

	// Duration is the processing time.
	Duration time.Duration
}
