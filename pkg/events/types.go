package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Well-known subtype values and usage keys.
const (
	// ActionCondensation marks a memory-condensation action. It is billed
	// like a caused event even though it has no cause.
	ActionCondensation = "condensation"

	// UnknownSubtype is reported when an event has neither an action nor an
	// observation discriminator.
	UnknownSubtype = "UNKNOWN-TYPE"

	// KindAction and KindObservation classify events by discriminator.
	KindAction      = "action"
	KindObservation = "observation"
)

// Usage keys as they appear in the log.
const (
	KeyCompletionTokens         = "completion_tokens"
	KeyPromptTokens             = "prompt_tokens"
	KeyCacheReadInputTokens     = "cache_read_input_tokens"
	KeyCacheCreationInputTokens = "cache_creation_input_tokens"
	KeyCacheWriteTokens         = "cache_write_tokens"
	KeyCacheReadTokens          = "cache_read_tokens"
)

// Event is a single entry of the agent-runtime log.
// All fields are optional; use the accessor methods for defaulted values.
type Event struct {
	// ID identifies the event and orders events when sorted ascending.
	ID ID `json:"id"`

	// Timestamp is the raw ISO-8601 timestamp. Empty when absent.
	Timestamp string `json:"timestamp"`

	// Source describes the event origin (e.g., "agent", "user").
	Source string `json:"source"`

	// Cause references the event that caused this one. Nil when absent or null.
	Cause *ID `json:"cause"`

	// Action is the action subtype. Nil for observations.
	Action *string `json:"action"`

	// Observation is the observation subtype. Nil for actions.
	Observation *string `json:"observation"`

	// Message is the free-text message.
	Message string `json:"message"`

	// Args holds action arguments; only "path" and "command" are read.
	Args Args `json:"args"`

	// ToolCallMetadata carries the model response of the tool call.
	ToolCallMetadata *ToolCallMetadata `json:"tool_call_metadata"`

	// LLMMetrics carries usage accumulated over the session.
	LLMMetrics *LLMMetrics `json:"llm_metrics"`
}

// ToolCallMetadata is the tool_call_metadata object of an event.
type ToolCallMetadata struct {
	ModelResponse *ModelResponse `json:"model_response"`
}

// ModelResponse is the provider response attached to a tool call.
type ModelResponse struct {
	Usage *Usage `json:"usage"`
}

// LLMMetrics is the llm_metrics object of an event.
type LLMMetrics struct {
	AccumulatedTokenUsage *Usage `json:"accumulated_token_usage"`
}

// HasCause reports whether the event references a cause.
func (e *Event) HasCause() bool {
	return e.Cause != nil
}

// ActionName returns the action subtype, or "" for non-actions.
func (e *Event) ActionName() string {
	if e.Action == nil {
		return ""
	}
	return *e.Action
}

// IsCondensation reports whether the event is a condensation action.
func (e *Event) IsCondensation() bool {
	return e.ActionName() == ActionCondensation
}

// Billable reports whether the event takes part in cost correlation:
// it has a cause or it is a condensation action.
func (e *Event) Billable() bool {
	return e.HasCause() || e.IsCondensation()
}

// Subtype returns the observation value, else the action value, else
// UnknownSubtype.
func (e *Event) Subtype() string {
	return e.SubtypeOr(UnknownSubtype)
}

// SubtypeOr is Subtype with a caller-chosen fallback.
func (e *Event) SubtypeOr(fallback string) string {
	if e.Observation != nil {
		return *e.Observation
	}
	if e.Action != nil {
		return *e.Action
	}
	return fallback
}

// Kind returns KindObservation when the event carries an observation and
// KindAction otherwise.
func (e *Event) Kind() string {
	if e.Observation != nil {
		return KindObservation
	}
	return KindAction
}

// AnnotatedMessage returns the message with the path and command arguments
// appended. The result is not truncated.
func (e *Event) AnnotatedMessage() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if path, ok := e.Args.Get("path"); ok {
		fmt.Fprintf(&sb, " (Path: %s)", path)
	}
	if command, ok := e.Args.Get("command"); ok {
		fmt.Fprintf(&sb, " (Command: %s)", command)
	}
	return sb.String()
}

// ShortMessage returns the annotated message cut to width runes.
func (e *Event) ShortMessage(width int) string {
	return Truncate(e.AnnotatedMessage(), width)
}

// Truncate keeps the first width runes of s. A width of zero or less keeps
// everything.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}

// ToolCallUsage returns tool_call_metadata.model_response.usage, or an empty
// Usage when any level is missing.
func (e *Event) ToolCallUsage() Usage {
	if e.ToolCallMetadata == nil || e.ToolCallMetadata.ModelResponse == nil || e.ToolCallMetadata.ModelResponse.Usage == nil {
		return Usage{}
	}
	return *e.ToolCallMetadata.ModelResponse.Usage
}

// AccumulatedUsage returns llm_metrics.accumulated_token_usage. The boolean
// is false when the key is missing.
func (e *Event) AccumulatedUsage() (Usage, bool) {
	if e.LLMMetrics == nil || e.LLMMetrics.AccumulatedTokenUsage == nil {
		return Usage{}, false
	}
	return *e.LLMMetrics.AccumulatedTokenUsage, true
}

// Usage returns the tool-call usage when it is non-empty and falls back to
// the accumulated usage otherwise. The result may be empty.
func (e *Event) Usage() Usage {
	if u := e.ToolCallUsage(); !u.IsEmpty() {
		return u
	}
	u, _ := e.AccumulatedUsage()
	return u
}

// Args holds the raw action arguments.
type Args map[string]json.RawMessage

// NullArg is the display form of an argument that is present but null.
const NullArg = "None"

// Get returns the display form of an argument. JSON strings are unquoted,
// null is NullArg and other values are returned as their JSON text. Only a
// missing key counts as absent.
func (a Args) Get(key string) (string, bool) {
	raw, ok := a[key]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return NullArg, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// Usage is a token usage record. It remembers which keys were present so that
// an empty object can be told apart from a record of zeros.
type Usage struct {
	CompletionTokens         int64
	PromptTokens             int64
	CacheReadInputTokens     int64
	CacheCreationInputTokens int64
	CacheWriteTokens         int64
	CacheReadTokens          int64

	keys map[string]struct{}
}

// IsEmpty reports whether the source object had no keys.
func (u Usage) IsEmpty() bool {
	return len(u.keys) == 0
}

// Has reports whether key was present in the source object.
func (u Usage) Has(key string) bool {
	_, ok := u.keys[key]
	return ok
}

// UnmarshalJSON decodes a usage object, recording every key it contains.
// Unknown keys count towards presence but are otherwise ignored.
func (u *Usage) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("usage must be an object: %w", err)
	}

	*u = Usage{keys: make(map[string]struct{}, len(fields))}
	for key, raw := range fields {
		u.keys[key] = struct{}{}

		var target *int64
		switch key {
		case KeyCompletionTokens:
			target = &u.CompletionTokens
		case KeyPromptTokens:
			target = &u.PromptTokens
		case KeyCacheReadInputTokens:
			target = &u.CacheReadInputTokens
		case KeyCacheCreationInputTokens:
			target = &u.CacheCreationInputTokens
		case KeyCacheWriteTokens:
			target = &u.CacheWriteTokens
		case KeyCacheReadTokens:
			target = &u.CacheReadTokens
		default:
			continue
		}

		n, err := decodeCount(key, raw)
		if err != nil {
			return err
		}
		*target = n
	}
	return nil
}

// MarshalJSON encodes the keys that were present in the source object.
func (u Usage) MarshalJSON() ([]byte, error) {
	out := make(map[string]int64, len(u.keys))
	for key := range u.keys {
		switch key {
		case KeyCompletionTokens:
			out[key] = u.CompletionTokens
		case KeyPromptTokens:
			out[key] = u.PromptTokens
		case KeyCacheReadInputTokens:
			out[key] = u.CacheReadInputTokens
		case KeyCacheCreationInputTokens:
			out[key] = u.CacheCreationInputTokens
		case KeyCacheWriteTokens:
			out[key] = u.CacheWriteTokens
		case KeyCacheReadTokens:
			out[key] = u.CacheReadTokens
		}
	}
	return json.Marshal(out)
}

// decodeCount reads a token count. Null is zero; integral floats are accepted.
// A value that is not a number is a decode error. A negative, fractional or
// out-of-range number is an *InvalidLogDataError without an event ID; Decode
// fills it in.
func decodeCount(key string, raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("usage field %s: not a number: %s", key, raw)
	}

	n, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		switch {
		case ferr != nil, f != math.Trunc(f), f < math.MinInt64, f >= math.MaxInt64:
			return 0, NewInvalidLogDataError("", "usage."+key, string(raw), errCountRange)
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, NewInvalidLogDataError("", "usage."+key, string(raw), errCountRange)
	}
	return n, nil
}

// ID is an opaque event identifier. Numeric IDs compare numerically, anything
// else compares as text.
type ID struct {
	text    string
	number  float64
	numeric bool
}

// NewID creates an ID from text, detecting numeric values.
func NewID(text string) ID {
	id := ID{text: text}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		id.number = f
		id.numeric = true
	}
	return id
}

// String returns the ID as it appeared in the log.
func (id ID) String() string {
	return id.text
}

// IsZero reports whether the ID was absent.
func (id ID) IsZero() bool {
	return id.text == ""
}

// Less orders IDs: numerically when both are numeric, lexically otherwise.
func (id ID) Less(other ID) bool {
	if id.numeric && other.numeric {
		return id.number < other.number
	}
	return id.text < other.text
}

// UnmarshalJSON accepts a JSON number, string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{text: s}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = NewID(num.String())
	return nil
}

// MarshalJSON writes numeric IDs as numbers and the rest as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.text == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}
