// Package events models the agent-runtime event log consumed by costlens.
//
// # Event Log
//
// The log is a JSON array of event objects. Only the fields listed below are
// read; everything else is ignored.
//
//	[
//	  {
//	    "id": 12,
//	    "timestamp": "2024-01-01T00:01:00",
//	    "source": "agent",
//	    "cause": 11,
//	    "action": "run",
//	    "message": "Running command",
//	    "args": {"command": "ls -la"},
//	    "tool_call_metadata": {"model_response": {"usage": {"completion_tokens": 120}}},
//	    "llm_metrics": {"accumulated_token_usage": {"completion_tokens": 900}}
//	  }
//	]
//
// # Optional Fields
//
// Every field is optional. Accessors on Event document the default returned
// when a field is missing, so callers never deal with nil maps:
//
//	ev.Text()        // "" when message is absent
//	ev.Subtype()     // observation, else action, else UNKNOWN-TYPE
//	ev.Usage()       // tool-call usage, else accumulated usage, else empty
//
// # Usage Records
//
// A Usage remembers which keys were present in the source object. IsEmpty
// reports whether the object had no keys at all, which is different from a
// record whose counts are all zero.
//
// # Timestamps
//
// ParseTimestamp accepts the ISO-8601 forms emitted by the runtime. A value
// that cannot be parsed is a fatal data error for the whole run and is
// reported as an *InvalidLogDataError.
package events
