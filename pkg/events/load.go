package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// Load reads an event log from path. StdinPath reads standard input.
// An empty path returns ErrNoInput.
func Load(path string) ([]*Event, error) {
	if path == "" {
		return nil, ErrNoInput
	}
	if path == StdinPath {
		return Decode(os.Stdin, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, NewInputError(path, "open", err)
	}
	defer f.Close()

	return Decode(f, path)
}

// Decode reads a JSON array of events from r. The path is only used for
// error reporting. A token count that is negative or out of range yields an
// *InvalidLogDataError naming the event.
func Decode(r io.Reader, path string) ([]*Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewInputError(path, "read", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, NewInputError(path, "decode", err)
	}

	// A null element leaves the event empty.
	evs := make([]*Event, len(raws))
	for i, raw := range raws {
		ev := &Event{}
		if err := json.Unmarshal(raw, ev); err != nil {
			var dataErr *InvalidLogDataError
			if errors.As(err, &dataErr) {
				dataErr.EventID = eventLabel(raw, i)
				return nil, dataErr
			}
			return nil, NewInputError(path, "decode", err)
		}
		evs[i] = ev
	}
	return evs, nil
}

// eventLabel names an undecodable event by its id, or by its position when
// the id cannot be read.
func eventLabel(raw json.RawMessage, index int) string {
	var head struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err == nil && !head.ID.IsZero() {
		return head.ID.String()
	}
	return fmt.Sprintf("at index %d", index)
}

// MustDecode decodes a JSON event array and panics on error.
// It is intended for tests and examples.
func MustDecode(data string) []*Event {
	evs, err := Decode(strings.NewReader(data), "inline")
	if err != nil {
		panic(fmt.Sprintf("events: %v", err))
	}
	return evs
}
