package events

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Fractional seconds are accepted after
// the seconds field by time.Parse even when the layout omits them.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A space may separate the date
// and time. Values without an offset are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 datetime")
}

// Time parses the event timestamp. The boolean is false when the timestamp is
// absent; a malformed value yields an *InvalidLogDataError.
func (e *Event) Time() (time.Time, bool, error) {
	if strings.TrimSpace(e.Timestamp) == "" {
		return time.Time{}, false, nil
	}
	t, err := ParseTimestamp(e.Timestamp)
	if err != nil {
		return time.Time{}, false, NewInvalidLogDataError(e.ID.String(), "timestamp", e.Timestamp, err)
	}
	return t, true, nil
}
