package core

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the canonical scheduled_time form. It is fixed width
// and always UTC, so string order equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Layouts accepted from clients. Fractional seconds are accepted after the
// seconds field even where the layout does not name them.
var scheduledTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeScheduledTime parses an ISO-8601 timestamp and returns its
// canonical form. Values without an offset are taken as UTC. An empty
// input yields now.
func NormalizeScheduledTime(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return FormatTimestamp(now), nil
	}

	for _, layout := range scheduledTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, input, time.UTC); err == nil {
			return FormatTimestamp(parsed), nil
		}
	}
	return "", NewValidationError(fmt.Sprintf("invalid scheduled_time %q: expected an ISO-8601 timestamp", input))
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
