package domain

import (
	"strings"
	"time"
)

// DayLayout is the sortable key format for per-day animation frames.
const DayLayout = "2006-01-02"

var acqDateLayouts = []string{
	DayLayout,
	"2006/01/02",
	"02-01-2006",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseAcqDate parses an acquisition date cell. The boolean is false when the
// value is empty or matches none of the accepted layouts.
func ParseAcqDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range acqDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayKey returns the YYYY-MM-DD key of an acquisition date.
func DayKey(raw string) (string, bool) {
	t, ok := ParseAcqDate(raw)
	if !ok {
		return "", false
	}
	return t.Format(DayLayout), true
}
