package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used in every artifact
const DateLayout = "2006-01-02"

// DateOnly truncates t to midnight UTC of its own calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseFlexibleDate accepts "YYYY-MM-DD", "YYYY-MM-DD HH:MM:SS" and RFC3339 timestamps.
// The calendar day as written is kept; any time component is dropped.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)

	// Try parsing as RFC3339 full timestamp first
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t), nil
	}

	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
