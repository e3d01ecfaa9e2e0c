package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped shifts a date by whole calendar months.
// Unlike time.AddDate it never overflows into the following month: the day is clamped
// to the length of the target month, so Mar 31 - 1 month is Feb 28 (or 29).
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	total := int(m) - 1 + months
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	target := time.Month(total + 1)

	if last := DaysIn(y, target); d > last {
		d = last
	}
	return time.Date(y, target, d, 0, 0, 0, 0, time.UTC)
}

// TradingDate maps an exchange timestamp to the New York calendar day it belongs to,
// returned as UTC midnight of that day.
func TradingDate(ts time.Time) time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		loc = time.UTC
	}
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
