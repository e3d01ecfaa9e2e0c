package models

import (
	"strconv"
	"strings"
	"time"
)

// EventDate is one of the analyzed election days. Date is always UTC midnight.
type EventDate struct {
	Year int       `json:"year"`
	Date time.Time `json:"date"`
}

// Offset is a logical window slot relative to an EventDate
type Offset struct {
	Label  string `json:"label"`  // column suffix, e.g. "1_month_before"
	Months int    `json:"months"` // whole-month delta, negative = before the event
}

// Short returns the compact form used in logs and chart ticks (e.g. "-1mo")
func (o Offset) Short() string {
	if o.Months > 0 {
		return "+" + strconv.Itoa(o.Months) + "mo"
	}
	return strconv.Itoa(o.Months) + "mo"
}

// IsPre reports whether the slot lies before the event
func (o Offset) IsPre() bool {
	return o.Months < 0
}

// Instrument identifies one price series by its data-source symbol
type Instrument struct {
	Symbol string `json:"symbol"` // e.g. "^VIX"
	Prefix string `json:"prefix"` // column prefix, e.g. "VIX"
}

// NewInstrument derives the column prefix from the symbol by dropping index markers
func NewInstrument(symbol string) Instrument {
	return Instrument{
		Symbol: symbol,
		Prefix: strings.TrimLeft(symbol, "^$."),
	}
}

// ColumnName returns the ResultTable column for an instrument at an offset
func ColumnName(inst Instrument, off Offset) string {
	return inst.Prefix + "_" + off.Label
}

// ElectionDates returns the fixed list of U.S. presidential elections analyzed, oldest first.
// A fresh slice is returned on every call.
func ElectionDates() []EventDate {
	return []EventDate{
		{Year: 2000, Date: time.Date(2000, time.November, 7, 0, 0, 0, 0, time.UTC)},
		{Year: 2004, Date: time.Date(2004, time.November, 2, 0, 0, 0, 0, time.UTC)},
		{Year: 2008, Date: time.Date(2008, time.November, 4, 0, 0, 0, 0, time.UTC)},
		{Year: 2012, Date: time.Date(2012, time.November, 6, 0, 0, 0, 0, time.UTC)},
		{Year: 2016, Date: time.Date(2016, time.November, 8, 0, 0, 0, 0, time.UTC)},
		{Year: 2020, Date: time.Date(2020, time.November, 3, 0, 0, 0, 0, time.UTC)},
	}
}

// WindowOffsets returns the four window slots in chronological order
func WindowOffsets() []Offset {
	return []Offset{
		{Label: "2_months_before", Months: -2},
		{Label: "1_month_before", Months: -1},
		{Label: "1_month_after", Months: 1},
		{Label: "2_months_after", Months: 2},
	}
}

// DefaultInstruments returns the equity-index ETF and the volatility index
func DefaultInstruments() []Instrument {
	return []Instrument{
		NewInstrument("SPY"),
		NewInstrument("^VIX"),
	}
}
