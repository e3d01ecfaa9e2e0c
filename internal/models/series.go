package models

import (
	"math"
	"sort"
	"time"
)

// PricePoint is one daily close as returned by a price source
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an immutable, date-sorted record of daily closes for one instrument.
// Non-trading days are simply absent.
type PriceSeries struct {
	Symbol string
	dates  []time.Time
	closes []float64
}

// NewPriceSeries builds a series from unordered points.
// Dates are truncated to UTC midnight; duplicates keep the last point seen.
// NaN, infinite and non-positive closes are dropped.
func NewPriceSeries(symbol string, points []PricePoint) *PriceSeries {
	byDay := make(map[time.Time]float64, len(points))
	for _, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			continue
		}
		byDay[DateOnly(p.Date)] = p.Close
	}

	dates := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	closes := make([]float64, len(dates))
	for i, d := range dates {
		closes[i] = byDay[d]
	}

	return &PriceSeries{Symbol: symbol, dates: dates, closes: closes}
}

// Len returns the number of trading days in the series
func (s *PriceSeries) Len() int {
	return len(s.dates)
}

// Range returns the first and last trading days. Both are zero for an empty series.
func (s *PriceSeries) Range() (time.Time, time.Time) {
	if len(s.dates) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.dates[0], s.dates[len(s.dates)-1]
}

// At returns the close on exactly the given day
func (s *PriceSeries) At(date time.Time) (float64, bool) {
	d := DateOnly(date)
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(d) })
	if i < len(s.dates) && s.dates[i].Equal(d) {
		return s.closes[i], true
	}
	return 0, false
}

// Ceiling returns the first trading day on or after date, with its close
func (s *PriceSeries) Ceiling(date time.Time) (time.Time, float64, bool) {
	d := DateOnly(date)
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(d) })
	if i == len(s.dates) {
		return time.Time{}, 0, false
	}
	return s.dates[i], s.closes[i], true
}

// Points returns a copy of the series in date order
func (s *PriceSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.dates))
	for i := range s.dates {
		out[i] = PricePoint{Date: s.dates[i], Close: s.closes[i]}
	}
	return out
}
