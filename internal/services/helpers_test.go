package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/epeers/election-windows/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekdayPoints generates one close per weekday in [start, end]; price grows by 1 per day
// so every date maps to a distinct, predictable value
func weekdayPoints(start, end time.Time, base float64) []models.PricePoint {
	var points []models.PricePoint
	for d, i := start, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		points = append(points, models.PricePoint{Date: d, Close: base + float64(i)})
	}
	return points
}

// dropRange removes every point in [from, to]
func dropRange(points []models.PricePoint, from, to time.Time) []models.PricePoint {
	var out []models.PricePoint
	for _, p := range points {
		if !p.Date.Before(from) && !p.Date.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// fakeSource serves canned points per symbol and counts calls
type fakeSource struct {
	name   string
	points map[string][]models.PricePoint
	err    error
	calls  int32
}

func (f *fakeSource) Name() string {
	return f.name
}

func (f *fakeSource) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	points, ok := f.points[symbol]
	if !ok {
		return nil, errors.New("unknown symbol " + symbol)
	}
	return append([]models.PricePoint(nil), points...), nil
}

func (f *fakeSource) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}
