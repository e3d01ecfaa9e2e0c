package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/election-windows/internal/models"
	"github.com/epeers/election-windows/internal/util"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

// chartBar is the subset of a finance-go bar this source reads
type chartBar struct {
	Timestamp int
	Close     decimal.Decimal
}

type barsFunc func(params *chart.Params) ([]chartBar, error)

// ChartSource reads daily bars through the finance-go chart iterator
type ChartSource struct {
	bars barsFunc
}

// NewChartSource creates a source backed by finance-go
func NewChartSource() *ChartSource {
	return &ChartSource{bars: chartBars}
}

func chartBars(params *chart.Params) ([]chartBar, error) {
	iter := chart.Get(params)

	var bars []chartBar
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, chartBar{Timestamp: bar.Timestamp, Close: bar.Close})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

// Name identifies the source in logs and config
func (s *ChartSource) Name() string {
	return "chart"
}

// DailyCloses fetches daily closes for [start, end]
func (s *ChartSource) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	last := end.AddDate(0, 0, 1)
	params := &chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    &datetime.Datetime{Year: start.Year(), Month: int(start.Month()), Day: start.Day()},
		End:      &datetime.Datetime{Year: last.Year(), Month: int(last.Month()), Day: last.Day()},
	}

	bars, err := s.bars(params)
	if err != nil {
		return nil, fmt.Errorf("chart error %s: %w", symbol, err)
	}

	return barsToPoints(bars), nil
}

// barsToPoints converts decimal closes and drops bars without a usable close
func barsToPoints(bars []chartBar) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(bars))
	for _, b := range bars {
		if !b.Close.IsPositive() {
			continue
		}
		closePrice, _ := b.Close.Float64()
		points = append(points, models.PricePoint{
			Date:  util.TradingDate(time.Unix(int64(b.Timestamp), 0)),
			Close: closePrice,
		})
	}
	return points
}
