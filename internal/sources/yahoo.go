package sources

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/epeers/election-windows/internal/models"
	yahoofinanceapi "github.com/oscarli916/yahoo-finance-api"
	log "github.com/sirupsen/logrus"
)

// historyFunc returns closes keyed by the provider's date string
type historyFunc func(symbol string, query yahoofinanceapi.HistoryQuery) (map[string]float64, error)

// YahooSource reads daily history from the Yahoo Finance chart API
type YahooSource struct {
	history historyFunc
}

// NewYahooSource creates a source backed by the public Yahoo endpoint
func NewYahooSource() *YahooSource {
	return &YahooSource{history: yahooHistory}
}

func yahooHistory(symbol string, query yahoofinanceapi.HistoryQuery) (map[string]float64, error) {
	data, err := yahoofinanceapi.NewTicker(symbol).History(query)
	if err != nil {
		return nil, err
	}
	closes := make(map[string]float64, len(data))
	for dateStr, price := range data {
		closes[dateStr] = price.Close
	}
	return closes, nil
}

// Name identifies the source in logs and config
func (s *YahooSource) Name() string {
	return "yahoo"
}

// DailyCloses fetches daily closes for [start, end]. The provider treats end as exclusive,
// so one day is added to the request.
func (s *YahooSource) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := yahoofinanceapi.HistoryQuery{
		Start:    start.Format(models.DateLayout),
		End:      end.AddDate(0, 0, 1).Format(models.DateLayout),
		Interval: "1d",
	}

	data, err := s.history(symbol, query)
	if err != nil {
		return nil, fmt.Errorf("history error %s: %w", symbol, err)
	}

	points := make([]models.PricePoint, 0, len(data))
	skipped := 0
	for dateStr, closePrice := range data {
		if math.IsNaN(closePrice) || closePrice <= 0 {
			skipped++
			continue
		}

		d, err := models.ParseFlexibleDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date %s for %s: %w", dateStr, symbol, err)
		}

		points = append(points, models.PricePoint{Date: d, Close: closePrice})
	}

	if skipped > 0 {
		log.Warnf("Ticker %s: skipped %d NaN Close points", symbol, skipped)
	}

	return points, nil
}
