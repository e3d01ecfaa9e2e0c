package sources

import (
	"context"
	"time"

	"github.com/epeers/election-windows/internal/alphavantage"
	"github.com/epeers/election-windows/internal/models"
)

// AlphaVantageSource adapts the AlphaVantage client to the price source chain.
// AlphaVantage does not serve index symbols such as ^VIX; it is meant for the ETF leg
// or as a fallback behind another source.
type AlphaVantageSource struct {
	client *alphavantage.Client
}

// NewAlphaVantageSource wraps an existing client
func NewAlphaVantageSource(client *alphavantage.Client) *AlphaVantageSource {
	return &AlphaVantageSource{client: client}
}

// Name identifies the source in logs and config
func (s *AlphaVantageSource) Name() string {
	return "alphavantage"
}

// DailyCloses fetches the full daily history; range trimming is left to the loader
func (s *AlphaVantageSource) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	prices, err := s.client.GetDailyPrices(ctx, symbol, "full")
	if err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0, len(prices))
	for _, p := range prices {
		points = append(points, models.PricePoint{Date: p.Date, Close: p.Close})
	}
	return points, nil
}
