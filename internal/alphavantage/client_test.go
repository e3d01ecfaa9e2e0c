package alphavantage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockPriceServer creates a mock AV server that returns the given body for TIME_SERIES_DAILY.
// callCounter is incremented each time the server is called.
func createMockPriceServer(t *testing.T, body any, callCounter *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if callCounter != nil {
			atomic.AddInt32(callCounter, 1)
		}
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
}

func TestGetDailyPrices(t *testing.T) {
	var calls int32
	srv := createMockPriceServer(t, TimeSeriesDailyResponse{
		MetaData: MetaData{Information: "Daily Prices", Symbol: "SPY"},
		TimeSeries: map[string]DailyOHLCV{
			"2020-10-02": {Open: "328.57", High: "337.02", Low: "331.19", Close: "333.84", Volume: "89431100"},
			"2020-10-05": {Open: "336.06", High: "339.96", Low: "336.01", Close: "339.76", Volume: "45713100"},
			"garbage":    {Close: "1.00"},
			"2020-10-06": {Close: "n/a"},
		},
	}, &calls)
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL)
	prices, err := client.GetDailyPrices(context.Background(), "SPY", "full")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })
	assert.Equal(t, time.Date(2020, 10, 2, 0, 0, 0, 0, time.UTC), prices[0].Date)
	assert.InDelta(t, 333.84, prices[0].Close, 1e-9)
	assert.InDelta(t, 339.76, prices[1].Close, 1e-9)
	assert.Equal(t, int64(45713100), prices[1].Volume)
}

func TestGetDailyPrices_APIErrorMessage(t *testing.T) {
	srv := createMockPriceServer(t, map[string]string{
		"Error Message": "Invalid API call. Please retry or visit the documentation for TIME_SERIES_DAILY.",
	}, nil)
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL)
	_, err := client.GetDailyPrices(context.Background(), "^VIX", "full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API call")
}

func TestGetDailyPrices_Throttled(t *testing.T) {
	srv := createMockPriceServer(t, map[string]string{
		"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute.",
	}, nil)
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL)
	_, err := client.GetDailyPrices(context.Background(), "SPY", "full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 calls per minute")
}

func TestGetDailyPrices_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL)
	_, err := client.GetDailyPrices(context.Background(), "SPY", "full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGetDailyPrices_CancelledContext(t *testing.T) {
	srv := createMockPriceServer(t, TimeSeriesDailyResponse{}, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key")
	client.baseURL = srv.URL
	_, err := client.GetDailyPrices(ctx, "SPY", "full")
	require.Error(t, err)
}
