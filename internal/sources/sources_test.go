package sources

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/epeers/election-windows/internal/alphavantage"
	"github.com/epeers/election-windows/internal/models"
	yahoofinanceapi "github.com/oscarli916/yahoo-finance-api"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortPoints(points []models.PricePoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
}

func TestYahooSource_DailyCloses(t *testing.T) {
	var gotSymbol string
	var gotQuery yahoofinanceapi.HistoryQuery
	src := &YahooSource{history: func(symbol string, q yahoofinanceapi.HistoryQuery) (map[string]float64, error) {
		gotSymbol, gotQuery = symbol, q
		return map[string]float64{
			"2020-10-02": 27.63,
			"2020-10-05": 27.96,
			"2020-10-06": math.NaN(),
			"2020-10-07": 0,
		}, nil
	}}

	points, err := src.DailyCloses(context.Background(), "^VIX", day(2020, 10, 1), day(2020, 10, 31))
	require.NoError(t, err)

	assert.Equal(t, "^VIX", gotSymbol)
	assert.Equal(t, "2020-10-01", gotQuery.Start)
	assert.Equal(t, "2020-11-01", gotQuery.End, "end is exclusive upstream, so one day is added")
	assert.Equal(t, "1d", gotQuery.Interval)

	sortPoints(points)
	require.Len(t, points, 2)
	assert.Equal(t, day(2020, 10, 2), points[0].Date)
	assert.Equal(t, day(2020, 10, 5), points[1].Date)
	assert.InDelta(t, 27.96, points[1].Close, 1e-9)
}

func TestYahooSource_Errors(t *testing.T) {
	src := &YahooSource{history: func(string, yahoofinanceapi.HistoryQuery) (map[string]float64, error) {
		return nil, errors.New("404 Not Found")
	}}
	_, err := src.DailyCloses(context.Background(), "NOPE", day(2020, 1, 1), day(2020, 2, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")

	bad := &YahooSource{history: func(string, yahoofinanceapi.HistoryQuery) (map[string]float64, error) {
		return map[string]float64{"yesterday": 1}, nil
	}}
	_, err = bad.DailyCloses(context.Background(), "SPY", day(2020, 1, 1), day(2020, 2, 1))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.DailyCloses(ctx, "SPY", day(2020, 1, 1), day(2020, 2, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChartSource_DailyCloses(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}
	open := func(y int, m time.Month, d int) int {
		return int(time.Date(y, m, d, 9, 30, 0, 0, ny).Unix())
	}

	var gotParams *chart.Params
	src := &ChartSource{bars: func(p *chart.Params) ([]chartBar, error) {
		gotParams = p
		return []chartBar{
			{Timestamp: open(2020, 12, 2), Close: decimal.RequireFromString("366.79")},
			{Timestamp: open(2020, 12, 3), Close: decimal.RequireFromString("366.69")},
			{Timestamp: open(2020, 12, 4), Close: decimal.Zero},
		}, nil
	}}

	points, err := src.DailyCloses(context.Background(), "SPY", day(2020, 12, 1), day(2020, 12, 31))
	require.NoError(t, err)

	assert.Equal(t, "SPY", gotParams.Symbol)
	assert.Equal(t, datetime.OneDay, gotParams.Interval)
	assert.Equal(t, 2021, gotParams.End.Year)
	assert.Equal(t, 1, gotParams.End.Month)
	assert.Equal(t, 1, gotParams.End.Day)

	require.Len(t, points, 2)
	assert.Equal(t, day(2020, 12, 3), points[1].Date)
	assert.InDelta(t, 366.69, points[1].Close, 1e-9)
}

func TestChartSource_Error(t *testing.T) {
	src := &ChartSource{bars: func(*chart.Params) ([]chartBar, error) {
		return nil, errors.New("remote-error")
	}}
	_, err := src.DailyCloses(context.Background(), "^VIX", day(2000, 1, 1), day(2000, 2, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "^VIX")
}

func TestParseSeriesCSV(t *testing.T) {
	input := `Date, Open, Close
2020-10-02,328.57,333.84
2020-10-05,336.06,339.76
2020-10-06,338.0,
2020-10-07,336.0,null
`
	points, err := ParseSeriesCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, day(2020, 10, 5), points[1].Date)
	assert.InDelta(t, 339.76, points[1].Close, 1e-9)
}

func TestParseSeriesCSV_AdjClose(t *testing.T) {
	points, err := ParseSeriesCSV(strings.NewReader("date,adj close\n2004-11-02 00:00:00,113.9\n"))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, day(2004, 11, 2), points[0].Date)
}

func TestParseSeriesCSV_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing date column", "day,close\n2020-01-02,1\n"},
		{"missing close column", "date,open\n2020-01-02,1\n"},
		{"bad date", "date,close\n01/02/2020,1\n"},
		{"bad close", "date,close\n2020-01-02,abc\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSeriesCSV(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestCSVSource_ReadsPrefixedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VIX.csv"), []byte("date,close\n2016-11-08,14.38\n"), 0644))

	src := NewCSVSource(dir)
	assert.Equal(t, filepath.Join(dir, "VIX.csv"), src.Path("^VIX"))

	points, err := src.DailyCloses(context.Background(), "^VIX", day(2016, 1, 1), day(2017, 1, 1))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 14.38, points[0].Close, 1e-9)

	_, err = src.DailyCloses(context.Background(), "SPY", day(2016, 1, 1), day(2017, 1, 1))
	assert.Error(t, err, "missing file should fail")
}

func TestAlphaVantageSource_DailyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alphavantage.TimeSeriesDailyResponse{
			MetaData: alphavantage.MetaData{Symbol: r.URL.Query().Get("symbol")},
			TimeSeries: map[string]alphavantage.DailyOHLCV{
				"2012-11-06": {Close: "142.18"},
				"2012-11-07": {Close: "139.10"},
			},
		})
	}))
	defer srv.Close()

	src := NewAlphaVantageSource(alphavantage.NewClientWithBaseURL("test-key", srv.URL))
	assert.Equal(t, "alphavantage", src.Name())

	points, err := src.DailyCloses(context.Background(), "SPY", day(2012, 9, 1), day(2013, 1, 31))
	require.NoError(t, err)
	sortPoints(points)
	require.Len(t, points, 2)
	assert.Equal(t, day(2012, 11, 6), points[0].Date)
	assert.InDelta(t, 142.18, points[0].Close, 1e-9)
}
