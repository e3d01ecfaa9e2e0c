package cache

import (
	"sync"
	"time"

	"github.com/epeers/election-windows/internal/models"
)

// SeriesCache keeps fetched price series in memory so a symbol/range pair is only
// downloaded once per process
type SeriesCache struct {
	series map[string]seriesEntry
	mu     sync.RWMutex
}

type seriesEntry struct {
	data      *models.PriceSeries
	source    string
	fetchedAt time.Time
}

// NewSeriesCache creates an empty cache
func NewSeriesCache() *SeriesCache {
	return &SeriesCache{
		series: make(map[string]seriesEntry),
	}
}

// seriesCacheKey generates a cache key for a symbol and date range
func seriesCacheKey(symbol string, startDate, endDate time.Time) string {
	return symbol + "|" + startDate.Format("2006-01-02") + "|" + endDate.Format("2006-01-02")
}

// Get retrieves a cached series and the name of the source that produced it
func (c *SeriesCache) Get(symbol string, startDate, endDate time.Time) (*models.PriceSeries, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.series[seriesCacheKey(symbol, startDate, endDate)]
	if !exists {
		return nil, "", false
	}
	return entry.data, entry.source, true
}

// Set caches a series
func (c *SeriesCache) Set(symbol string, startDate, endDate time.Time, source string, data *models.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.series[seriesCacheKey(symbol, startDate, endDate)] = seriesEntry{
		data:      data,
		source:    source,
		fetchedAt: time.Now(),
	}
}

// Len returns the number of cached series
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series)
}

// Clear removes all cached data
func (c *SeriesCache) Clear() {
	c.mu.Lock()
	c.series = make(map[string]seriesEntry)
	c.mu.Unlock()
}
