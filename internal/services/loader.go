package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/election-windows/internal/cache"
	"github.com/epeers/election-windows/internal/models"
	log "github.com/sirupsen/logrus"
)

// PriceSource is a provider of daily closing prices
type PriceSource interface {
	Name() string
	DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)
}

// DataUnavailableError means no configured source could produce any data for a symbol
// over the requested range. It is fatal for the run.
type DataUnavailableError struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Err    error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("no price data for %s between %s and %s",
		e.Symbol, e.Start.Format(models.DateLayout), e.End.Format(models.DateLayout))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// SeriesLoader fetches price series through an ordered chain of sources, with an in-memory cache
type SeriesLoader struct {
	sources []PriceSource
	cache   *cache.SeriesCache
}

// NewSeriesLoader creates a new SeriesLoader
func NewSeriesLoader(seriesCache *cache.SeriesCache, sources ...PriceSource) *SeriesLoader {
	return &SeriesLoader{
		sources: sources,
		cache:   seriesCache,
	}
}

// Load returns the daily closes of symbol between start and end inclusive.
// Sources are tried in order and the first one that yields data inside the range wins.
func (l *SeriesLoader) Load(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	defer TrackTime("SeriesLoader.Load("+symbol+")", time.Now())

	start, end = models.DateOnly(start), models.DateOnly(end)

	if series, source, ok := l.cache.Get(symbol, start, end); ok {
		log.Debugf("%s served from cache (originally %s)", symbol, source)
		return series, nil
	}

	if len(l.sources) == 0 {
		return nil, &DataUnavailableError{Symbol: symbol, Start: start, End: end, Err: errors.New("no price sources configured")}
	}

	var errs []error
	for i, src := range l.sources {
		points, err := src.DailyCloses(ctx, symbol, start, end)
		if err == nil {
			points = trimToRange(points, start, end)
			if len(points) == 0 {
				err = errors.New("empty result")
			}
		}

		if err != nil {
			// A cancelled run should stop, not fall through the rest of the chain
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			if i < len(l.sources)-1 {
				AddWarning(ctx, models.Warning{
					Code:    models.WarnSourceFallback,
					Message: fmt.Sprintf("%s failed for %s (%v); trying %s", src.Name(), symbol, err, l.sources[i+1].Name()),
				})
			}
			continue
		}

		series := models.NewPriceSeries(symbol, points)
		if series.Len() == 0 {
			errs = append(errs, fmt.Errorf("%s: no usable closes", src.Name()))
			continue
		}

		first, last := series.Range()
		log.Infof("Loaded %d trading days for %s from %s (%s to %s)",
			series.Len(), symbol, src.Name(), first.Format(models.DateLayout), last.Format(models.DateLayout))

		l.cache.Set(symbol, start, end, src.Name(), series)
		return series, nil
	}

	return nil, &DataUnavailableError{Symbol: symbol, Start: start, End: end, Err: errors.Join(errs...)}
}

func trimToRange(points []models.PricePoint, start, end time.Time) []models.PricePoint {
	out := points[:0:0]
	for _, p := range points {
		d := models.DateOnly(p.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}
