package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/election-windows/internal/models"
	"github.com/epeers/election-windows/internal/util"
)

// DefaultGapTolerance is how many calendar days past the target date the search may reach.
// Five days covers a weekend plus a holiday.
const DefaultGapTolerance = 5

// WindowExtractor maps (event, offset) slots onto concrete trading-day observations
type WindowExtractor struct {
	toleranceDays int
}

// NewWindowExtractor creates an extractor with the given forward search tolerance in calendar days
func NewWindowExtractor(toleranceDays int) *WindowExtractor {
	if toleranceDays < 0 {
		toleranceDays = 0
	}
	return &WindowExtractor{toleranceDays: toleranceDays}
}

// ToleranceDays returns the configured search tolerance
func (x *WindowExtractor) ToleranceDays() int {
	return x.toleranceDays
}

// TargetDate returns the calendar date an offset points at, before trading-day resolution
func TargetDate(event models.EventDate, off models.Offset) time.Time {
	return util.AddMonthsClamped(event.Date, off.Months)
}

// Resolve picks the earliest trading day on or after the offset's target date, provided it
// lies within the tolerance. Otherwise the observation is marked missing.
func (x *WindowExtractor) Resolve(series *models.PriceSeries, event models.EventDate, off models.Offset, inst models.Instrument) models.Observation {
	target := TargetDate(event, off)
	obs := models.Observation{
		Event:      event,
		Offset:     off,
		Instrument: inst,
		TargetDate: target,
		Missing:    true,
	}
	if series == nil {
		return obs
	}

	date, price, ok := series.Ceiling(target)
	if !ok || date.After(target.AddDate(0, 0, x.toleranceDays)) {
		return obs
	}

	obs.ResolvedDate = date
	obs.Price = price
	obs.Missing = false
	return obs
}

// ExtractAll resolves every (event, offset, instrument) slot, events in list order.
// Each instrument is resolved against its own series. Slots that cannot be resolved are
// returned as missing observations and reported as warnings; they never abort the run.
func (x *WindowExtractor) ExtractAll(
	ctx context.Context,
	events []models.EventDate,
	offsets []models.Offset,
	instruments []models.Instrument,
	series map[string]*models.PriceSeries,
) []models.Observation {
	defer TrackTime("WindowExtractor.ExtractAll", time.Now())

	observations := make([]models.Observation, 0, len(events)*len(offsets)*len(instruments))
	for _, event := range events {
		for _, off := range offsets {
			for _, inst := range instruments {
				obs := x.Resolve(series[inst.Symbol], event, off, inst)
				if obs.Missing {
					AddWarning(ctx, models.Warning{
						Code: models.WarnMissingObservation,
						Message: fmt.Sprintf("%s data unavailable for %s (%s) in %d; no trading day within %d days, leaving cell empty",
							inst.Prefix, off.Label, obs.TargetDate.Format(models.DateLayout), event.Year, x.toleranceDays),
					})
				}
				observations = append(observations, obs)
			}
		}
	}
	return observations
}

// FetchWindow returns the date range a loader must cover so that every slot can be resolved
func FetchWindow(events []models.EventDate, offsets []models.Offset, toleranceDays int) (time.Time, time.Time) {
	var start, end time.Time
	for _, e := range events {
		for _, off := range offsets {
			target := TargetDate(e, off)
			if start.IsZero() || target.Before(start) {
				start = target
			}
			if last := target.AddDate(0, 0, toleranceDays); end.IsZero() || last.After(end) {
				end = last
			}
		}
	}
	return start, end
}
