package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/election-windows/internal/models"
	log "github.com/sirupsen/logrus"
)

// StudyConfig is the fixed description of one study: which events, which window slots,
// which instruments. It is built once at startup and never mutated.
type StudyConfig struct {
	Events      []models.EventDate
	Offsets     []models.Offset
	Instruments []models.Instrument
	Volatility  models.Instrument
}

// DefaultStudyConfig returns the 2000-2020 election study on SPY and ^VIX
func DefaultStudyConfig() StudyConfig {
	instruments := models.DefaultInstruments()
	return StudyConfig{
		Events:      models.ElectionDates(),
		Offsets:     models.WindowOffsets(),
		Instruments: instruments,
		Volatility:  instruments[1],
	}
}

// StudyService runs the load and extract stages and assembles the result
type StudyService struct {
	cfg       StudyConfig
	loader    *SeriesLoader
	extractor *WindowExtractor
}

// NewStudyService creates a new StudyService
func NewStudyService(cfg StudyConfig, loader *SeriesLoader, extractor *WindowExtractor) *StudyService {
	return &StudyService{
		cfg:       cfg,
		loader:    loader,
		extractor: extractor,
	}
}

// Run loads every instrument, then extracts and tabulates the observations.
// Any instrument that cannot be loaded fails the run before anything is extracted.
func (s *StudyService) Run(ctx context.Context) (*models.StudyResult, error) {
	defer TrackTime("StudyService.Run", time.Now())

	if len(s.cfg.Events) == 0 || len(s.cfg.Offsets) == 0 || len(s.cfg.Instruments) == 0 {
		return nil, fmt.Errorf("study needs at least one event, offset and instrument")
	}

	start, end := FetchWindow(s.cfg.Events, s.cfg.Offsets, s.extractor.ToleranceDays())
	log.Infof("Fetching %d instruments from %s to %s",
		len(s.cfg.Instruments), start.Format(models.DateLayout), end.Format(models.DateLayout))

	series := make(map[string]*models.PriceSeries, len(s.cfg.Instruments))
	for _, inst := range s.cfg.Instruments {
		ps, err := s.loader.Load(ctx, inst.Symbol, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", inst.Symbol, err)
		}
		series[inst.Symbol] = ps
	}

	observations := s.extractor.ExtractAll(ctx, s.cfg.Events, s.cfg.Offsets, s.cfg.Instruments, series)
	table := models.NewResultTable(s.cfg.Events, s.cfg.Offsets, s.cfg.Instruments, observations)
	stats := ComputeStats(table, s.cfg.Offsets, s.cfg.Instruments, s.cfg.Volatility)

	missing := 0
	for _, o := range observations {
		if o.Missing {
			missing++
		}
	}
	log.Infof("Resolved %d of %d observations", len(observations)-missing, len(observations))

	return &models.StudyResult{
		Events:       s.cfg.Events,
		Offsets:      s.cfg.Offsets,
		Instruments:  s.cfg.Instruments,
		Observations: observations,
		Table:        table,
		Stats:        stats,
	}, nil
}
