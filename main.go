package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/epeers/election-windows/config"
	"github.com/epeers/election-windows/internal/alphavantage"
	"github.com/epeers/election-windows/internal/cache"
	"github.com/epeers/election-windows/internal/report"
	"github.com/epeers/election-windows/internal/services"
	"github.com/epeers/election-windows/internal/sources"
	log "github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		return 1
	}
	log.SetLevel(cfg.LogLevel)

	// Cancel outstanding fetches on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, wc := services.NewWarningContext(ctx)

	chain, err := buildSources(cfg)
	if err != nil {
		log.Errorf("Failed to configure price sources: %v", err)
		return 1
	}

	// Initialize services
	loader := services.NewSeriesLoader(cache.NewSeriesCache(), chain...)
	extractor := services.NewWindowExtractor(cfg.GapToleranceDays)
	study := services.NewStudyService(services.DefaultStudyConfig(), loader, extractor)
	reporter := report.NewReporter(cfg.OutputDir, os.Stdout)

	result, err := study.Run(ctx)
	if err != nil {
		var unavailable *services.DataUnavailableError
		if errors.As(err, &unavailable) {
			log.Errorf("No price data for %s; nothing was written: %v", unavailable.Symbol, err)
		} else {
			log.Errorf("Study failed: %v", err)
		}
		return 1
	}

	exit := 0
	if err := reporter.WriteAll(ctx, result); err != nil {
		log.Errorf("Failed to write artifacts: %v", err)
		exit = 1
	}

	warnings := wc.GetWarnings()
	if len(warnings) > 0 {
		counts := make(map[string]int)
		for _, w := range warnings {
			counts[string(w.Code)]++
		}
		log.WithField("by_code", counts).Infof("Run finished with %d warnings", len(warnings))
	} else {
		log.Info("Run finished")
	}
	return exit
}

// buildSources turns the configured names into the ordered fallback chain
func buildSources(cfg *config.Config) ([]services.PriceSource, error) {
	chain := make([]services.PriceSource, 0, len(cfg.Sources))
	for _, name := range cfg.Sources {
		switch name {
		case config.SourceYahoo:
			chain = append(chain, sources.NewYahooSource())
		case config.SourceChart:
			chain = append(chain, sources.NewChartSource())
		case config.SourceAlphaVantage:
			chain = append(chain, sources.NewAlphaVantageSource(alphavantage.NewClient(cfg.AVKey)))
		case config.SourceCSV:
			chain = append(chain, sources.NewCSVSource(cfg.SeriesDir))
		default:
			return nil, fmt.Errorf("unknown price source %q", name)
		}
	}
	return chain, nil
}
