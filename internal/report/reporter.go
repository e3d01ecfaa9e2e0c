package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/epeers/election-windows/internal/models"
	"github.com/epeers/election-windows/internal/services"
	log "github.com/sirupsen/logrus"
)

// Artifact file names, relative to the output directory
const (
	TableFile       = "election_price_movements.csv"
	WorkbookFile    = "election_price_movements.xlsx"
	TrendChartFile  = "election_window_trends.png"
	VolChartFile    = "vix_pre_post.png"
	HeatmapFile     = "correlation_heatmap.png"
	artifactDirPerm = 0o755
)

// Reporter writes every artifact of a finished study
type Reporter struct {
	outputDir string
	out       io.Writer
}

// NewReporter creates a Reporter writing files under outputDir and the summary to out.
// A nil out suppresses the console summary.
func NewReporter(outputDir string, out io.Writer) *Reporter {
	return &Reporter{outputDir: outputDir, out: out}
}

// Path returns where the named artifact is written
func (r *Reporter) Path(name string) string {
	return filepath.Join(r.outputDir, name)
}

// WriteAll writes the table first; failing that is returned immediately.
// The workbook, summary and charts are independent: each failure is recorded as a
// warning and the rest still run. The joined chart errors are returned at the end.
func (r *Reporter) WriteAll(ctx context.Context, result *models.StudyResult) error {
	defer services.TrackTime("Reporter.WriteAll", time.Now())

	if result == nil || result.Table == nil {
		return fmt.Errorf("no result table to write")
	}
	if err := os.MkdirAll(r.outputDir, artifactDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := WriteCSV(r.Path(TableFile), result.Table); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	log.Infof("Wrote %s", r.Path(TableFile))

	if err := WriteWorkbook(r.Path(WorkbookFile), result); err != nil {
		log.Errorf("Failed to write workbook: %v", err)
	} else {
		log.Infof("Wrote %s", r.Path(WorkbookFile))
	}

	if r.out != nil {
		if err := PrintSummary(r.out, result); err != nil {
			log.Errorf("Failed to print summary: %v", err)
		}
	}

	charts := []struct {
		name string
		save func(path string) error
	}{
		{TrendChartFile, func(path string) error { return SaveTrendChart(ctx, path, result) }},
		{VolChartFile, func(path string) error { return SaveVolatilityChart(ctx, path, result) }},
		{HeatmapFile, func(path string) error { return SaveCorrelationHeatmap(path, result, shortLabels(result)) }},
	}

	var errs []error
	for _, c := range charts {
		path := r.Path(c.name)
		if err := c.save(path); err != nil {
			services.AddWarning(ctx, models.Warning{
				Code:    models.WarnChartFailed,
				Message: fmt.Sprintf("failed to render %s: %v", c.name, err),
			})
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		log.Infof("Wrote %s", path)
	}
	return errors.Join(errs...)
}
