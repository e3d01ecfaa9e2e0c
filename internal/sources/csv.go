package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/election-windows/internal/models"
)

// CSVSource reads previously exported series from <dir>/<symbol>.csv.
// Index markers are stripped from the file name, so ^VIX is read from VIX.csv.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source rooted at dir
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// Name identifies the source in logs and config
func (s *CSVSource) Name() string {
	return "csv"
}

// Path returns the file a symbol is read from
func (s *CSVSource) Path(symbol string) string {
	return filepath.Join(s.dir, models.NewInstrument(symbol).Prefix+".csv")
}

// DailyCloses parses the symbol's file; range trimming is left to the loader
func (s *CSVSource) DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer f.Close()

	return ParseSeriesCSV(f)
}

// ParseSeriesCSV parses a CSV file with date and close columns into price points.
// Column names are case-insensitive; "adj close" is accepted when "close" is absent.
// Rows with an empty close (provider gaps) are skipped.
func ParseSeriesCSV(r io.Reader) ([]models.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// Read header row
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Build column index map (case-insensitive, trimmed)
	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	dateCol, ok := colIdx["date"]
	if !ok {
		return nil, fmt.Errorf("missing required column: date")
	}
	closeCol, ok := colIdx["close"]
	if !ok {
		if closeCol, ok = colIdx["adj close"]; !ok {
			return nil, fmt.Errorf("missing required column: close")
		}
	}

	var points []models.PricePoint
	rowNum := 1 // header is row 1, data starts at row 2
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		date, err := models.ParseFlexibleDate(record[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		closeStr := strings.TrimSpace(record[closeCol])
		if closeStr == "" || strings.EqualFold(closeStr, "null") {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid close %q", rowNum, closeStr)
		}

		points = append(points, models.PricePoint{Date: date, Close: closePrice})
	}

	return points, nil
}
