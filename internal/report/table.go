package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/epeers/election-windows/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	statsSheet   = "Statistics"
)

// formatCell renders a table value; missing cells are the empty string
func formatCell(c models.Cell) string {
	if !c.Valid || math.IsNaN(c.Value) {
		return ""
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// TableHeader returns the header row: event columns first, then the numeric columns
func TableHeader(table *models.ResultTable) []string {
	return append([]string{"year", "election_date"}, table.Columns...)
}

// EncodeCSV writes the ResultTable as delimited text, one row per event
func EncodeCSV(w io.Writer, table *models.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader(table)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, 0, 2+len(row.Cells))
		record = append(record, strconv.Itoa(row.Event.Year), row.Event.Date.Format(models.DateLayout))
		for _, c := range row.Cells {
			record = append(record, formatCell(c))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %d: %w", row.Event.Year, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV replaces the file at path with the encoded table.
// The table is written to a temporary sibling first so a failed write never leaves a partial file.
func WriteCSV(path string, table *models.ResultTable) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if err := EncodeCSV(f, table); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// WriteWorkbook saves the table and its statistics as an Excel workbook
func WriteWorkbook(path string, result *models.StudyResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeResultsSheet(f, result.Table); err != nil {
		return err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if result.Stats != nil {
		if err := writeStatsSheet(f, result.Stats); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// sheetWriter writes cells row by row and remembers the first error
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) set(col int, value any) {
	if w.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.sheet, name, value); err != nil {
		w.err = fmt.Errorf("failed to set %s!%s: %w", w.sheet, name, err)
	}
}

// setCell writes a numeric cell, leaving missing values blank
func (w *sheetWriter) setCell(col int, c models.Cell) {
	if c.Valid && !math.IsNaN(c.Value) {
		w.set(col, c.Value)
	}
}

func (w *sheetWriter) line(values ...any) {
	for i, v := range values {
		if c, ok := v.(models.Cell); ok {
			w.setCell(i+1, c)
			continue
		}
		w.set(i+1, v)
	}
	w.row++
}

func writeResultsSheet(f *excelize.File, table *models.ResultTable) error {
	w := &sheetWriter{f: f, sheet: resultsSheet, row: 1}
	header := TableHeader(table)
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	w.line(values...)

	for _, row := range table.Rows {
		values := []any{row.Event.Year, row.Event.Date.Format(models.DateLayout)}
		for _, c := range row.Cells {
			values = append(values, c)
		}
		w.line(values...)
	}
	return w.err
}

func writeStatsSheet(f *excelize.File, st *models.Statistics) error {
	w := &sheetWriter{f: f, sheet: statsSheet, row: 1}

	w.line("Column means")
	w.line("column", "mean", "events")
	for _, m := range st.ColumnMeans {
		w.line(m.Column, m.Mean, m.N)
	}
	w.row++

	w.line("Percent change across the election")
	w.line("year", "instrument", "-1mo to +1mo", "-2mo to +2mo")
	for _, c := range st.Changes {
		w.line(c.Year, c.Instrument.Prefix, c.Near, c.Wide)
	}
	w.row++

	w.line(st.Volatility.Prefix + " before vs after")
	w.line("year", "pre", "post")
	for _, pp := range st.VolPrePost {
		w.line(pp.Year, pp.Pre, pp.Post)
	}
	w.line("mean", st.VolPreMean, st.VolPostMean)
	w.row++

	w.line("Correlation")
	header := []any{""}
	for _, l := range st.Correlation.Labels {
		header = append(header, l)
	}
	w.line(header...)
	for i, l := range st.Correlation.Labels {
		values := []any{l}
		for _, v := range st.Correlation.Values[i] {
			values = append(values, models.Cell{Value: v, Valid: !math.IsNaN(v)})
		}
		w.line(values...)
	}
	return w.err
}
