package services

import (
	"math"

	"github.com/epeers/election-windows/internal/models"
	"gonum.org/v1/gonum/stat"
)

// minCorrelationPairs is the fewest paired rows a correlation is computed from
const minCorrelationPairs = 3

// ComputeStats derives the comparative statistics from a finished ResultTable.
// Missing cells are skipped everywhere; a figure with no inputs is an invalid cell.
func ComputeStats(table *models.ResultTable, offsets []models.Offset, instruments []models.Instrument, volatility models.Instrument) *models.Statistics {
	st := &models.Statistics{Volatility: volatility}

	for i, col := range table.Columns {
		vals := validValues(table.Column(i))
		cm := models.ColumnMean{Column: col, N: len(vals)}
		if len(vals) > 0 {
			cm.Mean = models.Cell{Value: stat.Mean(vals, nil), Valid: true}
		}
		st.ColumnMeans = append(st.ColumnMeans, cm)
	}

	near := offsetPair(offsets, -1, 1)
	wide := offsetPair(offsets, -2, 2)
	for _, row := range table.Rows {
		for _, inst := range instruments {
			st.Changes = append(st.Changes, models.EventChange{
				Year:       row.Event.Year,
				Instrument: inst,
				Near:       pctChange(table, row, inst, near),
				Wide:       pctChange(table, row, inst, wide),
			})
		}
	}

	var preMeans, postMeans []float64
	for _, row := range table.Rows {
		var pre, post []float64
		for _, off := range offsets {
			idx := table.ColumnIndex(models.ColumnName(volatility, off))
			if idx < 0 || !row.Cells[idx].Valid {
				continue
			}
			if off.IsPre() {
				pre = append(pre, row.Cells[idx].Value)
			} else {
				post = append(post, row.Cells[idx].Value)
			}
		}
		pp := models.PrePost{Year: row.Event.Year, Pre: meanCell(pre), Post: meanCell(post)}
		if pp.Pre.Valid {
			preMeans = append(preMeans, pp.Pre.Value)
		}
		if pp.Post.Valid {
			postMeans = append(postMeans, pp.Post.Value)
		}
		st.VolPrePost = append(st.VolPrePost, pp)
	}
	st.VolPreMean = meanCell(preMeans)
	st.VolPostMean = meanCell(postMeans)

	st.Correlation = Correlation(table)
	return st
}

// Correlation computes Pearson coefficients between every pair of numeric columns
// over the rows where both cells are present
func Correlation(table *models.ResultTable) models.CorrelationMatrix {
	n := len(table.Columns)
	m := models.CorrelationMatrix{
		Labels: append([]string(nil), table.Columns...),
		Values: make([][]float64, n),
	}
	cols := make([][]models.Cell, n)
	for i := range cols {
		cols[i] = table.Column(i)
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var x, y []float64
			for r := range table.Rows {
				if cols[i][r].Valid && cols[j][r].Valid {
					x = append(x, cols[i][r].Value)
					y = append(y, cols[j][r].Value)
				}
			}
			c := math.NaN()
			if len(x) >= minCorrelationPairs {
				c = stat.Correlation(x, y, nil)
			}
			m.Values[i][j] = c
			m.Values[j][i] = c
		}
	}
	return m
}

func validValues(cells []models.Cell) []float64 {
	var out []float64
	for _, c := range cells {
		if c.Valid {
			out = append(out, c.Value)
		}
	}
	return out
}

func meanCell(vals []float64) models.Cell {
	if len(vals) == 0 {
		return models.Cell{}
	}
	return models.Cell{Value: stat.Mean(vals, nil), Valid: true}
}

type pair struct {
	from, to models.Offset
	ok       bool
}

// offsetPair finds the offsets with the given month deltas; ok is false if either is absent
func offsetPair(offsets []models.Offset, fromMonths, toMonths int) pair {
	var p pair
	var haveFrom, haveTo bool
	for _, off := range offsets {
		switch off.Months {
		case fromMonths:
			p.from, haveFrom = off, true
		case toMonths:
			p.to, haveTo = off, true
		}
	}
	p.ok = haveFrom && haveTo
	return p
}

func pctChange(table *models.ResultTable, row models.ResultRow, inst models.Instrument, p pair) models.Cell {
	if !p.ok {
		return models.Cell{}
	}
	fi := table.ColumnIndex(models.ColumnName(inst, p.from))
	ti := table.ColumnIndex(models.ColumnName(inst, p.to))
	if fi < 0 || ti < 0 {
		return models.Cell{}
	}
	from, to := row.Cells[fi], row.Cells[ti]
	if !from.Valid || !to.Valid || from.Value == 0 {
		return models.Cell{}
	}
	return models.Cell{Value: (to.Value - from.Value) / from.Value * 100, Valid: true}
}
