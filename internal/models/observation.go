package models

import "time"

// Observation is the resolved value for one (event, offset, instrument) slot.
// When Missing is set, ResolvedDate is zero and Price must not be read.
type Observation struct {
	Event        EventDate
	Offset       Offset
	Instrument   Instrument
	TargetDate   time.Time
	ResolvedDate time.Time
	Price        float64
	Missing      bool
}

// Cell is an optional numeric table value. Valid=false renders as an empty cell.
type Cell struct {
	Value float64
	Valid bool
}

// ResultRow is one EventDate with a cell for every column of its table
type ResultRow struct {
	Event EventDate
	Cells []Cell
}

// ResultTable holds one row per EventDate and one column per (offset × instrument)
type ResultTable struct {
	Columns []string
	Rows    []ResultRow
}

// Column returns the values of a numeric column in row order
func (t *ResultTable) Column(idx int) []Cell {
	out := make([]Cell, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Cells[idx]
	}
	return out
}

// ColumnIndex returns the index of a named numeric column, or -1
func (t *ResultTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// NewResultTable lays observations out one row per event, in event order.
// Columns run through the offsets chronologically, each offset listing every instrument.
// A slot with no observation, or a missing one, is an invalid cell; it is never zero-filled.
func NewResultTable(events []EventDate, offsets []Offset, instruments []Instrument, observations []Observation) *ResultTable {
	table := &ResultTable{}
	colIdx := make(map[string]int)
	for _, off := range offsets {
		for _, inst := range instruments {
			name := ColumnName(inst, off)
			colIdx[name] = len(table.Columns)
			table.Columns = append(table.Columns, name)
		}
	}

	type slot struct {
		date   time.Time
		column string
	}
	values := make(map[slot]float64, len(observations))
	for _, o := range observations {
		if o.Missing {
			continue
		}
		values[slot{DateOnly(o.Event.Date), ColumnName(o.Instrument, o.Offset)}] = o.Price
	}

	for _, e := range events {
		row := ResultRow{Event: e, Cells: make([]Cell, len(table.Columns))}
		for name, i := range colIdx {
			if v, ok := values[slot{DateOnly(e.Date), name}]; ok {
				row.Cells[i] = Cell{Value: v, Valid: true}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
