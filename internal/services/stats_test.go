package services

import (
	"math"
	"testing"

	"github.com/epeers/election-windows/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(v float64) models.Cell {
	return models.Cell{Value: v, Valid: true}
}

// statsTable builds a two-instrument table over the four standard offsets
func statsTable(rows [][]models.Cell) *models.ResultTable {
	offsets := models.WindowOffsets()
	table := &models.ResultTable{}
	for _, off := range offsets {
		for _, inst := range []models.Instrument{spy, vix} {
			table.Columns = append(table.Columns, models.ColumnName(inst, off))
		}
	}
	for i, cells := range rows {
		table.Rows = append(table.Rows, models.ResultRow{
			Event: models.EventDate{Year: 2000 + 4*i, Date: day(2000+4*i, 11, 1)},
			Cells: cells,
		})
	}
	return table
}

func TestComputeStats(t *testing.T) {
	// Column order: SPY-2, VIX-2, SPY-1, VIX-1, SPY+1, VIX+1, SPY+2, VIX+2
	table := statsTable([][]models.Cell{
		{cell(100), cell(20), cell(110), cell(22), cell(121), cell(18), cell(120), cell(16)},
		{cell(200), cell(30), cell(200), cell(34), cell(190), {}, cell(210), cell(26)},
		{cell(300), {}, cell(280), {}, {}, {}, cell(330), {}},
	})

	st := ComputeStats(table, models.WindowOffsets(), []models.Instrument{spy, vix}, vix)

	require.Len(t, st.ColumnMeans, 8)
	assert.Equal(t, "SPY_2_months_before", st.ColumnMeans[0].Column)
	assert.InDelta(t, 200, st.ColumnMeans[0].Mean.Value, 1e-9)
	assert.Equal(t, 2, st.ColumnMeans[1].N)
	assert.InDelta(t, 25, st.ColumnMeans[1].Mean.Value, 1e-9)
	assert.Equal(t, 1, st.ColumnMeans[5].N)
	assert.InDelta(t, 18, st.ColumnMeans[5].Mean.Value, 1e-9)

	require.Len(t, st.Changes, 6)
	spy2000 := st.Changes[0]
	assert.Equal(t, 2000, spy2000.Year)
	assert.Equal(t, spy, spy2000.Instrument)
	assert.InDelta(t, 10, spy2000.Near.Value, 1e-9)
	assert.InDelta(t, 20, spy2000.Wide.Value, 1e-9)
	assert.False(t, st.Changes[3].Near.Valid, "2004 VIX +1mo is missing")
	assert.False(t, st.Changes[4].Near.Valid, "2008 SPY +1mo is missing")
	assert.InDelta(t, 10, st.Changes[4].Wide.Value, 1e-9)

	require.Len(t, st.VolPrePost, 3)
	assert.InDelta(t, 21, st.VolPrePost[0].Pre.Value, 1e-9)
	assert.InDelta(t, 17, st.VolPrePost[0].Post.Value, 1e-9)
	assert.InDelta(t, 32, st.VolPrePost[1].Pre.Value, 1e-9)
	assert.InDelta(t, 26, st.VolPrePost[1].Post.Value, 1e-9)
	assert.False(t, st.VolPrePost[2].Pre.Valid)
	assert.False(t, st.VolPrePost[2].Post.Valid)
	assert.InDelta(t, 26.5, st.VolPreMean.Value, 1e-9)
	assert.InDelta(t, 21.5, st.VolPostMean.Value, 1e-9)
}

func TestCorrelation(t *testing.T) {
	table := statsTable([][]models.Cell{
		{cell(1), cell(10), cell(5), cell(7), cell(1), {}, cell(3), cell(3)},
		{cell(2), cell(8), cell(5), cell(7), cell(2), {}, cell(3), cell(1)},
		{cell(3), cell(6), cell(5), cell(7), {}, {}, cell(3), cell(2)},
		{cell(4), cell(4), cell(5), cell(7), {}, cell(1), cell(3), cell(4)},
	})

	m := Correlation(table)
	require.Len(t, m.Values, 8)
	assert.Equal(t, table.Columns, m.Labels)

	assert.InDelta(t, 1, m.Values[0][0], 1e-9)
	assert.InDelta(t, -1, m.Values[0][1], 1e-9, "perfectly inverse columns")
	assert.Equal(t, m.Values[0][1], m.Values[1][0], "matrix is symmetric")
	assert.True(t, math.IsNaN(m.Values[0][2]), "constant column has no correlation")
	assert.True(t, math.IsNaN(m.Values[0][4]), "two paired rows are not enough")
	assert.True(t, math.IsNaN(m.Values[5][5]), "single value column")
	assert.False(t, math.IsNaN(m.Values[0][7]))
}
