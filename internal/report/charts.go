package report

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/epeers/election-windows/internal/models"
	"github.com/epeers/election-windows/internal/services"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

// SaveTrendChart plots, per instrument, the mean across events of the window values
// indexed to 100 at each event's first available offset
func SaveTrendChart(ctx context.Context, path string, result *models.StudyResult) error {
	p := plot.New()
	p.Title.Text = "Price around U.S. presidential elections (indexed, first window = 100)"
	p.X.Label.Text = "Months from election"
	p.Y.Label.Text = "Indexed value"
	p.Legend.Top = true

	ticks := make([]plot.Tick, 0, len(result.Offsets))
	for _, off := range result.Offsets {
		ticks = append(ticks, plot.Tick{Value: float64(off.Months), Label: off.Short()})
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	lines := 0
	for i, inst := range result.Instruments {
		xys := indexedMeans(result, inst)
		if len(xys) == 0 {
			services.AddWarning(ctx, models.Warning{
				Code:    models.WarnChartSeriesSkipped,
				Message: fmt.Sprintf("%s has no usable window values; left out of the trend chart", inst.Prefix),
			})
			continue
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("failed to build %s line: %w", inst.Prefix, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)

		p.Add(line, points)
		p.Legend.Add(inst.Prefix, line, points)
		lines++
	}
	if lines == 0 {
		return fmt.Errorf("no data to plot")
	}
	p.Add(plotter.NewGrid())

	return p.Save(chartWidth, chartHeight, path)
}

func indexedMeans(result *models.StudyResult, inst models.Instrument) plotter.XYs {
	table := result.Table
	cols := make([]int, len(result.Offsets))
	for i, off := range result.Offsets {
		cols[i] = table.ColumnIndex(models.ColumnName(inst, off))
	}

	sums := make([][]float64, len(result.Offsets))
	for _, row := range table.Rows {
		base := 0.0
		for _, ci := range cols {
			if ci >= 0 && row.Cells[ci].Valid {
				base = row.Cells[ci].Value
				break
			}
		}
		if base == 0 {
			continue
		}
		for i, ci := range cols {
			if ci >= 0 && row.Cells[ci].Valid {
				sums[i] = append(sums[i], row.Cells[ci].Value/base*100)
			}
		}
	}

	var xys plotter.XYs
	for i, off := range result.Offsets {
		if len(sums[i]) == 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(off.Months), Y: stat.Mean(sums[i], nil)})
	}
	return xys
}

// SaveVolatilityChart draws grouped bars of the volatility index's mean level before and
// after each election. Elections lacking either side are left out.
func SaveVolatilityChart(ctx context.Context, path string, result *models.StudyResult) error {
	st := result.Stats
	if st == nil {
		return fmt.Errorf("no statistics computed")
	}

	var years []string
	var pre, post plotter.Values
	for _, pp := range st.VolPrePost {
		if !pp.Pre.Valid || !pp.Post.Valid {
			services.AddWarning(ctx, models.Warning{
				Code:    models.WarnChartSeriesSkipped,
				Message: fmt.Sprintf("%d lacks %s values on one side of the election; left out of the comparison chart", pp.Year, st.Volatility.Prefix),
			})
			continue
		}
		years = append(years, fmt.Sprint(pp.Year))
		pre = append(pre, pp.Pre.Value)
		post = append(post, pp.Post.Value)
	}
	if len(years) == 0 {
		return fmt.Errorf("no election has %s values on both sides", st.Volatility.Prefix)
	}

	p := plot.New()
	p.Title.Text = st.Volatility.Prefix + " before vs after U.S. presidential elections"
	p.Y.Label.Text = st.Volatility.Prefix + " (mean of window closes)"
	p.Legend.Top = true

	w := vg.Points(20)
	preBars, err := plotter.NewBarChart(pre, w)
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	preBars.Color = plotutil.Color(0)
	preBars.LineStyle.Width = vg.Length(0)
	preBars.Offset = -w / 2

	postBars, err := plotter.NewBarChart(post, w)
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	postBars.Color = plotutil.Color(1)
	postBars.LineStyle.Width = vg.Length(0)
	postBars.Offset = w / 2

	p.Add(preBars, postBars)
	p.Legend.Add("Before (-2mo, -1mo)", preBars)
	p.Legend.Add("After (+1mo, +2mo)", postBars)
	p.NominalX(years...)

	return p.Save(chartWidth, chartHeight, path)
}

// correlationGrid adapts a CorrelationMatrix to plotter.GridXYZ on a fixed [-1, 1] scale
type correlationGrid struct {
	m models.CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int)   { return len(g.m.Labels), len(g.m.Labels) }
func (g correlationGrid) Z(c, r int) float64 { return math.Max(-1, math.Min(1, g.m.Values[r][c])) }
func (g correlationGrid) X(c int) float64    { return float64(c) }
func (g correlationGrid) Y(r int) float64    { return float64(r) }
func (g correlationGrid) Min() float64       { return -1 }
func (g correlationGrid) Max() float64       { return 1 }

// SaveCorrelationHeatmap renders the correlation matrix; undefined cells are grey
func SaveCorrelationHeatmap(path string, result *models.StudyResult, labels []string) error {
	st := result.Stats
	if st == nil || len(st.Correlation.Labels) == 0 {
		return fmt.Errorf("no correlation matrix computed")
	}
	if len(labels) != len(st.Correlation.Labels) {
		labels = st.Correlation.Labels
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMax(1)
	cm.SetMin(-1)

	h := plotter.NewHeatMap(correlationGrid{m: st.Correlation}, cm.Palette(255))
	h.NaN = color.Gray{Y: 200}

	p := plot.New()
	p.Title.Text = "Correlation of window values across elections"
	p.Add(h)
	p.NominalX(labels...)
	p.NominalY(labels...)

	return p.Save(chartWidth, chartWidth, path)
}

// shortLabels names table columns compactly for chart axes, e.g. "VIX -1mo"
func shortLabels(result *models.StudyResult) []string {
	var labels []string
	for _, off := range result.Offsets {
		for _, inst := range result.Instruments {
			labels = append(labels, inst.Prefix+" "+off.Short())
		}
	}
	return labels
}
