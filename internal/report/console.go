package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/epeers/election-windows/internal/models"
)

// PrintSummary writes the table and the headline statistics as aligned text
func PrintSummary(out io.Writer, result *models.StudyResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, strings.Join(TableHeader(result.Table), "\t")+"\t")
	for _, row := range result.Table.Rows {
		fields := []string{strconv.Itoa(row.Event.Year), row.Event.Date.Format(models.DateLayout)}
		for _, c := range row.Cells {
			fields = append(fields, displayCell(c, 2))
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	st := result.Stats
	if st == nil {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s mean before elections: %s, after: %s\n",
		st.Volatility.Prefix, displayCell(st.VolPreMean, 2), displayCell(st.VolPostMean, 2))

	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "year\tinstrument\t-1mo→+1mo %\t-2mo→+2mo %\t")
	for _, c := range st.Changes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", c.Year, c.Instrument.Prefix, displayCell(c.Near, 2), displayCell(c.Wide, 2))
	}
	return tw.Flush()
}

func displayCell(c models.Cell, prec int) string {
	if !c.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(c.Value, 'f', prec, 64)
}
