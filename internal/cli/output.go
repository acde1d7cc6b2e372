package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

// resultColumns are the columns of the results table, in display order.
var resultColumns = []string{"ID", "UNIVERSITY", "CITY", "COUNTRY", "LEVEL", "STUDY", "FEES (EUR)"}

const (
	columnPadding = 2
	minCellWidth  = 6
)

// writeResults prints records as an aligned table. When width is positive
// every cell is truncated so a row fits in width columns.
func writeResults(w io.Writer, records []core.Record, width int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No programs match the current filters.")
		return
	}

	maxCell := cellWidth(width, len(resultColumns))
	tw := tabwriter.NewWriter(w, 0, 0, columnPadding, ' ', 0)
	writeRow(tw, resultColumns, maxCell)
	for _, r := range records {
		writeRow(tw, []string{
			strconv.Itoa(r.ID),
			r.University,
			r.City,
			r.Country,
			r.Level,
			r.Study,
			core.FormatAmount(r.FeesStd),
		}, maxCell)
	}
	tw.Flush()
}

// cellWidth returns the widest a cell may be for n columns to fit in width,
// or 0 for no limit.
func cellWidth(width, n int) int {
	if width <= 0 || n == 0 {
		return 0
	}
	w := width/n - columnPadding
	if w < minCellWidth {
		w = minCellWidth
	}
	return w
}

func writeRow(w io.Writer, cells []string, maxCell int) {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = truncate(c, maxCell)
	}
	fmt.Fprintln(w, strings.Join(out, "\t"))
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func writeDetail(w io.Writer, lines []core.DetailLine) {
	tw := tabwriter.NewWriter(w, 0, 0, columnPadding, ' ', 0)
	for _, l := range lines {
		value := l.Value
		if l.Link != "" {
			value += " <" + l.Link + ">"
		}
		fmt.Fprintf(tw, "%s:\t%s\n", l.Label, value)
	}
	tw.Flush()
}

func writeOptionList(w io.Writer, title string, values []string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
}
