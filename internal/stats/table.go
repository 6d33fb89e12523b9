package stats

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// columns builds a borderless table for terminal views. rightCols are
// zero-based indexes of numeric columns.
func columns(header []string, rightCols ...int) table.Writer {
	tw := table.NewWriter()
	style := table.StyleLight
	style.Options = table.OptionsNoBordersAndSeparators
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	row := make(table.Row, len(header))
	for i, h := range header {
		row[i] = h
	}
	tw.AppendHeader(row)

	configs := make([]table.ColumnConfig, 0, len(rightCols))
	for _, c := range rightCols {
		configs = append(configs, table.ColumnConfig{Number: c + 1, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

func appendCells(tw table.Writer, cells []string) {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	tw.AppendRow(row)
}

func writeTable(w io.Writer, tw table.Writer) error {
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// numericCols lists columns from..to inclusive.
func numericCols(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
