package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter draws a bordered table and a row count footer.
type TableFormatter struct {
	writer io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

func (f *TableFormatter) Format(rec arrow.Record) error {
	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(headers(rec))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for i := 0; i < int(rec.NumRows()); i++ {
		row, err := cells(rec, i, "NULL")
		if err != nil {
			return err
		}
		table.Append(row)
	}
	table.Render()
	_, err := fmt.Fprintf(f.writer, "(%s %s)\n", humanize.Comma(rec.NumRows()), plural(rec.NumRows(), "row", "rows"))
	return err
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
