package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
)

// PlainFormatter pads every column to its widest cell and separates columns with " | ". Trailing blanks are cut.
//
//	c1 | c3 | c3 + 1
//	a  | 2  | 3
type PlainFormatter struct {
	writer io.Writer
}

func NewPlainFormatter(w io.Writer) *PlainFormatter {
	return &PlainFormatter{writer: w}
}

func (f *PlainFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

func (f *PlainFormatter) Format(rec arrow.Record) error {
	lines := [][]string{headers(rec)}
	for i := 0; i < int(rec.NumRows()); i++ {
		row, err := cells(rec, i, "NULL")
		if err != nil {
			return err
		}
		lines = append(lines, row)
	}
	widths := make([]int, rec.NumCols())
	for _, line := range lines {
		for c, cell := range line {
			widths[c] = max(widths[c], len(cell))
		}
	}
	w := bufio.NewWriter(f.writer)
	for _, line := range lines {
		var buf strings.Builder
		for c, cell := range line {
			if c > 0 {
				buf.WriteString(" | ")
			}
			buf.WriteString(cell)
			buf.WriteString(strings.Repeat(" ", widths[c]-len(cell)))
		}
		w.WriteString(strings.TrimRight(buf.String(), " "))
		w.WriteByte('\n')
	}
	return w.Flush()
}
