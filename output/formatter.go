// Package output renders query results.
//
// Supported formats:
//   - table: a bordered table followed by a row count
//   - plain: columns padded and separated by " | "
//   - csv: a header row followed by one line per row
//   - json: JSON Lines, one object per row with keys in column order
package output

import (
	"io"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// Formatter writes a record batch to its output.
type Formatter interface {
	Format(rec arrow.Record) error
	SetOutput(w io.Writer)
}

// Formats lists the names New accepts.
var Formats = []string{"table", "plain", "csv", "json"}

func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case "table":
		return NewTableFormatter(w), nil
	case "plain":
		return NewPlainFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	}
	return nil, errors.Newf("unknown output format %q, expected one of %s", format, strings.Join(Formats, ", "))
}

func headers(rec arrow.Record) []string {
	names := make([]string, rec.NumCols())
	for i := range names {
		names[i] = rec.ColumnName(i)
	}
	return names
}

// cells renders row i of rec, using null for missing values.
func cells(rec arrow.Record, i int, null string) ([]string, error) {
	row := make([]string, rec.NumCols())
	for c, col := range rec.Columns() {
		v, err := datatypes.ScalarFromArray(col, i)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", rec.ColumnName(c))
		}
		if v.IsNull() {
			row[c] = null
		} else {
			row[c] = v.String()
		}
	}
	return row, nil
}
