package output

import (
	"encoding/csv"
	"io"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/cockroachdb/errors"
)

// CSVFormatter writes a header row and one record per row. Nulls are empty fields.
type CSVFormatter struct {
	writer io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

func (c *CSVFormatter) Format(rec arrow.Record) error {
	csvWriter := csv.NewWriter(c.writer)
	if err := csvWriter.Write(headers(rec)); err != nil {
		return err
	}
	for i := 0; i < int(rec.NumRows()); i++ {
		row, err := cells(rec, i, "")
		if err != nil {
			return err
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return errors.Wrap(err, "failed to flush CSV writer")
	}
	return nil
}
