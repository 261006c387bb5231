package output

import (
	"bufio"
	"encoding/json"
	"io"
	"math"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// JSONFormatter writes JSON Lines. Keys keep the column order of the batch.
type JSONFormatter struct {
	writer io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

func (j *JSONFormatter) Format(rec arrow.Record) error {
	w := bufio.NewWriter(j.writer)
	names := headers(rec)
	for i := 0; i < int(rec.NumRows()); i++ {
		w.WriteByte('{')
		for c, col := range rec.Columns() {
			if c > 0 {
				w.WriteByte(',')
			}
			key, err := json.Marshal(names[c])
			if err != nil {
				return err
			}
			w.Write(key)
			w.WriteByte(':')
			v, err := datatypes.ScalarFromArray(col, i)
			if err != nil {
				return err
			}
			value, err := json.Marshal(jsonValue(v))
			if err != nil {
				return err
			}
			w.Write(value)
		}
		w.WriteString("}\n")
	}
	return w.Flush()
}

func jsonValue(v datatypes.ScalarValue) interface{} {
	switch {
	case v.IsNull():
		return nil
	case v.Kind() == arrow.BOOL:
		return v.Bool()
	case v.Kind() == arrow.STRING:
		return v.Str()
	case datatypes.IsSigned(v.Kind()):
		return v.Int64()
	case datatypes.IsUnsigned(v.Kind()):
		return v.Uint64()
	case datatypes.IsFloat(v.Kind()):
		if f := v.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
			return v.String()
		}
		if v.Kind() == arrow.FLOAT32 {
			return float32(v.Float64())
		}
		return v.Float64()
	}
	return v.String()
}
