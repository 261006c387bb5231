package datasource

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/csv"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datatypes"
	"github.com/xiaobogaga/miniquery/util"
)

const defaultInferRows = 100

var csvLog = util.GetLog("csv")

// CsvReadOptions controls how a CSV file is read. A nil Schema is inferred from the first InferRows rows.
// Fields are quoted with '"'. LazyQuotes accepts a quote inside an unquoted field and a lone quote inside a
// quoted field.
type CsvReadOptions struct {
	HasHeader  bool
	Delimiter  rune
	LazyQuotes bool
	Schema     *arrow.Schema
	InferRows  int
}

func DefaultCsvReadOptions() CsvReadOptions {
	return CsvReadOptions{HasHeader: true, Delimiter: ',', InferRows: defaultInferRows}
}

// CsvDataSource reads a CSV file from disk on every scan.
type CsvDataSource struct {
	path    string
	options CsvReadOptions
	schema  *arrow.Schema
	mem     memory.Allocator
}

func NewCsvDataSource(path string, options CsvReadOptions) (*CsvDataSource, error) {
	if options.Delimiter == 0 {
		options.Delimiter = ','
	}
	if options.InferRows <= 0 {
		options.InferRows = defaultInferRows
	}
	schema := options.Schema
	if schema == nil {
		var err error
		schema, err = InferCsvSchema(path, options)
		if err != nil {
			return nil, err
		}
	}
	return &CsvDataSource{path: path, options: options, schema: schema, mem: memory.DefaultAllocator}, nil
}

func (src *CsvDataSource) Schema() *arrow.Schema {
	return src.schema
}

func (src *CsvDataSource) Scan(ctx context.Context, projection []string) (arrow.Record, error) {
	if projection != nil {
		if _, err := datatypes.ProjectSchema(src.schema, projection); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(src.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", src.path)
	}
	defer f.Close()
	var input io.Reader = f
	if src.options.LazyQuotes {
		if input, err = requote(f, src.options.Delimiter); err != nil {
			return nil, errors.Wrapf(err, "read %s", src.path)
		}
	}
	reader := csv.NewReader(input, src.schema,
		csv.WithAllocator(src.mem),
		csv.WithComma(src.options.Delimiter),
		csv.WithHeader(src.options.HasHeader),
		csv.WithNullReader(false, ""),
		csv.WithChunk(-1),
	)
	defer reader.Release()
	var chunks []arrow.Record
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		chunks = append(chunks, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", src.path)
	}
	rec, err := concatRecords(src.mem, src.schema, chunks)
	if err != nil {
		return nil, err
	}
	defer rec.Release()
	csvLog.DebugF("read %d rows from %s", rec.NumRows(), src.path)
	return projectRecord(rec, projection)
}

// concatRecords glues chunks that share schema into one record.
func concatRecords(mem memory.Allocator, schema *arrow.Schema, chunks []arrow.Record) (arrow.Record, error) {
	if len(chunks) == 1 {
		chunks[0].Retain()
		return chunks[0], nil
	}
	cols := make([]arrow.Array, len(schema.Fields()))
	var rows int64
	for _, chunk := range chunks {
		rows += chunk.NumRows()
	}
	for i, field := range schema.Fields() {
		if len(chunks) == 0 {
			b := array.NewBuilder(mem, field.Type)
			cols[i] = b.NewArray()
			b.Release()
			continue
		}
		parts := make([]arrow.Array, len(chunks))
		for j, chunk := range chunks {
			parts[j] = chunk.Column(i)
		}
		col, err := array.Concatenate(parts, mem)
		if err != nil {
			return nil, errors.Wrapf(err, "concatenate column %s", field.Name)
		}
		cols[i] = col
	}
	rec := array.NewRecord(schema, cols, rows)
	for _, col := range cols {
		col.Release()
	}
	return rec, nil
}

// InferCsvSchema samples the file and picks, per column, the narrowest of Int64, Float64, Boolean and Utf8 every
// non-empty sampled value parses as. Columns with no values in the sample are Utf8.
// requote parses r leniently and writes it back with strict quoting, since the arrow reader always parses strictly.
func requote(r io.Reader, comma rune) (io.Reader, error) {
	in := stdcsv.NewReader(r)
	in.Comma = comma
	in.LazyQuotes = true
	in.FieldsPerRecord = -1
	var buf bytes.Buffer
	out := stdcsv.NewWriter(&buf)
	out.Comma = comma
	for {
		record, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := out.Write(record); err != nil {
			return nil, err
		}
	}
	out.Flush()
	return &buf, out.Error()
}

func InferCsvSchema(path string, options CsvReadOptions) (*arrow.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	r := stdcsv.NewReader(f)
	r.Comma = options.Delimiter
	r.LazyQuotes = options.LazyQuotes
	r.ReuseRecord = true
	r.FieldsPerRecord = -1

	var names []string
	if options.HasHeader {
		header, err := r.Read()
		if err == io.EOF {
			return nil, errors.Newf("%s: missing header", path)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read header of %s", path)
		}
		names = append(names, header...)
	}
	var candidates []*columnCandidate
	for rows := 0; options.InferRows <= 0 || rows < options.InferRows; rows++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "infer schema of %s", path)
		}
		if names == nil {
			for i := range record {
				names = append(names, fmt.Sprintf("column_%d", i+1))
			}
		}
		for len(candidates) < len(names) {
			candidates = append(candidates, newColumnCandidate())
		}
		for i, value := range record {
			if i < len(candidates) {
				candidates[i].observe(value)
			}
		}
	}
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		dt := arrow.DataType(arrow.BinaryTypes.String)
		if i < len(candidates) {
			dt = candidates[i].dataType()
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

type columnCandidate struct {
	seen    bool
	isInt   bool
	isFloat bool
	isBool  bool
}

func newColumnCandidate() *columnCandidate {
	return &columnCandidate{isInt: true, isFloat: true, isBool: true}
}

func (c *columnCandidate) observe(value string) {
	if value == "" {
		return
	}
	c.seen = true
	if c.isInt {
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			c.isInt = false
		}
	}
	if c.isFloat {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			c.isFloat = false
		}
	}
	if c.isBool {
		switch value {
		case "true", "false", "True", "False":
		default:
			c.isBool = false
		}
	}
}

func (c *columnCandidate) dataType() arrow.DataType {
	switch {
	case !c.seen:
		return arrow.BinaryTypes.String
	case c.isInt:
		return arrow.PrimitiveTypes.Int64
	case c.isFloat:
		return arrow.PrimitiveTypes.Float64
	case c.isBool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}
