package datasource

import (
	"context"
	"io"
	"os"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"github.com/xiaobogaga/miniquery/datatypes"
	"github.com/xiaobogaga/miniquery/util"
)

var parquetLog = util.GetLog("parquet")

// ParquetDataSource reads a parquet file of flat primitive columns.
type ParquetDataSource struct {
	path   string
	schema *arrow.Schema
	mem    memory.Allocator
}

func NewParquetDataSource(path string) (*ParquetDataSource, error) {
	f, pqFile, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schema, err := arrowSchema(pqFile.Schema())
	if err != nil {
		return nil, errors.Wrapf(err, "schema of %s", path)
	}
	return &ParquetDataSource{path: path, schema: schema, mem: memory.DefaultAllocator}, nil
}

func openParquet(path string) (*os.File, *parquet.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrapf(err, "stat %s", path)
	}
	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrapf(err, "open parquet file %s", path)
	}
	return f, pqFile, nil
}

func arrowSchema(schema *parquet.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(schema.Fields()))
	for _, field := range schema.Fields() {
		if !field.Leaf() {
			return nil, datatypes.NotImplementedErrorf("nested parquet column %s", field.Name())
		}
		var dt arrow.DataType
		switch field.Type().Kind() {
		case parquet.Boolean:
			dt = arrow.FixedWidthTypes.Boolean
		case parquet.Int32:
			dt = arrow.PrimitiveTypes.Int32
		case parquet.Int64:
			dt = arrow.PrimitiveTypes.Int64
		case parquet.Float:
			dt = arrow.PrimitiveTypes.Float32
		case parquet.Double:
			dt = arrow.PrimitiveTypes.Float64
		case parquet.ByteArray:
			dt = arrow.BinaryTypes.String
		default:
			return nil, datatypes.NotImplementedErrorf("parquet column %s of kind %v", field.Name(), field.Type().Kind())
		}
		fields = append(fields, arrow.Field{Name: field.Name(), Type: dt, Nullable: field.Optional()})
	}
	return arrow.NewSchema(fields, nil), nil
}

func (src *ParquetDataSource) Schema() *arrow.Schema {
	return src.schema
}

func (src *ParquetDataSource) Scan(ctx context.Context, projection []string) (arrow.Record, error) {
	if projection != nil {
		if _, err := datatypes.ProjectSchema(src.schema, projection); err != nil {
			return nil, err
		}
	}
	f, pqFile, err := openParquet(src.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	builders := make([]array.Builder, len(src.schema.Fields()))
	for i, field := range src.schema.Fields() {
		builders[i] = array.NewBuilder(src.mem, field.Type)
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()
	var rows int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read row %d of %s", rows, src.path)
		}
		for i, field := range src.schema.Fields() {
			if err := appendValue(builders[i], row[field.Name]); err != nil {
				return nil, errors.Wrapf(err, "column %s", field.Name)
			}
		}
		rows++
	}

	cols := make([]arrow.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	rec := array.NewRecord(src.schema, cols, rows)
	for _, col := range cols {
		col.Release()
	}
	defer rec.Release()
	parquetLog.DebugF("read %d rows from %s", rows, src.path)
	return projectRecord(rec, projection)
}

func appendValue(b array.Builder, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch b := b.(type) {
	case *array.BooleanBuilder:
		if x, ok := v.(bool); ok {
			b.Append(x)
			return nil
		}
	case *array.Int32Builder:
		if x, ok := toInt64(v); ok {
			b.Append(int32(x))
			return nil
		}
	case *array.Int64Builder:
		if x, ok := toInt64(v); ok {
			b.Append(x)
			return nil
		}
	case *array.Float32Builder:
		if x, ok := toFloat64(v); ok {
			b.Append(float32(x))
			return nil
		}
	case *array.Float64Builder:
		if x, ok := toFloat64(v); ok {
			b.Append(x)
			return nil
		}
	case *array.StringBuilder:
		switch x := v.(type) {
		case string:
			b.Append(x)
			return nil
		case []byte:
			b.Append(string(x))
			return nil
		}
	}
	return datatypes.TypeMismatchErrorf("cannot store %T in %T", v, b)
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
