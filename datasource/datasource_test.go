package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaobogaga/miniquery/datatypes"
)

func int64Column(values ...int64) arrow.Array {
	b := array.NewInt64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewArray()
}

func stringColumn(values ...string) arrow.Array {
	b := array.NewStringBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewArray()
}

func TestMemDataSource(t *testing.T) {
	schema := datatypes.NewSchema(
		arrow.Field{Name: "name", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "age", Type: arrow.PrimitiveTypes.Int64},
	)
	src, err := NewMemDataSource(schema, []arrow.Array{stringColumn("x", "y"), int64Column(30, 40)})
	require.NoError(t, err)
	defer src.Release()

	rec, err := src.Scan(context.Background(), nil)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(2), rec.NumRows())
	assert.True(t, rec.Schema().Equal(schema))

	rec, err = src.Scan(context.Background(), []string{"age"})
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(1), rec.NumCols())
	assert.Equal(t, "age", rec.ColumnName(0))
	assert.Equal(t, []int64{30, 40}, rec.Column(0).(*array.Int64).Int64Values())

	_, err = src.Scan(context.Background(), []string{"salary"})
	assert.True(t, errors.Is(err, datatypes.ErrUnknownColumn))
}

func TestMemDataSourceValidation(t *testing.T) {
	schema := datatypes.NewSchema(
		arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: "b", Type: arrow.PrimitiveTypes.Int64},
	)
	_, err := NewMemDataSource(schema, []arrow.Array{int64Column(1)})
	assert.Error(t, err)

	_, err = NewMemDataSource(schema, []arrow.Array{int64Column(1), int64Column(1, 2)})
	assert.Error(t, err)

	_, err = NewMemDataSource(schema, []arrow.Array{int64Column(1), stringColumn("x")})
	assert.True(t, errors.Is(err, datatypes.ErrTypeMismatch))
}

func TestMemDataSourceCancelled(t *testing.T) {
	src := NewMemDataSourceFromRecord(array.NewRecord(datatypes.NewSchema(), nil, 3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Scan(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCsvDataSource(t *testing.T) {
	src, err := NewCsvDataSource("testdata/simple.csv", DefaultCsvReadOptions())
	require.NoError(t, err)

	schema := src.Schema()
	require.Len(t, schema.Fields(), 3)
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(1).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(2).Type)

	rec, err := src.Scan(context.Background(), []string{"c3", "c1"})
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(6), rec.NumRows())
	assert.Equal(t, "c3", rec.ColumnName(0))
	assert.Equal(t, []int64{2, 3, 4, 5, 6, 7}, rec.Column(0).(*array.Int64).Int64Values())
	assert.Equal(t, "f", rec.Column(1).(*array.String).Value(5))

	_, err = src.Scan(context.Background(), []string{"c4"})
	assert.True(t, errors.Is(err, datatypes.ErrUnknownColumn))
}

func TestCsvSchemaInference(t *testing.T) {
	schema, err := InferCsvSchema("testdata/mixed.csv", DefaultCsvReadOptions())
	require.NoError(t, err)
	expected := []arrow.DataType{
		arrow.PrimitiveTypes.Int64,
		arrow.PrimitiveTypes.Float64,
		arrow.FixedWidthTypes.Boolean,
		arrow.BinaryTypes.String,
		arrow.BinaryTypes.String,
	}
	require.Len(t, schema.Fields(), len(expected))
	for i, dt := range expected {
		assert.Equal(t, dt, schema.Field(i).Type, schema.Field(i).Name)
	}

	src, err := NewCsvDataSource("testdata/mixed.csv", DefaultCsvReadOptions())
	require.NoError(t, err)
	rec, err := src.Scan(context.Background(), []string{"i"})
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, 1, rec.Column(0).NullN())
	assert.True(t, rec.Column(0).IsNull(2))
}

func TestCsvOptions(t *testing.T) {
	opts := DefaultCsvReadOptions()
	opts.Delimiter = '|'
	src, err := NewCsvDataSource("testdata/pipe.csv", opts)
	require.NoError(t, err)
	assert.Equal(t, "a", src.Schema().Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, src.Schema().Field(0).Type)

	opts.HasHeader = false
	src, err = NewCsvDataSource("testdata/pipe.csv", opts)
	require.NoError(t, err)
	assert.Equal(t, "column_1", src.Schema().Field(0).Name)
	assert.Equal(t, arrow.BinaryTypes.String, src.Schema().Field(0).Type)
	rec, err := src.Scan(context.Background(), nil)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(3), rec.NumRows())

	_, err = NewCsvDataSource("testdata/missing.csv", DefaultCsvReadOptions())
	assert.Error(t, err)
}

func TestCsvLazyQuotes(t *testing.T) {
	_, err := NewCsvDataSource("testdata/bare_quote.csv", DefaultCsvReadOptions())
	assert.Error(t, err)

	opts := DefaultCsvReadOptions()
	opts.LazyQuotes = true
	src, err := NewCsvDataSource("testdata/bare_quote.csv", opts)
	require.NoError(t, err)
	rec, err := src.Scan(context.Background(), []string{"name"})
	require.NoError(t, err)
	defer rec.Release()
	names, ok := rec.Column(0).(*array.String)
	require.True(t, ok)
	assert.Equal(t, `a"b`, names.Value(0))
	assert.Equal(t, "plain", names.Value(1))
}

type parquetRow struct {
	C1 string  `parquet:"c1"`
	C2 int32   `parquet:"c2"`
	C3 int64   `parquet:"c3"`
	C4 float64 `parquet:"c4"`
	C5 bool    `parquet:"c5"`
}

func writeParquetFile(t *testing.T, rows []parquetRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[parquetRow](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return path
}

func TestParquetDataSource(t *testing.T) {
	path := writeParquetFile(t, []parquetRow{
		{C1: "a", C2: 1, C3: 10, C4: 0.5, C5: true},
		{C1: "b", C2: 2, C3: 20, C4: 1.5, C5: false},
		{C1: "c", C2: 3, C3: 30, C4: 2.5, C5: true},
	})
	src, err := NewParquetDataSource(path)
	require.NoError(t, err)

	schema := src.Schema()
	require.Len(t, schema.Fields(), 5)
	types := map[string]arrow.DataType{}
	for _, field := range schema.Fields() {
		types[field.Name] = field.Type
	}
	assert.Equal(t, arrow.BinaryTypes.String, types["c1"])
	assert.Equal(t, arrow.PrimitiveTypes.Int32, types["c2"])
	assert.Equal(t, arrow.PrimitiveTypes.Int64, types["c3"])
	assert.Equal(t, arrow.PrimitiveTypes.Float64, types["c4"])
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, types["c5"])

	rec, err := src.Scan(context.Background(), []string{"c3", "c1", "c2"})
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, []int64{10, 20, 30}, rec.Column(0).(*array.Int64).Int64Values())
	assert.Equal(t, "b", rec.Column(1).(*array.String).Value(1))
	assert.Equal(t, []int32{1, 2, 3}, rec.Column(2).(*array.Int32).Int32Values())

	_, err = src.Scan(context.Background(), []string{"nope"})
	assert.True(t, errors.Is(err, datatypes.ErrUnknownColumn))
}
