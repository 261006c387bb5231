package output

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() arrow.Record {
	mem := memory.DefaultAllocator
	c1 := array.NewStringBuilder(mem)
	c1.AppendValues([]string{"a", "b", "c"}, nil)
	c3 := array.NewInt64Builder(mem)
	c3.AppendValues([]int64{2, 3, 0}, []bool{true, true, false})
	f := array.NewFloat64Builder(mem)
	f.AppendValues([]float64{1.5, math.Inf(1), 10}, nil)
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "c1", Type: arrow.BinaryTypes.String},
		{Name: "c3 + 1", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "f", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
	return array.NewRecord(schema, []arrow.Array{c1.NewArray(), c3.NewArray(), f.NewArray()}, 3)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(&buf).Format(testRecord()))
	expected := strings.Join([]string{
		"c1 | c3 + 1 | f",
		"a  | 2      | 1.5",
		"b  | 3      | +Inf",
		"c  | NULL   | 10",
	}, "\n") + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(testRecord()))
	assert.Equal(t, "c1,c3 + 1,f\na,2,1.5\nb,3,+Inf\nc,,10\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(testRecord()))
	expected := `{"c1":"a","c3 + 1":2,"f":1.5}
{"c1":"b","c3 + 1":3,"f":"+Inf"}
{"c1":"c","c3 + 1":null,"f":10}
`
	assert.Equal(t, expected, buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(testRecord()))
	out := buf.String()
	assert.Contains(t, out, "c3 + 1")
	assert.Contains(t, out, "NULL")
	assert.True(t, strings.HasSuffix(out, "(3 rows)\n"))
}

func TestNew(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, &bytes.Buffer{})
		require.NoError(t, err)
		assert.NotNil(t, f)
	}
	f, err := New("CSV", &bytes.Buffer{})
	require.NoError(t, err)
	var buf bytes.Buffer
	f.SetOutput(&buf)
	require.NoError(t, f.Format(testRecord()))
	assert.NotEmpty(t, buf.String())

	_, err = New("xml", &bytes.Buffer{})
	assert.Error(t, err)
}
