package datatypes

import (
	"math"
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorString(t *testing.T) {
	expected := map[Operator]string{
		Eq: "=", NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
		Plus: "+", Minus: "-", Multiply: "*", Divide: "/", And: "AND", Or: "OR",
	}
	for op, symbol := range expected {
		assert.Equal(t, symbol, op.String())
	}
	assert.True(t, Lt.IsComparison())
	assert.True(t, Divide.IsArithmetic())
	assert.True(t, Or.IsLogical())
	assert.False(t, Plus.IsComparison())
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "NULL", NewNull().String())
	assert.Equal(t, "NULL", NullOf(arrow.INT32).String())
	assert.Equal(t, "true", NewBoolean(true).String())
	assert.Equal(t, "-7", NewInt8(-7).String())
	assert.Equal(t, "42", NewUint64(42).String())
	assert.Equal(t, "1.5", NewFloat32(1.5).String())
	assert.Equal(t, "0.1", NewFloat64(0.1).String())
	assert.Equal(t, "hello", NewString("hello").String())
}

func TestScalarDataType(t *testing.T) {
	assert.Equal(t, arrow.Null, NewNull().DataType())
	assert.Equal(t, arrow.PrimitiveTypes.Int32, NullOf(arrow.INT32).DataType())
	assert.Equal(t, arrow.BinaryTypes.String, NewString("x").DataType())
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, NewBoolean(false).DataType())
	assert.True(t, NullOf(arrow.FLOAT64).IsNull())
	assert.False(t, NewFloat64(0).IsNull())
}

func TestScalarToArray(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	arr := NewInt32(5).ToArray(mem, 3)
	defer arr.Release()
	require.Equal(t, 3, arr.Len())
	assert.Equal(t, arrow.PrimitiveTypes.Int32, arr.DataType())
	for i := 0; i < arr.Len(); i++ {
		assert.Equal(t, int32(5), arr.(*array.Int32).Value(i))
	}

	nulls := NullOf(arrow.STRING).ToArray(mem, 2)
	defer nulls.Release()
	assert.Equal(t, 2, nulls.NullN())
	assert.Equal(t, arrow.BinaryTypes.String, nulls.DataType())

	untyped := NewNull().ToArray(mem, 4)
	defer untyped.Release()
	assert.Equal(t, arrow.NULL, untyped.DataType().ID())
	assert.Equal(t, 4, untyped.Len())
}

func TestScalarFromArray(t *testing.T) {
	b := array.NewFloat64Builder(memory.DefaultAllocator)
	b.AppendValues([]float64{1.25, 0}, []bool{true, false})
	arr := b.NewArray()
	defer arr.Release()

	v, err := ScalarFromArray(arr, 0)
	require.NoError(t, err)
	assert.Equal(t, NewFloat64(1.25), v)

	v, err = ScalarFromArray(arr, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.Equal(t, arrow.FLOAT64, v.Kind())

	_, err = ScalarFromArray(arr, 2)
	assert.Error(t, err)
}

func TestScalarConversions(t *testing.T) {
	assert.Equal(t, float64(3), NewInt16(3).Float64())
	assert.Equal(t, int64(9), NewUint32(9).Int64())
	assert.Equal(t, uint64(4), NewInt64(4).Uint64())
	assert.True(t, math.IsInf(NewFloat64(math.Inf(1)).Float64(), 1))
}

func TestNumericType(t *testing.T) {
	testCases := []struct {
		lhs, rhs arrow.DataType
		expected arrow.DataType
	}{
		{arrow.PrimitiveTypes.Int32, arrow.PrimitiveTypes.Int32, arrow.PrimitiveTypes.Int32},
		{arrow.PrimitiveTypes.Int8, arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Int64},
		{arrow.PrimitiveTypes.Uint8, arrow.PrimitiveTypes.Uint16, arrow.PrimitiveTypes.Uint16},
		{arrow.PrimitiveTypes.Uint8, arrow.PrimitiveTypes.Int8, arrow.PrimitiveTypes.Int16},
		{arrow.PrimitiveTypes.Int32, arrow.PrimitiveTypes.Uint32, arrow.PrimitiveTypes.Int64},
		{arrow.PrimitiveTypes.Uint64, arrow.PrimitiveTypes.Int8, arrow.PrimitiveTypes.Int64},
		{arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Float64, arrow.PrimitiveTypes.Float64},
		{arrow.PrimitiveTypes.Int16, arrow.PrimitiveTypes.Float32, arrow.PrimitiveTypes.Float32},
		{arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Float32, arrow.PrimitiveTypes.Float64},
		{arrow.Null, arrow.PrimitiveTypes.Uint8, arrow.PrimitiveTypes.Uint8},
		{arrow.Null, arrow.Null, arrow.Null},
	}
	for _, tc := range testCases {
		dt, err := NumericType(tc.lhs, tc.rhs)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, dt, "%s with %s", tc.lhs, tc.rhs)
	}
	_, err := NumericType(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int32)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestResultType(t *testing.T) {
	dt, err := ResultType(arrow.PrimitiveTypes.Int32, Lt, arrow.PrimitiveTypes.Float64)
	require.NoError(t, err)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, dt)

	dt, err = ResultType(arrow.Null, And, arrow.FixedWidthTypes.Boolean)
	require.NoError(t, err)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, dt)

	dt, err = ResultType(arrow.PrimitiveTypes.Int32, Plus, arrow.PrimitiveTypes.Int64)
	require.NoError(t, err)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, dt)

	_, err = ResultType(arrow.BinaryTypes.String, Eq, arrow.PrimitiveTypes.Int64)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = ResultType(arrow.PrimitiveTypes.Int64, And, arrow.FixedWidthTypes.Boolean)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	_, err = ResultType(arrow.BinaryTypes.String, Plus, arrow.BinaryTypes.String)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestSchemaHelpers(t *testing.T) {
	schema := NewSchema(
		arrow.Field{Name: "c1", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "c2", Type: arrow.PrimitiveTypes.Int32},
		arrow.Field{Name: "c2", Type: arrow.PrimitiveTypes.Int64},
	)
	i, err := FieldIndex(schema, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = FieldIndex(schema, "c9")
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	projected, err := ProjectSchema(schema, []string{"c2", "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c2", projected.Field(0).Name)
	assert.Equal(t, "c1", projected.Field(1).Name)
}
