package physical

import (
	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// ColumnarValue is the result of evaluating an expression over a batch: either one array with a value per row, or
// a single scalar that stands for every row.
type ColumnarValue struct {
	arr    arrow.Array
	scalar datatypes.ScalarValue
}

// NewArrayValue takes over the caller's reference on arr.
func NewArrayValue(arr arrow.Array) ColumnarValue {
	return ColumnarValue{arr: arr}
}

func NewScalarValue(v datatypes.ScalarValue) ColumnarValue {
	return ColumnarValue{scalar: v}
}

func (v ColumnarValue) IsScalar() bool {
	return v.arr == nil
}

// Array returns the array of an array value, nil for a scalar.
func (v ColumnarValue) Array() arrow.Array {
	return v.arr
}

func (v ColumnarValue) Scalar() datatypes.ScalarValue {
	return v.scalar
}

func (v ColumnarValue) DataType() arrow.DataType {
	if v.arr != nil {
		return v.arr.DataType()
	}
	return v.scalar.DataType()
}

// ToArray returns an array of n rows. A scalar is broadcast, an array is returned with an extra reference. The
// caller releases the result.
func (v ColumnarValue) ToArray(mem memory.Allocator, n int) arrow.Array {
	if v.arr != nil {
		v.arr.Retain()
		return v.arr
	}
	return v.scalar.ToArray(mem, n)
}

func (v ColumnarValue) Release() {
	if v.arr != nil {
		v.arr.Release()
	}
}
