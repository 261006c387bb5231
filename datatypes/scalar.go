package datatypes

import (
	"strconv"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
)

// ScalarValue is a single, possibly null, value of one of the supported kinds. The kind is carried even when the
// value is null, so a typed null still knows its data type.
type ScalarValue struct {
	kind  arrow.Type
	valid bool
	b     bool
	i     int64
	u     uint64
	f     float64
	s     string
}

// NewNull returns the untyped null.
func NewNull() ScalarValue { return ScalarValue{kind: arrow.NULL} }

// NullOf returns a null of the given kind. Kinds the engine does not support yield the untyped null.
func NullOf(kind arrow.Type) ScalarValue {
	if !IsSupported(kind) {
		return NewNull()
	}
	return ScalarValue{kind: kind}
}

func NewBoolean(v bool) ScalarValue    { return ScalarValue{kind: arrow.BOOL, valid: true, b: v} }
func NewInt8(v int8) ScalarValue       { return ScalarValue{kind: arrow.INT8, valid: true, i: int64(v)} }
func NewInt16(v int16) ScalarValue     { return ScalarValue{kind: arrow.INT16, valid: true, i: int64(v)} }
func NewInt32(v int32) ScalarValue     { return ScalarValue{kind: arrow.INT32, valid: true, i: int64(v)} }
func NewInt64(v int64) ScalarValue     { return ScalarValue{kind: arrow.INT64, valid: true, i: v} }
func NewUint8(v uint8) ScalarValue     { return ScalarValue{kind: arrow.UINT8, valid: true, u: uint64(v)} }
func NewUint16(v uint16) ScalarValue   { return ScalarValue{kind: arrow.UINT16, valid: true, u: uint64(v)} }
func NewUint32(v uint32) ScalarValue   { return ScalarValue{kind: arrow.UINT32, valid: true, u: uint64(v)} }
func NewUint64(v uint64) ScalarValue   { return ScalarValue{kind: arrow.UINT64, valid: true, u: v} }
func NewFloat32(v float32) ScalarValue { return ScalarValue{kind: arrow.FLOAT32, valid: true, f: float64(v)} }
func NewFloat64(v float64) ScalarValue { return ScalarValue{kind: arrow.FLOAT64, valid: true, f: v} }
func NewString(v string) ScalarValue   { return ScalarValue{kind: arrow.STRING, valid: true, s: v} }

// Kind is the arrow type id of the value.
func (s ScalarValue) Kind() arrow.Type { return s.kind }

// IsNull reports whether the payload is absent.
func (s ScalarValue) IsNull() bool { return !s.valid }

func (s ScalarValue) DataType() arrow.DataType {
	dt, _ := DataTypeOf(s.kind)
	return dt
}

func (s ScalarValue) Bool() bool { return s.b }

func (s ScalarValue) Str() string { return s.s }

// Int64 returns the payload converted to int64.
func (s ScalarValue) Int64() int64 {
	switch {
	case IsUnsigned(s.kind):
		return int64(s.u)
	case IsFloat(s.kind):
		return int64(s.f)
	}
	return s.i
}

// Uint64 returns the payload converted to uint64.
func (s ScalarValue) Uint64() uint64 {
	switch {
	case IsSigned(s.kind):
		return uint64(s.i)
	case IsFloat(s.kind):
		return uint64(s.f)
	}
	return s.u
}

// Float64 returns the payload converted to float64.
func (s ScalarValue) Float64() float64 {
	switch {
	case IsSigned(s.kind):
		return float64(s.i)
	case IsUnsigned(s.kind):
		return float64(s.u)
	}
	return s.f
}

// String renders the payload, or NULL when it is absent.
func (s ScalarValue) String() string {
	if !s.valid {
		return "NULL"
	}
	switch s.kind {
	case arrow.BOOL:
		return strconv.FormatBool(s.b)
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return strconv.FormatInt(s.i, 10)
	case arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return strconv.FormatUint(s.u, 10)
	case arrow.FLOAT32:
		return strconv.FormatFloat(s.f, 'g', -1, 32)
	case arrow.FLOAT64:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case arrow.STRING:
		return s.s
	}
	return "NULL"
}

type appender[T any] interface {
	Append(T)
	AppendNull()
	Reserve(int)
	NewArray() arrow.Array
	Release()
}

func repeatValue[T any](b appender[T], v T, valid bool, n int) arrow.Array {
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if valid {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
	return b.NewArray()
}

// ToArray materializes the value as an array of length n whose every element equals the value.
func (s ScalarValue) ToArray(mem memory.Allocator, n int) arrow.Array {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	switch s.kind {
	case arrow.BOOL:
		return repeatValue[bool](array.NewBooleanBuilder(mem), s.b, s.valid, n)
	case arrow.INT8:
		return repeatValue[int8](array.NewInt8Builder(mem), int8(s.i), s.valid, n)
	case arrow.INT16:
		return repeatValue[int16](array.NewInt16Builder(mem), int16(s.i), s.valid, n)
	case arrow.INT32:
		return repeatValue[int32](array.NewInt32Builder(mem), int32(s.i), s.valid, n)
	case arrow.INT64:
		return repeatValue[int64](array.NewInt64Builder(mem), s.i, s.valid, n)
	case arrow.UINT8:
		return repeatValue[uint8](array.NewUint8Builder(mem), uint8(s.u), s.valid, n)
	case arrow.UINT16:
		return repeatValue[uint16](array.NewUint16Builder(mem), uint16(s.u), s.valid, n)
	case arrow.UINT32:
		return repeatValue[uint32](array.NewUint32Builder(mem), uint32(s.u), s.valid, n)
	case arrow.UINT64:
		return repeatValue[uint64](array.NewUint64Builder(mem), s.u, s.valid, n)
	case arrow.FLOAT32:
		return repeatValue[float32](array.NewFloat32Builder(mem), float32(s.f), s.valid, n)
	case arrow.FLOAT64:
		return repeatValue[float64](array.NewFloat64Builder(mem), s.f, s.valid, n)
	case arrow.STRING:
		return repeatValue[string](array.NewStringBuilder(mem), s.s, s.valid, n)
	}
	return array.NewNull(n)
}

// ScalarFromArray extracts element i of arr.
func ScalarFromArray(arr arrow.Array, i int) (ScalarValue, error) {
	if i < 0 || i >= arr.Len() {
		return ScalarValue{}, errors.Newf("index %d out of range for array of length %d", i, arr.Len())
	}
	if arr.IsNull(i) {
		if _, ok := arr.(*array.Null); ok {
			return NewNull(), nil
		}
		if !IsSupported(arr.DataType().ID()) {
			return ScalarValue{}, NotImplementedErrorf("data type %s", arr.DataType())
		}
		return NullOf(arr.DataType().ID()), nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return NewBoolean(a.Value(i)), nil
	case *array.Int8:
		return NewInt8(a.Value(i)), nil
	case *array.Int16:
		return NewInt16(a.Value(i)), nil
	case *array.Int32:
		return NewInt32(a.Value(i)), nil
	case *array.Int64:
		return NewInt64(a.Value(i)), nil
	case *array.Uint8:
		return NewUint8(a.Value(i)), nil
	case *array.Uint16:
		return NewUint16(a.Value(i)), nil
	case *array.Uint32:
		return NewUint32(a.Value(i)), nil
	case *array.Uint64:
		return NewUint64(a.Value(i)), nil
	case *array.Float32:
		return NewFloat32(a.Value(i)), nil
	case *array.Float64:
		return NewFloat64(a.Value(i)), nil
	case *array.String:
		return NewString(a.Value(i)), nil
	}
	return ScalarValue{}, NotImplementedErrorf("data type %s", arr.DataType())
}
