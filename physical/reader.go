package physical

import (
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// reader gives kernels element access to one operand, converted to the domain the kernel works in. Scalars ignore
// the index, which is how they broadcast.
type reader interface {
	IsNull(i int) bool
	Int(i int) int64
	Uint(i int) uint64
	Float(i int) float64
	Bool(i int) bool
	Str(i int) string
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

type numberArray[T number] interface {
	IsNull(i int) bool
	Value(i int) T
}

type numberReader[T number] struct {
	arr numberArray[T]
}

func (r numberReader[T]) IsNull(i int) bool   { return r.arr.IsNull(i) }
func (r numberReader[T]) Int(i int) int64     { return int64(r.arr.Value(i)) }
func (r numberReader[T]) Uint(i int) uint64   { return uint64(r.arr.Value(i)) }
func (r numberReader[T]) Float(i int) float64 { return float64(r.arr.Value(i)) }
func (r numberReader[T]) Bool(int) bool       { return false }
func (r numberReader[T]) Str(int) string      { return "" }

type boolReader struct {
	arr *array.Boolean
}

func (r boolReader) IsNull(i int) bool { return r.arr.IsNull(i) }
func (r boolReader) Int(int) int64     { return 0 }
func (r boolReader) Uint(int) uint64   { return 0 }
func (r boolReader) Float(int) float64 { return 0 }
func (r boolReader) Bool(i int) bool   { return r.arr.Value(i) }
func (r boolReader) Str(int) string    { return "" }

type stringReader struct {
	arr *array.String
}

func (r stringReader) IsNull(i int) bool { return r.arr.IsNull(i) }
func (r stringReader) Int(int) int64     { return 0 }
func (r stringReader) Uint(int) uint64   { return 0 }
func (r stringReader) Float(int) float64 { return 0 }
func (r stringReader) Bool(int) bool     { return false }
func (r stringReader) Str(i int) string  { return r.arr.Value(i) }

type nullReader struct{}

func (nullReader) IsNull(int) bool   { return true }
func (nullReader) Int(int) int64     { return 0 }
func (nullReader) Uint(int) uint64   { return 0 }
func (nullReader) Float(int) float64 { return 0 }
func (nullReader) Bool(int) bool     { return false }
func (nullReader) Str(int) string    { return "" }

type scalarReader struct {
	v datatypes.ScalarValue
}

func (r scalarReader) IsNull(int) bool   { return r.v.IsNull() }
func (r scalarReader) Int(int) int64     { return r.v.Int64() }
func (r scalarReader) Uint(int) uint64   { return r.v.Uint64() }
func (r scalarReader) Float(int) float64 { return r.v.Float64() }
func (r scalarReader) Bool(int) bool     { return r.v.Bool() }
func (r scalarReader) Str(int) string    { return r.v.Str() }

func newReader(v ColumnarValue) (reader, error) {
	if v.IsScalar() {
		return scalarReader{v.Scalar()}, nil
	}
	switch arr := v.Array().(type) {
	case *array.Null:
		return nullReader{}, nil
	case *array.Boolean:
		return boolReader{arr}, nil
	case *array.String:
		return stringReader{arr}, nil
	case *array.Int8:
		return numberReader[int8]{arr}, nil
	case *array.Int16:
		return numberReader[int16]{arr}, nil
	case *array.Int32:
		return numberReader[int32]{arr}, nil
	case *array.Int64:
		return numberReader[int64]{arr}, nil
	case *array.Uint8:
		return numberReader[uint8]{arr}, nil
	case *array.Uint16:
		return numberReader[uint16]{arr}, nil
	case *array.Uint32:
		return numberReader[uint32]{arr}, nil
	case *array.Uint64:
		return numberReader[uint64]{arr}, nil
	case *array.Float32:
		return numberReader[float32]{arr}, nil
	case *array.Float64:
		return numberReader[float64]{arr}, nil
	}
	return nil, datatypes.NotImplementedErrorf("evaluation over %s", v.DataType())
}
