package datatypes

import (
	"github.com/apache/arrow/go/v11/arrow"
)

var supportedTypes = map[arrow.Type]arrow.DataType{
	arrow.NULL:    arrow.Null,
	arrow.BOOL:    arrow.FixedWidthTypes.Boolean,
	arrow.INT8:    arrow.PrimitiveTypes.Int8,
	arrow.INT16:   arrow.PrimitiveTypes.Int16,
	arrow.INT32:   arrow.PrimitiveTypes.Int32,
	arrow.INT64:   arrow.PrimitiveTypes.Int64,
	arrow.UINT8:   arrow.PrimitiveTypes.Uint8,
	arrow.UINT16:  arrow.PrimitiveTypes.Uint16,
	arrow.UINT32:  arrow.PrimitiveTypes.Uint32,
	arrow.UINT64:  arrow.PrimitiveTypes.Uint64,
	arrow.FLOAT32: arrow.PrimitiveTypes.Float32,
	arrow.FLOAT64: arrow.PrimitiveTypes.Float64,
	arrow.STRING:  arrow.BinaryTypes.String,
}

// IsSupported reports whether values of the kind can flow through the engine.
func IsSupported(kind arrow.Type) bool {
	_, ok := supportedTypes[kind]
	return ok
}

// DataTypeOf returns the arrow data type of a supported kind.
func DataTypeOf(kind arrow.Type) (arrow.DataType, error) {
	dt, ok := supportedTypes[kind]
	if !ok {
		return nil, NotImplementedErrorf("data type %s", kind)
	}
	return dt, nil
}

func IsSigned(kind arrow.Type) bool {
	switch kind {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return true
	}
	return false
}

func IsUnsigned(kind arrow.Type) bool {
	switch kind {
	case arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return true
	}
	return false
}

func IsInteger(kind arrow.Type) bool { return IsSigned(kind) || IsUnsigned(kind) }

func IsFloat(kind arrow.Type) bool { return kind == arrow.FLOAT32 || kind == arrow.FLOAT64 }

func IsNumeric(kind arrow.Type) bool { return IsInteger(kind) || IsFloat(kind) }

func bitWidth(kind arrow.Type) int {
	switch kind {
	case arrow.INT8, arrow.UINT8:
		return 8
	case arrow.INT16, arrow.UINT16:
		return 16
	case arrow.INT32, arrow.UINT32, arrow.FLOAT32:
		return 32
	}
	return 64
}

func signedOfWidth(width int) arrow.DataType {
	switch {
	case width <= 8:
		return arrow.PrimitiveTypes.Int8
	case width <= 16:
		return arrow.PrimitiveTypes.Int16
	case width <= 32:
		return arrow.PrimitiveTypes.Int32
	}
	return arrow.PrimitiveTypes.Int64
}

func unsignedOfWidth(width int) arrow.DataType {
	switch {
	case width <= 8:
		return arrow.PrimitiveTypes.Uint8
	case width <= 16:
		return arrow.PrimitiveTypes.Uint16
	case width <= 32:
		return arrow.PrimitiveTypes.Uint32
	}
	return arrow.PrimitiveTypes.Uint64
}

// NumericType returns the type two numeric operands are widened to before they are combined:
//   - integers of the same signedness widen to the wider one
//   - mixed signed and unsigned widen to a signed type wide enough for both, capped at Int64
//   - any float widens the result to a float, Float64 unless both sides fit in Float32
//
// A Null operand takes the other operand's type.
func NumericType(lhs, rhs arrow.DataType) (arrow.DataType, error) {
	l, r := lhs.ID(), rhs.ID()
	switch {
	case l == arrow.NULL:
		if r == arrow.NULL || IsNumeric(r) {
			return rhs, nil
		}
	case r == arrow.NULL:
		if IsNumeric(l) {
			return lhs, nil
		}
	}
	if !IsNumeric(l) || !IsNumeric(r) {
		return nil, TypeMismatchErrorf("cannot combine %s with %s", lhs, rhs)
	}
	switch {
	case IsFloat(l) || IsFloat(r):
		if bitWidth(l) == 64 || bitWidth(r) == 64 {
			return arrow.PrimitiveTypes.Float64, nil
		}
		return arrow.PrimitiveTypes.Float32, nil
	case IsSigned(l) && IsSigned(r):
		return signedOfWidth(max(bitWidth(l), bitWidth(r))), nil
	case IsUnsigned(l) && IsUnsigned(r):
		return unsignedOfWidth(max(bitWidth(l), bitWidth(r))), nil
	}
	signed, unsigned := l, r
	if IsUnsigned(l) {
		signed, unsigned = r, l
	}
	return signedOfWidth(max(bitWidth(signed), 2*bitWidth(unsigned))), nil
}

// ComparisonType returns the type both operands of a comparison are brought to before they are compared.
func ComparisonType(lhs, rhs arrow.DataType) (arrow.DataType, error) {
	l, r := lhs.ID(), rhs.ID()
	switch {
	case l == arrow.NULL:
		return rhs, nil
	case r == arrow.NULL:
		return lhs, nil
	case l == arrow.STRING && r == arrow.STRING, l == arrow.BOOL && r == arrow.BOOL:
		return lhs, nil
	case IsNumeric(l) && IsNumeric(r):
		return NumericType(lhs, rhs)
	}
	return nil, TypeMismatchErrorf("cannot compare %s with %s", lhs, rhs)
}

// ResultType is the data type produced by applying op to operands of the given types.
func ResultType(lhs arrow.DataType, op Operator, rhs arrow.DataType) (arrow.DataType, error) {
	switch {
	case op.IsComparison():
		if _, err := ComparisonType(lhs, rhs); err != nil {
			return nil, err
		}
		return arrow.FixedWidthTypes.Boolean, nil
	case op.IsLogical():
		for _, dt := range []arrow.DataType{lhs, rhs} {
			if dt.ID() != arrow.BOOL && dt.ID() != arrow.NULL {
				return nil, TypeMismatchErrorf("operator %s expects boolean operands, got %s", op, dt)
			}
		}
		return arrow.FixedWidthTypes.Boolean, nil
	case op.IsArithmetic():
		dt, err := NumericType(lhs, rhs)
		if err != nil {
			return nil, TypeMismatchErrorf("operator %s cannot combine %s with %s", op, lhs, rhs)
		}
		return dt, nil
	}
	return nil, NotImplementedErrorf("operator %d", int(op))
}
