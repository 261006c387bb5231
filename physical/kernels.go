package physical

import (
	"cmp"
	"math"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datatypes"
)

type sink[T any] interface {
	Append(T)
	AppendNull()
}

type builder[T any] interface {
	sink[T]
	Reserve(n int)
	NewArray() arrow.Array
	Release()
}

// scalarSink keeps the single value a kernel produces when both operands are scalars.
type scalarSink[T any] struct {
	value T
	valid bool
}

func (s *scalarSink[T]) Append(v T) { s.value, s.valid = v, true }
func (s *scalarSink[T]) AppendNull() { s.valid = false }

type kernelArgs struct {
	mem    memory.Allocator
	op     datatypes.Operator
	l, r   reader
	n      int
	scalar bool
}

// run drives fill into an array builder, or into a scalarSink when both operands are scalars.
func run[T any](k kernelArgs, kind arrow.Type, newBuilder func(memory.Allocator) builder[T],
	wrap func(T) datatypes.ScalarValue, fill func(sink[T])) ColumnarValue {
	if k.scalar {
		s := &scalarSink[T]{}
		fill(s)
		if !s.valid {
			return NewScalarValue(datatypes.NullOf(kind))
		}
		return NewScalarValue(wrap(s.value))
	}
	b := newBuilder(k.mem)
	defer b.Release()
	b.Reserve(k.n)
	fill(b)
	return NewArrayValue(b.NewArray())
}

// EvaluateBinary applies op to two evaluated operands. An array operand fixes the row count and a scalar operand
// is broadcast against it. Two scalars produce a scalar.
func EvaluateBinary(mem memory.Allocator, lhs ColumnarValue, op datatypes.Operator, rhs ColumnarValue) (ColumnarValue, error) {
	out, err := datatypes.ResultType(lhs.DataType(), op, rhs.DataType())
	if err != nil {
		return ColumnarValue{}, err
	}
	k := kernelArgs{mem: mem, op: op, n: 1, scalar: lhs.IsScalar() && rhs.IsScalar()}
	if k.mem == nil {
		k.mem = memory.DefaultAllocator
	}
	switch {
	case !lhs.IsScalar() && !rhs.IsScalar():
		if lhs.Array().Len() != rhs.Array().Len() {
			return ColumnarValue{}, errors.AssertionFailedf("operands of %s have %d and %d rows", op, lhs.Array().Len(), rhs.Array().Len())
		}
		k.n = lhs.Array().Len()
	case !lhs.IsScalar():
		k.n = lhs.Array().Len()
	case !rhs.IsScalar():
		k.n = rhs.Array().Len()
	}
	if k.l, err = newReader(lhs); err != nil {
		return ColumnarValue{}, err
	}
	if k.r, err = newReader(rhs); err != nil {
		return ColumnarValue{}, err
	}
	switch {
	case op.IsArithmetic():
		return arithmetic(k, out)
	case op.IsComparison():
		domain, err := datatypes.ComparisonType(lhs.DataType(), rhs.DataType())
		if err != nil {
			return ColumnarValue{}, err
		}
		return comparison(k, domain.ID(), lhs.DataType().ID(), rhs.DataType().ID())
	case op.IsLogical():
		return booleans(k, func(dst sink[bool]) { fillLogical(dst, k) }), nil
	}
	return ColumnarValue{}, datatypes.NotImplementedErrorf("operator %s", op)
}

func arithmetic(k kernelArgs, out arrow.DataType) (ColumnarValue, error) {
	switch out.ID() {
	case arrow.NULL:
		if k.scalar {
			return NewScalarValue(datatypes.NewNull()), nil
		}
		return NewArrayValue(array.NewNull(k.n)), nil
	case arrow.INT8:
		return run(k, arrow.INT8, func(mem memory.Allocator) builder[int8] { return array.NewInt8Builder(mem) },
			datatypes.NewInt8, func(dst sink[int8]) { fillSigned(dst, k) }), nil
	case arrow.INT16:
		return run(k, arrow.INT16, func(mem memory.Allocator) builder[int16] { return array.NewInt16Builder(mem) },
			datatypes.NewInt16, func(dst sink[int16]) { fillSigned(dst, k) }), nil
	case arrow.INT32:
		return run(k, arrow.INT32, func(mem memory.Allocator) builder[int32] { return array.NewInt32Builder(mem) },
			datatypes.NewInt32, func(dst sink[int32]) { fillSigned(dst, k) }), nil
	case arrow.INT64:
		return run(k, arrow.INT64, func(mem memory.Allocator) builder[int64] { return array.NewInt64Builder(mem) },
			datatypes.NewInt64, func(dst sink[int64]) { fillSigned(dst, k) }), nil
	case arrow.UINT8:
		return run(k, arrow.UINT8, func(mem memory.Allocator) builder[uint8] { return array.NewUint8Builder(mem) },
			datatypes.NewUint8, func(dst sink[uint8]) { fillUnsigned(dst, k) }), nil
	case arrow.UINT16:
		return run(k, arrow.UINT16, func(mem memory.Allocator) builder[uint16] { return array.NewUint16Builder(mem) },
			datatypes.NewUint16, func(dst sink[uint16]) { fillUnsigned(dst, k) }), nil
	case arrow.UINT32:
		return run(k, arrow.UINT32, func(mem memory.Allocator) builder[uint32] { return array.NewUint32Builder(mem) },
			datatypes.NewUint32, func(dst sink[uint32]) { fillUnsigned(dst, k) }), nil
	case arrow.UINT64:
		return run(k, arrow.UINT64, func(mem memory.Allocator) builder[uint64] { return array.NewUint64Builder(mem) },
			datatypes.NewUint64, func(dst sink[uint64]) { fillUnsigned(dst, k) }), nil
	case arrow.FLOAT32:
		return run(k, arrow.FLOAT32, func(mem memory.Allocator) builder[float32] { return array.NewFloat32Builder(mem) },
			datatypes.NewFloat32, func(dst sink[float32]) { fillFloat(dst, k) }), nil
	case arrow.FLOAT64:
		return run(k, arrow.FLOAT64, func(mem memory.Allocator) builder[float64] { return array.NewFloat64Builder(mem) },
			datatypes.NewFloat64, func(dst sink[float64]) { fillFloat(dst, k) }), nil
	}
	return ColumnarValue{}, datatypes.NotImplementedErrorf("arithmetic producing %s", out)
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// integerOp wraps on overflow. Division by zero has no value.
func integerOp[T integer](op datatypes.Operator, x, y T) (T, bool) {
	switch op {
	case datatypes.Plus:
		return x + y, true
	case datatypes.Minus:
		return x - y, true
	case datatypes.Multiply:
		return x * y, true
	case datatypes.Divide:
		if y == 0 {
			return 0, false
		}
		return x / y, true
	}
	return 0, false
}

func floatOp[T float32 | float64](op datatypes.Operator, x, y T) T {
	switch op {
	case datatypes.Plus:
		return x + y
	case datatypes.Minus:
		return x - y
	case datatypes.Multiply:
		return x * y
	}
	return x / y
}

func fillSigned[T ~int8 | ~int16 | ~int32 | ~int64](dst sink[T], k kernelArgs) {
	for i := 0; i < k.n; i++ {
		if k.l.IsNull(i) || k.r.IsNull(i) {
			dst.AppendNull()
			continue
		}
		if v, ok := integerOp(k.op, T(k.l.Int(i)), T(k.r.Int(i))); ok {
			dst.Append(v)
		} else {
			dst.AppendNull()
		}
	}
}

func fillUnsigned[T ~uint8 | ~uint16 | ~uint32 | ~uint64](dst sink[T], k kernelArgs) {
	for i := 0; i < k.n; i++ {
		if k.l.IsNull(i) || k.r.IsNull(i) {
			dst.AppendNull()
			continue
		}
		if v, ok := integerOp(k.op, T(k.l.Uint(i)), T(k.r.Uint(i))); ok {
			dst.Append(v)
		} else {
			dst.AppendNull()
		}
	}
}

func fillFloat[T float32 | float64](dst sink[T], k kernelArgs) {
	for i := 0; i < k.n; i++ {
		if k.l.IsNull(i) || k.r.IsNull(i) {
			dst.AppendNull()
			continue
		}
		dst.Append(floatOp(k.op, T(k.l.Float(i)), T(k.r.Float(i))))
	}
}

func booleans(k kernelArgs, fill func(sink[bool])) ColumnarValue {
	return run(k, arrow.BOOL, func(mem memory.Allocator) builder[bool] { return array.NewBooleanBuilder(mem) },
		datatypes.NewBoolean, fill)
}

func comparison(k kernelArgs, domain, l, r arrow.Type) (ColumnarValue, error) {
	if compare := mixedCompare(k, l, r); compare != nil {
		return booleans(k, func(dst sink[bool]) { fillOrdered(dst, k, compare) }), nil
	}
	switch {
	case domain == arrow.NULL:
		return booleans(k, func(dst sink[bool]) { fillNulls(dst, k.n) }), nil
	case datatypes.IsFloat(domain):
		return booleans(k, func(dst sink[bool]) { fillCompare(dst, k, reader.Float) }), nil
	case datatypes.IsSigned(domain):
		return booleans(k, func(dst sink[bool]) { fillCompare(dst, k, reader.Int) }), nil
	case datatypes.IsUnsigned(domain):
		return booleans(k, func(dst sink[bool]) { fillCompare(dst, k, reader.Uint) }), nil
	case domain == arrow.STRING:
		return booleans(k, func(dst sink[bool]) { fillCompare(dst, k, reader.Str) }), nil
	case domain == arrow.BOOL:
		return booleans(k, func(dst sink[bool]) { fillCompare(dst, k, boolRank) }), nil
	}
	return ColumnarValue{}, datatypes.NotImplementedErrorf("comparison over %s", domain)
}

// boolRank orders false before true.
func boolRank(r reader, i int) int {
	if r.Bool(i) {
		return 1
	}
	return 0
}

func compareOp[T cmp.Ordered](op datatypes.Operator, x, y T) bool {
	switch op {
	case datatypes.Eq:
		return x == y
	case datatypes.NotEq:
		return x != y
	case datatypes.Lt:
		return x < y
	case datatypes.LtEq:
		return x <= y
	case datatypes.Gt:
		return x > y
	}
	return x >= y
}

func fillCompare[T cmp.Ordered](dst sink[bool], k kernelArgs, get func(reader, int) T) {
	for i := 0; i < k.n; i++ {
		if k.l.IsNull(i) || k.r.IsNull(i) {
			dst.AppendNull()
			continue
		}
		dst.Append(compareOp(k.op, get(k.l, i), get(k.r, i)))
	}
}

type numericClass int

const (
	notNumeric numericClass = iota
	signedClass
	unsignedClass
	floatClass
)

func classOf(t arrow.Type) numericClass {
	switch {
	case datatypes.IsSigned(t):
		return signedClass
	case datatypes.IsUnsigned(t):
		return unsignedClass
	case datatypes.IsFloat(t):
		return floatClass
	}
	return notNumeric
}

// mixedCompare returns an exact three-way comparison for numeric operands of different classes, or nil when the
// operands can be compared in their common type. The bool result is false when the pair is unordered (NaN).
func mixedCompare(k kernelArgs, l, r arrow.Type) func(i int) (int, bool) {
	lc, rc := classOf(l), classOf(r)
	if lc == notNumeric || rc == notNumeric || lc == rc {
		return nil
	}
	swapped := lc > rc
	if swapped {
		lc, rc = rc, lc
	}
	lo, hi := k.l, k.r
	if swapped {
		lo, hi = k.r, k.l
	}
	var compare func(i int) (int, bool)
	switch {
	case lc == signedClass && rc == unsignedClass:
		compare = func(i int) (int, bool) { return compareIntUint(lo.Int(i), hi.Uint(i)), true }
	case lc == signedClass:
		compare = func(i int) (int, bool) { return compareIntFloat(lo.Int(i), hi.Float(i)) }
	default:
		compare = func(i int) (int, bool) { return compareUintFloat(lo.Uint(i), hi.Float(i)) }
	}
	if !swapped {
		return compare
	}
	return func(i int) (int, bool) {
		c, ok := compare(i)
		return -c, ok
	}
}

func compareIntUint(x int64, y uint64) int {
	if x < 0 {
		return -1
	}
	return cmp.Compare(uint64(x), y)
}

// compareIntFloat compares without rounding x to float64, so integers beyond 2^53 keep their order.
func compareIntFloat(x int64, y float64) (int, bool) {
	switch {
	case math.IsNaN(y):
		return 0, false
	case y >= 1<<63:
		return -1, true
	case y < -(1 << 63):
		return 1, true
	}
	t := int64(y)
	if c := cmp.Compare(x, t); c != 0 {
		return c, true
	}
	return cmp.Compare(0, y-float64(t)), true
}

func compareUintFloat(x uint64, y float64) (int, bool) {
	switch {
	case math.IsNaN(y):
		return 0, false
	case y < 0:
		return 1, true
	case y >= 1<<64:
		return -1, true
	}
	t := uint64(y)
	if c := cmp.Compare(x, t); c != 0 {
		return c, true
	}
	return cmp.Compare(0, y-float64(t)), true
}

func orderedOp(op datatypes.Operator, c int) bool {
	switch op {
	case datatypes.Eq:
		return c == 0
	case datatypes.NotEq:
		return c != 0
	case datatypes.Lt:
		return c < 0
	case datatypes.LtEq:
		return c <= 0
	case datatypes.Gt:
		return c > 0
	}
	return c >= 0
}

func fillOrdered(dst sink[bool], k kernelArgs, compare func(i int) (int, bool)) {
	for i := 0; i < k.n; i++ {
		if k.l.IsNull(i) || k.r.IsNull(i) {
			dst.AppendNull()
			continue
		}
		c, ok := compare(i)
		if !ok {
			// NaN is unordered: only != holds.
			dst.Append(k.op == datatypes.NotEq)
			continue
		}
		dst.Append(orderedOp(k.op, c))
	}
}

func fillNulls(dst sink[bool], n int) {
	for i := 0; i < n; i++ {
		dst.AppendNull()
	}
}

// fillLogical implements three-valued AND and OR: a false operand decides AND and a true operand decides OR even
// when the other side is null.
func fillLogical(dst sink[bool], k kernelArgs) {
	for i := 0; i < k.n; i++ {
		lNull, rNull := k.l.IsNull(i), k.r.IsNull(i)
		lv := !lNull && k.l.Bool(i)
		rv := !rNull && k.r.Bool(i)
		if k.op == datatypes.And {
			switch {
			case (!lNull && !lv) || (!rNull && !rv):
				dst.Append(false)
			case lNull || rNull:
				dst.AppendNull()
			default:
				dst.Append(true)
			}
			continue
		}
		switch {
		case lv || rv:
			dst.Append(true)
		case lNull || rNull:
			dst.AppendNull()
		default:
			dst.Append(false)
		}
	}
}
