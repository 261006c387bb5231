package physical

import (
	"fmt"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// Expr is an expression bound to the schema of its input. The caller releases the value Evaluate returns.
type Expr interface {
	Evaluate(batch arrow.Record) (ColumnarValue, error)
	String() string
}

// ColumnExpr reads the column at Index. Name is kept for display only.
type ColumnExpr struct {
	Name  string
	Index int
}

func NewColumnExpr(name string, index int) *ColumnExpr {
	return &ColumnExpr{Name: name, Index: index}
}

func (col *ColumnExpr) Evaluate(batch arrow.Record) (ColumnarValue, error) {
	if col.Index < 0 || int64(col.Index) >= batch.NumCols() {
		return ColumnarValue{}, errors.AssertionFailedf("column %s@%d out of range for batch of %d columns", col.Name, col.Index, batch.NumCols())
	}
	arr := batch.Column(col.Index)
	arr.Retain()
	return NewArrayValue(arr), nil
}

func (col *ColumnExpr) String() string {
	return fmt.Sprintf("%s@%d", col.Name, col.Index)
}

type LiteralExpr struct {
	Value datatypes.ScalarValue
}

func NewLiteralExpr(v datatypes.ScalarValue) *LiteralExpr {
	return &LiteralExpr{Value: v}
}

func (lit *LiteralExpr) Evaluate(batch arrow.Record) (ColumnarValue, error) {
	return NewScalarValue(lit.Value), nil
}

func (lit *LiteralExpr) String() string {
	return lit.Value.String()
}

type BinaryExpr struct {
	Lhs Expr
	Op  datatypes.Operator
	Rhs Expr
	mem memory.Allocator
}

func NewBinaryExpr(mem memory.Allocator, lhs Expr, op datatypes.Operator, rhs Expr) *BinaryExpr {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs, mem: mem}
}

func (b *BinaryExpr) Evaluate(batch arrow.Record) (ColumnarValue, error) {
	l, err := b.Lhs.Evaluate(batch)
	if err != nil {
		return ColumnarValue{}, err
	}
	defer l.Release()
	r, err := b.Rhs.Evaluate(batch)
	if err != nil {
		return ColumnarValue{}, err
	}
	defer r.Release()
	return EvaluateBinary(b.mem, l, b.Op, r)
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", b.Lhs, b.Op, b.Rhs)
}
