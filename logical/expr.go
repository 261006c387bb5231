package logical

import (
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/xiaobogaga/miniquery/datatypes"
)

// Expr is a logical expression. It is evaluated against the schema of the plan it is attached to.
type Expr interface {
	// ToField derives the output field the expression produces over the given input schema.
	ToField(input *arrow.Schema) (arrow.Field, error)
	// DataType is the type of ToField, without the name.
	DataType(input *arrow.Schema) (arrow.DataType, error)
	String() string
}

// Column references a column of the input by name.
type Column struct {
	Name string
}

func (col *Column) ToField(input *arrow.Schema) (arrow.Field, error) {
	i, err := datatypes.FieldIndex(input, col.Name)
	if err != nil {
		return arrow.Field{}, err
	}
	return input.Field(i), nil
}

func (col *Column) DataType(input *arrow.Schema) (arrow.DataType, error) {
	f, err := col.ToField(input)
	if err != nil {
		return nil, err
	}
	return f.Type, nil
}

func (col *Column) String() string {
	return col.Name
}

// Literal is a constant.
type Literal struct {
	Value datatypes.ScalarValue
}

func (lit *Literal) ToField(input *arrow.Schema) (arrow.Field, error) {
	return arrow.Field{Name: lit.String(), Type: lit.Value.DataType(), Nullable: true}, nil
}

func (lit *Literal) DataType(input *arrow.Schema) (arrow.DataType, error) {
	return lit.Value.DataType(), nil
}

func (lit *Literal) String() string {
	return lit.Value.String()
}

// Binary applies Op to Lhs and Rhs.
type Binary struct {
	Lhs Expr
	Op  datatypes.Operator
	Rhs Expr
}

func (b *Binary) ToField(input *arrow.Schema) (arrow.Field, error) {
	dt, err := b.DataType(input)
	if err != nil {
		return arrow.Field{}, err
	}
	return arrow.Field{Name: b.String(), Type: dt, Nullable: true}, nil
}

func (b *Binary) DataType(input *arrow.Schema) (arrow.DataType, error) {
	l, err := b.Lhs.DataType(input)
	if err != nil {
		return nil, err
	}
	r, err := b.Rhs.DataType(input)
	if err != nil {
		return nil, err
	}
	return datatypes.ResultType(l, b.Op, r)
}

func (b *Binary) String() string {
	return fmt.Sprintf("%s %s %s", b.Lhs, b.Op, b.Rhs)
}

type AggregateFunc int

const (
	Sum AggregateFunc = iota
	Min
	Max
	Avg
	Count
)

var aggregateFuncNames = map[AggregateFunc]string{
	Sum:   "SUM",
	Min:   "MIN",
	Max:   "MAX",
	Avg:   "AVG",
	Count: "COUNT",
}

func (f AggregateFunc) String() string {
	return aggregateFuncNames[f]
}

// AggregateExpr is an aggregate call. It can be built and printed but has no schema or physical form yet.
type AggregateExpr struct {
	Func AggregateFunc
	Expr Expr
}

func (aggr *AggregateExpr) ToField(input *arrow.Schema) (arrow.Field, error) {
	return arrow.Field{}, datatypes.NotImplementedErrorf("aggregate expression %s", aggr)
}

func (aggr *AggregateExpr) DataType(input *arrow.Schema) (arrow.DataType, error) {
	return nil, datatypes.NotImplementedErrorf("aggregate expression %s", aggr)
}

func (aggr *AggregateExpr) String() string {
	return fmt.Sprintf("%s(%s)", aggr.Func, aggr.Expr)
}

func exprList(exprs []Expr) string {
	names := make([]string, len(exprs))
	for i, expr := range exprs {
		names[i] = expr.String()
	}
	return strings.Join(names, ", ")
}
