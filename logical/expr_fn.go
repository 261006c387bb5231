package logical

import (
	"fmt"

	"github.com/xiaobogaga/miniquery/datatypes"
)

func Col(name string) Expr { return &Column{Name: name} }

func LitBool(v bool) Expr       { return &Literal{Value: datatypes.NewBoolean(v)} }
func LitInt8(v int8) Expr       { return &Literal{Value: datatypes.NewInt8(v)} }
func LitInt16(v int16) Expr     { return &Literal{Value: datatypes.NewInt16(v)} }
func LitInt32(v int32) Expr     { return &Literal{Value: datatypes.NewInt32(v)} }
func LitInt64(v int64) Expr     { return &Literal{Value: datatypes.NewInt64(v)} }
func LitUint8(v uint8) Expr     { return &Literal{Value: datatypes.NewUint8(v)} }
func LitUint16(v uint16) Expr   { return &Literal{Value: datatypes.NewUint16(v)} }
func LitUint32(v uint32) Expr   { return &Literal{Value: datatypes.NewUint32(v)} }
func LitUint64(v uint64) Expr   { return &Literal{Value: datatypes.NewUint64(v)} }
func LitFloat32(v float32) Expr { return &Literal{Value: datatypes.NewFloat32(v)} }
func LitFloat64(v float64) Expr { return &Literal{Value: datatypes.NewFloat64(v)} }
func LitString(v string) Expr   { return &Literal{Value: datatypes.NewString(v)} }
func LitNull() Expr             { return &Literal{Value: datatypes.NewNull()} }

// LitScalar wraps an already built value, typed nulls included.
func LitScalar(v datatypes.ScalarValue) Expr { return &Literal{Value: v} }

// Lit picks the literal kind from the Go type of v. int and uint map to their 64 bit kinds and nil to NULL.
func Lit(v interface{}) Expr {
	switch v := v.(type) {
	case nil:
		return LitNull()
	case bool:
		return LitBool(v)
	case int8:
		return LitInt8(v)
	case int16:
		return LitInt16(v)
	case int32:
		return LitInt32(v)
	case int64:
		return LitInt64(v)
	case int:
		return LitInt64(int64(v))
	case uint8:
		return LitUint8(v)
	case uint16:
		return LitUint16(v)
	case uint32:
		return LitUint32(v)
	case uint64:
		return LitUint64(v)
	case uint:
		return LitUint64(uint64(v))
	case float32:
		return LitFloat32(v)
	case float64:
		return LitFloat64(v)
	case string:
		return LitString(v)
	case datatypes.ScalarValue:
		return LitScalar(v)
	}
	panic(fmt.Sprintf("unsupported literal type %T", v))
}

func NewBinary(lhs Expr, op datatypes.Operator, rhs Expr) Expr {
	return &Binary{Lhs: lhs, Op: op, Rhs: rhs}
}

func Eq(lhs, rhs Expr) Expr       { return NewBinary(lhs, datatypes.Eq, rhs) }
func Neq(lhs, rhs Expr) Expr      { return NewBinary(lhs, datatypes.NotEq, rhs) }
func Lt(lhs, rhs Expr) Expr       { return NewBinary(lhs, datatypes.Lt, rhs) }
func LtEq(lhs, rhs Expr) Expr     { return NewBinary(lhs, datatypes.LtEq, rhs) }
func Gt(lhs, rhs Expr) Expr       { return NewBinary(lhs, datatypes.Gt, rhs) }
func GtEq(lhs, rhs Expr) Expr     { return NewBinary(lhs, datatypes.GtEq, rhs) }
func And(lhs, rhs Expr) Expr      { return NewBinary(lhs, datatypes.And, rhs) }
func Or(lhs, rhs Expr) Expr       { return NewBinary(lhs, datatypes.Or, rhs) }
func Add(lhs, rhs Expr) Expr      { return NewBinary(lhs, datatypes.Plus, rhs) }
func Minus(lhs, rhs Expr) Expr    { return NewBinary(lhs, datatypes.Minus, rhs) }
func Multiply(lhs, rhs Expr) Expr { return NewBinary(lhs, datatypes.Multiply, rhs) }
func Divide(lhs, rhs Expr) Expr   { return NewBinary(lhs, datatypes.Divide, rhs) }

func SumOf(expr Expr) Expr   { return &AggregateExpr{Func: Sum, Expr: expr} }
func MinOf(expr Expr) Expr   { return &AggregateExpr{Func: Min, Expr: expr} }
func MaxOf(expr Expr) Expr   { return &AggregateExpr{Func: Max, Expr: expr} }
func AvgOf(expr Expr) Expr   { return &AggregateExpr{Func: Avg, Expr: expr} }
func CountOf(expr Expr) Expr { return &AggregateExpr{Func: Count, Expr: expr} }
