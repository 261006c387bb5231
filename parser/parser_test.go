package parser

import (
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaobogaga/miniquery/datatypes"
	"github.com/xiaobogaga/miniquery/logical"
)

func TestParseExprPrecedence(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{"c1", "c1"},
		{"a + b * c - d", "a + b * c - d"},
		{"c2 > 3 AND c1 != 'x'", "c2 > 3 AND c1 != x"},
		{"a OR b = c + d AND e", "a OR b = c + d AND e"},
		{"`c3 + 1` * 2.5", "c3 + 1 * 2.5"},
		{"-5 + c2", "-5 + c2"},
		{"(c2)", "c2"},
		{"c1 <> NULL", "c1 != NULL"},
		{"sum(c2)", "SUM(c2)"},
	}
	for _, testCase := range testCases {
		expr, err := ParseExpr(testCase.input)
		require.NoError(t, err, testCase.input)
		assert.Equal(t, testCase.expect, expr.String(), testCase.input)
	}
}

func TestParseExprTree(t *testing.T) {
	expr, err := ParseExpr("a + b * c - d")
	require.NoError(t, err)
	assert.Equal(t, logical.Minus(
		logical.Add(logical.Col("a"), logical.Multiply(logical.Col("b"), logical.Col("c"))),
		logical.Col("d"),
	), expr)

	expr, err = ParseExpr("a OR b = c + d AND e")
	require.NoError(t, err)
	assert.Equal(t, logical.Or(
		logical.Col("a"),
		logical.And(logical.Eq(logical.Col("b"), logical.Add(logical.Col("c"), logical.Col("d"))), logical.Col("e")),
	), expr)

	expr, err = ParseExpr("(a + b) * c")
	require.NoError(t, err)
	assert.Equal(t, logical.Multiply(logical.Add(logical.Col("a"), logical.Col("b")), logical.Col("c")), expr)

	expr, err = ParseExpr("a - b - c")
	require.NoError(t, err)
	assert.Equal(t, logical.Minus(logical.Minus(logical.Col("a"), logical.Col("b")), logical.Col("c")), expr)
}

func TestParseLiterals(t *testing.T) {
	testCases := []struct {
		input string
		kind  arrow.Type
		value string
	}{
		{"10", arrow.INT64, "10"},
		{"-10", arrow.INT64, "-10"},
		{"2.5", arrow.FLOAT64, "2.5"},
		{"-2.5", arrow.FLOAT64, "-2.5"},
		{"'it''s'", arrow.STRING, "it's"},
		{`"x"`, arrow.STRING, "x"},
		{"true", arrow.BOOL, "true"},
		{"FALSE", arrow.BOOL, "false"},
		{"null", arrow.NULL, "NULL"},
	}
	for _, testCase := range testCases {
		expr, err := ParseExpr(testCase.input)
		require.NoError(t, err, testCase.input)
		lit, ok := expr.(*logical.Literal)
		require.True(t, ok, testCase.input)
		assert.Equal(t, testCase.kind, lit.Value.Kind(), testCase.input)
		assert.Equal(t, testCase.value, lit.Value.String(), testCase.input)
	}
}

func TestParseAggregate(t *testing.T) {
	expr, err := ParseExpr("Max(c2 + 1)")
	require.NoError(t, err)
	aggr, ok := expr.(*logical.AggregateExpr)
	require.True(t, ok)
	assert.Equal(t, logical.Max, aggr.Func)
	assert.Equal(t, logical.Add(logical.Col("c2"), logical.Lit(1)), aggr.Expr)
}

func TestParseExprList(t *testing.T) {
	exprs, err := ParseExprList("c1, c3, c3 + 1")
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	assert.Equal(t, "c1", exprs[0].String())
	assert.Equal(t, "c3", exprs[1].String())
	assert.Equal(t, "c3 + 1", exprs[2].String())
	bin, ok := exprs[2].(*logical.Binary)
	require.True(t, ok)
	assert.Equal(t, datatypes.Plus, bin.Op)
}

func TestParseErrors(t *testing.T) {
	testCases := []string{
		"",
		"   ",
		"c1 +",
		"(c1",
		"c1 c2",
		"c1,",
		"foo(c1)",
		"- 'x'",
		"99999999999999999999",
		")",
	}
	for _, testCase := range testCases {
		_, err := ParseExprList(testCase)
		assert.Error(t, err, testCase)
	}
	_, err := ParseExpr("c1 +")
	assert.Equal(t, UnexpectedEndErr, err)
	_, err = ParseExpr("")
	assert.Equal(t, EmptyExprErr, err)
	_, err = ParseExpr("c1 c2")
	assert.EqualError(t, err, `syntax error at position 3 near "c2"`)
}

func TestParserReuse(t *testing.T) {
	parser := NewParser()
	first, err := parser.ParseExpr("c1 = 1")
	require.NoError(t, err)
	second, err := parser.ParseExpr("c2")
	require.NoError(t, err)
	assert.Equal(t, "c1 = 1", first.String())
	assert.Equal(t, "c2", second.String())
}
