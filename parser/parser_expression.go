package parser

import (
	"strconv"
	"strings"

	"github.com/xiaobogaga/miniquery/datatypes"
	"github.com/xiaobogaga/miniquery/lexer"
	"github.com/xiaobogaga/miniquery/logical"
)

// An expression is like:
// term (ope term)*
// a term can be:
// * literal | (expr) | identifier | functionCall | -number
// where functionCall is one of SUM, MIN, MAX, AVG, COUNT applied to one expr,
// and ope supports, from the loosest to the tightest binding:
// OR; AND; =, !=, <>, <, <=, >, >=; +, -; *, /.
// Operators of the same priority are left associative.
func (parser *Parser) resolveExpression() (logical.Expr, error) {
	exprTerm, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	exprs := []logical.Expr{exprTerm}
	var ops []expressionOp
	for {
		token, ok := parser.NextToken()
		if !ok {
			break
		}
		op, isOp := operations[token.Tp]
		if !isOp {
			parser.UnReadToken()
			break
		}
		rightExprTerm, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		exprs = append(exprs, rightExprTerm)
	}
	return parser.buildExpressionsTree(ops, exprs), nil
}

type expressionOp struct {
	Op       datatypes.Operator
	Priority int
}

var operations = map[lexer.TokenType]expressionOp{
	lexer.OR:         {datatypes.Or, 1},
	lexer.AND:        {datatypes.And, 2},
	lexer.EQUAL:      {datatypes.Eq, 3},
	lexer.NOTEQUAL:   {datatypes.NotEq, 3},
	lexer.LESS:       {datatypes.Lt, 3},
	lexer.LESSEQUAL:  {datatypes.LtEq, 3},
	lexer.GREAT:      {datatypes.Gt, 3},
	lexer.GREATEQUAL: {datatypes.GtEq, 3},
	lexer.PLUS:       {datatypes.Plus, 4},
	lexer.MINUS:      {datatypes.Minus, 4},
	lexer.STAR:       {datatypes.Multiply, 5},
	lexer.DIVIDE:     {datatypes.Divide, 5},
}

func (parser *Parser) buildExpressionsTree(ops []expressionOp, exprTerms []logical.Expr) logical.Expr {
	if len(ops) == 0 {
		return exprTerms[0]
	}
	ret, _ := parser.buildExpressionsTree0(ops, exprTerms, 0, 0)
	return ret
}

// buildExpressionsTree0 folds exprTerms[loc:] while the operators bind at least as tight as minPriority. A tighter
// operator on the right takes the right operand first.
func (parser *Parser) buildExpressionsTree0(ops []expressionOp, exprTerms []logical.Expr, loc int, minPriority int) (logical.Expr, int) {
	lhs := exprTerms[loc]
	i := loc
	for i < len(ops) && ops[i].Priority >= minPriority {
		op := ops[i]
		rhs := exprTerms[i+1]
		j := i + 1
		for j < len(ops) && ops[j].Priority > op.Priority {
			rhs, j = parser.buildExpressionsTree0(ops, exprTerms, j, ops[j].Priority)
		}
		lhs = logical.NewBinary(lhs, op.Op, rhs)
		exprTerms[j] = lhs
		i = j
	}
	return lhs, i
}

func (parser *Parser) parseExpressionTerm() (logical.Expr, error) {
	token, ok := parser.NextToken()
	if !ok {
		return nil, UnexpectedEndErr
	}
	switch token.Tp {
	case lexer.IDENT:
		return logical.Col(parser.l.Text(token)), nil
	case lexer.WORD:
		// Must be function call or identifier
		if parser.matchTokenTypes(true, lexer.LEFTBRACKET) {
			parser.UnReadToken()
			return parser.parseFunctionCallExpression(token)
		}
		return logical.Col(parser.l.Text(token)), nil
	case lexer.INTVALUE, lexer.FLOATVALUE, lexer.STRINGVALUE, lexer.TRUE, lexer.FALSE, lexer.NULL:
		parser.UnReadToken()
		return parser.parseLiteralExpressionTerm(false)
	case lexer.MINUS:
		// literal can be -5
		return parser.parseLiteralExpressionTerm(true)
	case lexer.LEFTBRACKET:
		return parser.parseSubExpressionTerm()
	}
	return nil, parser.MakeSyntaxError(parser.pos - 1)
}

func (parser *Parser) parseSubExpressionTerm() (logical.Expr, error) {
	expr, err := parser.resolveExpression()
	if err != nil {
		return nil, err
	}
	if !parser.matchTokenTypes(false, lexer.RIGHTBRACKET) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	return expr, nil
}

func (parser *Parser) parseLiteralExpressionTerm(negative bool) (logical.Expr, error) {
	token, ok := parser.NextToken()
	if !ok {
		return nil, UnexpectedEndErr
	}
	text := parser.l.Text(token)
	if negative {
		text = "-" + text
	}
	switch token.Tp {
	case lexer.INTVALUE:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, ParseError("wrong int value " + text + ": " + err.Error())
		}
		return logical.LitInt64(v), nil
	case lexer.FLOATVALUE:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, ParseError("wrong float value " + text + ": " + err.Error())
		}
		return logical.LitFloat64(v), nil
	}
	if negative {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	switch token.Tp {
	case lexer.STRINGVALUE:
		return logical.LitString(parser.l.Unquote(token)), nil
	case lexer.TRUE:
		return logical.LitBool(true), nil
	case lexer.FALSE:
		return logical.LitBool(false), nil
	case lexer.NULL:
		return logical.LitNull(), nil
	}
	return nil, parser.MakeSyntaxError(parser.pos - 1)
}

var aggregateFuncs = map[string]logical.AggregateFunc{
	"SUM":   logical.Sum,
	"MIN":   logical.Min,
	"MAX":   logical.Max,
	"AVG":   logical.Avg,
	"COUNT": logical.Count,
}

func (parser *Parser) parseFunctionCallExpression(funcName lexer.Token) (logical.Expr, error) {
	fn, ok := aggregateFuncs[strings.ToUpper(parser.l.Text(funcName))]
	if !ok {
		return nil, ParseError("unknown function " + parser.l.Text(funcName))
	}
	if !parser.matchTokenTypes(false, lexer.LEFTBRACKET) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	param, err := parser.resolveExpression()
	if err != nil {
		return nil, err
	}
	if !parser.matchTokenTypes(false, lexer.RIGHTBRACKET) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	return &logical.AggregateExpr{Func: fn, Expr: param}, nil
}
