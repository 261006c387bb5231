package parser

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/xiaobogaga/miniquery/lexer"
	"github.com/xiaobogaga/miniquery/logical"
	"github.com/xiaobogaga/miniquery/util"
)

var log = util.GetLog("parser")

// Parser turns the text of --filter and --select into logical expressions.
type Parser struct {
	// pos is the index of the next token to read.
	pos int
	l   *lexer.Lexer
}

func NewParser() *Parser {
	return &Parser{l: lexer.NewLexer()}
}

type ParseError string

func (e ParseError) Error() string {
	return string(e)
}

const (
	UnexpectedEndErr = ParseError("unexpected end of expression")
	EmptyExprErr     = ParseError("empty expression")
)

// ParseExpr parses one expression.
func ParseExpr(data string) (logical.Expr, error) {
	return NewParser().ParseExpr(data)
}

// ParseExprList parses comma separated expressions.
func ParseExprList(data string) ([]logical.Expr, error) {
	return NewParser().ParseExprList(data)
}

func (parser *Parser) ParseExpr(data string) (logical.Expr, error) {
	if err := parser.lex(data); err != nil {
		return nil, err
	}
	expr, err := parser.resolveExpression()
	if err != nil {
		return nil, err
	}
	if parser.pos < len(parser.l.Tokens) {
		return nil, parser.MakeSyntaxError(parser.pos)
	}
	return expr, nil
}

func (parser *Parser) ParseExprList(data string) ([]logical.Expr, error) {
	if err := parser.lex(data); err != nil {
		return nil, err
	}
	var exprs []logical.Expr
	for {
		expr, err := parser.resolveExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !parser.matchTokenTypes(true, lexer.COMMA) {
			break
		}
	}
	if parser.pos < len(parser.l.Tokens) {
		return nil, parser.MakeSyntaxError(parser.pos)
	}
	return exprs, nil
}

func (parser *Parser) lex(data string) error {
	parser.pos = 0
	if err := parser.l.Lex([]byte(data)); err != nil {
		return errors.Wrapf(err, "lex %q", data)
	}
	log.DebugF("tokens: %s", parser.l)
	if len(parser.l.Tokens) == 0 {
		return EmptyExprErr
	}
	return nil
}

func (parser *Parser) NextToken() (lexer.Token, bool) {
	if parser.pos >= len(parser.l.Tokens) {
		return lexer.Token{}, false
	}
	parser.pos++
	return parser.l.Tokens[parser.pos-1], true
}

func (parser *Parser) UnReadToken() {
	if parser.pos > 0 {
		parser.pos--
	}
}

// matchTokenTypes consumes tokenTypes in order. On a mismatch the tokens read so far are put back when
// ifNotRollback is set.
func (parser *Parser) matchTokenTypes(ifNotRollback bool, tokenTypes ...lexer.TokenType) bool {
	start := parser.pos
	for _, tp := range tokenTypes {
		t, ok := parser.NextToken()
		if !ok || t.Tp != tp {
			if ifNotRollback {
				parser.pos = start
			}
			return false
		}
	}
	return true
}

// MakeSyntaxError reports the token at index.
func (parser *Parser) MakeSyntaxError(index int) error {
	if index >= len(parser.l.Tokens) {
		return UnexpectedEndErr
	}
	t := parser.l.Tokens[index]
	return ParseError(fmt.Sprintf("syntax error at position %d near %q", t.StartPos, parser.l.Data[t.StartPos:]))
}
