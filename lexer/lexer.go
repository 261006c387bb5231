package lexer

import (
	"bytes"
	"fmt"
)

type TokenType int

func (t TokenType) String() string {
	return revertKeyWords[t]
}

// Tokens of the expression language accepted by --filter and --select:
//
//	c2 > 3 AND c1 != 'x'
//	c3 + 1, `c3 + 1` * 2.5
const (
	WORD        TokenType = iota // a bare column name
	IDENT                        // a `quoted` column name
	INTVALUE                     // 10
	FLOATVALUE                   // 10.5
	STRINGVALUE                  // 'a' or "a"
	TRUE
	FALSE
	NULL
	AND
	OR
	PLUS
	MINUS
	STAR
	DIVIDE
	EQUAL
	NOTEQUAL
	LESS
	LESSEQUAL
	GREAT
	GREATEQUAL
	LEFTBRACKET
	RIGHTBRACKET
	COMMA
)

type LexicalError string

func (err LexicalError) Error() string {
	return string(err)
}

const (
	StringUnExpecedEndErr = LexicalError("unexpected string end")
	IdentUnExpectedEndErr = LexicalError("unexpected ident end")
	IdentFormatErr        = LexicalError("wrong ident")
	WordFormatErr         = LexicalError("wrong word format")
	NumberFormatErr       = LexicalError("wrong number format")
	UnknownTokenErr       = LexicalError("unknown token")
)

// Token marks the bytes [StartPos, EndPos) of Lexer.Data. For quoted strings and idents the quotes are excluded.
type Token struct {
	Tp       TokenType
	StartPos int
	EndPos   int
}

type Lexer struct {
	Tokens []Token
	Data   []byte
	pos    int
}

func NewLexer() *Lexer {
	return &Lexer{}
}

var keyWords = map[string]TokenType{}
var singleCharKeyWordMap = map[byte]TokenType{}
var revertKeyWords = map[TokenType]string{}

func init() {
	keyWords["TRUE"] = TRUE
	keyWords["FALSE"] = FALSE
	keyWords["NULL"] = NULL
	keyWords["AND"] = AND
	keyWords["OR"] = OR

	singleCharKeyWordMap['+'] = PLUS
	singleCharKeyWordMap['-'] = MINUS
	singleCharKeyWordMap['*'] = STAR
	singleCharKeyWordMap['/'] = DIVIDE
	singleCharKeyWordMap['('] = LEFTBRACKET
	singleCharKeyWordMap[')'] = RIGHTBRACKET
	singleCharKeyWordMap[','] = COMMA

	for k, v := range keyWords {
		revertKeyWords[v] = k
	}
	revertKeyWords[WORD] = "WORD"
	revertKeyWords[IDENT] = "IDENT"
	revertKeyWords[INTVALUE] = "INTVALUE"
	revertKeyWords[FLOATVALUE] = "FLOATVALUE"
	revertKeyWords[STRINGVALUE] = "STRINGVALUE"
	revertKeyWords[PLUS] = "PLUS"
	revertKeyWords[MINUS] = "MINUS"
	revertKeyWords[STAR] = "STAR"
	revertKeyWords[DIVIDE] = "DIVIDE"
	revertKeyWords[EQUAL] = "EQUAL"
	revertKeyWords[NOTEQUAL] = "NOTEQUAL"
	revertKeyWords[LESS] = "LESS"
	revertKeyWords[LESSEQUAL] = "LESSEQUAL"
	revertKeyWords[GREAT] = "GREAT"
	revertKeyWords[GREATEQUAL] = "GREATEQUAL"
	revertKeyWords[LEFTBRACKET] = "LEFTBRACKET"
	revertKeyWords[RIGHTBRACKET] = "RIGHTBRACKET"
	revertKeyWords[COMMA] = "COMMA"
}

func (l *Lexer) Reset() {
	l.Data = nil
	l.Tokens = l.Tokens[:0]
	l.pos = 0
}

func (l *Lexer) Lex(data []byte) error {
	l.Reset()
	l.Data = data
	return l.read()
}

func (l *Lexer) read() (err error) {
	for l.pos < len(l.Data) {
		switch l.Data[l.pos] {
		case '=', '!', '>', '<', '+', '-', '*', '/', '(', ')', ',':
			err = l.readChars()
		case '`':
			err = l.readIdent()
		case '\t', ' ', '\n', '\r':
			l.readContinuousSpace()
		case '"', '\'':
			err = l.readString()
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			err = l.readNumberValue()
		default:
			err = l.readWord()
		}
		if err != nil {
			return
		}
	}
	return err
}

func (l *Lexer) readChars() error {
	b := l.Data[l.pos]
	switch b {
	case '!':
		// Next should be =
		l.pos++
		if !l.matchChar('=') {
			return UnknownTokenErr
		}
		l.pos++
		l.Tokens = append(l.Tokens, Token{Tp: NOTEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
	case '>':
		l.pos++
		if l.matchChar('=') {
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: GREATEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		} else {
			l.Tokens = append(l.Tokens, Token{Tp: GREAT, StartPos: l.pos - 1, EndPos: l.pos})
		}
	case '<':
		l.pos++
		switch {
		case l.matchChar('='):
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: LESSEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		case l.matchChar('>'):
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: NOTEQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		default:
			l.Tokens = append(l.Tokens, Token{Tp: LESS, StartPos: l.pos - 1, EndPos: l.pos})
		}
	case '=':
		// = and == both mean equal.
		l.pos++
		if l.matchChar('=') {
			l.pos++
			l.Tokens = append(l.Tokens, Token{Tp: EQUAL, StartPos: l.pos - 2, EndPos: l.pos})
		} else {
			l.Tokens = append(l.Tokens, Token{Tp: EQUAL, StartPos: l.pos - 1, EndPos: l.pos})
		}
	default:
		l.pos++
		tp, ok := singleCharKeyWordMap[b]
		if !ok {
			return UnknownTokenErr
		}
		l.Tokens = append(l.Tokens, Token{Tp: tp, StartPos: l.pos - 1, EndPos: l.pos})
	}
	return nil
}

func (l *Lexer) readContinuousSpace() {
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
	}
}

func (l *Lexer) readWord() error {
	// word should start by ['a'-'z'] | ['A' - 'Z'] | '_' and then can contain [0-9] too.
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		letter := c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
		if l.pos == startPos {
			if !letter {
				return WordFormatErr
			}
			continue
		}
		if !letter && (c < '0' || c > '9') {
			break
		}
	}
	keyWord, ok := keyWords[string(bytes.ToUpper(l.Data[startPos:l.pos]))]
	if !ok {
		// Should be a column or function name.
		l.Tokens = append(l.Tokens, Token{Tp: WORD, StartPos: startPos, EndPos: l.pos})
	} else {
		l.Tokens = append(l.Tokens, Token{Tp: keyWord, StartPos: startPos, EndPos: l.pos})
	}
	return nil
}

func (l *Lexer) matchChar(b byte) bool {
	if l.pos >= len(l.Data) {
		return false
	}
	return l.Data[l.pos] == b
}

// readString reads until the closing quote. A doubled quote inside the string stands for the quote itself and is
// undone by Unquote.
func (l *Lexer) readString() error {
	quote := l.Data[l.pos]
	l.pos++
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		if l.Data[l.pos] != quote {
			continue
		}
		if l.pos+1 < len(l.Data) && l.Data[l.pos+1] == quote {
			l.pos++
			continue
		}
		l.Tokens = append(l.Tokens, Token{Tp: STRINGVALUE, StartPos: startPos, EndPos: l.pos})
		l.pos++
		return nil
	}
	return StringUnExpecedEndErr
}

func (l *Lexer) readNumberValue() error {
	isFloat := false
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		c := l.Data[l.pos]
		if c == '.' {
			if isFloat {
				return NumberFormatErr
			}
			isFloat = true
		} else if c < '0' || c > '9' {
			break
		}
	}
	if l.Data[l.pos-1] == '.' {
		return NumberFormatErr
	}
	if isFloat {
		l.Tokens = append(l.Tokens, Token{Tp: FLOATVALUE, StartPos: startPos, EndPos: l.pos})
	} else {
		l.Tokens = append(l.Tokens, Token{Tp: INTVALUE, StartPos: startPos, EndPos: l.pos})
	}
	return nil
}

// Read until the closing backtick. Anything but a backtick can be part of the ident.
func (l *Lexer) readIdent() error {
	l.pos++
	startPos := l.pos
	for ; l.pos < len(l.Data); l.pos++ {
		if l.Data[l.pos] == '`' {
			if l.pos == startPos {
				return IdentFormatErr
			}
			l.Tokens = append(l.Tokens, Token{Tp: IDENT, StartPos: startPos, EndPos: l.pos})
			l.pos++
			return nil
		}
	}
	return IdentUnExpectedEndErr
}

// Text returns the bytes a token covers.
func (l *Lexer) Text(t Token) string {
	return string(l.Data[t.StartPos:t.EndPos])
}

// Unquote returns the value of a STRINGVALUE token.
func (l *Lexer) Unquote(t Token) string {
	if t.StartPos == 0 {
		return l.Text(t)
	}
	quote := []byte{l.Data[t.StartPos-1]}
	doubled := []byte{quote[0], quote[0]}
	return string(bytes.ReplaceAll(l.Data[t.StartPos:t.EndPos], doubled, quote))
}

func (l *Lexer) String() string {
	var buf bytes.Buffer
	for i, token := range l.Tokens {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(fmt.Sprintf("{%s, StartPos: %d, EndPos: %d}", token.Tp, token.StartPos, token.EndPos))
	}
	return buf.String()
}
