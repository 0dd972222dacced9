package lexer

import (
	"strconv"

	"github.com/kievzenit/nagato/internal/compiler_errors"
)

func newUnexpectedError(unexpected byte, line, col int) *compiler_errors.Error {
	return compiler_errors.New(
		compiler_errors.LexKind,
		line, col,
		"unexpected character: '%s'", string(unexpected))
}

func newUnexpectedExpectedError(unexpected byte, expected byte, line, col int) *compiler_errors.Error {
	return compiler_errors.New(
		compiler_errors.LexKind,
		line, col,
		"expected '%s', but got: '%s', instead",
		string(expected),
		string(unexpected))
}

func newExpectedError(expected byte, line, col int) *compiler_errors.Error {
	return compiler_errors.New(
		compiler_errors.LexKind,
		line, col,
		"expected '%s'", string(expected))
}

// Lexer turns source text into tokens on demand. Next hands out one token per
// call and keeps returning EOF once the input is exhausted; Reset rewinds it.
type Lexer struct {
	buf []byte
	pos int

	line, col int

	eh compiler_errors.ErrorHandler
}

func NewLexer(buf []byte, eh compiler_errors.ErrorHandler) *Lexer {
	return &Lexer{
		buf: buf,
		pos: 0,

		line: 1,
		col:  1,

		eh: eh,
	}
}

func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
	l.col = 1
}

func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0)

	for {
		token := l.Next()
		tokens = append(tokens, token)
		if token.Kind == EOF {
			return tokens
		}
	}
}

func (l *Lexer) Next() Token {
	l.skipWhitespace()

	if !l.hasChars() {
		return Token{
			Kind:     EOF,
			Value:    EOF.String(),
			Metadata: Metadata{Line: l.line, Column: l.col},
		}
	}

	startPos, line, col := l.pos, l.line, l.col

	var token Token
	switch {
	case l.read() == '#':
		token = l.processComment()
	case l.isCurrDigit():
		token = l.processNumber()
	case l.isCurrIdentifier():
		token = l.processIdentifier()
	case l.isCurrPunctuation():
		token = l.processPunctuation()
	default:
		l.eh.AddError(newUnexpectedError(l.read(), l.line, l.col))
		l.eh.FailNow()
	}

	token.Metadata = Metadata{
		Line:   line,
		Column: col,
		Length: l.pos - startPos,
	}

	return token
}

func (l *Lexer) skipWhitespace() {
	for l.hasChars() && l.isCurrSkippable() {
		l.advance()
	}
}

func (l *Lexer) isCurrIdentifier() bool {
	return (l.read() >= 'a' && l.read() <= 'z') || (l.read() >= 'A' && l.read() <= 'Z') || l.read() == '_'
}

func (l *Lexer) isCurrDigit() bool {
	return l.read() >= '0' && l.read() <= '9'
}

func (l *Lexer) isCurrPunctuation() bool {
	switch l.read() {
	case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '(', ')', '[', ']', '{', '}', ';', ',':
		return true
	}
	return false
}

func (l *Lexer) isCurrSkippable() bool {
	switch l.read() {
	case ' ', '\t', '\n', '\r':
		return true
	}

	return false
}

func (l *Lexer) processComment() Token {
	l.advance()

	start := l.pos
	for l.hasChars() && l.read() != '\n' {
		l.advance()
	}

	return Token{
		Kind:  COMMENT,
		Value: string(l.buf[start:l.pos]),
	}
}

func (l *Lexer) processIdentifier() Token {
	start := l.pos
	for l.hasChars() && (l.isCurrIdentifier() || l.isCurrDigit()) {
		l.advance()
	}
	identifier := string(l.buf[start:l.pos])

	if kind, ok := keywords[identifier]; ok {
		return Token{
			Kind:  kind,
			Value: identifier,
		}
	}

	return Token{
		Kind:  IDENT,
		Value: identifier,
	}
}

func (l *Lexer) processNumber() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.hasChars() && l.isCurrDigit() {
		l.advance()
	}

	isFloat := false
	if l.hasChars() && l.read() == '.' && l.hasNext() && isDigit(l.next()) {
		isFloat = true
		l.advance()
		for l.hasChars() && l.isCurrDigit() {
			l.advance()
		}
	}
	literal := string(l.buf[start:l.pos])

	if !isFloat {
		value, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			l.eh.AddError(compiler_errors.New(
				compiler_errors.LexKind,
				line, col,
				"integer literal out of range: %s", literal))
			l.eh.FailNow()
		}

		return Token{
			Kind:  INT,
			Value: literal,
			Int:   int32(value),
		}
	}

	// optional single-precision marker, 1.5f
	if l.hasChars() && (l.read() == 'f' || l.read() == 'F') {
		l.advance()
	}

	value, err := strconv.ParseFloat(literal, 32)
	if err != nil {
		l.eh.AddError(compiler_errors.New(
			compiler_errors.LexKind,
			line, col,
			"float literal out of range: %s", literal))
		l.eh.FailNow()
	}

	return Token{
		Kind:  FLOAT,
		Value: literal,
		Float: float32(value),
	}
}

// processPair emits double when the character after the current one is
// second, single otherwise.
func (l *Lexer) processPair(second byte, double TokenKind, single TokenKind) Token {
	first := l.read()
	l.advance()

	if l.hasChars() && l.read() == second {
		l.advance()
		return Token{
			Kind:  double,
			Value: string([]byte{first, second}),
		}
	}

	return Token{
		Kind:  single,
		Value: string(first),
	}
}

func (l *Lexer) processDoubled(kind TokenKind) Token {
	first := l.read()
	line, col := l.line, l.col
	l.advance()

	if !l.hasChars() {
		l.eh.AddError(newExpectedError(first, l.line, l.col))
		l.eh.FailNow()
	}

	if l.read() != first {
		l.eh.AddError(newUnexpectedExpectedError(l.read(), first, line, col))
		l.eh.FailNow()
	}
	l.advance()

	return Token{
		Kind:  kind,
		Value: string([]byte{first, first}),
	}
}

func (l *Lexer) processSingle(kind TokenKind) Token {
	value := string(l.read())
	l.advance()

	return Token{
		Kind:  kind,
		Value: value,
	}
}

func (l *Lexer) processPunctuation() Token {
	switch l.read() {
	case '+':
		return l.processSingle(PLUS)
	case '-':
		return l.processSingle(MINUS)
	case '*':
		return l.processSingle(ASTERISK)
	case '/':
		return l.processSingle(SLASH)
	case '%':
		return l.processSingle(PERCENT)
	case '=':
		return l.processPair('=', EQ, ASSIGN)
	case '!':
		return l.processPair('=', NEQ, XMARK)
	case '<':
		return l.processPair('=', LEQ, LT)
	case '>':
		return l.processPair('=', GEQ, GT)
	case '&':
		return l.processDoubled(LAND)
	case '|':
		return l.processDoubled(LOR)
	case '(':
		return l.processSingle(LPAREN)
	case ')':
		return l.processSingle(RPAREN)
	case '[':
		return l.processSingle(LBRACKET)
	case ']':
		return l.processSingle(RBRACKET)
	case '{':
		return l.processSingle(LBRACE)
	case '}':
		return l.processSingle(RBRACE)
	case ';':
		return l.processSingle(SEMICOLON)
	case ',':
		return l.processSingle(COMMA)
	}

	panic("unreachable")
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.buf)
}

func (l *Lexer) hasNext() bool {
	return l.pos+1 < len(l.buf)
}

func (l *Lexer) advance() {
	if l.buf[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) next() byte { return l.buf[l.pos+1] }
func (l *Lexer) read() byte { return l.buf[l.pos] }
