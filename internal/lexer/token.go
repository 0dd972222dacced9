package lexer

import (
	"fmt"
)

type TokenKind int

const (
	EOF TokenKind = iota

	INT
	FLOAT

	IDENT

	COMMENT

	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %

	ASSIGN // =

	LAND // &&
	LOR  // ||

	EQ  // ==
	NEQ // !=
	LT  // <
	LEQ // <=
	GT  // >
	GEQ // >=

	LPAREN   // (
	LBRACKET // [
	LBRACE   // {

	RPAREN   // )
	RBRACKET // ]
	RBRACE   // }

	SEMICOLON // ;
	COMMA     // ,
	XMARK     // !

	FUNC
	INT_TYPE
	FLOAT_TYPE
	WHILE
	FOR
	IF
	ELSE
	CONTINUE
	BREAK
	RETURN
)

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case IDENT:
		return "IDENT"
	case COMMENT:
		return "COMMENT"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case PERCENT:
		return "PERCENT"
	case ASSIGN:
		return "ASSIGN"
	case LAND:
		return "LAND"
	case LOR:
		return "LOR"
	case EQ:
		return "EQ"
	case NEQ:
		return "NEQ"
	case LT:
		return "LT"
	case LEQ:
		return "LEQ"
	case GT:
		return "GT"
	case GEQ:
		return "GEQ"
	case LPAREN:
		return "LPAREN"
	case LBRACKET:
		return "LBRACKET"
	case LBRACE:
		return "LBRACE"
	case RPAREN:
		return "RPAREN"
	case RBRACKET:
		return "RBRACKET"
	case RBRACE:
		return "RBRACE"
	case SEMICOLON:
		return "SEMICOLON"
	case COMMA:
		return "COMMA"
	case XMARK:
		return "XMARK"
	case FUNC:
		return "FUNC"
	case INT_TYPE:
		return "INT_TYPE"
	case FLOAT_TYPE:
		return "FLOAT_TYPE"
	case WHILE:
		return "WHILE"
	case FOR:
		return "FOR"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case CONTINUE:
		return "CONTINUE"
	case BREAK:
		return "BREAK"
	case RETURN:
		return "RETURN"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

var keywords = map[string]TokenKind{
	"func":     FUNC,
	"int":      INT_TYPE,
	"float":    FLOAT_TYPE,
	"while":    WHILE,
	"for":      FOR,
	"if":       IF,
	"else":     ELSE,
	"continue": CONTINUE,
	"break":    BREAK,
	"return":   RETURN,
}

type Metadata struct {
	Line   int
	Column int
	Length int
}

// Token is immutable once produced. Int and Float hold the parsed value of
// INT and FLOAT literals and are zero for every other kind.
type Token struct {
	Kind  TokenKind
	Value string

	Int   int32
	Float float32

	Metadata Metadata
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case INT, FLOAT, IDENT, COMMENT:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return fmt.Sprintf("%s()", t.Kind)
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
