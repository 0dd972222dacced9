package lexer

type TokenScanner interface {
	Read() *Token
	Peek() *Token
	HasTokens() bool
}

// SimpleTokenScanner walks a token slice that ends with EOF. Reading past the
// end keeps yielding the EOF token.
type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

// NewTokenScanner drops comment tokens and appends EOF if it is missing.
func NewTokenScanner(tokens []Token) TokenScanner {
	sanitized := make([]Token, 0, len(tokens)+1)
	for _, token := range tokens {
		if token.Kind == COMMENT {
			continue
		}
		sanitized = append(sanitized, token)
	}

	if len(sanitized) == 0 || sanitized[len(sanitized)-1].Kind != EOF {
		sanitized = append(sanitized, Token{Kind: EOF, Value: EOF.String()})
	}

	return &SimpleTokenScanner{
		tokens: sanitized,
	}
}

func (s *SimpleTokenScanner) Read() *Token {
	if s.pos >= len(s.tokens) {
		return &s.tokens[len(s.tokens)-1]
	}

	token := &s.tokens[s.pos]
	s.pos++

	return token
}

func (s *SimpleTokenScanner) Peek() *Token {
	if s.pos >= len(s.tokens) {
		return &s.tokens[len(s.tokens)-1]
	}

	return &s.tokens[s.pos]
}

func (s *SimpleTokenScanner) HasTokens() bool {
	return s.pos < len(s.tokens)
}
