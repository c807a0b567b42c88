// Package scanner scans Lox source code into a sequence of lexical tokens.
package scanner

import (
	"strconv"

	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/token"
)

const nullChar = 0

// Scanner scans Lox source code into lexical tokens.
type Scanner struct {
	src   string
	start int // position of the first character of the lexeme being scanned
	pos   int // position of the character currently being considered
	line  int // line of the character currently being considered
	sink  *loxerror.Sink
}

// New constructs a Scanner which will scan src, reporting lexical errors to sink.
func New(src string, sink *loxerror.Sink) *Scanner {
	return &Scanner{
		src:  src,
		line: 1,
		sink: sink,
	}
}

// Scan scans the source code into a sequence of tokens terminated by a single EOF token.
// Lexical errors are reported to the Sink passed to New; scanning continues past them.
func (s *Scanner) Scan() []token.Token {
	var tokens []token.Token
	for {
		tok, ok := s.scanToken()
		if !ok {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (s *Scanner) scanToken() (token.Token, bool) {
	s.start = s.pos
	switch c := s.advance(); c {
	case nullChar:
		return s.newToken(token.EOF), true
	case ' ', '\r', '\t':
		return token.Token{}, false
	case '\n':
		s.line++
		return token.Token{}, false
	case '(':
		return s.newToken(token.LeftParen), true
	case ')':
		return s.newToken(token.RightParen), true
	case '{':
		return s.newToken(token.LeftBrace), true
	case '}':
		return s.newToken(token.RightBrace), true
	case ',':
		return s.newToken(token.Comma), true
	case '.':
		return s.newToken(token.Dot), true
	case '-':
		return s.newToken(token.Minus), true
	case '+':
		return s.newToken(token.Plus), true
	case ';':
		return s.newToken(token.Semicolon), true
	case '*':
		return s.newToken(token.Star), true
	case '!':
		return s.newToken(s.ifMatch('=', token.BangEqual, token.Bang)), true
	case '=':
		return s.newToken(s.ifMatch('=', token.EqualEqual, token.Equal)), true
	case '<':
		return s.newToken(s.ifMatch('=', token.LessEqual, token.Less)), true
	case '>':
		return s.newToken(s.ifMatch('=', token.GreaterEqual, token.Greater)), true
	case '/':
		switch {
		case s.peek() == '/':
			s.consumeLineComment()
			return token.Token{}, false
		case s.peek() == '*':
			s.advance()
			s.consumeBlockComment()
			return token.Token{}, false
		default:
			return s.newToken(token.Slash), true
		}
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(c):
			return s.scanNumber(), true
		case isAlpha(c):
			return s.scanIdentifier(), true
		default:
			s.sink.AddLexical(s.line, "Unexpected character.")
			return token.Token{}, false
		}
	}
}

func (s *Scanner) advance() byte {
	if s.atEnd() {
		return nullChar
	}
	c := s.src[s.pos]
	s.pos++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return nullChar
	}
	return s.src[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.src) {
		return nullChar
	}
	return s.src[s.pos+1]
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

// ifMatch consumes the next character and returns matched if it equals want, otherwise it returns unmatched without
// consuming anything.
func (s *Scanner) ifMatch(want byte, matched, unmatched token.Type) token.Type {
	if s.peek() != want {
		return unmatched
	}
	s.advance()
	return matched
}

func (s *Scanner) consumeLineComment() {
	for s.peek() != '\n' && !s.atEnd() {
		s.advance()
	}
}

// consumeBlockComment consumes a /* ... */ comment, which may be nested and may span multiple lines.
// The opening "/*" has already been consumed when this is called.
func (s *Scanner) consumeBlockComment() {
	depth := 1
	for depth > 0 && !s.atEnd() {
		switch {
		case s.peek() == '/' && s.peekNext() == '*':
			s.advance()
			s.advance()
			depth++
		case s.peek() == '*' && s.peekNext() == '/':
			s.advance()
			s.advance()
			depth--
		case s.peek() == '\n':
			s.line++
			s.advance()
		default:
			s.advance()
		}
	}
	if depth > 0 {
		s.sink.AddLexical(s.line, "Unterminated block comment.")
	}
}

func (s *Scanner) scanString() (token.Token, bool) {
	startLine := s.line
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.sink.AddLexical(startLine, "Unterminated string.")
		return token.Token{}, false
	}
	s.advance() // closing quote
	value := s.src[s.start+1 : s.pos-1]
	return s.newTokenWithLiteral(token.String, value), true
}

func (s *Scanner) scanNumber() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.lexeme(), 64)
	if err != nil {
		panic("scanner: number literal failed to parse: " + err.Error())
	}
	return s.newTokenWithLiteral(token.Number, value)
}

func (s *Scanner) scanIdentifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	return s.newToken(token.LookupIdent(s.lexeme()))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func (s *Scanner) lexeme() string {
	return s.src[s.start:s.pos]
}

func (s *Scanner) newToken(t token.Type) token.Token {
	return s.newTokenWithLiteral(t, nil)
}

func (s *Scanner) newTokenWithLiteral(t token.Type, literal any) token.Token {
	return token.Token{
		Type:    t,
		Lexeme:  s.lexeme(),
		Literal: literal,
		Line:    s.line,
	}
}
