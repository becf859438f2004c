package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof rune = -1

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

// Lex splits filter text into tokens. The returned slice always ends with
// a TokenEOF token.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) pos() Pos {
	return Pos{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) peek() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r
}

// peekByte returns the byte n bytes past the cursor, or 0.
func (l *lexer) peekByte(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

func (l *lexer) advance() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() {
	for unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *lexer) emit(kind TokenKind, start Pos) Token {
	return Token{Kind: kind, Text: l.src[start.Offset:l.off], Pos: start}
}

func (l *lexer) next() (Token, error) {
	l.skipSpace()
	start := l.pos()

	r := l.peek()
	switch {
	case r == eof:
		return Token{Kind: TokenEOF, Pos: start}, nil
	case r == '(':
		l.advance()
		return l.emit(TokenLParen, start), nil
	case r == ')':
		l.advance()
		return l.emit(TokenRParen, start), nil
	case r == ',':
		l.advance()
		return l.emit(TokenComma, start), nil
	case r == '=':
		l.advance()
		return l.emit(TokenEq, start), nil
	case r == '!':
		l.advance()
		if l.peek() != '=' {
			return Token{}, errorf(start, "unexpected '!', expected '!='")
		}
		l.advance()
		return l.emit(TokenNotEq, start), nil
	case r == '<':
		l.advance()
		switch l.peek() {
		case '=':
			l.advance()
			return l.emit(TokenLtEq, start), nil
		case '>':
			l.advance()
			return l.emit(TokenNotEq, start), nil
		}
		return l.emit(TokenLt, start), nil
	case r == '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.emit(TokenGtEq, start), nil
		}
		return l.emit(TokenGt, start), nil
	case r == '\'' || r == '"':
		return l.lexString(start, r)
	case r == '`':
		return l.lexQuotedIdent(start)
	case isDigit(r), (r == '-' || r == '+') && isDigit(rune(l.peekByte(1))):
		l.advance()
		for isWordChar(l.peek()) {
			l.advance()
		}
		return l.emit(TokenNumber, start), nil
	case isIdentStart(r):
		for isWordChar(l.peek()) {
			l.advance()
		}
		return l.emit(TokenIdent, start), nil
	default:
		return Token{}, errorf(start, "unexpected character %q", r)
	}
}

// lexString scans a quoted literal. A doubled quote character is an
// escaped quote; the token keeps the raw text for the value parser.
func (l *lexer) lexString(start Pos, quote rune) (Token, error) {
	l.advance()
	for {
		switch l.advance() {
		case eof:
			return Token{}, errorf(start, "unterminated string literal")
		case quote:
			if l.peek() != quote {
				return l.emit(TokenString, start), nil
			}
			l.advance()
		}
	}
}

func (l *lexer) lexQuotedIdent(start Pos) (Token, error) {
	l.advance()
	var b strings.Builder
	for {
		r := l.advance()
		switch r {
		case eof:
			return Token{}, errorf(start, "unterminated quoted identifier")
		case '`':
			if l.peek() != '`' {
				if b.Len() == 0 {
					return Token{}, errorf(start, "empty quoted identifier")
				}
				return Token{Kind: TokenQuotedIdent, Text: b.String(), Pos: start}, nil
			}
			l.advance()
		}
		b.WriteRune(r)
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordChar(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
