package syntax

import "fmt"

// TokenKind identifies a lexical token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent       // bare word; keywords are bare words too
	TokenQuotedIdent // `back quoted` attribute name, never a keyword
	TokenString      // 'single' or "double" quoted literal, quotes kept
	TokenNumber      // signed numeric literal
	TokenLParen      // (
	TokenRParen      // )
	TokenComma       // ,
	TokenEq          // =
	TokenNotEq       // != or <>
	TokenLt          // <
	TokenLtEq        // <=
	TokenGt          // >
	TokenGtEq        // >=
)

var tokenNames = [...]string{
	TokenEOF:         "EOF",
	TokenIdent:       "Ident",
	TokenQuotedIdent: "QuotedIdent",
	TokenString:      "String",
	TokenNumber:      "Number",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenComma:       ",",
	TokenEq:          "=",
	TokenNotEq:       "!=",
	TokenLt:          "<",
	TokenLtEq:        "<=",
	TokenGt:          ">",
	TokenGtEq:        ">=",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Pos is a position in filter text. Line and Column are 1-based;
// Column counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical token. Text is the source text, except for
// TokenQuotedIdent where it is the unquoted name.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

// describe renders a token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenQuotedIdent:
		return fmt.Sprintf("`%s`", t.Text)
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}
