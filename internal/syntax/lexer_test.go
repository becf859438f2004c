package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexOperators(t *testing.T) {
	toks, err := Lex("= != <> < <= > >= ( ) ,")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenEq, TokenNotEq, TokenNotEq, TokenLt, TokenLtEq, TokenGt, TokenGtEq,
		TokenLParen, TokenRParen, TokenComma, TokenEOF,
	}, kinds(toks))
	assert.Equal(t, "<>", toks[2].Text)
}

func TestLexLiterals(t *testing.T) {
	toks, err := Lex(`name 'O''Brien' "x" -42 5.0 ` + "`order date`")
	require.NoError(t, err)
	require.Len(t, toks, 7)

	assert.Equal(t, Token{Kind: TokenIdent, Text: "name", Pos: Pos{Offset: 0, Line: 1, Column: 1}}, toks[0])
	assert.Equal(t, TokenString, toks[1].Kind)
	assert.Equal(t, `'O''Brien'`, toks[1].Text)
	assert.Equal(t, `"x"`, toks[2].Text)
	assert.Equal(t, TokenNumber, toks[3].Kind)
	assert.Equal(t, "-42", toks[3].Text)
	assert.Equal(t, "5.0", toks[4].Text)
	assert.Equal(t, TokenQuotedIdent, toks[5].Kind)
	assert.Equal(t, "order date", toks[5].Text)
}

func TestLexPositions(t *testing.T) {
	toks, err := Lex("a = 1\n  AND b")
	require.NoError(t, err)
	require.Len(t, toks, 6)
	assert.Equal(t, Pos{Offset: 8, Line: 2, Column: 3}, toks[3].Pos)
	assert.Equal(t, "2:3", toks[3].Pos.String())
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`a = 'open`, "unterminated string literal"},
		{"`open", "unterminated quoted identifier"},
		{"``", "empty quoted identifier"},
		{"a ! b", "expected '!='"},
		{"a = $1", "unexpected character '$'"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Lex(tt.src)
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLexEmpty(t *testing.T) {
	toks, err := Lex("  \t\n ")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenEOF}, kinds(toks))
}
