package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"plain", []string{"upper", "lower", "attribute"}, []string{"attribute", "lower", "upper"}},
		{"upper before lower", []string{"a", "A", "aa", "aA", "Aa", "AA"}, []string{"A", "AA", "Aa", "a", "aA", "aa"}},
		// U+1F600 is the surrogate pair D83D DE00, below U+FF21 in UTF-16
		// but above it in UTF-8.
		{"surrogates", []string{"\uFF21", "\U0001F600"}, []string{"\U0001F600", "\uFF21"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := IRObject{}
			for i, k := range tt.keys {
				obj[k] = IRInt(i)
			}
			assert.Equal(t, tt.want, obj.SortedKeys())
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "string", TypeName(IRString("x")))
	assert.Equal(t, "int", TypeName(IRInt(1)))
	assert.Equal(t, "bool", TypeName(IRBool(false)))
	assert.Equal(t, "array", TypeName(IRArray{}))
	assert.Equal(t, "object", TypeName(IRObject{}))
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value IRValue
		want  string
	}{
		{"string", IRString("Ford"), "'Ford'"},
		{"embedded quote", IRString("O'Brien"), "'O''Brien'"},
		{"empty string", IRString(""), "''"},
		{"int", IRInt(-42), "-42"},
		{"bool", IRBool(true), "true"},
		{"array", IRArray{IRInt(1), IRString("a")}, "(1, 'a')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLiteral(tt.value))
		})
	}
}
