package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", IRString("Ford"), `"Ford"`},
		{"empty string", IRString(""), `""`},
		{"int", IRInt(42), "42"},
		{"negative int", IRInt(-100), "-100"},
		{"min int64", IRInt(-9223372036854775808), "-9223372036854775808"},
		{"bool", IRBool(false), "false"},
		{"empty array", IRArray{}, "[]"},
		{"empty object", IRObject{}, "{}"},
		{"in values", IRArray{IRInt(1), IRString("a"), IRBool(true)}, `[1,"a",true]`},
		{"nested keys sorted", IRObject{"z": IRObject{"b": IRInt(1), "a": IRInt(2)}, "a": IRInt(3)}, `{"a":3,"z":{"a":2,"b":1}}`},
		{"go string", "x", `"x"`},
		{"go int", 7, "7"},
		{"go int64", int64(-7), "-7"},
		{"go bool", true, "true"},

		{"no html escaping", IRString("<a & b>"), `"<a & b>"`},
		{"quote and backslash", IRString(`it's "x" \ y`), `"it's \"x\" \\ y"`},
		{"short escapes", IRString("a\tb\nc\rd\be\ff"), `"a\tb\nc\rd\be\ff"`},
		{"other controls", IRString("\x00\x1f"), `"\u0000\u001f"`},
		{"line separators literal", IRString("a\u2028b\u2029c"), "\"a\u2028b\u2029c\""},
		{"escaped text stays text", IRString(`\u2028`), `"\\u2028"`},
		{"nfc", IRString("e\u0301"), "\"\u00e9\""},
		{"invalid utf8", IRString("a\xffb"), "\"a\ufffdb\""},
		{"replacement char kept", IRString("\ufffd"), "\"\ufffd\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"null", nil, "null is forbidden"},
		{"float", 3.14, "floats are forbidden"},
		{"nested null", IRArray{IRString("ok"), nil}, "array[1]"},
		{"object value", IRObject{"lower": IRInt(1), "upper": nil}, `value for key "upper"`},
		{"unsupported", []string{"a"}, "unsupported type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
