package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLiterals(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
	}{
		{"string", StringLiteral("Book"), "'Book'"},
		{"string with quote", StringLiteral("it's"), "'it''s'"},
		{"plain identifier", Identifier("title"), "title"},
		{"dollar identifier", Identifier("$Type"), "$Type"},
		{"identifier with dash", Identifier("my-field"), "![my-field]"},
		{"delimited with bracket", DelimitedIdentifier("a]b"), "![a]]b]"},
		{"key value", KeyValue("Label", "'x'"), "Label : 'x'"},
		{"key without value", KeyValue("Hidden", ""), "Hidden"},
		{"inline collection", InlineCollection([]string{"#Read", "#Write"}), "[ #Read, #Write ]"},
		{"empty inline collection", InlineCollection(nil), "[]"},
		{"empty struct", Struct(nil), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}

func TestBlocks(t *testing.T) {
	assert.Equal(t, "{\nA : 1,\nB : 2,\n}", Struct([]string{"A : 1", "B : 2"}))
	assert.Equal(t, "[\n1,\n]", Collection([]string{"1"}))
	assert.Equal(t, "(\nX,\n)", Parenthesized([]string{"X"}))
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "nested",
			input:    "{\nA : [\n1,\n],\n}",
			expected: "{\n    A : [\n        1,\n    ],\n}",
		},
		{
			name:     "brackets in strings are ignored",
			input:    "{\nA : '{[',\n}",
			expected: "{\n    A : '{[',\n}",
		},
		{
			name:     "delimited identifier",
			input:    "{\n![a{b] : 1,\n}",
			expected: "{\n    ![a{b] : 1,\n}",
		},
		{
			name:     "closing and opening on one line",
			input:    "{\nA : 1\n}, {\nB : 2\n}",
			expected: "{\n    A : 1\n}, {\n    B : 2\n}",
		},
		{
			name:     "multi-line string keeps layout",
			input:    "{\nA : 'line\n  second',\n}",
			expected: "{\n    A : 'line\n  second',\n}",
		},
		{
			name:     "blank lines",
			input:    "[\n   \n1\n]",
			expected: "[\n\n    1\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Indent(tt.input))
		})
	}
}

func TestIndentIsIdempotent(t *testing.T) {
	text := "annotate S.Books with @(\nUI.LineItem : [\n{\nValue : title,\n},\n],\n);"

	once := NewIndenter(2).Indent(text, 0)
	assert.Equal(t, once, NewIndenter(2).Indent(once, 0))
}

func TestIndentLevel(t *testing.T) {
	assert.Equal(t, "  {\n    A\n  }", NewIndenter(2).Indent("{\nA\n}", 1))
	assert.Equal(t, "{\n    A\n}", NewIndenter(0).Indent("{\nA\n}", 0))
}
