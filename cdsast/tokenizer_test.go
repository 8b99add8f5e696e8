package cdsast

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cdsodata/textdoc"
)

func lexemeTypes(lexemes []Lexeme) []LexType {
	types := make([]LexType, 0, len(lexemes))
	for _, lexeme := range lexemes {
		types = append(types, lexeme.Type)
	}

	return types
}

func TestSignificantLexemes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []LexType
	}{
		{
			name:     "qualified term with collection",
			input:    "@UI.LineItem#q : [ { Value: title }, 'x' ]",
			expected: []LexType{IDENTIFIER, DOT, IDENTIFIER, HASH, IDENTIFIER, COLON, LBRACKET, LBRACE, IDENTIFIER, COLON, IDENTIFIER, RBRACE, COMMA, STRING, RBRACKET, EOF},
		},
		{
			name:     "comments are skipped",
			input:    "@A /* block */ : // line\n 1",
			expected: []LexType{IDENTIFIER, COLON, NUMBER, EOF},
		},
		{
			name:     "operators",
			input:    "a <> b || c >= 1 ? d",
			expected: []LexType{IDENTIFIER, OPERATOR, IDENTIFIER, OPERATOR, IDENTIFIER, OPERATOR, NUMBER, QUESTION, IDENTIFIER, EOF},
		},
		{
			name:     "number followed by dot",
			input:    "1.",
			expected: []LexType{NUMBER, DOT, EOF},
		},
		{
			name:     "lone at sign",
			input:    "@(",
			expected: []LexType{AT, LPAREN, EOF},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexemes, err := NewTokenizer(test.input, textdoc.Position{}).Significant()
			assert.NoError(t, err)
			assert.Equal(t, test.expected, lexemeTypes(lexemes))
		})
	}
}

func TestLexemesKeepWhitespace(t *testing.T) {
	var types []LexType

	for lexeme, err := range NewTokenizer("@A // c\n: 1", textdoc.Position{}).Lexemes() {
		assert.NoError(t, err)

		types = append(types, lexeme.Type)
	}

	assert.Equal(t, []LexType{IDENTIFIER, WHITESPACE, COMMENT, WHITESPACE, COLON, WHITESPACE, NUMBER, EOF}, types)
}

func TestLexemePositions(t *testing.T) {
	lexemes, err := NewTokenizer("@X.Y: '😀a', b", textdoc.Position{}).Significant()
	assert.NoError(t, err)

	expected := []textdoc.Range{
		textdoc.CreateRange(0, 0, 0, 2),
		textdoc.CreateRange(0, 2, 0, 3),
		textdoc.CreateRange(0, 3, 0, 4),
		textdoc.CreateRange(0, 4, 0, 5),
		// the emoji counts as two UTF-16 code units
		textdoc.CreateRange(0, 6, 0, 11),
		textdoc.CreateRange(0, 11, 0, 12),
		textdoc.CreateRange(0, 13, 0, 14),
		textdoc.CreateRange(0, 14, 0, 14),
	}

	ranges := make([]textdoc.Range, 0, len(lexemes))
	for _, lexeme := range lexemes {
		ranges = append(ranges, *lexeme.Range())
	}

	assert.Equal(t, expected, ranges)
	assert.Equal(t, "😀a", lexemes[4].Value)
	assert.Equal(t, "'😀a'", lexemes[4].Raw)
}

func TestLexemePositionsWithOffset(t *testing.T) {
	lexemes, err := NewTokenizer("A:\n  'x'", textdoc.Position{Line: 2, Character: 4}).Significant()
	assert.NoError(t, err)

	assert.Equal(t, textdoc.CreateRange(2, 4, 2, 5), *lexemes[0].Range())
	assert.Equal(t, textdoc.CreateRange(3, 2, 3, 5), *lexemes[2].Range())
}

func TestQuotedLexemes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		typ   LexType
		value string
		strip bool
	}{
		{name: "doubled quote", input: "'it''s'", typ: STRING, value: "it's"},
		{name: "empty string", input: "''", typ: STRING, value: ""},
		{name: "back-tick keeps escapes", input: "`a\\`b`", typ: MULTILINE, value: "a\\`b"},
		{name: "back-tick spans lines", input: "`a\nb`", typ: MULTILINE, value: "a\nb"},
		{name: "triple back-tick strips indentation", input: "```\n    line1\n      line2\n    ```", typ: MULTILINE, value: "line1\n  line2", strip: true},
		{name: "delimited identifier", input: "![@UI.LineItem]", typ: DELIMITED, value: "@UI.LineItem"},
		{name: "delimited identifier with escaped bracket", input: "![a]]b]", typ: DELIMITED, value: "a]b"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexemes, err := NewTokenizer(test.input, textdoc.Position{}).Significant()
			assert.NoError(t, err)
			assert.Equal(t, 2, len(lexemes))

			assert.Equal(t, test.typ, lexemes[0].Type)
			assert.Equal(t, test.value, lexemes[0].Value)
			assert.Equal(t, test.input, lexemes[0].Raw)
			assert.Equal(t, test.strip, lexemes[0].StripIndentation)
		})
	}
}

func TestUnterminatedLexemes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
		value    string
	}{
		{name: "string", input: "'open", expected: ErrUnterminatedString, value: "open"},
		{name: "string at line end", input: "'open\n'", expected: ErrUnterminatedString, value: "open"},
		{name: "back-tick string", input: "`open", expected: ErrUnterminatedString, value: "open"},
		{name: "delimited identifier", input: "![open", expected: ErrUnterminatedIdentifier, value: "open"},
		{name: "block comment", input: "/* open", expected: ErrUnterminatedComment},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexemes, err := NewTokenizer(test.input, textdoc.Position{}).Significant()
			assert.IsError(t, err, test.expected)

			// tokenizing continues up to EOF
			assert.Equal(t, EOF, lexemes[len(lexemes)-1].Type)

			if test.value != "" {
				assert.Equal(t, test.value, lexemes[0].Value)
			}
		})
	}
}

func TestNumberLexemes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "42", expected: "42"},
		{input: "4.25", expected: "4.25"},
		{input: "1.5e-3", expected: "1.5e-3"},
		{input: "2E10", expected: "2E10"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			lexemes, err := NewTokenizer(test.input, textdoc.Position{}).Significant()
			assert.NoError(t, err)
			assert.Equal(t, []LexType{NUMBER, EOF}, lexemeTypes(lexemes))
			assert.Equal(t, test.expected, lexemes[0].Raw)
		})
	}
}

func TestStripIndentation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "common indentation", input: "\n  a\n    b\n  ", expected: "a\n  b"},
		{name: "blank lines are ignored", input: "\n  a\n\n  b\n", expected: "a\n\nb"},
		{name: "no indentation", input: "a\nb", expected: "a\nb"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, stripIndentation(test.input))
		})
	}
}
