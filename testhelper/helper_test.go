package testhelper

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTrimIndent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "tab indented",
			input: `
		annotate S.Books with {
			title @title: 'Title'
		};
		`,
			expected: "annotate S.Books with {\n    title @title: 'Title'\n};",
		},
		{
			name:     "blank line inside",
			input:    "\n  a\n\n    b\n",
			expected: "a\n\n  b",
		},
		{
			name:     "single line",
			input:    "x",
			expected: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrimIndent(t, tt.input))
		})
	}
}
