package main

import (
	"strings"

	"github.com/shibukawa/cdsodata/formatter"
)

// formatCds re-indents text and keeps exactly one trailing newline
func formatCds(text string, size int) string {
	indented := formatter.NewIndenter(size).Indent(strings.TrimRight(text, " \t\r\n"), 0)

	return indented + "\n"
}
