// Package testhelper contains helpers for writing expected CDS text in tests.
package testhelper

import (
	"strings"
	"testing"
)

// TrimIndent removes the line break after the opening backquote and the indentation shared by all
// non-blank lines. Leading tabs count as four spaces, so expectations may be indented with tabs
// like the surrounding test code.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	src = strings.TrimPrefix(src, "\n")
	lines := strings.Split(src, "\n")

	common := -1

	for i, line := range lines {
		lines[i] = expandTabs(line)

		if strings.TrimSpace(lines[i]) == "" {
			continue
		}

		indent := len(lines[i]) - len(strings.TrimLeft(lines[i], " "))
		if common < 0 || indent < common {
			common = indent
		}
	}

	for i, line := range lines {
		switch {
		case common <= 0:
		case len(line) >= common:
			lines[i] = line[common:]
		default:
			lines[i] = strings.TrimLeft(line, " ")
		}
	}

	// the closing backquote usually sits on its own indented line
	if last := len(lines) - 1; last > 0 && lines[last] == "" {
		lines = lines[:last]
	}

	return strings.Join(lines, "\n")
}

func expandTabs(line string) string {
	tabs := len(line) - len(strings.TrimLeft(line, "\t"))

	return strings.Repeat("    ", tabs) + line[tabs:]
}
