package formatter

import (
	"regexp"
	"strings"
)

const defaultIndentSize = 4

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// StringLiteral quotes text as a CDS string, doubling single quotes
func StringLiteral(text string) string {
	return "'" + strings.ReplaceAll(text, "'", "''") + "'"
}

// DelimitedIdentifier wraps text in `![...]`, doubling closing brackets
func DelimitedIdentifier(text string) string {
	return "![" + strings.ReplaceAll(text, "]", "]]") + "]"
}

// Identifier returns name as is when it is a plain identifier, delimited otherwise
func Identifier(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}

	return DelimitedIdentifier(name)
}

// KeyValue joins a key and a value with the CDS colon
func KeyValue(key, value string) string {
	if value == "" {
		return key
	}

	return key + " : " + value
}

// Struct renders entries as a multi-line record. Indentation is left to Indent.
func Struct(entries []string) string {
	return block("{", "}", entries)
}

// Collection renders items as a multi-line collection
func Collection(items []string) string {
	return block("[", "]", items)
}

// InlineCollection renders items on one line, e.g. `[ #A, #B ]`
func InlineCollection(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	return "[ " + strings.Join(items, ", ") + " ]"
}

// Parenthesized renders entries as a multi-line `( ... )` list
func Parenthesized(entries []string) string {
	return block("(", ")", entries)
}

func block(open, close string, entries []string) string {
	if len(entries) == 0 {
		return open + close
	}

	var sb strings.Builder

	sb.WriteString(open)
	sb.WriteString("\n")

	for _, entry := range entries {
		sb.WriteString(entry)
		sb.WriteString(",\n")
	}

	sb.WriteString(close)

	return sb.String()
}

// Indenter re-indents composed CDS text by bracket depth
type Indenter struct {
	indentSize int
}

// NewIndenter creates an indenter; sizes below one fall back to four spaces
func NewIndenter(indentSize int) *Indenter {
	if indentSize < 1 {
		indentSize = defaultIndentSize
	}

	return &Indenter{indentSize: indentSize}
}

// Indent re-indents text with four spaces per level
func Indent(text string) string {
	return NewIndenter(defaultIndentSize).Indent(text, 0)
}

// Indent strips the existing indentation of every line and indents it again by the number of
// brackets open before it. A line starting with closing brackets is outdented before it is
// written, brackets opened on a line indent the following lines. Brackets inside string
// literals and delimited identifiers are ignored.
func (i *Indenter) Indent(text string, level int) string {
	lines := strings.Split(text, "\n")
	depth := max(level, 0)
	inString := false

	for n, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inString {
			// continuation of a multi-line string keeps its layout
			lines[n] = line
		} else if trimmed == "" {
			lines[n] = ""
		}

		leadingCloses, opens, closes, stillInString := countBrackets(trimmed, inString)

		if !inString && trimmed != "" {
			lineDepth := max(depth-leadingCloses, 0)
			lines[n] = strings.Repeat(" ", lineDepth*i.indentSize) + trimmed
		}

		depth = max(depth+opens-closes, 0)
		inString = stillInString
	}

	return strings.Join(lines, "\n")
}

// countBrackets returns the closing brackets at the start of the line and the opening and
// closing brackets of the whole line outside quoted text
func countBrackets(line string, inString bool) (leadingCloses, opens, closes int, stillInString bool) {
	leading := !inString
	delimited := false

	for idx := 0; idx < len(line); idx++ {
		c := line[idx]

		switch {
		case inString:
			if c == '\'' {
				if idx+1 < len(line) && line[idx+1] == '\'' {
					idx++
					continue
				}

				inString = false
			}
		case delimited:
			if c == ']' {
				if idx+1 < len(line) && line[idx+1] == ']' {
					idx++
					continue
				}

				delimited = false
			}
		case c == '\'':
			inString = true
			leading = false
		case c == '!' && idx+1 < len(line) && line[idx+1] == '[':
			delimited = true
			leading = false
			idx++
		case c == '{' || c == '[' || c == '(':
			opens++
			leading = false
		case c == '}' || c == ']' || c == ')':
			closes++

			if leading {
				leadingCloses++
			}
		case c == ' ' || c == '\t':
		default:
			leading = false
		}
	}

	return leadingCloses, opens, closes, inString
}
