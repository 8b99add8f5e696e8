package cdsast

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	"github.com/shibukawa/cdsodata/textdoc"
)

// LexemeIterator yields lexemes until EOF
type LexemeIterator iter.Seq2[Lexeme, error]

// Tokenizer splits annotation assignment text into lexemes
type Tokenizer struct {
	input string
	start textdoc.Position
}

// NewTokenizer creates a tokenizer whose positions start at start
func NewTokenizer(input string, start textdoc.Position) *Tokenizer {
	return &Tokenizer{input: input, start: start}
}

// Lexemes returns an iterator of lexemes, including whitespace and comments
func (t *Tokenizer) Lexemes() LexemeIterator {
	return func(yield func(Lexeme, error) bool) {
		s := &scanner{runes: []rune(t.input), pos: t.start}

		for {
			lexeme, err := s.next()
			if err != nil {
				if !yield(lexeme, err) {
					return
				}

				continue
			}

			if !yield(lexeme, nil) || lexeme.Type == EOF {
				return
			}
		}
	}
}

// Significant returns all lexemes except whitespace and comments. The last element is always EOF.
// Scanning errors are collected but do not stop tokenization.
func (t *Tokenizer) Significant() ([]Lexeme, error) {
	lexemes := make([]Lexeme, 0, 32)

	var lastError error

	for lexeme, err := range t.Lexemes() {
		if err != nil {
			lastError = err
		}

		if lexeme.Type == WHITESPACE || lexeme.Type == COMMENT {
			continue
		}

		lexemes = append(lexemes, lexeme)
		if lexeme.Type == EOF {
			break
		}
	}

	return lexemes, lastError
}

type scanner struct {
	runes  []rune
	offset int
	pos    textdoc.Position
}

func (s *scanner) peek(n int) rune {
	if s.offset+n >= len(s.runes) {
		return 0
	}

	return s.runes[s.offset+n]
}

func (s *scanner) advance() rune {
	r := s.runes[s.offset]
	s.offset++

	if r == '\n' {
		s.pos.Line++
		s.pos.Character = 0
	} else if r >= 0x10000 {
		s.pos.Character += 2
	} else {
		s.pos.Character++
	}

	return r
}

func (s *scanner) emit(typ LexType, start textdoc.Position, startOffset int) Lexeme {
	raw := string(s.runes[startOffset:s.offset])

	return Lexeme{Type: typ, Value: raw, Raw: raw, Start: start, End: s.pos}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (s *scanner) next() (Lexeme, error) {
	start := s.pos
	startOffset := s.offset

	if s.offset >= len(s.runes) {
		return Lexeme{Type: EOF, Start: start, End: start}, nil
	}

	r := s.peek(0)

	switch {
	case unicode.IsSpace(r):
		for s.offset < len(s.runes) && unicode.IsSpace(s.peek(0)) {
			s.advance()
		}

		return s.emit(WHITESPACE, start, startOffset), nil
	case r == '/' && s.peek(1) == '/':
		for s.offset < len(s.runes) && s.peek(0) != '\n' {
			s.advance()
		}

		return s.emit(COMMENT, start, startOffset), nil
	case r == '/' && s.peek(1) == '*':
		s.advance()
		s.advance()

		for s.offset < len(s.runes) {
			if s.peek(0) == '*' && s.peek(1) == '/' {
				s.advance()
				s.advance()

				return s.emit(COMMENT, start, startOffset), nil
			}

			s.advance()
		}

		return s.emit(COMMENT, start, startOffset), ErrUnterminatedComment
	case r == '@' && isIdentStart(s.peek(1)):
		s.advance()
		s.readIdentifier()

		return s.emit(IDENTIFIER, start, startOffset), nil
	case isIdentStart(r):
		s.readIdentifier()

		return s.emit(IDENTIFIER, start, startOffset), nil
	case r == '!' && s.peek(1) == '[':
		return s.readDelimited(start, startOffset)
	case r == '\'':
		return s.readString(start, startOffset)
	case r == '`':
		return s.readMultiLine(start, startOffset)
	case unicode.IsDigit(r):
		s.readNumber()

		return s.emit(NUMBER, start, startOffset), nil
	}

	s.advance()

	switch r {
	case '@':
		return s.emit(AT, start, startOffset), nil
	case '#':
		return s.emit(HASH, start, startOffset), nil
	case ':':
		return s.emit(COLON, start, startOffset), nil
	case ',':
		return s.emit(COMMA, start, startOffset), nil
	case '.':
		return s.emit(DOT, start, startOffset), nil
	case '/':
		return s.emit(SLASH, start, startOffset), nil
	case '{':
		return s.emit(LBRACE, start, startOffset), nil
	case '}':
		return s.emit(RBRACE, start, startOffset), nil
	case '[':
		return s.emit(LBRACKET, start, startOffset), nil
	case ']':
		return s.emit(RBRACKET, start, startOffset), nil
	case '(':
		return s.emit(LPAREN, start, startOffset), nil
	case ')':
		return s.emit(RPAREN, start, startOffset), nil
	case '?':
		return s.emit(QUESTION, start, startOffset), nil
	case '=', '+', '-', '*', '%':
		if r == '=' && s.peek(0) == '=' {
			s.advance()
		}

		return s.emit(OPERATOR, start, startOffset), nil
	case '<':
		if s.peek(0) == '=' || s.peek(0) == '>' {
			s.advance()
		}

		return s.emit(OPERATOR, start, startOffset), nil
	case '>', '!':
		if s.peek(0) == '=' {
			s.advance()
		}

		return s.emit(OPERATOR, start, startOffset), nil
	case '|':
		if s.peek(0) == '|' {
			s.advance()

			return s.emit(OPERATOR, start, startOffset), nil
		}
	}

	return s.emit(OTHER, start, startOffset), nil
}

func (s *scanner) readIdentifier() {
	for s.offset < len(s.runes) && isIdentPart(s.peek(0)) {
		s.advance()
	}
}

func (s *scanner) readNumber() {
	for unicode.IsDigit(s.peek(0)) {
		s.advance()
	}

	if s.peek(0) == '.' && unicode.IsDigit(s.peek(1)) {
		s.advance()

		for unicode.IsDigit(s.peek(0)) {
			s.advance()
		}
	}

	if s.peek(0) == 'e' || s.peek(0) == 'E' {
		n := 1
		if s.peek(1) == '+' || s.peek(1) == '-' {
			n = 2
		}

		if unicode.IsDigit(s.peek(n)) {
			for range n {
				s.advance()
			}

			for unicode.IsDigit(s.peek(0)) {
				s.advance()
			}
		}
	}
}

// readDelimited reads ![...]; `]]` escapes a closing bracket
func (s *scanner) readDelimited(start textdoc.Position, startOffset int) (Lexeme, error) {
	s.advance()
	s.advance()

	var value strings.Builder

	for s.offset < len(s.runes) {
		r := s.advance()
		if r == ']' {
			if s.peek(0) == ']' {
				s.advance()
				value.WriteRune(']')

				continue
			}

			lexeme := s.emit(DELIMITED, start, startOffset)
			lexeme.Value = value.String()

			return lexeme, nil
		}

		value.WriteRune(r)
	}

	lexeme := s.emit(DELIMITED, start, startOffset)
	lexeme.Value = value.String()

	return lexeme, ErrUnterminatedIdentifier
}

// readString reads '...' where '' escapes a quote
func (s *scanner) readString(start textdoc.Position, startOffset int) (Lexeme, error) {
	s.advance()

	var value strings.Builder

	for s.offset < len(s.runes) {
		r := s.advance()
		if r == '\'' {
			if s.peek(0) == '\'' {
				s.advance()
				value.WriteRune('\'')

				continue
			}

			lexeme := s.emit(STRING, start, startOffset)
			lexeme.Value = value.String()

			return lexeme, nil
		}

		if r == '\n' {
			break
		}

		value.WriteRune(r)
	}

	lexeme := s.emit(STRING, start, startOffset)
	lexeme.Value = value.String()

	return lexeme, fmt.Errorf("%w at %s", ErrUnterminatedString, start)
}

// readMultiLine reads `...` and ```...```
func (s *scanner) readMultiLine(start textdoc.Position, startOffset int) (Lexeme, error) {
	fence := 1
	if s.peek(1) == '`' && s.peek(2) == '`' {
		fence = 3
	}

	for range fence {
		s.advance()
	}

	var value strings.Builder

	for s.offset < len(s.runes) {
		if s.peek(0) == '`' && (fence == 1 || (s.peek(1) == '`' && s.peek(2) == '`')) {
			for range fence {
				s.advance()
			}

			lexeme := s.emit(MULTILINE, start, startOffset)
			lexeme.Value = value.String()
			lexeme.StripIndentation = fence == 3

			if lexeme.StripIndentation {
				lexeme.Value = stripIndentation(lexeme.Value)
			}

			return lexeme, nil
		}

		r := s.advance()
		if r == '\\' && s.offset < len(s.runes) {
			// escapes are resolved by the consumer, only the fence must not end here
			value.WriteRune(r)
			r = s.advance()
		}

		value.WriteRune(r)
	}

	lexeme := s.emit(MULTILINE, start, startOffset)
	lexeme.Value = value.String()

	return lexeme, fmt.Errorf("%w at %s", ErrUnterminatedString, start)
}

// stripIndentation removes the first and last line break and the common leading indentation
func stripIndentation(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")

	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	common := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || indent < common {
			common = indent
		}
	}

	if common <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}

	return strings.Join(lines, "\n")
}
