package cdsast

import (
	"errors"

	"github.com/shibukawa/cdsodata/textdoc"
)

// Sentinel errors
var (
	ErrUnterminatedString     = errors.New("unterminated string literal")
	ErrUnterminatedIdentifier = errors.New("unterminated delimited identifier")
	ErrUnterminatedComment    = errors.New("unterminated block comment")
	ErrMissingAt              = errors.New("annotation assignment must start with '@'")
	ErrUnexpectedToken        = errors.New("unexpected token")
)

// LexType represents the type of a lexical token
type LexType int

const (
	EOF LexType = iota
	WHITESPACE
	COMMENT
	IDENTIFIER // name, optionally prefixed with @
	DELIMITED  // ![...]
	STRING     // '...'
	MULTILINE  // `...` or ```...```
	NUMBER
	AT       // @
	HASH     // #
	COLON    // :
	COMMA    // ,
	DOT      // .
	SLASH    // /
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	LPAREN   // (
	RPAREN   // )
	QUESTION // ?
	OPERATOR // = != <> < <= > >= + - * || %
	OTHER
)

// String returns the string representation of LexType
func (t LexType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case COMMENT:
		return "COMMENT"
	case IDENTIFIER:
		return "IDENTIFIER"
	case DELIMITED:
		return "DELIMITED"
	case STRING:
		return "STRING"
	case MULTILINE:
		return "MULTILINE"
	case NUMBER:
		return "NUMBER"
	case AT:
		return "AT"
	case HASH:
		return "HASH"
	case COLON:
		return "COLON"
	case COMMA:
		return "COMMA"
	case DOT:
		return "DOT"
	case SLASH:
		return "SLASH"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case QUESTION:
		return "QUESTION"
	case OPERATOR:
		return "OPERATOR"
	case OTHER:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Lexeme is a token produced by the tokenizer
type Lexeme struct {
	Type  LexType
	Value string // unescaped content for strings and delimited identifiers
	Raw   string
	Start textdoc.Position
	End   textdoc.Position

	// StripIndentation is set for triple back-tick strings
	StripIndentation bool
}

// Range returns the source range of the lexeme
func (l Lexeme) Range() *textdoc.Range {
	return &textdoc.Range{Start: l.Start, End: l.End}
}

// String returns the string representation of Lexeme
func (l Lexeme) String() string {
	return l.Type.String() + ": " + l.Raw
}
