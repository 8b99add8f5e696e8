// Package textdoc provides the position, range and diagnostic primitives shared by the CDS annotation
// parser, the converter and the printer. Positions are zero-based line/character pairs, the same
// coordinates an editor or language server uses.
package textdoc

import "fmt"

// Position is a zero-based line/character location in a text document
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a span between two positions. End is exclusive for text but
// Contains treats it as inclusive so that a cursor placed right after a token still hits it.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewPosition creates a position
func NewPosition(line, character int) Position {
	return Position{Line: line, Character: character}
}

// CreateRange creates a range from four coordinates
func CreateRange(startLine, startCharacter, endLine, endCharacter int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startCharacter},
		End:   Position{Line: endLine, Character: endCharacter},
	}
}

// CopyPosition returns an independent copy of pos, or nil
func CopyPosition(pos *Position) *Position {
	if pos == nil {
		return nil
	}

	p := *pos

	return &p
}

// CopyRange returns an independent copy of r, or nil
func CopyRange(r *Range) *Range {
	if r == nil {
		return nil
	}

	c := *r

	return &c
}

// RangePtr returns a pointer to a copy of r
func RangePtr(r Range) *Range {
	return &r
}

// Compare returns -1, 0 or 1 depending on the order of p and other
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly before other
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After reports whether p is strictly after other
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// String renders the position as line:character (1-based for humans)
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Contains reports whether pos is inside r, both ends included
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && !pos.After(r.End)
}

// ContainsStrict reports whether pos is inside r, both ends excluded
func (r Range) ContainsStrict(pos Position) bool {
	return pos.After(r.Start) && pos.Before(r.End)
}

// IsEmpty reports whether the range spans no characters
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// String renders the range for diagnostics output
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Union returns the smallest range covering both a and b
func Union(a, b Range) Range {
	result := a
	if b.Start.Before(result.Start) {
		result.Start = b.Start
	}

	if b.End.After(result.End) {
		result.End = b.End
	}

	return result
}

// Advance returns the position reached after reading text starting at start
func Advance(start Position, text string) Position {
	pos := start
	for _, r := range text {
		if r == '\n' {
			pos.Line++
			pos.Character = 0

			continue
		}

		pos.Character += utf16Len(r)
	}

	return pos
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}

	return 1
}
