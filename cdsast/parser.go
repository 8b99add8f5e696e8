package cdsast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/cdsodata/textdoc"
)

// Parse parses one annotation assignment such as `@UI.LineItem : [ ... ]`, `@( A: 1, B )` or
// `@UI : { Hidden }`. Positions start at start. The leading `@` is optional.
//
// The parser is tolerant: malformed values become EmptyValue or expression error nodes. A non-nil
// assignment may be returned together with an error describing scanning problems.
func Parse(text string, start textdoc.Position) (*Assignment, error) {
	lexemes, scanErr := NewTokenizer(text, start).Significant()
	p := &parser{lexemes: lexemes}

	assignment, err := p.parseAssignment()
	if err != nil {
		return nil, errors.Join(err, scanErr)
	}

	return assignment, scanErr
}

type parser struct {
	lexemes []Lexeme
	pos     int
	last    textdoc.Position // end of the last consumed lexeme
}

func (p *parser) peek(n int) Lexeme {
	if p.pos+n >= len(p.lexemes) {
		return p.lexemes[len(p.lexemes)-1]
	}

	return p.lexemes[p.pos+n]
}

func (p *parser) current() Lexeme {
	return p.peek(0)
}

func (p *parser) consume() Lexeme {
	lexeme := p.current()
	if lexeme.Type != EOF {
		p.pos++
		p.last = lexeme.End
	}

	return lexeme
}

func (p *parser) is(typ LexType) bool {
	return p.current().Type == typ
}

func (p *parser) isKeyword(word string) bool {
	lexeme := p.current()

	return lexeme.Type == IDENTIFIER && strings.EqualFold(lexeme.Raw, word)
}

func toToken(lexeme Lexeme) *Token {
	return &Token{Value: lexeme.Raw, Range: lexeme.Range()}
}

func span(start, end textdoc.Position) *textdoc.Range {
	return &textdoc.Range{Start: start, End: end}
}

func (p *parser) parseAssignment() (*Assignment, error) {
	first := p.current()
	if first.Type == EOF {
		return nil, ErrMissingAt
	}

	assignment := &Assignment{}

	switch {
	case first.Type == AT && p.peek(1).Type == LPAREN:
		p.consume()
		p.consume()

		for !p.is(RPAREN) && !p.is(EOF) {
			if item := p.parseAnnotationOrGroup(); item != nil {
				assignment.Items = append(assignment.Items, item)
			}

			if p.is(COMMA) {
				p.consume()

				continue
			}

			if !p.is(RPAREN) {
				p.skipUntil(COMMA, RPAREN)

				if p.is(COMMA) {
					p.consume()
				}
			}
		}

		if p.is(RPAREN) {
			p.consume()
		}
	case first.Type == IDENTIFIER || first.Type == DELIMITED || first.Type == AT:
		if item := p.parseAnnotationOrGroup(); item != nil {
			assignment.Items = append(assignment.Items, item)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrMissingAt, first.Raw)
	}

	if len(assignment.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedToken, first.Raw)
	}

	assignment.Range = span(first.Start, p.last)

	return assignment, nil
}

func (p *parser) skipUntil(types ...LexType) {
	for !p.is(EOF) {
		for _, typ := range types {
			if p.is(typ) {
				return
			}
		}

		p.consume()
	}
}

func (p *parser) parseAnnotationOrGroup() Node {
	if p.is(AT) {
		p.consume()
	}

	if !p.is(IDENTIFIER) && !p.is(DELIMITED) {
		return nil
	}

	start := p.current().Start
	term, qualifier := p.parseTermPath()
	stripAt(term)

	if len(term.Segments) == 1 && qualifier == nil && p.is(COLON) && p.peek(1).Type == LBRACE {
		colon := toToken(p.consume())
		items := p.parseGroupItems()
		name := term.Segments[0]

		return &AnnotationGroup{
			Name:  name,
			Colon: colon,
			Items: items,
			Range: span(start, p.last),
		}
	}

	return p.finishAnnotation(start, term, qualifier)
}

func (p *parser) finishAnnotation(start textdoc.Position, term *Path, qualifier *Identifier) *Annotation {
	annotation := &Annotation{Term: term, Qualifier: qualifier}

	if p.is(COLON) {
		annotation.Colon = toToken(p.consume())
		annotation.Value = p.parseValue()
	}

	annotation.Range = span(start, p.last)

	return annotation
}

func (p *parser) parseGroupItems() *AnnotationGroupItems {
	open := p.consume()
	items := &AnnotationGroupItems{Open: toToken(open)}

	for !p.is(RBRACE) && !p.is(EOF) {
		if p.is(AT) {
			p.consume()
		}

		if p.is(IDENTIFIER) || p.is(DELIMITED) {
			start := p.current().Start
			term, qualifier := p.parseTermPath()
			stripAt(term)
			items.Items = append(items.Items, p.finishAnnotation(start, term, qualifier))
		}

		if p.is(COMMA) {
			p.consume()

			continue
		}

		if !p.is(RBRACE) {
			p.skipUntil(COMMA, RBRACE)
		}
	}

	if p.is(RBRACE) {
		items.Close = toToken(p.consume())
	}

	items.Range = span(open.Start, p.last)

	return items
}

// parseTermPath reads a term path; a qualifier directly after one of the first two segments belongs
// to the annotation, later ones stay part of the (flattened) segment
func (p *parser) parseTermPath() (*Path, *Identifier) {
	path := p.parseNamePath(true)

	var qualifier *Identifier

	for i, segment := range path.Segments {
		if i > 1 || qualifier != nil {
			break
		}

		name, qual, found := strings.Cut(segment.Value, "#")
		if !found || segment.Delimited {
			continue
		}

		qualifierStart := segment.Range.Start
		qualifierStart.Character += len([]rune(name)) + 1
		qualifier = &Identifier{Value: qual, Range: span(qualifierStart, segment.Range.End)}

		end := segment.Range.Start
		end.Character += len([]rune(name))
		segment.Value = name
		segment.Range = span(segment.Range.Start, end)
	}

	path.Value = joinPath(path)

	return path, qualifier
}

// parseNamePath reads dotted names used for terms and record property names. Qualifiers (`#q`) are
// appended to the preceding segment, delimited identifiers are split at dots.
func (p *parser) parseNamePath(splitDelimited bool) *Path {
	path := &Path{}
	start := p.current().Start

	for {
		lexeme := p.current()

		switch lexeme.Type {
		case IDENTIFIER:
			p.consume()
			path.Segments = append(path.Segments, &Identifier{Value: lexeme.Raw, Range: lexeme.Range()})
		case DELIMITED:
			p.consume()

			if splitDelimited {
				path.Segments = append(path.Segments, splitDelimitedIdentifier(lexeme)...)
			} else {
				path.Segments = append(path.Segments, &Identifier{Value: lexeme.Value, Delimited: true, Range: lexeme.Range()})
			}
		default:
			path.Range = span(start, p.last)
			path.Value = joinPath(path)

			return path
		}

		if p.is(HASH) && (p.peek(1).Type == IDENTIFIER) && p.current().Start == p.last {
			p.consume()
			qual := p.consume()
			segment := path.Segments[len(path.Segments)-1]
			segment.Value += "#" + qual.Raw
			segment.Range = span(segment.Range.Start, qual.End)
		}

		// a spaced slash is the division operator
		slash := p.is(SLASH) && p.current().Start == p.last && p.peek(1).Start == p.current().End
		if (p.is(DOT) || slash) && (p.peek(1).Type == IDENTIFIER || p.peek(1).Type == DELIMITED) {
			separator := p.consume()
			path.Separators = append(path.Separators, &Separator{Value: separator.Raw, Range: separator.Range()})

			continue
		}

		path.Range = span(start, p.last)
		path.Value = joinPath(path)

		return path
	}
}

// splitDelimitedIdentifier turns ![@UI.Importance] into the segments @UI and Importance
func splitDelimitedIdentifier(lexeme Lexeme) []*Identifier {
	parts := strings.Split(lexeme.Value, ".")
	if len(parts) == 1 || lexeme.Start.Line != lexeme.End.Line {
		return []*Identifier{{Value: lexeme.Value, Delimited: true, Range: lexeme.Range()}}
	}

	segments := make([]*Identifier, 0, len(parts))
	character := lexeme.Start.Character + 2

	for _, part := range parts {
		length := len([]rune(part))
		segments = append(segments, &Identifier{
			Value:     part,
			Delimited: true,
			Range:     textdoc.RangePtr(textdoc.CreateRange(lexeme.Start.Line, character, lexeme.Start.Line, character+length)),
		})
		character += length + 1
	}

	return segments
}

// stripAt removes the `@` that the tokenizer keeps on the first segment of a term
func stripAt(path *Path) {
	if len(path.Segments) == 0 {
		return
	}

	first := path.Segments[0]
	if !strings.HasPrefix(first.Value, "@") || first.Delimited {
		return
	}

	first.Value = first.Value[1:]
	first.Range = span(textdoc.Position{Line: first.Range.Start.Line, Character: first.Range.Start.Character + 1}, first.Range.End)
	path.Range = span(first.Range.Start, path.Range.End)
	path.Value = joinPath(path)
}

func joinPath(path *Path) string {
	var sb strings.Builder

	for i, segment := range path.Segments {
		if i > 0 {
			if i-1 < len(path.Separators) {
				sb.WriteString(path.Separators[i-1].Value)
			} else {
				sb.WriteString(".")
			}
		}

		sb.WriteString(segment.Value)
	}

	return sb.String()
}

func (p *parser) emptyValue() *EmptyValue {
	return &EmptyValue{Range: span(p.last, p.last)}
}

func (p *parser) parseValue() Node {
	lexeme := p.current()

	switch lexeme.Type {
	case LBRACE:
		return p.parseRecord()
	case LBRACKET:
		return p.parseCollection()
	case LPAREN:
		return p.parseParenExpression()
	case STRING:
		p.consume()

		return &StringLiteral{Value: lexeme.Value, Range: lexeme.Range()}
	case MULTILINE:
		p.consume()

		return &MultiLineStringLiteral{Value: lexeme.Value, StripIndentation: lexeme.StripIndentation, Range: lexeme.Range()}
	case NUMBER:
		p.consume()

		return &NumberLiteral{Value: lexeme.Raw, Range: lexeme.Range()}
	case OPERATOR:
		next := p.peek(1)
		if lexeme.Raw == "-" && next.Type == NUMBER && next.Start == lexeme.End {
			p.consume()
			p.consume()

			return &NumberLiteral{Value: "-" + next.Raw, Range: span(lexeme.Start, next.End)}
		}
	case HASH:
		p.consume()

		path := p.parseEnumPath()

		return &Enum{Path: path, Range: span(lexeme.Start, p.last)}
	case IDENTIFIER:
		return p.parseIdentifierValue(lexeme)
	case DELIMITED:
		return p.parseNamePath(false)
	}

	return p.emptyValue()
}

func (p *parser) parseIdentifierValue(lexeme Lexeme) Node {
	word := strings.ToLower(lexeme.Raw)

	switch word {
	case "true", "false":
		p.consume()

		return &BooleanLiteral{Value: word == "true", Range: lexeme.Range()}
	case "null":
		p.consume()

		return &Token{Value: lexeme.Raw, Range: lexeme.Range()}
	case "date", "time", "timestamp", "x":
		next := p.peek(1)
		if next.Type == STRING && next.Start == lexeme.End {
			p.consume()
			p.consume()

			kind := QuotedLiteralKind(word)
			if word == "x" {
				kind = QuotedBinary
			}

			return &QuotedLiteral{Kind: kind, Value: next.Value, Range: span(lexeme.Start, next.End)}
		}
	}

	return p.parseNamePath(false)
}

func (p *parser) parseEnumPath() *Path {
	path := &Path{}
	start := p.current().Start

	for p.is(IDENTIFIER) {
		lexeme := p.consume()
		path.Segments = append(path.Segments, &Identifier{Value: lexeme.Raw, Range: lexeme.Range()})

		if !p.is(DOT) || p.peek(1).Type != IDENTIFIER {
			break
		}

		separator := p.consume()
		path.Separators = append(path.Separators, &Separator{Value: separator.Raw, Range: separator.Range()})
	}

	path.Range = span(start, p.last)
	path.Value = joinPath(path)

	return path
}

func (p *parser) parseRecord() *Record {
	open := p.consume()
	record := &Record{Open: toToken(open)}

	for !p.is(RBRACE) && !p.is(EOF) {
		if p.is(IDENTIFIER) || p.is(DELIMITED) {
			record.Properties = append(record.Properties, p.parseRecordProperty())
		}

		if p.is(COMMA) {
			p.consume()

			continue
		}

		if !p.is(RBRACE) {
			p.skipUntil(COMMA, RBRACE)
		}
	}

	if p.is(RBRACE) {
		record.Close = toToken(p.consume())
	}

	record.Range = span(open.Start, p.last)

	return record
}

func (p *parser) parseRecordProperty() *RecordProperty {
	start := p.current().Start
	property := &RecordProperty{Name: p.parseNamePath(true)}

	if p.is(COLON) {
		property.Colon = toToken(p.consume())
		property.Value = p.parseValue()
	}

	property.Range = span(start, p.last)

	return property
}

func (p *parser) parseCollection() *Collection {
	open := p.consume()
	collection := &Collection{Open: toToken(open)}

	for !p.is(RBRACKET) && !p.is(EOF) {
		item := p.parseValue()
		if _, empty := item.(*EmptyValue); !empty {
			collection.Items = append(collection.Items, item)
		}

		if p.is(COMMA) {
			p.consume()

			continue
		}

		if !p.is(RBRACKET) {
			p.skipUntil(COMMA, RBRACKET)
		}
	}

	if p.is(RBRACKET) {
		collection.Close = toToken(p.consume())
	}

	collection.Range = span(open.Start, p.last)

	return collection
}
