package converter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/textdoc"
)

const (
	valueListType          = "Common.ValueListType"
	collectionPathProperty = "CollectionPath"
	valueListProperty      = "ValueListProperty"
)

func textElement(name, text string, r *textdoc.Range) *annotation.Element {
	return annotation.NewElement(name, r, annotation.NewText(text, r))
}

func convertCollection(s *VisitorState, node cdsast.Node) ConversionResult {
	c := node.(*cdsast.Collection)
	ctx := s.Context()

	// a collection of enum members for a single valued enum is a flags value
	if enum := s.types.enumType(ctx.ValueType); enum != nil && !ctx.IsCollection {
		members := make([]string, 0, len(c.Items))
		text := annotation.NewText("", c.Range)

		for _, item := range c.Items {
			e, ok := item.(*cdsast.Enum)
			if !ok || e.Path == nil {
				continue
			}

			members = append(members, enum.Name+"/"+e.Path.Value)

			if e.Range != nil {
				text.FragmentRanges = append(text.FragmentRanges, *e.Range)
			}
		}

		text.Text = strings.Join(members, " ")

		frame := ctx
		frame.flags = true
		s.PushContext(frame)

		return Single(annotation.NewElement(annotation.EnumMember, c.Range, text))
	}

	element := annotation.NewElement(annotation.Collection, c.Range)
	if c.Open != nil && c.Open.Range != nil {
		end := c.Range.End
		if c.Close != nil && c.Close.Range != nil {
			end = c.Close.Range.Start
		}

		element.ContentRange = &textdoc.Range{Start: c.Open.Range.End, End: end}
	}

	frame := ctx
	frame.IsCollection = false
	s.PushContext(frame)

	return Single(element)
}

func collectionChildren(s *VisitorState, node cdsast.Node) []cdsast.Node {
	if s.Context().flags {
		return nil
	}

	return node.(*cdsast.Collection).Items
}

func convertString(s *VisitorState, node cdsast.Node) ConversionResult {
	str := node.(*cdsast.StringLiteral)
	ctx := s.Context()

	switch {
	case ctx.RecordType == valueListType && ctx.PropertyName == collectionPathProperty:
		s.valueListCollection = str.Value
		s.AddAbsolutePath(str.Value)
	case ctx.PropertyName == valueListProperty && s.valueListCollection != "":
		s.AddAbsolutePath(s.valueListCollection + "/" + str.Value)
	}

	if name := s.types.pathElement(ctx.ValueType); name != "" {
		s.AddPath(str.Value)

		return Single(textElement(name, str.Value, str.Range))
	}

	return Single(textElement(annotation.String, str.Value, str.Range))
}

func convertMultiLineString(_ *VisitorState, node cdsast.Node) ConversionResult {
	str := node.(*cdsast.MultiLineStringLiteral)

	return Single(textElement(annotation.String, annotation.UnescapeText(str.Value), str.Range))
}

func convertNumber(s *VisitorState, node cdsast.Node) ConversionResult {
	number := node.(*cdsast.NumberLiteral)

	name := annotation.Int

	switch s.types.primitive(s.Context().ValueType) {
	case annotation.EdmDecimal:
		name = annotation.Decimal
	case annotation.EdmDouble, annotation.EdmSingle:
		name = annotation.Float
	case annotation.EdmInt64:
		name = annotation.Int
	default:
		if d, err := decimal.NewFromString(number.Value); err == nil && !d.IsInteger() {
			name = annotation.Decimal
		}
	}

	return Single(textElement(name, number.Value, number.Range))
}

func convertBoolean(_ *VisitorState, node cdsast.Node) ConversionResult {
	b := node.(*cdsast.BooleanLiteral)

	text := "false"
	if b.Value {
		text = "true"
	}

	return Single(textElement(annotation.Bool, text, b.Range))
}

func convertEnum(s *VisitorState, node cdsast.Node) ConversionResult {
	e := node.(*cdsast.Enum)
	if e.Path == nil {
		return None()
	}

	text := e.Path.Value
	if enum := s.types.enumType(s.Context().ValueType); enum != nil {
		text = enum.Name + "/" + text
	}

	return Single(textElement(annotation.EnumMember, text, e.Range))
}

var quotedLiteralElements = map[cdsast.QuotedLiteralKind]string{
	cdsast.QuotedDate:      annotation.Date,
	cdsast.QuotedTime:      annotation.TimeOfDay,
	cdsast.QuotedTimestamp: annotation.DateTimeOffset,
	cdsast.QuotedBinary:    annotation.Binary,
}

func convertQuotedLiteral(_ *VisitorState, node cdsast.Node) ConversionResult {
	literal := node.(*cdsast.QuotedLiteral)

	name, ok := quotedLiteralElements[literal.Kind]
	if !ok {
		name = annotation.String
	}

	return Single(textElement(name, literal.Value, literal.Range))
}

func convertToken(_ *VisitorState, node cdsast.Node) ConversionResult {
	token := node.(*cdsast.Token)
	if !cdsast.IsNull(token) {
		return None()
	}

	return Single(annotation.NewElement(annotation.Null, token.Range))
}

// convertPath turns `a.b.@UI.LineItem` into the path text `a/b/@UI.LineItem`. Segments after the
// first annotation segment keep dots, because they form the term name.
func convertPath(s *VisitorState, node cdsast.Node) ConversionResult {
	path := node.(*cdsast.Path)
	if len(path.Segments) == 0 {
		return None()
	}

	name := s.types.pathElement(s.Context().ValueType)
	if name == "" {
		name = annotation.Path
	}

	var (
		sb        strings.Builder
		fragments []textdoc.Range
		inTerm    bool
		prefix    string
	)

	for i, segment := range path.Segments {
		if !segment.Delimited && strings.HasPrefix(segment.Value, "@") && !inTerm {
			s.report(segment.Range, textdoc.SeverityError, "path-not-escaped", nil, MsgPathNotEscaped, segment.Value)
		}

		if strings.HasPrefix(segment.Value, "@") && !inTerm {
			inTerm = true
			prefix = sb.String()
		}

		if i > 0 {
			if inTerm && !strings.HasPrefix(segment.Value, "@") {
				sb.WriteString(".")
			} else {
				sb.WriteString("/")
			}

			if !inTerm && i-1 < len(path.Separators) && path.Separators[i-1].Value == "/" {
				s.report(path.Separators[i-1].Range, textdoc.SeverityWarning, "path-separator", nil, MsgPathSeparator)
			}
		}

		sb.WriteString(segment.Value)

		if segment.Range != nil {
			fragments = append(fragments, *segment.Range)
		}
	}

	text := sb.String()
	if !inTerm {
		prefix = text
	}

	s.AddPath(prefix)

	element := annotation.NewElement(name, path.Range)
	textNode := annotation.NewText(text, path.Range)
	textNode.FragmentRanges = fragments
	element.Append(textNode)

	return Single(element)
}
