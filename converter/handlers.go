package converter

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/textdoc"
)

const (
	typeProperty    = "$Type"
	valueProperty   = "$value"
	edmJSONProperty = "$edmJson"
)

// termSegments returns how many leading segments of an annotation term form the term name
func termSegments(ctx Context, term *cdsast.Path) int {
	if ctx.GroupName != "" || len(term.Segments) < 2 {
		return 1
	}

	return 2
}

func segmentsRange(segments []*cdsast.Identifier) *textdoc.Range {
	if len(segments) == 0 || segments[0].Range == nil || segments[len(segments)-1].Range == nil {
		return nil
	}

	return &textdoc.Range{Start: segments[0].Range.Start, End: segments[len(segments)-1].Range.End}
}

func joinSegments(segments []*cdsast.Identifier) string {
	values := make([]string, len(segments))
	for i, segment := range segments {
		values[i] = segment.Value
	}

	return strings.Join(values, ".")
}

// valueRange spans from the end of the colon to the end of the value
func valueRange(colon *cdsast.Token, value cdsast.Node) *textdoc.Range {
	if colon == nil || colon.Range == nil || value == nil || value.NodeRange() == nil {
		return nil
	}

	return &textdoc.Range{Start: colon.Range.End, End: value.NodeRange().End}
}

func isEmptyValue(node cdsast.Node) bool {
	_, empty := node.(*cdsast.EmptyValue)

	return node == nil || empty
}

func lastSegmentIs(path *cdsast.Path, value string) bool {
	return path != nil && len(path.Segments) > 0 && path.Segments[len(path.Segments)-1].Value == value
}

func convertAnnotation(s *VisitorState, node cdsast.Node) ConversionResult {
	a := node.(*cdsast.Annotation)
	ctx := s.Context()

	if a.Term == nil || len(a.Term.Segments) == 0 {
		return None()
	}

	consumed := termSegments(ctx, a.Term)
	termName := joinSegments(a.Term.Segments[:consumed])

	if ctx.GroupName != "" {
		termName = ctx.GroupName + "." + termName
	}

	element := annotation.NewElement(annotation.Annotation, a.Range)
	element.SetAttribute(annotation.NewAttribute(annotation.Term, termName, segmentsRange(a.Term.Segments[:consumed])))

	if a.Qualifier != nil {
		element.SetAttribute(annotation.NewAttribute(annotation.Qualifier, a.Qualifier.Value, a.Qualifier.Range))
	}

	element.ContentRange = valueRange(a.Colon, a.Value)

	frame := Context{}
	if term := s.types.term(termName); term != nil {
		frame.TermType = term.Type
		frame.ValueType = term.Type
		frame.IsCollection = term.IsCollection
	}

	s.PushContext(frame)

	if len(a.Term.Segments) > consumed {
		element.ContentRange = nil
		root, leaf := s.expandFlattened(a.Term.Segments[consumed:], a.Value, element, linkAnnotation)

		return Subtree(root, leaf)
	}

	return Single(element)
}

func annotationChildren(_ *VisitorState, node cdsast.Node) []cdsast.Node {
	a := node.(*cdsast.Annotation)
	if a.Value == nil || lastSegmentIs(a.Term, typeProperty) {
		return nil
	}

	return []cdsast.Node{a.Value}
}

func convertAnnotationGroup(s *VisitorState, node cdsast.Node) ConversionResult {
	g := node.(*cdsast.AnnotationGroup)
	if g.Name != nil {
		s.PushContext(Context{GroupName: g.Name.Value})
	}

	return None()
}

func annotationGroupChildren(_ *VisitorState, node cdsast.Node) []cdsast.Node {
	g := node.(*cdsast.AnnotationGroup)
	if g.Items == nil {
		return nil
	}

	children := make([]cdsast.Node, 0, len(g.Items.Items))
	for _, item := range g.Items.Items {
		children = append(children, item)
	}

	return children
}

// reservedProperty finds a single segment property matching name case-insensitively
func reservedProperty(record *cdsast.Record, name string) *cdsast.RecordProperty {
	for _, property := range record.Properties {
		if property.Name != nil && len(property.Name.Segments) == 1 && strings.EqualFold(property.Name.Segments[0].Value, name) {
			return property
		}
	}

	return nil
}

func isEdmJSONName(name string) bool {
	return name == edmJSONProperty || strings.HasPrefix(strings.ToUpper(name), "$EDMJ")
}

func edmJSONPropertyOf(record *cdsast.Record) *cdsast.RecordProperty {
	for _, property := range record.Properties {
		if property.Name != nil && len(property.Name.Segments) == 1 && isEdmJSONName(property.Name.Segments[0].Value) {
			return property
		}
	}

	return nil
}

func isAnnotationProperty(property *cdsast.RecordProperty) bool {
	return property.Name != nil && len(property.Name.Segments) > 0 && strings.HasPrefix(property.Name.Segments[0].Value, "@")
}

func (s *VisitorState) checkCase(property *cdsast.RecordProperty, canonical string) {
	if property == nil {
		return
	}

	segment := property.Name.Segments[0]
	if segment.Value == canonical {
		return
	}

	edit := textdoc.TextEdit{NewText: canonical}
	if segment.Range != nil {
		edit.Range = *segment.Range
	}

	s.report(segment.Range, textdoc.SeverityError, "wrong-case", []textdoc.TextEdit{edit}, MsgWrongCase, canonical, segment.Value)
}

func convertRecord(s *VisitorState, node cdsast.Node) ConversionResult {
	r := node.(*cdsast.Record)
	ctx := s.Context()

	if property := edmJSONPropertyOf(r); property != nil {
		if property.Value == nil {
			return None()
		}

		s.PushContext(Context{})

		if element, ok := convertEdmJSON(property.Value).(*annotation.Element); ok {
			return Single(element)
		}

		return None()
	}

	value := reservedProperty(r, valueProperty)
	s.checkCase(value, valueProperty)
	s.checkCase(reservedProperty(r, typeProperty), typeProperty)

	if value != nil || s.types.needsValueContainer(ctx) {
		s.convertValueContainer(r, value, ctx)

		return None()
	}

	element := annotation.NewElement(annotation.Record, r.Range)
	if r.Open != nil && r.Open.Range != nil {
		end := r.Range.End
		if r.Close != nil && r.Close.Range != nil {
			end = r.Close.Range.Start
		}

		element.ContentRange = &textdoc.Range{Start: r.Open.Range.End, End: end}
	}

	recordType := s.types.recordType(ctx)

	if typeProp := reservedProperty(r, typeProperty); typeProp != nil {
		if str, ok := typeProp.Value.(*cdsast.StringLiteral); ok {
			recordType = str.Value
			element.SetAttribute(annotation.NewAttribute(annotation.Type, str.Value, str.Range))
		}
	}

	s.PushContext(Context{RecordType: recordType, ValueType: recordType, TermType: ctx.TermType})

	return Single(element)
}

// convertValueContainer validates a `{ $value: v, @Term: x }` record. The record itself
// produces no element: the value and the annotations attach to the enclosing element.
func (s *VisitorState) convertValueContainer(r *cdsast.Record, value *cdsast.RecordProperty, ctx Context) {
	if value == nil {
		s.report(r.Range, textdoc.SeverityError, "missing-value", nil, MsgMissingValueProperty, ctx.ValueType)
	} else if len(r.Properties) == 1 && value.Value != nil && value.Value.NodeRange() != nil && r.Range != nil {
		inner := value.Value.NodeRange()
		edits := []textdoc.TextEdit{
			{Range: textdoc.Range{Start: r.Range.Start, End: inner.Start}},
			{Range: textdoc.Range{Start: inner.End, End: r.Range.End}},
		}
		s.report(value.Range, textdoc.SeverityWarning, "deprecated-value", edits, MsgDeprecatedValueSyntax)
	}

	for _, property := range r.Properties {
		if property == value || isAnnotationProperty(property) {
			continue
		}

		if property.Name != nil {
			s.report(property.Name.Range, textdoc.SeverityError, "not-allowed-here", nil, MsgNotAllowedHere, property.Name.Value)
		}
	}

	frame := ctx
	frame.InValueContainer = true
	s.PushContext(frame)
}

func recordChildren(s *VisitorState, node cdsast.Node) []cdsast.Node {
	r := node.(*cdsast.Record)

	if edmJSONPropertyOf(r) != nil {
		return nil
	}

	var children []cdsast.Node

	if s.Context().InValueContainer {
		if value := reservedProperty(r, valueProperty); value != nil && value.Value != nil {
			children = append(children, value.Value)
		}

		for _, property := range r.Properties {
			if isAnnotationProperty(property) {
				children = append(children, property)
			}
		}

		return children
	}

	for _, property := range r.Properties {
		if property.Name != nil && len(property.Name.Segments) == 1 && strings.EqualFold(property.Name.Segments[0].Value, typeProperty) {
			continue
		}

		children = append(children, property)
	}

	return children
}

func convertRecordProperty(s *VisitorState, node cdsast.Node) ConversionResult {
	p := node.(*cdsast.RecordProperty)
	ctx := s.Context()

	if p.Name == nil || len(p.Name.Segments) == 0 {
		return None()
	}

	if len(p.Name.Segments) > 1 || isAnnotationProperty(p) {
		root, leaf := s.expandFlattened(p.Name.Segments, p.Value, nil, linkRecord)

		return Subtree(root, leaf)
	}

	name := p.Name.Segments[0].Value
	element := annotation.NewElement(annotation.PropertyValue, p.Range)
	element.SetAttribute(annotation.NewAttribute(annotation.Property, name, p.Name.Segments[0].Range))
	element.ContentRange = valueRange(p.Colon, p.Value)

	propertyType, isCollection, _ := s.types.property(ctx.RecordType, name)
	s.PushContext(Context{
		RecordType:   ctx.RecordType,
		TermType:     ctx.TermType,
		ValueType:    propertyType,
		IsCollection: isCollection,
		PropertyName: name,
	})

	return Single(element)
}

func recordPropertyChildren(_ *VisitorState, node cdsast.Node) []cdsast.Node {
	p := node.(*cdsast.RecordProperty)
	if p.Value == nil || lastSegmentIs(p.Name, typeProperty) {
		return nil
	}

	return []cdsast.Node{p.Value}
}
