package converter

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/textdoc"
)

type flatKind int

const (
	flatProperty flatKind = iota
	flatAnnotation
	flatRecordType
)

// linkKind describes the element the flattened chain starts below
type linkKind int

const (
	// linkAnnotation: the chain continues an Annotation element (`@UI.Chart.Title`)
	linkAnnotation linkKind = iota
	// linkRecord: the chain starts inside a record (`{ AxisScaling.ScaleBehavior: ... }`)
	linkRecord
)

type flatEntry struct {
	kind         flatKind
	element      *annotation.Element
	typeName     string
	isCollection bool
	termType     string
	propertyName string
}

// expandFlattened turns dotted segments into nested elements, e.g. for the term
// `UI.Chart.AxisScaling.ScaleBehavior`:
//
//	Annotation UI.Chart
//	  Record
//	    PropertyValue AxisScaling
//	      Record
//	        PropertyValue ScaleBehavior
//
// Every element is wrapped in a Record unless it follows a `$Type` segment or is the `$Type`
// record itself, so `AxisScaling.@UI.Hidden` yields PropertyValue > Record > Annotation.
// Each segment is typed from the one before it. A new frame describing the last segment is
// pushed so that the value, visited as child of the leaf, is typed correctly.
func (s *VisitorState) expandFlattened(segments []*cdsast.Identifier, value cdsast.Node, head *annotation.Element, link linkKind) (root, leaf *annotation.Element) {
	ctx := s.Context()
	root = head

	var previous *flatEntry

	if head != nil {
		previous = &flatEntry{kind: flatAnnotation, element: head, typeName: ctx.ValueType, isCollection: ctx.IsCollection, termType: ctx.TermType}
	}

	// the first property inside a record is typed by the record
	parentType := ctx.ValueType
	if link == linkRecord {
		parentType = ctx.RecordType
	}

	for i := 0; i < len(segments); {
		segment := segments[i]

		var entry *flatEntry

		switch {
		case strings.HasPrefix(segment.Value, "@"):
			end := min(i+2, len(segments))
			termName := strings.TrimPrefix(joinSegments(segments[i:end]), "@")
			termRange := segmentsRange(segments[i:end])

			qualifier := ""
			if name, q, found := strings.Cut(termName, "#"); found {
				termName, qualifier = name, q
			}

			element := annotation.NewElement(annotation.Annotation, termRange)
			element.SetAttribute(annotation.NewAttribute(annotation.Term, termName, termRange))

			if qualifier != "" {
				element.SetAttribute(annotation.NewAttribute(annotation.Qualifier, qualifier, nil))
			}

			entry = &flatEntry{kind: flatAnnotation, element: element}
			if term := s.types.term(termName); term != nil {
				entry.typeName = term.Type
				entry.termType = term.Type
				entry.isCollection = term.IsCollection
			}

			i = end
		case segment.Value == typeProperty:
			if i != len(segments)-1 {
				s.report(segmentsRange(segments[i+1:]), textdoc.SeverityError, "no-segments-after-type", nil, MsgNoSegmentsAfterType)

				i = len(segments)

				continue
			}

			element := annotation.NewElement(annotation.Record, segment.Range)
			entry = &flatEntry{kind: flatRecordType, element: element}

			switch v := value.(type) {
			case *cdsast.StringLiteral:
				element.SetAttribute(annotation.NewAttribute(annotation.Type, v.Value, v.Range))
				entry.typeName = v.Value
			default:
				if isEmptyValue(value) {
					s.report(segment.Range, textdoc.SeverityError, "type-value", nil, MsgTypeValueRequired)
				} else {
					s.report(value.NodeRange(), textdoc.SeverityError, "type-value", nil, MsgTypeValueMustBeString)
				}
			}

			i++
		default:
			if previous != nil {
				parentType = previous.typeName
				if previous.kind != flatRecordType && previous.typeName == dataFieldAbstract {
					parentType = "UI.DataField"
				}
			}

			element := annotation.NewElement(annotation.PropertyValue, segment.Range)
			element.SetAttribute(annotation.NewAttribute(annotation.Property, segment.Value, segment.Range))

			propertyType, isCollection, _ := s.types.property(parentType, segment.Value)
			entry = &flatEntry{
				kind:         flatProperty,
				element:      element,
				typeName:     propertyType,
				isCollection: isCollection,
				propertyName: segment.Value,
			}

			i++
		}

		switch {
		case previous == nil:
			root = entry.element
		case previous.kind == flatRecordType || entry.kind == flatRecordType:
			previous.element.Append(entry.element)
		default:
			record := annotation.NewElement(annotation.Record, entry.element.Range)
			record.Append(entry.element)
			previous.element.Append(record)
		}

		previous = entry
	}

	if previous == nil {
		return nil, nil
	}

	leaf = previous.element
	if previous.kind != flatRecordType && value != nil {
		leaf.ContentRange = textdoc.CopyRange(value.NodeRange())
	} else {
		leaf.ContentRange = nil
	}

	frame := Context{
		ValueType:    previous.typeName,
		IsCollection: previous.isCollection,
		TermType:     previous.termType,
		PropertyName: previous.propertyName,
	}

	if previous.kind == flatRecordType {
		frame.RecordType = previous.typeName
	}

	if previous.kind == flatProperty {
		frame.RecordType = parentType
	}

	s.PushContext(frame)

	return root, leaf
}
