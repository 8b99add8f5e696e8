package converter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
)

// convertEdmJSON converts the value of a `$edmJson` property, which spells EDM expressions in
// their CSDL JSON form, e.g. `{ $If: [ { $Eq: [ { $Path: 'a' }, 1 ] }, 'x', 'y' ] }`.
// It returns nil when no element can be determined.
func convertEdmJSON(node cdsast.Node) annotation.Node {
	switch n := node.(type) {
	case *cdsast.Record:
		return edmJSONRecord(n)
	case *cdsast.Collection:
		element := annotation.NewElement(annotation.Collection, n.Range)
		appendEdmJSONItems(element, n.Items)

		return element
	case *cdsast.StringLiteral:
		return textElement(annotation.String, n.Value, n.Range)
	case *cdsast.MultiLineStringLiteral:
		return textElement(annotation.String, annotation.UnescapeText(n.Value), n.Range)
	case *cdsast.NumberLiteral:
		name := annotation.Int
		if d, err := decimal.NewFromString(n.Value); err == nil && !d.IsInteger() {
			name = annotation.Decimal
		}

		return textElement(name, n.Value, n.Range)
	case *cdsast.BooleanLiteral:
		text := "false"
		if n.Value {
			text = "true"
		}

		return textElement(annotation.Bool, text, n.Range)
	case *cdsast.Token:
		if cdsast.IsNull(n) {
			return annotation.NewElement(annotation.Null, n.Range)
		}
	}

	return nil
}

func isEdmJSONElementName(name string) bool {
	return annotation.IsPrimitive(name) || annotation.IsDynamicExpression(name)
}

func edmJSONRecord(record *cdsast.Record) annotation.Node {
	var (
		element *annotation.Element
		content *cdsast.RecordProperty
	)

	for _, property := range record.Properties {
		if property.Name == nil || len(property.Name.Segments) != 1 || property.Value == nil {
			continue
		}

		key := property.Name.Segments[0].Value
		if !strings.HasPrefix(key, "$") {
			continue
		}

		name := key[1:]

		switch property.Value.(type) {
		case *cdsast.Record, *cdsast.Collection:
		default:
			if !isEdmJSONElementName(name) {
				continue
			}
		}

		element = annotation.NewElement(name, record.Range)
		content = property

		break
	}

	if element == nil {
		return nil
	}

	for _, property := range record.Properties {
		if property == content || property.Name == nil || len(property.Name.Segments) != 1 {
			continue
		}

		key := property.Name.Segments[0].Value
		if !strings.HasPrefix(key, "$") {
			continue
		}

		if text, ok := edmJSONAttributeValue(property.Value); ok {
			element.SetAttribute(annotation.NewAttribute(key[1:], text, property.Value.NodeRange()))
		}
	}

	switch v := content.Value.(type) {
	case *cdsast.Collection:
		appendEdmJSONItems(element, v.Items)
	case *cdsast.Record:
		if child := convertEdmJSON(v); child != nil {
			element.Append(child)
		}
	default:
		if text, ok := edmJSONAttributeValue(v); ok {
			element.Append(annotation.NewText(text, v.NodeRange()))
		}
	}

	return element
}

func appendEdmJSONItems(element *annotation.Element, items []cdsast.Node) {
	for _, item := range items {
		if child := convertEdmJSON(item); child != nil {
			element.Append(child)
		}
	}
}

func edmJSONAttributeValue(node cdsast.Node) (string, bool) {
	switch v := node.(type) {
	case *cdsast.StringLiteral:
		return v.Value, true
	case *cdsast.NumberLiteral:
		return v.Value, true
	case *cdsast.BooleanLiteral:
		if v.Value {
			return "true", true
		}

		return "false", true
	case *cdsast.Path:
		return v.Value, true
	}

	return "", false
}
