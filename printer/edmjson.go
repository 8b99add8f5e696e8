package printer

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/formatter"
)

var singleOperand = map[string]bool{
	annotation.Not:            true,
	annotation.Neg:            true,
	annotation.Cast:           true,
	annotation.IsOf:           true,
	annotation.LabeledElement: true,
	annotation.UrlRef:         true,
}

// EdmJSON renders an element in the EDM JSON notation using CDS literal syntax on a single
// line, e.g. `{ $Eq : [ { $Path : 'a' }, 1 ] }`
func EdmJSON(element *annotation.Element) string {
	switch {
	case element.Name == annotation.Null:
		return "null"
	case element.Name == annotation.String || element.Name == annotation.EnumMember:
		return formatter.StringLiteral(element.Text())
	case element.Name == annotation.Bool || element.Name == annotation.Int ||
		element.Name == annotation.Decimal || element.Name == annotation.Float:
		return PrintPrimitiveValue(element.Name, element.Text())
	case annotation.IsPrimitive(element.Name):
		return inlineRecord([]string{formatter.KeyValue("$"+element.Name, formatter.StringLiteral(element.Text()))})
	case element.Name == annotation.Collection:
		return inlineCollection(element)
	case element.Name == annotation.Record:
		return edmJSONRecord(element)
	}

	var content string

	children := element.ChildElements()

	switch {
	case len(children) == 0:
		content = formatter.StringLiteral(element.Text())
	case len(children) == 1 && singleOperand[element.Name]:
		content = EdmJSON(children[0])
	default:
		content = inlineCollection(element)
	}

	entries := []string{formatter.KeyValue("$"+element.Name, content)}
	for _, name := range element.AttributeNames() {
		entries = append(entries, formatter.KeyValue("$"+name, formatter.StringLiteral(element.AttrValue(name))))
	}

	return inlineRecord(entries)
}

func edmJSONRecord(element *annotation.Element) string {
	var entries []string

	if recordType := element.AttrValue(annotation.Type); recordType != "" {
		entries = append(entries, formatter.KeyValue("$Type", formatter.StringLiteral(recordType)))
	}

	for _, child := range element.ElementsWithName(annotation.PropertyValue) {
		value := ""
		if values := child.ChildElements(); len(values) > 0 {
			value = EdmJSON(values[0])
		}

		entries = append(entries, formatter.KeyValue(formatter.Identifier(child.AttrValue(annotation.Property)), value))
	}

	return inlineRecord(entries)
}

func inlineCollection(element *annotation.Element) string {
	children := element.ChildElements()

	items := make([]string, 0, len(children))
	for _, child := range children {
		items = append(items, EdmJSON(child))
	}

	return formatter.InlineCollection(items)
}

func inlineRecord(entries []string) string {
	if len(entries) == 0 {
		return "{}"
	}

	return "{ " + strings.Join(entries, ", ") + " }"
}
