package printer

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/formatter"
)

// Options controls printing
type Options struct {
	// IndentSize is the number of spaces per bracket level, default 4
	IndentSize int
	// SkipIndent returns the composed text without re-indenting it
	SkipIndent bool
	// TermNames maps internal term names back to CDS annotation names, e.g. CDS.Title -> title
	TermNames map[string]string
}

type printer struct {
	opts     Options
	indenter *formatter.Indenter
}

func newPrinter(opts Options) *printer {
	return &printer{opts: opts, indenter: formatter.NewIndenter(opts.IndentSize)}
}

func (p *printer) finish(text string) string {
	if p.opts.SkipIndent {
		return text
	}

	return p.indenter.Indent(text, 0)
}

// Print renders one node. Annotations render as `Term#q : value` entries, other elements as
// values.
func Print(node annotation.Node, opts Options) string {
	p := newPrinter(opts)

	return p.finish(p.node(node))
}

// PrintAll renders nodes separated by `,` and line breaks
func PrintAll(nodes []annotation.Node, opts Options) string {
	p := newPrinter(opts)

	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		parts = append(parts, p.node(node))
	}

	return p.finish(strings.Join(parts, ",\n"))
}

// PrintCsdlNode renders a single element without re-indenting it
func PrintCsdlNode(element *annotation.Element, opts Options) string {
	return newPrinter(opts).element(element)
}

func (p *printer) node(node annotation.Node) string {
	switch n := node.(type) {
	case *annotation.Element:
		if n.Name == annotation.Annotation {
			return p.annotationEntry(n)
		}

		return p.element(n)
	case *annotation.TextNode:
		return n.Text
	}

	return ""
}

func (p *printer) element(element *annotation.Element) string {
	switch {
	case element.Name == annotation.Record:
		return p.record(element)
	case element.Name == annotation.Collection:
		items := make([]string, 0, len(element.Content))
		for _, child := range element.ChildElements() {
			items = append(items, p.element(child))
		}

		return formatter.Collection(items)
	case element.Name == annotation.Annotation || element.Name == annotation.PropertyValue:
		return p.value(element)
	case annotation.IsDynamicExpression(element.Name):
		return formatter.Struct([]string{formatter.KeyValue("$edmJson", EdmJSON(element))})
	case annotation.IsPrimitive(element.Name):
		return PrintPrimitiveValue(element.Name, element.Text())
	}

	return EdmJSON(element)
}

func (p *printer) termName(element *annotation.Element) string {
	term := element.AttrValue(annotation.Term)
	if name, ok := p.opts.TermNames[term]; ok {
		term = name
	}

	if qualifier := element.AttrValue(annotation.Qualifier); qualifier != "" {
		term += "#" + qualifier
	}

	return term
}

// annotationEntry renders `Term#q : value`
func (p *printer) annotationEntry(element *annotation.Element) string {
	return formatter.KeyValue(p.termName(element), p.value(element))
}

// nestedAnnotationKey renders the key of an annotation inside a record or value container
func (p *printer) nestedAnnotationKey(element *annotation.Element) string {
	return formatter.DelimitedIdentifier("@" + p.termName(element))
}

func (p *printer) record(element *annotation.Element) string {
	var (
		entries     []string
		annotations []string
	)

	if recordType := element.AttrValue(annotation.Type); recordType != "" {
		entries = append(entries, formatter.KeyValue("$Type", formatter.StringLiteral(recordType)))
	}

	for _, child := range element.ChildElements() {
		switch child.Name {
		case annotation.PropertyValue:
			key := formatter.Identifier(child.AttrValue(annotation.Property))
			entries = append(entries, formatter.KeyValue(key, p.value(child)))
		case annotation.Annotation:
			annotations = append(annotations, formatter.KeyValue(p.nestedAnnotationKey(child), p.value(child)))
		}
	}

	return formatter.Struct(append(entries, annotations...))
}

// value renders the value of an Annotation or PropertyValue. Nested annotations next to a
// value need the `{ $value : ... }` container.
func (p *printer) value(element *annotation.Element) string {
	var (
		value  string
		nested []string
	)

	for _, child := range element.ChildElements() {
		if child.Name == annotation.Annotation {
			nested = append(nested, formatter.KeyValue(p.nestedAnnotationKey(child), p.value(child)))
			continue
		}

		if value == "" {
			value = p.element(child)
		}
	}

	if value == "" {
		value = attributeValue(element)
	}

	if len(nested) == 0 {
		return value
	}

	entries := make([]string, 0, len(nested)+1)
	if value != "" {
		entries = append(entries, formatter.KeyValue("$value", value))
	}

	return formatter.Struct(append(entries, nested...))
}

// attributeValue handles the CSDL shorthand where a constant is an attribute, e.g. String="x"
func attributeValue(element *annotation.Element) string {
	for _, name := range element.AttributeNames() {
		if annotation.IsPrimitive(name) {
			return PrintPrimitiveValue(name, element.AttrValue(name))
		}
	}

	return ""
}
