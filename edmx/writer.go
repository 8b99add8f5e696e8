// Package edmx writes converted annotation files as OData CSDL XML.
package edmx

import (
	"github.com/beevik/etree"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/converter"
)

const (
	edmxNamespace = "http://docs.oasis-open.org/odata/ns/edmx"
	edmNamespace  = "http://docs.oasis-open.org/odata/ns/edm"
)

// Write builds a CSDL document with one `<Annotations>` block per target. Targets without terms are
// left out.
func Write(file *converter.AnnotationFile) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("edmx:Edmx")
	root.CreateAttr("Version", "4.0")
	root.CreateAttr("xmlns:edmx", edmxNamespace)

	for _, reference := range file.References {
		ref := root.CreateElement("edmx:Reference")
		if reference.URI != "" {
			ref.CreateAttr("Uri", reference.URI)
		}

		include := ref.CreateElement("edmx:Include")
		include.CreateAttr("Namespace", reference.Namespace)

		if reference.Alias != "" {
			include.CreateAttr("Alias", reference.Alias)
		}
	}

	schema := root.CreateElement("edmx:DataServices").CreateElement("Schema")
	schema.CreateAttr("xmlns", edmNamespace)
	schema.CreateAttr("Namespace", file.Namespace)

	for _, target := range file.Targets {
		if len(target.Terms) == 0 {
			continue
		}

		annotations := schema.CreateElement("Annotations")
		annotations.CreateAttr("Target", target.Name)

		for _, term := range target.Terms {
			writeElement(annotations, term)
		}
	}

	return doc
}

// WriteString renders Write(file) indented by indent spaces
func WriteString(file *converter.AnnotationFile, indent int) (string, error) {
	doc := Write(file)
	doc.Indent(indent)

	return doc.WriteToString()
}

func writeElement(parent *etree.Element, element *annotation.Element) {
	e := parent.CreateElement(element.Name)

	for _, name := range element.AttributeNames() {
		e.CreateAttr(name, element.Attributes[name].Value)
	}

	for _, node := range element.Content {
		switch n := node.(type) {
		case *annotation.Element:
			writeElement(e, n)
		case *annotation.TextNode:
			e.CreateText(n.Text)
		}
	}
}
