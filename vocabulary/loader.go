package vocabulary

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// LoadXML reads CSDL XML vocabulary documents. A document may contain
// several schemas; each becomes one Vocabulary.
func LoadXML(r io.Reader) ([]*Vocabulary, []Definition, error) {
	doc := etree.NewDocument()

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Edmx" {
		return nil, nil, fmt.Errorf("%w: missing Edmx root element", ErrInvalidVocabulary)
	}

	var (
		vocabularies []*Vocabulary
		definitions  []Definition
	)

	for _, schema := range findElements(root, "Schema") {
		vocabulary, defs, err := readSchema(schema)
		if err != nil {
			return nil, nil, err
		}

		vocabularies = append(vocabularies, vocabulary)
		definitions = append(definitions, defs...)
	}

	if len(vocabularies) == 0 {
		return nil, nil, fmt.Errorf("%w: no Schema element", ErrInvalidVocabulary)
	}

	return vocabularies, definitions, nil
}

func findElements(e *etree.Element, tag string) []*etree.Element {
	var result []*etree.Element

	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			result = append(result, child)
			continue
		}

		result = append(result, findElements(child, tag)...)
	}

	return result
}

func readSchema(schema *etree.Element) (*Vocabulary, []Definition, error) {
	namespace := schema.SelectAttrValue("Namespace", "")
	if namespace == "" {
		return nil, nil, fmt.Errorf("%w: schema without namespace", ErrInvalidVocabulary)
	}

	alias := schema.SelectAttrValue("Alias", "")
	if alias == "" {
		alias = namespace
	}

	vocabulary := &Vocabulary{
		Namespace:   namespace,
		Alias:       alias,
		Description: descriptionOf(schema, "Core.Description"),
	}

	qualify := func(name string) string { return alias + "." + name }

	var definitions []Definition

	for _, child := range schema.ChildElements() {
		name := child.SelectAttrValue("Name", "")

		switch child.Tag {
		case "Term":
			typeName, isCollection := splitTypeName(child.SelectAttrValue("Type", ""))
			term := &Term{
				Name:            qualify(name),
				Type:            typeName,
				IsCollection:    isCollection,
				AppliesTo:       strings.Fields(child.SelectAttrValue("AppliesTo", "")),
				DefaultValue:    child.SelectAttrValue("DefaultValue", ""),
				BaseTerm:        child.SelectAttrValue("BaseTerm", ""),
				Description:     descriptionOf(child, "Core.Description"),
				LongDescription: descriptionOf(child, "Core.LongDescription"),
			}
			vocabulary.Terms = append(vocabulary.Terms, term)
			definitions = append(definitions, term)
		case "ComplexType":
			complexType := &ComplexType{
				Name:        qualify(name),
				BaseType:    child.SelectAttrValue("BaseType", ""),
				Abstract:    child.SelectAttrValue("Abstract", "false") == "true",
				Description: descriptionOf(child, "Core.Description"),
			}

			for _, prop := range child.SelectElements("Property") {
				typeName, isCollection := splitTypeName(prop.SelectAttrValue("Type", ""))
				complexType.Properties = append(complexType.Properties, &Property{
					Name:         prop.SelectAttrValue("Name", ""),
					Type:         typeName,
					IsCollection: isCollection,
					Nullable:     prop.SelectAttrValue("Nullable", "true") != "false",
					DefaultValue: prop.SelectAttrValue("DefaultValue", ""),
					Description:  descriptionOf(prop, "Core.Description"),
				})
			}

			definitions = append(definitions, complexType)
		case "EnumType":
			enumType := &EnumType{
				Name:        qualify(name),
				IsFlags:     child.SelectAttrValue("IsFlags", "false") == "true",
				Description: descriptionOf(child, "Core.Description"),
			}

			for _, member := range child.SelectElements("Member") {
				enumType.Members = append(enumType.Members, EnumMember{
					Name:  member.SelectAttrValue("Name", ""),
					Value: member.SelectAttrValue("Value", ""),
				})
			}

			definitions = append(definitions, enumType)
		case "TypeDefinition":
			definitions = append(definitions, &TypeDefinition{
				Name:           qualify(name),
				UnderlyingType: child.SelectAttrValue("UnderlyingType", ""),
				Description:    descriptionOf(child, "Core.Description"),
			})
		}
	}

	return vocabulary, definitions, nil
}

func descriptionOf(e *etree.Element, term string) string {
	for _, annotation := range e.SelectElements("Annotation") {
		if annotation.SelectAttrValue("Term", "") != term {
			continue
		}

		if value := annotation.SelectAttrValue("String", ""); value != "" {
			return value
		}

		if s := annotation.SelectElement("String"); s != nil {
			return strings.TrimSpace(s.Text())
		}
	}

	return ""
}
