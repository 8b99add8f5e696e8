package vocabulary

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Describe renders a short plain text description of a term or type.
// Markdown in long descriptions is reduced to its text content.
func (s *Service) Describe(name string) (string, error) {
	var b strings.Builder

	if term := s.Term(name); term != nil {
		typeName := term.Type
		if term.IsCollection {
			typeName = "Collection(" + typeName + ")"
		}

		fmt.Fprintf(&b, "term %s: %s\n", term.Name, typeName)

		if len(term.AppliesTo) > 0 {
			fmt.Fprintf(&b, "applies to: %s\n", strings.Join(term.AppliesTo, ", "))
		}

		writeDescription(&b, term.Description)
		writeDescription(&b, term.LongDescription)

		return b.String(), nil
	}

	switch def := s.Type(name).(type) {
	case *ComplexType:
		fmt.Fprintf(&b, "complex type %s", def.Name)

		if def.BaseType != "" {
			fmt.Fprintf(&b, " : %s", def.BaseType)
		}

		b.WriteString("\n")

		for _, p := range s.ComplexTypeProperties(def.Name) {
			typeName := p.Type
			if p.IsCollection {
				typeName = "Collection(" + typeName + ")"
			}

			fmt.Fprintf(&b, "  %s: %s\n", p.Name, typeName)
		}

		writeDescription(&b, def.Description)
	case *EnumType:
		kind := "enum"
		if def.IsFlags {
			kind = "flags enum"
		}

		fmt.Fprintf(&b, "%s %s\n", kind, def.Name)

		for _, m := range def.Members {
			fmt.Fprintf(&b, "  #%s\n", m.Name)
		}

		writeDescription(&b, def.Description)
	case *TypeDefinition:
		fmt.Fprintf(&b, "type definition %s: %s\n", def.Name, def.UnderlyingType)
		writeDescription(&b, def.Description)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTerm, name)
	}

	return b.String(), nil
}

func writeDescription(b *strings.Builder, markdown string) {
	if plain := PlainText(markdown); plain != "" {
		b.WriteString(plain)
		b.WriteString("\n")
	}
}

// PlainText strips markdown markup and joins paragraphs with blank lines.
func PlainText(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		paragraphs []string
		current    strings.Builder
	)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if !entering && current.Len() > 0 {
				paragraphs = append(paragraphs, strings.TrimSpace(current.String()))
				current.Reset()
			}
		case *ast.Text:
			if entering {
				current.Write(node.Segment.Value(source))

				if node.SoftLineBreak() || node.HardLineBreak() {
					current.WriteString(" ")
				}
			}
		case *ast.String:
			if entering {
				current.Write(node.Value)
			}
		}

		return ast.WalkContinue, nil
	})

	if current.Len() > 0 {
		paragraphs = append(paragraphs, strings.TrimSpace(current.String()))
	}

	return strings.Join(paragraphs, "\n\n")
}
