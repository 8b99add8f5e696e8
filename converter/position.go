package converter

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/textdoc"
)

// NodePointer addresses a location inside a generic annotation element, e.g.
// ["content", "0", "content", "1", "text", "$4"] is the fifth character of the text of the second
// child of the first child. A "$i" segment below "content" is the gap before child i.
type NodePointer struct {
	Path  []string
	Range *textdoc.Range
}

// String renders the pointer as slash separated path
func (p NodePointer) String() string {
	return strings.Join(p.Path, "/")
}

// FindNode resolves pos to a pointer into element, the conversion result of item. The syntax
// node is used to refine positions inside literals, enum values and paths.
func FindNode(element *annotation.Element, item cdsast.Node, pos textdoc.Position) (*NodePointer, bool) {
	if element == nil {
		return nil, false
	}

	path, r, ok := locate(element, pos)
	if !ok {
		return nil, false
	}

	pointer := &NodePointer{Path: path, Range: r}

	chain := astChain(item, pos)
	if len(chain) == 0 {
		return pointer, true
	}

	refine(pointer, element, chain, pos)

	return pointer, true
}

// locate is the structural pass over the generic nodes
func locate(node annotation.Node, pos textdoc.Position) ([]string, *textdoc.Range, bool) {
	switch n := node.(type) {
	case *annotation.TextNode:
		if n.Range != nil && n.Range.Contains(pos) {
			return []string{"text"}, n.Range, true
		}

		return nil, nil, false
	case *annotation.Element:
		for _, name := range n.AttributeNames() {
			attribute := n.Attributes[name]
			if attribute.ValueRange != nil && attribute.ValueRange.Contains(pos) {
				return []string{"attributes", name, "value"}, attribute.ValueRange, true
			}

			if attribute.NameRange != nil && attribute.NameRange.Contains(pos) {
				return []string{"attributes", name, "name"}, attribute.NameRange, true
			}
		}

		if n.NameRange != nil && n.NameRange.Contains(pos) {
			return []string{"name"}, n.NameRange, true
		}

		for i, child := range n.Content {
			if path, r, ok := locate(child, pos); ok {
				return append([]string{"content", strconv.Itoa(i)}, path...), r, true
			}
		}

		if n.ContentRange != nil && n.ContentRange.Contains(pos) {
			gap := 0

			for _, child := range n.Content {
				if r := child.NodeRange(); r != nil && !r.End.After(pos) {
					gap++
				}
			}

			return []string{"content", "$" + strconv.Itoa(gap)}, &textdoc.Range{Start: pos, End: pos}, true
		}

		if n.Range != nil && n.Range.Contains(pos) {
			return []string{}, n.Range, true
		}
	}

	return nil, nil, false
}

func astChildren(node cdsast.Node) []cdsast.Node {
	var children []cdsast.Node

	add := func(nodes ...cdsast.Node) {
		for _, n := range nodes {
			if n != nil && n.NodeRange() != nil {
				children = append(children, n)
			}
		}
	}

	switch n := node.(type) {
	case *cdsast.Annotation:
		if n.Term != nil {
			add(n.Term)
		}

		add(n.Value)
	case *cdsast.AnnotationGroup:
		if n.Items != nil {
			for _, item := range n.Items.Items {
				add(item)
			}
		}
	case *cdsast.Record:
		for _, property := range n.Properties {
			add(property)
		}
	case *cdsast.RecordProperty:
		if n.Name != nil {
			add(n.Name)
		}

		add(n.Value)
	case *cdsast.Collection:
		add(n.Items...)
	case *cdsast.CorrectExpression:
		add(n.Operands...)
	case *cdsast.IncorrectExpression:
		add(n.Operands...)
	case *cdsast.UnsupportedOperatorExpression:
		add(n.Operands...)
	case *cdsast.FlattenedExpression:
		add(n.Expression)
	}

	return children
}

// astChain returns the syntax nodes containing pos, outermost first
func astChain(node cdsast.Node, pos textdoc.Position) []cdsast.Node {
	var chain []cdsast.Node

	for node != nil {
		r := node.NodeRange()
		if r == nil || !r.Contains(pos) {
			break
		}

		chain = append(chain, node)

		var next cdsast.Node

		for _, child := range astChildren(node) {
			if child.NodeRange().Contains(pos) {
				next = child

				break
			}
		}

		node = next
	}

	return chain
}

func lastSegment(path []string) string {
	if len(path) == 0 {
		return ""
	}

	return path[len(path)-1]
}

// textAt follows a pointer path down to a text node
func textAt(element *annotation.Element, path []string) *annotation.TextNode {
	var node annotation.Node = element

	for i := 0; i < len(path); i++ {
		switch path[i] {
		case "content":
			e, ok := node.(*annotation.Element)
			if !ok || i+1 >= len(path) {
				return nil
			}

			index, err := strconv.Atoi(path[i+1])
			if err != nil || index >= len(e.Content) {
				return nil
			}

			node = e.Content[index]
			i++
		case "text":
			text, _ := node.(*annotation.TextNode)

			return text
		default:
			return nil
		}
	}

	return nil
}

func offsetSegment(offset int) string {
	return "$" + strconv.Itoa(max(offset, 0))
}

// refine is the syntax pass: it turns a hit on a text node into a character offset and handles
// positions the generic nodes do not cover
func refine(pointer *NodePointer, element *annotation.Element, chain []cdsast.Node, pos textdoc.Position) {
	innermost := chain[len(chain)-1]

	if empty, ok := innermost.(*cdsast.EmptyValue); ok {
		pointer.Range = textdoc.CopyRange(empty.Range)

		return
	}

	if colon, value := colonAndValue(innermost); colon != nil && colon.Range != nil && value != nil && value.NodeRange() != nil {
		if pos.After(colon.Range.End) && pos.Before(value.NodeRange().Start) && strings.HasPrefix(lastSegment(pointer.Path), "$") {
			pointer.Path = pointer.Path[:len(pointer.Path)-1]

			return
		}
	}

	if lastSegment(pointer.Path) == "text" {
		switch n := innermost.(type) {
		case *cdsast.StringLiteral:
			if pos.Line == n.Range.Start.Line {
				pointer.Path = append(pointer.Path, stringOffset(n, pos))
			}
		case *cdsast.NumberLiteral:
			pointer.Path = append(pointer.Path, offsetSegment(pos.Character-n.Range.Start.Character))
		case *cdsast.Enum:
			pointer.Path = append(pointer.Path, enumOffset(textAt(element, pointer.Path), n, pos))
		case *cdsast.Collection:
			pointer.Path = append(pointer.Path, enumOffset(textAt(element, pointer.Path), n, pos))
		case *cdsast.Path:
			pointer.Path = append(pointer.Path, pathOffset(n, pos))
		}

		return
	}

	if record := edmJSONRecordAt(chain); record != nil && atElement(pointer.Path) {
		if len(record.Properties) == 0 || record.Properties[0].Range == nil || pos.Before(record.Properties[0].Range.Start) {
			pointer.Path = append(pointer.Path, "content", "$0")
		} else {
			pointer.Path = append(pointer.Path, "attributes")
		}
	}
}

func colonAndValue(node cdsast.Node) (*cdsast.Token, cdsast.Node) {
	switch n := node.(type) {
	case *cdsast.Annotation:
		return n.Colon, n.Value
	case *cdsast.RecordProperty:
		return n.Colon, n.Value
	}

	return nil, nil
}

// edmJSONRecordAt returns the innermost record of the chain below a `$edmJson` property
func edmJSONRecordAt(chain []cdsast.Node) *cdsast.Record {
	var (
		below  bool
		record *cdsast.Record
	)

	for _, node := range chain {
		switch n := node.(type) {
		case *cdsast.RecordProperty:
			if n.Name != nil && len(n.Name.Segments) == 1 && isEdmJSONName(n.Name.Segments[0].Value) {
				below = true
			}
		case *cdsast.Record:
			if below {
				record = n
			}
		}
	}

	return record
}

// atElement reports whether the pointer stops at an element rather than inside one
func atElement(path []string) bool {
	last := lastSegment(path)
	if last == "" {
		return true
	}

	_, err := strconv.Atoi(last)

	return err == nil
}

// stringOffset maps pos inside a quoted string to an offset in its unescaped value. A `''` pair
// occupies two columns but one character of the value.
func stringOffset(literal *cdsast.StringLiteral, pos textdoc.Position) string {
	local := pos.Character - literal.Range.Start.Character - 1
	column := 0
	offset := 0

	for _, r := range literal.Value {
		width := utf16.RuneLen(r)
		if r == '\'' {
			width = 2
		}

		if column+width > local {
			break
		}

		column += width
		offset += utf16.RuneLen(r)
	}

	return offsetSegment(offset)
}

// enumOffset maps pos inside `#B` or `[ #A, #B ]` to an offset in the text "T/A T/B"
func enumOffset(text *annotation.TextNode, node cdsast.Node, pos textdoc.Position) string {
	if text == nil {
		return offsetSegment(0)
	}

	members := strings.Split(text.Text, " ")

	fragments := text.FragmentRanges
	if len(fragments) == 0 && node.NodeRange() != nil {
		fragments = []textdoc.Range{*node.NodeRange()}
	}

	base := 0

	for i, fragment := range fragments {
		if i >= len(members) {
			break
		}

		member := members[i]
		if fragment.Contains(pos) {
			prefix := strings.Index(member, "/") + 1
			local := pos.Character - fragment.Start.Character - 1

			return offsetSegment(base + prefix + max(local, 0))
		}

		base += len(member) + 1
	}

	return offsetSegment(base)
}

// pathOffset maps pos inside a path to an offset in its slash separated text
func pathOffset(path *cdsast.Path, pos textdoc.Position) string {
	base := 0

	for _, segment := range path.Segments {
		if segment.Range != nil && segment.Range.Contains(pos) {
			local := pos.Character - segment.Range.Start.Character
			if segment.Delimited {
				local -= 2
			}

			return offsetSegment(base + min(max(local, 0), len(segment.Value)))
		}

		base += len(segment.Value) + 1
	}

	return offsetSegment(base)
}
