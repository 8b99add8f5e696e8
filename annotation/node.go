// Package annotation contains the generic, position aware annotation node model shared by the CDS
// converter, the CDS printer and the EDMX writer. An Element mirrors an EDM construct (Annotation,
// Record, Collection, PropertyValue or a primitive wrapper such as String or Path), a TextNode holds
// primitive text.
package annotation

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/shibukawa/cdsodata/textdoc"
)

// NodeKind discriminates generic nodes
type NodeKind string

const (
	ElementKind NodeKind = "element"
	TextKind    NodeKind = "text"
)

// Node is either *Element or *TextNode
type Node interface {
	Kind() NodeKind
	NodeRange() *textdoc.Range
}

// Attribute is a named attribute of an element
type Attribute struct {
	Name       string         `json:"name"`
	Value      string         `json:"value"`
	NameRange  *textdoc.Range `json:"nameRange,omitempty"`
	ValueRange *textdoc.Range `json:"valueRange,omitempty"`
}

// Element is an EDM construct
type Element struct {
	Name         string                `json:"name"`
	NameRange    *textdoc.Range        `json:"nameRange,omitempty"`
	Range        *textdoc.Range        `json:"range,omitempty"`
	ContentRange *textdoc.Range        `json:"contentRange,omitempty"`
	Attributes   map[string]*Attribute `json:"attributes"`
	Content      []Node                `json:"content"`
}

// TextNode is primitive text. FragmentRanges mark sub-spans such as individual path segments.
type TextNode struct {
	Text           string          `json:"text"`
	Range          *textdoc.Range  `json:"range,omitempty"`
	FragmentRanges []textdoc.Range `json:"fragmentRanges,omitempty"`
}

func (e *Element) Kind() NodeKind             { return ElementKind }
func (e *Element) NodeRange() *textdoc.Range  { return e.Range }
func (t *TextNode) Kind() NodeKind            { return TextKind }
func (t *TextNode) NodeRange() *textdoc.Range { return t.Range }

// NewElement creates an element with the given content
func NewElement(name string, r *textdoc.Range, content ...Node) *Element {
	return &Element{
		Name:       name,
		Range:      textdoc.CopyRange(r),
		Attributes: map[string]*Attribute{},
		Content:    append([]Node{}, content...),
	}
}

// NewText creates a text node
func NewText(text string, r *textdoc.Range) *TextNode {
	return &TextNode{Text: text, Range: textdoc.CopyRange(r)}
}

// NewAttribute creates an attribute
func NewAttribute(name, value string, valueRange *textdoc.Range) *Attribute {
	return &Attribute{Name: name, Value: value, ValueRange: textdoc.CopyRange(valueRange)}
}

// SetAttribute adds or replaces an attribute
func (e *Element) SetAttribute(attribute *Attribute) *Element {
	if e.Attributes == nil {
		e.Attributes = map[string]*Attribute{}
	}

	e.Attributes[attribute.Name] = attribute

	return e
}

// Attr returns the named attribute or nil
func (e *Element) Attr(name string) *Attribute {
	if e == nil || e.Attributes == nil {
		return nil
	}

	return e.Attributes[name]
}

// AttrValue returns the value of the named attribute or ""
func (e *Element) AttrValue(name string) string {
	if attribute := e.Attr(name); attribute != nil {
		return attribute.Value
	}

	return ""
}

// AttributeNames returns the attribute names in a stable order
func (e *Element) AttributeNames() []string {
	return slices.Sorted(maps.Keys(e.Attributes))
}

// Append adds nodes to the content
func (e *Element) Append(nodes ...Node) {
	e.Content = append(e.Content, nodes...)
}

// ChildElements returns the element children
func (e *Element) ChildElements() []*Element {
	children := make([]*Element, 0, len(e.Content))

	for _, node := range e.Content {
		if element, ok := node.(*Element); ok {
			children = append(children, element)
		}
	}

	return children
}

// ElementsWithName returns the element children with the given name
func (e *Element) ElementsWithName(name string) []*Element {
	var children []*Element

	for _, child := range e.ChildElements() {
		if child.Name == name {
			children = append(children, child)
		}
	}

	return children
}

// Text returns the concatenated text children
func (e *Element) Text() string {
	var sb strings.Builder

	for _, node := range e.Content {
		if text, ok := node.(*TextNode); ok {
			sb.WriteString(text.Text)
		}
	}

	return sb.String()
}

// TextNodeChild returns the first text child or nil
func (e *Element) TextNodeChild() *TextNode {
	for _, node := range e.Content {
		if text, ok := node.(*TextNode); ok {
			return text
		}
	}

	return nil
}

// MarshalJSON adds the node kind discriminator
func (e *Element) MarshalJSON() ([]byte, error) {
	type element Element

	return json.Marshal(struct {
		Type NodeKind `json:"type"`
		*element
	}{Type: ElementKind, element: (*element)(e)})
}

// MarshalJSON adds the node kind discriminator
func (t *TextNode) MarshalJSON() ([]byte, error) {
	type text TextNode

	return json.Marshal(struct {
		Type NodeKind `json:"type"`
		*text
	}{Type: TextKind, text: (*text)(t)})
}
