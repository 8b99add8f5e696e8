// Package converter turns CDS annotation syntax trees into generic annotation nodes, resolves
// editor positions to node pointers and assembles the annotation file of a CDS source file.
package converter

import (
	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
)

type resultKind int

const (
	resultNone resultKind = iota
	resultSingle
	resultSubtree
)

// ConversionResult is what a handler produces: nothing, one element, or a chain of elements
// where children attach to Leaf and the parent receives Root
type ConversionResult struct {
	kind resultKind
	Root *annotation.Element
	Leaf *annotation.Element
}

// None is the empty conversion result
func None() ConversionResult {
	return ConversionResult{kind: resultNone}
}

// Single wraps one element
func Single(element *annotation.Element) ConversionResult {
	if element == nil {
		return None()
	}

	return ConversionResult{kind: resultSingle, Root: element, Leaf: element}
}

// Subtree wraps an element chain
func Subtree(root, leaf *annotation.Element) ConversionResult {
	if root == nil {
		return None()
	}

	return ConversionResult{kind: resultSubtree, Root: root, Leaf: leaf}
}

// IsNone reports whether nothing was produced
func (r ConversionResult) IsNone() bool {
	return r.kind == resultNone
}

// NodeHandler converts one syntax node kind
type NodeHandler struct {
	Convert     func(s *VisitorState, node cdsast.Node) ConversionResult
	GetChildren func(s *VisitorState, node cdsast.Node) []cdsast.Node
}

var handlers map[cdsast.NodeType]NodeHandler

func init() {
	handlers = map[cdsast.NodeType]NodeHandler{
		cdsast.AnnotationType:                    {Convert: convertAnnotation, GetChildren: annotationChildren},
		cdsast.AnnotationGroupType:               {Convert: convertAnnotationGroup, GetChildren: annotationGroupChildren},
		cdsast.RecordType:                        {Convert: convertRecord, GetChildren: recordChildren},
		cdsast.RecordPropertyType:                {Convert: convertRecordProperty, GetChildren: recordPropertyChildren},
		cdsast.CollectionType:                    {Convert: convertCollection, GetChildren: collectionChildren},
		cdsast.PathType:                          {Convert: convertPath},
		cdsast.StringLiteralType:                 {Convert: convertString},
		cdsast.MultiLineStringLiteralType:        {Convert: convertMultiLineString},
		cdsast.NumberLiteralType:                 {Convert: convertNumber},
		cdsast.BooleanType:                       {Convert: convertBoolean},
		cdsast.EnumType:                          {Convert: convertEnum},
		cdsast.QuotedLiteralType:                 {Convert: convertQuotedLiteral},
		cdsast.TokenType:                         {Convert: convertToken},
		cdsast.CorrectExpressionType:             {Convert: convertCorrectExpression, GetChildren: expressionChildren},
		cdsast.UnsupportedOperatorExpressionType: {Convert: convertUnsupportedExpression},
		cdsast.IncorrectExpressionType:           {Convert: convertIncorrectExpression},
		cdsast.FlattenedExpressionType:           {Convert: convertFlattenedExpression, GetChildren: flattenedExpressionChildren},
	}
}

// Visit converts node and its children. Nodes without handler are dropped.
func (s *VisitorState) Visit(node cdsast.Node) *annotation.Element {
	if node == nil {
		return nil
	}

	handler, ok := handlers[node.Type()]
	if !ok {
		return nil
	}

	defer s.Scope()()

	result := handler.Convert(s, node)

	var children []cdsast.Node
	if handler.GetChildren != nil {
		children = handler.GetChildren(s, node)
	}

	parent := s.currentElement()
	if result.IsNone() && len(children) == 0 && parent == nil {
		return nil
	}

	leaf := result.Leaf
	if result.IsNone() {
		leaf = parent
	}

	s.elements = append(s.elements, leaf)

	for _, child := range children {
		if element := s.Visit(child); element != nil && leaf != nil {
			leaf.Append(element)
		}
	}

	s.elements = s.elements[:len(s.elements)-1]

	return result.Root
}

// ConvertAnnotation converts one top level assignment item. Groups yield one element per
// annotation they contain.
func ConvertAnnotation(s *VisitorState, node cdsast.Node) []*annotation.Element {
	defer s.Scope()()

	var items []cdsast.Node

	switch n := node.(type) {
	case *cdsast.AnnotationGroup:
		s.PushContext(Context{GroupName: n.Name.Value})

		if n.Items != nil {
			for _, item := range n.Items.Items {
				items = append(items, item)
			}
		}
	default:
		items = []cdsast.Node{node}
	}

	var elements []*annotation.Element

	for _, item := range items {
		if element := s.Visit(item); element != nil {
			elements = append(elements, element)
		}
	}

	return elements
}

// ConvertAssignment converts all items of an assignment
func ConvertAssignment(s *VisitorState, assignment *cdsast.Assignment) []*annotation.Element {
	var elements []*annotation.Element

	for _, item := range assignment.Items {
		elements = append(elements, ConvertAnnotation(s, item)...)
	}

	return elements
}
