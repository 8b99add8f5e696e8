// Package cdsast defines the syntax tree of CDS annotation assignments (the part after `@` in a
// .cds file) together with a tolerant parser producing it. Every node carries the source range it was
// read from so that consumers can map editor positions back to syntax.
package cdsast

import (
	"strings"

	"github.com/shibukawa/cdsodata/textdoc"
)

// NodeType discriminates the syntax tree node kinds
type NodeType string

const (
	AnnotationType                    NodeType = "annotation"
	AnnotationGroupType               NodeType = "annotation-group"
	AnnotationGroupItemsType          NodeType = "annotation-group-items"
	RecordType                        NodeType = "record"
	RecordPropertyType                NodeType = "record-property"
	CollectionType                    NodeType = "collection"
	PathType                          NodeType = "path"
	IdentifierType                    NodeType = "identifier"
	SeparatorType                     NodeType = "separator"
	StringLiteralType                 NodeType = "string"
	MultiLineStringLiteralType        NodeType = "multi-line-string"
	NumberLiteralType                 NodeType = "number"
	BooleanType                       NodeType = "boolean"
	EnumType                          NodeType = "enum"
	QuotedLiteralType                 NodeType = "quoted-literal"
	TokenType                         NodeType = "token"
	CorrectExpressionType             NodeType = "correct-expression"
	IncorrectExpressionType           NodeType = "incorrect-expression"
	UnsupportedOperatorExpressionType NodeType = "unsupported-operator-expression"
	FlattenedExpressionType           NodeType = "flattened-expression"
	EmptyValueType                    NodeType = "empty-value"
)

// Node is implemented by every syntax tree node
type Node interface {
	Type() NodeType
	NodeRange() *textdoc.Range
}

// Identifier is a single name segment. Delimited identifiers (`![...]`) keep the unescaped content.
type Identifier struct {
	Value     string
	Delimited bool
	Range     *textdoc.Range
}

// Separator is the `.` or `/` between two path segments
type Separator struct {
	Value string
	Range *textdoc.Range
}

// Token is a punctuation or keyword token kept for its position (colon, brackets, operators, null)
type Token struct {
	Value string
	Range *textdoc.Range
}

// Path is a sequence of identifiers separated by `.` or `/`
type Path struct {
	Segments   []*Identifier
	Separators []*Separator
	Value      string
	Range      *textdoc.Range
}

// Annotation is `@Term#Qualifier : value`; Term may be a flattened path
type Annotation struct {
	Term      *Path
	Qualifier *Identifier
	Colon     *Token
	Value     Node
	Range     *textdoc.Range
}

// AnnotationGroup is `@Alias : { Term: value, ... }`
type AnnotationGroup struct {
	Name  *Identifier
	Colon *Token
	Items *AnnotationGroupItems
	Range *textdoc.Range
}

// AnnotationGroupItems holds the annotations of a group
type AnnotationGroupItems struct {
	Items []*Annotation
	Open  *Token
	Close *Token
	Range *textdoc.Range
}

// Record is `{ name: value, ... }`
type Record struct {
	Properties []*RecordProperty
	Open       *Token
	Close      *Token
	Range      *textdoc.Range
}

// RecordProperty is one `name: value` entry of a record. Name may be a flattened path.
type RecordProperty struct {
	Name  *Path
	Colon *Token
	Value Node
	Range *textdoc.Range
}

// Collection is `[ value, ... ]`
type Collection struct {
	Items []Node
	Open  *Token
	Close *Token
	Range *textdoc.Range
}

// StringLiteral is a single quoted string; Value is unescaped
type StringLiteral struct {
	Value string
	Range *textdoc.Range
}

// MultiLineStringLiteral is a back-tick string
type MultiLineStringLiteral struct {
	Value            string
	StripIndentation bool
	Range            *textdoc.Range
}

// NumberLiteral keeps the literal text of a number
type NumberLiteral struct {
	Value string
	Range *textdoc.Range
}

// BooleanLiteral is true or false
type BooleanLiteral struct {
	Value bool
	Range *textdoc.Range
}

// Enum is `#Member`
type Enum struct {
	Path  *Path
	Range *textdoc.Range
}

// QuotedLiteralKind is the prefix of a typed literal such as date'2020-01-01'
type QuotedLiteralKind string

const (
	QuotedDate      QuotedLiteralKind = "date"
	QuotedTime      QuotedLiteralKind = "time"
	QuotedTimestamp QuotedLiteralKind = "timestamp"
	QuotedBinary    QuotedLiteralKind = "binary"
)

// QuotedLiteral is a typed literal
type QuotedLiteral struct {
	Kind  QuotedLiteralKind
	Value string
	Range *textdoc.Range
}

// CorrectExpression is a well formed operator expression
type CorrectExpression struct {
	OperatorName string
	Operators    []*Token
	Operands     []Node
	Range        *textdoc.Range
}

// IncorrectExpression is an expression whose operand count does not fit its operator
type IncorrectExpression struct {
	Message   string
	Operators []*Token
	Operands  []Node
	Range     *textdoc.Range
}

// UnsupportedOperatorExpression uses an operator without an EDM counterpart
type UnsupportedOperatorExpression struct {
	UnsupportedOperator *Token
	Operators           []*Token
	Operands            []Node
	Range               *textdoc.Range
}

// FlattenedExpression is a redundant pair of parentheses around a single operand
type FlattenedExpression struct {
	Expression Node
	Open       *Token
	Close      *Token
	Range      *textdoc.Range
}

// EmptyValue marks a missing value, e.g. `@UI.Hidden:` followed by nothing
type EmptyValue struct {
	Range *textdoc.Range
}

// Assignment is the parsed form of one annotation assignment text
type Assignment struct {
	Items []Node // *Annotation or *AnnotationGroup
	Range *textdoc.Range
}

func (n *Identifier) Type() NodeType                    { return IdentifierType }
func (n *Separator) Type() NodeType                     { return SeparatorType }
func (n *Token) Type() NodeType                         { return TokenType }
func (n *Path) Type() NodeType                          { return PathType }
func (n *Annotation) Type() NodeType                    { return AnnotationType }
func (n *AnnotationGroup) Type() NodeType               { return AnnotationGroupType }
func (n *AnnotationGroupItems) Type() NodeType          { return AnnotationGroupItemsType }
func (n *Record) Type() NodeType                        { return RecordType }
func (n *RecordProperty) Type() NodeType                { return RecordPropertyType }
func (n *Collection) Type() NodeType                    { return CollectionType }
func (n *StringLiteral) Type() NodeType                 { return StringLiteralType }
func (n *MultiLineStringLiteral) Type() NodeType        { return MultiLineStringLiteralType }
func (n *NumberLiteral) Type() NodeType                 { return NumberLiteralType }
func (n *BooleanLiteral) Type() NodeType                { return BooleanType }
func (n *Enum) Type() NodeType                          { return EnumType }
func (n *QuotedLiteral) Type() NodeType                 { return QuotedLiteralType }
func (n *CorrectExpression) Type() NodeType             { return CorrectExpressionType }
func (n *IncorrectExpression) Type() NodeType           { return IncorrectExpressionType }
func (n *UnsupportedOperatorExpression) Type() NodeType { return UnsupportedOperatorExpressionType }
func (n *FlattenedExpression) Type() NodeType           { return FlattenedExpressionType }
func (n *EmptyValue) Type() NodeType                    { return EmptyValueType }

func (n *Identifier) NodeRange() *textdoc.Range                    { return n.Range }
func (n *Separator) NodeRange() *textdoc.Range                     { return n.Range }
func (n *Token) NodeRange() *textdoc.Range                         { return n.Range }
func (n *Path) NodeRange() *textdoc.Range                          { return n.Range }
func (n *Annotation) NodeRange() *textdoc.Range                    { return n.Range }
func (n *AnnotationGroup) NodeRange() *textdoc.Range               { return n.Range }
func (n *AnnotationGroupItems) NodeRange() *textdoc.Range          { return n.Range }
func (n *Record) NodeRange() *textdoc.Range                        { return n.Range }
func (n *RecordProperty) NodeRange() *textdoc.Range                { return n.Range }
func (n *Collection) NodeRange() *textdoc.Range                    { return n.Range }
func (n *StringLiteral) NodeRange() *textdoc.Range                 { return n.Range }
func (n *MultiLineStringLiteral) NodeRange() *textdoc.Range        { return n.Range }
func (n *NumberLiteral) NodeRange() *textdoc.Range                 { return n.Range }
func (n *BooleanLiteral) NodeRange() *textdoc.Range                { return n.Range }
func (n *Enum) NodeRange() *textdoc.Range                          { return n.Range }
func (n *QuotedLiteral) NodeRange() *textdoc.Range                 { return n.Range }
func (n *CorrectExpression) NodeRange() *textdoc.Range             { return n.Range }
func (n *IncorrectExpression) NodeRange() *textdoc.Range           { return n.Range }
func (n *UnsupportedOperatorExpression) NodeRange() *textdoc.Range { return n.Range }
func (n *FlattenedExpression) NodeRange() *textdoc.Range           { return n.Range }
func (n *EmptyValue) NodeRange() *textdoc.Range                    { return n.Range }

// SegmentValues returns the plain values of the path segments
func (p *Path) SegmentValues() []string {
	values := make([]string, len(p.Segments))
	for i, segment := range p.Segments {
		values[i] = segment.Value
	}

	return values
}

// Property returns the first record property whose single-segment name equals name
func (r *Record) Property(name string) *RecordProperty {
	for _, property := range r.Properties {
		if property.Name != nil && len(property.Name.Segments) == 1 && property.Name.Segments[0].Value == name {
			return property
		}
	}

	return nil
}

// IsNull reports whether the node is the `null` token
func IsNull(node Node) bool {
	token, ok := node.(*Token)

	return ok && strings.EqualFold(token.Value, "null")
}
