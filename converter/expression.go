package converter

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
)

var operatorElements = map[string]string{
	"=":    annotation.Eq,
	"==":   annotation.Eq,
	"!=":   annotation.Ne,
	"<>":   annotation.Ne,
	"<":    annotation.Lt,
	"<=":   annotation.Le,
	">":    annotation.Gt,
	">=":   annotation.Ge,
	"and":  annotation.And,
	"or":   annotation.Or,
	"not":  annotation.Not,
	"+":    annotation.Add,
	"-":    annotation.Sub,
	"*":    annotation.Mul,
	"/":    annotation.DivBy,
	"%":    annotation.Mod,
	"?:":   annotation.If,
	"in":   annotation.In,
	"||":   annotation.Apply,
	"like": annotation.Apply,

	"not in":      annotation.In,
	"not like":    annotation.Apply,
	"is null":     annotation.Eq,
	"is not null": annotation.Ne,
}

var operatorFunctions = map[string]string{
	"||":       "odata.concat",
	"like":     "odata.matchesPattern",
	"not like": "odata.matchesPattern",
}

func convertCorrectExpression(_ *VisitorState, node cdsast.Node) ConversionResult {
	expr := node.(*cdsast.CorrectExpression)
	operator := strings.ToLower(expr.OperatorName)

	name, ok := operatorElements[operator]
	if !ok {
		return None()
	}

	if operator == "-" && len(expr.Operands) == 1 {
		name = annotation.Neg
	}

	element := annotation.NewElement(name, expr.Range)
	if function, ok := operatorFunctions[operator]; ok {
		element.SetAttribute(annotation.NewAttribute(annotation.Function, function, nil))
	}

	if strings.HasPrefix(operator, "not ") {
		not := annotation.NewElement(annotation.Not, expr.Range, element)

		return Subtree(not, element)
	}

	return Single(element)
}

func expressionChildren(s *VisitorState, node cdsast.Node) []cdsast.Node {
	expr := node.(*cdsast.CorrectExpression)

	// operands are not typed by the surrounding term
	s.PushContext(Context{})

	children := append([]cdsast.Node{}, expr.Operands...)

	switch strings.ToLower(expr.OperatorName) {
	case "is null", "is not null":
		children = append(children, &cdsast.Token{Value: "null"})
	}

	return children
}

func convertUnsupportedExpression(_ *VisitorState, node cdsast.Node) ConversionResult {
	expr := node.(*cdsast.UnsupportedOperatorExpression)
	if expr.UnsupportedOperator == nil {
		return None()
	}

	return Single(annotation.NewElement(expr.UnsupportedOperator.Value, expr.Range))
}

func convertIncorrectExpression(_ *VisitorState, _ cdsast.Node) ConversionResult {
	return None()
}

func convertFlattenedExpression(_ *VisitorState, _ cdsast.Node) ConversionResult {
	return None()
}

func flattenedExpressionChildren(_ *VisitorState, node cdsast.Node) []cdsast.Node {
	expr := node.(*cdsast.FlattenedExpression)
	if expr.Expression == nil {
		return nil
	}

	return []cdsast.Node{expr.Expression}
}
