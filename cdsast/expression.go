package cdsast

import (
	"strings"

	"github.com/shibukawa/cdsodata/textdoc"
)

const (
	precTernary = iota + 1
	precOr
	precAnd
	precNot
	precCompare
	precConcat
	precAdditive
	precMultiplicative
	precUnary
)

type operatorKind int

const (
	binaryOperator operatorKind = iota
	ternaryOperator
	postfixOperator
	unsupportedOperator
)

type operatorMatch struct {
	name  string
	count int // number of lexemes forming the operator
	prec  int
	kind  operatorKind
}

var symbolOperators = map[string]int{
	"=":  precCompare,
	"==": precCompare,
	"!=": precCompare,
	"<>": precCompare,
	"<":  precCompare,
	"<=": precCompare,
	">":  precCompare,
	">=": precCompare,
	"||": precConcat,
	"+":  precAdditive,
	"-":  precAdditive,
	"*":  precMultiplicative,
	"/":  precMultiplicative,
	"%":  precMultiplicative,
}

// matchOperator inspects the current lexemes for an infix or postfix operator
func (p *parser) matchOperator() *operatorMatch {
	lexeme := p.current()

	switch lexeme.Type {
	case OPERATOR, SLASH:
		if prec, ok := symbolOperators[lexeme.Raw]; ok {
			return &operatorMatch{name: lexeme.Raw, count: 1, prec: prec, kind: binaryOperator}
		}

		return &operatorMatch{name: lexeme.Raw, count: 1, prec: precCompare, kind: unsupportedOperator}
	case QUESTION:
		return &operatorMatch{name: "?:", count: 1, prec: precTernary, kind: ternaryOperator}
	case OTHER:
		return &operatorMatch{name: lexeme.Raw, count: 1, prec: precCompare, kind: unsupportedOperator}
	case IDENTIFIER:
		word := strings.ToLower(lexeme.Raw)
		next := strings.ToLower(p.peek(1).Raw)
		third := strings.ToLower(p.peek(2).Raw)

		switch word {
		case "and":
			return &operatorMatch{name: "and", count: 1, prec: precAnd, kind: binaryOperator}
		case "or":
			return &operatorMatch{name: "or", count: 1, prec: precOr, kind: binaryOperator}
		case "in", "like":
			return &operatorMatch{name: word, count: 1, prec: precCompare, kind: binaryOperator}
		case "not":
			if next == "in" || next == "like" {
				return &operatorMatch{name: "not " + next, count: 2, prec: precCompare, kind: binaryOperator}
			}
		case "is":
			if next == "null" {
				return &operatorMatch{name: "is null", count: 2, prec: precCompare, kind: postfixOperator}
			}

			if next == "not" && third == "null" {
				return &operatorMatch{name: "is not null", count: 3, prec: precCompare, kind: postfixOperator}
			}
		case "between", "exists", "escape":
			return &operatorMatch{name: word, count: 1, prec: precCompare, kind: unsupportedOperator}
		}
	}

	return nil
}

// parseParenExpression parses `( expression )`
func (p *parser) parseParenExpression() Node {
	open := p.consume()
	inner, hasOperator := p.parseExpression(0)

	var closeToken *Token
	if p.is(RPAREN) {
		closeToken = toToken(p.consume())
	} else {
		p.skipUntil(RPAREN, COMMA, RBRACE, RBRACKET)

		if p.is(RPAREN) {
			closeToken = toToken(p.consume())
		}
	}

	r := span(open.Start, p.last)

	if !hasOperator {
		return &FlattenedExpression{Expression: inner, Open: toToken(open), Close: closeToken, Range: r}
	}

	switch expr := inner.(type) {
	case *CorrectExpression:
		expr.Range = r
	case *IncorrectExpression:
		expr.Range = r
	case *UnsupportedOperatorExpression:
		expr.Range = r
	}

	return inner
}

func isMissing(node Node) bool {
	_, empty := node.(*EmptyValue)

	return node == nil || empty
}

func operandSpan(operands []Node, operators []*Token) *textdoc.Range {
	var result *textdoc.Range

	add := func(r *textdoc.Range) {
		if r == nil {
			return
		}

		if result == nil {
			c := *r
			result = &c

			return
		}

		u := textdoc.Union(*result, *r)
		result = &u
	}

	for _, operand := range operands {
		if operand != nil {
			add(operand.NodeRange())
		}
	}

	for _, operator := range operators {
		add(operator.Range)
	}

	return result
}

func newExpression(name string, operators []*Token, operands []Node) Node {
	for _, operand := range operands {
		if isMissing(operand) {
			return &IncorrectExpression{
				Message:   "missing operand for operator '" + name + "'",
				Operators: operators,
				Operands:  operands,
				Range:     operandSpan(operands, operators),
			}
		}
	}

	return &CorrectExpression{
		OperatorName: name,
		Operators:    operators,
		Operands:     operands,
		Range:        operandSpan(operands, operators),
	}
}

func (p *parser) consumeOperator(count int) []*Token {
	tokens := make([]*Token, 0, count)
	for range count {
		tokens = append(tokens, toToken(p.consume()))
	}

	return tokens
}

// parseExpression implements precedence climbing. The boolean result reports whether an operator
// was found at this nesting level.
func (p *parser) parseExpression(minPrec int) (Node, bool) {
	left, hasOperator := p.parseUnary()

	for {
		match := p.matchOperator()
		if match == nil || match.prec < minPrec {
			return left, hasOperator
		}

		hasOperator = true
		operators := p.consumeOperator(match.count)

		switch match.kind {
		case postfixOperator:
			left = newExpression(match.name, operators, []Node{left})
		case ternaryOperator:
			middle, _ := p.parseExpression(precTernary)

			var right Node = &EmptyValue{Range: span(p.last, p.last)}
			if p.is(COLON) {
				operators = append(operators, toToken(p.consume()))
				right, _ = p.parseExpression(precTernary)
			}

			left = newExpression(match.name, operators, []Node{left, middle, right})
		case unsupportedOperator:
			right, _ := p.parseExpression(match.prec + 1)
			operands := []Node{left, right}

			if match.name == "between" && p.isKeyword("and") {
				operators = append(operators, toToken(p.consume()))
				third, _ := p.parseExpression(match.prec + 1)
				operands = append(operands, third)
			}

			left = &UnsupportedOperatorExpression{
				UnsupportedOperator: operators[0],
				Operators:           operators,
				Operands:            operands,
				Range:               operandSpan(operands, operators),
			}
		default:
			right, _ := p.parseExpression(match.prec + 1)
			left = newExpression(match.name, operators, []Node{left, right})
		}
	}
}

func (p *parser) parseUnary() (Node, bool) {
	lexeme := p.current()

	if lexeme.Type == IDENTIFIER && strings.EqualFold(lexeme.Raw, "not") {
		operators := p.consumeOperator(1)
		operand, _ := p.parseExpression(precNot)

		return newExpression("not", operators, []Node{operand}), true
	}

	if lexeme.Type == OPERATOR && lexeme.Raw == "-" {
		next := p.peek(1)
		if next.Type != NUMBER || next.Start != lexeme.End {
			operators := p.consumeOperator(1)
			operand, _ := p.parseUnary()

			return newExpression("-", operators, []Node{operand}), true
		}
	}

	return p.parseValue(), false
}
