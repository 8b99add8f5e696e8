// Package printer turns generic annotation nodes back into CDS source text.
package printer

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/formatter"
)

// Pattern is the shape of the `annotate` statement needed for a target
type Pattern string

const (
	PatternArtifact       Pattern = "artifact"
	PatternElement        Pattern = "element"
	PatternParameter      Pattern = "parameter"
	PatternBoundAction    Pattern = "boundAction"
	PatternBoundParameter Pattern = "boundParameter"
)

// TargetInfo is the classification of an EDMX target path
type TargetInfo struct {
	Pattern   Pattern
	Root      string
	Elements  []string // element pattern: child segments below Root
	Action    string   // bound patterns: action name without namespace
	Parameter string   // boundParameter pattern
}

// Target is what PrintTarget renders
type Target struct {
	Name  string
	Terms []*annotation.Element
}

// ResolveTarget classifies an EDMX target path such as `Service.Books/title` or
// `Service.addRating(Service.Books)/stars`
func ResolveTarget(name string) TargetInfo {
	segments := splitTargetPath(name)

	actionIndex := -1

	for i, segment := range segments {
		open := strings.Index(segment, "(")
		if open >= 0 && strings.LastIndex(segment, ")") > open {
			actionIndex = i
			break
		}
	}

	if actionIndex < 0 {
		if len(segments) <= 1 {
			return TargetInfo{Pattern: PatternArtifact, Root: name}
		}

		return TargetInfo{Pattern: PatternElement, Root: segments[0], Elements: segments[1:]}
	}

	signature := segments[actionIndex]
	open := strings.Index(signature, "(")
	qualifiedAction := signature[:open]
	binding := bindingType(signature[open+1 : strings.LastIndex(signature, ")")])
	rest := segments[actionIndex+1:]

	if binding == "" {
		if len(rest) == 0 {
			return TargetInfo{Pattern: PatternParameter, Root: qualifiedAction}
		}

		return TargetInfo{Pattern: PatternElement, Root: qualifiedAction, Elements: rest}
	}

	action := qualifiedAction
	if dot := strings.LastIndex(action, "."); dot >= 0 {
		action = action[dot+1:]
	}

	if len(rest) == 0 {
		return TargetInfo{Pattern: PatternBoundAction, Root: binding, Action: action}
	}

	return TargetInfo{Pattern: PatternBoundParameter, Root: binding, Action: action, Parameter: rest[0]}
}

// splitTargetPath splits at slashes outside parentheses
func splitTargetPath(name string) []string {
	var (
		segments []string
		depth    int
		start    int
	)

	for i, c := range name {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case '/':
			if depth == 0 {
				segments = append(segments, name[start:i])
				start = i + 1
			}
		}
	}

	return append(segments, name[start:])
}

// bindingType extracts the entity of the first (binding) parameter
func bindingType(parameters string) string {
	first, _, _ := strings.Cut(parameters, ",")
	first = strings.TrimSpace(first)

	if inner, ok := strings.CutPrefix(first, "Collection("); ok {
		first = strings.TrimSuffix(inner, ")")
	}

	return first
}

// PrintTarget renders a complete `annotate` statement for the target
func PrintTarget(target Target, opts Options) string {
	p := newPrinter(opts)
	info := ResolveTarget(target.Name)

	terms := make([]string, 0, len(target.Terms))
	for _, term := range target.Terms {
		terms = append(terms, p.annotationEntry(term))
	}

	var annotations string
	if len(terms) == 1 {
		annotations = "@" + terms[0]
	} else {
		annotations = "@" + formatter.Parenthesized(terms)
	}

	var sb strings.Builder

	sb.WriteString("annotate ")
	sb.WriteString(info.Root)

	switch info.Pattern {
	case PatternElement:
		inner := formatter.Identifier(info.Elements[len(info.Elements)-1]) + " " + annotations
		for i := len(info.Elements) - 2; i >= 0; i-- {
			inner = formatter.Identifier(info.Elements[i]) + " {\n" + inner + "\n}"
		}

		sb.WriteString(" with {\n")
		sb.WriteString(inner)
		sb.WriteString("\n};")
	case PatternBoundAction:
		sb.WriteString(" with actions {\n")
		sb.WriteString(formatter.Identifier(info.Action))
		sb.WriteString(" ")
		sb.WriteString(annotations)
		sb.WriteString("\n};")
	case PatternBoundParameter:
		sb.WriteString(" with actions {\n")
		sb.WriteString(formatter.Identifier(info.Action))
		sb.WriteString(" (\n")
		sb.WriteString(formatter.Identifier(info.Parameter))
		sb.WriteString(" ")
		sb.WriteString(annotations)
		sb.WriteString("\n)\n};")
	default:
		sb.WriteString(" with ")
		sb.WriteString(annotations)
		sb.WriteString(";")
	}

	return p.finish(sb.String())
}
