package printer

import (
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/converter"
	"github.com/shibukawa/cdsodata/testhelper"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

func term(name string, content ...annotation.Node) *annotation.Element {
	return annotation.NewElement(annotation.Annotation, nil, content...).
		SetAttribute(annotation.NewAttribute(annotation.Term, name, nil))
}

func primitive(name, text string) *annotation.Element {
	return annotation.NewElement(name, nil, annotation.NewText(text, nil))
}

func property(name string, value annotation.Node) *annotation.Element {
	return annotation.NewElement(annotation.PropertyValue, nil, value).
		SetAttribute(annotation.NewAttribute(annotation.Property, name, nil))
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected TargetInfo
	}{
		{
			name:     "entity",
			target:   "AdminService.Books",
			expected: TargetInfo{Pattern: PatternArtifact, Root: "AdminService.Books"},
		},
		{
			name:     "element",
			target:   "AdminService.Books/title",
			expected: TargetInfo{Pattern: PatternElement, Root: "AdminService.Books", Elements: []string{"title"}},
		},
		{
			name:     "structured element",
			target:   "AdminService.Books/price/amount",
			expected: TargetInfo{Pattern: PatternElement, Root: "AdminService.Books", Elements: []string{"price", "amount"}},
		},
		{
			name:     "unbound action",
			target:   "AdminService.submitOrder()",
			expected: TargetInfo{Pattern: PatternParameter, Root: "AdminService.submitOrder"},
		},
		{
			name:     "unbound action parameter",
			target:   "AdminService.submitOrder()/quantity",
			expected: TargetInfo{Pattern: PatternElement, Root: "AdminService.submitOrder", Elements: []string{"quantity"}},
		},
		{
			name:     "bound action",
			target:   "AdminService.addRating(AdminService.Books)",
			expected: TargetInfo{Pattern: PatternBoundAction, Root: "AdminService.Books", Action: "addRating"},
		},
		{
			name:     "bound action parameter",
			target:   "AdminService.addRating(AdminService.Books)/stars",
			expected: TargetInfo{Pattern: PatternBoundParameter, Root: "AdminService.Books", Action: "addRating", Parameter: "stars"},
		},
		{
			name:     "collection bound function",
			target:   "AdminService.topRated(Collection(AdminService.Books),Edm.Int32)/limit",
			expected: TargetInfo{Pattern: PatternBoundParameter, Root: "AdminService.Books", Action: "topRated", Parameter: "limit"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ResolveTarget(test.target))
		})
	}
}

func TestPrintTarget(t *testing.T) {
	tests := []struct {
		name     string
		target   Target
		expected string
	}{
		{
			name: "artifact with several terms",
			target: Target{Name: "AdminService.Books", Terms: []*annotation.Element{
				term("UI.Hidden", primitive(annotation.Bool, "true")),
				term("Common.Label", primitive(annotation.String, "Book")),
			}},
			expected: `
				annotate AdminService.Books with @(
					UI.Hidden : true,
					Common.Label : 'Book',
				);
				`,
		},
		{
			name: "artifact with one term",
			target: Target{Name: "AdminService.Books", Terms: []*annotation.Element{
				term("Common.Label", primitive(annotation.String, "Book")),
			}},
			expected: `
				annotate AdminService.Books with @Common.Label : 'Book';
				`,
		},
		{
			name: "structured element",
			target: Target{Name: "AdminService.Books/price/amount", Terms: []*annotation.Element{
				term("Common.Label", primitive(annotation.String, "Amount")),
			}},
			expected: `
				annotate AdminService.Books with {
					price {
						amount @Common.Label : 'Amount'
					}
				};
				`,
		},
		{
			name: "unbound action",
			target: Target{Name: "AdminService.submitOrder()", Terms: []*annotation.Element{
				term("Core.OperationAvailable", primitive(annotation.Bool, "false")),
			}},
			expected: `
				annotate AdminService.submitOrder with @Core.OperationAvailable : false;
				`,
		},
		{
			name: "unbound action parameter",
			target: Target{Name: "AdminService.submitOrder()/quantity", Terms: []*annotation.Element{
				term("Common.Label", primitive(annotation.String, "Quantity")),
			}},
			expected: `
				annotate AdminService.submitOrder with {
					quantity @Common.Label : 'Quantity'
				};
				`,
		},
		{
			name: "bound action",
			target: Target{Name: "AdminService.addRating(AdminService.Books)", Terms: []*annotation.Element{
				term("Core.OperationAvailable", primitive(annotation.Bool, "false")),
			}},
			expected: `
				annotate AdminService.Books with actions {
					addRating @Core.OperationAvailable : false
				};
				`,
		},
		{
			name: "bound action parameter",
			target: Target{Name: "AdminService.addRating(AdminService.Books)/stars", Terms: []*annotation.Element{
				term("Common.Label", primitive(annotation.String, "Stars")),
			}},
			expected: `
				annotate AdminService.Books with actions {
					addRating (
						stars @Common.Label : 'Stars'
					)
				};
				`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, testhelper.TrimIndent(t, test.expected), PrintTarget(test.target, Options{}))
		})
	}
}

func TestPrint(t *testing.T) {
	record := annotation.NewElement(annotation.Record, nil,
		property("Value", primitive(annotation.Path, "author/name")),
		property("Label", primitive(annotation.String, "Name")),
	).SetAttribute(annotation.NewAttribute(annotation.Type, "UI.DataField", nil))

	nested := term("Common.Label", primitive(annotation.String, "x"), term("Core.Description", primitive(annotation.String, "d")))

	qualified := term("Common.Label", primitive(annotation.String, "x")).
		SetAttribute(annotation.NewAttribute(annotation.Qualifier, "short", nil))

	condition := annotation.NewElement(annotation.If, nil,
		primitive(annotation.Path, "a"),
		primitive(annotation.String, "x"),
		primitive(annotation.String, "y"),
	)

	tests := []struct {
		name     string
		node     annotation.Node
		opts     Options
		expected string
	}{
		{
			name: "record in collection",
			node: term("UI.LineItem", annotation.NewElement(annotation.Collection, nil, record)),
			expected: `
				UI.LineItem : [
					{
						$Type : 'UI.DataField',
						Value : author.name,
						Label : 'Name',
					},
				]
				`,
		},
		{
			name: "value with nested annotation",
			node: nested,
			expected: `
				Common.Label : {
					$value : 'x',
					![@Core.Description] : 'd',
				}
				`,
		},
		{
			name:     "qualifier",
			node:     qualified,
			expected: "Common.Label#short : 'x'",
		},
		{
			name:     "cds name",
			node:     term("CDS.Title", primitive(annotation.String, "Book")),
			opts:     Options{TermNames: map[string]string{"CDS.Title": "title"}},
			expected: "title : 'Book'",
		},
		{
			name:     "enum flags",
			node:     term("Core.Permissions", primitive(annotation.EnumMember, "Core.Permission/Read Core.Permission/Write")),
			expected: "Core.Permissions : [ #Read, #Write ]",
		},
		{
			name: "dynamic expression",
			node: term("UI.Hidden", condition),
			expected: `
				UI.Hidden : {
					$edmJson : { $If : [ { $Path : 'a' }, 'x', 'y' ] },
				}
				`,
		},
		{
			name:     "attribute constant",
			node:     term("Common.Label").SetAttribute(annotation.NewAttribute(annotation.String, "short form", nil)),
			expected: "Common.Label : 'short form'",
		},
		{
			name:     "two space indent",
			node:     term("UI.SelectionFields", annotation.NewElement(annotation.Collection, nil, primitive(annotation.PropertyPath, "title"))),
			opts:     Options{IndentSize: 2},
			expected: "UI.SelectionFields : [\n  title,\n]",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, testhelper.TrimIndent(t, test.expected), Print(test.node, test.opts))
		})
	}
}

func TestPrintPrimitiveValue(t *testing.T) {
	tests := []struct {
		element  string
		value    string
		expected string
	}{
		{annotation.Null, "", "null"},
		{annotation.Bool, "True", "true"},
		{annotation.Int, " 42 ", "42"},
		{annotation.Decimal, " 1.50", "1.50"},
		{annotation.Decimal, "abc", "'abc'"},
		{annotation.String, "it's", "'it''s'"},
		{annotation.Date, "2024-01-31", "'2024-01-31'"},
		{annotation.Guid, "6F9619FF-8B86-D011-B42D-00C04FC964FF", "'6f9619ff-8b86-d011-b42d-00c04fc964ff'"},
		{annotation.EnumMember, "UI.ImportanceType/High", "#High"},
		{annotation.Path, "author/name", "author.name"},
		{annotation.AnnotationPath, "@UI.LineItem#short", "![@UI.LineItem#short]"},
	}

	for _, test := range tests {
		t.Run(test.element+" "+test.value, func(t *testing.T) {
			assert.Equal(t, test.expected, PrintPrimitiveValue(test.element, test.value))
		})
	}
}

func TestEdmJSON(t *testing.T) {
	apply := annotation.NewElement(annotation.Apply, nil,
		primitive(annotation.String, "a"),
		primitive(annotation.Path, "b"),
	).SetAttribute(annotation.NewAttribute(annotation.Function, "odata.concat", nil))

	assert.Equal(t, "{ $Apply : [ 'a', { $Path : 'b' } ], $Function : 'odata.concat' }", EdmJSON(apply))

	not := annotation.NewElement(annotation.Not, nil, primitive(annotation.Path, "archived"))
	assert.Equal(t, "{ $Not : { $Path : 'archived' } }", EdmJSON(not))
}

func TestPrintConvertedAnnotation(t *testing.T) {
	vocab := vocabulary.MustDefault()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "line item",
			input: "UI.LineItem: [{ Value: title, Label: 'Title' }]",
			expected: `
				UI.LineItem : [
					{
						Value : title,
						Label : 'Title',
					},
				]
				`,
		},
		{
			name:     "flags",
			input:    "Core.Permissions: [#Read, #Write]",
			expected: "Core.Permissions : [ #Read, #Write ]",
		},
		{
			name:     "cds title",
			input:    "@title: 'Book'",
			expected: "title : 'Book'",
		},
	}

	opts := Options{TermNames: map[string]string{"CDS.Title": "title"}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assignment, err := converter.ToAssignment(test.input, textdoc.Position{}, vocab)
			require.NoError(t, err)
			require.Len(t, assignment.Items, 1)

			s := converter.NewVisitorState(vocab, nil)
			terms := converter.ConvertAnnotation(s, assignment.Items[0])
			require.Len(t, terms, 1)

			assert.Equal(t, testhelper.TrimIndent(t, test.expected), Print(terms[0], opts))
		})
	}
}

// shape renders a node without ranges so that trees from different sources compare equal
func shape(node annotation.Node) string {
	switch n := node.(type) {
	case *annotation.TextNode:
		return strconv.Quote(n.Text)
	case *annotation.Element:
		parts := []string{n.Name}
		for _, name := range n.AttributeNames() {
			parts = append(parts, name+"="+n.AttrValue(name))
		}

		for _, child := range n.Content {
			parts = append(parts, shape(child))
		}

		return "(" + strings.Join(parts, " ") + ")"
	}

	return ""
}

func TestPrintRoundTrip(t *testing.T) {
	vocab := vocabulary.MustDefault()

	convert := func(t *testing.T, text string) *annotation.Element {
		t.Helper()

		assignment, err := converter.ToAssignment(text, textdoc.Position{}, vocab)
		require.NoError(t, err)
		require.Len(t, assignment.Items, 1)

		s := converter.NewVisitorState(vocab, nil)
		terms := converter.ConvertAnnotation(s, assignment.Items[0])
		require.Len(t, terms, 1)
		require.Empty(t, s.Diagnostics())

		return terms[0]
	}

	tests := []struct {
		name  string
		input string
	}{
		{name: "embedded annotation in flattened path", input: "UI.Chart.AxisScaling.@UI.Hidden: true"},
		{name: "decimal keeps trailing zero", input: "UI.RecommendationState: 1.50"},
		{name: "record with escaped string", input: "UI.Chart: { Title: 'it''s', AxisScaling.ScaleBehavior: #AutoScale }"},
		{name: "line item", input: "UI.LineItem: [{ Value: title, Label: 'Title' }]"},
		{name: "flags", input: "Core.Permissions: [#Read, #Write]"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			original := convert(t, test.input)
			printed := Print(original, Options{})

			assert.Equal(t, shape(original), shape(convert(t, printed)), "printed as %s", printed)
		})
	}
}

func TestPrintDecimalText(t *testing.T) {
	value := term("UI.RecommendationState", primitive(annotation.Decimal, "1.50"))
	assert.Equal(t, "UI.RecommendationState : 1.50", Print(value, Options{}))
}

func TestPrintAll(t *testing.T) {
	nodes := []annotation.Node{
		term("UI.Hidden", primitive(annotation.Bool, "true")),
		term("Common.Label", primitive(annotation.String, "Book")),
	}

	assert.Equal(t, "UI.Hidden : true,\nCommon.Label : 'Book'", PrintAll(nodes, Options{}))

	record := annotation.NewElement(annotation.Record, nil, property("Value", primitive(annotation.Path, "title")))
	assert.Equal(t, "{\nValue : title,\n}", PrintCsdlNode(record, Options{}))
}
