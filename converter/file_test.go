package converter

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/metadata"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

const bookMetadata = `
elements:
  - name: AdminService
    kind: service
    elements:
      - name: Books
        kind: entity
        elements:
          - name: title
            kind: element
      - name: Authors
        kind: entity
`

func booksIndex() *FileIndex {
	books := Carrier{
		Range:       textdoc.CreateRange(1, 0, 4, 1),
		NameRange:   rangePtr(textdoc.CreateRange(1, 7, 1, 12)),
		Kind:        metadata.KindEntity,
		MetadataKey: "AdminService/Books",
	}
	title := Carrier{
		Range:       textdoc.CreateRange(6, 0, 6, 30),
		Kind:        metadata.KindElement,
		MetadataKey: "AdminService/Books/title",
	}

	return &FileIndex{
		URI:       "file:///srv/annotations.cds",
		Namespace: "my.bookshop",
		AnnotationAssignments: []AnnotationAssignmentToken{
			{Text: "@UI.Hidden  ", Line: 2, Character: 2, Carrier: books, CarrierName: "AdminService.Books"},
			{Text: "@Common.Label: 'T'", Line: 6, Character: 4, Carrier: title, CarrierName: "AdminService.Books/title"},
			{Text: "@UI.LineItem: [{ Value: title }]", Line: 3, Character: 2, Carrier: books, CarrierName: "AdminService.Books"},
		},
	}
}

func rangePtr(r textdoc.Range) *textdoc.Range {
	return &r
}

func TestToTargetMap(t *testing.T) {
	index := booksIndex()

	targets := ToTargetMap(index, index.URI, nil)
	assert.Equal(t, "my.bookshop", targets.Namespace)
	assert.Equal(t, 2, len(targets.Targets))

	books := targets.Targets[0]
	assert.Equal(t, "AdminService.Books", books.Name)
	assert.Equal(t, metadata.KindEntity, books.Kind)
	assert.Equal(t, "AdminService/Books", books.MetadataKey)
	assert.Equal(t, 2, len(books.Assignments))
	assert.Equal(t, textdoc.CreateRange(2, 2, 3, 34), books.Range)

	title := targets.Targets[1]
	assert.Equal(t, "AdminService.Books/title", title.Name)
	assert.Equal(t, textdoc.CreateRange(6, 4, 6, 22), title.Range)
}

func TestToTargetMapFacade(t *testing.T) {
	index := booksIndex()
	index.AnnotationAssignments[0].Carrier.Kind = ""
	index.AnnotationAssignments[2].Carrier.Kind = ""

	facade := &StaticFacade{
		Namespace:    "sap.capire.bookshop",
		References:   []Reference{{Alias: "UI", Namespace: "com.sap.vocabularies.UI.v1"}},
		EdmxNames:    map[string]string{"AdminService.Books": "AdminService.EntityContainer/Books"},
		ServiceKinds: map[string]string{"AdminService.Books": metadata.KindEntity},
	}

	targets := ToTargetMap(index, index.URI, facade)
	assert.Equal(t, "sap.capire.bookshop", targets.Namespace)
	assert.Equal(t, facade.References, targets.References)

	assert.Equal(t, "AdminService.EntityContainer/Books", targets.Targets[0].Name)
	assert.Equal(t, metadata.KindEntity, targets.Targets[0].Kind)

	// elements keep their CDS name
	assert.Equal(t, "AdminService.Books/title", targets.Targets[1].Name)
}

func TestToAnnotationFile(t *testing.T) {
	index := booksIndex()
	collector, err := metadata.LoadYAML(strings.NewReader(bookMetadata))
	require.NoError(t, err)

	vocab := vocabulary.MustDefault()
	result := ToAnnotationFile(index.URI, vocab, ToTargetMap(index, index.URI, nil), collector, Options{})

	assert.Equal(t, 0, len(result.Diagnostics))
	assert.Equal(t, "", result.Pointer)

	file := result.File
	assert.Equal(t, 2, len(file.Targets))

	books := file.Targets[0]
	assert.Equal(t, 2, len(books.Terms))
	assert.Equal(t, annotation.Annotation, books.Terms[0].Name)
	assert.Equal(t, "UI.Hidden", books.Terms[0].AttrValue(annotation.Term))
	assert.Equal(t, "UI.LineItem", books.Terms[1].AttrValue(annotation.Term))
	assert.Equal(t, textdoc.CreateRange(2, 2, 3, 34), *books.TermsRange)
	assert.Equal(t, textdoc.CreateRange(1, 7, 3, 34), *books.Range)

	assert.Equal(t, textdoc.CreateRange(1, 7, 6, 22), *file.Range)

	assert.Equal(t, []metadata.Request{
		{Path: "title", Base: "AdminService/Books", URI: index.URI},
	}, collector.Requests())
}

func TestToAnnotationFilePointer(t *testing.T) {
	index := booksIndex()
	vocab := vocabulary.MustDefault()
	targets := ToTargetMap(index, index.URI, nil)

	tests := []struct {
		name    string
		pos     textdoc.Position
		prefix  string
		pointer string
	}{
		{name: "inside path value", pos: textdoc.Position{Line: 3, Character: 28}, prefix: "/targets/0/terms/1/content/0/"},
		{name: "term of second target", pos: textdoc.Position{Line: 6, Character: 7}, pointer: "/targets/1/terms/0/attributes/Term/value"},
		{name: "trailing space of assignment", pos: textdoc.Position{Line: 2, Character: 13}, pointer: "/targets/0"},
		{name: "outside of assignments", pos: textdoc.Position{Line: 5, Character: 0}, pointer: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pos := test.pos
			result := ToAnnotationFile(index.URI, vocab, targets, nil, Options{Position: &pos})

			if test.prefix != "" {
				assert.True(t, strings.HasPrefix(result.Pointer, test.prefix), "pointer %q", result.Pointer)
				assert.True(t, strings.HasSuffix(result.Pointer, "/text/$2"), "pointer %q", result.Pointer)
				require.NotNil(t, result.NodeRange)
				assert.True(t, result.NodeRange.Contains(pos))

				return
			}

			assert.Equal(t, test.pointer, result.Pointer)
		})
	}
}

func TestToAnnotationFileSyntaxError(t *testing.T) {
	index := &FileIndex{
		URI: "file:///srv/broken.cds",
		AnnotationAssignments: []AnnotationAssignmentToken{
			{Text: "@)", Line: 0, Character: 10, Carrier: Carrier{Range: textdoc.CreateRange(0, 0, 0, 20), Kind: metadata.KindEntity}, CarrierName: "S.E"},
		},
	}

	result := ToAnnotationFile(index.URI, vocabulary.MustDefault(), ToTargetMap(index, index.URI, nil), nil, Options{})

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "syntax-error", result.Diagnostics[0].Rule)
	assert.Equal(t, textdoc.SeverityError, result.Diagnostics[0].Severity)
	assert.Equal(t, textdoc.CreateRange(0, 10, 0, 12), result.Diagnostics[0].Range)

	// the target is still listed
	assert.Equal(t, 1, len(result.File.Targets))
	assert.Equal(t, 0, len(result.File.Targets[0].Terms))
}

func TestToAnnotationFilePropagation(t *testing.T) {
	index := booksIndex()
	vocab := vocabulary.MustDefault()
	pos := textdoc.Position{Line: 6, Character: 7}

	result := ToAnnotationFile(index.URI, vocab, ToTargetMap(index, index.URI, nil), nil, Options{
		Position:    &pos,
		Propagation: map[string][]string{"AdminService.Books": {"AdminService.Books.drafts"}},
	})

	file := result.File
	require.Len(t, file.Targets, 3)
	assert.Equal(t, "AdminService.Books/title", file.Targets[1].Name)
	assert.Equal(t, "AdminService.Books.drafts", file.Targets[2].Name)
	assert.Equal(t, len(file.Targets[0].Terms), len(file.Targets[2].Terms))

	// pointers address the original targets
	assert.Equal(t, "/targets/1/terms/0/attributes/Term/value", result.Pointer)
}

func TestAdjustCdsTermNames(t *testing.T) {
	vocab := vocabulary.MustDefault()

	tests := []struct {
		name  string
		input string
		terms []string
	}{
		{name: "plain cds name", input: "@title: 'Book'", terms: []string{"CDS.Title"}},
		{name: "dotted cds name", input: "@assert.range: [0, 5]", terms: []string{"CDS.AssertRange"}},
		{name: "group", input: "@assert: { range: [0, 5], format: 'x' }", terms: []string{"CDS.AssertRange", "CDS.AssertFormat"}},
		{name: "unmapped group member", input: "@assert: { target }", terms: []string{"CDS.AssertTarget"}},
		{name: "vocabulary term", input: "@UI.Hidden", terms: []string{"UI.Hidden"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			original, err := cdsast.Parse(test.input, textdoc.Position{})
			require.NoError(t, err)

			before := len(original.Items)
			adjusted := AdjustCdsTermNames(original, vocab.Cds())

			var terms []string
			for _, item := range adjusted.Items {
				a, ok := item.(*cdsast.Annotation)
				require.True(t, ok)
				terms = append(terms, a.Term.Value)
			}

			assert.Equal(t, test.terms, terms)
			assert.Equal(t, before, len(original.Items))
		})
	}
}

func TestAdjustCdsTermNamesKeepsInput(t *testing.T) {
	original, err := cdsast.Parse("@title: 'Book'", textdoc.Position{})
	require.NoError(t, err)

	AdjustCdsTermNames(original, vocabulary.MustDefault().Cds())

	a := original.Items[0].(*cdsast.Annotation)
	assert.Equal(t, "title", a.Term.Value)
	assert.Equal(t, 1, len(a.Term.Segments))
}
