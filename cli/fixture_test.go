package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/cdsodata"
	"github.com/shibukawa/cdsodata/metadata"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

const fixtureYAML = `
uri: file:///srv/annotations.cds
namespace: my.bookshop
metadata: bookshop.meta.yaml
edmx_names:
  AdminService.Books.texts: AdminService.Books_texts
assignments:
  - text: "@UI.LineItem: [{ Value: title }]"
    line: 2
    character: 2
    carrier_name: AdminService.Books
    carrier:
      kind: entity
      metadata_key: AdminService/Books
      range: {start: {line: 1, character: 0}, end: {line: 3, character: 1}}
  - text: "@Common.Label: 'Text'"
    line: 5
    character: 2
    carrier_name: AdminService.Books.texts
    carrier:
      kind: entity
      range: {start: {line: 5, character: 0}, end: {line: 5, character: 40}}
`

const metadataYAML = `
elements:
  - name: AdminService
    kind: service
    elements:
      - name: Books
        kind: entity
        elements:
          - name: title
            kind: element
`

func writeFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookshop.meta.yaml"), []byte(metadataYAML), 0o644))

	path := filepath.Join(dir, "annotations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))

	return path
}

func TestLoadFixture(t *testing.T) {
	fixture, err := LoadFixture(writeFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "file:///srv/annotations.cds", fixture.URI)
	assert.Equal(t, 2, len(fixture.AnnotationAssignments))

	first := fixture.AnnotationAssignments[0]
	assert.Equal(t, "AdminService.Books", first.CarrierName)
	assert.Equal(t, metadata.KindEntity, first.Carrier.Kind)
	assert.Equal(t, textdoc.CreateRange(1, 0, 3, 1), first.Carrier.Range)

	assert.Equal(t, "AdminService.Books_texts", fixture.Facade().ConvertNameToEdmx("AdminService.Books.texts"))

	collector, err := fixture.Collector()
	require.NoError(t, err)
	assert.Equal(t, 3, len(collector.MetadataElementMap()))
}

func TestParseFixtureErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown key", input: "uri: a\nassignmentz: []\n"},
		{name: "missing text", input: "assignments:\n  - carrier_name: S.E\n"},
		{name: "missing carrier", input: "assignments:\n  - text: '@UI.Hidden'\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(test.input))
			assert.IsError(t, err, ErrInvalidFixture)
		})
	}
}

func TestConvert(t *testing.T) {
	fixture, err := LoadFixture(writeFixture(t))
	require.NoError(t, err)

	config := &cdsodata.Config{Propagation: map[string][]string{"AdminService.Books": {"AdminService.Books.drafts"}}}

	result, err := Convert(fixture, config, vocabulary.MustDefault(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, len(result.Diagnostics))

	var names []string
	for _, target := range result.File.Targets {
		names = append(names, target.Name)
	}

	assert.Equal(t, []string{"AdminService.Books", "AdminService.Books_texts", "AdminService.Books.drafts"}, names)
}

func TestPrintDiagnostics(t *testing.T) {
	color.NoColor = true

	d := textdoc.NewDiagnostic(textdoc.CreateRange(2, 4, 2, 9), textdoc.SeverityWarning, "Unknown term")
	d.Rule = "unknown-term"

	var buf bytes.Buffer
	PrintDiagnostics(&buf, "file:///a.cds", []textdoc.Diagnostic{
		d,
		textdoc.NewDiagnostic(textdoc.CreateRange(0, 0, 0, 1), textdoc.SeverityError, "Broken"),
	})

	assert.Equal(t, "file:///a.cds:3:5: warning: Unknown term (unknown-term)\nfile:///a.cds:1:1: error: Broken\n", buf.String())

	errors, warnings := Summary([]textdoc.Diagnostic{d})
	assert.Equal(t, 0, errors)
	assert.Equal(t, 1, warnings)
}
