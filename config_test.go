package cdsodata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cdsodata/converter"
	"github.com/shibukawa/cdsodata/textdoc"
)

const extraVocabulary = `<?xml version="1.0" encoding="utf-8"?>
<edmx:Edmx xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx" Version="4.0">
  <edmx:DataServices>
    <Schema xmlns="http://docs.oasis-open.org/odata/ns/edm" Namespace="com.example.vocabularies.Shop.v1" Alias="Shop">
      <Term Name="Featured" Type="Core.Tag" DefaultValue="true" AppliesTo="EntityType"/>
    </Schema>
  </edmx:DataServices>
</edmx:Edmx>
`

func TestLoadConfig_MissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "cdsodata.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, 4, config.Printer.IndentSize)
	assert.Equal(t, "error", config.Diagnostics.FailOn)
	assert.Equal(t, "en", config.LanguageTag().String())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CDSODATA_VOCAB_DIR", "/opt/vocab")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"braced", "${CDSODATA_VOCAB_DIR}/shop.xml", "/opt/vocab/shop.xml"},
		{"plain", "$CDSODATA_VOCAB_DIR/shop.xml", "/opt/vocab/shop.xml"},
		{"unset", "${CDSODATA_UNSET_FOR_TEST}shop.xml", "shop.xml"},
		{"no variable", "./shop.xml", "./shop.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestConfig_ShouldFail(t *testing.T) {
	warning := textdoc.NewDiagnostic(textdoc.Range{}, textdoc.SeverityWarning, "w")
	errorDiagnostic := textdoc.NewDiagnostic(textdoc.Range{}, textdoc.SeverityError, "e")

	tests := []struct {
		name        string
		failOn      string
		diagnostics []textdoc.Diagnostic
		expected    bool
	}{
		{"error threshold ignores warnings", "error", []textdoc.Diagnostic{warning}, false},
		{"error threshold", "error", []textdoc.Diagnostic{warning, errorDiagnostic}, true},
		{"warning threshold", "warning", []textdoc.Diagnostic{warning}, true},
		{"none", "none", []textdoc.Diagnostic{errorDiagnostic}, false},
		{"no diagnostics", "hint", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Diagnostics: DiagnosticsConfig{FailOn: tt.failOn}}
			assert.Equal(t, tt.expected, config.ShouldFail(tt.diagnostics))
		})
	}
}

func TestConfig_Messages(t *testing.T) {
	config := getDefaultConfig()
	config.Diagnostics.Language = "de-CH"

	assert.Equal(t, "de-CH", config.LanguageTag().String())
	assert.NotEqual(t,
		converter.DefaultMessages().Text(converter.MsgSyntaxError, "x"),
		config.Messages().Text(converter.MsgSyntaxError, "x"))
}

func TestConfig_LoadVocabularies(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CDSODATA_TEST_VOCAB", tmpDir)

	err := os.WriteFile(filepath.Join(tmpDir, "shop.xml"), []byte(extraVocabulary), 0644)
	assert.NoError(t, err)

	configPath := filepath.Join(tmpDir, "cdsodata.yaml")
	err = os.WriteFile(configPath, []byte("vocabularies:\n  - ${CDSODATA_TEST_VOCAB}/shop.xml\n"), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	vocab, err := config.LoadVocabularies()
	assert.NoError(t, err)
	assert.NotZero(t, vocab.Term("Shop.Featured"))
	assert.NotZero(t, vocab.Term("UI.LineItem"))
}

func TestConfig_LoadVocabularies_MissingFile(t *testing.T) {
	config := &Config{Vocabularies: []string{filepath.Join(t.TempDir(), "missing.xml")}}

	_, err := config.LoadVocabularies()
	assert.IsError(t, err, ErrVocabularyFile)
}

func TestConfig_PrinterOptions(t *testing.T) {
	config := getDefaultConfig()

	vocab, err := config.LoadVocabularies()
	assert.NoError(t, err)

	opts := config.PrinterOptions(vocab)
	assert.Equal(t, 4, opts.IndentSize)
	assert.Equal(t, "title", opts.TermNames["CDS.Title"])

	config.Printer.CdsNames = boolPtr(false)
	assert.Zero(t, config.PrinterOptions(vocab).TermNames)
}
