package cdsodata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cdsodata.yaml")

	configContent := `
printer:
  indent_size: 2
  trailing_comma: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cdsodata.yaml")

	configContent := `
printer:
  indent_size: 2
diagnostics:
  language: de
  fail_on: warning
propagation:
  AdminService.Books:
    - AdminService.Books.drafts
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, 2, config.Printer.IndentSize)
	assert.Equal(t, "warning", config.Diagnostics.FailOn)
	assert.Equal(t, []string{"AdminService.Books.drafts"}, config.Propagation["AdminService.Books"])

	// unset values are defaulted
	assert.True(t, *config.Printer.CdsNames)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		message string
	}{
		{
			name:    "negative indent",
			config:  &Config{Printer: PrinterConfig{IndentSize: -1}},
			message: "printer.indent_size must be non-negative",
		},
		{
			name:    "broken language tag",
			config:  &Config{Diagnostics: DiagnosticsConfig{Language: "not a tag!"}},
			message: "diagnostics.language",
		},
		{
			name:    "unknown severity",
			config:  &Config{Diagnostics: DiagnosticsConfig{FailOn: "fatal"}},
			message: "diagnostics.fail_on 'fatal' is invalid",
		},
		{
			name:    "propagation to itself",
			config:  &Config{Propagation: map[string][]string{"S.E": {"S.E"}}},
			message: "invalid target name",
		},
		{
			name:    "empty vocabulary file",
			config:  &Config{Vocabularies: []string{""}},
			message: "vocabularies: empty file name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			assert.IsError(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	config := getDefaultConfig()

	err := validateConfig(config)
	assert.NoError(t, err)
}

func TestValidateConfig_NoneDisablesFailure(t *testing.T) {
	config := &Config{Diagnostics: DiagnosticsConfig{FailOn: "none"}}

	assert.NoError(t, validateConfig(config))
}
