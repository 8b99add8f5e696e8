package cdsodata

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/shibukawa/cdsodata/converter"
	"github.com/shibukawa/cdsodata/printer"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

// Config represents the cdsodata configuration
type Config struct {
	// Vocabularies lists additional CSDL XML vocabulary files loaded next to the bundled ones
	Vocabularies []string           `yaml:"vocabularies"`
	Printer      PrinterConfig       `yaml:"printer"`
	Diagnostics  DiagnosticsConfig   `yaml:"diagnostics"`
	Propagation  map[string][]string `yaml:"propagation"`
}

// PrinterConfig represents CDS printer settings
type PrinterConfig struct {
	IndentSize int `yaml:"indent_size"`
	// CdsNames prints internal terms such as CDS.Title with their CDS annotation name (@title)
	CdsNames *bool `yaml:"cds_names"`
}

// DiagnosticsConfig represents diagnostic reporting settings
type DiagnosticsConfig struct {
	// Language is a BCP 47 tag selecting the message catalog
	Language string `yaml:"language"`
	// FailOn is the lowest severity that makes a command fail: error, warning, information, hint or none
	FailOn string `yaml:"fail_on"`
}

var severityNames = map[string]textdoc.Severity{
	"error":       textdoc.SeverityError,
	"warning":     textdoc.SeverityWarning,
	"information": textdoc.SeverityInformation,
	"hint":        textdoc.SeverityHint,
}

// LoadConfig loads configuration from the specified file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// strict mode rejects unknown keys
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Printer.IndentSize < 0 {
		return fmt.Errorf("%w: printer.indent_size must be non-negative, got %d", ErrConfigValidation, config.Printer.IndentSize)
	}

	if config.Diagnostics.Language != "" {
		if _, err := language.Parse(config.Diagnostics.Language); err != nil {
			return fmt.Errorf("%w: diagnostics.language '%s' is not a valid language tag", ErrConfigValidation, config.Diagnostics.Language)
		}
	}

	if config.Diagnostics.FailOn != "" && config.Diagnostics.FailOn != "none" {
		if _, ok := severityNames[config.Diagnostics.FailOn]; !ok {
			return fmt.Errorf("%w: diagnostics.fail_on '%s' is invalid: must be one of error, warning, information, hint, none", ErrConfigValidation, config.Diagnostics.FailOn)
		}
	}

	for source, targets := range config.Propagation {
		if source == "" {
			return fmt.Errorf("%w: propagation: source target name is required", ErrConfigValidation)
		}

		for _, target := range targets {
			if target == "" || target == source {
				return fmt.Errorf("%w: propagation '%s': invalid target name '%s'", ErrConfigValidation, source, target)
			}
		}
	}

	for _, file := range config.Vocabularies {
		if file == "" {
			return fmt.Errorf("%w: vocabularies: empty file name", ErrConfigValidation)
		}
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Printer: PrinterConfig{
			IndentSize: 4,
			CdsNames:   boolPtr(true),
		},
		Diagnostics: DiagnosticsConfig{
			Language: "en",
			FailOn:   "error",
		},
		Propagation: map[string][]string{},
	}
}

// applyDefaults fills the values a config file left out
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Printer.IndentSize == 0 {
		config.Printer.IndentSize = defaults.Printer.IndentSize
	}

	if config.Printer.CdsNames == nil {
		config.Printer.CdsNames = defaults.Printer.CdsNames
	}

	if config.Diagnostics.Language == "" {
		config.Diagnostics.Language = defaults.Diagnostics.Language
	}

	if config.Diagnostics.FailOn == "" {
		config.Diagnostics.FailOn = defaults.Diagnostics.FailOn
	}

	if config.Propagation == nil {
		config.Propagation = defaults.Propagation
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in file paths
func expandConfigEnvVars(config *Config) {
	for i, file := range config.Vocabularies {
		config.Vocabularies[i] = expandEnvVars(file)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LanguageTag returns the diagnostics language, English when unset
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Diagnostics.Language)
	if err != nil {
		return language.English
	}

	return tag
}

// Messages returns the message catalog for the configured language
func (c *Config) Messages() *converter.Messages {
	return converter.NewMessages(c.LanguageTag())
}

// ShouldFail reports whether one of the diagnostics reaches the fail_on severity
func (c *Config) ShouldFail(diagnostics []textdoc.Diagnostic) bool {
	threshold, ok := severityNames[c.Diagnostics.FailOn]
	if !ok {
		return false
	}

	for _, d := range diagnostics {
		// lower numbers are more severe
		if d.Severity <= threshold {
			return true
		}
	}

	return false
}

// LoadVocabularies returns the bundled vocabularies extended by the configured files
func (c *Config) LoadVocabularies() (*vocabulary.Service, error) {
	if len(c.Vocabularies) == 0 {
		return vocabulary.Default()
	}

	service, err := vocabulary.NewDefault()
	if err != nil {
		return nil, err
	}

	for _, path := range c.Vocabularies {
		if err := loadVocabularyFile(service, path); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func loadVocabularyFile(service *vocabulary.Service, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrVocabularyFile, path, err)
	}
	defer file.Close()

	if err := service.Load(file); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrVocabularyFile, path, err)
	}

	return nil
}

// PrinterOptions returns the printer options for the configuration. CDS names are taken from vocab.
func (c *Config) PrinterOptions(vocab *vocabulary.Service) printer.Options {
	opts := printer.Options{IndentSize: c.Printer.IndentSize}

	if c.Printer.CdsNames != nil && *c.Printer.CdsNames && vocab != nil && vocab.Cds() != nil {
		opts.TermNames = map[string]string{}
		for name, internal := range vocab.Cds().NameMap {
			opts.TermNames[internal] = name
		}
	}

	return opts
}
