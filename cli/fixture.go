// Package cli holds the pieces shared by the cdsodata commands: fixture loading, conversion and
// diagnostic reporting.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/cdsodata"
	"github.com/shibukawa/cdsodata/converter"
	"github.com/shibukawa/cdsodata/metadata"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

var (
	ErrInvalidFixture = errors.New("invalid fixture")
	ErrDiagnostics    = errors.New("conversion reported diagnostics")
)

// Fixture is the compiler output for one CDS file, written as YAML:
//
//	uri: file:///srv/annotations.cds
//	namespace: my.bookshop
//	metadata: bookshop.meta.yaml
//	assignments:
//	  - text: "@UI.Hidden"
//	    line: 2
//	    character: 4
//	    carrier_name: AdminService.Books
//	    carrier:
//	      kind: entity
//	      metadata_key: AdminService/Books
//	      range: {start: {line: 1, character: 0}, end: {line: 3, character: 1}}
type Fixture struct {
	converter.FileIndex `yaml:",inline"`

	// Metadata is a metadata element file, relative to the fixture
	Metadata     string            `yaml:"metadata"`
	EdmxNames    map[string]string `yaml:"edmx_names"`
	ServiceKinds map[string]string `yaml:"service_kinds"`

	dir string
}

// LoadFixture reads a fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	fixture, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fixture.dir = filepath.Dir(path)

	if fixture.URI == "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			fixture.URI = "file://" + filepath.ToSlash(abs)
		}
	}

	return fixture, nil
}

// ParseFixture decodes fixture YAML
func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.UnmarshalWithOptions(data, &fixture, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}

	for i, assignment := range fixture.AnnotationAssignments {
		if assignment.Text == "" {
			return nil, fmt.Errorf("%w: assignment %d has no text", ErrInvalidFixture, i)
		}

		if assignment.CarrierName == "" {
			return nil, fmt.Errorf("%w: assignment %d has no carrier name", ErrInvalidFixture, i)
		}
	}

	return &fixture, nil
}

// Facade answers compiler questions from the fixture tables
func (f *Fixture) Facade() converter.CompilerFacade {
	return &converter.StaticFacade{
		Namespace:    f.Namespace,
		References:   f.References,
		EdmxNames:    f.EdmxNames,
		ServiceKinds: f.ServiceKinds,
	}
}

// Collector loads the metadata file of the fixture; without one it returns nil
func (f *Fixture) Collector() (*metadata.MemoryCollector, error) {
	if f.Metadata == "" {
		return nil, nil
	}

	path := f.Metadata
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.dir, path)
	}

	return metadata.LoadYAMLFile(path)
}

// Convert runs the conversion of the fixture with the configured options
func Convert(fixture *Fixture, config *cdsodata.Config, vocab *vocabulary.Service, position *textdoc.Position) (*converter.FileResult, error) {
	collector, err := fixture.Collector()
	if err != nil {
		return nil, err
	}

	targets := converter.ToTargetMap(&fixture.FileIndex, fixture.URI, fixture.Facade())

	opts := converter.Options{
		Position:    position,
		Propagation: config.Propagation,
		Messages:    config.Messages(),
	}

	// a nil *MemoryCollector must not become a non-nil interface
	var c metadata.Collector
	if collector != nil {
		c = collector
	}

	return converter.ToAnnotationFile(fixture.URI, vocab, targets, c, opts), nil
}
