// Package metadata describes the service metadata the annotation converter resolves paths against.
// The converter only needs to look elements up by key and to request that metadata for a path is
// loaded; MemoryCollector implements both on top of a static element map.
package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrInvalidMetadata is returned when a metadata document cannot be read
var ErrInvalidMetadata = errors.New("invalid metadata")

// Kinds of metadata elements
const (
	KindService   = "service"
	KindEntity    = "entity"
	KindView      = "view"
	KindAspect    = "aspect"
	KindAction    = "action"
	KindFunction  = "function"
	KindElement   = "element"
	KindParameter = "param"
	KindType      = "type"
)

// containerKinds can serve as base of a relative path
var containerKinds = []string{KindEntity, KindView, KindAction, KindFunction, KindAspect}

// IsContainerKind reports whether elements of kind can hold relative paths
func IsContainerKind(kind string) bool {
	return slices.Contains(containerKinds, kind)
}

// Element is a node of the metadata tree
type Element struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Entry is an element together with the key of its parent ("" for roots)
type Entry struct {
	Node      *Element
	ParentKey string
}

// Collector gives access to metadata and loads missing parts on request
type Collector interface {
	MetadataElementMap() map[string]Entry
	CollectMetadataForAbsolutePath(path, uri string) bool
	CollectMetadataForRelativePath(path, base, uri string) bool
}

// Request is one recorded collect call
type Request struct {
	Path     string
	Base     string
	URI      string
	Absolute bool
}

// MemoryCollector serves a fixed element map and records every collect request
type MemoryCollector struct {
	elements map[string]Entry
	requests []Request
}

// NewMemoryCollector creates an empty collector
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{elements: map[string]Entry{}}
}

// Add registers an element under key
func (c *MemoryCollector) Add(key, parentKey string, element *Element) {
	if element.Path == "" {
		element.Path = key
	}

	c.elements[key] = Entry{Node: element, ParentKey: parentKey}
}

// MetadataElementMap returns the element map
func (c *MemoryCollector) MetadataElementMap() map[string]Entry {
	return c.elements
}

// CollectMetadataForAbsolutePath records the request; it reports whether path is known
func (c *MemoryCollector) CollectMetadataForAbsolutePath(path, uri string) bool {
	c.requests = append(c.requests, Request{Path: path, URI: uri, Absolute: true})
	_, ok := c.elements[path]

	return ok
}

// CollectMetadataForRelativePath records the request; it reports whether base/path is known
func (c *MemoryCollector) CollectMetadataForRelativePath(path, base, uri string) bool {
	c.requests = append(c.requests, Request{Path: path, Base: base, URI: uri})
	_, ok := c.elements[base+"/"+path]

	return ok
}

// Requests returns the recorded collect calls in order
func (c *MemoryCollector) Requests() []Request {
	return c.requests
}

// ResolveBase finds the key relative paths of the element at key are resolved against. It walks
// up to the first container (entity, view, action, function, aspect) and continues upwards while
// the parent is a container too, so that targets nested in complex types use the outer entity.
func ResolveBase(elements map[string]Entry, key string) (string, bool) {
	current, ok := elements[key]
	if !ok {
		return "", false
	}

	for current.Node == nil || !IsContainerKind(current.Node.Kind) {
		parent, ok := elements[current.ParentKey]
		if current.ParentKey == "" || !ok {
			return "", false
		}

		key, current = current.ParentKey, parent
	}

	for current.ParentKey != "" {
		parent, ok := elements[current.ParentKey]
		if !ok || parent.Node == nil || !IsContainerKind(parent.Node.Kind) {
			break
		}

		key, current = current.ParentKey, parent
	}

	return key, true
}

type yamlElement struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Elements []yamlElement `yaml:"elements"`
}

type yamlDocument struct {
	Elements []yamlElement `yaml:"elements"`
}

// LoadYAML reads a nested element tree:
//
//	elements:
//	  - name: AdminService
//	    kind: service
//	    elements:
//	      - name: Books
//	        kind: entity
//
// Keys are the slash separated names, e.g. "AdminService/Books".
func LoadYAML(r io.Reader) (*MemoryCollector, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}

	var doc yamlDocument
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}

	collector := NewMemoryCollector()

	var add func(parentKey string, elements []yamlElement) error

	add = func(parentKey string, elements []yamlElement) error {
		for _, e := range elements {
			if e.Name == "" {
				return fmt.Errorf("%w: element without name below '%s'", ErrInvalidMetadata, parentKey)
			}

			key := e.Name
			if parentKey != "" {
				key = parentKey + "/" + e.Name
			}

			collector.Add(key, parentKey, &Element{Name: e.Name, Kind: strings.ToLower(e.Kind)})

			if err := add(key, e.Elements); err != nil {
				return err
			}
		}

		return nil
	}

	if err := add("", doc.Elements); err != nil {
		return nil, err
	}

	return collector, nil
}

// LoadYAMLFile reads a metadata file
func LoadYAMLFile(path string) (*MemoryCollector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	return LoadYAML(f)
}
