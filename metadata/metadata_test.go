package metadata

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const serviceYAML = `
elements:
  - name: AdminService
    kind: service
    elements:
      - name: Books
        kind: Entity
        elements:
          - name: title
            kind: element
          - name: price
            kind: element
            elements:
              - name: amount
                kind: element
          - name: addRating
            kind: action
            elements:
              - name: stars
                kind: param
`

func TestLoadYAML(t *testing.T) {
	collector, err := LoadYAML(strings.NewReader(serviceYAML))
	assert.NoError(t, err)

	elements := collector.MetadataElementMap()
	assert.Equal(t, 7, len(elements))

	books := elements["AdminService/Books"]
	assert.Equal(t, "AdminService", books.ParentKey)
	assert.Equal(t, KindEntity, books.Node.Kind)
	assert.Equal(t, "AdminService/Books", books.Node.Path)

	assert.Equal(t, "AdminService/Books/price", elements["AdminService/Books/price/amount"].ParentKey)
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown field", input: "elements:\n  - name: A\n    kinds: entity\n"},
		{name: "missing name", input: "elements:\n  - kind: entity\n"},
		{name: "broken yaml", input: "elements: [\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(test.input))
			assert.IsError(t, err, ErrInvalidMetadata)
		})
	}
}

func TestResolveBase(t *testing.T) {
	collector, err := LoadYAML(strings.NewReader(serviceYAML))
	assert.NoError(t, err)

	tests := []struct {
		name string
		key  string
		base string
		ok   bool
	}{
		{name: "entity", key: "AdminService/Books", base: "AdminService/Books", ok: true},
		{name: "element", key: "AdminService/Books/title", base: "AdminService/Books", ok: true},
		{name: "nested element", key: "AdminService/Books/price/amount", base: "AdminService/Books", ok: true},
		{name: "bound action uses entity", key: "AdminService/Books/addRating/stars", base: "AdminService/Books", ok: true},
		{name: "service has no base", key: "AdminService", ok: false},
		{name: "unknown", key: "Nope", ok: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			base, ok := ResolveBase(collector.MetadataElementMap(), test.key)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.base, base)
		})
	}
}

func TestCollectRequests(t *testing.T) {
	collector, err := LoadYAML(strings.NewReader(serviceYAML))
	assert.NoError(t, err)

	assert.True(t, collector.CollectMetadataForRelativePath("title", "AdminService/Books", "file:///a.cds"))
	assert.False(t, collector.CollectMetadataForAbsolutePath("AdminService/Authors", "file:///a.cds"))

	assert.Equal(t, []Request{
		{Path: "title", Base: "AdminService/Books", URI: "file:///a.cds"},
		{Path: "AdminService/Authors", URI: "file:///a.cds", Absolute: true},
	}, collector.Requests())
}
