package vocabulary

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"sort"
	"strings"
	"sync"
)

//go:embed data/*.xml
var defaultFiles embed.FS

// Service answers term and type questions over a set of loaded
// vocabularies. All names are handled alias qualified internally;
// namespace qualified input is accepted everywhere.
type Service struct {
	vocabularies map[string]*Vocabulary // by namespace
	aliases      map[string]string      // alias -> namespace
	terms        map[string]*Term
	types        map[string]Definition
	derived      map[string][]string
	cds          *CdsVocabulary
}

// New returns an empty service.
func New() *Service {
	return &Service{
		vocabularies: make(map[string]*Vocabulary),
		aliases:      make(map[string]string),
		terms:        make(map[string]*Term),
		types:        make(map[string]Definition),
		derived:      make(map[string][]string),
	}
}

var (
	defaultOnce    sync.Once
	defaultService *Service
	defaultErr     error
)

// Default returns the service loaded with the bundled vocabularies. The
// result is shared and must not be extended.
func Default() (*Service, error) {
	defaultOnce.Do(func() {
		defaultService, defaultErr = NewDefault()
	})

	return defaultService, defaultErr
}

// MustDefault is like Default but panics on a broken bundle.
func MustDefault() *Service {
	s, err := Default()
	if err != nil {
		panic(err)
	}

	return s
}

// NewDefault returns a private service loaded with the bundled vocabularies that may be extended
// with Load.
func NewDefault() (*Service, error) {
	s := New()

	entries, err := fs.ReadDir(defaultFiles, "data")
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		content, err := defaultFiles.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, err
		}

		if err := s.Load(bytes.NewReader(content)); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}

	s.cds = defaultCdsVocabulary()

	return s, nil
}

// Load registers all schemas of a CSDL XML document.
func (s *Service) Load(r io.Reader) error {
	vocabularies, definitions, err := LoadXML(r)
	if err != nil {
		return err
	}

	for _, v := range vocabularies {
		if _, ok := s.vocabularies[v.Namespace]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateVocabulary, v.Namespace)
		}

		s.vocabularies[v.Namespace] = v
		s.aliases[v.Alias] = v.Namespace
	}

	for _, d := range definitions {
		switch def := d.(type) {
		case *Term:
			s.terms[def.Name] = def
		case *ComplexType:
			s.types[def.Name] = def
		default:
			s.types[d.QualifiedName()] = d
		}
	}

	// base type references may use either qualification
	for _, d := range definitions {
		ct, ok := d.(*ComplexType)
		if !ok || ct.BaseType == "" {
			continue
		}

		base := s.aliasQualified(ct.BaseType)
		ct.BaseType = base
		s.derived[base] = append(s.derived[base], ct.Name)
	}

	return nil
}

// Vocabulary finds a vocabulary by namespace or alias.
func (s *Service) Vocabulary(name string) *Vocabulary {
	if v, ok := s.vocabularies[name]; ok {
		return v
	}

	if ns, ok := s.aliases[name]; ok {
		return s.vocabularies[ns]
	}

	return nil
}

// Vocabularies returns all loaded vocabularies ordered by alias.
func (s *Service) Vocabularies() []*Vocabulary {
	result := make([]*Vocabulary, 0, len(s.vocabularies))
	for _, v := range s.vocabularies {
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Alias < result[j].Alias })

	return result
}

// Term looks up a term.
func (s *Service) Term(name string) *Term {
	return s.terms[s.aliasQualified(name)]
}

// Type looks up a complex type, enum type or type definition.
func (s *Service) Type(name string) Definition {
	return s.types[s.aliasQualified(name)]
}

// ComplexType is a typed shortcut for Type.
func (s *Service) ComplexType(name string) *ComplexType {
	ct, _ := s.Type(name).(*ComplexType)
	return ct
}

// EnumType is a typed shortcut for Type.
func (s *Service) EnumType(name string) *EnumType {
	et, _ := s.Type(name).(*EnumType)
	return et
}

// ComplexTypeProperty finds a property declared on the type or one of
// its base types.
func (s *Service) ComplexTypeProperty(typeName, propertyName string) *Property {
	seen := map[string]bool{}

	for ct := s.ComplexType(typeName); ct != nil && !seen[ct.Name]; ct = s.ComplexType(ct.BaseType) {
		seen[ct.Name] = true

		if p := ct.Property(propertyName); p != nil {
			return p
		}
	}

	return nil
}

// ComplexTypeProperties lists all properties including inherited ones,
// base type properties first.
func (s *Service) ComplexTypeProperties(typeName string) []*Property {
	var chain []*ComplexType

	seen := map[string]bool{}
	for ct := s.ComplexType(typeName); ct != nil && !seen[ct.Name]; ct = s.ComplexType(ct.BaseType) {
		seen[ct.Name] = true
		chain = append(chain, ct)
	}

	var result []*Property

	for i := len(chain) - 1; i >= 0; i-- {
		result = append(result, chain[i].Properties...)
	}

	return result
}

// DerivedTypeNames returns all direct and indirect sub types, sorted.
func (s *Service) DerivedTypeNames(typeName string) []string {
	var (
		result []string
		visit  func(name string)
	)

	seen := map[string]bool{}
	visit = func(name string) {
		for _, child := range s.derived[name] {
			if seen[child] {
				continue
			}

			seen[child] = true
			result = append(result, child)
			visit(child)
		}
	}
	visit(s.aliasQualified(typeName))
	slices.Sort(result)

	return result
}

// IsDerivedFrom reports whether typeName equals base or inherits from it.
func (s *Service) IsDerivedFrom(typeName, base string) bool {
	base = s.aliasQualified(base)
	seen := map[string]bool{}

	for name := s.aliasQualified(typeName); name != "" && !seen[name]; {
		if name == base {
			return true
		}

		seen[name] = true

		ct := s.ComplexType(name)
		if ct == nil {
			return false
		}

		name = ct.BaseType
	}

	return false
}

// Namespace returns the namespace for an alias or namespace.
func (s *Service) Namespace(aliasOrNamespace string) (string, bool) {
	if _, ok := s.vocabularies[aliasOrNamespace]; ok {
		return aliasOrNamespace, true
	}

	ns, ok := s.aliases[aliasOrNamespace]

	return ns, ok
}

// ToFullyQualifiedName turns "UI.LineItem" into
// "com.sap.vocabularies.UI.v1.LineItem". Unknown names are returned as is.
func (s *Service) ToFullyQualifiedName(name string) string {
	name = s.aliasQualified(name)

	alias, simple, ok := strings.Cut(name, ".")
	if !ok {
		return name
	}

	if ns, ok := s.aliases[alias]; ok {
		return ns + "." + simple
	}

	return name
}

// AliasQualifiedName is the inverse of ToFullyQualifiedName.
func (s *Service) AliasQualifiedName(name string) string {
	return s.aliasQualified(name)
}

// Cds returns the CDS vocabulary description, nil if not configured.
func (s *Service) Cds() *CdsVocabulary {
	return s.cds
}

// SetCds replaces the CDS vocabulary description.
func (s *Service) SetCds(cds *CdsVocabulary) {
	s.cds = cds
}

func (s *Service) aliasQualified(name string) string {
	if name == "" {
		return name
	}

	best := ""

	for ns := range s.vocabularies {
		if strings.HasPrefix(name, ns+".") && len(ns) > len(best) {
			best = ns
		}
	}

	if best == "" {
		return name
	}

	return s.vocabularies[best].Alias + name[len(best):]
}
