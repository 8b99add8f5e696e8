package vocabulary

import "strings"

// Kind classifies a vocabulary definition.
type Kind string

const (
	KindTerm           Kind = "Term"
	KindComplexType    Kind = "ComplexType"
	KindEnumType       Kind = "EnumType"
	KindTypeDefinition Kind = "TypeDefinition"
)

// Definition is implemented by every named vocabulary object.
type Definition interface {
	Kind() Kind
	QualifiedName() string
}

// Term is an annotation term. Name is alias qualified, e.g. "UI.LineItem".
type Term struct {
	Name            string
	Type            string
	IsCollection    bool
	AppliesTo       []string
	DefaultValue    string
	BaseTerm        string
	Description     string
	LongDescription string
}

func (t *Term) Kind() Kind            { return KindTerm }
func (t *Term) QualifiedName() string { return t.Name }

// Property is a structural property of a complex type.
type Property struct {
	Name         string
	Type         string
	IsCollection bool
	Nullable     bool
	DefaultValue string
	Description  string
}

// ComplexType is a structured vocabulary type. Properties contains the
// properties declared on the type itself; use Service.ComplexTypeProperty
// to include inherited ones.
type ComplexType struct {
	Name        string
	BaseType    string
	Abstract    bool
	Properties  []*Property
	Description string
}

func (c *ComplexType) Kind() Kind            { return KindComplexType }
func (c *ComplexType) QualifiedName() string { return c.Name }

// Property returns a declared (non-inherited) property by name.
func (c *ComplexType) Property(name string) *Property {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// EnumMember is one member of an enum type.
type EnumMember struct {
	Name  string
	Value string
}

// EnumType is an enumeration; IsFlags allows combining members.
type EnumType struct {
	Name        string
	IsFlags     bool
	Members     []EnumMember
	Description string
}

func (e *EnumType) Kind() Kind            { return KindEnumType }
func (e *EnumType) QualifiedName() string { return e.Name }

// HasMember reports whether the enum declares a member with this name.
func (e *EnumType) HasMember(name string) bool {
	for _, m := range e.Members {
		if m.Name == name {
			return true
		}
	}

	return false
}

// TypeDefinition wraps a primitive type.
type TypeDefinition struct {
	Name           string
	UnderlyingType string
	Description    string
}

func (t *TypeDefinition) Kind() Kind            { return KindTypeDefinition }
func (t *TypeDefinition) QualifiedName() string { return t.Name }

// Vocabulary is one loaded schema.
type Vocabulary struct {
	Namespace   string
	Alias       string
	URI         string
	Description string
	Terms       []*Term
}

// CdsVocabulary describes the annotations CDS offers as plain names (for
// example @title or @assert.range) and the internal terms they map to.
type CdsVocabulary struct {
	Alias      string
	Namespace  string
	NameMap    map[string]string
	GroupNames map[string]bool
}

// InternalName returns the internal qualified term for a CDS annotation
// name. Names inside a known group without an explicit mapping are
// synthesised from their capitalised segments.
func (c *CdsVocabulary) InternalName(name string) (string, bool) {
	if c == nil {
		return "", false
	}

	if mapped, ok := c.NameMap[name]; ok {
		return mapped, true
	}

	segments := strings.Split(name, ".")
	if len(segments) < 2 || !c.GroupNames[segments[0]] {
		return "", false
	}

	return c.Alias + "." + capitalizeSegments(segments), true
}

// CdsName is the reverse of InternalName for mapped names.
func (c *CdsVocabulary) CdsName(internal string) (string, bool) {
	if c == nil {
		return "", false
	}

	for name, mapped := range c.NameMap {
		if mapped == internal {
			return name, true
		}
	}

	return "", false
}

// splitTypeName unwraps "Collection(X)".
func splitTypeName(typeName string) (string, bool) {
	if strings.HasPrefix(typeName, "Collection(") && strings.HasSuffix(typeName, ")") {
		return typeName[len("Collection(") : len(typeName)-1], true
	}

	return typeName, false
}
