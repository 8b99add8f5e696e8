package converter

import (
	"strings"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/vocabulary"
)

const dataFieldAbstract = "UI.DataFieldAbstract"

// typeResolver answers the vocabulary questions of the handlers. A nil vocabulary makes every
// lookup fail, which yields untyped conversion.
type typeResolver struct {
	vocabulary *vocabulary.Service
}

func (r *typeResolver) term(name string) *vocabulary.Term {
	if r.vocabulary == nil || name == "" {
		return nil
	}

	return r.vocabulary.Term(name)
}

// property resolves a property of a complex type; found is false when the type or the
// property is unknown
func (r *typeResolver) property(typeName, name string) (propertyType string, isCollection, found bool) {
	if r.vocabulary == nil || typeName == "" {
		return "", false, false
	}

	p := r.vocabulary.ComplexTypeProperty(typeName, name)
	if p == nil {
		return "", false, false
	}

	return p.Type, p.IsCollection, true
}

func (r *typeResolver) isComplexType(name string) bool {
	if r.vocabulary == nil || name == "" {
		return false
	}

	return r.vocabulary.ComplexType(name) != nil
}

// enumType returns the enum behind name, following type definitions
func (r *typeResolver) enumType(name string) *vocabulary.EnumType {
	if r.vocabulary == nil || name == "" {
		return nil
	}

	return r.vocabulary.EnumType(r.primitive(name))
}

// primitive unwraps type definitions down to an Edm type or the named type itself
func (r *typeResolver) primitive(name string) string {
	if r.vocabulary == nil {
		return name
	}

	seen := map[string]bool{}
	for !seen[name] {
		seen[name] = true

		def, ok := r.vocabulary.Type(name).(*vocabulary.TypeDefinition)
		if !ok {
			return r.vocabulary.AliasQualifiedName(name)
		}

		name = def.UnderlyingType
	}

	return name
}

// pathElement returns the path element name for a value of the given type, "" when the type
// is not a path type
func (r *typeResolver) pathElement(typeName string) string {
	return annotation.PathTypeFor(r.primitive(typeName))
}

// recordType is the effective type of a record without explicit $Type
func (r *typeResolver) recordType(ctx Context) string {
	if ctx.ValueType == dataFieldAbstract {
		return "UI.DataField"
	}

	return ctx.ValueType
}

// needsValueContainer reports whether a record given for a value of this context can only be
// a `$value` container
func (r *typeResolver) needsValueContainer(ctx Context) bool {
	if ctx.ValueType == "" {
		return false
	}

	if ctx.IsCollection {
		return true
	}

	primitive := r.primitive(ctx.ValueType)
	if strings.HasPrefix(primitive, "Edm.") {
		return primitive != annotation.EdmUntyped
	}

	return r.vocabulary != nil && r.vocabulary.Type(primitive) != nil && !r.isComplexType(primitive)
}
