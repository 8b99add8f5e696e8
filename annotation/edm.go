package annotation

import "strings"

// EDM element names used by the generic node model
const (
	Annotation    = "Annotation"
	Record        = "Record"
	Collection    = "Collection"
	PropertyValue = "PropertyValue"

	Term      = "Term"
	Qualifier = "Qualifier"
	Property  = "Property"
	Type      = "Type"
	Function  = "Function"

	Null                   = "Null"
	String                 = "String"
	Bool                   = "Bool"
	Int                    = "Int"
	Decimal                = "Decimal"
	Float                  = "Float"
	Date                   = "Date"
	DateTimeOffset         = "DateTimeOffset"
	TimeOfDay              = "TimeOfDay"
	Duration               = "Duration"
	Guid                   = "Guid"
	Binary                 = "Binary"
	EnumMember             = "EnumMember"
	Path                   = "Path"
	PropertyPath           = "PropertyPath"
	NavigationPropertyPath = "NavigationPropertyPath"
	AnnotationPath         = "AnnotationPath"
	ModelElementPath       = "ModelElementPath"
	AnyPropertyPath        = "AnyPropertyPath"

	Apply          = "Apply"
	If             = "If"
	Not            = "Not"
	And            = "And"
	Or             = "Or"
	Eq             = "Eq"
	Ne             = "Ne"
	Gt             = "Gt"
	Ge             = "Ge"
	Lt             = "Lt"
	Le             = "Le"
	Has            = "Has"
	In             = "In"
	Add            = "Add"
	Sub            = "Sub"
	Neg            = "Neg"
	Mul            = "Mul"
	Div            = "Div"
	DivBy          = "DivBy"
	Mod            = "Mod"
	Cast           = "Cast"
	IsOf           = "IsOf"
	LabeledElement = "LabeledElement"
	UrlRef         = "UrlRef"
)

// EDM primitive type names as used in vocabularies
const (
	EdmString                 = "Edm.String"
	EdmBoolean                = "Edm.Boolean"
	EdmByte                   = "Edm.Byte"
	EdmSByte                  = "Edm.SByte"
	EdmInt16                  = "Edm.Int16"
	EdmInt32                  = "Edm.Int32"
	EdmInt64                  = "Edm.Int64"
	EdmDecimal                = "Edm.Decimal"
	EdmDouble                 = "Edm.Double"
	EdmSingle                 = "Edm.Single"
	EdmDate                   = "Edm.Date"
	EdmDateTimeOffset         = "Edm.DateTimeOffset"
	EdmTimeOfDay              = "Edm.TimeOfDay"
	EdmDuration               = "Edm.Duration"
	EdmGuid                   = "Edm.Guid"
	EdmBinary                 = "Edm.Binary"
	EdmPrimitiveType          = "Edm.PrimitiveType"
	EdmUntyped                = "Edm.Untyped"
	EdmPath                   = "Edm.Path"
	EdmPropertyPath           = "Edm.PropertyPath"
	EdmNavigationPropertyPath = "Edm.NavigationPropertyPath"
	EdmAnnotationPath         = "Edm.AnnotationPath"
	EdmModelElementPath       = "Edm.ModelElementPath"
	EdmAnyPropertyPath        = "Edm.AnyPropertyPath"
)

var pathTypes = map[string]string{
	EdmPath:                   Path,
	EdmPropertyPath:           PropertyPath,
	EdmNavigationPropertyPath: NavigationPropertyPath,
	EdmAnnotationPath:         AnnotationPath,
	EdmModelElementPath:       ModelElementPath,
	EdmAnyPropertyPath:        PropertyPath,
}

var pathElementNames = map[string]bool{
	Path:                   true,
	PropertyPath:           true,
	NavigationPropertyPath: true,
	AnnotationPath:         true,
	ModelElementPath:       true,
	AnyPropertyPath:        true,
}

// PathTypeFor returns the element name for a path-like EDM type, or "" for any other type
func PathTypeFor(edmType string) string {
	return pathTypes[edmType]
}

// IsPathLike reports whether an element name denotes a path expression
func IsPathLike(elementName string) bool {
	return pathElementNames[elementName]
}

var dynamicExpressions = map[string]bool{
	Apply: true, If: true, Not: true, And: true, Or: true,
	Eq: true, Ne: true, Gt: true, Ge: true, Lt: true, Le: true, Has: true, In: true,
	Add: true, Sub: true, Neg: true, Mul: true, Div: true, DivBy: true, Mod: true,
	Cast: true, IsOf: true, LabeledElement: true, UrlRef: true,
}

// IsDynamicExpression reports whether the element is a dynamic expression that has no CDS shorthand
func IsDynamicExpression(elementName string) bool {
	return dynamicExpressions[elementName]
}

var primitiveNames = map[string]bool{
	Null: true, String: true, Bool: true, Int: true, Decimal: true, Float: true, Date: true,
	DateTimeOffset: true, TimeOfDay: true, Duration: true, Guid: true, Binary: true, EnumMember: true,
}

// IsPrimitive reports whether an element name is a constant expression
func IsPrimitive(elementName string) bool {
	return primitiveNames[elementName] || IsPathLike(elementName)
}

// UnescapeText resolves CDS string escapes (`\n`, `\t`, `\\`, `\'` and doubled quotes)
func UnescapeText(text string) string {
	if !strings.ContainsAny(text, "\\'") {
		return text
	}

	var sb strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '\\' && i+1 < len(runes):
			i++

			switch runes[i] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(runes[i])
			}
		case r == '\'' && i+1 < len(runes) && runes[i+1] == '\'':
			sb.WriteRune('\'')
			i++
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
