package converter

import (
	"encoding/json"

	"github.com/shibukawa/cdsodata/metadata"
	"github.com/shibukawa/cdsodata/textdoc"
)

// Reference is a `using` dependency of a CDS file
type Reference struct {
	Alias     string `json:"alias,omitempty" yaml:"alias"`
	Namespace string `json:"namespace" yaml:"namespace"`
	URI       string `json:"uri,omitempty" yaml:"uri"`
}

// Carrier is the definition an annotation assignment is attached to
type Carrier struct {
	Range     textdoc.Range  `json:"range" yaml:"range"`
	NameRange *textdoc.Range `json:"nameRange,omitempty" yaml:"name_range"`
	Kind      string         `json:"kind" yaml:"kind"`
	// MetadataKey is the key of the carrier in the metadata element map
	MetadataKey string `json:"metadataKey,omitempty" yaml:"metadata_key"`
}

// AnnotationAssignmentToken is one `@...` assignment found by the compiler
type AnnotationAssignmentToken struct {
	Text        string  `json:"text" yaml:"text"`
	Line        int     `json:"line" yaml:"line"`
	Character   int     `json:"character" yaml:"character"`
	Carrier     Carrier `json:"carrier" yaml:"carrier"`
	CarrierName string  `json:"carrierName" yaml:"carrier_name"`
}

// Start is the position of the first character of the assignment
func (a AnnotationAssignmentToken) Start() textdoc.Position {
	return textdoc.Position{Line: a.Line, Character: a.Character}
}

// Range is the source range of the assignment text
func (a AnnotationAssignmentToken) Range() textdoc.Range {
	return textdoc.Range{Start: a.Start(), End: textdoc.Advance(a.Start(), a.Text)}
}

// FileIndex lists the annotation assignments of one CDS file
type FileIndex struct {
	URI                   string                      `json:"uri" yaml:"uri"`
	Namespace             string                      `json:"namespace" yaml:"namespace"`
	AnnotationAssignments []AnnotationAssignmentToken `json:"annotationAssignments" yaml:"assignments"`
	References            []Reference                 `json:"references" yaml:"references"`
}

// CompilerFacade provides the CDS compiler knowledge the assembler needs
type CompilerFacade interface {
	GetNamespaceAndReference(uri string) (string, []Reference)
	ConvertNameToEdmx(name string) string
	GetServiceKind(name string) string
}

// StaticFacade answers from fixed tables. Names without an EDMX mapping are returned unchanged.
type StaticFacade struct {
	Namespace    string
	References   []Reference
	EdmxNames    map[string]string
	ServiceKinds map[string]string
}

func (f *StaticFacade) GetNamespaceAndReference(_ string) (string, []Reference) {
	return f.Namespace, f.References
}

func (f *StaticFacade) ConvertNameToEdmx(name string) string {
	if edmx, ok := f.EdmxNames[name]; ok {
		return edmx
	}

	return name
}

func (f *StaticFacade) GetServiceKind(name string) string {
	return f.ServiceKinds[name]
}

// Target collects the assignments attached to one carrier
type Target struct {
	Name        string
	Kind        string
	NameRange   *textdoc.Range
	Range       textdoc.Range
	MetadataKey string
	Assignments []AnnotationAssignmentToken
}

// TargetMap is the grouping result of ToTargetMap. Targets keep the order of their first assignment.
type TargetMap struct {
	URI        string
	Namespace  string
	References []Reference
	Targets    []*Target
}

// ToTargetMap groups the assignments of a file by carrier. Two assignments belong to the same
// target when their carrier ranges are identical.
func ToTargetMap(index *FileIndex, uri string, facade CompilerFacade) *TargetMap {
	result := &TargetMap{URI: uri, Namespace: index.Namespace, References: index.References}
	if facade != nil {
		if namespace, references := facade.GetNamespaceAndReference(uri); namespace != "" || len(references) > 0 {
			result.Namespace, result.References = namespace, references
		}
	}

	byCarrier := map[string]*Target{}

	for _, token := range index.AnnotationAssignments {
		key, err := json.Marshal(token.Carrier.Range)
		if err != nil {
			continue
		}

		target, ok := byCarrier[string(key)]
		if !ok {
			target = newTarget(token, facade)
			byCarrier[string(key)] = target
			result.Targets = append(result.Targets, target)
		}

		target.Assignments = append(target.Assignments, token)
	}

	for _, target := range result.Targets {
		for i, token := range target.Assignments {
			if i == 0 {
				target.Range = token.Range()

				continue
			}

			target.Range = textdoc.Union(target.Range, token.Range())
		}
	}

	return result
}

func newTarget(token AnnotationAssignmentToken, facade CompilerFacade) *Target {
	kind := token.Carrier.Kind
	name := token.CarrierName

	if facade != nil {
		if kind == "" {
			kind = facade.GetServiceKind(name)
		}

		if kind == metadata.KindEntity || kind == metadata.KindView {
			name = facade.ConvertNameToEdmx(name)
		}
	}

	key := token.Carrier.MetadataKey
	if key == "" {
		key = token.CarrierName
	}

	return &Target{
		Name:        name,
		Kind:        kind,
		NameRange:   textdoc.CopyRange(token.Carrier.NameRange),
		MetadataKey: key,
	}
}
