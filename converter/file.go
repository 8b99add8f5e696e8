package converter

import (
	"strconv"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/metadata"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

// FileTarget is one `<Annotations Target="...">` block of the file
type FileTarget struct {
	Name       string                `json:"name"`
	Kind       string                `json:"kind,omitempty"`
	NameRange  *textdoc.Range        `json:"nameRange,omitempty"`
	Range      *textdoc.Range        `json:"range,omitempty"`
	TermsRange *textdoc.Range        `json:"termsRange,omitempty"`
	Terms      []*annotation.Element `json:"terms"`
}

// AnnotationFile is the annotation content of one CDS file in generic node form
type AnnotationFile struct {
	URI          string         `json:"uri"`
	Namespace    string         `json:"namespace"`
	References   []Reference    `json:"references"`
	Targets      []*FileTarget  `json:"targets"`
	Range        *textdoc.Range `json:"range,omitempty"`
	ContentRange *textdoc.Range `json:"contentRange,omitempty"`
}

// FileResult is the result of ToAnnotationFile. Pointer is empty unless a position was requested
// and falls inside an assignment.
type FileResult struct {
	File        *AnnotationFile      `json:"file"`
	Pointer     string               `json:"pointer,omitempty"`
	NodeRange   *textdoc.Range       `json:"nodeRange,omitempty"`
	Diagnostics []textdoc.Diagnostic `json:"diagnostics,omitempty"`
}

// Options controls ToAnnotationFile
type Options struct {
	// Position requests the pointer of the node at this position
	Position *textdoc.Position
	// Propagation lists for a target name the further targets its annotations apply to
	Propagation map[string][]string
	// Messages selects the diagnostic language; nil is English
	Messages *Messages
}

// ToAnnotationFile converts every target of the map. Conversion problems are reported as
// diagnostics; the file is always returned.
func ToAnnotationFile(uri string, vocab *vocabulary.Service, targets *TargetMap, collector metadata.Collector, opts Options) *FileResult {
	file := &AnnotationFile{
		URI:        uri,
		Namespace:  targets.Namespace,
		References: targets.References,
		Targets:    make([]*FileTarget, 0, len(targets.Targets)),
	}
	result := &FileResult{File: file}

	for ti, target := range targets.Targets {
		converted := &FileTarget{
			Name:      target.Name,
			Kind:      target.Kind,
			NameRange: textdoc.CopyRange(target.NameRange),
			Terms:     []*annotation.Element{},
		}

		termsRange := target.Range
		converted.TermsRange = &termsRange

		targetRange := termsRange
		if target.NameRange != nil {
			targetRange = textdoc.Union(targetRange, *target.NameRange)
		}

		converted.Range = &targetRange

		var (
			relative []string
			absolute []string
		)

		for _, token := range target.Assignments {
			state := NewVisitorState(vocab, opts.Messages)
			tokenRange := token.Range()

			assignment, err := ToAssignment(token.Text, token.Start(), vocab)
			if err != nil {
				state.report(&tokenRange, textdoc.SeverityError, "syntax-error", nil, MsgSyntaxError, err.Error())
			}

			if assignment != nil {
				for _, item := range assignment.Items {
					offset := len(converted.Terms)
					elements := ConvertAnnotation(state, item)
					converted.Terms = append(converted.Terms, elements...)

					if result.Pointer == "" && opts.Position != nil {
						result.capturePointer(ti, offset, elements, item, *opts.Position)
					}
				}
			}

			if result.Pointer == "" && opts.Position != nil && tokenRange.Contains(*opts.Position) {
				result.Pointer = "/targets/" + strconv.Itoa(ti)
				result.NodeRange = &tokenRange
			}

			result.Diagnostics = append(result.Diagnostics, state.Diagnostics()...)
			relative = append(relative, state.Paths()...)
			absolute = append(absolute, state.AbsolutePaths()...)
		}

		collectMetadata(collector, uri, target.MetadataKey, relative, absolute)

		file.Targets = append(file.Targets, converted)

		if file.Range == nil {
			file.Range = textdoc.CopyRange(converted.Range)
		} else {
			u := textdoc.Union(*file.Range, *converted.Range)
			file.Range = &u
		}
	}

	file.ContentRange = textdoc.CopyRange(file.Range)

	propagate(file, opts.Propagation)

	return result
}

func (r *FileResult) capturePointer(ti, offset int, elements []*annotation.Element, item cdsast.Node, pos textdoc.Position) {
	if item.NodeRange() == nil || !item.NodeRange().Contains(pos) {
		return
	}

	for k, element := range elements {
		pointer, ok := FindNode(element, item, pos)
		if !ok {
			continue
		}

		r.Pointer = "/targets/" + strconv.Itoa(ti) + "/terms/" + strconv.Itoa(offset+k)
		if len(pointer.Path) > 0 {
			r.Pointer += "/" + pointer.String()
		}

		r.NodeRange = textdoc.CopyRange(pointer.Range)

		return
	}
}

// collectMetadata asks the collector for the metadata behind the discovered paths. Relative paths
// are resolved against the container of the target.
func collectMetadata(collector metadata.Collector, uri, key string, relative, absolute []string) {
	if collector == nil {
		return
	}

	if len(relative) > 0 {
		if base, ok := metadata.ResolveBase(collector.MetadataElementMap(), key); ok {
			seen := map[string]bool{}

			for _, path := range relative {
				if seen[path] {
					continue
				}

				seen[path] = true
				collector.CollectMetadataForRelativePath(path, base, uri)
			}
		}
	}

	seen := map[string]bool{}

	for _, path := range absolute {
		if seen[path] {
			continue
		}

		seen[path] = true
		collector.CollectMetadataForAbsolutePath(path, uri)
	}
}

// propagate appends a copy of each target for every name it propagates to. Copies share the
// terms of the original and follow all original targets, so pointers into the originals stay valid.
func propagate(file *AnnotationFile, propagation map[string][]string) {
	if len(propagation) == 0 {
		return
	}

	count := len(file.Targets)
	for _, target := range file.Targets[:count] {
		for _, name := range propagation[target.Name] {
			clone := *target
			clone.Name = name
			file.Targets = append(file.Targets, &clone)
		}
	}
}
