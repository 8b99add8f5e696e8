package converter

import (
	"strings"

	"github.com/shibukawa/cdsodata/cdsast"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

// ToAssignment parses the text of one annotation assignment and maps CDS annotation names such as
// `@title` or `@assert.range` to their internal terms
func ToAssignment(text string, start textdoc.Position, vocab *vocabulary.Service) (*cdsast.Assignment, error) {
	assignment, err := cdsast.Parse(text, start)
	if assignment == nil {
		return nil, err
	}

	if vocab != nil {
		assignment = AdjustCdsTermNames(assignment, vocab.Cds())
	}

	return assignment, err
}

// AdjustCdsTermNames returns a copy of assignment in which CDS annotation names are replaced by
// internal terms. Groups of a CDS vocabulary group (`@assert: { range, format }`) are dissolved
// into single annotations. The input is left unchanged.
func AdjustCdsTermNames(assignment *cdsast.Assignment, cds *vocabulary.CdsVocabulary) *cdsast.Assignment {
	if assignment == nil || cds == nil {
		return assignment
	}

	result := &cdsast.Assignment{Range: assignment.Range}

	for _, item := range assignment.Items {
		switch n := item.(type) {
		case *cdsast.Annotation:
			result.Items = append(result.Items, adjustAnnotation(n, "", cds))
		case *cdsast.AnnotationGroup:
			if n.Name == nil || !cds.GroupNames[n.Name.Value] || n.Items == nil {
				result.Items = append(result.Items, item)

				continue
			}

			for _, a := range n.Items.Items {
				result.Items = append(result.Items, adjustAnnotation(a, n.Name.Value, cds))
			}
		default:
			result.Items = append(result.Items, item)
		}
	}

	return result
}

// adjustAnnotation maps the longest leading part of the term that is a CDS annotation name
func adjustAnnotation(a *cdsast.Annotation, groupName string, cds *vocabulary.CdsVocabulary) *cdsast.Annotation {
	if a.Term == nil || len(a.Term.Segments) == 0 {
		return a
	}

	segments := a.Term.SegmentValues()

	for n := len(segments); n > 0; n-- {
		name := strings.Join(segments[:n], ".")
		if groupName != "" {
			name = groupName + "." + name
		}

		internal, ok := cds.InternalName(name)
		if !ok {
			continue
		}

		alias, term, found := strings.Cut(internal, ".")
		if !found {
			continue
		}

		termRange := segmentsRange(a.Term.Segments[:n])

		path := &cdsast.Path{
			Segments: []*cdsast.Identifier{
				{Value: alias, Range: textdoc.CopyRange(termRange)},
				{Value: term, Range: textdoc.CopyRange(termRange)},
			},
			Separators: []*cdsast.Separator{{Value: "."}},
			Range:      a.Term.Range,
		}

		for i := n; i < len(a.Term.Segments); i++ {
			separator := &cdsast.Separator{Value: "."}
			if i-1 < len(a.Term.Separators) {
				separator = a.Term.Separators[i-1]
			}

			path.Segments = append(path.Segments, a.Term.Segments[i])
			path.Separators = append(path.Separators, separator)
		}

		path.Value = strings.Join(path.SegmentValues(), ".")

		adjusted := *a
		adjusted.Term = path

		return &adjusted
	}

	return a
}
