package converter

import (
	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

// Context is one frame of the type information visible to a handler. Frames are values and
// never modified after they are pushed.
type Context struct {
	RecordType       string
	TermType         string
	GroupName        string
	ValueType        string
	IsCollection     bool
	PropertyName     string
	InValueContainer bool

	flags bool
}

// VisitorState is threaded through one conversion. It is not safe for concurrent use and is
// discarded after the conversion.
type VisitorState struct {
	vocabulary *vocabulary.Service
	messages   *Messages
	types      *typeResolver

	contexts []Context
	elements []*annotation.Element

	diagnostics   []textdoc.Diagnostic
	paths         []string
	pathSet       map[string]bool
	absolutePaths []string
	absoluteSet   map[string]bool

	valueListCollection string
}

// NewVisitorState creates the state for one conversion. A nil messages value selects English.
func NewVisitorState(vocab *vocabulary.Service, messages *Messages) *VisitorState {
	if messages == nil {
		messages = DefaultMessages()
	}

	return &VisitorState{
		vocabulary:  vocab,
		messages:    messages,
		types:       &typeResolver{vocabulary: vocab},
		pathSet:     map[string]bool{},
		absoluteSet: map[string]bool{},
	}
}

// Context returns the innermost frame, the zero frame when the stack is empty
func (s *VisitorState) Context() Context {
	if len(s.contexts) == 0 {
		return Context{}
	}

	return s.contexts[len(s.contexts)-1]
}

// PushContext adds a frame
func (s *VisitorState) PushContext(ctx Context) {
	s.contexts = append(s.contexts, ctx)
}

// Depth is the number of frames
func (s *VisitorState) Depth() int {
	return len(s.contexts)
}

// Scope records the current depth and returns a function trimming the stack back to it.
// Use it as `defer s.Scope()()`.
func (s *VisitorState) Scope() func() {
	depth := len(s.contexts)

	return func() {
		if len(s.contexts) > depth {
			s.contexts = s.contexts[:depth]
		}
	}
}

func (s *VisitorState) currentElement() *annotation.Element {
	if len(s.elements) == 0 {
		return nil
	}

	return s.elements[len(s.elements)-1]
}

// AddDiagnostic records a diagnostic
func (s *VisitorState) AddDiagnostic(d textdoc.Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
}

func (s *VisitorState) report(r *textdoc.Range, severity textdoc.Severity, rule string, data any, key MessageKey, args ...any) {
	if r == nil {
		r = &textdoc.Range{}
	}

	d := textdoc.NewDiagnostic(*r, severity, s.messages.Text(key, args...))
	d.Rule = rule
	d.Data = data
	s.diagnostics = append(s.diagnostics, d)
}

// Diagnostics returns the collected diagnostics in report order
func (s *VisitorState) Diagnostics() []textdoc.Diagnostic {
	return s.diagnostics
}

// AddPath records a metadata path relative to the annotated target
func (s *VisitorState) AddPath(path string) {
	if path == "" || s.pathSet[path] {
		return
	}

	s.pathSet[path] = true
	s.paths = append(s.paths, path)
}

// Paths returns the relative paths in discovery order
func (s *VisitorState) Paths() []string {
	return s.paths
}

// AddAbsolutePath records a metadata path relative to the service
func (s *VisitorState) AddAbsolutePath(path string) {
	if path == "" || s.absoluteSet[path] {
		return
	}

	s.absoluteSet[path] = true
	s.absolutePaths = append(s.absolutePaths, path)
}

// AbsolutePaths returns the absolute paths in discovery order
func (s *VisitorState) AbsolutePaths() []string {
	return s.absolutePaths
}
