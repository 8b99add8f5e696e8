package textdoc

// Severity follows the language server protocol numbering
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// String returns a lower case name for the severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// TextEdit describes a replacement of the text covered by Range
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// Diagnostic is a message attached to a source range
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule,omitempty"`
	Data     any      `json:"data,omitempty"`
}

// NewDiagnostic creates a diagnostic without rule or data
func NewDiagnostic(r Range, severity Severity, message string) Diagnostic {
	return Diagnostic{Range: r, Severity: severity, Message: message}
}
