package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/shibukawa/cdsodata/textdoc"
)

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgBlue)
)

// PrintDiagnostics writes one line per diagnostic as `uri:line:character: severity: message`.
// Lines and characters are shown one-based.
func PrintDiagnostics(w io.Writer, uri string, diagnostics []textdoc.Diagnostic) {
	for _, d := range diagnostics {
		c := infoColor

		switch d.Severity {
		case textdoc.SeverityError:
			c = errorColor
		case textdoc.SeverityWarning:
			c = warningColor
		}

		location := fmt.Sprintf("%s:%d:%d", uri, d.Range.Start.Line+1, d.Range.Start.Character+1)
		if d.Rule != "" {
			c.Fprintf(w, "%s: %s: %s (%s)\n", location, d.Severity, d.Message, d.Rule)
		} else {
			c.Fprintf(w, "%s: %s: %s\n", location, d.Severity, d.Message)
		}
	}
}

// Summary returns the number of errors and warnings
func Summary(diagnostics []textdoc.Diagnostic) (errors, warnings int) {
	for _, d := range diagnostics {
		switch d.Severity {
		case textdoc.SeverityError:
			errors++
		case textdoc.SeverityWarning:
			warnings++
		}
	}

	return errors, warnings
}
