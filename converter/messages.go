package converter

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// MessageKey identifies a diagnostic text in the catalog
type MessageKey string

const (
	MsgDeprecatedValueSyntax MessageKey = "deprecated-value-syntax"
	MsgMissingValueProperty  MessageKey = "missing-value-property"
	MsgNotAllowedHere        MessageKey = "not-allowed-here"
	MsgWrongCase             MessageKey = "wrong-case"
	MsgNoSegmentsAfterType   MessageKey = "no-segments-after-type"
	MsgTypeValueMustBeString MessageKey = "type-value-must-be-string"
	MsgTypeValueRequired     MessageKey = "type-value-required"
	MsgPathSeparator         MessageKey = "path-separator"
	MsgPathNotEscaped        MessageKey = "path-not-escaped"
	MsgSyntaxError           MessageKey = "syntax-error"
)

var messageTexts = map[language.Tag]map[MessageKey]string{
	language.English: {
		MsgDeprecatedValueSyntax: "Deprecated syntax: a value without annotations does not need the '$value' wrapper",
		MsgMissingValueProperty:  "Property '$value' is required when annotating a value of type '%s'",
		MsgNotAllowedHere:        "'%s' is not allowed here",
		MsgWrongCase:             "Use '%s' instead of '%s'",
		MsgNoSegmentsAfterType:   "No segments are allowed after '$Type'",
		MsgTypeValueMustBeString: "The value of '$Type' must be a string",
		MsgTypeValueRequired:     "A value must be provided for '$Type'",
		MsgPathSeparator:         "Use '.' instead of '/' as path separator",
		MsgPathNotEscaped:        "Path segment '%s' must be enclosed in '![' and ']'",
		MsgSyntaxError:           "Annotation cannot be parsed: %s",
	},
	language.German: {
		MsgDeprecatedValueSyntax: "Veraltete Syntax: ein Wert ohne Annotationen benötigt keinen '$value'-Wrapper",
		MsgMissingValueProperty:  "Die Eigenschaft '$value' ist erforderlich, wenn ein Wert vom Typ '%s' annotiert wird",
		MsgNotAllowedHere:        "'%s' ist hier nicht erlaubt",
		MsgWrongCase:             "Verwenden Sie '%s' statt '%s'",
		MsgNoSegmentsAfterType:   "Nach '$Type' sind keine Segmente erlaubt",
		MsgTypeValueMustBeString: "Der Wert von '$Type' muss eine Zeichenkette sein",
		MsgTypeValueRequired:     "Für '$Type' muss ein Wert angegeben werden",
		MsgPathSeparator:         "Verwenden Sie '.' statt '/' als Pfadtrenner",
		MsgPathNotEscaped:        "Das Pfadsegment '%s' muss in '![' und ']' eingeschlossen werden",
		MsgSyntaxError:           "Annotation kann nicht gelesen werden: %s",
	},
}

// Messages formats diagnostic texts for one language. It is created once by the host and
// passed to every conversion.
type Messages struct {
	printer *message.Printer
}

// NewMessages builds the catalog and selects the best match for tag; unknown languages
// fall back to English.
func NewMessages(tag language.Tag) *Messages {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))

	for lang, texts := range messageTexts {
		for key, text := range texts {
			_ = builder.SetString(lang, string(key), text)
		}
	}

	matcher := language.NewMatcher([]language.Tag{language.English, language.German})
	matched, _, _ := matcher.Match(tag)
	base, _ := matched.Base()

	return &Messages{printer: message.NewPrinter(language.Make(base.String()), message.Catalog(builder))}
}

// DefaultMessages returns English messages
func DefaultMessages() *Messages {
	return NewMessages(language.English)
}

// Text formats the message for key
func (m *Messages) Text(key MessageKey, args ...any) string {
	return m.printer.Sprintf(string(key), args...)
}
