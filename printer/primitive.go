package printer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shibukawa/cdsodata/annotation"
	"github.com/shibukawa/cdsodata/formatter"
)

// PrintPrimitiveValue renders a constant of the given EDM element type as CDS text
func PrintPrimitiveValue(elementName, value string) string {
	switch elementName {
	case annotation.Null:
		return "null"
	case annotation.Bool:
		return strings.ToLower(strings.TrimSpace(value))
	case annotation.Int, annotation.Float:
		return strings.TrimSpace(value)
	case annotation.Decimal:
		text := strings.TrimSpace(value)
		if _, err := decimal.NewFromString(text); err != nil {
			return formatter.StringLiteral(value)
		}

		return text
	case annotation.String, annotation.Date, annotation.DateTimeOffset, annotation.TimeOfDay, annotation.Duration:
		return formatter.StringLiteral(value)
	case annotation.Guid:
		// no CDS literal for Guid, printed as string
		if id, err := uuid.Parse(value); err == nil {
			return formatter.StringLiteral(id.String())
		}

		return formatter.StringLiteral(value)
	case annotation.Binary:
		return formatter.StringLiteral(value)
	case annotation.EnumMember:
		return enumValue(value)
	}

	if annotation.IsPathLike(elementName) {
		if strings.Contains(value, "@") {
			return formatter.DelimitedIdentifier(value)
		}

		return strings.ReplaceAll(value, "/", ".")
	}

	return formatter.StringLiteral(value)
}

// enumValue turns `Type/A Type/B` into `[ #A, #B ]` and `Type/A` into `#A`
func enumValue(value string) string {
	members := strings.Fields(value)

	items := make([]string, 0, len(members))
	for _, member := range members {
		if slash := strings.LastIndex(member, "/"); slash >= 0 {
			member = member[slash+1:]
		}

		items = append(items, "#"+member)
	}

	if len(items) == 1 {
		return items[0]
	}

	return formatter.InlineCollection(items)
}
