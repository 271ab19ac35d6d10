package diag

import (
	"fmt"
	"strings"
)

// Categories used in rendered diagnostic reports.
const (
	CategoryParser = "Parser error"
	CategoryType   = "Type error"
)

// Diagnostic is a single reportable problem: a category label, a
// human-readable reason, and the source offset it is anchored to.
type Diagnostic struct {
	Category string
	Message  string
	Offset   int
}

// FormatReport renders the full diagnostic listing for a file: a
// summary line ("Encountered N error(s) in <file>:"), a blank line,
// then for each diagnostic a "On row R, column C:" header, the
// category and reason, and a one-line-of-context source quote
// surrounding the offending row.
func FormatReport(fc *FileContext, diags []Diagnostic) string {
	var sb strings.Builder

	plural := "s"
	if len(diags) == 1 {
		plural = ""
	}
	fmt.Fprintf(&sb, "Encountered %d error%s in %s:\n\n", len(diags), plural, fc.Name())

	for i, d := range diags {
		pos, ok := fc.DecodeOffset(d.Offset)
		if ok {
			fmt.Fprintf(&sb, "On row %d, column %d:\n", pos.Row, pos.Column)
		}
		fmt.Fprintf(&sb, "%s: %s\n", d.Category, d.Message)
		sb.WriteString(fc.QuoteContext(d.Offset, 1))
		if i != len(diags)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
