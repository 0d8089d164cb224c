package errz

import (
	"bytes"
	"fmt"
	"strings"
)

// FriendlyErrorMessage returns the error with its location and, when the
// source line is known, a snippet with a caret under the offending column.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer

	msg.WriteString(e.Kind.String())
	msg.WriteString(": ")
	msg.WriteString(e.Message)
	msg.WriteString("\n")

	if e.Location.IsZero() {
		return msg.String()
	}
	msg.WriteString(fmt.Sprintf(" --> %s\n", e.Location))

	if e.Location.Source != "" {
		gutter := fmt.Sprintf("%d", e.Location.Line)
		pad := strings.Repeat(" ", len(gutter))
		msg.WriteString(fmt.Sprintf("%s |\n", pad))
		msg.WriteString(fmt.Sprintf("%s | %s\n", gutter, expandTabs(e.Location.Source)))
		if e.Location.Column > 0 {
			prefix := caretPrefix(e.Location.Source, e.Location.Column)
			msg.WriteString(fmt.Sprintf("%s | %s^\n", pad, prefix))
		}
	}
	return msg.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// caretPrefix returns the padding that places a caret under the given
// 1-based rune column of line.
func caretPrefix(line string, column int) string {
	var b strings.Builder
	col := 1
	for _, r := range line {
		if col >= column {
			break
		}
		if r == '\t' {
			b.WriteString("    ")
		} else {
			b.WriteByte(' ')
		}
		col++
	}
	return b.String()
}
