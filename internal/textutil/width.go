package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tab characters with spaces aligned to tabWidth columns.
// Columns restart after every newline.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text))
	column := 0
	for _, ru := range text {
		switch ru {
		case '\t':
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		case '\n':
			builder.WriteRune(ru)
			column = 0
			continue
		}
		builder.WriteRune(ru)
		column += max(runewidth.RuneWidth(ru), 1)
	}
	return builder.String()
}

// DisplayWidth reports the printable width of text in terminal columns.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate cuts text to at most width columns, ending with an ellipsis when
// anything was removed.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}

// TruncateLeft keeps the rightmost columns of text, starting with an
// ellipsis when anything was removed.
func TruncateLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	total := DisplayWidth(text)
	if total <= width {
		return text
	}
	return runewidth.TruncateLeft(text, total-width+1, "…")
}

// PadRight fills text with spaces up to width columns.
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}
