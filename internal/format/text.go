package format

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

// Pad right-pads s with spaces until it is at least width characters long.
// Strings already at or beyond width are returned unchanged.
func Pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// Truncate caps s at width characters, replacing the tail with a single
// ellipsis when it is too long. Widths of zero or less yield an empty
// string for oversized input.
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	return string(runes[:width-1]) + ellipsis
}

// CollapseSpace trims s and collapses every internal whitespace run into a
// single space, so multi-line build instructions render on one table row.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
