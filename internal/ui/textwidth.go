package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Widths below are display columns, not bytes or runes.

// RuneWidth returns the display width of r; control and combining runes
// are 0, wide runes (CJK, emoji) are 2
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of s
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s to at most maxWidth columns without splitting runes
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	width := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if width+rw > maxWidth {
			return s[:i]
		}
		width += rw
	}
	return s
}

// TruncateToWidthWithEllipsis is TruncateToWidth that marks the cut with "..."
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return TruncateToWidth(s, maxWidth)
	}
	return TruncateToWidth(s, maxWidth-3) + "..."
}

// PadStringToWidth right-pads s with spaces to width columns
func PadStringToWidth(s string, width int) string {
	if current := StringWidth(s); current < width {
		return s + strings.Repeat(" ", width-current)
	}
	return s
}

// WrapText splits s into lines of at most maxWidth columns, breaking at the
// last space when there is one
func WrapText(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		for StringWidth(paragraph) > maxWidth {
			cut := len(TruncateToWidth(paragraph, maxWidth))
			if paragraph[cut] != ' ' {
				if space := strings.LastIndexByte(paragraph[:cut], ' '); space > 0 {
					cut = space
				}
			}
			if cut == 0 {
				// a single rune wider than maxWidth
				_, size := firstRune(paragraph)
				cut = size
			}
			lines = append(lines, paragraph[:cut])
			paragraph = strings.TrimLeft(paragraph[cut:], " ")
		}
		lines = append(lines, paragraph)
	}
	return lines
}

func firstRune(s string) (rune, int) {
	for i, r := range s {
		if i > 0 {
			return r, i
		}
	}
	return 0, len(s)
}
