package ui

import (
	"strings"
	"testing"
)

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		name     string
		r        rune
		expected int
	}{
		{"ASCII letter", 'A', 1},
		{"Swatch", GlyphSwatch, 1},
		{"Emoji", '😀', 2},
		{"Chinese character", '中', 2},
		{"Combining acute", '́', 0},
		{"Zero width joiner", '‍', 0},
		{"Tab", '\t', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RuneWidth(tt.r); got != tt.expected {
				t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.expected)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Planet", 6},
		{"Planet, Moonwalker", 18},
		{"惑星", 4},
		{"😀 Moon", 7},
		{"", 0},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "Planet", 10, "Planet"},
		{"exact", "Planet", 6, "Planet"},
		{"cut", "Planet", 3, "Pla"},
		{"wide rune not split", "惑星", 3, "惑"},
		{"emoji not split", "Hi😀", 3, "Hi"},
		{"zero width", "Planet", 0, ""},
		{"negative width", "Planet", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateToWidth(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
		})
	}
}

func TestTruncateToWidthWithEllipsis(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"Planet", 10, "Planet"},
		{"Planet, Moonwalker", 10, "Planet,..."},
		{"Planet", 2, "Pl"},
		{"惑星惑星", 6, "惑..."},
	}

	for _, tt := range tests {
		got := TruncateToWidthWithEllipsis(tt.input, tt.maxWidth)
		if got != tt.expected {
			t.Errorf("TruncateToWidthWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
		}
		if StringWidth(got) > tt.maxWidth {
			t.Errorf("Result %q is wider than %d", got, tt.maxWidth)
		}
	}
}

func TestPadStringToWidth(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"Hi", 5, "Hi   "},
		{"Hello", 3, "Hello"},
		{"中", 4, "中  "},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		if got := PadStringToWidth(tt.input, tt.width); got != tt.expected {
			t.Errorf("PadStringToWidth(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected []string
	}{
		{"short", "looks good", 20, []string{"looks good"}},
		{"break at space", "the box is too wide", 10, []string{"the box is", "too wide"}},
		{"long word", "moonwalker", 4, []string{"moon", "walk", "er"}},
		{"newlines kept", "one\ntwo", 10, []string{"one", "two"}},
		{"wide runes", "惑星惑星", 5, []string{"惑星", "惑星"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.input, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("WrapText(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
			for _, line := range got {
				if StringWidth(line) > tt.width {
					t.Errorf("Line %q is wider than %d", line, tt.width)
				}
			}
		})
	}
}
