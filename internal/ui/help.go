package ui

import (
	"fmt"
)

// KeyBindingInfo represents a keybinding for display
type KeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
}

// HelpScreen is the "?" overlay listing keys, mouse actions and commands
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
	commands    []string
}

// NewHelpScreen creates a hidden help screen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// SetCommands sets the ":" command summaries to display
func (h *HelpScreen) SetCommands(commands []string) {
	h.commands = commands
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// Hide closes the help screen
func (h *HelpScreen) Hide() {
	h.visible = false
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Lines returns the help text
func (h *HelpScreen) Lines() []string {
	lines := []string{"Keys:"}
	for _, kb := range h.keybindings {
		lines = append(lines, fmt.Sprintf("  %c        %s", kb.GetKey(), kb.GetDescription()))
	}

	lines = append(lines,
		"",
		"Mouse:",
		"  click        select region (Ctrl/Cmd+click adds to selection)",
		"  click ●/○    toggle visibility",
		"  header ●/○   hide or show all regions",
		"",
		"Commands:",
	)
	for _, c := range h.commands {
		lines = append(lines, "  :"+c)
	}
	return lines
}

// Render draws the overlay as a centred box
func (h *HelpScreen) Render(screen *Screen) {
	if h.visible {
		renderPanel(screen, " Help (? to close) ", h.Lines(), -1)
	}
}

// renderPanel draws lines in a centred box; the line at highlight, if any,
// is drawn with the cursor style and kept in view
func renderPanel(screen *Screen, title string, lines []string, highlight int) {
	width, height := screen.GetWidth(), screen.GetHeight()
	boxWidth := min(width-4, 72)
	boxHeight := min(height-2, len(lines)+4)
	if boxWidth < 10 || boxHeight < 5 {
		return
	}
	startX := (width - boxWidth) / 2
	startY := (height - boxHeight) / 2

	text := screen.TreeNormalStyle()
	for y := startY; y < startY+boxHeight; y++ {
		screen.FillRow(startX, y, boxWidth, text)
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, screen.CanvasBorderStyle())
	screen.DrawStringLimited(startX+2, startY, title, boxWidth-4, screen.HeaderStyle())

	visible := boxHeight - 3
	first := 0
	if highlight >= visible {
		first = highlight - visible + 1
	}
	y := startY + 2
	for i := first; i < len(lines) && y < startY+boxHeight-1; i++ {
		style := text
		if i == highlight {
			style = screen.TreeCursorStyle()
			screen.FillRow(startX+1, y, boxWidth-2, style)
		}
		screen.DrawStringLimited(startX+2, y, lines[i], boxWidth-4, style)
		y++
	}
}
