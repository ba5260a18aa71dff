package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a terminal screen with the given theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom initializes an existing tcell screen, for example a
// simulation screen in tests
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at the given position and returns the number of
// columns used. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(x+col, y, r, style)
		col += w
	}
	return col
}

// DrawStringLimited draws text truncated to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidthWithEllipsis(text, maxWidth), style)
}

// FillRow paints columns [x, x+width) of row y with style
func (s *Screen) FillRow(x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetCell(x+i, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent queues an event for PollEvent
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.tcellScreen.PostEvent(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync resizes the screen after a terminal resize
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	s.width, s.height = s.tcellScreen.Size()
	return s.width, s.height
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// Theme-aware style methods

func (s *Screen) bg(fg tcell.Color) tcell.Style {
	return theme.ColorPairToStyle(fg, s.Theme.Colors.Background)
}

// BackgroundStyle returns the default background style for the application
func (s *Screen) BackgroundStyle() tcell.Style {
	return tcell.StyleDefault.Background(s.Theme.Colors.Background)
}

// TreeNormalStyle returns the style for region rows
func (s *Screen) TreeNormalStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreeNormalText)
}

// TreeSelectedStyle returns the style for selected regions
func (s *Screen) TreeSelectedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.TreeSelectedItem, s.Theme.Colors.TreeSelectedBg).Bold(true)
}

// TreeCursorStyle returns the style for the row under the cursor
func (s *Screen) TreeCursorStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.TreeNormalText, s.Theme.Colors.TreeCursorBg)
}

// TreeHiddenStyle returns the style for hidden regions
func (s *Screen) TreeHiddenStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreeHiddenText).Dim(true)
}

// TreeArrowStyle returns the style for switcher arrows
func (s *Screen) TreeArrowStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreeArrow)
}

// TreeGroupHeaderStyle returns the style for label and type headers
func (s *Screen) TreeGroupHeaderStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreeGroupHeader).Bold(true)
}

// TreeScoreStyle returns the style for prediction scores
func (s *Screen) TreeScoreStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreeScore)
}

// TreePredictionStyle returns the style for the prediction marker
func (s *Screen) TreePredictionStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreePrediction)
}

// TreeGrabbedStyle returns the style for a region being moved
func (s *Screen) TreeGrabbedStyle() tcell.Style {
	return s.bg(s.Theme.Colors.TreeGrabbed).Reverse(true)
}

// VisibilityStyle returns the style of a visibility icon
func (s *Screen) VisibilityStyle(visible bool) tcell.Style {
	if visible {
		return s.bg(s.Theme.Colors.VisibilityOn)
	}
	return s.bg(s.Theme.Colors.VisibilityOff)
}

// LabelStyle returns a style drawing in a label colour, any CSS colour string
func (s *Screen) LabelStyle(color string) tcell.Style {
	return s.bg(theme.ParseColorString(color))
}

// CanvasBorderStyle returns the style for the canvas frame
func (s *Screen) CanvasBorderStyle() tcell.Style {
	return s.bg(s.Theme.Colors.CanvasBorder)
}

// CommentAuthorStyle returns the style for comment authors
func (s *Screen) CommentAuthorStyle() tcell.Style {
	return s.bg(s.Theme.Colors.CommentAuthor).Bold(true)
}

// CommentTimeStyle returns the style for comment timestamps
func (s *Screen) CommentTimeStyle() tcell.Style {
	return s.bg(s.Theme.Colors.CommentTime)
}

// CommentTextStyle returns the style for comment text
func (s *Screen) CommentTextStyle() tcell.Style {
	return s.bg(s.Theme.Colors.CommentText)
}

// CommentDraftStyle returns the style for unpersisted comments
func (s *Screen) CommentDraftStyle() tcell.Style {
	return s.bg(s.Theme.Colors.CommentDraft).Italic(true)
}

// SearchLabelStyle returns the style for input prompts
func (s *Screen) SearchLabelStyle() tcell.Style {
	return s.bg(s.Theme.Colors.SearchLabel)
}

// SearchTextStyle returns the style for input text
func (s *Screen) SearchTextStyle() tcell.Style {
	return s.bg(s.Theme.Colors.SearchText)
}

// InputCursorStyle returns the style for the input cursor
func (s *Screen) InputCursorStyle() tcell.Style {
	return s.bg(s.Theme.Colors.SearchText).Reverse(true)
}

// StatusModeStyle returns the style for mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return s.bg(s.Theme.Colors.StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return s.bg(s.Theme.Colors.StatusMessage)
}

// StatusModifiedStyle returns the style for modified indicator
func (s *Screen) StatusModifiedStyle() tcell.Style {
	return s.bg(s.Theme.Colors.StatusModified)
}

// HeaderStyle returns the style for header title
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HeaderTitle, s.Theme.Colors.HeaderBg).Bold(true)
}

// HeaderBarStyle returns the header background without bold
func (s *Screen) HeaderBarStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HeaderTitle, s.Theme.Colors.HeaderBg)
}
