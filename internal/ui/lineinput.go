package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// LineInput is a single-line prompt with readline-style editing and
// optional history. It backs the command line, search and the comment form.
type LineInput struct {
	prompt  string
	active  bool
	input   string
	cursor  int // byte offset into input
	history *History
}

// NewLineInput creates an inactive input drawn after prompt. history may be nil.
func NewLineInput(prompt string, history *History) *LineInput {
	return &LineInput{prompt: prompt, history: history}
}

// Start activates the input with initial text and the cursor at the end
func (l *LineInput) Start(initial string) {
	l.active = true
	l.input = initial
	l.cursor = len(initial)
	if l.history != nil {
		l.history.Reset()
	}
}

// Stop deactivates the input
func (l *LineInput) Stop() {
	l.active = false
	l.input = ""
	l.cursor = 0
}

// IsActive returns whether the input receives keys
func (l *LineInput) IsActive() bool {
	return l.active
}

// Value returns the trimmed text typed so far
func (l *LineInput) Value() string {
	return strings.TrimSpace(l.input)
}

// HandleKey edits the input. done is true when the input closed: Enter
// returns the trimmed text, Escape or Backspace on an empty line return "".
func (l *LineInput) HandleKey(ev *tcell.EventKey) (value string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		l.Stop()
		return "", true
	case tcell.KeyEnter:
		value = l.Value()
		if l.history != nil {
			l.history.Add(value)
		}
		l.Stop()
		return value, true
	case tcell.KeyUp:
		if l.history != nil {
			if prev, ok := l.history.Previous(l.input); ok {
				l.set(prev)
			}
		}
	case tcell.KeyDown:
		if l.history != nil {
			if next, ok := l.history.Next(); ok {
				l.set(next)
			}
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if l.input == "" {
			l.Stop()
			return "", true
		}
		if l.cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(l.input[:l.cursor])
			l.input = l.input[:l.cursor-size] + l.input[l.cursor:]
			l.cursor -= size
		}
	case tcell.KeyDelete:
		if l.cursor < len(l.input) {
			_, size := utf8.DecodeRuneInString(l.input[l.cursor:])
			l.input = l.input[:l.cursor] + l.input[l.cursor+size:]
		}
	case tcell.KeyLeft:
		if l.cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(l.input[:l.cursor])
			l.cursor -= size
		}
	case tcell.KeyRight:
		if l.cursor < len(l.input) {
			_, size := utf8.DecodeRuneInString(l.input[l.cursor:])
			l.cursor += size
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		l.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		l.cursor = len(l.input)
	case tcell.KeyCtrlU:
		l.input = l.input[l.cursor:]
		l.cursor = 0
	case tcell.KeyCtrlK:
		l.input = l.input[:l.cursor]
	case tcell.KeyCtrlW:
		l.deleteWordBackwards()
	case tcell.KeyRune:
		s := string(ev.Rune())
		l.input = l.input[:l.cursor] + s + l.input[l.cursor:]
		l.cursor += len(s)
	}
	return "", false
}

func (l *LineInput) set(s string) {
	l.input = s
	l.cursor = len(s)
}

func (l *LineInput) deleteWordBackwards() {
	pos := l.cursor
	for pos > 0 && l.input[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && l.input[pos-1] != ' ' {
		pos--
	}
	l.input = l.input[:pos] + l.input[l.cursor:]
	l.cursor = pos
}

// Render draws the prompt and text across row y
func (l *LineInput) Render(screen *Screen, y int) {
	l.RenderAt(screen, 0, y, screen.GetWidth())
}

// RenderAt draws the prompt and text into width columns starting at x
func (l *LineInput) RenderAt(screen *Screen, x, y, width int) {
	if !l.active {
		return
	}

	textStyle := screen.SearchTextStyle()
	cursorStyle := screen.InputCursorStyle()
	end := x + width

	screen.FillRow(x, y, width, textStyle)
	x += screen.DrawStringLimited(x, y, l.prompt, width, screen.SearchLabelStyle())

	// keep the cursor in view on long input
	text, cursor := l.input, l.cursor
	for StringWidth(text[:cursor]) >= end-x && cursor > 0 {
		_, size := utf8.DecodeRuneInString(text)
		text, cursor = text[size:], cursor-size
	}

	for i, r := range text {
		if x >= end {
			return
		}
		style := textStyle
		if i == cursor {
			style = cursorStyle
		}
		screen.SetCell(x, y, r, style)
		x += RuneWidth(r)
	}
	if cursor >= len(text) && x < end {
		screen.SetCell(x, y, ' ', cursorStyle)
	}
}
