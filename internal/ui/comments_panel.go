package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/tui-annotator/internal/comments"
	"github.com/pstuifzand/tui-annotator/internal/model"
)

// DefaultTimeFormat is the strftime layout of comment timestamps
const DefaultTimeFormat = "%Y-%m-%d %H:%M"

// CommentsPanel shows the comment thread of the annotation and the inline
// form for new comments. Showing the panel mounts its loader.
type CommentsPanel struct {
	loader     *comments.Loader
	input      *LineInput
	timeFormat string
	visible    bool
}

// NewCommentsPanel creates a hidden panel over loader. An empty timeFormat
// uses DefaultTimeFormat.
func NewCommentsPanel(loader *comments.Loader, timeFormat string) *CommentsPanel {
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	return &CommentsPanel{
		loader:     loader,
		input:      NewLineInput("comment> ", nil),
		timeFormat: timeFormat,
	}
}

// Loader returns the loader behind the panel
func (p *CommentsPanel) Loader() *comments.Loader {
	return p.loader
}

// Show mounts the panel
func (p *CommentsPanel) Show() {
	p.visible = true
	p.loader.Mount()
}

// Hide unmounts the panel; loads in flight are discarded
func (p *CommentsPanel) Hide() {
	p.visible = false
	p.input.Stop()
	p.loader.Unmount()
}

// IsVisible returns whether the panel is shown
func (p *CommentsPanel) IsVisible() bool {
	return p.visible
}

// StartInput opens the comment form, showing the panel when needed
func (p *CommentsPanel) StartInput() {
	if !p.visible {
		p.Show()
	}
	p.input.Start("")
}

// InputActive returns whether the comment form receives keys
func (p *CommentsPanel) InputActive() bool {
	return p.input.IsActive()
}

// HandleKey edits the comment form. A submitted non-empty comment is added
// to the thread as a draft and returned.
func (p *CommentsPanel) HandleKey(ctx context.Context, ev *tcell.EventKey) (*model.Comment, error) {
	text, done := p.input.HandleKey(ev)
	if !done || text == "" {
		return nil, nil
	}
	return p.loader.Store().AddComment(ctx, text)
}

// FormatTime formats a comment timestamp with the panel's layout
func (p *CommentsPanel) FormatTime(c *model.Comment) string {
	return strftime.Format(p.timeFormat, c.CreatedAt.Local())
}

// Render draws the thread bottom-aligned above the comment form
func (p *CommentsPanel) Render(screen *Screen, x, y, width, height int) {
	for row := y; row < y+height; row++ {
		screen.FillRow(x, row, width, screen.BackgroundStyle())
	}
	if !p.visible || height < 2 || width < 4 {
		return
	}

	thread := p.loader.Store().Comments()
	title := fmt.Sprintf("Comments (%d)", len(thread))
	if p.loader.Store().HasUnsaved() {
		title += " *"
	}
	screen.DrawStringLimited(x, y, title, width, screen.HeaderStyle())

	bottom := y + height
	if p.input.IsActive() {
		bottom--
		p.input.RenderAt(screen, x, bottom, width)
	}

	var lines []commentLine
	for _, c := range thread {
		lines = append(lines, p.layout(screen, c, width)...)
	}
	start := max(len(lines)-(bottom-y-1), 0)
	row := y + 1
	for _, l := range lines[start:] {
		col := x
		for _, seg := range l {
			col += screen.DrawStringLimited(col, row, seg.text, x+width-col, seg.style)
		}
		row++
	}
}

type segment struct {
	text  string
	style tcell.Style
}

type commentLine []segment

func (p *CommentsPanel) layout(screen *Screen, c *model.Comment, width int) []commentLine {
	author := c.Author
	if author == "" {
		author = "anonymous"
	}
	header := commentLine{
		{author, screen.CommentAuthorStyle()},
		{" " + p.FormatTime(c), screen.CommentTimeStyle()},
	}
	if c.Unsaved {
		header = append(header, segment{" (draft)", screen.CommentDraftStyle()})
	}

	textStyle := screen.CommentTextStyle()
	if c.Unsaved {
		textStyle = screen.CommentDraftStyle()
	}
	lines := []commentLine{header}
	for _, l := range WrapText(c.Text, width-2) {
		lines = append(lines, commentLine{{"  " + l, textStyle}})
	}
	return lines
}
