package ui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// CanvasPanel draws a terminal preview of the annotated object: a box per
// visible rectangle region and a marker per point or polygon vertex. Text
// and audio spans have no geometry and are listed below the frame.
type CanvasPanel struct {
	store  *model.RegionStore
	shapes int
}

// NewCanvasPanel creates a canvas over store
func NewCanvasPanel(store *model.RegionStore) *CanvasPanel {
	return &CanvasPanel{store: store}
}

// ShapeCount returns how many visible regions the last Render represented.
// Spans that did not fit under the frame are counted in the "+N more" line.
func (c *CanvasPanel) ShapeCount() int {
	return c.shapes
}

// Render draws the frame and the visible regions into the rectangle
func (c *CanvasPanel) Render(screen *Screen, x, y, width, height int) {
	var shapes, spans []*model.Region
	for _, r := range c.store.Regions() {
		switch {
		case r.Hidden:
		case hasGeometry(r):
			shapes = append(shapes, r)
		default:
			spans = append(spans, r)
		}
	}
	c.shapes = len(shapes) + len(spans)

	for row := y; row < y+height; row++ {
		screen.FillRow(x, row, width, screen.BackgroundStyle())
	}
	if width < 4 || height < 3 {
		return
	}

	spanRows := min(len(spans), height/3)
	frameHeight := height - spanRows
	drawBox(screen, x, y, width, frameHeight, screen.CanvasBorderStyle())

	inner := rect{x: x + 1, y: y + 1, w: width - 2, h: frameHeight - 2}
	for _, r := range shapes {
		style := c.styleFor(screen, r)
		if len(r.Value.Points) > 0 {
			for _, p := range r.Value.Points {
				if len(p) >= 2 {
					px, py := inner.scale(p[0], p[1])
					screen.SetCell(px, py, '•', style)
				}
			}
		} else if r.Value.Width > 0 && r.Value.Height > 0 {
			x0, y0 := inner.scale(r.Value.X, r.Value.Y)
			x1, y1 := inner.scale(r.Value.X+r.Value.Width, r.Value.Y+r.Value.Height)
			drawBox(screen, x0, y0, max(x1-x0+1, 2), max(y1-y0+1, 2), style)
			screen.DrawStringLimited(x0+1, y0, r.Title(), x1-x0-1, style)
		} else {
			px, py := inner.scale(r.Value.X, r.Value.Y)
			screen.SetCell(px, py, '+', style)
		}
	}

	row := y + frameHeight
	for i, r := range spans {
		if i == spanRows-1 && len(spans) > spanRows {
			more := fmt.Sprintf("  +%d more", len(spans)-i)
			screen.DrawStringLimited(x, row, more, width, screen.CanvasBorderStyle())
			break
		}
		line := fmt.Sprintf("▌%s %s", r.Title(), spanText(r))
		screen.DrawStringLimited(x, row, line, width, c.styleFor(screen, r))
		row++
	}
}

func (c *CanvasPanel) styleFor(screen *Screen, r *model.Region) tcell.Style {
	style := screen.LabelStyle(r.OneColor())
	if r.Highlighted {
		style = style.Reverse(true)
	}
	if c.store.Selection().IsSelected(r.ID) {
		style = style.Bold(true)
	}
	return style
}

func hasGeometry(r *model.Region) bool {
	v := r.Value
	return len(v.Points) > 0 || v.Width > 0 || v.Height > 0 || v.X != 0 || v.Y != 0
}

func spanText(r *model.Region) string {
	switch {
	case r.Value.Text != "":
		return fmt.Sprintf("%q", r.Value.Text)
	case r.Value.Start != nil || r.Value.End != nil:
		return fmt.Sprintf("[%v..%v]", r.Value.Start, r.Value.End)
	default:
		return ""
	}
}

type rect struct {
	x, y, w, h int
}

// scale maps percentage coordinates onto the rectangle
func (r rect) scale(px, py float64) (int, int) {
	cx := r.x + int(math.Round(clampPercent(px)/100*float64(r.w-1)))
	cy := r.y + int(math.Round(clampPercent(py)/100*float64(r.h-1)))
	return cx, cy
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	right, bottom := x+width-1, y+height-1
	for i := x + 1; i < right; i++ {
		screen.SetCell(i, y, '─', style)
		screen.SetCell(i, bottom, '─', style)
	}
	for j := y + 1; j < bottom; j++ {
		screen.SetCell(x, j, '│', style)
		screen.SetCell(right, j, '│', style)
	}
	screen.SetCell(x, y, '┌', style)
	screen.SetCell(right, y, '┐', style)
	screen.SetCell(x, bottom, '└', style)
	screen.SetCell(right, bottom, '┘', style)
}
