package ui

import (
	"fmt"
	"log"
	"strconv"

	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/outliner"
)

// Glyphs of the outliner
const (
	GlyphExpanded     = '▾'
	GlyphDropTarget   = '›'
	GlyphSwatch       = '■'
	GlyphPrediction   = '◆'
	GlyphEye          = '●'
	GlyphEyeInvisible = '○'
)

// IconGlyph maps a visibility icon name to the glyph drawn for it
func IconGlyph(icon string) rune {
	switch icon {
	case outliner.IconEye:
		return GlyphEye
	case outliner.IconEyeInvisible:
		return GlyphEyeInvisible
	default:
		return ' '
	}
}

// Row is one line of the outliner
type Row struct {
	Node  *outliner.DisplayNode
	Level int    // 1 for top-level rows
	Pos   string // index path from the virtual root, "0-2-1"
}

// Zone is the part of the outliner a point falls in
type Zone int

const (
	ZoneNone Zone = iota
	ZoneHeader
	ZoneBulkToggle
	ZoneRow
	ZoneRowToggle
)

// OutlinerView renders the region tree and maps keys and clicks onto the
// store through the outliner package
type OutlinerView struct {
	store       *model.RegionStore
	coord       *outliner.Coordinator
	unsubscribe func()

	grouping model.Grouping
	ordering model.Ordering

	rows    []Row
	stale   bool
	cursor  int
	offset  int
	grabbed string

	// geometry of the last Render
	x, y, width, height int
}

// NewOutlinerView creates a view over store in manual grouping by date
func NewOutlinerView(store *model.RegionStore) *OutlinerView {
	v := &OutlinerView{
		store:    store,
		coord:    outliner.NewCoordinator(store),
		grouping: model.GroupingManual,
		ordering: model.DefaultOrdering,
		stale:    true,
	}
	v.unsubscribe = store.Subscribe(func(model.Event) { v.stale = true })
	return v
}

// Close detaches the view from the store
func (v *OutlinerView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Coordinator returns the selection and hover coordinator of the view
func (v *OutlinerView) Coordinator() *outliner.Coordinator {
	return v.coord
}

// Grouping returns the grouping mode
func (v *OutlinerView) Grouping() model.Grouping {
	return v.grouping
}

// SetGrouping switches the grouping mode
func (v *OutlinerView) SetGrouping(g model.Grouping) {
	if v.grouping != g {
		v.grouping = g
		v.stale = true
	}
}

// CycleGrouping switches to the next grouping mode and returns it
func (v *OutlinerView) CycleGrouping() model.Grouping {
	for i, g := range model.Groupings {
		if g == v.grouping {
			v.SetGrouping(model.Groupings[(i+1)%len(model.Groupings)])
			return v.grouping
		}
	}
	v.SetGrouping(model.GroupingManual)
	return v.grouping
}

// Ordering returns the ordering
func (v *OutlinerView) Ordering() model.Ordering {
	return v.ordering
}

// SetOrdering switches the ordering
func (v *OutlinerView) SetOrdering(o model.Ordering) {
	if v.ordering != o {
		v.ordering = o
		v.stale = true
	}
}

// CycleOrdering steps through date ascending, date descending, score
// ascending and score descending
func (v *OutlinerView) CycleOrdering() model.Ordering {
	o := v.ordering
	switch {
	case !o.Descending:
		o.Descending = true
	case o.By == model.OrderByDate:
		o = model.Ordering{By: model.OrderByScore}
	default:
		o = model.DefaultOrdering
	}
	v.SetOrdering(o)
	return o
}

// Rows returns the current rows, rebuilding them after store changes
func (v *OutlinerView) Rows() []Row {
	if v.stale {
		v.rebuild()
	}
	return v.rows
}

func (v *OutlinerView) rebuild() {
	var cursorKey string
	if v.cursor < len(v.rows) {
		cursorKey = v.rows[v.cursor].Node.Key
	}

	nodes := outliner.Project(v.store, v.coord.Hovered(), v.grouping, v.ordering)
	v.rows = v.rows[:0]
	v.appendRows(nodes, "0", 1)
	v.stale = false

	if i := v.indexOf(cursorKey); i >= 0 {
		v.cursor = i
	}
	v.clampCursor()
}

func (v *OutlinerView) appendRows(nodes []*outliner.DisplayNode, parentPos string, level int) {
	for i, n := range nodes {
		pos := parentPos + "-" + strconv.Itoa(i)
		v.rows = append(v.rows, Row{Node: n, Level: level, Pos: pos})
		v.appendRows(n.Children, pos, level+1)
	}
}

func (v *OutlinerView) indexOf(key string) int {
	if key == "" {
		return -1
	}
	for i, r := range v.rows {
		if r.Node.Key == key {
			return i
		}
	}
	return -1
}

func (v *OutlinerView) clampCursor() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// CursorRow returns the row under the cursor, nil when the tree is empty
func (v *OutlinerView) CursorRow() *Row {
	rows := v.Rows()
	if len(rows) == 0 {
		return nil
	}
	return &rows[v.cursor]
}

// CursorRegion returns the region under the cursor, nil on headers
func (v *OutlinerView) CursorRegion() *model.Region {
	if row := v.CursorRow(); row != nil {
		return row.Node.Region
	}
	return nil
}

// MoveCursor moves the cursor by delta rows and hovers the new row
func (v *OutlinerView) MoveCursor(delta int) {
	v.SetCursor(v.cursor + delta)
}

// SetCursor puts the cursor on row i, clamped to the rows
func (v *OutlinerView) SetCursor(i int) {
	rows := v.Rows()
	if len(rows) == 0 {
		return
	}
	v.cursor = i
	v.clampCursor()
	v.hover(rows[v.cursor].Node)
}

// SetCursorToID puts the cursor on the row with key id
func (v *OutlinerView) SetCursorToID(id string) bool {
	v.Rows()
	i := v.indexOf(id)
	if i < 0 {
		return false
	}
	v.SetCursor(i)
	return true
}

func (v *OutlinerView) hover(n *outliner.DisplayNode) {
	prev := v.coord.Hovered()
	if n.Region == nil {
		if prev != "" {
			v.coord.OnHoverLeave(prev)
		}
		return
	}
	if prev != "" && prev != n.Key {
		v.coord.OnHoverLeave(prev)
	}
	v.coord.OnHoverEnter(n.Key)
}

// Select toggles the selection of row i. Without multi only that region
// stays selected.
func (v *OutlinerView) Select(i int, multi bool) {
	rows := v.Rows()
	if i < 0 || i >= len(rows) || rows[i].Node.Region == nil {
		return
	}
	id := rows[i].Node.Key
	v.coord.OnSelect(id, multi, !v.store.Selection().IsSelected(id))
}

// SelectCursor is Select for the cursor row
func (v *OutlinerView) SelectCursor(multi bool) {
	v.Select(v.cursor, multi)
}

// ToggleCursorVisibility flips the visibility of the cursor region
func (v *OutlinerView) ToggleCursorVisibility() bool {
	r := v.CursorRegion()
	if r == nil {
		return false
	}
	return outliner.ToggleRegion(v.store, r.ID)
}

// ToggleAll clicks the bulk visibility control
func (v *OutlinerView) ToggleAll() outliner.BulkState {
	return outliner.ToggleAll(v.store)
}

// Grab marks the cursor region for moving
func (v *OutlinerView) Grab() bool {
	r := v.CursorRegion()
	if r == nil {
		return false
	}
	v.grabbed = r.ID
	return true
}

// Grabbed returns the id of the region being moved, "" when none
func (v *OutlinerView) Grabbed() string {
	return v.grabbed
}

// CancelGrab stops moving
func (v *OutlinerView) CancelGrab() {
	v.grabbed = ""
}

// Drop moves the grabbed region relative to the cursor row. position is
// outliner.PositionBefore for a drop in the gap above the row, 0 for a drop
// onto the row.
func (v *OutlinerView) Drop(position int) bool {
	row := v.CursorRow()
	if v.grabbed == "" || row == nil {
		return false
	}
	return v.DropOn(*row, position)
}

// DropOn moves the grabbed region relative to row
func (v *OutlinerView) DropOn(row Row, position int) bool {
	if v.grabbed == "" {
		return false
	}
	drop := outliner.Drop{
		DraggedID:            v.grabbed,
		TargetID:             row.Node.Key,
		Position:             position,
		Gap:                  position == outliner.PositionBefore,
		TargetLevel:          outliner.LevelOf(row.Pos),
		TargetClassification: row.Node.Classification,
	}
	if !outliner.AttemptReparent(v.store, drop) {
		return false
	}
	log.Printf("moved region %s (target %s, position %d)", drop.DraggedID, drop.TargetID, position)
	dragged := v.grabbed
	v.grabbed = ""
	v.SetCursorToID(dragged)
	return true
}

// HitTest maps a screen point from the last Render to a zone and row index
func (v *OutlinerView) HitTest(x, y int) (Zone, int) {
	if x < v.x || x >= v.x+v.width || y < v.y || y >= v.y+v.height {
		return ZoneNone, -1
	}
	if y == v.y {
		if x == v.toggleColumn() && outliner.Bulk(v.store) != outliner.BulkNone {
			return ZoneBulkToggle, -1
		}
		return ZoneHeader, -1
	}
	i := v.offset + y - v.y - 1
	rows := v.Rows()
	if i >= len(rows) {
		return ZoneNone, -1
	}
	if x == v.toggleColumn() && rows[i].Node.Region != nil {
		return ZoneRowToggle, i
	}
	return ZoneRow, i
}

func (v *OutlinerView) toggleColumn() int {
	return v.x + v.width - 2
}

// Render draws the header line and the rows into the given rectangle
func (v *OutlinerView) Render(screen *Screen, x, y, width, height int) {
	v.x, v.y, v.width, v.height = x, y, width, height
	rows := v.Rows()

	v.renderHeader(screen)

	visible := height - 1
	if visible < 1 {
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	} else if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
	v.offset = max(min(v.offset, len(rows)-visible), 0)

	var grabbed *model.Region
	if v.grabbed != "" {
		grabbed = v.store.FindRegion(v.grabbed)
	}
	for line := 0; line < visible; line++ {
		screenY := y + 1 + line
		screen.FillRow(x, screenY, width, screen.BackgroundStyle())
		i := v.offset + line
		if i < len(rows) {
			v.renderRow(screen, rows[i], i == v.cursor, screenY, grabbed)
		}
	}
}

func (v *OutlinerView) renderHeader(screen *Screen) {
	bar := screen.HeaderBarStyle()
	screen.FillRow(v.x, v.y, v.width, bar)

	col := v.x + 1
	col += screen.DrawString(col, v.y, outliner.RegionCountLabel(v.store.Count()), screen.HeaderStyle())
	mode := fmt.Sprintf("  %s · %s", v.grouping, orderingLabel(v.ordering))
	screen.DrawStringLimited(col, v.y, mode, v.toggleColumn()-col-1, bar)

	if icon := outliner.BulkIcon(outliner.Bulk(v.store)); icon != "" {
		screen.SetCell(v.toggleColumn(), v.y, IconGlyph(icon), bar)
	}
}

func orderingLabel(o model.Ordering) string {
	if o.Descending {
		return string(o.By) + " ↓"
	}
	return string(o.By) + " ↑"
}

func (v *OutlinerView) renderRow(screen *Screen, row Row, atCursor bool, y int, grabbed *model.Region) {
	n := row.Node
	style := screen.TreeNormalStyle()
	switch {
	case n.Key == v.grabbed:
		style = screen.TreeGrabbedStyle()
	case n.Region != nil && v.store.Selection().IsSelected(n.Key):
		style = screen.TreeSelectedStyle()
	case n.Hidden:
		style = screen.TreeHiddenStyle()
	case n.Classification:
		style = screen.TreeGroupHeaderStyle()
	}
	if atCursor {
		_, bg, _ := screen.TreeCursorStyle().Decompose()
		style = style.Background(bg)
		screen.FillRow(v.x, y, v.width, style)
	}

	col := v.x + 2*(row.Level-1)
	if !n.IsLeaf() {
		screen.SetCell(col, y, GlyphExpanded, screen.TreeArrowStyle())
	}
	if grabbed != nil && n.Region != nil && outliner.CanContain(v.store, grabbed, n.Region) {
		screen.SetCell(col+1, y, GlyphDropTarget, screen.TreeGrabbedStyle())
	}
	col += 2

	_, bg, _ := style.Decompose()
	screen.SetCell(col, y, GlyphSwatch, screen.LabelStyle(n.Color).Background(bg))
	col += 2

	end := v.toggleColumn() - 1
	suffix := ""
	if n.Score != nil {
		suffix = fmt.Sprintf(" %.2f", *n.Score)
	}
	if n.Prediction {
		suffix += " " + string(GlyphPrediction)
	}
	title := n.Title
	if n.Group != nil && v.grouping == model.GroupingType {
		title += " (" + n.Group.Title + ")"
	}
	col += screen.DrawStringLimited(col, y, title, end-col-StringWidth(suffix), style)

	if n.Score != nil {
		col += screen.DrawString(col, y, fmt.Sprintf(" %.2f", *n.Score), screen.TreeScoreStyle().Background(bg))
	}
	if n.Prediction {
		screen.DrawString(col, y, " "+string(GlyphPrediction), screen.TreePredictionStyle().Background(bg))
	}

	if n.Region != nil {
		icon := outliner.RegionIcon(n.Region)
		screen.SetCell(v.toggleColumn(), y, IconGlyph(icon), screen.VisibilityStyle(!n.Hidden).Background(bg))
	}
}

// Candidates returns the searchable text of every region row
func (v *OutlinerView) Candidates() []SearchCandidate {
	var candidates []SearchCandidate
	for _, r := range v.Rows() {
		if r.Node.Region != nil {
			candidates = append(candidates, SearchCandidate{ID: r.Node.Key, Text: r.Node.Title + " " + r.Node.Key})
		}
	}
	return candidates
}
