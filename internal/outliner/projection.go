// Package outliner projects the region store into a display tree and turns
// tree interactions (select, hover, drop, visibility) into store mutations
package outliner

import (
	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/theme"
)

const (
	nodeClass       = "tree__node"
	nodeHiddenClass = "tree__node_hidden"
	selectionAlpha  = 0.1
)

// Group is the grouping dimension of a region, rendered as group header
type Group struct {
	Title string
	Type  string
}

// Style exposes the node colour as the style variables the widget uses
type Style struct {
	IconColor      string
	TextColor      string
	SelectionColor string
}

// Vars returns the style as CSS custom properties
func (s Style) Vars() map[string]string {
	return map[string]string{
		"--icon-color":      s.IconColor,
		"--text-color":      s.TextColor,
		"--selection-color": s.SelectionColor,
	}
}

// DisplayNode is one row of the outliner tree. Nodes are rebuilt on every
// projection and must not be kept across renders.
type DisplayNode struct {
	Key       string
	Title     string
	Hovered   bool
	Color     string
	Style     Style
	ClassName string
	Group     *Group
	Score     *float64
	// Prediction marks regions produced by a model
	Prediction bool
	Hidden     bool
	// Classification marks group headers, which are not regions
	Classification bool
	Region         *model.Region
	Children       []*DisplayNode
}

// IsLeaf reports whether the node has no children
func (n *DisplayNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Project builds the display forest for the current store state
func Project(store *model.RegionStore, hoveredID string, grouping model.Grouping, ordering model.Ordering) []*DisplayNode {
	return projectNodes(store.AsTree(grouping, ordering), hoveredID)
}

func projectNodes(nodes []*model.TreeNode, hoveredID string) []*DisplayNode {
	result := make([]*DisplayNode, 0, len(nodes))
	for _, n := range nodes {
		var dn *DisplayNode
		if n.Header != nil {
			dn = projectHeader(n.Header)
		} else {
			dn = projectRegion(n.Region, hoveredID)
		}
		dn.Children = projectNodes(n.Children, hoveredID)
		result = append(result, dn)
	}
	return result
}

func projectHeader(h *model.GroupHeader) *DisplayNode {
	color := h.Color
	if color == "" {
		color = model.DefaultLabelColor
	}
	style := styleFor(color)
	return &DisplayNode{
		Key:            h.Key,
		Title:          h.Title,
		Color:          style.IconColor,
		Style:          style,
		ClassName:      nodeClass,
		Classification: true,
	}
}

func projectRegion(r *model.Region, hoveredID string) *DisplayNode {
	style := styleFor(r.OneColor())

	className := nodeClass
	if r.Hidden {
		className += " " + nodeHiddenClass
	}

	node := &DisplayNode{
		Key:        r.ID,
		Title:      r.Title(),
		Hovered:    r.ID == hoveredID,
		Color:      style.IconColor,
		Style:      style,
		ClassName:  className,
		Score:      r.Score,
		Prediction: r.IsPrediction(),
		Hidden:     r.Hidden,
		Region:     r,
	}

	if r.Labeling != nil && r.Labeling.ToName != nil {
		groupType := r.Labeling.ToName.Type
		groupLabel := r.Labeling.ToName.GroupTitle()
		if groupType != "" && groupLabel != "" {
			node.Group = &Group{Title: groupLabel, Type: groupType}
		}
	}

	return node
}

// styleFor forces the colour to full opacity; unparsable colours fall back
// to the default label colour
func styleFor(color string) Style {
	c, _, err := theme.ParseCSSColor(color)
	if err != nil {
		c, _, _ = theme.ParseCSSColor(model.DefaultLabelColor)
	}
	opaque := theme.CSS(c, 1)
	return Style{
		IconColor:      opaque,
		TextColor:      opaque,
		SelectionColor: theme.CSS(c, selectionAlpha),
	}
}

// Walk visits every node depth-first with its level (1 for top-level nodes)
func Walk(nodes []*DisplayNode, fn func(n *DisplayNode, level int)) {
	walk(nodes, 1, fn)
}

func walk(nodes []*DisplayNode, level int, fn func(n *DisplayNode, level int)) {
	for _, n := range nodes {
		fn(n, level)
		walk(n.Children, level+1, fn)
	}
}
