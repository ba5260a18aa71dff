package outliner

import (
	"log"
	"strings"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// PositionBefore is the relative drop position above the target node
const PositionBefore = -1

// Drop describes a drag-and-drop request from the tree widget
type Drop struct {
	DraggedID string
	TargetID  string
	// Position is relative to the target: PositionBefore, 0 (onto) or 1 (after)
	Position int
	// Gap is set when the drop lands between two rows instead of on a row
	Gap bool
	// TargetLevel is the depth of the target row, 1 for top-level rows
	TargetLevel int
	// TargetClassification is set when the target is a group header
	TargetClassification bool
}

// LevelOf returns the level of a widget index path; the leading segment is
// the virtual root, so "0-3" is a top-level row
func LevelOf(pos string) int {
	return len(strings.Split(pos, "-")) - 1
}

// AttemptReparent applies a drop when the taxonomy allows it. It returns
// false and leaves the store untouched for every rejected drop.
func AttemptReparent(store *model.RegionStore, drop Drop) bool {
	if drop.TargetClassification {
		return false
	}

	dragged := store.FindRegionID(drop.DraggedID)
	target := store.FindRegionID(drop.TargetID)
	if dragged == nil || target == nil {
		log.Printf("drop ignored: unknown region (dragged=%q target=%q)", drop.DraggedID, drop.TargetID)
		return false
	}

	if drop.TargetLevel == 1 && drop.Gap && drop.Position == PositionBefore {
		store.UnhighlightAll()
		store.SetParentID(dragged, "")
		return true
	}

	if drop.Position == PositionBefore {
		return false
	}

	if reason := rejectReason(store, dragged, target); reason != "" {
		log.Printf("drop of %s onto %s rejected: %s", dragged.ID, target.ID, reason)
		return false
	}

	store.UnhighlightAll()
	store.SetParentID(dragged, target.ID)
	return true
}

// CanContain reports whether dragged may become a child of target. The
// outliner uses it to mark drop targets while a region is grabbed.
func CanContain(store *model.RegionStore, dragged, target *model.Region) bool {
	return rejectReason(store, dragged, target) == ""
}

func rejectReason(store *model.RegionStore, dragged, target *model.Region) string {
	if dragged.ID == target.ID {
		return "region dropped onto itself"
	}
	if isAncestor(store, dragged.ID, target) {
		return "target is a descendant of the dragged region"
	}

	if allowed := target.CanContain(); len(allowed) > 0 {
		if !intersects(allowed, dragged.LabelIDs()) {
			return "label not allowed by groupcancontain"
		}
	}

	if maxDepth := target.GroupDepth(); maxDepth >= 0 {
		remaining := maxDepth - TreeHeight(store, dragged) - chainLength(store, target)
		if remaining < 0 {
			return "groupdepth exceeded"
		}
	}

	return ""
}

// TreeHeight returns the height of the subtree rooted at r: 0 for a leaf,
// otherwise one more than its tallest child. Children are looked up through
// FilterByParentID on every level, which is fine for annotation sized trees.
func TreeHeight(store *model.RegionStore, r *model.Region) int {
	if r == nil {
		return 0
	}
	return treeHeight(store, r, map[string]bool{})
}

func treeHeight(store *model.RegionStore, r *model.Region, visiting map[string]bool) int {
	visiting[r.ID] = true
	defer delete(visiting, r.ID)

	height := 0
	hasChildren := false
	for _, child := range store.FilterByParentID(r.ID) {
		if visiting[child.ID] {
			continue
		}
		hasChildren = true
		if h := treeHeight(store, child, visiting); h > height {
			height = h
		}
	}
	if !hasChildren {
		return 0
	}
	return height + 1
}

// chainLength counts r and its ancestors up to the root
func chainLength(store *model.RegionStore, r *model.Region) int {
	count := 0
	seen := map[string]bool{}
	for reg := r; reg != nil && !seen[reg.ID]; reg = store.FindRegion(reg.ParentID) {
		seen[reg.ID] = true
		count++
	}
	return count
}

// isAncestor reports whether id is r itself or one of its ancestors
func isAncestor(store *model.RegionStore, id string, r *model.Region) bool {
	seen := map[string]bool{}
	for reg := r; reg != nil && !seen[reg.ID]; reg = store.FindRegion(reg.ParentID) {
		if reg.ID == id {
			return true
		}
		seen[reg.ID] = true
	}
	return false
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
