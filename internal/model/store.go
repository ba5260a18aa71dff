package model

import (
	"sort"
)

// Grouping selects how the outliner partitions regions
type Grouping string

const (
	GroupingManual Grouping = "manual"
	GroupingLabel  Grouping = "label"
	GroupingType   Grouping = "type"
)

// Groupings lists the grouping modes in cycling order
var Groupings = []Grouping{GroupingManual, GroupingLabel, GroupingType}

// OrderBy selects the sort key for sibling regions
type OrderBy string

const (
	OrderByDate  OrderBy = "date"
	OrderByScore OrderBy = "score"
)

// Ordering is a sort key plus direction
type Ordering struct {
	By         OrderBy
	Descending bool
}

// DefaultOrdering keeps regions in creation order
var DefaultOrdering = Ordering{By: OrderByDate}

// EventKind identifies what changed in the store
type EventKind int

const (
	EventAdded EventKind = iota
	EventRemoved
	EventParentChanged
	EventHighlightChanged
	EventVisibilityChanged
	EventSelectionChanged
)

// Event is published to subscribers after every store mutation
type Event struct {
	Kind     EventKind
	RegionID string
}

// GroupHeader is a non-region node used by grouped views
type GroupHeader struct {
	Key   string
	Title string
	Color string
}

// TreeNode is one node of the materialized region forest
type TreeNode struct {
	Region   *Region
	Header   *GroupHeader
	Children []*TreeNode
}

// RegionStore owns every region of an annotation. Regions live in an
// id-indexed arena; the hierarchy is expressed through ParentID only.
type RegionStore struct {
	regions     map[string]*Region
	order       []string
	selection   *Selection
	subscribers map[int]func(Event)
	nextSubID   int
}

// NewRegionStore creates an empty store
func NewRegionStore() *RegionStore {
	s := &RegionStore{
		regions:     make(map[string]*Region),
		subscribers: make(map[int]func(Event)),
	}
	s.selection = &Selection{store: s, ids: make(map[string]struct{})}
	return s
}

// Subscribe registers fn for change events and returns a function that
// removes the subscription again
func (s *RegionStore) Subscribe(fn func(Event)) func() {
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		delete(s.subscribers, id)
	}
}

func (s *RegionStore) publish(kind EventKind, regionID string) {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.subscribers[id]; ok {
			fn(Event{Kind: kind, RegionID: regionID})
		}
	}
}

// Add inserts a region, replacing an existing region with the same id
func (s *RegionStore) Add(r *Region) {
	if _, exists := s.regions[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.regions[r.ID] = r
	s.publish(EventAdded, r.ID)
}

// Remove deletes a region. Children of the removed region move to its parent.
func (s *RegionStore) Remove(id string) bool {
	r, ok := s.regions[id]
	if !ok {
		return false
	}
	for _, child := range s.FilterByParentID(id) {
		child.ParentID = r.ParentID
	}
	delete(s.regions, id)
	for idx, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:idx], s.order[idx+1:]...)
			break
		}
	}
	delete(s.selection.ids, id)
	s.publish(EventRemoved, id)
	return true
}

// Regions returns all regions in insertion order
func (s *RegionStore) Regions() []*Region {
	result := make([]*Region, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.regions[id])
	}
	return result
}

// Count returns the number of regions
func (s *RegionStore) Count() int {
	return len(s.order)
}

// FindRegion returns the region with the given id, nil for an empty id or
// an unknown region
func (s *RegionStore) FindRegion(id string) *Region {
	if id == "" {
		return nil
	}
	return s.regions[id]
}

// FindRegionID resolves a tree key to its region
func (s *RegionStore) FindRegionID(key string) *Region {
	return s.FindRegion(key)
}

// FilterByParentID returns the direct children of id in insertion order.
// An empty id returns the root regions.
func (s *RegionStore) FilterByParentID(id string) []*Region {
	var result []*Region
	for _, oid := range s.order {
		r := s.regions[oid]
		if r.ParentID == id {
			result = append(result, r)
		}
	}
	return result
}

// Selection returns the selection set of the store
func (s *RegionStore) Selection() *Selection {
	return s.selection
}

// SetParentID moves a region under parentID, or to the root for ""
func (s *RegionStore) SetParentID(r *Region, parentID string) {
	if r.ParentID == parentID {
		return
	}
	r.ParentID = parentID
	s.publish(EventParentChanged, r.ID)
}

// SetHighlight sets the highlight flag of a region
func (s *RegionStore) SetHighlight(r *Region, highlighted bool) {
	if r.Highlighted == highlighted {
		return
	}
	r.Highlighted = highlighted
	s.publish(EventHighlightChanged, r.ID)
}

// UnhighlightAll clears the highlight flag on every region
func (s *RegionStore) UnhighlightAll() {
	for _, id := range s.order {
		s.SetHighlight(s.regions[id], false)
	}
}

// SetHidden sets the hidden flag of a region
func (s *RegionStore) SetHidden(r *Region, hidden bool) {
	if r.Hidden == hidden {
		return
	}
	r.Hidden = hidden
	s.publish(EventVisibilityChanged, r.ID)
}

// ToggleHidden flips the hidden flag of a region
func (s *RegionStore) ToggleHidden(r *Region) {
	s.SetHidden(r, !r.Hidden)
}

// HideAll hides every region
func (s *RegionStore) HideAll() {
	for _, id := range s.order {
		s.SetHidden(s.regions[id], true)
	}
}

// ShowAll shows every region
func (s *RegionStore) ShowAll() {
	for _, id := range s.order {
		s.SetHidden(s.regions[id], false)
	}
}

// VisibleCount returns the number of regions that are not hidden
func (s *RegionStore) VisibleCount() int {
	count := 0
	for _, id := range s.order {
		if !s.regions[id].Hidden {
			count++
		}
	}
	return count
}

// AsTree materializes the regions as an ordered forest. The manual grouping
// follows ParentID; the label and type groupings put every region under a
// header node. Every region appears exactly once.
func (s *RegionStore) AsTree(grouping Grouping, ordering Ordering) []*TreeNode {
	regions := s.Regions()
	sortRegions(regions, ordering)

	switch grouping {
	case GroupingLabel:
		return groupRegions(regions, func(r *Region) (string, string, string) {
			if r.Labeling == nil || len(r.Labeling.SelectedLabels) == 0 {
				return "label:", "No label", ""
			}
			l := r.Labeling.SelectedLabels[0]
			return "label:" + l.Value, l.Value, r.OneColor()
		})
	case GroupingType:
		return groupRegions(regions, func(r *Region) (string, string, string) {
			return "type:" + r.Type, r.Type, ""
		})
	default:
		return s.manualTree(regions)
	}
}

func (s *RegionStore) manualTree(sorted []*Region) []*TreeNode {
	children := make(map[string][]*Region)
	var roots []*Region
	for _, r := range sorted {
		if r.ParentID == "" || s.regions[r.ParentID] == nil {
			roots = append(roots, r)
			continue
		}
		children[r.ParentID] = append(children[r.ParentID], r)
	}

	placed := make(map[string]bool, len(sorted))
	var build func(r *Region) *TreeNode
	build = func(r *Region) *TreeNode {
		placed[r.ID] = true
		node := &TreeNode{Region: r}
		for _, child := range children[r.ID] {
			if placed[child.ID] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	var forest []*TreeNode
	for _, r := range roots {
		forest = append(forest, build(r))
	}
	// regions caught in a parent cycle never reach a root
	for _, r := range sorted {
		if !placed[r.ID] {
			forest = append(forest, build(r))
		}
	}
	return forest
}

func groupRegions(sorted []*Region, keyOf func(r *Region) (key, title, color string)) []*TreeNode {
	var forest []*TreeNode
	headers := make(map[string]*TreeNode)
	for _, r := range sorted {
		key, title, color := keyOf(r)
		header, ok := headers[key]
		if !ok {
			header = &TreeNode{Header: &GroupHeader{Key: key, Title: title, Color: color}}
			headers[key] = header
			forest = append(forest, header)
		}
		header.Children = append(header.Children, &TreeNode{Region: r})
	}
	return forest
}

func sortRegions(regions []*Region, ordering Ordering) {
	less := func(a, b *Region) bool {
		if ordering.By == OrderByScore {
			return scoreOf(a) < scoreOf(b)
		}
		return a.Created.Before(b.Created)
	}
	sort.SliceStable(regions, func(i, j int) bool {
		if ordering.Descending {
			return less(regions[j], regions[i])
		}
		return less(regions[i], regions[j])
	})
}

func scoreOf(r *Region) float64 {
	if r.Score == nil {
		return -1
	}
	return *r.Score
}

// Selection is the set of selected region ids
type Selection struct {
	store *RegionStore
	ids   map[string]struct{}
}

// Clear empties the selection
func (sel *Selection) Clear() {
	if len(sel.ids) == 0 {
		return
	}
	sel.ids = make(map[string]struct{})
	sel.store.publish(EventSelectionChanged, "")
}

// Select adds a region to the selection
func (sel *Selection) Select(r *Region) {
	if _, ok := sel.ids[r.ID]; ok {
		return
	}
	sel.ids[r.ID] = struct{}{}
	sel.store.publish(EventSelectionChanged, r.ID)
}

// Unselect removes a region from the selection
func (sel *Selection) Unselect(r *Region) {
	if _, ok := sel.ids[r.ID]; !ok {
		return
	}
	delete(sel.ids, r.ID)
	sel.store.publish(EventSelectionChanged, r.ID)
}

// IsSelected reports whether the region id is selected
func (sel *Selection) IsSelected(id string) bool {
	_, ok := sel.ids[id]
	return ok
}

// IDs returns the selected ids sorted
func (sel *Selection) IDs() []string {
	ids := make([]string, 0, len(sel.ids))
	for id := range sel.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of selected regions
func (sel *Selection) Len() int {
	return len(sel.ids)
}
